package usecase

import (
	"context"
	"time"

	hclog "github.com/hashicorp/go-hclog"

	"ttrack/internal/modules/sync/domain"
	"ttrack/internal/modules/sync/dto"
	syncin "ttrack/internal/modules/sync/port/in"
	"ttrack/internal/modules/sync/service"
)

type Interactor struct {
	svc    *service.SyncService
	logger hclog.Logger
}

func NewInteractor(svc *service.SyncService, logger hclog.Logger) syncin.Usecase {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &Interactor{svc: svc, logger: logger}
}

func (i *Interactor) RunPass(ctx context.Context) (dto.ReportOutput, error) {
	report, err := i.svc.RunPass(ctx)
	if err != nil {
		return dto.ReportOutput{}, err
	}
	return toReportOutput(report), nil
}

func (i *Interactor) Pending(ctx context.Context) (int, error) {
	return i.svc.Pending(ctx)
}

func (i *Interactor) RunPeriodic(ctx context.Context, interval time.Duration) error {
	if interval <= 0 {
		<-ctx.Done()
		return ctx.Err()
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if _, err := i.svc.RunPass(ctx); err != nil {
				i.logger.Error("sync pass failed", "error", err)
			}
		}
	}
}

func toReportOutput(report domain.Report) dto.ReportOutput {
	out := dto.ReportOutput{Synced: report.Synced, Failed: report.Failed, Skipped: report.Skipped}
	for _, outcome := range report.Outcomes {
		out.Outcomes = append(out.Outcomes, dto.OutcomeOutput{
			EntryID:   outcome.EntryID,
			RemoteRef: outcome.RemoteRef,
			Err:       outcome.Err,
			Duplicate: outcome.Duplicate,
			Skipped:   outcome.Skipped,
		})
	}
	return out
}
