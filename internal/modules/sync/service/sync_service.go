package service

import (
	"context"
	"fmt"
	"time"

	hclog "github.com/hashicorp/go-hclog"

	"ttrack/internal/modules/sync/domain"
	syncout "ttrack/internal/modules/sync/port/out"
	trackerdto "ttrack/internal/modules/tracker/dto"
	trackerin "ttrack/internal/modules/tracker/port/in"
	apperrors "ttrack/internal/platform/errors"
)

// SyncService reconciles closed, unreported entries against the remote
// tracker. It only ever touches sync-status fields and processes the
// queue oldest first, isolating each entry's failure from the rest.
type SyncService struct {
	queue         trackerin.SyncQueue
	gateway       syncout.WorklogGateway
	logger        hclog.Logger
	submitTimeout time.Duration
}

func NewSyncService(queue trackerin.SyncQueue, gateway syncout.WorklogGateway, logger hclog.Logger, submitTimeout time.Duration) *SyncService {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	if submitTimeout <= 0 {
		submitTimeout = 10 * time.Second
	}
	return &SyncService{queue: queue, gateway: gateway, logger: logger, submitTimeout: submitTimeout}
}

// Pending reports how many closed entries are waiting for a pass.
func (s *SyncService) Pending(ctx context.Context) (int, error) {
	entries, err := s.queue.ListUnsynced(ctx)
	if err != nil {
		return 0, fmt.Errorf("list sync queue: %w", err)
	}
	return len(entries), nil
}

// RunPass walks the queue once. Entries whose submission fails stay
// queued for the next pass; there is no in-pass retry.
func (s *SyncService) RunPass(ctx context.Context) (domain.Report, error) {
	entries, err := s.queue.ListUnsynced(ctx)
	if err != nil {
		return domain.Report{}, fmt.Errorf("list sync queue: %w", err)
	}

	report := domain.Report{}
	for _, entry := range entries {
		outcome := s.reconcile(ctx, entry)
		report.Outcomes = append(report.Outcomes, outcome)
		switch {
		case outcome.Skipped:
			report.Skipped++
		case outcome.Err != "":
			report.Failed++
		default:
			report.Synced++
		}
	}
	return report, nil
}

func (s *SyncService) reconcile(ctx context.Context, entry trackerdto.EntryOutput) domain.Outcome {
	outcome := domain.Outcome{EntryID: entry.ID}

	won, err := s.queue.ClaimForSync(ctx, entry.ID)
	if err != nil {
		outcome.Err = err.Error()
		s.logger.Error("claim failed", "entry_id", entry.ID, "error", err)
		return outcome
	}
	if !won {
		// Another pass holds this entry; leave it alone.
		outcome.Skipped = true
		return outcome
	}

	submission := domain.Submission{
		Ticket:  entry.Ticket,
		Started: entry.StartedAt,
		Worked:  entry.Worked,
		Comment: entry.TaskName,
	}
	if err := submission.Validate(); err != nil {
		s.fail(ctx, &outcome, entry.ID, apperrors.NewRemoteError(apperrors.RemotePermanent, err))
		return outcome
	}

	callCtx, cancel := context.WithTimeout(ctx, s.submitTimeout)
	remoteRef, err := s.gateway.Submit(callCtx, submission)
	cancel()

	switch {
	case err == nil:
		s.markSynced(ctx, &outcome, entry.ID, remoteRef)
	case apperrors.IsDuplicate(err):
		// The remote side already has this work log; record it as
		// synced instead of submitting again.
		outcome.Duplicate = true
		s.markSynced(ctx, &outcome, entry.ID, remoteRef)
	default:
		s.fail(ctx, &outcome, entry.ID, err)
	}
	return outcome
}

func (s *SyncService) markSynced(ctx context.Context, outcome *domain.Outcome, entryID, remoteRef string) {
	// The claim must be released even when the pass context died mid-submit.
	ctx = context.WithoutCancel(ctx)
	if err := s.queue.MarkSynced(ctx, entryID, remoteRef); err != nil {
		outcome.Err = err.Error()
		s.logger.Error("mark synced failed", "entry_id", entryID, "error", err)
		return
	}
	outcome.RemoteRef = remoteRef
	s.logger.Info("entry synced", "entry_id", entryID, "remote_ref", remoteRef, "duplicate", outcome.Duplicate)
}

// fail records the failure and releases the syncing claim so the entry
// is retried on the next pass instead of staying stuck.
func (s *SyncService) fail(ctx context.Context, outcome *domain.Outcome, entryID string, submitErr error) {
	outcome.Err = submitErr.Error()
	ctx = context.WithoutCancel(ctx)
	if err := s.queue.MarkSyncFailed(ctx, entryID, submitErr.Error()); err != nil {
		s.logger.Error("mark sync failed errored", "entry_id", entryID, "error", err)
		return
	}
	if apperrors.IsPermanent(submitErr) {
		s.logger.Error("entry needs attention", "entry_id", entryID, "error", submitErr)
		return
	}
	s.logger.Warn("entry sync failed, will retry", "entry_id", entryID, "error", submitErr)
}
