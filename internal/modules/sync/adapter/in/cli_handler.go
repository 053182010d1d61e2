package in

import (
	"context"
	"time"

	"ttrack/internal/modules/sync/dto"
	syncin "ttrack/internal/modules/sync/port/in"
)

type CLIHandler struct {
	usecase syncin.Usecase
}

func NewCLIHandler(usecase syncin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) RunPass(ctx context.Context) (dto.ReportOutput, error) {
	return h.usecase.RunPass(ctx)
}

func (h CLIHandler) Pending(ctx context.Context) (int, error) {
	return h.usecase.Pending(ctx)
}

func (h CLIHandler) RunPeriodic(ctx context.Context, interval time.Duration) error {
	return h.usecase.RunPeriodic(ctx, interval)
}
