package in

import (
	"context"
	"time"

	"ttrack/internal/modules/sync/dto"
)

type Usecase interface {
	// RunPass reconciles every queued entry once, oldest first.
	RunPass(ctx context.Context) (dto.ReportOutput, error)
	// Pending reports the current queue depth.
	Pending(ctx context.Context) (int, error)
	// RunPeriodic repeats RunPass on a fixed cadence until the context
	// is cancelled, logging and continuing on per-pass errors.
	RunPeriodic(ctx context.Context, interval time.Duration) error
}
