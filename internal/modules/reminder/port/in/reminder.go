package in

import (
	"context"

	"ttrack/internal/modules/reminder/dto"
)

type Usecase interface {
	// Evaluate runs one scheduler tick and reports which reminders fired.
	Evaluate(ctx context.Context) ([]dto.FiredOutput, error)
	// Run ticks until the context is cancelled, logging and continuing
	// on per-tick errors.
	Run(ctx context.Context) error
	ListNotifiers(ctx context.Context) ([]dto.NotifierInfo, error)
	CheckNotifiers(ctx context.Context) ([]dto.NotifierCheck, error)
}
