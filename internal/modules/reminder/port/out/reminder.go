package out

import (
	"context"
	"time"

	"ttrack/internal/modules/reminder/domain"
)

// Notifier delivers a reminder event. Fire-and-forget from the
// scheduler's point of view; a delivery error is logged, never retried.
type Notifier interface {
	Notify(ctx context.Context, event domain.Event) error
}

// ActivitySource supplies the externally computed idle signal.
type ActivitySource interface {
	// IdleSince reports when user activity last stopped; ok is false
	// when no idle signal is available.
	IdleSince(ctx context.Context) (since time.Time, ok bool, err error)
}

// NotifierRegistry exposes the configured notification plugins for
// inspection and health checks.
type NotifierRegistry interface {
	List(ctx context.Context) ([]domain.NotifierManifest, error)
	Check(ctx context.Context, manifest domain.NotifierManifest) error
}
