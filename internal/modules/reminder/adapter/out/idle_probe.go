package out

import (
	"context"
	"time"

	reminderout "ttrack/internal/modules/reminder/port/out"
)

// NoIdleProbe is the stub activity monitor: it never reports an idle
// signal. A desktop integration would replace it with a real probe.
type NoIdleProbe struct{}

func NewNoIdleProbe() reminderout.ActivitySource {
	return NoIdleProbe{}
}

func (NoIdleProbe) IdleSince(_ context.Context) (time.Time, bool, error) {
	return time.Time{}, false, nil
}
