package out

import (
	"context"
	"errors"

	"ttrack/internal/modules/reminder/domain"
	reminderout "ttrack/internal/modules/reminder/port/out"
)

// FanoutNotifier delivers one event through every configured sink.
type FanoutNotifier struct {
	sinks []reminderout.Notifier
}

func NewFanoutNotifier(sinks ...reminderout.Notifier) reminderout.Notifier {
	return &FanoutNotifier{sinks: sinks}
}

func (n *FanoutNotifier) Notify(ctx context.Context, event domain.Event) error {
	var errs []error
	for _, sink := range n.sinks {
		if err := sink.Notify(ctx, event); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
