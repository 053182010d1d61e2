package out

import (
	"context"

	hclog "github.com/hashicorp/go-hclog"

	"ttrack/internal/modules/reminder/domain"
	reminderout "ttrack/internal/modules/reminder/port/out"
)

// LogNotifier records reminder events in the process log. It backs the
// plugin notifier so a reminder is never lost silently when no plugins
// are configured.
type LogNotifier struct {
	logger hclog.Logger
}

func NewLogNotifier(logger hclog.Logger) reminderout.Notifier {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &LogNotifier{logger: logger}
}

func (n *LogNotifier) Notify(_ context.Context, event domain.Event) error {
	n.logger.Info("reminder", "kind", event.Kind, "entry_id", event.EntryID, "message", event.Message)
	return nil
}
