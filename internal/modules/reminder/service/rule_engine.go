package service

import (
	"context"
	"fmt"
	"time"

	hclog "github.com/hashicorp/go-hclog"

	"ttrack/internal/modules/reminder/domain"
	reminderout "ttrack/internal/modules/reminder/port/out"
	trackerdto "ttrack/internal/modules/tracker/dto"
	trackerin "ttrack/internal/modules/tracker/port/in"
	"ttrack/internal/platform/clock"
)

// RuleEngine evaluates the reminder rules against the timer state on
// each tick. Last-fired timestamps are in-memory only and reset with
// the process.
type RuleEngine struct {
	clock     clock.Clock
	rules     domain.Rules
	tracker   trackerin.Usecase
	notifier  reminderout.Notifier
	activity  reminderout.ActivitySource
	logger    hclog.Logger
	lastFired map[domain.Kind]time.Time
}

func NewRuleEngine(clk clock.Clock, rules domain.Rules, tracker trackerin.Usecase, notifier reminderout.Notifier, activity reminderout.ActivitySource, logger hclog.Logger) (*RuleEngine, error) {
	if err := rules.Validate(); err != nil {
		return nil, fmt.Errorf("reminder rules: %w", err)
	}
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &RuleEngine{
		clock:     clk,
		rules:     rules,
		tracker:   tracker,
		notifier:  notifier,
		activity:  activity,
		logger:    logger,
		lastFired: map[domain.Kind]time.Time{},
	}, nil
}

// Evaluate runs one tick. The two kinds are mutually exclusive by timer
// state, so at most one event fires per tick.
func (e *RuleEngine) Evaluate(ctx context.Context) ([]domain.Event, error) {
	active, err := e.tracker.Active(ctx)
	if err != nil {
		return nil, fmt.Errorf("read timer state: %w", err)
	}
	now := e.clock.Now()

	var event *domain.Event
	switch active.State {
	case trackerdto.TimerRunning:
		if active.Elapsed >= e.rules.LongRunningAfter && e.cooledDown(domain.KindLongRunning, now, e.rules.LongRunningCooldown) {
			event = &domain.Event{
				Kind:    domain.KindLongRunning,
				EntryID: active.EntryID,
				FiredAt: now,
				Title:   "Long-running timer",
				Message: fmt.Sprintf("Still tracking %s (%s) after %s. Still on it?", active.TaskName, active.Ticket, active.Elapsed.Round(time.Minute)),
			}
		}
	case trackerdto.TimerIdle:
		if e.cooledDown(domain.KindIdleNag, now, e.rules.IdleNagCooldown) {
			event = &domain.Event{
				Kind:    domain.KindIdleNag,
				FiredAt: now,
				Title:   "Time Tracking Reminder",
				Message: "You're not tracking any activity. Don't forget to log your time!",
			}
		}
	}
	if event == nil {
		return nil, nil
	}

	e.lastFired[event.Kind] = now
	if err := e.notifier.Notify(ctx, *event); err != nil {
		e.logger.Error("reminder delivery failed", "kind", event.Kind, "error", err)
	}
	return []domain.Event{*event}, nil
}

// IdleSince surfaces the activity monitor signal. It feeds no firing
// rule yet; a Running-state idle reminder would consume it here.
func (e *RuleEngine) IdleSince(ctx context.Context) (time.Time, bool, error) {
	if e.activity == nil {
		return time.Time{}, false, nil
	}
	return e.activity.IdleSince(ctx)
}

func (e *RuleEngine) Tick() time.Duration { return e.rules.Tick }

func (e *RuleEngine) cooledDown(kind domain.Kind, now time.Time, cooldown time.Duration) bool {
	last, fired := e.lastFired[kind]
	return !fired || now.Sub(last) >= cooldown
}
