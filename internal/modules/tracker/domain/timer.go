package domain

import (
	"time"

	apperrors "ttrack/internal/platform/errors"
)

type TimerState string

const (
	TimerIdle    TimerState = "idle"
	TimerRunning TimerState = "running"
	TimerPaused  TimerState = "paused"
)

// Timer is the single guarded state object for the active entry. Every
// transition is checked here; callers never mutate its fields directly.
type Timer struct {
	state      TimerState
	entryID    string
	startedAt  time.Time
	pausedFor  time.Duration
	pauseBegan time.Time
}

func NewIdleTimer() *Timer {
	return &Timer{state: TimerIdle}
}

// RehydrateTimer restores the machine from a persisted open or paused entry.
func RehydrateTimer(entry TimeEntry) *Timer {
	t := &Timer{
		entryID:   entry.ID,
		startedAt: entry.StartedAt,
		pausedFor: entry.PausedFor,
	}
	switch entry.Status {
	case StatusOpen:
		t.state = TimerRunning
	case StatusPaused:
		t.state = TimerPaused
		t.pauseBegan = entry.PauseBegan
	default:
		t.state = TimerIdle
		t.entryID = ""
	}
	return t
}

func (t *Timer) State() TimerState { return t.state }
func (t *Timer) EntryID() string   { return t.entryID }

// Start moves Idle -> Running for a freshly created entry.
func (t *Timer) Start(entryID string, at time.Time) error {
	if t.state != TimerIdle {
		return apperrors.ErrActiveEntryExists
	}
	t.state = TimerRunning
	t.entryID = entryID
	t.startedAt = at
	t.pausedFor = 0
	t.pauseBegan = time.Time{}
	return nil
}

// Pause moves Running -> Paused and records when the pause began.
func (t *Timer) Pause(at time.Time) error {
	if t.state != TimerRunning {
		return apperrors.ErrInvalidTransition
	}
	t.state = TimerPaused
	t.pauseBegan = at
	return nil
}

// Resume moves Paused -> Running and accrues the pause span. The
// accumulated pause duration only ever grows.
func (t *Timer) Resume(at time.Time) error {
	if t.state != TimerPaused {
		return apperrors.ErrInvalidTransition
	}
	if span := at.Sub(t.pauseBegan); span > 0 {
		t.pausedFor += span
	}
	t.state = TimerRunning
	t.pauseBegan = time.Time{}
	return nil
}

// Stop closes the entry from Running or Paused and returns the worked
// duration. A negative duration is clamped to zero and reported as a
// clock anomaly rather than an error.
func (t *Timer) Stop(at time.Time) (worked time.Duration, anomaly bool, err error) {
	switch t.state {
	case TimerRunning:
	case TimerPaused:
		if span := at.Sub(t.pauseBegan); span > 0 {
			t.pausedFor += span
		}
	default:
		return 0, false, apperrors.ErrInvalidTransition
	}
	worked = at.Sub(t.startedAt) - t.pausedFor
	if worked < 0 {
		worked = 0
		anomaly = true
	}
	t.state = TimerIdle
	t.entryID = ""
	t.startedAt = time.Time{}
	t.pausedFor = 0
	t.pauseBegan = time.Time{}
	return worked, anomaly, nil
}

// Elapsed is the worked duration so far, excluding pause time.
func (t *Timer) Elapsed(now time.Time) time.Duration {
	switch t.state {
	case TimerRunning:
		elapsed := now.Sub(t.startedAt) - t.pausedFor
		if elapsed < 0 {
			return 0
		}
		return elapsed
	case TimerPaused:
		elapsed := t.pauseBegan.Sub(t.startedAt) - t.pausedFor
		if elapsed < 0 {
			return 0
		}
		return elapsed
	default:
		return 0
	}
}

// PausedFor exposes the accumulated pause duration for persistence.
func (t *Timer) PausedFor() time.Duration { return t.pausedFor }

// PauseBegan exposes the pending pause start for persistence.
func (t *Timer) PauseBegan() time.Time { return t.pauseBegan }
