package domain_test

import (
	"errors"
	"testing"
	"time"

	"ttrack/internal/modules/tracker/domain"
	apperrors "ttrack/internal/platform/errors"
)

func at(minute int) time.Time {
	return time.Date(2026, 8, 25, 9, minute, 0, 0, time.UTC)
}

func TestTimerStartPauseResumeStopAccruesPauseTime(t *testing.T) {
	t.Parallel()
	timer := domain.NewIdleTimer()

	if err := timer.Start("entry-1", at(0)); err != nil {
		t.Fatalf("start: %v", err)
	}
	if err := timer.Pause(at(10)); err != nil {
		t.Fatalf("pause: %v", err)
	}
	if err := timer.Resume(at(15)); err != nil {
		t.Fatalf("resume: %v", err)
	}
	worked, anomaly, err := timer.Stop(at(30))
	if err != nil {
		t.Fatalf("stop: %v", err)
	}
	if anomaly {
		t.Fatalf("unexpected anomaly")
	}
	if worked != 25*time.Minute {
		t.Fatalf("worked = %s, want 25m", worked)
	}
	if timer.State() != domain.TimerIdle {
		t.Fatalf("state after stop = %s, want idle", timer.State())
	}
}

func TestTimerStopWhilePausedAccruesFinalPauseSpan(t *testing.T) {
	t.Parallel()
	timer := domain.NewIdleTimer()
	if err := timer.Start("entry-1", at(0)); err != nil {
		t.Fatalf("start: %v", err)
	}
	if err := timer.Pause(at(20)); err != nil {
		t.Fatalf("pause: %v", err)
	}
	worked, anomaly, err := timer.Stop(at(50))
	if err != nil {
		t.Fatalf("stop: %v", err)
	}
	if anomaly {
		t.Fatalf("unexpected anomaly")
	}
	if worked != 20*time.Minute {
		t.Fatalf("worked = %s, want 20m", worked)
	}
}

func TestTimerRejectsInvalidTransitions(t *testing.T) {
	t.Parallel()
	timer := domain.NewIdleTimer()

	if err := timer.Pause(at(0)); !errors.Is(err, apperrors.ErrInvalidTransition) {
		t.Fatalf("pause while idle = %v, want ErrInvalidTransition", err)
	}
	if err := timer.Resume(at(0)); !errors.Is(err, apperrors.ErrInvalidTransition) {
		t.Fatalf("resume while idle = %v, want ErrInvalidTransition", err)
	}
	if _, _, err := timer.Stop(at(0)); !errors.Is(err, apperrors.ErrInvalidTransition) {
		t.Fatalf("stop while idle = %v, want ErrInvalidTransition", err)
	}

	if err := timer.Start("entry-1", at(0)); err != nil {
		t.Fatalf("start: %v", err)
	}
	if err := timer.Start("entry-2", at(1)); !errors.Is(err, apperrors.ErrActiveEntryExists) {
		t.Fatalf("second start = %v, want ErrActiveEntryExists", err)
	}
	if err := timer.Resume(at(1)); !errors.Is(err, apperrors.ErrInvalidTransition) {
		t.Fatalf("resume while running = %v, want ErrInvalidTransition", err)
	}

	if err := timer.Pause(at(5)); err != nil {
		t.Fatalf("pause: %v", err)
	}
	if err := timer.Pause(at(6)); !errors.Is(err, apperrors.ErrInvalidTransition) {
		t.Fatalf("double pause = %v, want ErrInvalidTransition", err)
	}
}

func TestTimerClampsBackwardsClockAndFlagsAnomaly(t *testing.T) {
	t.Parallel()
	timer := domain.NewIdleTimer()
	if err := timer.Start("entry-1", at(30)); err != nil {
		t.Fatalf("start: %v", err)
	}
	worked, anomaly, err := timer.Stop(at(10))
	if err != nil {
		t.Fatalf("stop: %v", err)
	}
	if worked != 0 {
		t.Fatalf("worked = %s, want 0", worked)
	}
	if !anomaly {
		t.Fatalf("anomaly must be reported when the clock moved backwards")
	}
}

func TestTimerElapsedExcludesPauseTime(t *testing.T) {
	t.Parallel()
	timer := domain.NewIdleTimer()
	if err := timer.Start("entry-1", at(0)); err != nil {
		t.Fatalf("start: %v", err)
	}
	if got := timer.Elapsed(at(10)); got != 10*time.Minute {
		t.Fatalf("elapsed running = %s, want 10m", got)
	}
	if err := timer.Pause(at(10)); err != nil {
		t.Fatalf("pause: %v", err)
	}
	// Frozen while paused, no matter how late now is.
	if got := timer.Elapsed(at(45)); got != 10*time.Minute {
		t.Fatalf("elapsed paused = %s, want 10m", got)
	}
	if err := timer.Resume(at(20)); err != nil {
		t.Fatalf("resume: %v", err)
	}
	if got := timer.Elapsed(at(25)); got != 15*time.Minute {
		t.Fatalf("elapsed after resume = %s, want 15m", got)
	}
}

func TestRehydrateTimerRestoresPausedState(t *testing.T) {
	t.Parallel()
	entry := domain.TimeEntry{
		ID:         "entry-1",
		StartedAt:  at(0),
		PausedFor:  5 * time.Minute,
		PauseBegan: at(20),
		Status:     domain.StatusPaused,
	}
	timer := domain.RehydrateTimer(entry)
	if timer.State() != domain.TimerPaused {
		t.Fatalf("state = %s, want paused", timer.State())
	}
	if timer.EntryID() != "entry-1" {
		t.Fatalf("entry id = %s, want entry-1", timer.EntryID())
	}
	if err := timer.Resume(at(30)); err != nil {
		t.Fatalf("resume: %v", err)
	}
	if timer.PausedFor() != 15*time.Minute {
		t.Fatalf("paused for = %s, want 15m", timer.PausedFor())
	}

	closed := domain.TimeEntry{ID: "entry-2", Status: domain.StatusClosed}
	if got := domain.RehydrateTimer(closed); got.State() != domain.TimerIdle {
		t.Fatalf("closed entry must rehydrate to idle, got %s", got.State())
	}
}

func TestWorkedClampsNegativeSpans(t *testing.T) {
	t.Parallel()
	entry := domain.TimeEntry{
		StartedAt: at(0),
		EndedAt:   at(10),
		PausedFor: 30 * time.Minute,
	}
	if got := entry.Worked(); got != 0 {
		t.Fatalf("worked = %s, want 0", got)
	}
	open := domain.TimeEntry{StartedAt: at(0)}
	if got := open.Worked(); got != 0 {
		t.Fatalf("open entry worked = %s, want 0", got)
	}
}
