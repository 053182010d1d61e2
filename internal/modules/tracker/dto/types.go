package dto

import "time"

type StartInput struct {
	TaskID string
	Ticket string
}

type StartOutput struct {
	EntryID   string
	TaskName  string
	StartedAt time.Time
}

type EntryOutput struct {
	ID         string
	TaskID     string
	TaskName   string
	Ticket     string
	StartedAt  time.Time
	EndedAt    time.Time
	PausedFor  time.Duration
	Worked     time.Duration
	Status     string
	SyncStatus string
	SyncError  string
	RemoteRef  string
	Anomaly    bool
}

// Timer states as they appear on ActiveOutput.State.
const (
	TimerIdle    = "idle"
	TimerRunning = "running"
	TimerPaused  = "paused"
)

// ActiveOutput mirrors the timer machine: State is idle, running or
// paused; the entry fields are zero while idle.
type ActiveOutput struct {
	State     string
	EntryID   string
	TaskName  string
	Ticket    string
	StartedAt time.Time
	Elapsed   time.Duration
}

type StopOutput struct {
	EntryID string
	Worked  time.Duration
	Anomaly bool
}

type DiscardOutput struct {
	Deleted int
}
