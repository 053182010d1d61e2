package domain

import "time"

type Status string

const (
	StatusOpen   Status = "open"
	StatusPaused Status = "paused"
	StatusClosed Status = "closed"
)

type SyncStatus string

const (
	SyncUnsynced SyncStatus = "unsynced"
	SyncInFlight SyncStatus = "syncing"
	SyncDone     SyncStatus = "synced"
	SyncFailed   SyncStatus = "sync_failed"
)

// TimeEntry is one contiguous, possibly paused, span of tracked work
// against a task and an external ticket.
type TimeEntry struct {
	ID         string
	TaskID     string
	TaskName   string
	Ticket     string
	StartedAt  time.Time
	EndedAt    time.Time // zero while open or paused
	PausedFor  time.Duration
	PauseBegan time.Time // set only while paused
	Status     Status
	SyncStatus SyncStatus
	SyncError  string
	RemoteRef  string
	CreatedAt  time.Time
	Anomaly    bool
}

// Worked is the wall-clock span minus accumulated pause time, clamped
// to zero. Callers detect clock skew through the Anomaly flag instead.
func (e TimeEntry) Worked() time.Duration {
	if e.EndedAt.IsZero() {
		return 0
	}
	worked := e.EndedAt.Sub(e.StartedAt) - e.PausedFor
	if worked < 0 {
		return 0
	}
	return worked
}

func (e TimeEntry) Active() bool {
	return e.Status == StatusOpen || e.Status == StatusPaused
}

func (e TimeEntry) Syncable() bool {
	return e.Status == StatusClosed && (e.SyncStatus == SyncUnsynced || e.SyncStatus == SyncFailed)
}
