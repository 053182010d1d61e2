package domain

import (
	"fmt"
	"time"
)

// Submission is one work log pushed to the remote issue tracker, keyed
// by ticket, start time and worked duration.
type Submission struct {
	Ticket  string
	Started time.Time
	Worked  time.Duration
	Comment string
}

func (s Submission) Validate() error {
	if s.Ticket == "" {
		return fmt.Errorf("ticket is required")
	}
	if s.Started.IsZero() {
		return fmt.Errorf("start time is required")
	}
	return nil
}

// Outcome records what one pass did with one entry.
type Outcome struct {
	EntryID   string
	RemoteRef string
	Err       string
	Duplicate bool
	Skipped   bool
}

func (o Outcome) Synced() bool {
	return o.Err == "" && !o.Skipped
}

// Report summarizes a reconciliation pass.
type Report struct {
	Synced   int
	Failed   int
	Skipped  int
	Outcomes []Outcome
}
