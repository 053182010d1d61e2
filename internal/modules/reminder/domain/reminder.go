package domain

import (
	"fmt"
	"regexp"
	"time"
)

type Kind string

const (
	KindLongRunning Kind = "long_running"
	KindIdleNag     Kind = "idle_nag"
)

// Event is handed to the notification collaborator; the scheduler never
// renders anything itself.
type Event struct {
	Kind    Kind
	EntryID string
	FiredAt time.Time
	Title   string
	Message string
}

// Rules are the firing thresholds and cool-downs per reminder kind.
type Rules struct {
	Tick                time.Duration
	LongRunningAfter    time.Duration
	LongRunningCooldown time.Duration
	IdleNagCooldown     time.Duration
}

func DefaultRules() Rules {
	return Rules{
		Tick:                time.Minute,
		LongRunningAfter:    15 * time.Minute,
		LongRunningCooldown: 15 * time.Minute,
		IdleNagCooldown:     time.Minute,
	}
}

func (r Rules) Validate() error {
	if r.Tick <= 0 {
		return fmt.Errorf("tick must be positive")
	}
	if r.LongRunningAfter <= 0 || r.LongRunningCooldown <= 0 || r.IdleNagCooldown <= 0 {
		return fmt.Errorf("reminder thresholds must be positive")
	}
	return nil
}

var sha256Pattern = regexp.MustCompile(`^[a-f0-9]{64}$`)

// NotifierManifest describes one out-of-process notification plugin.
// SHA256 pins the binary; when set, doctor verifies it before probing.
type NotifierManifest struct {
	Name    string `json:"name"`
	Version string `json:"version"`
	Binary  string `json:"binary"`
	SHA256  string `json:"sha256,omitempty"`
	Enabled bool   `json:"enabled"`
}

func (m NotifierManifest) Validate() error {
	if m.Name == "" {
		return fmt.Errorf("notifier name is required")
	}
	if m.Binary == "" {
		return fmt.Errorf("notifier binary path is required")
	}
	if m.SHA256 != "" && !sha256Pattern.MatchString(m.SHA256) {
		return fmt.Errorf("notifier sha256 must be lowercase 64-char hex")
	}
	return nil
}
