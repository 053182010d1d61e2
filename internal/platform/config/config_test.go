package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"ttrack/internal/platform/config"
)

func TestLoadMissingFileYieldsDefaults(t *testing.T) {
	cfg, err := config.Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Reminder.Tick != time.Minute {
		t.Fatalf("tick = %s, want 1m", cfg.Reminder.Tick)
	}
	if cfg.Reminder.LongRunningAfter != 15*time.Minute || cfg.Reminder.LongRunningCooldown != 15*time.Minute {
		t.Fatalf("long running = %s/%s, want 15m/15m", cfg.Reminder.LongRunningAfter, cfg.Reminder.LongRunningCooldown)
	}
	if cfg.Reminder.IdleNagCooldown != time.Minute {
		t.Fatalf("idle nag cooldown = %s, want 1m", cfg.Reminder.IdleNagCooldown)
	}
	if cfg.Sync.SubmitTimeout != 10*time.Second {
		t.Fatalf("submit timeout = %s, want 10s", cfg.Sync.SubmitTimeout)
	}
	if cfg.DataDir == "" || cfg.DBPath == "" {
		t.Fatalf("data paths must default, got %q and %q", cfg.DataDir, cfg.DBPath)
	}
}

func TestLoadParsesFileAndKeepsExplicitValues(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	raw := `
data_dir: ` + dir + `
tasks:
  - id: dev
    name: Development
    category: development
  - name: Bug Triage
    category: qa
reminder:
  tick: 30s
  long_running_after: 20m
sync:
  interval: 5m
jira:
  domain: example.atlassian.net
  email: me@example.com
  api_token: secret
`
	if err := os.WriteFile(path, []byte(raw), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := config.Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(cfg.Tasks) != 2 || cfg.Tasks[0].ID != "dev" || cfg.Tasks[1].Name != "Bug Triage" {
		t.Fatalf("tasks = %+v", cfg.Tasks)
	}
	if cfg.Reminder.Tick != 30*time.Second {
		t.Fatalf("tick = %s, want 30s", cfg.Reminder.Tick)
	}
	if cfg.Reminder.LongRunningAfter != 20*time.Minute {
		t.Fatalf("long running after = %s, want 20m", cfg.Reminder.LongRunningAfter)
	}
	// Omitted fields still get defaults.
	if cfg.Reminder.LongRunningCooldown != 15*time.Minute {
		t.Fatalf("cooldown = %s, want default 15m", cfg.Reminder.LongRunningCooldown)
	}
	if cfg.Sync.Interval != 5*time.Minute {
		t.Fatalf("sync interval = %s, want 5m", cfg.Sync.Interval)
	}
	if cfg.DBPath != filepath.Join(dir, "ttrack.db") {
		t.Fatalf("db path = %s", cfg.DBPath)
	}
	if cfg.Jira.Domain != "example.atlassian.net" {
		t.Fatalf("jira domain = %s", cfg.Jira.Domain)
	}
}

func TestEnvironmentOverridesJiraCredentials(t *testing.T) {
	t.Setenv("JIRA_DOMAIN", "env.atlassian.net")
	t.Setenv("JIRA_EMAIL", "env@example.com")
	t.Setenv("JIRA_API_TOKEN", "env-token")

	path := filepath.Join(t.TempDir(), "config.yaml")
	raw := `
jira:
  domain: file.atlassian.net
  email: file@example.com
  api_token: file-token
`
	if err := os.WriteFile(path, []byte(raw), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := config.Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Jira.Domain != "env.atlassian.net" || cfg.Jira.Email != "env@example.com" || cfg.Jira.APIToken != "env-token" {
		t.Fatalf("jira = %+v, env must win", cfg.Jira)
	}
}
