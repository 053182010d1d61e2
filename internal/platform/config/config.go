package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// TaskConfig is one catalog entry from the tasks section.
type TaskConfig struct {
	ID       string `yaml:"id"`
	Name     string `yaml:"name"`
	Category string `yaml:"category"`
}

// ReminderConfig tunes the reminder scheduler. Zero values fall back to
// the defaults applied in applyDefaults.
type ReminderConfig struct {
	Tick                time.Duration `yaml:"tick"`
	LongRunningAfter    time.Duration `yaml:"long_running_after"`
	LongRunningCooldown time.Duration `yaml:"long_running_cooldown"`
	IdleNagCooldown     time.Duration `yaml:"idle_nag_cooldown"`
}

type SyncConfig struct {
	Interval      time.Duration `yaml:"interval"`
	SubmitTimeout time.Duration `yaml:"submit_timeout"`
}

// JiraConfig carries the remote tracker connection. Environment variables
// JIRA_DOMAIN, JIRA_EMAIL and JIRA_API_TOKEN override the file values.
type JiraConfig struct {
	Domain   string `yaml:"domain"`
	Email    string `yaml:"email"`
	APIToken string `yaml:"api_token"`
}

type Config struct {
	DataDir  string         `yaml:"data_dir"`
	DBPath   string         `yaml:"db_path"`
	Tasks    []TaskConfig   `yaml:"tasks"`
	Reminder ReminderConfig `yaml:"reminder"`
	Sync     SyncConfig     `yaml:"sync"`
	Jira     JiraConfig     `yaml:"jira"`
}

// Load reads the YAML config at path. A missing file yields the defaults
// so the tracker works before any configuration has been written.
func Load(path string) (Config, error) {
	cfg := Config{}
	b, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	} else if err := yaml.Unmarshal(b, &cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.applyDefaults(); err != nil {
		return Config{}, err
	}
	cfg.applyEnv()
	return cfg, nil
}

// DefaultPath is <user config dir>/ttrack/config.yaml.
func DefaultPath() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolve user config dir: %w", err)
	}
	return filepath.Join(base, "ttrack", "config.yaml"), nil
}

func (c *Config) applyDefaults() error {
	if c.DataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("resolve home dir: %w", err)
		}
		c.DataDir = filepath.Join(home, ".ttrack")
	}
	if c.DBPath == "" {
		c.DBPath = filepath.Join(c.DataDir, "ttrack.db")
	}
	if c.Reminder.Tick <= 0 {
		c.Reminder.Tick = time.Minute
	}
	if c.Reminder.LongRunningAfter <= 0 {
		c.Reminder.LongRunningAfter = 15 * time.Minute
	}
	if c.Reminder.LongRunningCooldown <= 0 {
		c.Reminder.LongRunningCooldown = 15 * time.Minute
	}
	if c.Reminder.IdleNagCooldown <= 0 {
		c.Reminder.IdleNagCooldown = time.Minute
	}
	if c.Sync.SubmitTimeout <= 0 {
		c.Sync.SubmitTimeout = 10 * time.Second
	}
	return nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv("JIRA_DOMAIN"); v != "" {
		c.Jira.Domain = v
	}
	if v := os.Getenv("JIRA_EMAIL"); v != "" {
		c.Jira.Email = v
	}
	if v := os.Getenv("JIRA_API_TOKEN"); v != "" {
		c.Jira.APIToken = v
	}
}
