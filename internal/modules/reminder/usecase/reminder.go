package usecase

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"os"
	"time"

	hclog "github.com/hashicorp/go-hclog"

	"ttrack/internal/modules/reminder/dto"
	reminderin "ttrack/internal/modules/reminder/port/in"
	reminderout "ttrack/internal/modules/reminder/port/out"
	"ttrack/internal/modules/reminder/service"
)

type Interactor struct {
	engine   *service.RuleEngine
	registry reminderout.NotifierRegistry
	logger   hclog.Logger
}

func NewInteractor(engine *service.RuleEngine, registry reminderout.NotifierRegistry, logger hclog.Logger) reminderin.Usecase {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &Interactor{engine: engine, registry: registry, logger: logger}
}

func (i *Interactor) Evaluate(ctx context.Context) ([]dto.FiredOutput, error) {
	events, err := i.engine.Evaluate(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.FiredOutput, 0, len(events))
	for _, event := range events {
		out = append(out, dto.FiredOutput{
			Kind:    string(event.Kind),
			EntryID: event.EntryID,
			FiredAt: event.FiredAt,
			Message: event.Message,
		})
	}
	return out, nil
}

// Run drives the scheduler on its fixed tick. Per-tick errors are
// logged and never terminate the loop; only context cancellation does.
func (i *Interactor) Run(ctx context.Context) error {
	ticker := time.NewTicker(i.engine.Tick())
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if _, err := i.engine.Evaluate(ctx); err != nil {
				i.logger.Error("reminder tick failed", "error", err)
			}
		}
	}
}

func (i *Interactor) ListNotifiers(ctx context.Context) ([]dto.NotifierInfo, error) {
	manifests, err := i.registry.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.NotifierInfo, 0, len(manifests))
	for _, m := range manifests {
		out = append(out, dto.NotifierInfo{Name: m.Name, Version: m.Version, Binary: m.Binary, Enabled: m.Enabled})
	}
	return out, nil
}

func (i *Interactor) CheckNotifiers(ctx context.Context) ([]dto.NotifierCheck, error) {
	manifests, err := i.registry.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.NotifierCheck, 0, len(manifests))
	for _, m := range manifests {
		check := dto.NotifierCheck{Name: m.Name}
		if err := m.Validate(); err != nil {
			check.Error = err.Error()
			out = append(out, check)
			continue
		}
		check.Reachable = fileExists(m.Binary)
		if !check.Reachable {
			check.Error = "binary does not exist: " + m.Binary
			out = append(out, check)
			continue
		}
		check.ChecksumOK = m.SHA256 == "" || checksumMatches(m.Binary, m.SHA256)
		if !check.ChecksumOK {
			check.Error = "checksum mismatch"
			out = append(out, check)
			continue
		}
		if !m.Enabled {
			out = append(out, check)
			continue
		}
		if err := i.registry.Check(ctx, m); err != nil {
			check.Error = err.Error()
		} else {
			check.LifecycleOK = true
		}
		out = append(out, check)
	}
	return out, nil
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

func checksumMatches(path, expected string) bool {
	payload, err := os.ReadFile(path)
	if err != nil {
		return false
	}
	sum := sha256.Sum256(payload)
	return hex.EncodeToString(sum[:]) == expected
}
