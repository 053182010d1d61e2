package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"ttrack/internal/modules/tracker/domain"
	trackerout "ttrack/internal/modules/tracker/port/out"
	"ttrack/internal/platform/clock"
	apperrors "ttrack/internal/platform/errors"
	"ttrack/internal/platform/id"
)

// TrackerService serializes every timer mutation through one mutex so the
// single-active-entry invariant holds no matter how callers interleave.
// The in-memory Timer is the source of truth for what is active; the
// entry store is its durable backing.
type TrackerService struct {
	clock clock.Clock
	idGen id.Generator
	store trackerout.EntryStore

	mu         sync.Mutex
	timer      *domain.Timer
	rehydrated bool
}

func NewTrackerService(clk clock.Clock, idGen id.Generator, store trackerout.EntryStore) *TrackerService {
	return &TrackerService{clock: clk, idGen: idGen, store: store, timer: domain.NewIdleTimer()}
}

func (s *TrackerService) Start(ctx context.Context, taskID, taskName, ticket string) (domain.TimeEntry, error) {
	if strings.TrimSpace(ticket) == "" {
		return domain.TimeEntry{}, apperrors.ErrMissingSelection
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ensureRehydrated(ctx); err != nil {
		return domain.TimeEntry{}, err
	}

	now := s.clock.Now()
	entry := domain.TimeEntry{
		ID:         s.idGen.New(),
		TaskID:     taskID,
		TaskName:   taskName,
		Ticket:     strings.TrimSpace(ticket),
		StartedAt:  now,
		Status:     domain.StatusOpen,
		SyncStatus: domain.SyncUnsynced,
		CreatedAt:  now,
	}
	if err := s.timer.Start(entry.ID, now); err != nil {
		return domain.TimeEntry{}, err
	}
	if err := s.store.Create(ctx, entry); err != nil {
		s.timer = domain.NewIdleTimer()
		return domain.TimeEntry{}, fmt.Errorf("persist entry: %w", err)
	}
	return entry, nil
}

func (s *TrackerService) Pause(ctx context.Context) (domain.TimeEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ensureRehydrated(ctx); err != nil {
		return domain.TimeEntry{}, err
	}

	now := s.clock.Now()
	if err := s.timer.Pause(now); err != nil {
		return domain.TimeEntry{}, err
	}
	entry, err := s.store.Get(ctx, s.timer.EntryID())
	if err != nil {
		return domain.TimeEntry{}, err
	}
	entry.Status = domain.StatusPaused
	entry.PauseBegan = now
	if err := s.store.SaveTransition(ctx, entry, domain.StatusOpen); err != nil {
		return domain.TimeEntry{}, err
	}
	return entry, nil
}

func (s *TrackerService) Resume(ctx context.Context) (domain.TimeEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ensureRehydrated(ctx); err != nil {
		return domain.TimeEntry{}, err
	}

	if err := s.timer.Resume(s.clock.Now()); err != nil {
		return domain.TimeEntry{}, err
	}
	entry, err := s.store.Get(ctx, s.timer.EntryID())
	if err != nil {
		return domain.TimeEntry{}, err
	}
	entry.Status = domain.StatusOpen
	entry.PausedFor = s.timer.PausedFor()
	entry.PauseBegan = time.Time{}
	if err := s.store.SaveTransition(ctx, entry, domain.StatusPaused); err != nil {
		return domain.TimeEntry{}, err
	}
	return entry, nil
}

func (s *TrackerService) Stop(ctx context.Context) (domain.TimeEntry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ensureRehydrated(ctx); err != nil {
		return domain.TimeEntry{}, err
	}

	entryID := s.timer.EntryID()
	from := domain.StatusOpen
	if s.timer.State() == domain.TimerPaused {
		from = domain.StatusPaused
	}
	now := s.clock.Now()
	pausedBefore := s.timer.PausedFor()
	pauseBegan := s.timer.PauseBegan()
	_, anomaly, err := s.timer.Stop(now)
	if err != nil {
		return domain.TimeEntry{}, err
	}
	entry, err := s.store.Get(ctx, entryID)
	if err != nil {
		return domain.TimeEntry{}, err
	}
	entry.Status = domain.StatusClosed
	entry.EndedAt = now
	entry.PausedFor = pausedBefore
	if from == domain.StatusPaused {
		if span := now.Sub(pauseBegan); span > 0 {
			entry.PausedFor = pausedBefore + span
		}
	}
	entry.PauseBegan = time.Time{}
	entry.Anomaly = anomaly
	if err := s.store.SaveTransition(ctx, entry, from); err != nil {
		return domain.TimeEntry{}, err
	}
	return entry, nil
}

// Active reports the current machine state without mutating anything.
func (s *TrackerService) Active(ctx context.Context) (domain.TimerState, domain.TimeEntry, time.Duration, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ensureRehydrated(ctx); err != nil {
		return domain.TimerIdle, domain.TimeEntry{}, 0, err
	}

	state := s.timer.State()
	if state == domain.TimerIdle {
		return domain.TimerIdle, domain.TimeEntry{}, 0, nil
	}
	entry, err := s.store.Get(ctx, s.timer.EntryID())
	if err != nil {
		return state, domain.TimeEntry{}, 0, err
	}
	return state, entry, s.timer.Elapsed(s.clock.Now()), nil
}

func (s *TrackerService) ListToday(ctx context.Context) ([]domain.TimeEntry, error) {
	now := s.clock.Now()
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	return s.store.ListCreatedBetween(ctx, dayStart, dayStart.Add(24*time.Hour))
}

func (s *TrackerService) Discard(ctx context.Context, entryIDs []string) (int, error) {
	if len(entryIDs) == 0 {
		return 0, apperrors.ErrInvalidInput
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.ensureRehydrated(ctx); err != nil {
		return 0, err
	}
	for _, entryID := range entryIDs {
		if entryID == s.timer.EntryID() {
			return 0, apperrors.ErrInvalidTransition
		}
	}
	return s.store.DeleteClosedUnsynced(ctx, entryIDs)
}

// ensureRehydrated restores the timer from a persisted open or paused
// entry after a restart, exactly once. Callers hold the mutex.
func (s *TrackerService) ensureRehydrated(ctx context.Context) error {
	if s.rehydrated {
		return nil
	}
	entry, err := s.store.GetActive(ctx)
	if err != nil {
		if errors.Is(err, apperrors.ErrNoActiveEntry) {
			s.rehydrated = true
			return nil
		}
		return fmt.Errorf("restore active entry: %w", err)
	}
	s.timer = domain.RehydrateTimer(entry)
	s.rehydrated = true
	return nil
}
