package service

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"ttrack/internal/modules/catalog/domain"
	catalogout "ttrack/internal/modules/catalog/port/out"
	apperrors "ttrack/internal/platform/errors"
)

// CatalogService loads the task catalog once and serves lookups from memory.
type CatalogService struct {
	source catalogout.TaskSource

	mu     sync.Mutex
	loaded bool
	byID   map[string]domain.Task
	order  []string
}

func NewCatalogService(source catalogout.TaskSource) *CatalogService {
	return &CatalogService{source: source}
}

func (s *CatalogService) List(ctx context.Context) ([]domain.Task, error) {
	if err := s.ensureLoaded(ctx); err != nil {
		return nil, err
	}
	out := make([]domain.Task, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.byID[id])
	}
	return out, nil
}

func (s *CatalogService) Get(ctx context.Context, taskID string) (domain.Task, error) {
	if taskID == "" {
		return domain.Task{}, apperrors.ErrUnknownTask
	}
	if err := s.ensureLoaded(ctx); err != nil {
		return domain.Task{}, err
	}
	task, ok := s.byID[taskID]
	if !ok {
		return domain.Task{}, fmt.Errorf("%w: %s", apperrors.ErrUnknownTask, taskID)
	}
	return task, nil
}

func (s *CatalogService) ensureLoaded(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.loaded {
		return nil
	}
	tasks, err := s.source.Load(ctx)
	if err != nil {
		return fmt.Errorf("load task catalog: %w", err)
	}
	byID := make(map[string]domain.Task, len(tasks))
	order := make([]string, 0, len(tasks))
	for _, task := range tasks {
		if err := task.Validate(); err != nil {
			return fmt.Errorf("task catalog: %w", err)
		}
		if _, dup := byID[task.ID]; dup {
			return fmt.Errorf("task catalog: duplicate task id %s", task.ID)
		}
		byID[task.ID] = task
		order = append(order, task.ID)
	}
	sort.Strings(order)
	s.byID = byID
	s.order = order
	s.loaded = true
	return nil
}
