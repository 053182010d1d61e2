package out

import (
	"context"

	"ttrack/internal/modules/catalog/domain"
	catalogout "ttrack/internal/modules/catalog/port/out"
	"ttrack/internal/platform/config"
	"ttrack/internal/platform/slug"
)

// ConfigTaskSource serves the tasks section of the loaded YAML config.
// Task ids default to a slug of the display name when the file omits them.
type ConfigTaskSource struct {
	tasks []config.TaskConfig
}

func NewConfigTaskSource(tasks []config.TaskConfig) catalogout.TaskSource {
	return &ConfigTaskSource{tasks: tasks}
}

func (s *ConfigTaskSource) Load(_ context.Context) ([]domain.Task, error) {
	out := make([]domain.Task, 0, len(s.tasks))
	for _, t := range s.tasks {
		taskID := t.ID
		if taskID == "" {
			taskID = slug.Make(t.Name)
		}
		out = append(out, domain.Task{
			ID:       taskID,
			Name:     t.Name,
			Category: domain.Category(t.Category),
		})
	}
	return out, nil
}
