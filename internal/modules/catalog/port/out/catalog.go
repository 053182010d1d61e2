package out

import (
	"context"

	"ttrack/internal/modules/catalog/domain"
)

type TaskSource interface {
	Load(ctx context.Context) ([]domain.Task, error)
}
