package in

import (
	"context"

	"ttrack/internal/modules/catalog/dto"
)

type Usecase interface {
	List(ctx context.Context) ([]dto.TaskOutput, error)
	Get(ctx context.Context, id string) (dto.TaskOutput, error)
}
