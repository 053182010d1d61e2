package usecase

import (
	"context"

	"ttrack/internal/modules/catalog/dto"
	catalogin "ttrack/internal/modules/catalog/port/in"
	"ttrack/internal/modules/catalog/service"
)

type Interactor struct {
	svc *service.CatalogService
}

func NewInteractor(svc *service.CatalogService) catalogin.Usecase {
	return &Interactor{svc: svc}
}

func (i *Interactor) List(ctx context.Context) ([]dto.TaskOutput, error) {
	tasks, err := i.svc.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.TaskOutput, 0, len(tasks))
	for _, task := range tasks {
		out = append(out, dto.TaskOutput{ID: task.ID, Name: task.Name, Category: string(task.Category)})
	}
	return out, nil
}

func (i *Interactor) Get(ctx context.Context, id string) (dto.TaskOutput, error) {
	task, err := i.svc.Get(ctx, id)
	if err != nil {
		return dto.TaskOutput{}, err
	}
	return dto.TaskOutput{ID: task.ID, Name: task.Name, Category: string(task.Category)}, nil
}
