package in

import (
	"context"

	"ttrack/internal/modules/tracker/dto"
	trackerin "ttrack/internal/modules/tracker/port/in"
)

type CLIHandler struct {
	usecase trackerin.Usecase
}

func NewCLIHandler(usecase trackerin.Usecase) CLIHandler {
	return CLIHandler{usecase: usecase}
}

func (h CLIHandler) Start(ctx context.Context, taskID, ticket string) (dto.StartOutput, error) {
	return h.usecase.Start(ctx, dto.StartInput{TaskID: taskID, Ticket: ticket})
}

func (h CLIHandler) Pause(ctx context.Context) (dto.EntryOutput, error) {
	return h.usecase.Pause(ctx)
}

func (h CLIHandler) Resume(ctx context.Context) (dto.EntryOutput, error) {
	return h.usecase.Resume(ctx)
}

func (h CLIHandler) Stop(ctx context.Context) (dto.StopOutput, error) {
	return h.usecase.Stop(ctx)
}

func (h CLIHandler) Active(ctx context.Context) (dto.ActiveOutput, error) {
	return h.usecase.Active(ctx)
}

func (h CLIHandler) ListToday(ctx context.Context) ([]dto.EntryOutput, error) {
	return h.usecase.ListToday(ctx)
}

func (h CLIHandler) Discard(ctx context.Context, entryIDs []string) (dto.DiscardOutput, error) {
	return h.usecase.Discard(ctx, entryIDs)
}
