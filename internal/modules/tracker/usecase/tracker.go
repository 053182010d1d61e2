package usecase

import (
	"context"

	catalogin "ttrack/internal/modules/catalog/port/in"
	"ttrack/internal/modules/tracker/domain"
	"ttrack/internal/modules/tracker/dto"
	trackerin "ttrack/internal/modules/tracker/port/in"
	trackerout "ttrack/internal/modules/tracker/port/out"
	"ttrack/internal/modules/tracker/service"
)

type Interactor struct {
	svc     *service.TrackerService
	catalog catalogin.Usecase
	store   trackerout.EntryStore
}

func NewInteractor(svc *service.TrackerService, catalog catalogin.Usecase, store trackerout.EntryStore) *Interactor {
	return &Interactor{svc: svc, catalog: catalog, store: store}
}

var (
	_ trackerin.Usecase   = (*Interactor)(nil)
	_ trackerin.SyncQueue = (*Interactor)(nil)
)

func (i *Interactor) Start(ctx context.Context, input dto.StartInput) (dto.StartOutput, error) {
	task, err := i.catalog.Get(ctx, input.TaskID)
	if err != nil {
		return dto.StartOutput{}, err
	}
	entry, err := i.svc.Start(ctx, task.ID, task.Name, input.Ticket)
	if err != nil {
		return dto.StartOutput{}, err
	}
	return dto.StartOutput{EntryID: entry.ID, TaskName: entry.TaskName, StartedAt: entry.StartedAt}, nil
}

func (i *Interactor) Pause(ctx context.Context) (dto.EntryOutput, error) {
	entry, err := i.svc.Pause(ctx)
	if err != nil {
		return dto.EntryOutput{}, err
	}
	return toEntryOutput(entry), nil
}

func (i *Interactor) Resume(ctx context.Context) (dto.EntryOutput, error) {
	entry, err := i.svc.Resume(ctx)
	if err != nil {
		return dto.EntryOutput{}, err
	}
	return toEntryOutput(entry), nil
}

func (i *Interactor) Stop(ctx context.Context) (dto.StopOutput, error) {
	entry, err := i.svc.Stop(ctx)
	if err != nil {
		return dto.StopOutput{}, err
	}
	return dto.StopOutput{EntryID: entry.ID, Worked: entry.Worked(), Anomaly: entry.Anomaly}, nil
}

func (i *Interactor) Active(ctx context.Context) (dto.ActiveOutput, error) {
	state, entry, elapsed, err := i.svc.Active(ctx)
	if err != nil {
		return dto.ActiveOutput{}, err
	}
	out := dto.ActiveOutput{State: string(state)}
	if state != domain.TimerIdle {
		out.EntryID = entry.ID
		out.TaskName = entry.TaskName
		out.Ticket = entry.Ticket
		out.StartedAt = entry.StartedAt
		out.Elapsed = elapsed
	}
	return out, nil
}

func (i *Interactor) ListToday(ctx context.Context) ([]dto.EntryOutput, error) {
	entries, err := i.svc.ListToday(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.EntryOutput, 0, len(entries))
	for _, entry := range entries {
		out = append(out, toEntryOutput(entry))
	}
	return out, nil
}

func (i *Interactor) Discard(ctx context.Context, entryIDs []string) (dto.DiscardOutput, error) {
	deleted, err := i.svc.Discard(ctx, entryIDs)
	if err != nil {
		return dto.DiscardOutput{}, err
	}
	return dto.DiscardOutput{Deleted: deleted}, nil
}

func (i *Interactor) ListUnsynced(ctx context.Context) ([]dto.EntryOutput, error) {
	entries, err := i.store.ListUnsynced(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.EntryOutput, 0, len(entries))
	for _, entry := range entries {
		out = append(out, toEntryOutput(entry))
	}
	return out, nil
}

func (i *Interactor) ClaimForSync(ctx context.Context, entryID string) (bool, error) {
	return i.store.ClaimForSync(ctx, entryID)
}

func (i *Interactor) MarkSynced(ctx context.Context, entryID, remoteRef string) error {
	return i.store.MarkSynced(ctx, entryID, remoteRef)
}

func (i *Interactor) MarkSyncFailed(ctx context.Context, entryID, message string) error {
	return i.store.MarkSyncFailed(ctx, entryID, message)
}

func toEntryOutput(entry domain.TimeEntry) dto.EntryOutput {
	return dto.EntryOutput{
		ID:         entry.ID,
		TaskID:     entry.TaskID,
		TaskName:   entry.TaskName,
		Ticket:     entry.Ticket,
		StartedAt:  entry.StartedAt,
		EndedAt:    entry.EndedAt,
		PausedFor:  entry.PausedFor,
		Worked:     entry.Worked(),
		Status:     string(entry.Status),
		SyncStatus: string(entry.SyncStatus),
		SyncError:  entry.SyncError,
		RemoteRef:  entry.RemoteRef,
		Anomaly:    entry.Anomaly,
	}
}
