package in

import (
	"context"

	"ttrack/internal/modules/tracker/dto"
)

type Usecase interface {
	Start(ctx context.Context, input dto.StartInput) (dto.StartOutput, error)
	Pause(ctx context.Context) (dto.EntryOutput, error)
	Resume(ctx context.Context) (dto.EntryOutput, error)
	Stop(ctx context.Context) (dto.StopOutput, error)
	Active(ctx context.Context) (dto.ActiveOutput, error)
	ListToday(ctx context.Context) ([]dto.EntryOutput, error)
	Discard(ctx context.Context, entryIDs []string) (dto.DiscardOutput, error)
}

// SyncQueue is the narrow surface the sync engine reconciles against.
// It only ever touches sync-status fields, never timer or business data.
type SyncQueue interface {
	ListUnsynced(ctx context.Context) ([]dto.EntryOutput, error)
	ClaimForSync(ctx context.Context, entryID string) (bool, error)
	MarkSynced(ctx context.Context, entryID, remoteRef string) error
	MarkSyncFailed(ctx context.Context, entryID, message string) error
}
