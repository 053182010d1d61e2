package out

import (
	"context"
	"time"

	"ttrack/internal/modules/tracker/domain"
)

// EntryStore is the durable backing of the timer state machine. Every
// mutation commits before the call returns.
type EntryStore interface {
	Create(ctx context.Context, entry domain.TimeEntry) error
	Get(ctx context.Context, entryID string) (domain.TimeEntry, error)
	// SaveTransition persists a status change guarded on the prior
	// status; a guard miss reports ErrInvalidTransition.
	SaveTransition(ctx context.Context, entry domain.TimeEntry, from domain.Status) error
	// GetActive returns the single open or paused entry, or
	// ErrNoActiveEntry.
	GetActive(ctx context.Context) (domain.TimeEntry, error)
	// ListUnsynced returns closed unsynced or sync-failed entries,
	// oldest start first.
	ListUnsynced(ctx context.Context) ([]domain.TimeEntry, error)
	ListCreatedBetween(ctx context.Context, from, to time.Time) ([]domain.TimeEntry, error)
	// ClaimForSync flips unsynced|sync_failed to syncing and reports
	// whether this caller won the claim.
	ClaimForSync(ctx context.Context, entryID string) (bool, error)
	MarkSynced(ctx context.Context, entryID, remoteRef string) error
	MarkSyncFailed(ctx context.Context, entryID, message string) error
	// DeleteClosedUnsynced removes closed entries that were never
	// reported upstream and returns how many rows went away.
	DeleteClosedUnsynced(ctx context.Context, entryIDs []string) (int, error)
}
