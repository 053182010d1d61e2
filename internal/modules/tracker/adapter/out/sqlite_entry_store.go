package out

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"ttrack/internal/modules/tracker/domain"
	trackerout "ttrack/internal/modules/tracker/port/out"
	apperrors "ttrack/internal/platform/errors"

	_ "modernc.org/sqlite"
)

const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// SQLiteEntryStore persists time entries. Every statement runs in its own
// implicit transaction, so each mutation is durable before the call
// returns. Status guards live in the WHERE clauses so an interleaved
// writer can never produce a second active entry.
type SQLiteEntryStore struct {
	db *sql.DB
}

func NewSQLiteEntryStore(dbPath string) (*SQLiteEntryStore, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	store := &SQLiteEntryStore{db: db}
	if err := store.ensureSchema(context.Background()); err != nil {
		return nil, err
	}
	return store, nil
}

var _ trackerout.EntryStore = (*SQLiteEntryStore)(nil)

func (s *SQLiteEntryStore) ensureSchema(ctx context.Context) error {
	const ddl = `
CREATE TABLE IF NOT EXISTS entries (
  id TEXT PRIMARY KEY,
  task_id TEXT NOT NULL,
  task_name TEXT NOT NULL,
  ticket TEXT NOT NULL,
  started_at TEXT NOT NULL,
  ended_at TEXT,
  paused_for_ns INTEGER NOT NULL DEFAULT 0,
  pause_began TEXT,
  status TEXT NOT NULL,
  sync_status TEXT NOT NULL,
  sync_error TEXT NOT NULL DEFAULT '',
  remote_ref TEXT NOT NULL DEFAULT '',
  created_at TEXT NOT NULL,
  anomaly INTEGER NOT NULL DEFAULT 0
);
CREATE INDEX IF NOT EXISTS idx_entries_status ON entries(status);
CREATE INDEX IF NOT EXISTS idx_entries_sync ON entries(status, sync_status);
`
	if _, err := s.db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("create entries table: %w", err)
	}
	// A pass that died between claim and mark leaves rows in 'syncing';
	// requeue them so they are visible to the next pass.
	const requeue = `
UPDATE entries
SET sync_status = 'sync_failed', sync_error = 'sync interrupted'
WHERE sync_status = 'syncing';
`
	if _, err := s.db.ExecContext(ctx, requeue); err != nil {
		return fmt.Errorf("requeue interrupted entries: %w", err)
	}
	return nil
}

func (s *SQLiteEntryStore) Create(ctx context.Context, entry domain.TimeEntry) error {
	const stmt = `
INSERT INTO entries (id, task_id, task_name, ticket, started_at, ended_at, paused_for_ns, pause_began, status, sync_status, sync_error, remote_ref, created_at, anomaly)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?);
`
	_, err := s.db.ExecContext(ctx, stmt,
		entry.ID,
		entry.TaskID,
		entry.TaskName,
		entry.Ticket,
		formatTime(entry.StartedAt),
		formatNullableTime(entry.EndedAt),
		int64(entry.PausedFor),
		formatNullableTime(entry.PauseBegan),
		string(entry.Status),
		string(entry.SyncStatus),
		entry.SyncError,
		entry.RemoteRef,
		formatTime(entry.CreatedAt),
		boolToInt(entry.Anomaly),
	)
	if err != nil {
		return fmt.Errorf("insert entry: %w", err)
	}
	return nil
}

func (s *SQLiteEntryStore) Get(ctx context.Context, entryID string) (domain.TimeEntry, error) {
	row := s.db.QueryRowContext(ctx, selectColumns+` WHERE id = ?`, entryID)
	entry, err := scanEntry(row)
	if err == sql.ErrNoRows {
		return domain.TimeEntry{}, apperrors.ErrEntryNotFound
	}
	if err != nil {
		return domain.TimeEntry{}, fmt.Errorf("get entry: %w", err)
	}
	return entry, nil
}

func (s *SQLiteEntryStore) SaveTransition(ctx context.Context, entry domain.TimeEntry, from domain.Status) error {
	const stmt = `
UPDATE entries
SET status = ?, ended_at = ?, paused_for_ns = ?, pause_began = ?, anomaly = ?
WHERE id = ? AND status = ?;
`
	res, err := s.db.ExecContext(ctx, stmt,
		string(entry.Status),
		formatNullableTime(entry.EndedAt),
		int64(entry.PausedFor),
		formatNullableTime(entry.PauseBegan),
		boolToInt(entry.Anomaly),
		entry.ID,
		string(from),
	)
	if err != nil {
		return fmt.Errorf("save transition: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("save transition: %w", err)
	}
	if affected == 0 {
		return apperrors.ErrInvalidTransition
	}
	return nil
}

func (s *SQLiteEntryStore) GetActive(ctx context.Context) (domain.TimeEntry, error) {
	row := s.db.QueryRowContext(ctx, selectColumns+` WHERE status IN ('open', 'paused') LIMIT 1`)
	entry, err := scanEntry(row)
	if err == sql.ErrNoRows {
		return domain.TimeEntry{}, apperrors.ErrNoActiveEntry
	}
	if err != nil {
		return domain.TimeEntry{}, fmt.Errorf("get active entry: %w", err)
	}
	return entry, nil
}

func (s *SQLiteEntryStore) ListUnsynced(ctx context.Context) ([]domain.TimeEntry, error) {
	const query = selectColumns + `
WHERE status = 'closed' AND sync_status IN ('unsynced', 'sync_failed')
ORDER BY started_at ASC;
`
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list unsynced: %w", err)
	}
	defer rows.Close()
	return collectEntries(rows)
}

func (s *SQLiteEntryStore) ListCreatedBetween(ctx context.Context, from, to time.Time) ([]domain.TimeEntry, error) {
	const query = selectColumns + `
WHERE created_at >= ? AND created_at < ?
ORDER BY started_at ASC;
`
	rows, err := s.db.QueryContext(ctx, query, formatTime(from), formatTime(to))
	if err != nil {
		return nil, fmt.Errorf("list entries: %w", err)
	}
	defer rows.Close()
	return collectEntries(rows)
}

func (s *SQLiteEntryStore) ClaimForSync(ctx context.Context, entryID string) (bool, error) {
	const stmt = `
UPDATE entries
SET sync_status = 'syncing'
WHERE id = ? AND status = 'closed' AND sync_status IN ('unsynced', 'sync_failed');
`
	res, err := s.db.ExecContext(ctx, stmt, entryID)
	if err != nil {
		return false, fmt.Errorf("claim entry for sync: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("claim entry for sync: %w", err)
	}
	return affected == 1, nil
}

func (s *SQLiteEntryStore) MarkSynced(ctx context.Context, entryID, remoteRef string) error {
	const stmt = `
UPDATE entries
SET sync_status = 'synced', remote_ref = ?, sync_error = ''
WHERE id = ?;
`
	if _, err := s.db.ExecContext(ctx, stmt, remoteRef, entryID); err != nil {
		return fmt.Errorf("mark synced: %w", err)
	}
	return nil
}

func (s *SQLiteEntryStore) MarkSyncFailed(ctx context.Context, entryID, message string) error {
	const stmt = `
UPDATE entries
SET sync_status = 'sync_failed', sync_error = ?, remote_ref = ''
WHERE id = ?;
`
	if _, err := s.db.ExecContext(ctx, stmt, message, entryID); err != nil {
		return fmt.Errorf("mark sync failed: %w", err)
	}
	return nil
}

func (s *SQLiteEntryStore) DeleteClosedUnsynced(ctx context.Context, entryIDs []string) (int, error) {
	if len(entryIDs) == 0 {
		return 0, nil
	}
	placeholders := strings.Repeat("?,", len(entryIDs))
	placeholders = placeholders[:len(placeholders)-1]
	stmt := `
DELETE FROM entries
WHERE id IN (` + placeholders + `) AND status = 'closed' AND sync_status IN ('unsynced', 'sync_failed');
`
	args := make([]any, 0, len(entryIDs))
	for _, entryID := range entryIDs {
		args = append(args, entryID)
	}
	res, err := s.db.ExecContext(ctx, stmt, args...)
	if err != nil {
		return 0, fmt.Errorf("delete entries: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("delete entries: %w", err)
	}
	return int(affected), nil
}

func (s *SQLiteEntryStore) Close() error {
	return s.db.Close()
}

const selectColumns = `
SELECT id, task_id, task_name, ticket, started_at, ended_at, paused_for_ns, pause_began, status, sync_status, sync_error, remote_ref, created_at, anomaly
FROM entries`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEntry(row rowScanner) (domain.TimeEntry, error) {
	var (
		entry                domain.TimeEntry
		startedAt, createdAt string
		endedAt, pauseBegan  sql.NullString
		pausedForNS          int64
		status, syncStatus   string
		anomaly              int
	)
	err := row.Scan(
		&entry.ID,
		&entry.TaskID,
		&entry.TaskName,
		&entry.Ticket,
		&startedAt,
		&endedAt,
		&pausedForNS,
		&pauseBegan,
		&status,
		&syncStatus,
		&entry.SyncError,
		&entry.RemoteRef,
		&createdAt,
		&anomaly,
	)
	if err != nil {
		return domain.TimeEntry{}, err
	}
	entry.StartedAt, err = parseTime(startedAt)
	if err != nil {
		return domain.TimeEntry{}, err
	}
	entry.CreatedAt, err = parseTime(createdAt)
	if err != nil {
		return domain.TimeEntry{}, err
	}
	entry.EndedAt, err = parseNullableTime(endedAt)
	if err != nil {
		return domain.TimeEntry{}, err
	}
	entry.PauseBegan, err = parseNullableTime(pauseBegan)
	if err != nil {
		return domain.TimeEntry{}, err
	}
	entry.PausedFor = time.Duration(pausedForNS)
	entry.Status = domain.Status(status)
	entry.SyncStatus = domain.SyncStatus(syncStatus)
	entry.Anomaly = anomaly != 0
	return entry, nil
}

func collectEntries(rows *sql.Rows) ([]domain.TimeEntry, error) {
	entries := []domain.TimeEntry{}
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("scan entry: %w", err)
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate entries: %w", err)
	}
	return entries, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func formatTime(t time.Time) string {
	return t.Format(timeLayout)
}

func formatNullableTime(t time.Time) any {
	if t.IsZero() {
		return nil
	}
	return t.Format(timeLayout)
}

func parseTime(v string) (time.Time, error) {
	t, err := time.Parse(timeLayout, v)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse stored time %q: %w", v, err)
	}
	return t, nil
}

func parseNullableTime(v sql.NullString) (time.Time, error) {
	if !v.Valid || v.String == "" {
		return time.Time{}, nil
	}
	return parseTime(v.String)
}
