package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"ttrack/internal/modules/sync/domain"
	"ttrack/internal/modules/sync/service"
	trackerdto "ttrack/internal/modules/tracker/dto"
	apperrors "ttrack/internal/platform/errors"
)

// fakeQueue mirrors the sync-status lifecycle of the entry store.
type fakeQueue struct {
	entries []trackerdto.EntryOutput
	status  map[string]string
	errMsg  map[string]string
	refs    map[string]string

	// listOverride simulates a stale queue listing from a concurrent pass.
	listOverride []trackerdto.EntryOutput
}

func newFakeQueue(entries ...trackerdto.EntryOutput) *fakeQueue {
	q := &fakeQueue{
		entries: entries,
		status:  map[string]string{},
		errMsg:  map[string]string{},
		refs:    map[string]string{},
	}
	for _, entry := range entries {
		q.status[entry.ID] = entry.SyncStatus
	}
	return q
}

func (q *fakeQueue) ListUnsynced(context.Context) ([]trackerdto.EntryOutput, error) {
	if q.listOverride != nil {
		return q.listOverride, nil
	}
	var out []trackerdto.EntryOutput
	for _, entry := range q.entries {
		if s := q.status[entry.ID]; s == "unsynced" || s == "sync_failed" {
			out = append(out, entry)
		}
	}
	return out, nil
}

func (q *fakeQueue) ClaimForSync(_ context.Context, entryID string) (bool, error) {
	if s := q.status[entryID]; s != "unsynced" && s != "sync_failed" {
		return false, nil
	}
	q.status[entryID] = "syncing"
	return true, nil
}

func (q *fakeQueue) MarkSynced(ctx context.Context, entryID, remoteRef string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	q.status[entryID] = "synced"
	q.refs[entryID] = remoteRef
	q.errMsg[entryID] = ""
	return nil
}

func (q *fakeQueue) MarkSyncFailed(ctx context.Context, entryID, message string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	q.status[entryID] = "sync_failed"
	q.errMsg[entryID] = message
	return nil
}

type fakeGateway struct {
	results map[string]submitResult
	calls   []string
}

type submitResult struct {
	ref string
	err error
}

func (g *fakeGateway) Submit(_ context.Context, submission domain.Submission) (string, error) {
	g.calls = append(g.calls, submission.Ticket)
	result := g.results[submission.Ticket]
	return result.ref, result.err
}

func queueEntry(id, ticket string) trackerdto.EntryOutput {
	return trackerdto.EntryOutput{
		ID:         id,
		TaskName:   "Development",
		Ticket:     ticket,
		StartedAt:  time.Date(2026, 8, 25, 9, 0, 0, 0, time.UTC),
		Worked:     30 * time.Minute,
		Status:     "closed",
		SyncStatus: "unsynced",
	}
}

func TestRunPassSyncsQueuedEntries(t *testing.T) {
	t.Parallel()
	queue := newFakeQueue(queueEntry("entry-1", "PROJ-1"), queueEntry("entry-2", "PROJ-2"))
	gateway := &fakeGateway{results: map[string]submitResult{
		"PROJ-1": {ref: "worklog-1"},
		"PROJ-2": {ref: "worklog-2"},
	}}
	svc := service.NewSyncService(queue, gateway, nil, time.Second)

	report, err := svc.RunPass(context.Background())
	if err != nil {
		t.Fatalf("run pass: %v", err)
	}
	if report.Synced != 2 || report.Failed != 0 || report.Skipped != 0 {
		t.Fatalf("report = %+v", report)
	}
	if queue.status["entry-1"] != "synced" || queue.refs["entry-1"] != "worklog-1" {
		t.Fatalf("entry-1 = %s/%s", queue.status["entry-1"], queue.refs["entry-1"])
	}
}

// cancellingGateway kills the pass context from inside Submit, the way
// a daemon shutdown interrupts an in-flight request.
type cancellingGateway struct {
	cancel context.CancelFunc
}

func (g *cancellingGateway) Submit(context.Context, domain.Submission) (string, error) {
	g.cancel()
	return "", apperrors.NewRemoteError(apperrors.RemoteTransient, errors.New("connection reset"))
}

func TestCancelledPassReleasesSyncClaim(t *testing.T) {
	t.Parallel()
	queue := newFakeQueue(queueEntry("entry-1", "PROJ-1"))
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	svc := service.NewSyncService(queue, &cancellingGateway{cancel: cancel}, nil, time.Second)

	report, err := svc.RunPass(ctx)
	if err != nil {
		t.Fatalf("run pass: %v", err)
	}
	if report.Failed != 1 {
		t.Fatalf("report = %+v", report)
	}
	if queue.status["entry-1"] != "sync_failed" {
		t.Fatalf("status = %s, want sync_failed, not a stuck claim", queue.status["entry-1"])
	}
	entries, err := queue.ListUnsynced(context.Background())
	if err != nil {
		t.Fatalf("list unsynced: %v", err)
	}
	if len(entries) != 1 || entries[0].ID != "entry-1" {
		t.Fatalf("entry must stay visible to the next pass, got %v", entries)
	}
}

func TestPendingReportsQueueDepth(t *testing.T) {
	t.Parallel()
	queue := newFakeQueue(queueEntry("entry-1", "PROJ-1"), queueEntry("entry-2", "PROJ-2"))
	gateway := &fakeGateway{results: map[string]submitResult{
		"PROJ-1": {ref: "worklog-1"},
		"PROJ-2": {ref: "worklog-2"},
	}}
	svc := service.NewSyncService(queue, gateway, nil, time.Second)

	pending, err := svc.Pending(context.Background())
	if err != nil {
		t.Fatalf("pending: %v", err)
	}
	if pending != 2 {
		t.Fatalf("pending = %d, want 2", pending)
	}
	if _, err := svc.RunPass(context.Background()); err != nil {
		t.Fatalf("run pass: %v", err)
	}
	pending, err = svc.Pending(context.Background())
	if err != nil {
		t.Fatalf("pending after pass: %v", err)
	}
	if pending != 0 {
		t.Fatalf("pending after pass = %d, want 0", pending)
	}
}

func TestDuplicateWorklogCountsAsSynced(t *testing.T) {
	t.Parallel()
	queue := newFakeQueue(queueEntry("entry-1", "PROJ-1"))
	gateway := &fakeGateway{results: map[string]submitResult{
		"PROJ-1": {err: apperrors.NewRemoteError(apperrors.RemoteDuplicate, errors.New("worklog already recorded"))},
	}}
	svc := service.NewSyncService(queue, gateway, nil, time.Second)

	report, err := svc.RunPass(context.Background())
	if err != nil {
		t.Fatalf("run pass: %v", err)
	}
	if report.Synced != 1 || report.Failed != 0 {
		t.Fatalf("report = %+v", report)
	}
	if !report.Outcomes[0].Duplicate {
		t.Fatalf("outcome must flag duplicate")
	}
	if queue.status["entry-1"] != "synced" {
		t.Fatalf("status = %s, want synced", queue.status["entry-1"])
	}
}

func TestTransientFailureStaysQueuedAndSucceedsNextPass(t *testing.T) {
	t.Parallel()
	queue := newFakeQueue(queueEntry("entry-1", "PROJ-1"))
	gateway := &fakeGateway{results: map[string]submitResult{
		"PROJ-1": {err: apperrors.NewRemoteError(apperrors.RemoteTransient, errors.New("remote unavailable"))},
	}}
	svc := service.NewSyncService(queue, gateway, nil, time.Second)

	report, err := svc.RunPass(context.Background())
	if err != nil {
		t.Fatalf("first pass: %v", err)
	}
	if report.Failed != 1 {
		t.Fatalf("report = %+v", report)
	}
	if queue.status["entry-1"] != "sync_failed" {
		t.Fatalf("status = %s, want sync_failed", queue.status["entry-1"])
	}
	if queue.errMsg["entry-1"] == "" {
		t.Fatalf("failure message must be recorded")
	}

	// Remote recovers: the same entry syncs on the next pass.
	gateway.results["PROJ-1"] = submitResult{ref: "worklog-9"}
	report, err = svc.RunPass(context.Background())
	if err != nil {
		t.Fatalf("second pass: %v", err)
	}
	if report.Synced != 1 {
		t.Fatalf("report = %+v", report)
	}
	if queue.status["entry-1"] != "synced" || queue.refs["entry-1"] != "worklog-9" {
		t.Fatalf("entry-1 = %s/%s", queue.status["entry-1"], queue.refs["entry-1"])
	}
}

func TestOneFailureDoesNotBlockTheRestOfThePass(t *testing.T) {
	t.Parallel()
	queue := newFakeQueue(
		queueEntry("entry-1", "PROJ-1"),
		queueEntry("entry-2", "PROJ-2"),
		queueEntry("entry-3", "PROJ-3"),
	)
	gateway := &fakeGateway{results: map[string]submitResult{
		"PROJ-1": {ref: "worklog-1"},
		"PROJ-2": {err: apperrors.NewRemoteError(apperrors.RemotePermanent, errors.New("issue does not exist"))},
		"PROJ-3": {ref: "worklog-3"},
	}}
	svc := service.NewSyncService(queue, gateway, nil, time.Second)

	report, err := svc.RunPass(context.Background())
	if err != nil {
		t.Fatalf("run pass: %v", err)
	}
	if report.Synced != 2 || report.Failed != 1 {
		t.Fatalf("report = %+v", report)
	}
	if len(gateway.calls) != 3 {
		t.Fatalf("gateway calls = %v, want all three", gateway.calls)
	}
	if queue.status["entry-3"] != "synced" {
		t.Fatalf("entry-3 = %s, want synced", queue.status["entry-3"])
	}
}

func TestLostClaimIsSkippedWithoutSubmitting(t *testing.T) {
	t.Parallel()
	queue := newFakeQueue(queueEntry("entry-1", "PROJ-1"))
	queue.status["entry-1"] = "syncing" // another pass holds the claim
	queue.entries[0].SyncStatus = "unsynced"

	// ListUnsynced filters on live status, so force the stale listing
	// the way a concurrent pass would see it.
	queue.listOverride = []trackerdto.EntryOutput{queue.entries[0]}

	gateway := &fakeGateway{results: map[string]submitResult{}}
	svc := service.NewSyncService(queue, gateway, nil, time.Second)

	report, err := svc.RunPass(context.Background())
	if err != nil {
		t.Fatalf("run pass: %v", err)
	}
	if report.Skipped != 1 || report.Synced != 0 || report.Failed != 0 {
		t.Fatalf("report = %+v", report)
	}
	if len(gateway.calls) != 0 {
		t.Fatalf("gateway must not be called for a lost claim")
	}
}

func TestEntryWithoutTicketFailsPermanently(t *testing.T) {
	t.Parallel()
	entry := queueEntry("entry-1", "")
	queue := newFakeQueue(entry)
	gateway := &fakeGateway{results: map[string]submitResult{}}
	svc := service.NewSyncService(queue, gateway, nil, time.Second)

	report, err := svc.RunPass(context.Background())
	if err != nil {
		t.Fatalf("run pass: %v", err)
	}
	if report.Failed != 1 {
		t.Fatalf("report = %+v", report)
	}
	if len(gateway.calls) != 0 {
		t.Fatalf("invalid submission must not reach the gateway")
	}
	if queue.status["entry-1"] != "sync_failed" {
		t.Fatalf("status = %s, want sync_failed", queue.status["entry-1"])
	}
}
