package ledger_test

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"tifrotate/internal/ledger"
)

func openStore(t *testing.T) *ledger.Store {
	t.Helper()
	store, err := ledger.Open(filepath.Join(t.TempDir(), "nested", "ledger.db"))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestRunLifecycle(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()
	started := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	if err := store.BeginRun(ctx, "run-1", "batch.csv", 2, started); err != nil {
		t.Fatalf("BeginRun failed: %v", err)
	}
	if err := store.RecordOutcome(ctx, "run-1", ledger.Outcome{Path: "A1.TIF", Rotation: "90L", OK: true, Duration: 1500 * time.Millisecond}); err != nil {
		t.Fatalf("RecordOutcome failed: %v", err)
	}
	if err := store.RecordOutcome(ctx, "run-1", ledger.Outcome{Path: "C3.TIF", Rotation: "180R", Message: "no decode delegate"}); err != nil {
		t.Fatalf("RecordOutcome failed: %v", err)
	}

	runs, err := store.RecentRuns(ctx, 10)
	if err != nil {
		t.Fatalf("RecentRuns failed: %v", err)
	}
	if len(runs) != 1 || runs[0].Finished() {
		t.Fatalf("expected one unfinished run, got %#v", runs)
	}

	if err := store.FinishRun(ctx, "run-1", 1, started.Add(time.Minute)); err != nil {
		t.Fatalf("FinishRun failed: %v", err)
	}
	runs, err = store.RecentRuns(ctx, 10)
	if err != nil {
		t.Fatalf("RecentRuns failed: %v", err)
	}
	run := runs[0]
	if run.ID != "run-1" || run.Manifest != "batch.csv" || run.Total != 2 || run.Failed != 1 {
		t.Fatalf("unexpected run: %#v", run)
	}
	if !run.Finished() || !run.FinishedAt.Equal(started.Add(time.Minute)) {
		t.Fatalf("unexpected finished_at: %v", run.FinishedAt)
	}

	outcomes, err := store.Outcomes(ctx, "run-1")
	if err != nil {
		t.Fatalf("Outcomes failed: %v", err)
	}
	if len(outcomes) != 2 {
		t.Fatalf("expected 2 outcomes, got %d", len(outcomes))
	}
	if !outcomes[0].OK || outcomes[0].Duration != 1500*time.Millisecond {
		t.Fatalf("unexpected first outcome: %#v", outcomes[0])
	}
	if outcomes[1].OK || outcomes[1].Message != "no decode delegate" {
		t.Fatalf("unexpected second outcome: %#v", outcomes[1])
	}
}

func TestRecentRunsOrderAndLimit(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()
	base := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	for i, id := range []string{"a", "b", "c"} {
		if err := store.BeginRun(ctx, id, "m.csv", 1, base.Add(time.Duration(i)*time.Hour)); err != nil {
			t.Fatalf("BeginRun %s: %v", id, err)
		}
	}

	runs, err := store.RecentRuns(ctx, 2)
	if err != nil {
		t.Fatalf("RecentRuns failed: %v", err)
	}
	if len(runs) != 2 || runs[0].ID != "c" || runs[1].ID != "b" {
		t.Fatalf("unexpected order: %#v", runs)
	}
}

func TestFinishUnknownRun(t *testing.T) {
	store := openStore(t)
	err := store.FinishRun(context.Background(), "missing", 0, time.Now())
	if !errors.Is(err, sql.ErrNoRows) {
		t.Fatalf("expected sql.ErrNoRows, got %v", err)
	}
}

func TestBeginRunRequiresID(t *testing.T) {
	store := openStore(t)
	if err := store.BeginRun(context.Background(), " ", "m.csv", 0, time.Now()); err == nil {
		t.Fatal("expected error for blank id")
	}
}

func TestOutcomeRequiresRun(t *testing.T) {
	store := openStore(t)
	err := store.RecordOutcome(context.Background(), "ghost", ledger.Outcome{Path: "x.TIF", Rotation: "90L"})
	if err == nil {
		t.Fatal("expected foreign key violation")
	}
}

func TestReopenKeepsHistory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ledger.db")
	store, err := ledger.Open(path)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	if err := store.BeginRun(context.Background(), "keep", "m.csv", 1, time.Now()); err != nil {
		t.Fatalf("BeginRun failed: %v", err)
	}
	_ = store.Close()

	reopened, err := ledger.Open(path)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	defer reopened.Close()
	runs, err := reopened.RecentRuns(context.Background(), 0)
	if err != nil {
		t.Fatalf("RecentRuns failed: %v", err)
	}
	if len(runs) != 1 || runs[0].ID != "keep" {
		t.Fatalf("unexpected runs after reopen: %#v", runs)
	}
	if reopened.Path() != path {
		t.Fatalf("Path = %q, want %q", reopened.Path(), path)
	}
}

func TestOpenRejectsEmptyPath(t *testing.T) {
	if _, err := ledger.Open("  "); err == nil {
		t.Fatal("expected error for empty path")
	}
}

func TestResolveRun(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()
	for _, id := range []string{"abc123", "abd456"} {
		if err := store.BeginRun(ctx, id, "m.csv", 0, time.Now()); err != nil {
			t.Fatalf("BeginRun %s: %v", id, err)
		}
	}

	id, err := store.ResolveRun(ctx, "abc")
	if err != nil || id != "abc123" {
		t.Fatalf("ResolveRun(abc) = %q, %v", id, err)
	}
	if _, err := store.ResolveRun(ctx, "ab"); err == nil {
		t.Fatal("expected ambiguous prefix error")
	}
	if _, err := store.ResolveRun(ctx, "zzz"); !errors.Is(err, ledger.ErrRunNotFound) {
		t.Fatalf("expected ErrRunNotFound, got %v", err)
	}
}
