package main

import (
	"errors"
	"strings"
	"testing"
	"time"

	"tifrotate/internal/batch"
	"tifrotate/internal/jobs"
	"tifrotate/internal/ledger"
	"tifrotate/internal/rotation"
)

func TestRenderSummaryGroupsCounts(t *testing.T) {
	out := renderSummary(batch.Summary{
		RunID:     "0123456789abcdef",
		Manifest:  "scans.csv",
		Rows:      1234,
		Total:     1200,
		Succeeded: 1200,
		Skipped:   34,
		Elapsed:   1500 * time.Millisecond,
	})
	for _, want := range []string{"1,234", "1,200", "01234567", "scans.csv", "1.5s"} {
		if !strings.Contains(out, want) {
			t.Fatalf("summary missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "0123456789abcdef") {
		t.Fatal("expected shortened run id")
	}
}

func TestRenderFailuresTrimsMessages(t *testing.T) {
	out := renderFailures([]rotation.Outcome{{
		Job: jobs.Job{TargetPath: "/scans/C3.TIF", RotationSpec: "180R", Line: 4},
		Err: &rotation.RotationFailure{Path: "/scans/C3.TIF", Message: "no decode delegate\n"},
	}})
	for _, want := range []string{"/scans/C3.TIF", "180R", "no decode delegate", "4"} {
		if !strings.Contains(out, want) {
			t.Fatalf("failures table missing %q:\n%s", want, out)
		}
	}
}

func TestRenderRunsRelativeStart(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	finished := now.Add(-time.Hour + 90*time.Second)
	out := renderRuns([]ledger.Run{
		{ID: "aaaaaaaaaaaa", Manifest: "a.csv", StartedAt: now.Add(-time.Hour), FinishedAt: &finished, Total: 2, Failed: 1},
		{ID: "bbbb", Manifest: "b.csv", StartedAt: now.Add(-2 * time.Minute)},
	}, now)
	for _, want := range []string{"1 hour ago", "2 minutes ago", "1m30s", "running", "aaaaaaaa", "2 RUNS"} {
		if !strings.Contains(out, want) {
			t.Fatalf("runs table missing %q:\n%s", want, out)
		}
	}
}

func TestRenderOutcomes(t *testing.T) {
	out := renderOutcomes([]ledger.Outcome{
		{Path: "A1.TIF", Rotation: "90L", OK: true, Duration: 42 * time.Millisecond},
		{Path: "C3.TIF", Rotation: "180R", Message: errors.New("bad").Error()},
	})
	for _, want := range []string{"A1.TIF", "42ms", "failed", "bad"} {
		if !strings.Contains(out, want) {
			t.Fatalf("outcomes table missing %q:\n%s", want, out)
		}
	}
}
