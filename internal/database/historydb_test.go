package database

import (
	"testing"
	"time"

	"github.com/notemd/notemd/internal/model"
)

func testRun(root model.PageID) *model.RunRecord {
	started := time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)
	return &model.RunRecord{
		RootID:     root,
		StartedAt:  started,
		FinishedAt: started.Add(42 * time.Second),
		Exported:   3,
		Skipped:    1,
		OutputDir:  "/tmp/export",
	}
}

// TestOpen tests database creation behavior.
func TestOpen(t *testing.T) {
	t.Parallel()

	t.Run("creates database when allowed", func(t *testing.T) {
		t.Parallel()

		hdb, err := Open(t.TempDir(), DefaultOptions())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		defer hdb.Close()

		if hdb.Path() == "" {
			t.Error("expected a database path")
		}
	})

	t.Run("refuses missing database without create", func(t *testing.T) {
		t.Parallel()

		_, err := Open(t.TempDir(), Options{CreateIfNotExists: false})
		if err == nil {
			t.Error("expected error for missing database")
		}
	})
}

// TestRecordRunAndQuery tests the round trip through the ledger.
func TestRecordRunAndQuery(t *testing.T) {
	t.Parallel()

	hdb, err := Open(t.TempDir(), DefaultOptions())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer hdb.Close()

	ctx := t.Context()
	root := model.PageID("0a1b2c3d-4e5f-6071-8293-a4b5c6d7e8f9")

	docs := []model.DocumentRecord{
		{PageID: "11111111-1111-4111-8111-111111111111", Title: "Alpha", Filename: "alpha--1111111111.md"},
		{PageID: "22222222-2222-4222-8222-222222222222", Title: "Beta", Filename: "beta--2222222222.md"},
	}

	runID, err := hdb.RecordRun(ctx, testRun(root), docs)
	if err != nil {
		t.Fatalf("RecordRun: %v", err)
	}
	if runID == 0 {
		t.Fatal("expected a nonzero run id")
	}

	t.Run("run retrievable by id", func(t *testing.T) {
		run, err := hdb.Run(ctx, runID)
		if err != nil {
			t.Fatalf("Run: %v", err)
		}
		if run == nil {
			t.Fatal("expected run")
		}
		if run.RootID != root {
			t.Errorf("unexpected root %q", run.RootID)
		}
		if run.Exported != 3 || run.Skipped != 1 {
			t.Errorf("unexpected counts %d/%d", run.Exported, run.Skipped)
		}
		if run.StartedAt.IsZero() || run.FinishedAt.Before(run.StartedAt) {
			t.Errorf("unexpected run bounds %v..%v", run.StartedAt, run.FinishedAt)
		}
	})

	t.Run("documents kept in insertion order", func(t *testing.T) {
		got, err := hdb.Documents(ctx, runID)
		if err != nil {
			t.Fatalf("Documents: %v", err)
		}
		if len(got) != 2 {
			t.Fatalf("expected 2 documents, got %d", len(got))
		}
		if got[0].Title != "Alpha" || got[1].Title != "Beta" {
			t.Errorf("unexpected order: %q, %q", got[0].Title, got[1].Title)
		}
		if got[0].RunID != runID {
			t.Errorf("unexpected run id %d", got[0].RunID)
		}
	})

	t.Run("missing run returns nil", func(t *testing.T) {
		run, err := hdb.Run(ctx, runID+100)
		if err != nil {
			t.Fatalf("Run: %v", err)
		}
		if run != nil {
			t.Errorf("expected nil, got %+v", run)
		}
	})
}

// TestRunsOrdering verifies runs come back newest first with the limit
// applied.
func TestRunsOrdering(t *testing.T) {
	t.Parallel()

	hdb, err := Open(t.TempDir(), DefaultOptions())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer hdb.Close()

	ctx := t.Context()
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	roots := []model.PageID{
		"11111111-1111-4111-8111-111111111111",
		"22222222-2222-4222-8222-222222222222",
		"33333333-3333-4333-8333-333333333333",
	}

	for i, root := range roots {
		run := testRun(root)
		run.StartedAt = base.Add(time.Duration(i) * time.Hour)
		run.FinishedAt = run.StartedAt.Add(time.Minute)
		if _, err := hdb.RecordRun(ctx, run, nil); err != nil {
			t.Fatalf("RecordRun: %v", err)
		}
	}

	t.Run("newest first", func(t *testing.T) {
		runs, err := hdb.Runs(ctx, 0)
		if err != nil {
			t.Fatalf("Runs: %v", err)
		}
		if len(runs) != 3 {
			t.Fatalf("expected 3 runs, got %d", len(runs))
		}
		if runs[0].RootID != roots[2] || runs[2].RootID != roots[0] {
			t.Errorf("unexpected order: %v", runs)
		}
	})

	t.Run("limit applies", func(t *testing.T) {
		runs, err := hdb.Runs(ctx, 2)
		if err != nil {
			t.Fatalf("Runs: %v", err)
		}
		if len(runs) != 2 {
			t.Fatalf("expected 2 runs, got %d", len(runs))
		}
	})

	t.Run("last run for root", func(t *testing.T) {
		run, err := hdb.LastRunForRoot(ctx, roots[1])
		if err != nil {
			t.Fatalf("LastRunForRoot: %v", err)
		}
		if run == nil || run.RootID != roots[1] {
			t.Errorf("unexpected run: %+v", run)
		}

		missing, err := hdb.LastRunForRoot(ctx, "99999999-9999-4999-8999-999999999999")
		if err != nil {
			t.Fatalf("LastRunForRoot: %v", err)
		}
		if missing != nil {
			t.Errorf("expected nil for unknown root, got %+v", missing)
		}
	})
}

// TestParseTimestamp covers the formats SQLite is known to emit.
func TestParseTimestamp(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		zero  bool
	}{
		{name: "rfc3339", input: "2026-03-14T09:30:00Z"},
		{name: "sqlite default", input: "2026-03-14 09:30:00"},
		{name: "garbage", input: "not a time", zero: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := parseTimestamp(tt.input)
			if tt.zero != got.IsZero() {
				t.Errorf("parseTimestamp(%q) = %v", tt.input, got)
			}
		})
	}
}
