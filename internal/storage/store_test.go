package storage

import (
	"context"
	"path/filepath"
	"testing"
	"time"
)

func storesUnderTest(t *testing.T) map[string]Store {
	t.Helper()
	ctx := context.Background()

	memory := NewMemoryStore()
	if err := memory.Init(ctx); err != nil {
		t.Fatalf("init memory: %v", err)
	}

	sqlite := NewSQLiteStore(filepath.Join(t.TempDir(), "tspga.db"))
	if err := sqlite.Init(ctx); err != nil {
		t.Fatalf("init sqlite: %v", err)
	}
	t.Cleanup(func() {
		_ = sqlite.Close()
	})

	return map[string]Store{"memory": memory, "sqlite": sqlite}
}

func TestStoreRunRoundTrip(t *testing.T) {
	ctx := context.Background()
	for name, store := range storesUnderTest(t) {
		t.Run(name, func(t *testing.T) {
			input := testRun("run-1", time.Date(2026, 2, 10, 10, 0, 0, 0, time.UTC))
			if err := store.SaveRun(ctx, input); err != nil {
				t.Fatalf("save run: %v", err)
			}

			output, ok, err := store.GetRun(ctx, "run-1")
			if err != nil {
				t.Fatalf("get run: %v", err)
			}
			if !ok {
				t.Fatal("expected persisted run")
			}
			if output.BestScore != 12 || len(output.Tour) != 3 || output.Tour[2] != 2 {
				t.Fatalf("unexpected run: %+v", output)
			}
			if !output.CreatedAt.Equal(input.CreatedAt) {
				t.Fatalf("created_at mismatch: %s vs %s", output.CreatedAt, input.CreatedAt)
			}

			_, ok, err = store.GetRun(ctx, "missing")
			if err != nil || ok {
				t.Fatalf("expected missing run, got ok=%t err=%v", ok, err)
			}
		})
	}
}

func TestStoreListNewestFirstAndUpsert(t *testing.T) {
	ctx := context.Background()
	for name, store := range storesUnderTest(t) {
		t.Run(name, func(t *testing.T) {
			early := testRun("run-1", time.Date(2026, 2, 10, 10, 0, 0, 0, time.UTC))
			late := testRun("run-2", time.Date(2026, 2, 10, 11, 0, 0, 0, time.UTC))
			if err := store.SaveRun(ctx, early); err != nil {
				t.Fatalf("save run-1: %v", err)
			}
			if err := store.SaveRun(ctx, late); err != nil {
				t.Fatalf("save run-2: %v", err)
			}

			runs, err := store.ListRuns(ctx)
			if err != nil {
				t.Fatalf("list: %v", err)
			}
			if len(runs) != 2 || runs[0].ID != "run-2" || runs[1].ID != "run-1" {
				t.Fatalf("unexpected order: %+v", runs)
			}
			if runs[0].Nodes != 3 || runs[0].Crossover != "neighbors" {
				t.Fatalf("unexpected summary: %+v", runs[0])
			}

			early.BestScore = 10
			early.CreatedAt = time.Date(2026, 2, 10, 12, 0, 0, 0, time.UTC)
			if err := store.SaveRun(ctx, early); err != nil {
				t.Fatalf("upsert run-1: %v", err)
			}
			runs, err = store.ListRuns(ctx)
			if err != nil {
				t.Fatalf("list after upsert: %v", err)
			}
			if len(runs) != 2 || runs[0].ID != "run-1" || runs[0].BestScore != 10 {
				t.Fatalf("unexpected upserted list: %+v", runs)
			}
		})
	}
}

func TestStoreDeleteRun(t *testing.T) {
	ctx := context.Background()
	for name, store := range storesUnderTest(t) {
		t.Run(name, func(t *testing.T) {
			if err := store.SaveRun(ctx, testRun("run-1", time.Now())); err != nil {
				t.Fatalf("save run: %v", err)
			}
			deleted, err := store.DeleteRun(ctx, "run-1")
			if err != nil || !deleted {
				t.Fatalf("expected delete, got deleted=%t err=%v", deleted, err)
			}
			deleted, err = store.DeleteRun(ctx, "run-1")
			if err != nil || deleted {
				t.Fatalf("expected no-op delete, got deleted=%t err=%v", deleted, err)
			}
		})
	}
}

func TestMemoryStoreIsolatesRecords(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	if err := store.Init(ctx); err != nil {
		t.Fatalf("init: %v", err)
	}
	input := testRun("run-1", time.Now())
	if err := store.SaveRun(ctx, input); err != nil {
		t.Fatalf("save: %v", err)
	}
	input.Tour[0] = 99

	output, _, err := store.GetRun(ctx, "run-1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if output.Tour[0] != 0 {
		t.Fatalf("stored record aliased caller slice: %v", output.Tour)
	}
}

func TestSQLiteStoreRequiresInit(t *testing.T) {
	store := NewSQLiteStore(filepath.Join(t.TempDir(), "tspga.db"))
	if _, _, err := store.GetRun(context.Background(), "x"); err == nil {
		t.Fatal("expected not initialized error")
	}
	if err := NewSQLiteStore("").Init(context.Background()); err == nil {
		t.Fatal("expected missing path error")
	}
}
