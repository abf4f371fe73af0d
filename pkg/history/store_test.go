package history

import (
	"context"
	"path/filepath"
	"testing"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewStore(filepath.Join(t.TempDir(), "history.db"))
	if err != nil {
		t.Fatalf("NewStore() error = %v", err)
	}
	if err := store.Init(context.Background()); err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestStoreRecordLifecycle(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	if err := store.RecordStart(ctx, "run_abc", RunKindPlaybook); err != nil {
		t.Fatalf("RecordStart() error = %v", err)
	}

	run, err := store.GetRun(ctx, "run_abc")
	if err != nil {
		t.Fatalf("GetRun() error = %v", err)
	}
	if run.Status != RunStatusRunning {
		t.Errorf("status = %v, want running", run.Status)
	}
	if run.CompletedAt != nil {
		t.Error("CompletedAt set before finish")
	}

	msg := "engine returned 2"
	if err := store.RecordFinish(ctx, "run_abc", RunStatusFailed, 2, &msg); err != nil {
		t.Fatalf("RecordFinish() error = %v", err)
	}

	run, err = store.GetRun(ctx, "run_abc")
	if err != nil {
		t.Fatalf("GetRun() error = %v", err)
	}
	if run.Status != RunStatusFailed || run.ReturnCode != 2 {
		t.Errorf("run = %+v, want failed with rc=2", run)
	}
	if run.Error == nil || *run.Error != msg {
		t.Errorf("error = %v, want recorded message", run.Error)
	}
	if run.CompletedAt == nil {
		t.Error("CompletedAt not set after finish")
	}
}

func TestStoreRecordFinishUnknownRun(t *testing.T) {
	store := newTestStore(t)
	err := store.RecordFinish(context.Background(), "missing", RunStatusCompleted, 0, nil)
	if err == nil {
		t.Fatal("RecordFinish() expected error for unknown run")
	}
}

func TestStoreListRuns(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	for _, id := range []string{"run_1", "run_2", "run_3"} {
		if err := store.RecordStart(ctx, id, RunKindAdHoc); err != nil {
			t.Fatalf("RecordStart(%s) error = %v", id, err)
		}
	}

	runs, err := store.ListRuns(ctx, 2)
	if err != nil {
		t.Fatalf("ListRuns() error = %v", err)
	}
	if len(runs) != 2 {
		t.Errorf("got %d runs, want limit of 2", len(runs))
	}
}
