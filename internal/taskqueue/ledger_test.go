package taskqueue_test

import (
	"context"
	"testing"
	"time"

	"socialmediagen/internal/taskqueue"
	"socialmediagen/internal/testsupport"
)

func newTask(id, canvasID string, status taskqueue.Status) taskqueue.Task {
	return taskqueue.Task{
		ID:          id,
		RunID:       1,
		CanvasID:    canvasID,
		SlideNumber: 1,
		Prompt:      "warm sunset over the sea",
		FormatHint:  "portrait",
		Status:      status,
		CreatedAt:   time.Now().UTC(),
	}
}

func TestLedgerRecordAndList(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	ledger := testsupport.MustOpenLedger(t, cfg)
	ctx := context.Background()

	first := newTask("task-1", "canvas-a", taskqueue.StatusPending)
	second := newTask("task-2", "canvas-b", taskqueue.StatusPending)
	second.CreatedAt = first.CreatedAt.Add(time.Millisecond)

	if err := ledger.Record(ctx, first); err != nil {
		t.Fatalf("record first: %v", err)
	}
	if err := ledger.Record(ctx, second); err != nil {
		t.Fatalf("record second: %v", err)
	}

	tasks, err := ledger.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(tasks) != 2 {
		t.Fatalf("expected 2 tasks, got %d", len(tasks))
	}
	if tasks[0].ID != "task-1" || tasks[1].ID != "task-2" {
		t.Fatalf("expected creation order, got %s then %s", tasks[0].ID, tasks[1].ID)
	}
	if tasks[0].Prompt != "warm sunset over the sea" {
		t.Errorf("prompt did not round-trip: %q", tasks[0].Prompt)
	}
	if tasks[0].FormatHint != "portrait" {
		t.Errorf("format hint did not round-trip: %q", tasks[0].FormatHint)
	}
}

func TestLedgerRecordUpsertsTransitions(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	ledger := testsupport.MustOpenLedger(t, cfg)
	ctx := context.Background()

	task := newTask("task-1", "canvas-a", taskqueue.StatusPending)
	if err := ledger.Record(ctx, task); err != nil {
		t.Fatalf("record pending: %v", err)
	}

	started := time.Now().UTC()
	task.Status = taskqueue.StatusGenerating
	task.StartedAt = &started
	if err := ledger.Record(ctx, task); err != nil {
		t.Fatalf("record generating: %v", err)
	}

	completed := started.Add(2 * time.Second)
	task.Status = taskqueue.StatusCompleted
	task.ImageURL = "https://img.example/final.png"
	task.Cost = 0.08
	task.CompletedAt = &completed
	if err := ledger.Record(ctx, task); err != nil {
		t.Fatalf("record completed: %v", err)
	}

	tasks, err := ledger.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(tasks) != 1 {
		t.Fatalf("expected a single upserted row, got %d", len(tasks))
	}
	got := tasks[0]
	if got.Status != taskqueue.StatusCompleted {
		t.Errorf("expected completed, got %s", got.Status)
	}
	if got.ImageURL != "https://img.example/final.png" {
		t.Errorf("image url did not persist: %q", got.ImageURL)
	}
	if got.StartedAt == nil || got.CompletedAt == nil {
		t.Fatal("expected timestamps to persist")
	}
	if !got.CompletedAt.After(*got.StartedAt) {
		t.Error("completed_at should follow started_at")
	}
}

func TestLedgerListFiltersByStatus(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	ledger := testsupport.MustOpenLedger(t, cfg)
	ctx := context.Background()

	statuses := []taskqueue.Status{
		taskqueue.StatusCompleted,
		taskqueue.StatusFailed,
		taskqueue.StatusCompleted,
		taskqueue.StatusPending,
	}
	for i, status := range statuses {
		task := newTask(string(rune('a'+i)), "canvas", status)
		task.ID = task.ID + "-id"
		task.CreatedAt = task.CreatedAt.Add(time.Duration(i) * time.Millisecond)
		if err := ledger.Record(ctx, task); err != nil {
			t.Fatalf("record %d: %v", i, err)
		}
	}

	completedAndFailed, err := ledger.List(ctx, taskqueue.StatusCompleted, taskqueue.StatusFailed)
	if err != nil {
		t.Fatalf("list filtered: %v", err)
	}
	if len(completedAndFailed) != 3 {
		t.Fatalf("expected 3 terminal tasks, got %d", len(completedAndFailed))
	}

	stats, err := ledger.Stats(ctx)
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if stats[taskqueue.StatusCompleted] != 2 || stats[taskqueue.StatusFailed] != 1 || stats[taskqueue.StatusPending] != 1 {
		t.Fatalf("unexpected stats: %v", stats)
	}
}

func TestLedgerTotalCostCountsCompletedOnly(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	ledger := testsupport.MustOpenLedger(t, cfg)
	ctx := context.Background()

	done := newTask("task-1", "canvas-a", taskqueue.StatusCompleted)
	done.Cost = 0.05
	failed := newTask("task-2", "canvas-b", taskqueue.StatusFailed)
	failed.Cost = 0.05

	if err := ledger.Record(ctx, done); err != nil {
		t.Fatalf("record done: %v", err)
	}
	if err := ledger.Record(ctx, failed); err != nil {
		t.Fatalf("record failed: %v", err)
	}

	total, err := ledger.TotalCost(ctx)
	if err != nil {
		t.Fatalf("total cost: %v", err)
	}
	if total != 0.05 {
		t.Fatalf("expected 0.05, got %f", total)
	}
}

func TestLedgerForCanvasAndClear(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	ledger := testsupport.MustOpenLedger(t, cfg)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		canvas := "canvas-a"
		if i == 2 {
			canvas = "canvas-b"
		}
		task := newTask("task-"+string(rune('1'+i)), canvas, taskqueue.StatusCompleted)
		task.CreatedAt = task.CreatedAt.Add(time.Duration(i) * time.Millisecond)
		if err := ledger.Record(ctx, task); err != nil {
			t.Fatalf("record %d: %v", i, err)
		}
	}

	forA, err := ledger.ForCanvas(ctx, "canvas-a")
	if err != nil {
		t.Fatalf("for canvas: %v", err)
	}
	if len(forA) != 2 {
		t.Fatalf("expected 2 tasks for canvas-a, got %d", len(forA))
	}

	removed, err := ledger.Clear(ctx)
	if err != nil {
		t.Fatalf("clear: %v", err)
	}
	if removed != 3 {
		t.Fatalf("expected 3 cleared rows, got %d", removed)
	}
	remaining, err := ledger.List(ctx)
	if err != nil {
		t.Fatalf("list after clear: %v", err)
	}
	if len(remaining) != 0 {
		t.Fatalf("expected empty ledger, got %d rows", len(remaining))
	}
}

func TestNilLedgerIsSafe(t *testing.T) {
	var ledger *taskqueue.Ledger
	ctx := context.Background()

	if err := ledger.Record(ctx, newTask("x", "c", taskqueue.StatusPending)); err != nil {
		t.Fatalf("nil record: %v", err)
	}
	if _, err := ledger.List(ctx); err != nil {
		t.Fatalf("nil list: %v", err)
	}
	if err := ledger.Close(); err != nil {
		t.Fatalf("nil close: %v", err)
	}
}
