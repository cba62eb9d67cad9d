package taskqueue

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"socialmediagen/internal/services/imagegen"
)

type scriptedGenerator struct {
	calls   []string
	failFor map[string]error
}

func (g *scriptedGenerator) Generate(_ context.Context, prompt, _ string) (imagegen.Image, error) {
	g.calls = append(g.calls, prompt)
	if err, ok := g.failFor[prompt]; ok {
		return imagegen.Image{}, err
	}
	url := "https://img.example/" + strings.ReplaceAll(prompt, " ", "-")
	return imagegen.Image{URL: url, Cost: 0.04}, nil
}

type event struct {
	kind    string
	taskID  string
	percent float64
}

type recordingReporter struct {
	events []event
}

func (r *recordingReporter) TaskStarted(task Task) {
	r.events = append(r.events, event{kind: "started", taskID: task.ID})
}

func (r *recordingReporter) TaskProgress(task Task, percent float64) {
	r.events = append(r.events, event{kind: "progress", taskID: task.ID, percent: percent})
}

func (r *recordingReporter) TaskCompleted(task Task) {
	r.events = append(r.events, event{kind: "completed", taskID: task.ID})
}

func (r *recordingReporter) TaskFailed(task Task, _ error) {
	r.events = append(r.events, event{kind: "failed", taskID: task.ID})
}

func TestProcessQueueDrainsSequentiallyInEnqueueOrder(t *testing.T) {
	gen := &scriptedGenerator{}
	reporter := &recordingReporter{}
	queue := New(gen, reporter)

	ctx := context.Background()
	var ids []string
	for i := 1; i <= 4; i++ {
		task := queue.Enqueue(ctx, 1, fmt.Sprintf("canvas-%d", i), i, fmt.Sprintf("prompt %d", i), "portrait")
		ids = append(ids, task.ID)
	}

	queue.ProcessQueue(ctx)

	if len(gen.calls) != 4 {
		t.Fatalf("expected 4 generator calls, got %d", len(gen.calls))
	}
	for i, prompt := range gen.calls {
		expected := fmt.Sprintf("prompt %d", i+1)
		if prompt != expected {
			t.Fatalf("call %d: expected %q, got %q", i, expected, prompt)
		}
	}

	// No task may start before its predecessor reached a terminal event.
	lastTerminal := -1
	for idx, id := range ids {
		startAt, terminalAt := -1, -1
		for i, ev := range reporter.events {
			if ev.taskID != id {
				continue
			}
			switch ev.kind {
			case "started":
				startAt = i
			case "completed", "failed":
				terminalAt = i
			}
		}
		if startAt == -1 || terminalAt == -1 {
			t.Fatalf("task %d missing lifecycle events", idx)
		}
		if startAt < lastTerminal {
			t.Fatalf("task %d started before predecessor finished", idx)
		}
		lastTerminal = terminalAt
	}

	for _, task := range queue.Tasks() {
		if task.Status != StatusCompleted {
			t.Fatalf("task %s: expected completed, got %s", task.ID, task.Status)
		}
		if task.ImageURL == "" {
			t.Fatalf("task %s: missing image url", task.ID)
		}
	}
}

func TestProcessQueueFailureDoesNotBlockBatch(t *testing.T) {
	gen := &scriptedGenerator{failFor: map[string]error{
		"prompt 2": errors.New("rate limited"),
	}}
	reporter := &recordingReporter{}
	queue := New(gen, reporter)

	ctx := context.Background()
	for i := 1; i <= 3; i++ {
		queue.Enqueue(ctx, 1, fmt.Sprintf("canvas-%d", i), i, fmt.Sprintf("prompt %d", i), "")
	}

	queue.ProcessQueue(ctx)

	tasks := queue.Tasks()
	if len(tasks) != 3 {
		t.Fatalf("expected 3 tasks, got %d", len(tasks))
	}
	if tasks[0].Status != StatusCompleted {
		t.Errorf("task 0: expected completed, got %s", tasks[0].Status)
	}
	if tasks[1].Status != StatusFailed {
		t.Errorf("task 1: expected failed, got %s", tasks[1].Status)
	}
	if tasks[1].ErrorMessage == "" {
		t.Error("task 1: expected error message")
	}
	if tasks[2].Status != StatusCompleted {
		t.Errorf("task 2: expected completed after failure, got %s", tasks[2].Status)
	}
}

func TestProcessQueueReportsProgressCheckpoints(t *testing.T) {
	gen := &scriptedGenerator{}
	reporter := &recordingReporter{}
	queue := New(gen, reporter)

	ctx := context.Background()
	task := queue.Enqueue(ctx, 1, "canvas-1", 1, "a sunrise", "square")
	queue.ProcessQueue(ctx)

	var percents []float64
	for _, ev := range reporter.events {
		if ev.taskID == task.ID && ev.kind == "progress" {
			percents = append(percents, ev.percent)
		}
	}
	if len(percents) != 2 || percents[0] != 50 || percents[1] != 90 {
		t.Fatalf("expected progress checkpoints [50 90], got %v", percents)
	}
}

func TestProcessQueueFailedTaskSkipsNinetyPercent(t *testing.T) {
	gen := &scriptedGenerator{failFor: map[string]error{"bad": errors.New("boom")}}
	reporter := &recordingReporter{}
	queue := New(gen, reporter)

	ctx := context.Background()
	task := queue.Enqueue(ctx, 1, "canvas-1", 1, "bad", "")
	queue.ProcessQueue(ctx)

	for _, ev := range reporter.events {
		if ev.taskID == task.ID && ev.kind == "progress" && ev.percent == 90 {
			t.Fatal("failed task must not report the 90 percent checkpoint")
		}
	}
}

func TestProcessQueueReentrantCallSkipsHandledTasks(t *testing.T) {
	gen := &scriptedGenerator{}
	reporter := &recordingReporter{}
	queue := New(gen, reporter)

	ctx := context.Background()
	queue.Enqueue(ctx, 1, "canvas-1", 1, "first", "")
	queue.ProcessQueue(ctx)

	queue.Enqueue(ctx, 1, "canvas-2", 2, "second", "")
	queue.ProcessQueue(ctx)

	if len(gen.calls) != 2 {
		t.Fatalf("expected 2 generator calls across drains, got %d", len(gen.calls))
	}
	if gen.calls[0] != "first" || gen.calls[1] != "second" {
		t.Fatalf("unexpected call order: %v", gen.calls)
	}
}

func TestProcessQueueStopsOnCancelledContext(t *testing.T) {
	gen := &scriptedGenerator{}
	queue := New(gen, &recordingReporter{})

	ctx, cancel := context.WithCancel(context.Background())
	queue.Enqueue(ctx, 1, "canvas-1", 1, "never", "")
	cancel()

	queue.ProcessQueue(ctx)

	if len(gen.calls) != 0 {
		t.Fatalf("expected no generator calls after cancel, got %d", len(gen.calls))
	}
	tasks := queue.Tasks()
	if tasks[0].Status != StatusPending {
		t.Fatalf("expected task to stay pending, got %s", tasks[0].Status)
	}
}

func TestTaskByID(t *testing.T) {
	queue := New(&scriptedGenerator{}, &recordingReporter{})
	task := queue.Enqueue(context.Background(), 7, "canvas-1", 1, "hello", "")

	found, ok := queue.TaskByID(task.ID)
	if !ok {
		t.Fatal("expected task lookup to succeed")
	}
	if found.RunID != 7 || found.Prompt != "hello" {
		t.Fatalf("unexpected task snapshot: %+v", found)
	}
	if _, ok := queue.TaskByID("missing"); ok {
		t.Fatal("expected lookup of unknown id to fail")
	}
}
