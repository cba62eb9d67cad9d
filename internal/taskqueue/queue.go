package taskqueue

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"socialmediagen/internal/logging"
	"socialmediagen/internal/services"
	"socialmediagen/internal/services/imagegen"
)

// Reporter receives per-task lifecycle callbacks during a drain. The
// orchestrator implements it to feed the loading-state tracker.
type Reporter interface {
	TaskStarted(task Task)
	TaskProgress(task Task, percent float64)
	TaskCompleted(task Task)
	TaskFailed(task Task, err error)
}

// Queue holds background image tasks for one editor session and drains them
// strictly one at a time in enqueue order. Sequential processing is a
// deliberate backpressure policy against a rate-limited image service, not
// an oversight.
//
// ProcessQueue is re-entrant safe: a second call only picks up tasks still
// pending. The queue holds no mutex across the scan-then-process window, so
// independent call sites must not run overlapping drains against the same
// instance; the orchestrator serializes them.
type Queue struct {
	generator imagegen.Generator
	reporter  Reporter
	ledger    *Ledger
	logger    *slog.Logger

	mu    sync.Mutex
	tasks []*Task
}

// Option configures optional Queue behavior.
type Option func(*Queue)

// WithLedger attaches a persistent task ledger recording every transition.
func WithLedger(ledger *Ledger) Option {
	return func(q *Queue) {
		q.ledger = ledger
	}
}

// WithLogger attaches a logger for drain diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(q *Queue) {
		if logger != nil {
			q.logger = logger
		}
	}
}

// New constructs an empty queue draining into the given image generator.
func New(generator imagegen.Generator, reporter Reporter, opts ...Option) *Queue {
	q := &Queue{
		generator: generator,
		reporter:  reporter,
		logger:    logging.NewNop(),
	}
	for _, opt := range opts {
		opt(q)
	}
	return q
}

// Enqueue appends a pending task and returns a snapshot of it. Tasks are
// append-only within a run; terminal tasks stay in the list as history.
func (q *Queue) Enqueue(ctx context.Context, runID uint64, canvasID string, slideNumber int, prompt, formatHint string) Task {
	task := &Task{
		ID:          uuid.NewString(),
		RunID:       runID,
		CanvasID:    canvasID,
		SlideNumber: slideNumber,
		Prompt:      prompt,
		FormatHint:  formatHint,
		Status:      StatusPending,
		CreatedAt:   time.Now().UTC(),
	}

	q.mu.Lock()
	q.tasks = append(q.tasks, task)
	snapshot := *task
	q.mu.Unlock()

	q.recordLedger(ctx, snapshot)
	return snapshot
}

// ProcessQueue drains every task that was pending when the call was made,
// sequentially and in enqueue order. A failed task records its error and
// does not block the remainder of the batch. Tasks that left the pending
// state since the scan (a concurrent drain picked them up) are skipped.
func (q *Queue) ProcessQueue(ctx context.Context) {
	pending := q.pendingSnapshot()
	for _, task := range pending {
		if ctx.Err() != nil {
			return
		}
		q.processTask(ctx, task)
	}
}

func (q *Queue) pendingSnapshot() []*Task {
	q.mu.Lock()
	defer q.mu.Unlock()
	var pending []*Task
	for _, task := range q.tasks {
		if task.Status == StatusPending {
			pending = append(pending, task)
		}
	}
	return pending
}

func (q *Queue) processTask(ctx context.Context, task *Task) {
	q.mu.Lock()
	if task.Status != StatusPending {
		q.mu.Unlock()
		return
	}
	now := time.Now().UTC()
	task.Status = StatusGenerating
	task.StartedAt = &now
	snapshot := *task
	q.mu.Unlock()

	taskCtx := services.WithTaskID(services.WithCanvasID(ctx, snapshot.CanvasID), snapshot.ID)
	q.logger.Info("image task started",
		logging.String("task_id", snapshot.ID),
		logging.String("canvas_id", snapshot.CanvasID),
		logging.Int("slide", snapshot.SlideNumber),
	)

	q.recordLedger(taskCtx, snapshot)
	q.reporter.TaskStarted(snapshot)

	image, err := q.generator.Generate(taskCtx, snapshot.Prompt, snapshot.FormatHint)

	// Response received; the payload still has to be applied.
	q.reporter.TaskProgress(snapshot, 50)

	q.mu.Lock()
	done := time.Now().UTC()
	task.CompletedAt = &done
	if err != nil {
		task.Status = StatusFailed
		task.ErrorMessage = err.Error()
	} else {
		task.Status = StatusCompleted
		task.ImageURL = image.URL
		task.Cost = image.Cost
	}
	snapshot = *task
	q.mu.Unlock()

	if err == nil {
		// Result parsed; only the apply step remains.
		q.reporter.TaskProgress(snapshot, 90)
	}
	q.recordLedger(taskCtx, snapshot)

	if err != nil {
		q.logger.Warn("image task failed",
			logging.String("task_id", snapshot.ID),
			logging.String("canvas_id", snapshot.CanvasID),
			logging.Error(err),
		)
		q.reporter.TaskFailed(snapshot, err)
		return
	}

	q.logger.Info("image task completed",
		logging.String("task_id", snapshot.ID),
		logging.String("canvas_id", snapshot.CanvasID),
		logging.Float64("cost", snapshot.Cost),
	)
	q.reporter.TaskCompleted(snapshot)
}

// Tasks returns a snapshot of every task in enqueue order.
func (q *Queue) Tasks() []Task {
	q.mu.Lock()
	defer q.mu.Unlock()
	cp := make([]Task, 0, len(q.tasks))
	for _, task := range q.tasks {
		cp = append(cp, *task)
	}
	return cp
}

// TaskByID returns a snapshot of one task.
func (q *Queue) TaskByID(id string) (Task, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	for _, task := range q.tasks {
		if task.ID == id {
			return *task, true
		}
	}
	return Task{}, false
}

func (q *Queue) recordLedger(ctx context.Context, task Task) {
	if q.ledger == nil {
		return
	}
	if err := q.ledger.Record(ctx, task); err != nil {
		q.logger.Warn("task ledger write failed",
			logging.String("task_id", task.ID),
			logging.Error(err),
		)
	}
}
