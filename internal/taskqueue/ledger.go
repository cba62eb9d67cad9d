package taskqueue

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"socialmediagen/internal/config"
)

// Ledger persists every background-task transition in SQLite so task history
// and image spend survive the editor session.
type Ledger struct {
	db   *sql.DB
	path string
}

const (
	sqliteBusyCode          = 5
	busyRetryAttempts       = 5
	busyRetryInitialBackoff = 10 * time.Millisecond
	busyRetryMaxBackoff     = 200 * time.Millisecond
)

const ledgerSchema = `
CREATE TABLE IF NOT EXISTS background_tasks (
    id TEXT PRIMARY KEY,
    run_id INTEGER NOT NULL DEFAULT 0,
    canvas_id TEXT NOT NULL,
    slide_number INTEGER NOT NULL DEFAULT 0,
    prompt TEXT,
    format_hint TEXT,
    status TEXT NOT NULL,
    image_url TEXT,
    error_message TEXT,
    cost REAL NOT NULL DEFAULT 0,
    created_at TEXT NOT NULL,
    started_at TEXT,
    completed_at TEXT
);
CREATE INDEX IF NOT EXISTS idx_background_tasks_status ON background_tasks(status);
CREATE INDEX IF NOT EXISTS idx_background_tasks_canvas ON background_tasks(canvas_id);
`

// OpenLedger initializes or connects to the task ledger database.
func OpenLedger(cfg *config.Config) (*Ledger, error) {
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("ensure directories: %w", err)
	}

	dbPath := filepath.Join(cfg.Paths.WorkspaceDir, "tasks.db")
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	if _, err := db.Exec(ledgerSchema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("apply ledger schema: %w", err)
	}

	return &Ledger{db: db, path: dbPath}, nil
}

// Close closes the underlying database connection.
func (l *Ledger) Close() error {
	if l == nil || l.db == nil {
		return nil
	}
	return l.db.Close()
}

// Path returns the ledger database location.
func (l *Ledger) Path() string {
	if l == nil {
		return ""
	}
	return l.path
}

// Record upserts the current state of a task. Terminal rows are only ever
// rewritten with the same terminal state, so the history stays immutable in
// practice.
func (l *Ledger) Record(ctx context.Context, task Task) error {
	if l == nil {
		return nil
	}
	if task.ID == "" {
		return errors.New("task id required")
	}
	return l.execWithRetry(ctx,
		`INSERT INTO background_tasks (
            id, run_id, canvas_id, slide_number, prompt, format_hint, status,
            image_url, error_message, cost, created_at, started_at, completed_at
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
        ON CONFLICT(id) DO UPDATE SET
            status = excluded.status,
            image_url = excluded.image_url,
            error_message = excluded.error_message,
            cost = excluded.cost,
            started_at = excluded.started_at,
            completed_at = excluded.completed_at`,
		task.ID,
		int64(task.RunID),
		task.CanvasID,
		task.SlideNumber,
		nullableString(task.Prompt),
		nullableString(task.FormatHint),
		string(task.Status),
		nullableString(task.ImageURL),
		nullableString(task.ErrorMessage),
		task.Cost,
		task.CreatedAt.UTC().Format(time.RFC3339Nano),
		nullableTime(task.StartedAt),
		nullableTime(task.CompletedAt),
	)
}

// List returns tasks filtered by status set (or all tasks when no status is
// provided), oldest first.
func (l *Ledger) List(ctx context.Context, statuses ...Status) ([]Task, error) {
	if l == nil {
		return nil, nil
	}

	baseQuery := `SELECT ` + taskColumns + ` FROM background_tasks`
	orderClause := ` ORDER BY created_at`

	var (
		rows *sql.Rows
		err  error
	)
	if len(statuses) == 0 {
		rows, err = l.db.QueryContext(ctx, baseQuery+orderClause)
	} else {
		placeholders := makePlaceholders(len(statuses))
		args := make([]any, len(statuses))
		for i, status := range statuses {
			args[i] = string(status)
		}
		rows, err = l.db.QueryContext(ctx, baseQuery+` WHERE status IN (`+placeholders+`)`+orderClause, args...)
	}
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	defer rows.Close()

	var tasks []Task
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, task)
	}
	return tasks, rows.Err()
}

// ForCanvas returns every recorded task targeting a canvas, oldest first.
func (l *Ledger) ForCanvas(ctx context.Context, canvasID string) ([]Task, error) {
	if l == nil {
		return nil, nil
	}
	rows, err := l.db.QueryContext(ctx,
		`SELECT `+taskColumns+` FROM background_tasks WHERE canvas_id = ? ORDER BY created_at`, canvasID)
	if err != nil {
		return nil, fmt.Errorf("tasks for canvas: %w", err)
	}
	defer rows.Close()

	var tasks []Task
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, task)
	}
	return tasks, rows.Err()
}

// Stats returns a count of tasks grouped by status.
func (l *Ledger) Stats(ctx context.Context) (map[Status]int, error) {
	if l == nil {
		return map[Status]int{}, nil
	}
	rows, err := l.db.QueryContext(ctx, `SELECT status, COUNT(1) FROM background_tasks GROUP BY status`)
	if err != nil {
		return nil, fmt.Errorf("task stats: %w", err)
	}
	defer rows.Close()

	stats := make(map[Status]int)
	for rows.Next() {
		var status Status
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, err
		}
		stats[status] = count
	}
	return stats, rows.Err()
}

// TotalCost sums the recorded cost of completed tasks.
func (l *Ledger) TotalCost(ctx context.Context) (float64, error) {
	if l == nil {
		return 0, nil
	}
	row := l.db.QueryRowContext(ctx,
		`SELECT COALESCE(SUM(cost), 0) FROM background_tasks WHERE status = ?`, string(StatusCompleted))
	var total float64
	if err := row.Scan(&total); err != nil {
		return 0, fmt.Errorf("total cost: %w", err)
	}
	return total, nil
}

// Clear removes all recorded tasks.
func (l *Ledger) Clear(ctx context.Context) (int64, error) {
	if l == nil {
		return 0, nil
	}
	res, err := l.db.ExecContext(ctx, `DELETE FROM background_tasks`)
	if err != nil {
		return 0, fmt.Errorf("clear ledger: %w", err)
	}
	return res.RowsAffected()
}

func (l *Ledger) execWithRetry(ctx context.Context, query string, args ...any) error {
	if ctx == nil {
		ctx = context.Background()
	}
	delay := busyRetryInitialBackoff
	var lastErr error
	for attempt := 0; attempt < busyRetryAttempts; attempt++ {
		_, lastErr = l.db.ExecContext(ctx, query, args...)
		if lastErr == nil {
			return nil
		}
		if !isSQLiteBusy(lastErr) || attempt == busyRetryAttempts-1 {
			break
		}
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return ctx.Err()
		}
		if next := delay * 2; next <= busyRetryMaxBackoff {
			delay = next
		}
	}
	return lastErr
}

func isSQLiteBusy(err error) bool {
	if err == nil {
		return false
	}
	var coder interface{ Code() int }
	if errors.As(err, &coder) && coder.Code() == sqliteBusyCode {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "SQLITE_BUSY") || strings.Contains(msg, "database is locked")
}

const taskColumns = "id, run_id, canvas_id, slide_number, prompt, format_hint, status, image_url, error_message, cost, created_at, started_at, completed_at"

func scanTask(scanner interface{ Scan(dest ...any) error }) (Task, error) {
	var (
		id           string
		runID        int64
		canvasID     string
		slideNumber  int
		prompt       sql.NullString
		formatHint   sql.NullString
		statusStr    string
		imageURL     sql.NullString
		errorMessage sql.NullString
		cost         float64
		createdRaw   sql.NullString
		startedRaw   sql.NullString
		completedRaw sql.NullString
	)

	if err := scanner.Scan(
		&id,
		&runID,
		&canvasID,
		&slideNumber,
		&prompt,
		&formatHint,
		&statusStr,
		&imageURL,
		&errorMessage,
		&cost,
		&createdRaw,
		&startedRaw,
		&completedRaw,
	); err != nil {
		return Task{}, err
	}

	task := Task{
		ID:           id,
		RunID:        uint64(runID),
		CanvasID:     canvasID,
		SlideNumber:  slideNumber,
		Prompt:       prompt.String,
		FormatHint:   formatHint.String,
		Status:       Status(statusStr),
		ImageURL:     imageURL.String,
		ErrorMessage: errorMessage.String,
		Cost:         cost,
	}
	if created, err := parseTimeString(createdRaw.String); err == nil {
		task.CreatedAt = created
	}
	if startedRaw.Valid {
		if started, err := parseTimeString(startedRaw.String); err == nil {
			task.StartedAt = &started
		}
	}
	if completedRaw.Valid {
		if completed, err := parseTimeString(completedRaw.String); err == nil {
			task.CompletedAt = &completed
		}
	}
	return task, nil
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}

func nullableTime(value *time.Time) any {
	if value == nil {
		return nil
	}
	return value.UTC().Format(time.RFC3339Nano)
}

func parseTimeString(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, errors.New("empty")
	}
	if t, err := time.Parse(time.RFC3339Nano, value); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02 15:04:05", value)
}

func makePlaceholders(count int) string {
	if count <= 0 {
		return ""
	}
	placeholders := make([]byte, 0, count*2)
	for i := 0; i < count; i++ {
		if i > 0 {
			placeholders = append(placeholders, ',')
		}
		placeholders = append(placeholders, '?')
	}
	return string(placeholders)
}
