package taskqueue

import (
	"strings"
	"time"
)

// Status represents the lifecycle of a background image task.
type Status string

const (
	StatusPending    Status = "pending"
	StatusGenerating Status = "generating"
	StatusCompleted  Status = "completed"
	StatusFailed     Status = "failed"
)

var allStatuses = []Status{
	StatusPending,
	StatusGenerating,
	StatusCompleted,
	StatusFailed,
}

var statusSet = func() map[Status]struct{} {
	set := make(map[Status]struct{}, len(allStatuses))
	for _, status := range allStatuses {
		set[status] = struct{}{}
	}
	return set
}()

// AllStatuses returns the ordered list of known statuses.
func AllStatuses() []Status {
	cp := make([]Status, len(allStatuses))
	copy(cp, allStatuses)
	return cp
}

// ParseStatus converts a string into a known Status.
func ParseStatus(value string) (Status, bool) {
	normalized := Status(strings.ToLower(strings.TrimSpace(value)))
	if normalized == "" {
		return "", false
	}
	_, ok := statusSet[normalized]
	return normalized, ok
}

// IsTerminal reports whether a status is final. Terminal tasks are never
// resurrected: a retry is modeled as a brand-new task.
func (s Status) IsTerminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

// Task is one queued image-generation unit of work scoped to a single
// canvas. SlideNumber is carried for reporting only; the task id is the real
// identity. RunID tags the generation run that enqueued the task so stale
// completions from a superseded run can be discarded.
type Task struct {
	ID           string
	RunID        uint64
	CanvasID     string
	SlideNumber  int
	Prompt       string
	FormatHint   string
	Status       Status
	ImageURL     string
	ErrorMessage string
	Cost         float64
	CreatedAt    time.Time
	StartedAt    *time.Time
	CompletedAt  *time.Time
}
