package services

import "context"

type contextKey string

const (
	runIDKey    contextKey = "run_id"
	canvasIDKey contextKey = "canvas_id"
	taskIDKey   contextKey = "task_id"
)

// WithRunID annotates context with the generation run identifier.
func WithRunID(ctx context.Context, id uint64) context.Context {
	return context.WithValue(ctx, runIDKey, id)
}

// RunIDFromContext extracts the generation run identifier if present.
func RunIDFromContext(ctx context.Context) (uint64, bool) {
	if v, ok := ctx.Value(runIDKey).(uint64); ok {
		return v, true
	}
	return 0, false
}

// WithCanvasID annotates context with the target canvas identifier.
func WithCanvasID(ctx context.Context, id string) context.Context {
	if id == "" {
		return ctx
	}
	return context.WithValue(ctx, canvasIDKey, id)
}

// CanvasIDFromContext returns the canvas identifier if present.
func CanvasIDFromContext(ctx context.Context) (string, bool) {
	if v, ok := ctx.Value(canvasIDKey).(string); ok && v != "" {
		return v, true
	}
	return "", false
}

// WithTaskID annotates context with the background task identifier.
func WithTaskID(ctx context.Context, id string) context.Context {
	if id == "" {
		return ctx
	}
	return context.WithValue(ctx, taskIDKey, id)
}

// TaskIDFromContext returns the background task identifier if present.
func TaskIDFromContext(ctx context.Context) (string, bool) {
	if v, ok := ctx.Value(taskIDKey).(string); ok && v != "" {
		return v, true
	}
	return "", false
}
