package generation

import "context"

// Timeline is the outbound port toward the timeline subsystem. Every canvas
// owns an empty timeline created alongside it and torn down when the canvas
// is removed. The orchestrator only ever calls through this narrow surface.
type Timeline interface {
	CreateForCanvas(ctx context.Context, canvasID string) error
	RemoveForCanvas(ctx context.Context, canvasID string) error
}

// NopTimeline satisfies Timeline without doing anything. Used when no
// timeline subsystem is attached.
type NopTimeline struct{}

func (NopTimeline) CreateForCanvas(context.Context, string) error { return nil }
func (NopTimeline) RemoveForCanvas(context.Context, string) error { return nil }
