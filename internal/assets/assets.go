package assets

import (
	"context"
	"time"
)

// Asset is one stored generated background image reference.
type Asset struct {
	ID        string
	CanvasID  string
	URL       string
	Cost      float64
	CreatedAt time.Time
}

// Store is the outbound media-asset port. Regeneration removes a canvas's
// previous asset before the replacement task completes, so a superseded
// image never leaks as a stored duplicate.
type Store interface {
	Store(ctx context.Context, canvasID, url string, cost float64) (Asset, error)
	ForCanvas(ctx context.Context, canvasID string) ([]Asset, error)
	RemoveForCanvas(ctx context.Context, canvasID string) (int, error)
}
