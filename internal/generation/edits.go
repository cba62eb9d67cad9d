package generation

import (
	"context"

	"socialmediagen/internal/logging"
)

// Structural edits are applied immediately, including while a generation
// run or a queue drain is in flight. An in-flight task whose target canvas
// is removed completes into a no-op through the tracker's tombstones.

// AddCanvas inserts a new empty canvas at position (append when position is
// out of range), makes it active, and returns its id. Returns "" when the
// collection is already at the ceiling.
func (o *Orchestrator) AddCanvas(ctx context.Context, position int) string {
	o.mu.Lock()
	next, id := o.project.AddCanvas(position, o.maxCanvasCount)
	if id == "" {
		o.mu.Unlock()
		return ""
	}
	o.project = next
	o.nav = o.nav.Recompute(next)
	o.mu.Unlock()

	if err := o.timeline.CreateForCanvas(ctx, id); err != nil {
		o.logger.Warn("timeline create failed",
			logging.String("canvas_id", id),
			logging.Error(err),
		)
	}
	o.logger.Info("canvas added", logging.String("canvas_id", id))
	return id
}

// RemoveCanvas deletes a canvas along with its loading state, stored
// assets, and timeline. Returns false at the single-canvas floor or for an
// unknown id.
func (o *Orchestrator) RemoveCanvas(ctx context.Context, canvasID string) bool {
	o.mu.Lock()
	next, ok := o.project.RemoveCanvas(canvasID)
	if !ok {
		o.mu.Unlock()
		return false
	}
	o.project = next
	o.tracker.Remove(canvasID)
	o.nav = o.nav.Recompute(next)
	o.mu.Unlock()

	if _, err := o.assets.RemoveForCanvas(ctx, canvasID); err != nil {
		o.logger.Warn("asset cleanup failed",
			logging.String("canvas_id", canvasID),
			logging.Error(err),
		)
	}
	if err := o.timeline.RemoveForCanvas(ctx, canvasID); err != nil {
		o.logger.Warn("timeline cleanup failed",
			logging.String("canvas_id", canvasID),
			logging.Error(err),
		)
	}
	o.logger.Info("canvas removed", logging.String("canvas_id", canvasID))
	return true
}

// DuplicateCanvas clones a canvas's slide content into a new canvas
// directly after the source. Loading state and task history are not
// cloned. Returns "" at the ceiling or for an unknown id.
func (o *Orchestrator) DuplicateCanvas(ctx context.Context, canvasID string) string {
	o.mu.Lock()
	next, id := o.project.DuplicateCanvas(canvasID, o.maxCanvasCount)
	if id == "" {
		o.mu.Unlock()
		return ""
	}
	o.project = next
	o.nav = o.nav.Recompute(next)
	o.mu.Unlock()

	if err := o.timeline.CreateForCanvas(ctx, id); err != nil {
		o.logger.Warn("timeline create failed",
			logging.String("canvas_id", id),
			logging.Error(err),
		)
	}
	o.logger.Info("canvas duplicated",
		logging.String("source_id", canvasID),
		logging.String("canvas_id", id),
	)
	return id
}

// Reorder moves the canvas at fromIndex to toIndex. The active canvas
// keeps its active flag wherever it lands.
func (o *Orchestrator) Reorder(fromIndex, toIndex int) bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	next, ok := o.project.Reorder(fromIndex, toIndex)
	if !ok {
		return false
	}
	o.project = next
	o.nav = o.nav.Recompute(next)
	return true
}

// SetActiveCanvas marks one canvas active. Unknown ids are ignored.
func (o *Orchestrator) SetActiveCanvas(canvasID string) bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	next, ok := o.project.SetActive(canvasID)
	if !ok {
		return false
	}
	o.project = next
	o.nav = o.nav.Recompute(next)
	return true
}
