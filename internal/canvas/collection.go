package canvas

import (
	"time"

	"github.com/google/uuid"
)

// Structural operations are total functions over Project. Edge cases (count
// ceiling, count floor, unknown ids) saturate into no-ops instead of failing;
// callers that need saturation feedback compare pre/post state or check the
// returned id.

// NewProject creates a project with a single empty active canvas.
func NewProject(name string, strategy BackgroundStrategy) Project {
	now := time.Now().UTC()
	first := Canvas{
		ID:          uuid.NewString(),
		SlideNumber: 1,
		IsActive:    true,
		Background:  GradientToken(0),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	return Project{
		ID:                 uuid.NewString(),
		Name:               name,
		Canvases:           []Canvas{first},
		BackgroundStrategy: strategy,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
}

// AddCanvas inserts a new empty canvas at position (or at the end when
// position is out of range), renumbers, and marks the new canvas active.
// Returns the new canvas id, or "" when the project is already at maxCount.
func (p Project) AddCanvas(position, maxCount int) (Project, string) {
	if len(p.Canvases) >= maxCount {
		return p, ""
	}
	if position < 0 || position > len(p.Canvases) {
		position = len(p.Canvases)
	}

	now := time.Now().UTC()
	next := Canvas{
		ID:         uuid.NewString(),
		IsActive:   true,
		Background: GradientToken(position),
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	cp := p.clone()
	for i := range cp.Canvases {
		cp.Canvases[i].IsActive = false
	}
	cp.Canvases = append(cp.Canvases[:position], append([]Canvas{next}, cp.Canvases[position:]...)...)
	renumber(cp.Canvases)
	cp.UpdatedAt = now
	return cp, next.ID
}

// RemoveCanvas removes the canvas with the given id and renumbers the rest.
// When the removed canvas was active, the canvas now occupying the same index
// (or the last remaining canvas) becomes active. No-op at count 1 or for an
// unknown id.
func (p Project) RemoveCanvas(id string) (Project, bool) {
	if len(p.Canvases) <= 1 {
		return p, false
	}
	index := p.IndexOf(id)
	if index < 0 {
		return p, false
	}

	wasActive := p.Canvases[index].IsActive

	cp := p.clone()
	cp.Canvases = append(cp.Canvases[:index], cp.Canvases[index+1:]...)
	renumber(cp.Canvases)

	if wasActive {
		replacement := index
		if replacement >= len(cp.Canvases) {
			replacement = len(cp.Canvases) - 1
		}
		cp.Canvases[replacement].IsActive = true
	}
	cp.UpdatedAt = time.Now().UTC()
	return cp, true
}

// DuplicateCanvas clones the slide content of the canvas with the given id
// into a new canvas inserted immediately after the source. The active canvas
// does not change. Returns the new canvas id, or "" at the ceiling or for an
// unknown id.
func (p Project) DuplicateCanvas(id string, maxCount int) (Project, string) {
	if len(p.Canvases) >= maxCount {
		return p, ""
	}
	index := p.IndexOf(id)
	if index < 0 {
		return p, ""
	}

	now := time.Now().UTC()
	source := p.Canvases[index]
	clone := source
	clone.ID = uuid.NewString()
	clone.IsActive = false
	clone.IsRegenerating = false
	clone.CreatedAt = now
	clone.UpdatedAt = now

	cp := p.clone()
	cp.Canvases = append(cp.Canvases[:index+1], append([]Canvas{clone}, cp.Canvases[index+1:]...)...)
	renumber(cp.Canvases)
	cp.UpdatedAt = now
	return cp, clone.ID
}

// Reorder moves the canvas at fromIndex to toIndex and renumbers. The active
// flag travels with the canvas, not with the index. No-op for out-of-range
// indexes.
func (p Project) Reorder(fromIndex, toIndex int) (Project, bool) {
	if fromIndex < 0 || fromIndex >= len(p.Canvases) || toIndex < 0 || toIndex >= len(p.Canvases) {
		return p, false
	}
	if fromIndex == toIndex {
		return p, true
	}

	cp := p.clone()
	moved := cp.Canvases[fromIndex]
	cp.Canvases = append(cp.Canvases[:fromIndex], cp.Canvases[fromIndex+1:]...)
	cp.Canvases = append(cp.Canvases[:toIndex], append([]Canvas{moved}, cp.Canvases[toIndex:]...)...)
	renumber(cp.Canvases)
	cp.UpdatedAt = time.Now().UTC()
	return cp, true
}

// SetActive marks the canvas with the given id as the single active canvas.
// No-op for an unknown id.
func (p Project) SetActive(id string) (Project, bool) {
	index := p.IndexOf(id)
	if index < 0 {
		return p, false
	}
	cp := p.clone()
	for i := range cp.Canvases {
		cp.Canvases[i].IsActive = i == index
	}
	cp.UpdatedAt = time.Now().UTC()
	return cp, true
}

// WithSlideContent replaces the generated text fields of one canvas.
func (p Project) WithSlideContent(id, title, body, callToAction, backgroundPrompt string) (Project, bool) {
	index := p.IndexOf(id)
	if index < 0 {
		return p, false
	}
	cp := p.clone()
	c := &cp.Canvases[index]
	c.Title = title
	c.Body = body
	c.CallToAction = callToAction
	c.BackgroundPrompt = backgroundPrompt
	c.UpdatedAt = time.Now().UTC()
	cp.UpdatedAt = c.UpdatedAt
	return cp, true
}

// WithBackground replaces the background reference of one canvas.
func (p Project) WithBackground(id, background string) (Project, bool) {
	index := p.IndexOf(id)
	if index < 0 {
		return p, false
	}
	cp := p.clone()
	cp.Canvases[index].Background = background
	cp.Canvases[index].UpdatedAt = time.Now().UTC()
	cp.UpdatedAt = cp.Canvases[index].UpdatedAt
	return cp, true
}

// WithRegenerating toggles the regeneration flag of one canvas.
func (p Project) WithRegenerating(id string, regenerating bool) (Project, bool) {
	index := p.IndexOf(id)
	if index < 0 {
		return p, false
	}
	cp := p.clone()
	cp.Canvases[index].IsRegenerating = regenerating
	cp.Canvases[index].UpdatedAt = time.Now().UTC()
	return cp, true
}
