package canvas_test

import (
	"math/rand"
	"testing"

	"socialmediagen/internal/canvas"
)

const maxCount = 10

func checkInvariants(t *testing.T, p canvas.Project) {
	t.Helper()
	active := 0
	for i, c := range p.Canvases {
		if c.SlideNumber != i+1 {
			t.Fatalf("canvas at index %d has slide number %d", i, c.SlideNumber)
		}
		if c.IsActive {
			active++
		}
	}
	if len(p.Canvases) > 0 && active != 1 {
		t.Fatalf("expected exactly one active canvas, got %d", active)
	}
}

func newProject(t *testing.T, slides int) canvas.Project {
	t.Helper()
	p := canvas.NewProject("Test", canvas.StrategyUnique)
	for i := 1; i < slides; i++ {
		var id string
		p, id = p.AddCanvas(-1, maxCount)
		if id == "" {
			t.Fatalf("AddCanvas %d failed", i)
		}
	}
	checkInvariants(t, p)
	return p
}

func TestAddCanvasAppendsAndActivates(t *testing.T) {
	p := newProject(t, 2)
	next, id := p.AddCanvas(-1, maxCount)
	if id == "" {
		t.Fatal("expected new canvas id")
	}
	checkInvariants(t, next)
	if next.Canvases[2].ID != id || !next.Canvases[2].IsActive {
		t.Fatalf("expected new canvas at end and active, got %+v", next.Canvases)
	}
	// Copy-on-write: the original snapshot is untouched.
	if len(p.Canvases) != 2 {
		t.Fatalf("original project mutated, canvases: %d", len(p.Canvases))
	}
}

func TestAddCanvasAtPosition(t *testing.T) {
	p := newProject(t, 3)
	next, id := p.AddCanvas(1, maxCount)
	checkInvariants(t, next)
	if next.Canvases[1].ID != id {
		t.Fatalf("expected insert at index 1, order: %v", canvasIDs(next))
	}
}

func TestAddCanvasSaturatesAtCeiling(t *testing.T) {
	p := newProject(t, maxCount)
	next, id := p.AddCanvas(-1, maxCount)
	if id != "" {
		t.Fatalf("expected saturation, got new id %s", id)
	}
	if len(next.Canvases) != maxCount {
		t.Fatalf("expected collection unchanged, got %d canvases", len(next.Canvases))
	}
}

func TestRemoveActiveSelectsSameIndex(t *testing.T) {
	// Scenario: 3 canvases, active at index 1. After removal the former
	// index-2 canvas sits at index 1 and must become active.
	p := newProject(t, 3)
	p, _ = p.SetActive(p.Canvases[1].ID)
	former := p.Canvases[2].ID

	next, ok := p.RemoveCanvas(p.Canvases[1].ID)
	if !ok {
		t.Fatal("expected removal to succeed")
	}
	checkInvariants(t, next)
	if len(next.Canvases) != 2 {
		t.Fatalf("expected 2 canvases, got %d", len(next.Canvases))
	}
	if !next.Canvases[1].IsActive || next.Canvases[1].ID != former {
		t.Fatalf("expected former index-2 canvas active at index 1, got %+v", next.Canvases)
	}
}

func TestRemoveActiveAtTailSelectsLast(t *testing.T) {
	p := newProject(t, 3)
	p, _ = p.SetActive(p.Canvases[2].ID)

	next, ok := p.RemoveCanvas(p.Canvases[2].ID)
	if !ok {
		t.Fatal("expected removal to succeed")
	}
	checkInvariants(t, next)
	if !next.Canvases[1].IsActive {
		t.Fatalf("expected last canvas active, got %+v", next.Canvases)
	}
}

func TestRemoveInactiveKeepsActive(t *testing.T) {
	p := newProject(t, 3)
	p, _ = p.SetActive(p.Canvases[0].ID)
	activeID := p.Canvases[0].ID

	next, ok := p.RemoveCanvas(p.Canvases[2].ID)
	if !ok {
		t.Fatal("expected removal to succeed")
	}
	checkInvariants(t, next)
	if got, _ := next.ActiveCanvas(); got.ID != activeID {
		t.Fatalf("active canvas changed: %s != %s", got.ID, activeID)
	}
}

func TestRemoveSaturatesAtFloor(t *testing.T) {
	p := newProject(t, 1)
	next, ok := p.RemoveCanvas(p.Canvases[0].ID)
	if ok {
		t.Fatal("expected removal at count 1 to be a no-op")
	}
	if len(next.Canvases) != 1 {
		t.Fatalf("expected collection unchanged, got %d", len(next.Canvases))
	}
}

func TestRemoveUnknownIDIsNoop(t *testing.T) {
	p := newProject(t, 3)
	next, ok := p.RemoveCanvas("missing")
	if ok || len(next.Canvases) != 3 {
		t.Fatalf("expected no-op for unknown id, ok=%v count=%d", ok, len(next.Canvases))
	}
}

func TestDuplicateInsertsAfterSource(t *testing.T) {
	p := newProject(t, 3)
	p, _ = p.SetActive(p.Canvases[0].ID)
	source := p.Canvases[1]

	next, id := p.DuplicateCanvas(source.ID, maxCount)
	if id == "" {
		t.Fatal("expected duplicate to succeed")
	}
	checkInvariants(t, next)
	dup := next.Canvases[2]
	if dup.ID != id || dup.Title != source.Title || dup.Body != source.Body {
		t.Fatalf("expected clone at index 2, got %+v", dup)
	}
	if dup.IsActive {
		t.Fatal("duplicate must not steal the active flag")
	}
	if got, _ := next.ActiveCanvas(); got.ID != p.Canvases[0].ID {
		t.Fatal("active canvas changed by duplicate")
	}
}

func TestDuplicateAtCeilingLeavesCollectionUnchanged(t *testing.T) {
	p := newProject(t, maxCount)
	before := canvasIDs(p)

	next, id := p.DuplicateCanvas(p.Canvases[0].ID, maxCount)
	if id != "" {
		t.Fatalf("expected no new id at ceiling, got %s", id)
	}
	after := canvasIDs(next)
	if len(after) != len(before) {
		t.Fatalf("collection changed: %v -> %v", before, after)
	}
	for i := range before {
		if before[i] != after[i] {
			t.Fatalf("collection changed at %d: %v -> %v", i, before, after)
		}
	}
}

func TestReorderKeepsActiveWithCanvas(t *testing.T) {
	p := newProject(t, 4)
	p, _ = p.SetActive(p.Canvases[0].ID)
	activeID := p.Canvases[0].ID

	next, ok := p.Reorder(0, 3)
	if !ok {
		t.Fatal("expected reorder to succeed")
	}
	checkInvariants(t, next)
	if next.Canvases[3].ID != activeID || !next.Canvases[3].IsActive {
		t.Fatalf("active flag did not travel with the canvas: %+v", next.Canvases)
	}
}

func TestReorderOutOfRangeIsNoop(t *testing.T) {
	p := newProject(t, 2)
	if _, ok := p.Reorder(0, 5); ok {
		t.Fatal("expected out-of-range reorder to fail")
	}
	if _, ok := p.Reorder(-1, 0); ok {
		t.Fatal("expected negative index reorder to fail")
	}
}

func TestSetActiveUnknownIDIsNoop(t *testing.T) {
	p := newProject(t, 2)
	active, _ := p.ActiveCanvas()
	next, ok := p.SetActive("missing")
	if ok {
		t.Fatal("expected no-op for unknown id")
	}
	if got, _ := next.ActiveCanvas(); got.ID != active.ID {
		t.Fatal("active canvas changed on unknown id")
	}
}

func TestInvariantsHoldUnderRandomOperations(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	p := newProject(t, 3)
	for i := 0; i < 500; i++ {
		switch rng.Intn(5) {
		case 0:
			p, _ = p.AddCanvas(rng.Intn(len(p.Canvases)+1), maxCount)
		case 1:
			p, _ = p.RemoveCanvas(p.Canvases[rng.Intn(len(p.Canvases))].ID)
		case 2:
			p, _ = p.DuplicateCanvas(p.Canvases[rng.Intn(len(p.Canvases))].ID, maxCount)
		case 3:
			p, _ = p.Reorder(rng.Intn(len(p.Canvases)), rng.Intn(len(p.Canvases)))
		case 4:
			p, _ = p.SetActive(p.Canvases[rng.Intn(len(p.Canvases))].ID)
		}
		checkInvariants(t, p)
		if len(p.Canvases) < 1 || len(p.Canvases) > maxCount {
			t.Fatalf("count out of bounds: %d", len(p.Canvases))
		}
	}
}

func TestWithBackgroundAndContent(t *testing.T) {
	p := newProject(t, 2)
	id := p.Canvases[0].ID

	next, ok := p.WithSlideContent(id, "Hook", "Body", "Follow", "a vivid sunset")
	if !ok {
		t.Fatal("expected content update")
	}
	c, _ := next.CanvasByID(id)
	if c.Title != "Hook" || c.BackgroundPrompt != "a vivid sunset" {
		t.Fatalf("content not applied: %+v", c)
	}
	if !c.HasPlaceholderBackground() {
		t.Fatal("expected placeholder background before image generation")
	}

	next, ok = next.WithBackground(id, "https://cdn.example/img.png")
	if !ok {
		t.Fatal("expected background update")
	}
	c, _ = next.CanvasByID(id)
	if c.HasPlaceholderBackground() {
		t.Fatal("expected real background after swap")
	}

	if _, ok := next.WithBackground("missing", "url"); ok {
		t.Fatal("expected no-op for unknown id")
	}
}

func canvasIDs(p canvas.Project) []string {
	ids := make([]string, 0, len(p.Canvases))
	for _, c := range p.Canvases {
		ids = append(ids, c.ID)
	}
	return ids
}
