package loadstate_test

import (
	"testing"

	"socialmediagen/internal/loadstate"
)

type recordingSwapper struct {
	canvasID string
	url      string
	calls    int
}

func (r *recordingSwapper) SwapBackground(canvasID, url string) {
	r.canvasID = canvasID
	r.url = url
	r.calls++
}

func TestUpdateCreatesDefaultedRecord(t *testing.T) {
	tracker := loadstate.NewTracker(nil)
	loaded := true
	tracker.Update("c1", loadstate.Patch{IsTextLoaded: &loaded})

	state, ok := tracker.Get("c1")
	if !ok {
		t.Fatal("expected record to exist")
	}
	if !state.IsTextLoaded {
		t.Fatal("patch not applied")
	}
	if !state.HasPlaceholder {
		t.Fatal("fresh records must default to HasPlaceholder = true")
	}
	if state.IsImageLoading || state.IsImageLoaded {
		t.Fatalf("unexpected defaults: %+v", state)
	}
}

func TestSetImageLoadedClearsContradictoryFlags(t *testing.T) {
	swapper := &recordingSwapper{}
	tracker := loadstate.NewTracker(swapper)

	tracker.SetImageLoading("c1", true, 42)
	tracker.SetImageLoaded("c1", "https://cdn.example/1.png")

	state, _ := tracker.Get("c1")
	if state.IsImageLoading {
		t.Fatal("IsImageLoading must be forced false")
	}
	if !state.IsImageLoaded || state.ImageLoadProgress != 100 {
		t.Fatalf("unexpected state: %+v", state)
	}
	if state.HasPlaceholder {
		t.Fatal("HasPlaceholder must be cleared")
	}
	if swapper.calls != 1 || swapper.canvasID != "c1" || swapper.url != "https://cdn.example/1.png" {
		t.Fatalf("background swap not issued: %+v", swapper)
	}
}

func TestSetImageLoadingClearsPreviousError(t *testing.T) {
	tracker := loadstate.NewTracker(nil)
	tracker.SetImageError("c1", "boom")
	tracker.SetImageLoading("c1", true, 0)

	state, _ := tracker.Get("c1")
	if state.Error != "" {
		t.Fatalf("expected error cleared on new load, got %q", state.Error)
	}
}

func TestSetImageErrorKeepsPlaceholder(t *testing.T) {
	tracker := loadstate.NewTracker(nil)
	tracker.SetImageLoading("c1", true, 50)
	tracker.SetImageError("c1", "image service unavailable")

	state, _ := tracker.Get("c1")
	if state.Error != "image service unavailable" {
		t.Fatalf("unexpected error: %q", state.Error)
	}
	if state.IsImageLoading || state.IsImageLoaded {
		t.Fatalf("flags not cleared: %+v", state)
	}
	if !state.HasPlaceholder {
		t.Fatal("failed canvases keep their placeholder")
	}
}

func TestProgressIsClamped(t *testing.T) {
	tracker := loadstate.NewTracker(nil)
	tracker.SetImageLoading("c1", true, 150)
	if state, _ := tracker.Get("c1"); state.ImageLoadProgress != 100 {
		t.Fatalf("expected clamp to 100, got %f", state.ImageLoadProgress)
	}
	tracker.SetImageLoading("c1", true, -5)
	if state, _ := tracker.Get("c1"); state.ImageLoadProgress != 0 {
		t.Fatalf("expected clamp to 0, got %f", state.ImageLoadProgress)
	}
}

func TestRemovedCanvasDiscardsLateUpdates(t *testing.T) {
	swapper := &recordingSwapper{}
	tracker := loadstate.NewTracker(swapper)
	tracker.SetImageLoading("c1", true, 10)
	tracker.Remove("c1")

	// Late completions from an in-flight task must not resurrect the entry.
	tracker.SetImageLoaded("c1", "https://cdn.example/late.png")
	tracker.SetImageError("c1", "late failure")
	tracker.Update("c1", loadstate.Patch{})

	if _, ok := tracker.Get("c1"); ok {
		t.Fatal("removed canvas resurrected")
	}
	if tracker.Len() != 0 {
		t.Fatalf("expected empty tracker, len=%d", tracker.Len())
	}
	if swapper.calls != 0 {
		t.Fatal("background swap issued for removed canvas")
	}
}
