package loadstate

// State carries the per-canvas generation progress flags. It lives outside
// the canvas record because progress ticks churn far more often than slide
// content.
type State struct {
	IsTextLoaded      bool
	IsImageLoading    bool
	IsImageLoaded     bool
	ImageLoadProgress float64
	HasPlaceholder    bool
	Error             string
}

func defaultState() State {
	return State{HasPlaceholder: true}
}

// Patch describes a partial state update. Nil fields keep their current value.
type Patch struct {
	IsTextLoaded      *bool
	IsImageLoading    *bool
	IsImageLoaded     *bool
	ImageLoadProgress *float64
	HasPlaceholder    *bool
	Error             *string
}

// BackgroundSwapper is the one outbound hook the tracker owns: when an image
// finishes loading the owning canvas must atomically receive the real URL.
type BackgroundSwapper interface {
	SwapBackground(canvasID, url string)
}

// Tracker keeps loading state per canvas id. Records are created lazily on
// first reference and destroyed with their canvas; updates for a removed
// canvas id are silently discarded so a late async completion cannot
// resurrect a phantom entry.
//
// The tracker is not safe for concurrent use on its own. All mutation must
// be marshaled through the single owner that also owns the canvas
// collection, which is what makes SwapBackground atomic with the flag flip.
type Tracker struct {
	states  map[string]State
	removed map[string]struct{}
	swapper BackgroundSwapper
}

// NewTracker constructs an empty tracker. The swapper may be nil when no
// canvas collection is attached (tests exercising the tracker alone).
func NewTracker(swapper BackgroundSwapper) *Tracker {
	return &Tracker{
		states:  make(map[string]State),
		removed: make(map[string]struct{}),
		swapper: swapper,
	}
}

// Get returns the state for a canvas id.
func (t *Tracker) Get(canvasID string) (State, bool) {
	state, ok := t.states[canvasID]
	return state, ok
}

// Update merges a patch into the existing record, or into a freshly
// defaulted one on first reference. Updates for removed ids are discarded.
func (t *Tracker) Update(canvasID string, patch Patch) {
	if canvasID == "" {
		return
	}
	if _, gone := t.removed[canvasID]; gone {
		return
	}
	state, ok := t.states[canvasID]
	if !ok {
		state = defaultState()
	}
	if patch.IsTextLoaded != nil {
		state.IsTextLoaded = *patch.IsTextLoaded
	}
	if patch.IsImageLoading != nil {
		state.IsImageLoading = *patch.IsImageLoading
	}
	if patch.IsImageLoaded != nil {
		state.IsImageLoaded = *patch.IsImageLoaded
	}
	if patch.ImageLoadProgress != nil {
		state.ImageLoadProgress = clampProgress(*patch.ImageLoadProgress)
	}
	if patch.HasPlaceholder != nil {
		state.HasPlaceholder = *patch.HasPlaceholder
	}
	if patch.Error != nil {
		state.Error = *patch.Error
	}
	t.states[canvasID] = state
}

// SetTextLoaded marks the slide text as applied.
func (t *Tracker) SetTextLoaded(canvasID string) {
	loaded := true
	t.Update(canvasID, Patch{IsTextLoaded: &loaded})
}

// SetImageLoading reports image-generation progress for a canvas. Starting a
// load clears any previous error and loaded flag.
func (t *Tracker) SetImageLoading(canvasID string, loading bool, progress float64) {
	if _, gone := t.removed[canvasID]; gone {
		return
	}
	state, ok := t.states[canvasID]
	if !ok {
		state = defaultState()
	}
	state.IsImageLoading = loading
	state.ImageLoadProgress = clampProgress(progress)
	if loading {
		state.IsImageLoaded = false
		state.Error = ""
	}
	t.states[canvasID] = state
}

// SetImageLoaded records a finished image and swaps the canvas background to
// the real URL. The flag flip and the background swap happen under the same
// owner, so a reader never sees one without the other.
func (t *Tracker) SetImageLoaded(canvasID, url string) {
	if _, gone := t.removed[canvasID]; gone {
		return
	}
	state, ok := t.states[canvasID]
	if !ok {
		state = defaultState()
	}
	state.IsImageLoading = false
	state.IsImageLoaded = true
	state.ImageLoadProgress = 100
	state.HasPlaceholder = false
	state.Error = ""
	t.states[canvasID] = state
	if t.swapper != nil {
		t.swapper.SwapBackground(canvasID, url)
	}
}

// SetImageError records a per-slide failure. The canvas keeps its
// placeholder background.
func (t *Tracker) SetImageError(canvasID, message string) {
	if _, gone := t.removed[canvasID]; gone {
		return
	}
	state, ok := t.states[canvasID]
	if !ok {
		state = defaultState()
	}
	state.IsImageLoading = false
	state.IsImageLoaded = false
	state.Error = message
	t.states[canvasID] = state
}

// Remove destroys the record for a canvas and tombstones the id so late
// completions for it become no-ops. Canvas ids are never reused.
func (t *Tracker) Remove(canvasID string) {
	delete(t.states, canvasID)
	t.removed[canvasID] = struct{}{}
}

// Len returns the number of tracked canvases.
func (t *Tracker) Len() int {
	return len(t.states)
}

func clampProgress(value float64) float64 {
	if value < 0 {
		return 0
	}
	if value > 100 {
		return 100
	}
	return value
}
