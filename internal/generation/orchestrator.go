package generation

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"socialmediagen/internal/assets"
	"socialmediagen/internal/canvas"
	"socialmediagen/internal/config"
	"socialmediagen/internal/loadstate"
	"socialmediagen/internal/logging"
	"socialmediagen/internal/services"
	"socialmediagen/internal/services/imagegen"
	"socialmediagen/internal/services/textgen"
	"socialmediagen/internal/taskqueue"
)

const placeholderImageProgress = 10

// Orchestrator owns one editing session: the project, the loading-state
// tracker, the navigation projection, the progress record, and the image
// task queue. It is the single writer for all of them; collaborator calls
// run outside the lock and their completions are marshaled back through it.
type Orchestrator struct {
	textGen  textgen.Generator
	queue    *taskqueue.Queue
	assets   assets.Store
	timeline Timeline
	ledger   *taskqueue.Ledger
	logger   *slog.Logger

	maxCanvasCount  int
	defaultSlides   int
	defaultStrategy canvas.BackgroundStrategy
	formatHint      string

	mu       sync.Mutex
	project  canvas.Project
	tracker  *loadstate.Tracker
	nav      canvas.NavigationState
	progress Progress
	runID    uint64

	// drainMu serializes queue drains so StartGeneration and
	// RegenerateSlide never run overlapping scans against the queue.
	drainMu sync.Mutex
}

// Option configures optional orchestrator collaborators.
type Option func(*Orchestrator)

// WithLogger attaches a logger.
func WithLogger(logger *slog.Logger) Option {
	return func(o *Orchestrator) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithTimeline attaches the timeline port.
func WithTimeline(timeline Timeline) Option {
	return func(o *Orchestrator) {
		if timeline != nil {
			o.timeline = timeline
		}
	}
}

// WithProject seeds the session with a previously saved project.
func WithProject(project canvas.Project) Option {
	return func(o *Orchestrator) {
		o.project = project
	}
}

// WithLedger records every image-task transition in a persistent ledger.
func WithLedger(ledger *taskqueue.Ledger) Option {
	return func(o *Orchestrator) {
		o.ledger = ledger
	}
}

// New builds an orchestrator around the two generation collaborators and
// the asset store.
func New(cfg *config.Config, textGen textgen.Generator, imageGen imagegen.Generator, store assets.Store, opts ...Option) *Orchestrator {
	strategy, ok := canvas.ParseStrategy(cfg.Carousel.BackgroundStrategy)
	if !ok {
		strategy = canvas.StrategyUnique
	}

	o := &Orchestrator{
		textGen:         textGen,
		assets:          store,
		timeline:        NopTimeline{},
		logger:          logging.NewNop(),
		maxCanvasCount:  cfg.Carousel.MaxCanvasCount,
		defaultSlides:   cfg.Carousel.DefaultSlideCount,
		defaultStrategy: strategy,
		formatHint:      cfg.ImageGen.FormatHint,
	}
	o.nav = canvas.NavigationState{
		ThumbnailSize:       cfg.Carousel.ThumbnailSize,
		IsNavigationVisible: true,
		MaxCanvasCount:      cfg.Carousel.MaxCanvasCount,
	}
	for _, opt := range opts {
		opt(o)
	}

	o.tracker = loadstate.NewTracker(backgroundSwap{o})
	queueOpts := []taskqueue.Option{taskqueue.WithLogger(o.logger)}
	if o.ledger != nil {
		queueOpts = append(queueOpts, taskqueue.WithLedger(o.ledger))
	}
	o.queue = taskqueue.New(imageGen, queueReporter{o}, queueOpts...)

	if o.project.SlideCount() > 0 {
		o.nav = o.nav.Recompute(o.project)
	}
	return o
}

// StartGeneration runs one end-to-end generation: placeholder build, text
// generation, image dispatch, drain, completion. A second call while a run
// is active is a silent no-op. Text failures (including a slide-count
// mismatch) end the run in error but keep the placeholder canvases so the
// user retains an inspectable skeleton.
func (o *Orchestrator) StartGeneration(ctx context.Context, prompt string, slideCount int, strategyName string) error {
	o.mu.Lock()
	if o.progress.IsGenerating {
		o.mu.Unlock()
		o.logger.Info("generation already active, ignoring request")
		return nil
	}

	strategy := o.defaultStrategy
	if parsed, ok := canvas.ParseStrategy(strategyName); ok {
		strategy = parsed
	}
	if slideCount <= 0 {
		slideCount = o.defaultSlides
	}
	if slideCount > o.maxCanvasCount {
		slideCount = o.maxCanvasCount
	}

	o.runID++
	run := o.runID

	o.project = canvas.NewPlaceholderProject(prompt, slideCount, strategy)
	o.tracker = loadstate.NewTracker(backgroundSwap{o})
	canvasIDs := make([]string, 0, slideCount)
	for _, c := range o.project.Canvases {
		canvasIDs = append(canvasIDs, c.ID)
		o.tracker.SetImageLoading(c.ID, true, placeholderImageProgress)
	}
	o.nav = o.nav.Recompute(o.project)
	o.progress = Progress{
		IsGenerating:  true,
		CurrentStep:   StepText,
		StepProgress:  0,
		TotalProgress: placeholderImageProgress,
		TotalSlides:   slideCount,
	}
	o.mu.Unlock()

	for _, id := range canvasIDs {
		if err := o.timeline.CreateForCanvas(ctx, id); err != nil {
			o.logger.Warn("timeline create failed",
				logging.String("canvas_id", id),
				logging.Error(err),
			)
		}
	}

	o.logger.Info("generation started",
		logging.String("project", o.Project().Name),
		logging.Int("slides", slideCount),
		logging.String("strategy", string(strategy)),
	)

	slides, err := o.textGen.GenerateSlides(services.WithRunID(ctx, run), textgen.Request{
		Prompt:     prompt,
		SlideCount: slideCount,
		Strategy:   strategy,
	})
	if err == nil && len(slides) != slideCount {
		err = services.Wrap(services.ErrMalformedReply, "textgen", "generate",
			fmt.Sprintf("requested %d slides, got %d", slideCount, len(slides)), nil)
	}

	o.mu.Lock()
	if run != o.runID {
		o.mu.Unlock()
		o.logger.Info("discarding text result from superseded run")
		return nil
	}
	if err != nil {
		for _, id := range canvasIDs {
			o.tracker.SetImageLoading(id, false, 0)
		}
		o.progress.IsGenerating = false
		o.progress.Error = err.Error()
		o.mu.Unlock()
		o.logger.Warn("text generation failed, placeholders retained", logging.Error(err))
		return err
	}

	imagePrompts := promptsForStrategy(slides, strategy)
	dispatched := 0
	for i, id := range canvasIDs {
		slide := slides[i]
		next, ok := o.project.WithSlideContent(id, slide.Title, slide.Body, slide.CallToAction, slide.BackgroundPrompt)
		if !ok {
			// Canvas removed mid-run; its slide is dropped.
			continue
		}
		o.project = next
		o.tracker.SetTextLoaded(id)
		if imagePrompts[i] != "" {
			o.queue.Enqueue(ctx, run, id, i+1, imagePrompts[i], o.formatHint)
			dispatched++
		}
	}
	o.progress.CurrentStep = StepImages
	o.progress.TotalProgress = 70
	o.progress.StepProgress = 0
	o.mu.Unlock()

	o.logger.Info("image tasks dispatched", logging.Int("count", dispatched))
	o.drain(ctx)

	o.mu.Lock()
	if run == o.runID {
		o.progress = Progress{
			CurrentStep:   StepComplete,
			TotalProgress: 100,
			TotalSlides:   slideCount,
		}
	}
	o.mu.Unlock()
	o.logger.Info("generation complete")
	return nil
}

// promptsForStrategy resolves the per-slide image prompts. The thematic
// strategy reuses one shared prompt across every slide so the carousel
// reads as a single visual.
func promptsForStrategy(slides []textgen.Slide, strategy canvas.BackgroundStrategy) []string {
	prompts := make([]string, len(slides))
	if strategy == canvas.StrategyThematic {
		shared := ""
		for _, slide := range slides {
			if slide.BackgroundPrompt != "" {
				shared = slide.BackgroundPrompt
				break
			}
		}
		for i := range prompts {
			prompts[i] = shared
		}
		return prompts
	}
	for i, slide := range slides {
		prompts[i] = slide.BackgroundPrompt
	}
	return prompts
}

// RegenerateSlide queues a fresh image task for one canvas and drains the
// queue. It deliberately bypasses the run guard so a single slide can be
// redone while a full run is still in flight. The canvas's previous stored
// asset is removed before the new task completes so a superseded image
// never lingers as a duplicate.
func (o *Orchestrator) RegenerateSlide(ctx context.Context, canvasID, newPrompt string) error {
	o.mu.Lock()
	target, ok := o.project.CanvasByID(canvasID)
	if !ok {
		o.mu.Unlock()
		return nil
	}
	prompt := newPrompt
	if prompt == "" {
		prompt = target.BackgroundPrompt
	}
	if prompt == "" {
		o.mu.Unlock()
		return services.Wrap(services.ErrConfiguration, "imagegen", "regenerate",
			"canvas has no background prompt", nil)
	}

	if newPrompt != "" {
		if next, changed := o.project.WithSlideContent(canvasID, target.Title, target.Body, target.CallToAction, prompt); changed {
			o.project = next
		}
	}
	if next, changed := o.project.WithRegenerating(canvasID, true); changed {
		o.project = next
	}
	if _, err := o.assets.RemoveForCanvas(ctx, canvasID); err != nil {
		o.logger.Warn("removing previous asset failed",
			logging.String("canvas_id", canvasID),
			logging.Error(err),
		)
	}
	o.tracker.SetImageLoading(canvasID, true, 0)
	run := o.runID
	task := o.queue.Enqueue(ctx, run, canvasID, target.SlideNumber, prompt, o.formatHint)
	o.mu.Unlock()

	o.logger.Info("slide regeneration queued",
		logging.String("canvas_id", canvasID),
		logging.String("task_id", task.ID),
	)
	o.drain(ctx)
	return nil
}

// ResetGeneration clears the progress record and invalidates the current
// run so any still-in-flight completion is discarded on arrival. Canvases
// already built stay in place.
func (o *Orchestrator) ResetGeneration() {
	o.mu.Lock()
	o.runID++
	o.progress = Progress{}
	o.mu.Unlock()
	o.logger.Info("generation state reset")
}

func (o *Orchestrator) drain(ctx context.Context) {
	o.drainMu.Lock()
	defer o.drainMu.Unlock()
	o.queue.ProcessQueue(ctx)
}

// Project returns the current project snapshot. Mutations always replace
// the project wholesale, so the returned value never changes underneath
// the caller.
func (o *Orchestrator) Project() canvas.Project {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.project
}

// Progress returns the current run-progress record.
func (o *Orchestrator) Progress() Progress {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.progress
}

// LoadingState returns the loading record for one canvas.
func (o *Orchestrator) LoadingState(canvasID string) (loadstate.State, bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.tracker.Get(canvasID)
}

// Navigation returns the current navigation projection.
func (o *Orchestrator) Navigation() canvas.NavigationState {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.nav
}

// Tasks returns a snapshot of every image task seen this session.
func (o *Orchestrator) Tasks() []taskqueue.Task {
	return o.queue.Tasks()
}

// backgroundSwap is the tracker's outbound hook. SetImageLoaded is only
// ever called while the orchestrator holds its own lock, so the swap
// mutates the project directly and the flag flip plus the background
// replacement appear as one atomic transition to readers.
type backgroundSwap struct {
	o *Orchestrator
}

func (s backgroundSwap) SwapBackground(canvasID, url string) {
	if next, ok := s.o.project.WithBackground(canvasID, url); ok {
		s.o.project = next
	}
}

// queueReporter feeds task transitions back into the session state. Every
// callback re-checks the task's run id under the lock and discards results
// from superseded runs; updates for since-removed canvases are absorbed by
// the tracker's tombstones.
type queueReporter struct {
	o *Orchestrator
}

func (r queueReporter) TaskStarted(task taskqueue.Task) {
	o := r.o
	o.mu.Lock()
	defer o.mu.Unlock()
	if task.RunID != o.runID {
		return
	}
	o.tracker.SetImageLoading(task.CanvasID, true, 0)
	if o.progress.IsGenerating {
		o.progress.CurrentSlide = task.SlideNumber
	}
}

func (r queueReporter) TaskProgress(task taskqueue.Task, percent float64) {
	o := r.o
	o.mu.Lock()
	defer o.mu.Unlock()
	if task.RunID != o.runID {
		return
	}
	o.tracker.SetImageLoading(task.CanvasID, true, percent)
	if o.progress.IsGenerating {
		o.progress.StepProgress = percent
	}
}

func (r queueReporter) TaskCompleted(task taskqueue.Task) {
	o := r.o
	o.mu.Lock()
	defer o.mu.Unlock()
	if task.RunID != o.runID {
		o.logger.Info("discarding image result from superseded run",
			logging.String("task_id", task.ID),
		)
		return
	}
	if o.project.IndexOf(task.CanvasID) < 0 {
		// Canvas removed while the task was in flight.
		return
	}
	if _, err := o.assets.Store(context.Background(), task.CanvasID, task.ImageURL, task.Cost); err != nil {
		o.logger.Warn("asset store failed",
			logging.String("canvas_id", task.CanvasID),
			logging.Error(err),
		)
	}
	o.tracker.SetImageLoaded(task.CanvasID, task.ImageURL)
	if next, changed := o.project.WithRegenerating(task.CanvasID, false); changed {
		o.project = next
	}
}

func (r queueReporter) TaskFailed(task taskqueue.Task, err error) {
	o := r.o
	o.mu.Lock()
	defer o.mu.Unlock()
	if task.RunID != o.runID {
		return
	}
	o.tracker.SetImageError(task.CanvasID, err.Error())
	if next, changed := o.project.WithRegenerating(task.CanvasID, false); changed {
		o.project = next
	}
}
