package generation

// Step identifies the phase a generation run is in.
type Step string

const (
	StepText     Step = "text"
	StepImages   Step = "images"
	StepCanvases Step = "canvases"
	StepComplete Step = "complete"
)

// Progress is the single session-wide record describing the active run.
// Exactly one run may be active at a time; IsGenerating doubles as the
// guard that rejects a second StartGeneration while one is in flight.
type Progress struct {
	IsGenerating  bool
	CurrentStep   Step
	StepProgress  float64
	TotalProgress float64
	CurrentSlide  int
	TotalSlides   int
	Error         string
}
