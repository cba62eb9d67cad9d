package canvas

import (
	"strings"
	"time"
)

// BackgroundStrategy selects how background images are prompted for a run.
type BackgroundStrategy string

const (
	// StrategyUnique generates one image prompt per slide.
	StrategyUnique BackgroundStrategy = "unique"
	// StrategyThematic shares one image prompt across every slide.
	StrategyThematic BackgroundStrategy = "thematic"
)

// ParseStrategy converts a string into a known BackgroundStrategy.
func ParseStrategy(value string) (BackgroundStrategy, bool) {
	normalized := BackgroundStrategy(strings.ToLower(strings.TrimSpace(value)))
	switch normalized {
	case StrategyUnique, StrategyThematic:
		return normalized, true
	}
	return "", false
}

// Canvas is one slide of a carousel project. SlideNumber is 1-based and
// always matches the canvas's position in the project after a structural
// mutation. Exactly one canvas per non-empty project has IsActive set.
type Canvas struct {
	ID               string
	SlideNumber      int
	IsActive         bool
	Title            string
	Body             string
	CallToAction     string
	BackgroundPrompt string
	Background       string
	IsRegenerating   bool
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

const gradientPrefix = "gradient:"

var gradientTokens = []string{
	gradientPrefix + "sunset",
	gradientPrefix + "ocean",
	gradientPrefix + "forest",
	gradientPrefix + "lavender",
	gradientPrefix + "ember",
}

// GradientToken returns a deterministic placeholder background for slide index i.
func GradientToken(i int) string {
	if i < 0 {
		i = 0
	}
	return gradientTokens[i%len(gradientTokens)]
}

// HasPlaceholderBackground reports whether the canvas still shows a gradient
// token rather than a generated image URL.
func (c Canvas) HasPlaceholderBackground() bool {
	return c.Background == "" || strings.HasPrefix(c.Background, gradientPrefix)
}

// Project is the ordered collection of canvases plus generation metadata.
// Structural operations never mutate in place; they return a fresh Project so
// observers holding an older snapshot stay consistent.
type Project struct {
	ID                 string
	Name               string
	Canvases           []Canvas
	BackgroundStrategy BackgroundStrategy
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// SlideCount returns the number of canvases in the project.
func (p Project) SlideCount() int {
	return len(p.Canvases)
}

// CanvasByID returns the canvas with the given id.
func (p Project) CanvasByID(id string) (Canvas, bool) {
	for _, c := range p.Canvases {
		if c.ID == id {
			return c, true
		}
	}
	return Canvas{}, false
}

// IndexOf returns the position of the canvas with the given id, or -1.
func (p Project) IndexOf(id string) int {
	for i, c := range p.Canvases {
		if c.ID == id {
			return i
		}
	}
	return -1
}

// ActiveCanvas returns the canvas currently marked active.
func (p Project) ActiveCanvas() (Canvas, bool) {
	for _, c := range p.Canvases {
		if c.IsActive {
			return c, true
		}
	}
	return Canvas{}, false
}

func (p Project) clone() Project {
	cp := p
	cp.Canvases = make([]Canvas, len(p.Canvases))
	copy(cp.Canvases, p.Canvases)
	return cp
}

func renumber(canvases []Canvas) {
	for i := range canvases {
		canvases[i].SlideNumber = i + 1
	}
}
