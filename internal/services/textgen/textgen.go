package textgen

import (
	"context"

	"socialmediagen/internal/canvas"
)

// Slide is one generated carousel slide.
type Slide struct {
	Title            string `json:"title"`
	Body             string `json:"body"`
	CallToAction     string `json:"cta,omitempty"`
	BackgroundPrompt string `json:"backgroundPrompt"`
}

// Request describes one slide-text generation call.
type Request struct {
	Prompt     string
	SlideCount int
	Strategy   canvas.BackgroundStrategy
}

// Generator is the narrow contract the orchestrator depends on. The real
// implementation talks to a chat-completion service; tests inject fakes.
type Generator interface {
	GenerateSlides(ctx context.Context, req Request) ([]Slide, error)
}
