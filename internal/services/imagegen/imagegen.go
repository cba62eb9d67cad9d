package imagegen

import "context"

// Image is the result of one background-image generation call.
type Image struct {
	URL  string
	Cost float64
}

// Generator is the narrow contract the task queue depends on. A task invokes
// Generate at most once; retries are modeled as brand-new tasks, never as a
// second call for the same task.
type Generator interface {
	Generate(ctx context.Context, prompt, formatHint string) (Image, error)
}
