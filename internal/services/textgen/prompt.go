package textgen

import (
	"fmt"
	"strings"

	"socialmediagen/internal/canvas"
)

const systemPrompt = `You are a social media carousel writer. You produce the slide copy for an
Instagram-style carousel from a single topic prompt.

Respond with JSON only, no prose and no code fences, in this exact shape:

{"slides": [{"title": "...", "body": "...", "cta": "...", "backgroundPrompt": "..."}]}

Rules:
- Return exactly the number of slides requested, in presentation order.
- title: a short hook, at most 8 words.
- body: 1-3 punchy sentences that stand alone on the slide.
- cta: a call to action on the final slide only; empty string elsewhere.
- backgroundPrompt: a visual description for an image generator, no text
  overlays, no brand names.`

func buildUserPrompt(req Request) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Topic: %s\n", strings.TrimSpace(req.Prompt))
	fmt.Fprintf(&sb, "Slide count: %d\n", req.SlideCount)
	if req.Strategy == canvas.StrategyThematic {
		sb.WriteString("Background style: thematic. Use the same backgroundPrompt for every slide so the carousel shares one cohesive background.\n")
	} else {
		sb.WriteString("Background style: unique. Give every slide its own distinct backgroundPrompt.\n")
	}
	return sb.String()
}
