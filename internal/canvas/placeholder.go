package canvas

import (
	"fmt"
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// PlaceholderBody is the filler body text shown until real text arrives.
const PlaceholderBody = "AI is generating your content..."

// PlaceholderTitle returns the filler title for the 1-based slide number.
func PlaceholderTitle(slideNumber int) string {
	return fmt.Sprintf("Slide %d", slideNumber)
}

// NewPlaceholderProject builds a fully structured project of slideCount
// placeholder canvases so the user sees the carousel skeleton before any
// network call is made. The first canvas is active and backgrounds rotate
// through the gradient tokens.
func NewPlaceholderProject(prompt string, slideCount int, strategy BackgroundStrategy) Project {
	if slideCount < 1 {
		slideCount = 1
	}
	now := time.Now().UTC()
	canvases := make([]Canvas, 0, slideCount)
	for i := 0; i < slideCount; i++ {
		canvases = append(canvases, Canvas{
			ID:          uuid.NewString(),
			SlideNumber: i + 1,
			IsActive:    i == 0,
			Title:       PlaceholderTitle(i + 1),
			Body:        PlaceholderBody,
			Background:  GradientToken(i),
			CreatedAt:   now,
			UpdatedAt:   now,
		})
	}
	return Project{
		ID:                 uuid.NewString(),
		Name:               DeriveProjectName(prompt),
		Canvases:           canvases,
		BackgroundStrategy: strategy,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
}

// DeriveProjectName turns a free-form prompt into a short display name.
func DeriveProjectName(prompt string) string {
	cleaned := strings.Builder{}
	prevSpace := false
	for _, r := range strings.TrimSpace(prompt) {
		switch {
		case unicode.IsLetter(r) || unicode.IsNumber(r):
			cleaned.WriteRune(r)
			prevSpace = false
		case unicode.IsSpace(r) || r == '-' || r == '_' || r == '.':
			if !prevSpace {
				cleaned.WriteRune(' ')
				prevSpace = true
			}
		}
	}
	name := strings.TrimSpace(cleaned.String())
	if name == "" {
		return "Untitled Carousel"
	}
	words := strings.Fields(name)
	if len(words) > 6 {
		words = words[:6]
	}
	return cases.Title(language.Und).String(strings.Join(words, " "))
}
