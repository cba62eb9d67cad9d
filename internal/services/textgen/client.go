package textgen

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	openai "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"socialmediagen/internal/services"
)

// Config captures the runtime settings required to talk to the text service.
type Config struct {
	APIKey         string
	BaseURL        string
	Model          string
	TimeoutSeconds int
}

// Client wraps an OpenAI-compatible chat-completion API.
type Client struct {
	cfg  Config
	opts []option.RequestOption
}

// NewClient constructs a text-generation client using the supplied configuration.
func NewClient(cfg Config) (*Client, error) {
	cfg.APIKey = strings.TrimSpace(cfg.APIKey)
	cfg.BaseURL = strings.TrimSpace(cfg.BaseURL)
	cfg.Model = strings.TrimSpace(cfg.Model)
	if cfg.APIKey == "" {
		return nil, services.Wrap(services.ErrConfiguration, "textgen", "new client", "api key required", nil)
	}
	if cfg.Model == "" {
		return nil, services.Wrap(services.ErrConfiguration, "textgen", "new client", "model required", nil)
	}

	opts := []option.RequestOption{option.WithAPIKey(cfg.APIKey)}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	if cfg.TimeoutSeconds > 0 {
		opts = append(opts, option.WithRequestTimeout(time.Duration(cfg.TimeoutSeconds)*time.Second))
	}
	return &Client{cfg: cfg, opts: opts}, nil
}

type slidesPayload struct {
	Slides []Slide `json:"slides"`
}

// GenerateSlides asks the model for the full slide set in one call. Any
// malformed payload surfaces as an error; the caller decides what a count
// mismatch means.
func (c *Client) GenerateSlides(ctx context.Context, req Request) ([]Slide, error) {
	if strings.TrimSpace(req.Prompt) == "" {
		return nil, services.Wrap(services.ErrConfiguration, "textgen", "generate", "prompt required", nil)
	}
	if req.SlideCount < 1 {
		return nil, services.Wrap(services.ErrConfiguration, "textgen", "generate", fmt.Sprintf("slide count %d", req.SlideCount), nil)
	}

	client := openai.NewClient(c.opts...)
	resp, err := client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(c.cfg.Model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(systemPrompt),
			openai.UserMessage(buildUserPrompt(req)),
		},
	})
	if err != nil {
		return nil, services.Wrap(services.ErrExternalService, "textgen", "generate", "chat completion", err)
	}
	if len(resp.Choices) == 0 {
		return nil, services.Wrap(services.ErrMalformedReply, "textgen", "generate", "empty choices", nil)
	}

	payload, err := decodeSlidesPayload(resp.Choices[0].Message.Content)
	if err != nil {
		return nil, services.Wrap(services.ErrMalformedReply, "textgen", "generate", "parse payload", err)
	}
	if len(payload.Slides) == 0 {
		return nil, services.Wrap(services.ErrMalformedReply, "textgen", "generate", "no slides in payload", nil)
	}

	for i := range payload.Slides {
		payload.Slides[i].Title = strings.TrimSpace(payload.Slides[i].Title)
		payload.Slides[i].Body = strings.TrimSpace(payload.Slides[i].Body)
		payload.Slides[i].CallToAction = strings.TrimSpace(payload.Slides[i].CallToAction)
		payload.Slides[i].BackgroundPrompt = strings.TrimSpace(payload.Slides[i].BackgroundPrompt)
	}
	return payload.Slides, nil
}

var _ Generator = (*Client)(nil)

// ErrEmptyPayload marks a blank model reply.
var ErrEmptyPayload = errors.New("empty payload")
