package imagegen

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"socialmediagen/internal/services"
)

const defaultHTTPTimeout = 120 * time.Second

// Config captures the runtime settings required to talk to the image service.
type Config struct {
	APIKey         string
	BaseURL        string
	Model          string
	TimeoutSeconds int
}

// Client wraps an OpenAI-compatible image-generation endpoint.
type Client struct {
	cfg        Config
	httpClient *http.Client
}

// Option customizes the client.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// NewClient constructs an image-generation client using the supplied configuration.
func NewClient(cfg Config, opts ...Option) (*Client, error) {
	cfg.APIKey = strings.TrimSpace(cfg.APIKey)
	cfg.BaseURL = strings.TrimSpace(cfg.BaseURL)
	cfg.Model = strings.TrimSpace(cfg.Model)
	if cfg.APIKey == "" {
		return nil, services.Wrap(services.ErrConfiguration, "imagegen", "new client", "api key required", nil)
	}
	if cfg.BaseURL == "" {
		return nil, services.Wrap(services.ErrConfiguration, "imagegen", "new client", "base url required", nil)
	}

	timeout := defaultHTTPTimeout
	if cfg.TimeoutSeconds > 0 {
		timeout = time.Duration(cfg.TimeoutSeconds) * time.Second
	}
	client := &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: timeout},
	}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

type generationRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
	Size   string `json:"size"`
	N      int    `json:"n"`
}

type generationResponse struct {
	Data []struct {
		URL string `json:"url"`
	} `json:"data"`
	Cost  float64 `json:"cost"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error"`
}

type httpStatusError struct {
	StatusCode int
	Body       string
}

func (e *httpStatusError) Error() string {
	return fmt.Sprintf("imagegen request: http %d: %s", e.StatusCode, strings.TrimSpace(e.Body))
}

// Generate issues a single image-generation request. There is no automatic
// retry: the queue's backpressure policy assumes at most one outbound call
// per task.
func (c *Client) Generate(ctx context.Context, prompt, formatHint string) (Image, error) {
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return Image{}, services.Wrap(services.ErrConfiguration, "imagegen", "generate", "prompt required", nil)
	}

	payload := generationRequest{
		Model:  c.cfg.Model,
		Prompt: prompt,
		Size:   sizeForFormat(formatHint),
		N:      1,
	}
	encoded, err := json.Marshal(payload)
	if err != nil {
		return Image{}, fmt.Errorf("imagegen request: encode body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL, bytes.NewReader(encoded))
	if err != nil {
		return Image{}, fmt.Errorf("imagegen request: new request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Image{}, services.Wrap(services.ErrExternalService, "imagegen", "generate", "http error", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return Image{}, services.Wrap(services.ErrExternalService, "imagegen", "generate", "read body", err)
	}
	if resp.StatusCode >= http.StatusMultipleChoices {
		return Image{}, services.Wrap(services.ErrExternalService, "imagegen", "generate", "", &httpStatusError{
			StatusCode: resp.StatusCode,
			Body:       string(body),
		})
	}

	var parsed generationResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return Image{}, services.Wrap(services.ErrMalformedReply, "imagegen", "generate", "decode response", err)
	}
	if parsed.Error != nil {
		return Image{}, services.Wrap(services.ErrExternalService, "imagegen", "generate", strings.TrimSpace(parsed.Error.Message), nil)
	}
	if len(parsed.Data) == 0 || strings.TrimSpace(parsed.Data[0].URL) == "" {
		return Image{}, services.Wrap(services.ErrMalformedReply, "imagegen", "generate", "no image url in response", nil)
	}

	return Image{URL: strings.TrimSpace(parsed.Data[0].URL), Cost: parsed.Cost}, nil
}

func sizeForFormat(formatHint string) string {
	switch strings.ToLower(strings.TrimSpace(formatHint)) {
	case "portrait":
		return "1024x1792"
	case "landscape":
		return "1792x1024"
	default:
		return "1024x1024"
	}
}

var _ Generator = (*Client)(nil)
