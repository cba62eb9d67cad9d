package imagegen_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"socialmediagen/internal/services"
	"socialmediagen/internal/services/imagegen"
)

func newClient(t *testing.T, baseURL string) *imagegen.Client {
	t.Helper()
	client, err := imagegen.NewClient(imagegen.Config{
		APIKey:  "test-key",
		BaseURL: baseURL,
		Model:   "gpt-image-1",
	})
	if err != nil {
		t.Fatalf("NewClient failed: %v", err)
	}
	return client
}

func TestGenerateReturnsImage(t *testing.T) {
	var gotSize string
	var gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		var req struct {
			Prompt string `json:"prompt"`
			Size   string `json:"size"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		gotSize = req.Size
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"data": []map[string]string{{"url": "https://cdn.example/generated.png"}},
			"cost": 0.04,
		})
	}))
	defer server.Close()

	client := newClient(t, server.URL)
	image, err := client.Generate(context.Background(), "sunrise over water", "portrait")
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if image.URL != "https://cdn.example/generated.png" {
		t.Fatalf("unexpected url %q", image.URL)
	}
	if image.Cost != 0.04 {
		t.Fatalf("unexpected cost %f", image.Cost)
	}
	if gotSize != "1024x1792" {
		t.Fatalf("portrait hint not mapped to size, got %q", gotSize)
	}
	if gotAuth != "Bearer test-key" {
		t.Fatalf("missing auth header, got %q", gotAuth)
	}
}

func TestGenerateSurfacesHTTPError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))
	defer server.Close()

	client := newClient(t, server.URL)
	_, err := client.Generate(context.Background(), "anything", "square")
	if !errors.Is(err, services.ErrExternalService) {
		t.Fatalf("expected external service error, got %v", err)
	}
}

func TestGenerateSurfacesAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"error": map[string]string{"message": "content policy violation"},
		})
	}))
	defer server.Close()

	client := newClient(t, server.URL)
	_, err := client.Generate(context.Background(), "anything", "square")
	if err == nil || !errors.Is(err, services.ErrExternalService) {
		t.Fatalf("expected api error, got %v", err)
	}
}

func TestGenerateRejectsMissingURL(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{"data": []map[string]string{}})
	}))
	defer server.Close()

	client := newClient(t, server.URL)
	_, err := client.Generate(context.Background(), "anything", "square")
	if !errors.Is(err, services.ErrMalformedReply) {
		t.Fatalf("expected malformed reply error, got %v", err)
	}
}

func TestGenerateRejectsEmptyPrompt(t *testing.T) {
	client := newClient(t, "http://127.0.0.1:0")
	_, err := client.Generate(context.Background(), "   ", "square")
	if !errors.Is(err, services.ErrConfiguration) {
		t.Fatalf("expected configuration error, got %v", err)
	}
}
