package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"socialmediagen/internal/config"
)

func writeConfig(t *testing.T, contents string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadAppliesDefaults(t *testing.T) {
	path := writeConfig(t, `
[textgen]
api_key = "test-key"
`)

	cfg, resolved, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if !exists {
		t.Fatal("expected config file to be reported as existing")
	}
	if resolved != path {
		t.Fatalf("unexpected resolved path: %s", resolved)
	}
	if cfg.Carousel.MaxCanvasCount != 10 {
		t.Fatalf("expected default max canvas count 10, got %d", cfg.Carousel.MaxCanvasCount)
	}
	if cfg.Carousel.BackgroundStrategy != "unique" {
		t.Fatalf("expected default strategy unique, got %q", cfg.Carousel.BackgroundStrategy)
	}
	if cfg.ImageGen.APIKey != "test-key" {
		t.Fatalf("expected imagegen key to fall back to textgen key, got %q", cfg.ImageGen.APIKey)
	}
	if cfg.Logging.Format != "console" || cfg.Logging.Level != "info" {
		t.Fatalf("unexpected logging defaults: %+v", cfg.Logging)
	}
}

func TestLoadExpandsPaths(t *testing.T) {
	path := writeConfig(t, `
[paths]
workspace_dir = "~/carousels"

[textgen]
api_key = "test-key"
`)

	cfg, _, _, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skipf("no home directory: %v", err)
	}
	if cfg.Paths.WorkspaceDir != filepath.Join(home, "carousels") {
		t.Fatalf("expected tilde expansion, got %q", cfg.Paths.WorkspaceDir)
	}
}

func TestLoadRequiresTextGenKey(t *testing.T) {
	t.Setenv("TEXTGEN_API_KEY", "")
	path := writeConfig(t, "")

	_, _, _, err := config.Load(path)
	if err == nil {
		t.Fatal("expected error when textgen api key missing")
	}
	if !strings.Contains(err.Error(), "textgen.api_key") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestLoadTextGenKeyFromEnv(t *testing.T) {
	t.Setenv("TEXTGEN_API_KEY", "env-key")
	path := writeConfig(t, "")

	cfg, _, _, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.TextGen.APIKey != "env-key" {
		t.Fatalf("expected env key, got %q", cfg.TextGen.APIKey)
	}
}

func TestValidateRejectsBadStrategy(t *testing.T) {
	path := writeConfig(t, `
[textgen]
api_key = "test-key"

[carousel]
background_strategy = "random"
`)

	_, _, _, err := config.Load(path)
	if err == nil || !strings.Contains(err.Error(), "background_strategy") {
		t.Fatalf("expected strategy validation error, got %v", err)
	}
}

func TestValidateRejectsSlideCountAboveCeiling(t *testing.T) {
	path := writeConfig(t, `
[textgen]
api_key = "test-key"

[carousel]
max_canvas_count = 4
default_slide_count = 6
`)

	_, _, _, err := config.Load(path)
	if err == nil || !strings.Contains(err.Error(), "default_slide_count") {
		t.Fatalf("expected slide count validation error, got %v", err)
	}
}

func TestCreateSampleRoundTrips(t *testing.T) {
	t.Setenv("TEXTGEN_API_KEY", "sample-key")
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "config.toml")
	if err := config.CreateSample(path); err != nil {
		t.Fatalf("CreateSample failed: %v", err)
	}

	cfg, _, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load of sample failed: %v", err)
	}
	if !exists {
		t.Fatal("expected sample config to exist")
	}
	if cfg.Carousel.DefaultSlideCount != 5 {
		t.Fatalf("unexpected sample default slide count: %d", cfg.Carousel.DefaultSlideCount)
	}
}
