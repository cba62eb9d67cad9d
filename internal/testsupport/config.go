package testsupport

import (
	"path/filepath"
	"testing"

	"socialmediagen/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*config.Config)

// NewConfig produces a config seeded with unique temp directories per test.
// It defaults common fields and applies any provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.WorkspaceDir = filepath.Join(base, "workspace")
	cfg.Paths.AssetDir = filepath.Join(base, "assets")
	cfg.Paths.LogDir = filepath.Join(base, "logs")
	cfg.TextGen.APIKey = "test"
	cfg.ImageGen.APIKey = "test"

	for _, opt := range opts {
		opt(&cfg)
	}

	return &cfg
}

// WithSlideCount overrides the default slide count on the test config.
func WithSlideCount(count int) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Carousel.DefaultSlideCount = count
	}
}

// WithMaxCanvasCount overrides the canvas ceiling on the test config.
func WithMaxCanvasCount(count int) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Carousel.MaxCanvasCount = count
	}
}

// WithBackgroundStrategy overrides the background strategy on the test config.
func WithBackgroundStrategy(strategy string) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Carousel.BackgroundStrategy = strategy
	}
}
