package config

import (
	"fmt"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateTextGen(); err != nil {
		return err
	}
	if err := c.validateImageGen(); err != nil {
		return err
	}
	if err := c.validateCarousel(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateTextGen() error {
	if c.TextGen.APIKey == "" {
		defaultPath, err := DefaultConfigPath()
		if err != nil {
			defaultPath = "~/.config/socialmediagen/config.toml"
		}
		return fmt.Errorf("textgen.api_key is required. Set TEXTGEN_API_KEY env var or edit %s (create with 'socialmediagen config init')", defaultPath)
	}
	return nil
}

func (c *Config) validateImageGen() error {
	switch c.ImageGen.FormatHint {
	case "square", "portrait", "landscape":
	default:
		return fmt.Errorf("imagegen.format_hint must be square, portrait, or landscape (got %q)", c.ImageGen.FormatHint)
	}
	return nil
}

func (c *Config) validateCarousel() error {
	if c.Carousel.MaxCanvasCount < 1 {
		return fmt.Errorf("carousel.max_canvas_count must be at least 1 (got %d)", c.Carousel.MaxCanvasCount)
	}
	if c.Carousel.DefaultSlideCount < 1 || c.Carousel.DefaultSlideCount > c.Carousel.MaxCanvasCount {
		return fmt.Errorf("carousel.default_slide_count must be between 1 and %d (got %d)", c.Carousel.MaxCanvasCount, c.Carousel.DefaultSlideCount)
	}
	switch c.Carousel.BackgroundStrategy {
	case "unique", "thematic":
	default:
		return fmt.Errorf("carousel.background_strategy must be unique or thematic (got %q)", c.Carousel.BackgroundStrategy)
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json (got %q)", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be debug, info, warn, or error (got %q)", c.Logging.Level)
	}
	return nil
}
