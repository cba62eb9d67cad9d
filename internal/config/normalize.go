package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeTextGen()
	c.normalizeImageGen()
	c.normalizeCarousel()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.WorkspaceDir) == "" {
		c.Paths.WorkspaceDir = defaultWorkspaceDir
	}
	if c.Paths.WorkspaceDir, err = expandPath(c.Paths.WorkspaceDir); err != nil {
		return fmt.Errorf("paths.workspace_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.AssetDir) == "" {
		c.Paths.AssetDir = defaultAssetDir
	}
	if c.Paths.AssetDir, err = expandPath(c.Paths.AssetDir); err != nil {
		return fmt.Errorf("paths.asset_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeTextGen() {
	if c.TextGen.APIKey == "" {
		if value, ok := os.LookupEnv("TEXTGEN_API_KEY"); ok {
			c.TextGen.APIKey = value
		}
	}
	c.TextGen.APIKey = strings.TrimSpace(c.TextGen.APIKey)
	c.TextGen.BaseURL = strings.TrimSpace(c.TextGen.BaseURL)
	if c.TextGen.BaseURL == "" {
		c.TextGen.BaseURL = defaultTextGenBaseURL
	}
	c.TextGen.Model = strings.TrimSpace(c.TextGen.Model)
	if c.TextGen.Model == "" {
		c.TextGen.Model = defaultTextGenModel
	}
	if c.TextGen.TimeoutSeconds <= 0 {
		c.TextGen.TimeoutSeconds = defaultTextGenTimeout
	}
}

func (c *Config) normalizeImageGen() {
	if c.ImageGen.APIKey == "" {
		if value, ok := os.LookupEnv("IMAGEGEN_API_KEY"); ok {
			c.ImageGen.APIKey = value
		}
	}
	// The image service commonly shares credentials with the text service.
	if c.ImageGen.APIKey == "" {
		c.ImageGen.APIKey = c.TextGen.APIKey
	}
	c.ImageGen.APIKey = strings.TrimSpace(c.ImageGen.APIKey)
	c.ImageGen.BaseURL = strings.TrimSpace(c.ImageGen.BaseURL)
	if c.ImageGen.BaseURL == "" {
		c.ImageGen.BaseURL = defaultImageGenBaseURL
	}
	c.ImageGen.Model = strings.TrimSpace(c.ImageGen.Model)
	if c.ImageGen.Model == "" {
		c.ImageGen.Model = defaultImageGenModel
	}
	c.ImageGen.FormatHint = strings.ToLower(strings.TrimSpace(c.ImageGen.FormatHint))
	if c.ImageGen.FormatHint == "" {
		c.ImageGen.FormatHint = defaultImageGenFormat
	}
	if c.ImageGen.TimeoutSeconds <= 0 {
		c.ImageGen.TimeoutSeconds = defaultImageGenTimeout
	}
}

func (c *Config) normalizeCarousel() {
	if c.Carousel.MaxCanvasCount <= 0 {
		c.Carousel.MaxCanvasCount = defaultMaxCanvasCount
	}
	if c.Carousel.DefaultSlideCount <= 0 {
		c.Carousel.DefaultSlideCount = defaultSlideCount
	}
	c.Carousel.BackgroundStrategy = strings.ToLower(strings.TrimSpace(c.Carousel.BackgroundStrategy))
	if c.Carousel.BackgroundStrategy == "" {
		c.Carousel.BackgroundStrategy = defaultBackgroundStrategy
	}
	if c.Carousel.ThumbnailSize <= 0 {
		c.Carousel.ThumbnailSize = defaultThumbnailSize
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
