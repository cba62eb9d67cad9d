package config

const (
	defaultWorkspaceDir       = "~/.local/share/socialmediagen"
	defaultAssetDir           = "~/.local/share/socialmediagen/assets"
	defaultLogDir             = "~/.local/share/socialmediagen/logs"
	defaultTextGenBaseURL     = "https://api.openai.com/v1"
	defaultTextGenModel       = "gpt-4o-mini"
	defaultTextGenTimeout     = 60
	defaultImageGenBaseURL    = "https://api.openai.com/v1/images/generations"
	defaultImageGenModel      = "gpt-image-1"
	defaultImageGenFormat     = "square"
	defaultImageGenTimeout    = 120
	defaultMaxCanvasCount     = 10
	defaultSlideCount         = 5
	defaultBackgroundStrategy = "unique"
	defaultThumbnailSize      = 96
	defaultLogFormat          = "console"
	defaultLogLevel           = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			WorkspaceDir: defaultWorkspaceDir,
			AssetDir:     defaultAssetDir,
			LogDir:       defaultLogDir,
		},
		TextGen: TextGen{
			BaseURL:        defaultTextGenBaseURL,
			Model:          defaultTextGenModel,
			TimeoutSeconds: defaultTextGenTimeout,
		},
		ImageGen: ImageGen{
			BaseURL:        defaultImageGenBaseURL,
			Model:          defaultImageGenModel,
			FormatHint:     defaultImageGenFormat,
			TimeoutSeconds: defaultImageGenTimeout,
		},
		Carousel: Carousel{
			MaxCanvasCount:     defaultMaxCanvasCount,
			DefaultSlideCount:  defaultSlideCount,
			BackgroundStrategy: defaultBackgroundStrategy,
			ThumbnailSize:      defaultThumbnailSize,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
