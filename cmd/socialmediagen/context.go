package main

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"sync"

	"socialmediagen/internal/assets"
	"socialmediagen/internal/config"
	"socialmediagen/internal/generation"
	"socialmediagen/internal/logging"
	"socialmediagen/internal/services/imagegen"
	"socialmediagen/internal/services/textgen"
	"socialmediagen/internal/taskqueue"
	"socialmediagen/internal/workspace"
)

type commandContext struct {
	configFlag *string

	configOnce sync.Once
	config     *config.Config
	configErr  error
}

func newCommandContext(configFlag *string) *commandContext {
	return &commandContext{configFlag: configFlag}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, _, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

// session bundles the collaborators one command invocation needs. The
// project is loaded from the workspace on open and saved back on close so
// consecutive commands edit the same carousel.
type session struct {
	cfg    *config.Config
	logger *slog.Logger
	store  *workspace.Store
	ledger *taskqueue.Ledger
	orch   *generation.Orchestrator

	// skipSave suppresses the project write-back, used when a command
	// deliberately discards the workspace.
	skipSave bool
}

// withSession opens the workspace (taking its lock), wires the
// orchestrator, runs fn, and persists the project afterwards.
func (c *commandContext) withSession(fn func(*session) error) error {
	cfg, err := c.ensureConfig()
	if err != nil {
		return err
	}

	logger, err := logging.NewFromConfig(cfg)
	if err != nil {
		return fmt.Errorf("initialize logging: %w", err)
	}

	store, err := workspace.NewStore(cfg)
	if err != nil {
		return err
	}
	if err := store.Acquire(); err != nil {
		return err
	}
	defer store.Release()

	ledger, err := taskqueue.OpenLedger(cfg)
	if err != nil {
		return err
	}
	defer ledger.Close()

	textClient, err := textgen.NewClient(textgen.Config{
		APIKey:         cfg.TextGen.APIKey,
		BaseURL:        cfg.TextGen.BaseURL,
		Model:          cfg.TextGen.Model,
		TimeoutSeconds: cfg.TextGen.TimeoutSeconds,
	})
	if err != nil {
		return err
	}
	imageClient, err := imagegen.NewClient(imagegen.Config{
		APIKey:         cfg.ImageGen.APIKey,
		BaseURL:        cfg.ImageGen.BaseURL,
		Model:          cfg.ImageGen.Model,
		TimeoutSeconds: cfg.ImageGen.TimeoutSeconds,
	})
	if err != nil {
		return err
	}

	assetStore, err := assets.NewFSStore(cfg.Paths.AssetDir)
	if err != nil {
		return fmt.Errorf("open asset store: %w", err)
	}

	opts := []generation.Option{
		generation.WithLogger(logger),
		generation.WithLedger(ledger),
	}
	project, exists, err := store.LoadProject()
	if err != nil {
		return err
	}
	if exists {
		opts = append(opts, generation.WithProject(project))
	}

	sess := &session{
		cfg:    cfg,
		logger: logger,
		store:  store,
		ledger: ledger,
		orch:   generation.New(cfg, textClient, imageClient, assetStore, opts...),
	}

	runErr := fn(sess)

	if current := sess.orch.Project(); !sess.skipSave && current.SlideCount() > 0 {
		if saveErr := store.SaveProject(current); saveErr != nil {
			logger.Warn("saving project failed", logging.Error(saveErr))
			if runErr == nil {
				runErr = saveErr
			}
		}
	}
	return runErr
}

// resolveCanvasID maps a 1-based slide number or a raw canvas id onto the
// canvas id. Commands accept slide numbers because that is what the
// navigation strip shows.
func resolveCanvasID(sess *session, arg string) (string, error) {
	arg = strings.TrimSpace(arg)
	if arg == "" {
		return "", fmt.Errorf("canvas number or id is required")
	}

	project := sess.orch.Project()
	if number, err := strconv.Atoi(arg); err == nil {
		if number < 1 || number > project.SlideCount() {
			return "", fmt.Errorf("canvas %d out of range (project has %d)", number, project.SlideCount())
		}
		return project.Canvases[number-1].ID, nil
	}

	if _, ok := project.CanvasByID(arg); ok {
		return arg, nil
	}
	return "", fmt.Errorf("no canvas matches %q", arg)
}
