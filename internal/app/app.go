package app

import (
	"io"
	"log/slog"

	"github.com/specialistvlad/metagraph/internal/hcldef"
	"github.com/specialistvlad/metagraph/internal/meta"
)

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	outW     io.Writer
	logger   *slog.Logger
	config   *Config
	registry *meta.Registry
	loader   *hcldef.Loader
}

// NewApp creates an App writing its report to outW and its logs to logW.
// Each App has its own logger and package registry.
func NewApp(outW, logW io.Writer, cfg *Config) *App {
	logger := newLogger(cfg, logW)
	logger.Debug("Logger configured successfully.", "level", cfg.LogLevel, "format", cfg.LogFormat)

	reg := meta.NewRegistry()
	return &App{
		outW:     outW,
		logger:   logger,
		config:   cfg,
		registry: reg,
		loader:   hcldef.NewLoader(hcldef.WithRegistry(reg)),
	}
}

// Registry returns the packages registered by Run.
func (a *App) Registry() *meta.Registry {
	return a.registry
}
