package app

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/vk/tanglestat/internal/profile"
)

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	outW    io.Writer
	logger  *slog.Logger
	config  *Config
	profile *profile.Profile
}

// NewApp is the constructor for the main application. It loads the analysis
// profile (when one is named), resolves the effective log settings, and
// returns a fully initialized App with its own isolated logger writing to
// logW. The report is written to outW.
func NewApp(outW, logW io.Writer, cfg *Config) (*App, error) {
	var prof *profile.Profile
	if cfg.ProfilePath != "" {
		p, err := profile.Load(cfg.ProfilePath)
		if err != nil {
			return nil, fmt.Errorf("failed to load analysis profile: %w", err)
		}
		prof = p
	}

	// Profile log settings override the flags.
	level, format := cfg.LogLevel, cfg.LogFormat
	if prof != nil && prof.Log != nil {
		if prof.Log.Level != "" {
			level = prof.Log.Level
		}
		if prof.Log.Format != "" {
			format = prof.Log.Format
		}
	}

	logger := newLogger(level, format, logW)
	logger.Debug("Logger configured successfully.", "level", level, "format", format)

	return &App{
		outW:    outW,
		logger:  logger,
		config:  cfg,
		profile: prof,
	}, nil
}

// Profile returns the loaded analysis profile. This is primarily for testing.
func (a *App) Profile() *profile.Profile {
	return a.profile
}
