// Package app wires the match insight engine together and runs it in one of
// its operating modes: server, evaluate, generate or scheduled.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/Winmix713/match-insight-dash-13/internal/config"
)

// App owns the configuration, the logger and the cleanup functions run on
// shutdown in reverse order.
type App struct {
	cfg     *config.Config
	logger  *slog.Logger
	matchID string
	closers []func()
}

// New creates an App.
func New(cfg *config.Config, logger *slog.Logger) *App {
	return &App{
		cfg:    cfg,
		logger: logger.With(slog.String("component", "app")),
	}
}

// WithMatchID sets the match forecast by generate mode.
func (a *App) WithMatchID(id string) *App {
	a.matchID = id
	return a
}

// Run wires dependencies and blocks in the configured mode until it finishes
// or ctx is cancelled.
func (a *App) Run(ctx context.Context) error {
	mode := strings.ToLower(a.cfg.Mode)
	a.logger.InfoContext(ctx, "starting application",
		slog.String("mode", mode),
		slog.String("log_level", a.cfg.LogLevel),
	)

	if mode == "generate" && a.matchID == "" {
		return fmt.Errorf("app: generate mode requires a match id")
	}

	deps, cleanup, err := Wire(ctx, a.cfg, a.logger)
	if err != nil {
		return fmt.Errorf("app: wire dependencies: %w", err)
	}
	a.closers = append(a.closers, cleanup)

	switch mode {
	case "server":
		return a.ServerMode(ctx, deps)
	case "evaluate":
		return a.EvaluateMode(ctx, deps)
	case "generate":
		return a.GenerateMode(ctx, deps, a.matchID)
	case "scheduled":
		return a.ScheduledMode(ctx, deps)
	default:
		return fmt.Errorf("app: unsupported mode %q", a.cfg.Mode)
	}
}

// Close runs the cleanup functions. Later calls are no-ops.
func (a *App) Close() {
	a.logger.Info("shutting down application")
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
}
