package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/Winmix713/match-insight-dash-13/internal/server"
	"github.com/Winmix713/match-insight-dash-13/internal/server/handler"
)

// shutdownTimeout bounds graceful HTTP shutdown.
const shutdownTimeout = 15 * time.Second

// ServerMode serves the HTTP API until ctx is cancelled.
func (a *App) ServerMode(ctx context.Context, deps *Dependencies) error {
	a.logger.InfoContext(ctx, "starting server mode")

	g, ctx := errgroup.WithContext(ctx)
	a.serveHTTP(ctx, g, deps)
	return g.Wait()
}

// EvaluateMode runs one evaluation sweep and returns.
func (a *App) EvaluateMode(ctx context.Context, deps *Dependencies) error {
	ctx, cancel := context.WithTimeout(ctx, a.cfg.Evaluation.Timeout.Duration)
	defer cancel()

	report, err := deps.Evaluator.EvaluateAll(ctx)
	if err != nil {
		return fmt.Errorf("app: evaluate: %w", err)
	}
	if report.Skipped {
		a.logger.InfoContext(ctx, "another evaluation sweep holds the lock")
		return nil
	}
	for _, e := range report.Errors {
		a.logger.WarnContext(ctx, "evaluation row error", slog.String("error", e.Error()))
	}
	a.logger.InfoContext(ctx, "evaluation complete",
		slog.String("report_id", report.ID),
		slog.Int("evaluated", report.EvaluatedCount),
		slog.Int("errors", len(report.Errors)),
	)
	return nil
}

// GenerateMode forecasts one match and returns.
func (a *App) GenerateMode(ctx context.Context, deps *Dependencies, matchID string) error {
	res, err := deps.Generation.Generate(ctx, matchID)
	if err != nil {
		return fmt.Errorf("app: generate: %w", err)
	}
	p := res.Prediction
	attrs := []any{
		slog.String("prediction_id", p.ID),
		slog.String("model_name", p.ModelName),
		slog.Float64("confidence", p.ConfidenceScore),
	}
	if p.PredictedWinner != nil {
		attrs = append(attrs, slog.String("predicted_winner", string(*p.PredictedWinner)))
	}
	a.logger.InfoContext(ctx, res.Message(), attrs...)
	return nil
}

// ScheduledMode serves the HTTP API and runs evaluation sweeps on the
// configured cron schedule.
func (a *App) ScheduledMode(ctx context.Context, deps *Dependencies) error {
	a.logger.InfoContext(ctx, "starting scheduled mode", slog.String("cron", a.cfg.Evaluation.Cron))

	sched, err := newSweepScheduler(a.cfg.Evaluation.Cron, a.cfg.Evaluation.Timeout.Duration, deps.Evaluator, a.logger)
	if err != nil {
		return fmt.Errorf("app: scheduler: %w", err)
	}

	g, ctx := errgroup.WithContext(ctx)
	a.serveHTTP(ctx, g, deps)
	g.Go(func() error {
		return sched.Run(ctx)
	})
	return g.Wait()
}

// serveHTTP starts the API server in g and shuts it down when ctx ends.
func (a *App) serveHTTP(ctx context.Context, g *errgroup.Group, deps *Dependencies) {
	srv := server.NewServer(server.Config{
		Port:            a.cfg.Server.Port,
		CORSOrigins:     a.cfg.Server.CORSOrigins,
		APIKey:          a.cfg.Server.APIKey,
		RateLimit:       a.cfg.Server.RateLimit,
		RateLimitWindow: a.cfg.Server.RateLimitWindow.Duration,
	}, a.handlers(deps), deps.Limiter, a.logger)

	g.Go(srv.Start)
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		return nil
	})
}

func (a *App) handlers(deps *Dependencies) server.Handlers {
	h := server.Handlers{
		Health:      handler.NewHealthHandler(deps.Health, a.logger),
		Predictions: handler.NewPredictionHandler(deps.Generation, a.logger),
		Evaluation:  handler.NewEvaluationHandler(deps.Evaluator, a.logger),
		Models:      handler.NewModelHandler(deps.ModelService, a.logger),
		Audit:       handler.NewAuditHandler(deps.Audit, a.logger),
	}
	if deps.Bus != nil {
		h.Events = handler.NewEventsHandler(deps.Bus, a.logger)
	}
	if deps.Reports != nil {
		h.Reports = handler.NewReportsHandler(deps.Reports, a.logger)
	}
	return h
}
