package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/Winmix713/match-insight-dash-13/internal/domain"
)

// sweeper is the evaluation entry point triggered by the scheduler.
type sweeper interface {
	EvaluateAll(ctx context.Context) (domain.EvaluationReport, error)
}

// sweepScheduler triggers evaluation sweeps on a cron schedule. Overlapping
// ticks are skipped while a sweep is still running.
type sweepScheduler struct {
	cron    *cron.Cron
	sweeper sweeper
	timeout time.Duration
	logger  *slog.Logger
	// base is the parent context of each sweep; set by Run.
	base context.Context
}

func newSweepScheduler(spec string, timeout time.Duration, sw sweeper, logger *slog.Logger) (*sweepScheduler, error) {
	logger = logger.With(slog.String("component", "scheduler"))
	cl := cronLogger{logger: logger}
	s := &sweepScheduler{
		cron:    cron.New(cron.WithLogger(cl), cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl))),
		sweeper: sw,
		timeout: timeout,
		logger:  logger,
		base:    context.Background(),
	}
	if _, err := s.cron.AddFunc(spec, s.sweep); err != nil {
		return nil, fmt.Errorf("scheduler: add job %q: %w", spec, err)
	}
	return s, nil
}

// Run starts the cron loop and blocks until ctx is cancelled, then waits for
// a running sweep to finish.
func (s *sweepScheduler) Run(ctx context.Context) error {
	s.base = ctx
	s.cron.Start()
	for _, e := range s.cron.Entries() {
		s.logger.InfoContext(ctx, "evaluation sweep scheduled", slog.Time("next", e.Next))
	}

	<-ctx.Done()
	<-s.cron.Stop().Done()
	s.logger.Info("scheduler stopped")
	return nil
}

func (s *sweepScheduler) sweep() {
	ctx, cancel := context.WithTimeout(s.base, s.timeout)
	defer cancel()

	report, err := s.sweeper.EvaluateAll(ctx)
	if err != nil {
		s.logger.ErrorContext(ctx, "scheduled evaluation failed", slog.String("error", err.Error()))
		return
	}
	s.logger.InfoContext(ctx, "scheduled evaluation done",
		slog.String("report_id", report.ID),
		slog.Bool("skipped", report.Skipped),
		slog.Int("evaluated", report.EvaluatedCount),
		slog.Int("errors", len(report.Errors)),
	)
}

// cronLogger adapts slog to cron.Logger.
type cronLogger struct {
	logger *slog.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.logger.Debug("cron: "+msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.logger.Error("cron: "+msg, append([]any{slog.String("error", err.Error())}, keysAndValues...)...)
}
