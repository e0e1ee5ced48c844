package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Winmix713/match-insight-dash-13/internal/domain"
)

const sweepLockKey = "evaluation_sweep"

// ReportArchiver stores finished evaluation reports.
type ReportArchiver interface {
	ArchiveReport(ctx context.Context, report domain.EvaluationReport) (string, error)
}

// Evaluator labels pending predictions of finished matches and rolls the
// results into model accuracy.
type Evaluator struct {
	matches     domain.MatchStore
	predictions domain.PredictionStore
	aggregator  *AccuracyAggregator
	locks       domain.LockManager
	lockTTL     time.Duration
	archiver    ReportArchiver
	auditLog    domain.AuditStore
	notifier    Notifier
	events      eventPublisher
	logger      *slog.Logger
	now         func() time.Time
	newID       func() string
}

// NewEvaluator creates an Evaluator. locks, archiver, auditLog, notifier and bus
// may all be nil.
func NewEvaluator(
	matches domain.MatchStore,
	predictions domain.PredictionStore,
	aggregator *AccuracyAggregator,
	locks domain.LockManager,
	lockTTL time.Duration,
	archiver ReportArchiver,
	auditLog domain.AuditStore,
	notifier Notifier,
	bus domain.EventBus,
	logger *slog.Logger,
) *Evaluator {
	if lockTTL <= 0 {
		lockTTL = 2 * time.Minute
	}
	logger = logger.With(slog.String("component", "evaluator"))
	return &Evaluator{
		matches:     matches,
		predictions: predictions,
		aggregator:  aggregator,
		locks:       locks,
		lockTTL:     lockTTL,
		archiver:    archiver,
		auditLog:    auditLog,
		notifier:    notifier,
		events:      eventPublisher{bus: bus, logger: logger, now: time.Now},
		logger:      logger,
		now:         time.Now,
		newID:       func() string { return uuid.New().String() },
	}
}

// EvaluateAll labels every pending prediction whose match has finished. A
// failure on one prediction is recorded in the report and does not stop the
// sweep. Running it twice in a row evaluates nothing the second time.
//
// The returned error is non-nil only when the eligible rows cannot be read.
func (e *Evaluator) EvaluateAll(ctx context.Context) (domain.EvaluationReport, error) {
	report := domain.EvaluationReport{ID: e.newID(), StartedAt: e.now().UTC()}

	if e.locks != nil {
		unlock, err := e.locks.Acquire(ctx, sweepLockKey, e.lockTTL)
		switch {
		case errors.Is(err, domain.ErrLockHeld):
			e.logger.InfoContext(ctx, "evaluation sweep already running, skipping")
			report.Skipped = true
			report.FinishedAt = e.now().UTC()
			return report, nil
		case err != nil:
			e.logger.WarnContext(ctx, "sweep lock unavailable, continuing unlocked", slog.String("error", err.Error()))
		default:
			defer unlock()
		}
	}

	rows, err := e.matches.ListFinishedWithPendingPredictions(ctx)
	if err != nil {
		return report, fmt.Errorf("evaluator: list finished matches: %w: %w", domain.ErrPersistence, err)
	}
	report.MatchesScanned = len(rows)

	touched := make(map[string]struct{})
	for _, row := range rows {
		if err := row.Match.Validate(); err != nil {
			e.logger.ErrorContext(ctx, "invalid match row, predictions left pending",
				slog.String("match_id", row.Match.ID),
				slog.String("error", err.Error()),
			)
			for _, p := range row.Predictions {
				if p.ResultStatus != domain.ResultPending {
					continue
				}
				report.Errors = append(report.Errors, domain.RowError{
					PredictionID: p.ID,
					MatchID:      row.Match.ID,
					ModelName:    p.ModelName,
					Err:          err,
				})
			}
			continue
		}
		actual, ok := row.Match.Outcome()
		if !ok {
			continue
		}
		for _, p := range row.Predictions {
			if p.ResultStatus != domain.ResultPending {
				continue
			}
			status := Label(p.PredictedWinner, actual)

			if err := e.predictions.UpdateResult(ctx, p.ID, status); err != nil {
				if errors.Is(err, domain.ErrNotFound) {
					// Labelled by a concurrent sweep.
					e.logger.DebugContext(ctx, "prediction no longer pending", slog.String("prediction_id", p.ID))
					continue
				}
				e.logger.ErrorContext(ctx, "label prediction failed",
					slog.String("prediction_id", p.ID),
					slog.String("match_id", row.Match.ID),
					slog.String("error", err.Error()),
				)
				report.Errors = append(report.Errors, domain.RowError{
					PredictionID: p.ID,
					MatchID:      row.Match.ID,
					ModelName:    p.ModelName,
					Err:          fmt.Errorf("%w: %w", domain.ErrPersistence, err),
				})
				continue
			}
			report.EvaluatedCount++
			touched[p.ModelName] = struct{}{}
		}
	}

	for _, name := range sortedKeys(touched) {
		accs, err := e.aggregator.RecomputeLabel(ctx, name)
		report.ModelsUpdated = append(report.ModelsUpdated, accs...)
		if err != nil {
			e.logger.ErrorContext(ctx, "recompute accuracy failed",
				slog.String("model_name", name),
				slog.String("error", err.Error()),
			)
			report.Errors = append(report.Errors, domain.RowError{
				ModelName: name,
				Err:       fmt.Errorf("%w: %w", domain.ErrPersistence, err),
			})
		}
	}

	report.FinishedAt = e.now().UTC()
	e.logger.InfoContext(ctx, "evaluation sweep finished",
		slog.String("report_id", report.ID),
		slog.Int("matches", report.MatchesScanned),
		slog.Int("evaluated", report.EvaluatedCount),
		slog.Int("errors", len(report.Errors)),
		slog.Int("models_updated", len(report.ModelsUpdated)),
		slog.Duration("took", report.FinishedAt.Sub(report.StartedAt)),
	)

	e.afterSweep(ctx, report)
	return report, nil
}

// afterSweep archives, audits, publishes and alerts. None of it affects the
// sweep result.
func (e *Evaluator) afterSweep(ctx context.Context, report domain.EvaluationReport) {
	if report.EvaluatedCount == 0 && len(report.Errors) == 0 {
		return
	}

	detail := map[string]any{
		"report_id":       report.ID,
		"evaluated_count": report.EvaluatedCount,
		"error_count":     len(report.Errors),
		"matches_scanned": report.MatchesScanned,
	}

	if e.archiver != nil {
		path, err := e.archiver.ArchiveReport(ctx, report)
		if err != nil {
			e.logger.WarnContext(ctx, "archive report failed", slog.String("report_id", report.ID), slog.String("error", err.Error()))
		} else {
			detail["archive_path"] = path
		}
	}

	audit(ctx, e.auditLog, e.logger, string(domain.EventPredictionsEvaluated), detail)
	e.events.publish(ctx, domain.ChannelPredictionsEvaluated, domain.EventPredictionsEvaluated, detail)
	for _, acc := range report.ModelsUpdated {
		e.events.publish(ctx, domain.ChannelPredictionsEvaluated, domain.EventAccuracyUpdated, map[string]any{
			"model_id":   acc.ModelID,
			"model_name": acc.ModelName,
			"accuracy":   acc.Accuracy,
			"total":      acc.Total,
		})
	}

	if len(report.Errors) > 0 && e.notifier != nil {
		msgs := make([]string, 0, len(report.Errors))
		for _, re := range report.Errors {
			msgs = append(msgs, re.Error())
		}
		body := fmt.Sprintf("Evaluated %d predictions, %d failed:\n%s", report.EvaluatedCount, len(report.Errors), strings.Join(msgs, "\n"))
		if err := e.notifier.Notify(ctx, string(domain.EventEvaluationErrors), "Evaluation sweep errors", body); err != nil {
			e.logger.WarnContext(ctx, "notify failed", slog.String("error", err.Error()))
		}
	}
}

// Label grades a prediction against the actual outcome. A prediction with no
// predicted winner is wrong.
func Label(predicted *domain.Outcome, actual domain.Outcome) domain.ResultStatus {
	if predicted != nil && *predicted == actual {
		return domain.ResultCorrect
	}
	return domain.ResultWrong
}

func sortedKeys(m map[string]struct{}) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
