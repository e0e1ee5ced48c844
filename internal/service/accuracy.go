package service

import (
	"context"
	"fmt"
	"log/slog"
	"math"

	"github.com/Winmix713/match-insight-dash-13/internal/domain"
)

// AccuracyAggregator recomputes a model's accuracy from its labelled
// predictions.
//
// Predictions are joined to models by their "{name} {version}" snapshot, so a
// renamed model loses its history and two models sharing a label share one
// accuracy figure.
type AccuracyAggregator struct {
	predictions domain.PredictionStore
	models      domain.ModelStore
	modelSvc    *ModelService
	logger      *slog.Logger
}

// NewAccuracyAggregator creates an AccuracyAggregator. modelSvc may be nil; if
// set, its cache is invalidated after the active model's accuracy changes.
func NewAccuracyAggregator(predictions domain.PredictionStore, models domain.ModelStore, modelSvc *ModelService, logger *slog.Logger) *AccuracyAggregator {
	return &AccuracyAggregator{
		predictions: predictions,
		models:      models,
		modelSvc:    modelSvc,
		logger:      logger.With(slog.String("component", "accuracy_aggregator")),
	}
}

// Recompute sets model.Accuracy to the percentage of correct labelled
// predictions. updated is false when the model has no labelled predictions,
// in which case the stored accuracy is left as it was.
func (a *AccuracyAggregator) Recompute(ctx context.Context, model domain.Model) (acc domain.ModelAccuracy, updated bool, err error) {
	label := model.Label()
	statuses, err := a.predictions.ListResolvedStatuses(ctx, label)
	if err != nil {
		return domain.ModelAccuracy{}, false, fmt.Errorf("accuracy: list statuses for %q: %w", label, err)
	}
	if len(statuses) == 0 {
		return domain.ModelAccuracy{}, false, nil
	}

	correct := 0
	for _, s := range statuses {
		if s == domain.ResultCorrect {
			correct++
		}
	}
	acc = domain.ModelAccuracy{
		ModelID:   model.ID,
		ModelName: label,
		Accuracy:  Accuracy(correct, len(statuses)),
		Correct:   correct,
		Total:     len(statuses),
	}

	if err := a.models.UpdateAccuracy(ctx, model.ID, acc.Accuracy); err != nil {
		return domain.ModelAccuracy{}, false, fmt.Errorf("accuracy: update model %s: %w", model.ID, err)
	}
	if model.IsActive && a.modelSvc != nil {
		a.modelSvc.Invalidate(ctx)
	}

	a.logger.InfoContext(ctx, "model accuracy updated",
		slog.String("model_id", model.ID),
		slog.String("model_name", label),
		slog.Float64("accuracy", acc.Accuracy),
		slog.Int("correct", correct),
		slog.Int("total", acc.Total),
	)
	return acc, true, nil
}

// RecomputeLabel recomputes every model whose label equals modelName. Labels
// with no matching model are logged and skipped.
func (a *AccuracyAggregator) RecomputeLabel(ctx context.Context, modelName string) ([]domain.ModelAccuracy, error) {
	models, err := a.models.ListByLabel(ctx, modelName)
	if err != nil {
		return nil, fmt.Errorf("accuracy: resolve %q: %w", modelName, err)
	}
	if len(models) == 0 {
		a.logger.WarnContext(ctx, "no model matches prediction label", slog.String("model_name", modelName))
		return nil, nil
	}

	var out []domain.ModelAccuracy
	for _, m := range models {
		acc, updated, err := a.Recompute(ctx, m)
		if err != nil {
			return out, err
		}
		if updated {
			out = append(out, acc)
		}
	}
	return out, nil
}

// Accuracy returns correct/total as a percentage rounded to two decimals.
func Accuracy(correct, total int) float64 {
	if total == 0 {
		return 0
	}
	return math.Round(float64(correct)/float64(total)*10000) / 100
}
