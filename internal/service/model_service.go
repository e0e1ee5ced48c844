package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/Winmix713/match-insight-dash-13/internal/domain"
)

// ModelService resolves the active model, reading through an optional cache.
type ModelService struct {
	models domain.ModelStore
	cache  domain.ModelCache
	logs   domain.TrainingLogStore
	logger *slog.Logger
}

// NewModelService creates a ModelService. cache may be nil.
func NewModelService(models domain.ModelStore, cache domain.ModelCache, logger *slog.Logger) *ModelService {
	return &ModelService{
		models: models,
		cache:  cache,
		logger: logger.With(slog.String("component", "model_service")),
	}
}

// Active returns the active model for read APIs, serving it from the cache
// when one is configured. Callers that stamp predictions must use Current.
func (s *ModelService) Active(ctx context.Context) (domain.Model, error) {
	if s.cache != nil {
		if m, err := s.cache.GetActive(ctx); err == nil {
			return m, nil
		}
	}
	return s.Current(ctx)
}

// Current reads the active model from the store, bypassing the cache, and
// refreshes the cached copy. It returns domain.ErrNoActiveModel when no model
// is active.
func (s *ModelService) Current(ctx context.Context) (domain.Model, error) {
	m, err := s.models.GetActive(ctx)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			err = domain.ErrNoActiveModel
		}
		return domain.Model{}, fmt.Errorf("model_service: active model: %w", err)
	}
	if !m.IsActive {
		return domain.Model{}, fmt.Errorf("model_service: model %s: %w", m.ID, domain.ErrNoActiveModel)
	}

	if s.cache != nil {
		if err := s.cache.SetActive(ctx, m); err != nil {
			s.logger.WarnContext(ctx, "cache set failed", slog.String("model_id", m.ID), slog.String("error", err.Error()))
		}
	}
	return m, nil
}

// Invalidate drops the cached active model.
func (s *ModelService) Invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx); err != nil {
		s.logger.WarnContext(ctx, "cache invalidate failed", slog.String("error", err.Error()))
	}
}

// WithTrainingLogs enables TrainingHistory.
func (s *ModelService) WithTrainingLogs(logs domain.TrainingLogStore) *ModelService {
	s.logs = logs
	return s
}

// TrainingHistory returns a model and its training runs, newest first.
func (s *ModelService) TrainingHistory(ctx context.Context, modelID string, opts domain.ListOpts) (domain.Model, []domain.TrainingLog, error) {
	m, err := s.models.GetByID(ctx, modelID)
	if err != nil {
		return domain.Model{}, nil, fmt.Errorf("model_service: model %s: %w", modelID, err)
	}
	if s.logs == nil {
		return m, nil, nil
	}
	logs, err := s.logs.ListByModel(ctx, modelID, opts)
	if err != nil {
		return domain.Model{}, nil, fmt.Errorf("model_service: training logs for %s: %w", modelID, err)
	}
	return m, logs, nil
}
