package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/Winmix713/match-insight-dash-13/internal/domain"
	"github.com/Winmix713/match-insight-dash-13/internal/predictor"
)

// GenerationResult is a stored prediction together with the teams it covers.
type GenerationResult struct {
	Prediction domain.Prediction
	Home       domain.Team
	Away       domain.Team
}

// Message is the human-readable summary returned to API callers.
func (r GenerationResult) Message() string {
	return fmt.Sprintf("Prediction generated for %s vs %s", r.Home.Name, r.Away.Name)
}

// GenerationService produces and stores one prediction per call.
type GenerationService struct {
	matches     domain.MatchStore
	teams       domain.TeamStore
	predictions domain.PredictionStore
	models      *ModelService
	predictor   *predictor.Predictor
	estimators  *predictor.Registry
	auditLog    domain.AuditStore
	events      eventPublisher
	logger      *slog.Logger
}

// NewGenerationService creates a GenerationService. auditLog and bus may be nil.
func NewGenerationService(
	matches domain.MatchStore,
	teams domain.TeamStore,
	predictions domain.PredictionStore,
	models *ModelService,
	pred *predictor.Predictor,
	estimators *predictor.Registry,
	auditLog domain.AuditStore,
	bus domain.EventBus,
	logger *slog.Logger,
) *GenerationService {
	logger = logger.With(slog.String("component", "generation_service"))
	return &GenerationService{
		matches:     matches,
		teams:       teams,
		predictions: predictions,
		models:      models,
		predictor:   pred,
		estimators:  estimators,
		auditLog:    auditLog,
		events:      eventPublisher{bus: bus, logger: logger, now: time.Now},
		logger:      logger,
	}
}

// Generate forecasts the given match with the active model and stores the
// result as a pending prediction.
func (s *GenerationService) Generate(ctx context.Context, matchID string) (GenerationResult, error) {
	if matchID == "" {
		return GenerationResult{}, fmt.Errorf("generation: %w: match_id is required", domain.ErrInvalidInput)
	}

	match, err := s.matches.GetByID(ctx, matchID)
	if err != nil {
		return GenerationResult{}, fmt.Errorf("generation: match %s: %w", matchID, err)
	}
	home, err := s.teams.GetByID(ctx, match.HomeTeamID)
	if err != nil {
		return GenerationResult{}, fmt.Errorf("generation: home team %s: %w", match.HomeTeamID, err)
	}
	away, err := s.teams.GetByID(ctx, match.AwayTeamID)
	if err != nil {
		return GenerationResult{}, fmt.Errorf("generation: away team %s: %w", match.AwayTeamID, err)
	}

	model, err := s.models.Current(ctx)
	if err != nil {
		return GenerationResult{}, fmt.Errorf("generation: %w", err)
	}

	est := s.estimators.Resolve(model)
	draft, err := s.predictor.Predict(ctx, home, away, &model, est)
	if err != nil {
		return GenerationResult{}, fmt.Errorf("generation: match %s: %w", matchID, err)
	}
	draft.MatchID = match.ID

	pred, err := s.predictions.Insert(ctx, draft)
	if err != nil {
		return GenerationResult{}, fmt.Errorf("generation: store prediction for match %s: %w", matchID, err)
	}

	s.logger.InfoContext(ctx, "prediction generated",
		slog.String("prediction_id", pred.ID),
		slog.String("match_id", match.ID),
		slog.String("model_name", pred.ModelName),
		slog.String("estimator", est.Name()),
		slog.String("predicted_winner", string(draft.PredictedWinner)),
		slog.Float64("confidence", draft.ConfidenceScore),
	)

	detail := map[string]any{
		"prediction_id":    pred.ID,
		"match_id":         match.ID,
		"model_name":       pred.ModelName,
		"predicted_winner": string(draft.PredictedWinner),
		"confidence_score": draft.ConfidenceScore,
	}
	audit(ctx, s.auditLog, s.logger, string(domain.EventPredictionGenerated), detail)
	s.events.publish(ctx, domain.ChannelPredictionGenerated, domain.EventPredictionGenerated, detail)

	return GenerationResult{Prediction: pred, Home: home, Away: away}, nil
}

// ActiveModel exposes the active model for read APIs.
func (s *GenerationService) ActiveModel(ctx context.Context) (domain.Model, error) {
	return s.models.Active(ctx)
}

// PredictionsForMatch lists every prediction stored for a match.
func (s *GenerationService) PredictionsForMatch(ctx context.Context, matchID string) ([]domain.Prediction, error) {
	if _, err := s.matches.GetByID(ctx, matchID); err != nil {
		return nil, fmt.Errorf("generation: match %s: %w", matchID, err)
	}
	preds, err := s.predictions.ListByMatch(ctx, matchID)
	if err != nil {
		return nil, fmt.Errorf("generation: predictions for match %s: %w", matchID, err)
	}
	return preds, nil
}
