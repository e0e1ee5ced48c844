// Package predictor turns team strength coefficients into an outcome forecast.
package predictor

import (
	"context"
	"fmt"
	"math"

	"github.com/Winmix713/match-insight-dash-13/internal/domain"
)

// Coefficients are relative team strengths. Estimators used in production keep
// Home in [0.4, 0.7) and Away in [0.3, 0.6).
type Coefficients struct {
	Home float64
	Away float64
}

// StrengthEstimator produces strength coefficients for a pairing.
type StrengthEstimator interface {
	Name() string
	Estimate(ctx context.Context, home, away domain.Team, model domain.Model) (Coefficients, error)
}

// Params are the tunable constants of the forecast.
type Params struct {
	GoalScale       float64
	DrawThreshold   float64
	BaseConfidence  float64
	ConfidenceSlope float64
	MinConfidence   float64
	MaxConfidence   float64
}

// DefaultParams returns the standard forecast constants.
func DefaultParams() Params {
	return Params{
		GoalScale:       3.0,
		DrawThreshold:   0.3,
		BaseConfidence:  0.7,
		ConfidenceSlope: 0.2,
		MinConfidence:   0.5,
		MaxConfidence:   0.95,
	}
}

// Predictor computes a PredictionDraft from two teams and a model.
type Predictor struct {
	params Params
}

// New returns a Predictor using params.
func New(params Params) *Predictor {
	return &Predictor{params: params}
}

// Predict forecasts home vs away using est for strengths. The returned draft
// has no MatchID; the caller owns that.
func (p *Predictor) Predict(ctx context.Context, home, away domain.Team, model *domain.Model, est StrengthEstimator) (domain.PredictionDraft, error) {
	if model == nil || !model.IsActive {
		return domain.PredictionDraft{}, domain.ErrNoActiveModel
	}
	if home.ID == "" || away.ID == "" {
		return domain.PredictionDraft{}, fmt.Errorf("predictor: %w: team id is empty", domain.ErrInvalidInput)
	}
	if home.ID == away.ID {
		return domain.PredictionDraft{}, fmt.Errorf("predictor: %w: team %s cannot play itself", domain.ErrInvalidInput, home.ID)
	}

	coef, err := est.Estimate(ctx, home, away, *model)
	if err != nil {
		return domain.PredictionDraft{}, fmt.Errorf("predictor: estimate with %s: %w", est.Name(), err)
	}

	hxg := round2(coef.Home * p.params.GoalScale)
	axg := round2(coef.Away * p.params.GoalScale)

	// Both sides are already two-decimal values; rounding the difference keeps
	// the draw boundary exact.
	diff := round2(hxg - axg)

	return domain.PredictionDraft{
		PredictedWinner:   p.outcome(diff),
		HomeExpectedGoals: hxg,
		AwayExpectedGoals: axg,
		ConfidenceScore:   p.confidence(diff),
		ModelName:         model.Label(),
	}, nil
}

func (p *Predictor) outcome(diff float64) domain.Outcome {
	switch {
	case math.Abs(diff) < p.params.DrawThreshold:
		return domain.OutcomeDraw
	case diff > 0:
		return domain.OutcomeHome
	default:
		return domain.OutcomeAway
	}
}

func (p *Predictor) confidence(diff float64) float64 {
	c := p.params.BaseConfidence + math.Abs(diff)*p.params.ConfidenceSlope
	c = math.Max(p.params.MinConfidence, math.Min(p.params.MaxConfidence, c))
	return round2(c)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
