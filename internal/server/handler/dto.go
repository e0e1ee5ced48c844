package handler

import (
	"time"

	"github.com/Winmix713/match-insight-dash-13/internal/domain"
)

// predictionJSON mirrors the predictions table row.
type predictionJSON struct {
	ID                string   `json:"id"`
	MatchID           string   `json:"match_id"`
	PredictedWinner   *string  `json:"predicted_winner"`
	HomeExpectedGoals *float64 `json:"home_expected_goals"`
	AwayExpectedGoals *float64 `json:"away_expected_goals"`
	ConfidenceScore   float64  `json:"confidence_score"`
	ModelName         string   `json:"model_name"`
	CreatedAt         string   `json:"created_at"`
	ResultStatus      string   `json:"result_status"`
}

func toPredictionJSON(p domain.Prediction) predictionJSON {
	out := predictionJSON{
		ID:                p.ID,
		MatchID:           p.MatchID,
		HomeExpectedGoals: p.HomeExpectedGoals,
		AwayExpectedGoals: p.AwayExpectedGoals,
		ConfidenceScore:   p.ConfidenceScore,
		ModelName:         p.ModelName,
		CreatedAt:         p.CreatedAt.UTC().Format(time.RFC3339),
		ResultStatus:      string(p.ResultStatus),
	}
	if p.PredictedWinner != nil {
		w := string(*p.PredictedWinner)
		out.PredictedWinner = &w
	}
	return out
}

type modelJSON struct {
	ID         string         `json:"id"`
	Name       string         `json:"name"`
	Version    string         `json:"version"`
	Algorithm  string         `json:"algorithm"`
	Parameters map[string]any `json:"parameters"`
	TrainedAt  *string        `json:"trained_at"`
	Accuracy   *float64       `json:"accuracy"`
	IsActive   bool           `json:"is_active"`
	Notes      *string        `json:"notes"`
}

func toModelJSON(m domain.Model) modelJSON {
	out := modelJSON{
		ID:         m.ID,
		Name:       m.Name,
		Version:    m.Version,
		Algorithm:  m.Algorithm,
		Parameters: m.Parameters,
		Accuracy:   m.Accuracy,
		IsActive:   m.IsActive,
		Notes:      m.Notes,
	}
	if out.Parameters == nil {
		out.Parameters = map[string]any{}
	}
	if m.TrainedAt != nil {
		s := m.TrainedAt.UTC().Format(time.RFC3339)
		out.TrainedAt = &s
	}
	return out
}

type rowErrorJSON struct {
	PredictionID string `json:"prediction_id,omitempty"`
	MatchID      string `json:"match_id,omitempty"`
	ModelName    string `json:"model_name,omitempty"`
	Error        string `json:"error"`
}

type modelAccuracyJSON struct {
	ModelID   string  `json:"model_id"`
	ModelName string  `json:"model_name"`
	Accuracy  float64 `json:"accuracy"`
	Correct   int     `json:"correct"`
	Total     int     `json:"total"`
}
