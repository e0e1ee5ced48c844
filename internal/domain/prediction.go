package domain

import "time"

// ResultStatus is the lifecycle of a prediction: created pending, then
// labelled exactly once.
type ResultStatus string

const (
	ResultPending ResultStatus = "pending"
	ResultCorrect ResultStatus = "correct"
	ResultWrong   ResultStatus = "wrong"
)

// CanTransition reports whether a prediction may move from s to next.
// Only pending predictions can be labelled, and only as correct or wrong.
func (s ResultStatus) CanTransition(next ResultStatus) bool {
	return s == ResultPending && (next == ResultCorrect || next == ResultWrong)
}

// Prediction is a persisted forecast for one match.
type Prediction struct {
	ID                string
	MatchID           string
	PredictedWinner   *Outcome
	HomeExpectedGoals *float64
	AwayExpectedGoals *float64
	ConfidenceScore   float64
	// ModelName is a "{name} {version}" snapshot taken at generation time, not
	// a reference. Renaming a model orphans its historical predictions from
	// accuracy aggregation.
	ModelName    string
	CreatedAt    time.Time
	ResultStatus ResultStatus
}

// PredictionDraft is the predictor's output before it is persisted.
type PredictionDraft struct {
	MatchID           string
	PredictedWinner   Outcome
	HomeExpectedGoals float64
	AwayExpectedGoals float64
	ConfidenceScore   float64
	ModelName         string
}

// MatchPredictions pairs a finished match with its pending predictions.
type MatchPredictions struct {
	Match       Match
	Predictions []Prediction
}
