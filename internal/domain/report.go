package domain

import (
	"fmt"
	"time"
)

// RowError records one prediction that could not be labelled, or one model
// whose accuracy could not be recomputed (PredictionID empty).
type RowError struct {
	PredictionID string
	MatchID      string
	ModelName    string
	Err          error
}

func (e RowError) Error() string {
	if e.PredictionID == "" {
		return fmt.Sprintf("model %q: %v", e.ModelName, e.Err)
	}
	return fmt.Sprintf("prediction %s (match %s): %v", e.PredictionID, e.MatchID, e.Err)
}

func (e RowError) Unwrap() error { return e.Err }

// EvaluationReport summarises one evaluation sweep.
type EvaluationReport struct {
	ID             string
	StartedAt      time.Time
	FinishedAt     time.Time
	MatchesScanned int
	EvaluatedCount int
	Errors         []RowError
	ModelsUpdated  []ModelAccuracy
	// Skipped is set when another sweep held the lock.
	Skipped bool
}
