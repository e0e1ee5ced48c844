package domain

import (
	"context"
	"time"
)

// ListOpts provides pagination for list queries.
type ListOpts struct {
	Limit  int
	Offset int
	Since  *time.Time
}

// MatchStore reads matches.
type MatchStore interface {
	GetByID(ctx context.Context, id string) (Match, error)
	// ListFinishedWithPendingPredictions returns finished matches that have
	// both scores recorded and at least one pending prediction, each with
	// only its pending predictions attached.
	ListFinishedWithPendingPredictions(ctx context.Context) ([]MatchPredictions, error)
	// ListFinished returns finished, fully scored matches ordered by match
	// date ascending, newest limit rows.
	ListFinished(ctx context.Context, limit int) ([]Match, error)
}

// TeamStore reads teams.
type TeamStore interface {
	GetByID(ctx context.Context, id string) (Team, error)
}

// ModelStore reads models and writes their accuracy.
type ModelStore interface {
	// GetActive returns ErrNoActiveModel when no model is active.
	GetActive(ctx context.Context) (Model, error)
	GetByID(ctx context.Context, id string) (Model, error)
	// ListByLabel returns models whose "{name} {version}" equals label.
	ListByLabel(ctx context.Context, label string) ([]Model, error)
	UpdateAccuracy(ctx context.Context, id string, accuracy float64) error
}

// PredictionStore persists predictions.
type PredictionStore interface {
	// Insert writes a new prediction with status pending. It returns
	// ErrAlreadyExists when the match already has a pending prediction.
	Insert(ctx context.Context, draft PredictionDraft) (Prediction, error)
	// UpdateResult labels a pending prediction. It returns ErrNotFound when
	// no pending prediction with that ID exists.
	UpdateResult(ctx context.Context, id string, status ResultStatus) error
	// ListResolvedStatuses returns the result status of every non-pending
	// prediction stamped with modelName.
	ListResolvedStatuses(ctx context.Context, modelName string) ([]ResultStatus, error)
	ListByMatch(ctx context.Context, matchID string) ([]Prediction, error)
}

// TrainingLogStore reads training runs.
type TrainingLogStore interface {
	ListByModel(ctx context.Context, modelID string, opts ListOpts) ([]TrainingLog, error)
}

// AuditEntry is a single audit log row.
type AuditEntry struct {
	ID        int64
	Event     string
	Detail    map[string]any
	CreatedAt time.Time
}

// AuditStore persists an append-only audit log.
type AuditStore interface {
	Log(ctx context.Context, event string, detail map[string]any) error
	List(ctx context.Context, opts ListOpts) ([]AuditEntry, error)
}
