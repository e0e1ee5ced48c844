package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Winmix713/match-insight-dash-13/internal/domain"
)

// TrainingLogStore implements domain.TrainingLogStore using PostgreSQL.
type TrainingLogStore struct {
	pool *pgxpool.Pool
}

// NewTrainingLogStore creates a new TrainingLogStore.
func NewTrainingLogStore(pool *pgxpool.Pool) *TrainingLogStore {
	return &TrainingLogStore{pool: pool}
}

// ListByModel returns a model's training runs, newest first.
func (s *TrainingLogStore) ListByModel(ctx context.Context, modelID string, opts domain.ListOpts) ([]domain.TrainingLog, error) {
	uid, err := parseID("model", modelID)
	if err != nil {
		return nil, err
	}

	limit := opts.Limit
	if limit <= 0 {
		limit = 50
	}
	const query = `
		SELECT id::text, model_id::text, started_at, completed_at, status,
			accuracy_achieved::float8, duration, error_message, created_at
		FROM training_logs
		WHERE model_id = $1
		ORDER BY started_at DESC
		LIMIT $2 OFFSET $3`

	rows, err := s.pool.Query(ctx, query, uid, limit, opts.Offset)
	if err != nil {
		return nil, fmt.Errorf("postgres: list training logs for model %s: %w", modelID, err)
	}
	defer rows.Close()

	var out []domain.TrainingLog
	for rows.Next() {
		var (
			l      domain.TrainingLog
			status string
		)
		if err := rows.Scan(
			&l.ID, &l.ModelID, &l.StartedAt, &l.CompletedAt, &status,
			&l.AccuracyAchieved, &l.Duration, &l.ErrorMessage, &l.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("postgres: scan training log: %w", err)
		}
		l.Status = domain.TrainingStatus(status)
		out = append(out, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres: list training logs rows: %w", err)
	}
	return out, nil
}

var _ domain.TrainingLogStore = (*TrainingLogStore)(nil)
