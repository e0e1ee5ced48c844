package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Winmix713/match-insight-dash-13/internal/domain"
)

// PredictionStore implements domain.PredictionStore using PostgreSQL.
type PredictionStore struct {
	pool *pgxpool.Pool
}

// NewPredictionStore creates a new PredictionStore backed by the given pool.
func NewPredictionStore(pool *pgxpool.Pool) *PredictionStore {
	return &PredictionStore{pool: pool}
}

const predictionColumns = `p.id::text, p.match_id::text, p.predicted_winner, p.home_expected_goals,
	p.away_expected_goals, p.confidence_score, p.model_name, p.created_at, p.result_status`

// Insert stores a draft as a pending prediction and returns the stored row.
// A second pending prediction for the same match is rejected with
// domain.ErrAlreadyExists.
func (s *PredictionStore) Insert(ctx context.Context, d domain.PredictionDraft) (domain.Prediction, error) {
	matchID, err := parseID("match", d.MatchID)
	if err != nil {
		return domain.Prediction{}, err
	}

	query := `
		INSERT INTO predictions AS p (match_id, predicted_winner, home_expected_goals, away_expected_goals,
			confidence_score, model_name, result_status)
		VALUES ($1, $2, $3, $4, $5, $6, 'pending')
		RETURNING ` + predictionColumns

	var r predictionRow
	err = s.pool.QueryRow(ctx, query,
		matchID, string(d.PredictedWinner), d.HomeExpectedGoals, d.AwayExpectedGoals,
		d.ConfidenceScore, d.ModelName,
	).Scan(r.dest()...)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.Prediction{}, fmt.Errorf("postgres: pending prediction for match %s: %w", d.MatchID, domain.ErrAlreadyExists)
		}
		return domain.Prediction{}, fmt.Errorf("postgres: insert prediction for match %s: %w", d.MatchID, err)
	}
	return r.prediction(), nil
}

// UpdateResult moves a pending prediction to status. Rows that are no longer
// pending are left alone and reported as domain.ErrNotFound.
func (s *PredictionStore) UpdateResult(ctx context.Context, id string, status domain.ResultStatus) error {
	if !domain.ResultPending.CanTransition(status) {
		return fmt.Errorf("postgres: prediction %s to %q: %w", id, status, domain.ErrInvalidTransition)
	}
	uid, err := parseID("prediction", id)
	if err != nil {
		return err
	}

	const query = `UPDATE predictions SET result_status = $2 WHERE id = $1 AND result_status = 'pending'`
	tag, err := s.pool.Exec(ctx, query, uid, string(status))
	if err != nil {
		return fmt.Errorf("postgres: update prediction %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("postgres: pending prediction %s: %w", id, domain.ErrNotFound)
	}
	return nil
}

// ListResolvedStatuses returns the status of every labelled prediction carrying
// modelName.
func (s *PredictionStore) ListResolvedStatuses(ctx context.Context, modelName string) ([]domain.ResultStatus, error) {
	const query = `SELECT result_status FROM predictions WHERE model_name = $1 AND result_status <> 'pending'`
	rows, err := s.pool.Query(ctx, query, modelName)
	if err != nil {
		return nil, fmt.Errorf("postgres: list statuses for %q: %w", modelName, err)
	}
	defer rows.Close()

	var out []domain.ResultStatus
	for rows.Next() {
		var st string
		if err := rows.Scan(&st); err != nil {
			return nil, fmt.Errorf("postgres: scan status: %w", err)
		}
		out = append(out, domain.ResultStatus(st))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres: list statuses rows: %w", err)
	}
	return out, nil
}

// ListByMatch returns every prediction for a match, newest first.
func (s *PredictionStore) ListByMatch(ctx context.Context, matchID string) ([]domain.Prediction, error) {
	uid, err := parseID("match", matchID)
	if err != nil {
		return nil, err
	}

	query := `SELECT ` + predictionColumns + ` FROM predictions p WHERE p.match_id = $1 ORDER BY p.created_at DESC`
	rows, err := s.pool.Query(ctx, query, uid)
	if err != nil {
		return nil, fmt.Errorf("postgres: list predictions for match %s: %w", matchID, err)
	}
	defer rows.Close()

	var out []domain.Prediction
	for rows.Next() {
		var r predictionRow
		if err := rows.Scan(r.dest()...); err != nil {
			return nil, fmt.Errorf("postgres: scan prediction: %w", err)
		}
		out = append(out, r.prediction())
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres: list predictions rows: %w", err)
	}
	return out, nil
}

type predictionRow struct {
	p      domain.Prediction
	winner *string
	status string
}

func (r *predictionRow) dest() []any {
	return []any{
		&r.p.ID, &r.p.MatchID, &r.winner, &r.p.HomeExpectedGoals, &r.p.AwayExpectedGoals,
		&r.p.ConfidenceScore, &r.p.ModelName, &r.p.CreatedAt, &r.status,
	}
}

func (r *predictionRow) prediction() domain.Prediction {
	p := r.p
	p.ResultStatus = domain.ResultStatus(r.status)
	if r.winner != nil {
		w := domain.Outcome(*r.winner)
		p.PredictedWinner = &w
	}
	return p
}

var _ domain.PredictionStore = (*PredictionStore)(nil)
