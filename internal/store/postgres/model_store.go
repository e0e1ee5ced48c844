package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Winmix713/match-insight-dash-13/internal/domain"
)

// ModelStore implements domain.ModelStore using PostgreSQL.
type ModelStore struct {
	pool *pgxpool.Pool
}

// NewModelStore creates a new ModelStore backed by the given connection pool.
func NewModelStore(pool *pgxpool.Pool) *ModelStore {
	return &ModelStore{pool: pool}
}

const modelColumns = `id::text, name, version, algorithm, parameters, trained_at, accuracy::float8,
	is_active, notes, created_at, updated_at`

// GetActive returns the active model or domain.ErrNoActiveModel.
func (s *ModelStore) GetActive(ctx context.Context) (domain.Model, error) {
	query := `SELECT ` + modelColumns + ` FROM models WHERE is_active ORDER BY updated_at DESC LIMIT 1`
	m, err := scanModel(s.pool.QueryRow(ctx, query))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Model{}, domain.ErrNoActiveModel
		}
		return domain.Model{}, fmt.Errorf("postgres: get active model: %w", err)
	}
	return m, nil
}

// GetByID returns the model with the given id.
func (s *ModelStore) GetByID(ctx context.Context, id string) (domain.Model, error) {
	uid, err := parseID("model", id)
	if err != nil {
		return domain.Model{}, err
	}
	query := `SELECT ` + modelColumns + ` FROM models WHERE id = $1`
	m, err := scanModel(s.pool.QueryRow(ctx, query, uid))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Model{}, fmt.Errorf("postgres: model %s: %w", id, domain.ErrNotFound)
		}
		return domain.Model{}, fmt.Errorf("postgres: get model %s: %w", id, err)
	}
	return m, nil
}

// ListByLabel returns models whose "{name} {version}" equals label.
func (s *ModelStore) ListByLabel(ctx context.Context, label string) ([]domain.Model, error) {
	query := `SELECT ` + modelColumns + ` FROM models WHERE name || ' ' || version = $1 ORDER BY created_at`
	rows, err := s.pool.Query(ctx, query, label)
	if err != nil {
		return nil, fmt.Errorf("postgres: list models by label %q: %w", label, err)
	}
	defer rows.Close()

	var out []domain.Model
	for rows.Next() {
		m, err := scanModel(rows)
		if err != nil {
			return nil, fmt.Errorf("postgres: scan model: %w", err)
		}
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres: list models rows: %w", err)
	}
	return out, nil
}

// UpdateAccuracy sets a model's accuracy percentage.
func (s *ModelStore) UpdateAccuracy(ctx context.Context, id string, accuracy float64) error {
	uid, err := parseID("model", id)
	if err != nil {
		return err
	}
	const query = `UPDATE models SET accuracy = $2, updated_at = NOW() WHERE id = $1`
	tag, err := s.pool.Exec(ctx, query, uid, accuracy)
	if err != nil {
		return fmt.Errorf("postgres: update accuracy of model %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("postgres: model %s: %w", id, domain.ErrNotFound)
	}
	return nil
}

func scanModel(row pgx.Row) (domain.Model, error) {
	var (
		m      domain.Model
		params []byte
	)
	err := row.Scan(
		&m.ID, &m.Name, &m.Version, &m.Algorithm, &params, &m.TrainedAt, &m.Accuracy,
		&m.IsActive, &m.Notes, &m.CreatedAt, &m.UpdatedAt,
	)
	if err != nil {
		return domain.Model{}, err
	}
	if len(params) > 0 {
		if err := json.Unmarshal(params, &m.Parameters); err != nil {
			return domain.Model{}, fmt.Errorf("unmarshal parameters of model %s: %w", m.ID, err)
		}
	}
	return m, nil
}

var _ domain.ModelStore = (*ModelStore)(nil)
