package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Winmix713/match-insight-dash-13/internal/domain"
)

// TeamStore implements domain.TeamStore using PostgreSQL.
type TeamStore struct {
	pool *pgxpool.Pool
}

// NewTeamStore creates a new TeamStore backed by the given connection pool.
func NewTeamStore(pool *pgxpool.Pool) *TeamStore {
	return &TeamStore{pool: pool}
}

// GetByID returns the team with the given id.
func (s *TeamStore) GetByID(ctx context.Context, id string) (domain.Team, error) {
	uid, err := parseID("team", id)
	if err != nil {
		return domain.Team{}, err
	}

	const query = `
		SELECT id::text, name, short_code, founded, logo_url, created_at, updated_at
		FROM teams WHERE id = $1`
	var t domain.Team
	err = s.pool.QueryRow(ctx, query, uid).Scan(
		&t.ID, &t.Name, &t.ShortCode, &t.Founded, &t.LogoURL, &t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Team{}, fmt.Errorf("postgres: team %s: %w", id, domain.ErrNotFound)
		}
		return domain.Team{}, fmt.Errorf("postgres: get team %s: %w", id, err)
	}
	return t, nil
}

var _ domain.TeamStore = (*TeamStore)(nil)
