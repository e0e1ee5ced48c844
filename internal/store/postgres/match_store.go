package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Winmix713/match-insight-dash-13/internal/domain"
)

// MatchStore implements domain.MatchStore using PostgreSQL.
type MatchStore struct {
	pool *pgxpool.Pool
}

// NewMatchStore creates a new MatchStore backed by the given connection pool.
func NewMatchStore(pool *pgxpool.Pool) *MatchStore {
	return &MatchStore{pool: pool}
}

const matchColumns = `m.id::text, m.home_team_id::text, m.away_team_id::text, m.match_date,
	m.home_goals, m.away_goals, m.status, m.winner, m.season, m.created_at, m.updated_at`

// GetByID returns the match with the given id.
func (s *MatchStore) GetByID(ctx context.Context, id string) (domain.Match, error) {
	uid, err := parseID("match", id)
	if err != nil {
		return domain.Match{}, err
	}

	query := `SELECT ` + matchColumns + ` FROM matches m WHERE m.id = $1`
	m, err := scanMatch(s.pool.QueryRow(ctx, query, uid))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Match{}, fmt.Errorf("postgres: match %s: %w", id, domain.ErrNotFound)
		}
		return domain.Match{}, fmt.Errorf("postgres: get match %s: %w", id, err)
	}
	return m, nil
}

// ListFinishedWithPendingPredictions returns finished, fully scored matches
// with their pending predictions, ordered by match date then creation time.
func (s *MatchStore) ListFinishedWithPendingPredictions(ctx context.Context) ([]domain.MatchPredictions, error) {
	query := `
		SELECT ` + matchColumns + `, ` + predictionColumns + `
		FROM matches m
		JOIN predictions p ON p.match_id = m.id
		WHERE m.status = 'finished'
		  AND m.home_goals IS NOT NULL
		  AND m.away_goals IS NOT NULL
		  AND p.result_status = 'pending'
		ORDER BY m.match_date, m.id, p.created_at`

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("postgres: list finished matches: %w", err)
	}
	defer rows.Close()

	var out []domain.MatchPredictions
	for rows.Next() {
		var (
			mr matchRow
			pr predictionRow
		)
		if err := rows.Scan(append(mr.dest(), pr.dest()...)...); err != nil {
			return nil, fmt.Errorf("postgres: scan finished match: %w", err)
		}
		m, p := mr.match(), pr.prediction()

		if n := len(out); n > 0 && out[n-1].Match.ID == m.ID {
			out[n-1].Predictions = append(out[n-1].Predictions, p)
			continue
		}
		out = append(out, domain.MatchPredictions{Match: m, Predictions: []domain.Prediction{p}})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres: list finished matches rows: %w", err)
	}
	return out, nil
}

// ListFinished returns the most recent limit finished, scored matches in
// chronological order.
func (s *MatchStore) ListFinished(ctx context.Context, limit int) ([]domain.Match, error) {
	query := `
		SELECT * FROM (
			SELECT ` + matchColumns + `
			FROM matches m
			WHERE m.status = 'finished' AND m.home_goals IS NOT NULL AND m.away_goals IS NOT NULL
			ORDER BY m.match_date DESC
			LIMIT $1
		) recent ORDER BY match_date`

	rows, err := s.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("postgres: list finished: %w", err)
	}
	defer rows.Close()

	var out []domain.Match
	for rows.Next() {
		m, err := scanMatch(rows)
		if err != nil {
			return nil, fmt.Errorf("postgres: scan match: %w", err)
		}
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres: list finished rows: %w", err)
	}
	return out, nil
}

// matchRow receives a scanned match; enum columns land in plain strings.
type matchRow struct {
	m      domain.Match
	status string
	winner *string
}

func (r *matchRow) dest() []any {
	return []any{
		&r.m.ID, &r.m.HomeTeamID, &r.m.AwayTeamID, &r.m.MatchDate,
		&r.m.HomeGoals, &r.m.AwayGoals, &r.status, &r.winner, &r.m.Season, &r.m.CreatedAt, &r.m.UpdatedAt,
	}
}

func (r *matchRow) match() domain.Match {
	m := r.m
	m.Status = domain.MatchStatus(r.status)
	if r.winner != nil {
		w := domain.Outcome(*r.winner)
		m.Winner = &w
	}
	return m
}

func scanMatch(row pgx.Row) (domain.Match, error) {
	var r matchRow
	if err := row.Scan(r.dest()...); err != nil {
		return domain.Match{}, err
	}
	return r.match(), nil
}

var _ domain.MatchStore = (*MatchStore)(nil)
