package predictor

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Winmix713/match-insight-dash-13/internal/domain"
)

type fakeHistory struct {
	matches []domain.Match
	err     error
}

func (f fakeHistory) ListFinished(context.Context, int) ([]domain.Match, error) {
	return f.matches, f.err
}

func finished(home, away string, hg, ag int) domain.Match {
	return domain.Match{HomeTeamID: home, AwayTeamID: away, Status: domain.MatchFinished, HomeGoals: &hg, AwayGoals: &ag}
}

func TestExpectedScore(t *testing.T) {
	assert.InDelta(t, 0.5, ExpectedScore(1500, 1500), 1e-9)
	assert.InDelta(t, 1.0/(1.0+0.1), ExpectedScore(1900, 1500), 1e-9)
}

func TestRatingsReplay(t *testing.T) {
	matches := []domain.Match{
		finished("a", "b", 3, 0),
		finished("b", "a", 0, 1),
		{HomeTeamID: "a", AwayTeamID: "c", Status: domain.MatchScheduled},
	}
	r := Ratings(matches, 20, 0)
	assert.Greater(t, r["a"], 1500.0)
	assert.Less(t, r["b"], 1500.0)
	assert.InDelta(t, 3000.0, r["a"]+r["b"], 1e-9, "zero-sum updates")
	_, seen := r["c"]
	assert.False(t, seen, "unscored matches are skipped")
}

func TestEloEstimatorBands(t *testing.T) {
	var matches []domain.Match
	for i := 0; i < 30; i++ {
		matches = append(matches, finished("strong", "weak", 4, 0))
	}
	est := NewEloEstimator(fakeHistory{matches: matches}, 100)
	model := domain.Model{Algorithm: AlgorithmElo, Parameters: map[string]any{"k": 32.0}}

	strongHome, err := est.Estimate(context.Background(), domain.Team{ID: "strong"}, domain.Team{ID: "weak"}, model)
	require.NoError(t, err)
	weakHome, err := est.Estimate(context.Background(), domain.Team{ID: "weak"}, domain.Team{ID: "strong"}, model)
	require.NoError(t, err)

	for _, c := range []Coefficients{strongHome, weakHome} {
		assert.True(t, c.Home >= 0.4 && c.Home <= 0.7, "home %v", c.Home)
		assert.True(t, c.Away >= 0.3 && c.Away <= 0.6, "away %v", c.Away)
	}
	assert.Greater(t, strongHome.Home, weakHome.Home)
	assert.Less(t, strongHome.Away, weakHome.Away)
}

func TestEloEstimatorHistoryError(t *testing.T) {
	est := NewEloEstimator(fakeHistory{err: errors.New("db down")}, 10)
	_, err := est.Estimate(context.Background(), teamA, teamB, *activeModel)
	require.ErrorContains(t, err, "db down")
}

func TestRegistryResolve(t *testing.T) {
	band := NewBandEstimator(1)
	elo := NewEloEstimator(fakeHistory{}, 10)
	reg := NewRegistry(band)
	reg.Register(AlgorithmElo, elo)

	assert.Same(t, elo, reg.Resolve(domain.Model{Algorithm: " ELO "}))
	assert.Same(t, band, reg.Resolve(domain.Model{Algorithm: "gradient_boosting"}))
	assert.Equal(t, []string{"elo"}, reg.List())
}
