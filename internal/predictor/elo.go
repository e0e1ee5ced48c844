package predictor

import (
	"context"
	"fmt"
	"math"

	"github.com/Winmix713/match-insight-dash-13/internal/domain"
)

const (
	eloInitial       = 1500.0
	eloDefaultK      = 20.0
	eloDefaultHomeAd = 60.0
)

// MatchHistory supplies finished matches for rating replay.
type MatchHistory interface {
	ListFinished(ctx context.Context, limit int) ([]domain.Match, error)
}

// EloEstimator rates teams by replaying finished results and maps the home
// win expectancy into the home and away bands, so the home side keeps its
// structural edge. Model parameters "k" and "home_advantage" override the
// defaults.
type EloEstimator struct {
	history MatchHistory
	limit   int
}

// NewEloEstimator returns an EloEstimator reading at most limit matches.
func NewEloEstimator(history MatchHistory, limit int) *EloEstimator {
	return &EloEstimator{history: history, limit: limit}
}

// Name returns the algorithm this estimator serves.
func (e *EloEstimator) Name() string { return AlgorithmElo }

// Estimate replays history and converts the rating gap into coefficients.
func (e *EloEstimator) Estimate(ctx context.Context, home, away domain.Team, model domain.Model) (Coefficients, error) {
	matches, err := e.history.ListFinished(ctx, e.limit)
	if err != nil {
		return Coefficients{}, fmt.Errorf("elo: load history: %w", err)
	}

	k := model.FloatParam("k", eloDefaultK)
	homeAdv := model.FloatParam("home_advantage", eloDefaultHomeAd)
	ratings := Ratings(matches, k, homeAdv)

	exp := ExpectedScore(rating(ratings, home.ID)+homeAdv, rating(ratings, away.ID))
	return Coefficients{
		Home: homeBandMin + bandWidth*exp,
		Away: awayBandMin + bandWidth*(1-exp),
	}, nil
}

// Ratings replays matches in order and returns the resulting Elo rating for
// every team seen. Matches without a final score are ignored.
func Ratings(matches []domain.Match, k, homeAdv float64) map[string]float64 {
	ratings := make(map[string]float64)
	for _, m := range matches {
		outcome, ok := m.Outcome()
		if !ok {
			continue
		}
		h := rating(ratings, m.HomeTeamID)
		a := rating(ratings, m.AwayTeamID)

		expHome := ExpectedScore(h+homeAdv, a)
		var scoreHome float64
		switch outcome {
		case domain.OutcomeHome:
			scoreHome = 1
		case domain.OutcomeDraw:
			scoreHome = 0.5
		}
		delta := k * (scoreHome - expHome)
		ratings[m.HomeTeamID] = h + delta
		ratings[m.AwayTeamID] = a - delta
	}
	return ratings
}

// ExpectedScore is the logistic win expectancy of a rating ra against rb.
func ExpectedScore(ra, rb float64) float64 {
	return 1.0 / (1.0 + math.Pow(10, (rb-ra)/400))
}

func rating(ratings map[string]float64, teamID string) float64 {
	if r, ok := ratings[teamID]; ok {
		return r
	}
	return eloInitial
}
