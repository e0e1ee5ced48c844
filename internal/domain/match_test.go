package domain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(v int) *int { return &v }

func TestOutcomeFromGoals(t *testing.T) {
	tests := []struct {
		home, away int
		want       Outcome
	}{
		{2, 1, OutcomeHome},
		{0, 3, OutcomeAway},
		{1, 1, OutcomeDraw},
		{0, 0, OutcomeDraw},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, OutcomeFromGoals(tt.home, tt.away), "%d-%d", tt.home, tt.away)
	}
}

func TestMatchOutcomeRequiresFinishedScore(t *testing.T) {
	m := Match{ID: "m1", HomeTeamID: "a", AwayTeamID: "b", Status: MatchFinished, HomeGoals: intPtr(2)}
	_, ok := m.Outcome()
	assert.False(t, ok, "missing away goals")

	m.AwayGoals = intPtr(2)
	got, ok := m.Outcome()
	require.True(t, ok)
	assert.Equal(t, OutcomeDraw, got)

	m.Status = MatchLive
	_, ok = m.Outcome()
	assert.False(t, ok, "live matches have no outcome")
}

func TestMatchValidate(t *testing.T) {
	home := OutcomeHome
	tests := []struct {
		name    string
		match   Match
		wantErr bool
	}{
		{"scheduled", Match{ID: "1", HomeTeamID: "a", AwayTeamID: "b", Status: MatchScheduled}, false},
		{"same team", Match{ID: "2", HomeTeamID: "a", AwayTeamID: "a", Status: MatchScheduled}, true},
		{"goals before kickoff", Match{ID: "3", HomeTeamID: "a", AwayTeamID: "b", Status: MatchScheduled, HomeGoals: intPtr(1)}, true},
		{"goals while live", Match{ID: "6", HomeTeamID: "a", AwayTeamID: "b", Status: MatchLive, HomeGoals: intPtr(1), AwayGoals: intPtr(0)}, true},
		{"winner agrees", Match{ID: "4", HomeTeamID: "a", AwayTeamID: "b", Status: MatchFinished, HomeGoals: intPtr(1), AwayGoals: intPtr(0), Winner: &home}, false},
		{"winner disagrees", Match{ID: "5", HomeTeamID: "a", AwayTeamID: "b", Status: MatchFinished, HomeGoals: intPtr(0), AwayGoals: intPtr(0), Winner: &home}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.match.Validate()
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, ErrInvalidInput))
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestResultStatusTransitions(t *testing.T) {
	assert.True(t, ResultPending.CanTransition(ResultCorrect))
	assert.True(t, ResultPending.CanTransition(ResultWrong))
	assert.False(t, ResultPending.CanTransition(ResultPending))
	assert.False(t, ResultCorrect.CanTransition(ResultWrong))
	assert.False(t, ResultWrong.CanTransition(ResultCorrect))
}

func TestModelLabelAndParams(t *testing.T) {
	m := Model{Name: "Baseline", Version: "v1.2", Parameters: map[string]any{"k": 24.0, "home_advantage": 50, "bad": "x"}}
	assert.Equal(t, "Baseline v1.2", m.Label())
	assert.Equal(t, 24.0, m.FloatParam("k", 20))
	assert.Equal(t, 50.0, m.FloatParam("home_advantage", 60))
	assert.Equal(t, 7.0, m.FloatParam("bad", 7))
	assert.Equal(t, 7.0, m.FloatParam("missing", 7))
}

func TestRowErrorUnwrap(t *testing.T) {
	err := RowError{PredictionID: "p", MatchID: "m", Err: ErrPersistence}
	assert.ErrorIs(t, err, ErrPersistence)
	assert.Contains(t, err.Error(), "prediction p (match m)")
}
