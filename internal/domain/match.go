package domain

import (
	"fmt"
	"time"
)

// MatchStatus is the lifecycle state of a match. Transitions are driven
// outside the engine.
type MatchStatus string

const (
	MatchScheduled MatchStatus = "scheduled"
	MatchLive      MatchStatus = "live"
	MatchFinished  MatchStatus = "finished"
	MatchPostponed MatchStatus = "postponed"
	MatchCancelled MatchStatus = "cancelled"
)

// Outcome is the result of a match from the home side's point of view.
type Outcome string

const (
	OutcomeHome Outcome = "home"
	OutcomeAway Outcome = "away"
	OutcomeDraw Outcome = "draw"
)

// Valid reports whether o is one of the three known outcomes.
func (o Outcome) Valid() bool {
	switch o {
	case OutcomeHome, OutcomeAway, OutcomeDraw:
		return true
	}
	return false
}

// OutcomeFromGoals derives the outcome of a final score.
func OutcomeFromGoals(homeGoals, awayGoals int) Outcome {
	switch {
	case homeGoals > awayGoals:
		return OutcomeHome
	case awayGoals > homeGoals:
		return OutcomeAway
	default:
		return OutcomeDraw
	}
}

// Match is a scheduled or completed fixture between two teams.
type Match struct {
	ID         string
	HomeTeamID string
	AwayTeamID string
	MatchDate  time.Time
	HomeGoals  *int
	AwayGoals  *int
	Status     MatchStatus
	Winner     *Outcome
	Season     string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Outcome returns the actual result of the match. ok is false unless the match
// is finished and both scores are recorded.
func (m Match) Outcome() (Outcome, bool) {
	if m.Status != MatchFinished || m.HomeGoals == nil || m.AwayGoals == nil {
		return "", false
	}
	return OutcomeFromGoals(*m.HomeGoals, *m.AwayGoals), true
}

// Validate checks the structural invariants of a match row.
func (m Match) Validate() error {
	if m.HomeTeamID == "" || m.AwayTeamID == "" {
		return fmt.Errorf("%w: match %s is missing a team", ErrInvalidInput, m.ID)
	}
	if m.HomeTeamID == m.AwayTeamID {
		return fmt.Errorf("%w: match %s has the same home and away team", ErrInvalidInput, m.ID)
	}
	hasGoals := m.HomeGoals != nil || m.AwayGoals != nil
	if hasGoals && m.Status != MatchFinished {
		return fmt.Errorf("%w: match %s has goals while %s", ErrInvalidInput, m.ID, m.Status)
	}
	if m.Winner != nil {
		actual, ok := m.Outcome()
		if ok && actual != *m.Winner {
			return fmt.Errorf("%w: match %s winner %s disagrees with score", ErrInvalidInput, m.ID, *m.Winner)
		}
	}
	return nil
}
