package domain

import "time"

// Team is a participant in a match. The engine only reads teams; Name is used
// in user-facing messages.
type Team struct {
	ID        string
	Name      string
	ShortCode string
	Founded   *int
	LogoURL   *string
	CreatedAt time.Time
	UpdatedAt time.Time
}
