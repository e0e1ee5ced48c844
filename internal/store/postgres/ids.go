package postgres

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/Winmix713/match-insight-dash-13/internal/domain"
)

// parseID converts an external id to a UUID. A malformed id cannot match any
// row, so it is reported as not found.
func parseID(kind, id string) (uuid.UUID, error) {
	u, err := uuid.Parse(id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("postgres: %s %q: %w", kind, id, domain.ErrNotFound)
	}
	return u, nil
}
