package domain

import "time"

// Model is a registered prediction model. At most one model is active at a
// time; the active model is the one generation uses.
type Model struct {
	ID         string
	Name       string
	Version    string
	Algorithm  string
	Parameters map[string]any
	TrainedAt  *time.Time
	Accuracy   *float64 // percentage in [0, 100]
	IsActive   bool
	Notes      *string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Label is the "{name} {version}" string stamped onto each prediction as its
// model_name snapshot.
func (m Model) Label() string {
	return m.Name + " " + m.Version
}

// FloatParam returns a numeric parameter, or def when it is missing or not a
// number.
func (m Model) FloatParam(key string, def float64) float64 {
	v, ok := m.Parameters[key]
	if !ok {
		return def
	}
	switch n := v.(type) {
	case float64:
		return n
	case float32:
		return float64(n)
	case int:
		return float64(n)
	case int64:
		return float64(n)
	}
	return def
}

// ModelAccuracy is the outcome of one accuracy recomputation.
type ModelAccuracy struct {
	ModelID   string
	ModelName string
	Accuracy  float64
	Correct   int
	Total     int
}
