package predictor

import (
	"sort"
	"strings"
	"sync"

	"github.com/Winmix713/match-insight-dash-13/internal/domain"
)

// Algorithm names matched against domain.Model.Algorithm.
const (
	AlgorithmBand = "band"
	AlgorithmElo  = "elo"
)

// Registry maps model algorithms to strength estimators. Models whose
// algorithm is not registered use the fallback. It is safe for concurrent use.
type Registry struct {
	mu         sync.RWMutex
	estimators map[string]StrengthEstimator
	fallback   StrengthEstimator
}

// NewRegistry returns a Registry that resolves unknown algorithms to fallback.
func NewRegistry(fallback StrengthEstimator) *Registry {
	return &Registry{
		estimators: make(map[string]StrengthEstimator),
		fallback:   fallback,
	}
}

// Register adds an estimator under algorithm, replacing any previous one.
func (r *Registry) Register(algorithm string, est StrengthEstimator) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.estimators[strings.ToLower(algorithm)] = est
}

// Resolve returns the estimator for the model's algorithm.
func (r *Registry) Resolve(model domain.Model) StrengthEstimator {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if est, ok := r.estimators[strings.ToLower(strings.TrimSpace(model.Algorithm))]; ok {
		return est
	}
	return r.fallback
}

// List returns registered algorithm names in sorted order.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.estimators))
	for n := range r.estimators {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
