package predictor

import (
	"context"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/Winmix713/match-insight-dash-13/internal/domain"
)

// Strength bands. Home draws from [0.4, 0.7), away from [0.3, 0.6).
const (
	homeBandMin = 0.4
	awayBandMin = 0.3
	bandWidth   = 0.3
)

// BandEstimator draws coefficients uniformly from fixed bands that favour the
// home side. It ignores team identity.
type BandEstimator struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewBandEstimator returns a BandEstimator. A zero seed seeds from the clock.
func NewBandEstimator(seed int64) *BandEstimator {
	s := uint64(seed)
	if seed == 0 {
		s = uint64(time.Now().UnixNano())
	}
	return &BandEstimator{rng: rand.New(rand.NewPCG(s, s^0x9e3779b97f4a7c15))}
}

// Name returns the algorithm this estimator serves.
func (b *BandEstimator) Name() string { return AlgorithmBand }

// Estimate returns random coefficients inside the home and away bands.
func (b *BandEstimator) Estimate(_ context.Context, _, _ domain.Team, _ domain.Model) (Coefficients, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return Coefficients{
		Home: b.rng.Float64()*bandWidth + homeBandMin,
		Away: b.rng.Float64()*bandWidth + awayBandMin,
	}, nil
}
