package notify

import (
	"context"
	"log/slog"
	"time"

	"github.com/sony/gobreaker"
)

// BreakerSettings tunes the circuit breaker wrapped around each sender.
type BreakerSettings struct {
	// Timeout is how long the breaker stays open before probing again.
	Timeout time.Duration
	// MinRequests and FailureRatio decide when a closed breaker trips.
	MinRequests  uint32
	FailureRatio float64
}

// DefaultBreakerSettings trips after 3 requests with a 60% failure rate and
// probes again after one minute.
func DefaultBreakerSettings() BreakerSettings {
	return BreakerSettings{Timeout: time.Minute, MinRequests: 3, FailureRatio: 0.6}
}

// breakerSender guards a Sender with a gobreaker.CircuitBreaker. While the
// breaker is open Send fails fast with gobreaker.ErrOpenState.
type breakerSender struct {
	next    Sender
	breaker *gobreaker.CircuitBreaker
}

// WithBreaker wraps s in a circuit breaker.
func WithBreaker(s Sender, st BreakerSettings, logger *slog.Logger) Sender {
	settings := gobreaker.Settings{
		Name:        s.Name(),
		MaxRequests: 1,
		Timeout:     st.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < st.MinRequests {
				return false
			}
			return float64(counts.TotalFailures)/float64(counts.Requests) >= st.FailureRatio
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("notifier circuit breaker state changed",
				slog.String("sender", name),
				slog.String("from", from.String()),
				slog.String("to", to.String()),
			)
		},
	}
	return &breakerSender{next: s, breaker: gobreaker.NewCircuitBreaker(settings)}
}

func (b *breakerSender) Send(ctx context.Context, title, message string) error {
	_, err := b.breaker.Execute(func() (interface{}, error) {
		return nil, b.next.Send(ctx, title, message)
	})
	return err
}

func (b *breakerSender) Name() string {
	return b.next.Name()
}
