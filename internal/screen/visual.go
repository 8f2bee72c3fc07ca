package screen

import (
	"context"
	"time"

	"github.com/sony/gobreaker/v2"
)

// VisualClassifier scores how likely a rendered screenshot contains an
// accept control. Implementations are swappable; the matcher only uses
// the returned confidence.
type VisualClassifier interface {
	ClassifyAcceptControl(ctx context.Context, screenshot []byte) (confidence float64, err error)
}

// breakerVisual wraps a VisualClassifier in a circuit breaker so a
// misbehaving inference backend is shed instead of retried on every
// screen event.
type breakerVisual struct {
	inner   VisualClassifier
	breaker *gobreaker.CircuitBreaker[float64]
}

func newBreakerVisual(inner VisualClassifier) *breakerVisual {
	settings := gobreaker.Settings{
		Name:    "visual-classifier",
		Timeout: 30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 3
		},
	}
	return &breakerVisual{
		inner:   inner,
		breaker: gobreaker.NewCircuitBreaker[float64](settings),
	}
}

func (b *breakerVisual) ClassifyAcceptControl(ctx context.Context, screenshot []byte) (float64, error) {
	return b.breaker.Execute(func() (float64, error) {
		return b.inner.ClassifyAcceptControl(ctx, screenshot)
	})
}
