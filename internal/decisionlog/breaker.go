package decisionlog

import (
	"context"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"

	"packaging-backend/internal/shared/telemetry"
)

// BreakerConfig tunes the circuit breaker around a remote sink.
type BreakerConfig struct {
	Name             string
	FailureThreshold uint32
	Timeout          time.Duration
	MaxRequests      uint32
}

// DefaultBreakerConfig trips after five consecutive failures and probes again
// after thirty seconds.
func DefaultBreakerConfig(name string) BreakerConfig {
	return BreakerConfig{
		Name:             name,
		FailureThreshold: 5,
		Timeout:          30 * time.Second,
		MaxRequests:      1,
	}
}

// Breaker stops calling a failing sink until the breaker half-opens.
type Breaker struct {
	next Sink
	cb   *gobreaker.CircuitBreaker[struct{}]
}

// NewBreaker wraps next.
func NewBreaker(next Sink, cfg BreakerConfig) *Breaker {
	if cfg.FailureThreshold == 0 {
		cfg.FailureThreshold = 5
	}
	settings := gobreaker.Settings{
		Name:        cfg.Name,
		MaxRequests: cfg.MaxRequests,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.FailureThreshold
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			telemetry.Warn("decisionlog.breaker_state", map[string]any{
				"sink": name,
				"from": from.String(),
				"to":   to.String(),
			})
		},
	}
	return &Breaker{
		next: next,
		cb:   gobreaker.NewCircuitBreaker[struct{}](settings),
	}
}

// Write forwards to the wrapped sink unless the breaker is open, in which
// case it returns gobreaker.ErrOpenState.
func (b *Breaker) Write(ctx context.Context, rec Record) error {
	_, err := b.cb.Execute(func() (struct{}, error) {
		return struct{}{}, b.next.Write(ctx, rec)
	})
	return err
}

// State reports the breaker state for diagnostics.
func (b *Breaker) State() string {
	return b.cb.State().String()
}

var _ Sink = (*Breaker)(nil)
