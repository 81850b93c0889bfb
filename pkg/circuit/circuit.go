// Package circuit wraps sony/gobreaker for the outbound HTTP calls made to the
// generation and embedding services.
//
// A breaker trips after a run of consecutive failures and rejects calls with
// ErrOpen until its timeout elapses, after which a limited number of trial
// calls decide whether it closes again. Calls are never retried here.
package circuit

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/sony/gobreaker"
)

// ErrOpen is returned when the breaker rejects a call.
var ErrOpen = errors.New("circuit breaker is open")

const (
	DefaultMaxFailures          = 5
	DefaultTimeout              = 30 * time.Second
	DefaultHalfOpenMaxSuccesses = 1
)

// Config holds breaker settings.
type Config struct {
	// MaxFailures is the number of consecutive failures that trips the breaker.
	// Zero disables the breaker entirely.
	MaxFailures uint32

	// Timeout is how long the breaker stays open before allowing trial calls.
	Timeout time.Duration

	// HalfOpenMaxSuccesses is the number of trial calls allowed while half-open.
	HalfOpenMaxSuccesses uint32
}

// DefaultConfig returns the breaker settings used when none are configured.
func DefaultConfig() Config {
	return Config{
		MaxFailures:          DefaultMaxFailures,
		Timeout:              DefaultTimeout,
		HalfOpenMaxSuccesses: DefaultHalfOpenMaxSuccesses,
	}
}

// Breaker guards calls to a single upstream.
type Breaker struct {
	cb *gobreaker.CircuitBreaker
}

// New creates a breaker. A nil logger discards state change logs.
func New(name string, cfg Config, logger *slog.Logger) *Breaker {
	if cfg.MaxFailures == 0 {
		return &Breaker{}
	}
	if cfg.HalfOpenMaxSuccesses == 0 {
		cfg.HalfOpenMaxSuccesses = DefaultHalfOpenMaxSuccesses
	}

	settings := gobreaker.Settings{
		Name:        name,
		MaxRequests: cfg.HalfOpenMaxSuccesses,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.MaxFailures
		},
		// A cancelled caller says nothing about the health of the upstream.
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			if logger != nil {
				logger.Warn("circuit breaker state changed",
					"breaker", name,
					"from", from.String(),
					"to", to.String(),
				)
			}
		},
	}

	return &Breaker{cb: gobreaker.NewCircuitBreaker(settings)}
}

// State returns "closed", "open", "half-open", or "disabled".
func (b *Breaker) State() string {
	if b == nil || b.cb == nil {
		return "disabled"
	}
	return b.cb.State().String()
}

// Execute runs fn through the breaker. Rejections are reported as ErrOpen.
func Execute[T any](ctx context.Context, b *Breaker, fn func(context.Context) (T, error)) (T, error) {
	var zero T

	if err := ctx.Err(); err != nil {
		return zero, err
	}

	if b == nil || b.cb == nil {
		return fn(ctx)
	}

	result, err := b.cb.Execute(func() (interface{}, error) {
		return fn(ctx)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return zero, ErrOpen
		}
		return zero, err
	}

	return result.(T), nil
}
