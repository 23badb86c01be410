package llm

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sony/gobreaker"
	"go.uber.org/zap"

	"museum-backend/application/ports"
)

// BreakerConfig holds configuration for the completion circuit breaker
type BreakerConfig struct {
	Name             string
	MaxRequests      uint32
	Interval         time.Duration
	Timeout          time.Duration
	FailureThreshold float64
	MinRequests      uint32
}

// DefaultBreakerConfig returns a default configuration for the completion circuit breaker
func DefaultBreakerConfig(name string) BreakerConfig {
	return BreakerConfig{
		Name:             name,
		MaxRequests:      2,
		Interval:         60 * time.Second,
		Timeout:          30 * time.Second,
		FailureThreshold: 0.6,
		MinRequests:      5,
	}
}

// BreakerCompleter stops calling the model provider while it keeps failing.
// An open breaker surfaces as an ordinary transport error to the classifier.
type BreakerCompleter struct {
	next ports.ChatCompleter
	cb   *gobreaker.CircuitBreaker
}

// NewBreakerCompleter wraps a completer in a circuit breaker
func NewBreakerCompleter(next ports.ChatCompleter, cfg BreakerConfig, logger *zap.Logger) *BreakerCompleter {
	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        cfg.Name,
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < cfg.MinRequests {
				return false
			}
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return failureRatio >= cfg.FailureThreshold
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			logger.Warn("Circuit breaker state changed",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
		},
		IsSuccessful: func(err error) bool {
			// A caller giving up is not a provider failure
			return err == nil || errors.Is(err, context.Canceled)
		},
	})

	return &BreakerCompleter{next: next, cb: cb}
}

// Complete implements ports.ChatCompleter
func (b *BreakerCompleter) Complete(ctx context.Context, prompt string) (string, error) {
	out, err := b.cb.Execute(func() (interface{}, error) {
		return b.next.Complete(ctx, prompt)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return "", fmt.Errorf("model provider unavailable: %w", err)
		}
		return "", err
	}
	return out.(string), nil
}

// State reports the breaker state for readiness checks
func (b *BreakerCompleter) State() gobreaker.State {
	return b.cb.State()
}
