// Package retry implements a bounded retry policy with a fixed delay
// between attempts. Remote provider calls that fail transiently are
// retried up to the attempt budget; the last error is returned once the
// budget is exhausted.
package retry

import (
	"context"
	"time"

	"github.com/custodia-labs/paperchat/internal/logger"
)

// Default budget for provider calls: two attempts, two seconds apart.
const (
	DefaultMaxAttempts = 2
	DefaultDelay       = 2 * time.Second
)

// Policy bounds how often and how quickly an operation is retried.
type Policy struct {
	// MaxAttempts is the total number of attempts, including the first.
	MaxAttempts int

	// Delay is the fixed pause between attempts.
	Delay time.Duration
}

// DefaultPolicy returns the default provider-call policy.
func DefaultPolicy() Policy {
	return Policy{MaxAttempts: DefaultMaxAttempts, Delay: DefaultDelay}
}

// Do runs fn until it succeeds or the attempt budget is exhausted.
// Between attempts it sleeps for the configured delay, aborting early
// if the context is cancelled. The name is used for retry logging only.
func (p Policy) Do(ctx context.Context, name string, fn func(ctx context.Context) error) error {
	attempts := p.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		lastErr = fn(ctx)
		if lastErr == nil {
			return nil
		}

		if attempt < attempts {
			logger.Warn("%s attempt %d/%d failed: %v (retrying in %s)", name, attempt, attempts, lastErr, p.Delay)
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(p.Delay):
			}
		}
	}

	return lastErr
}
