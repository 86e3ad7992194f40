package insight

import (
	"context"
	"time"

	"github.com/okian/cohortinsights/pkg/logger"
)

// Option applies a configuration option to the Orchestrator.
type Option func(*Orchestrator)

// WithContextDelay sets the pause between the context lookup and generation.
func WithContextDelay(d time.Duration) Option {
	return func(o *Orchestrator) {
		if d >= 0 {
			o.contextDelay = d
		}
	}
}

// WithRetryPolicy sets the first backoff delay and the number of retries
// after HTTP 429. Each retry doubles the delay.
func WithRetryPolicy(base time.Duration, maxRetries int) Option {
	return func(o *Orchestrator) {
		if base > 0 {
			o.baseDelay = base
		}
		if maxRetries >= 0 {
			o.maxRetries = maxRetries
		}
	}
}

// WithMaxTokens sets the generation completion budget.
func WithMaxTokens(n int) Option {
	return func(o *Orchestrator) {
		if n > 0 {
			o.maxTokens = n
		}
	}
}

// WithSleep replaces the wait function; tests record durations instead of sleeping.
func WithSleep(sleep func(ctx context.Context, d time.Duration) error) Option {
	return func(o *Orchestrator) {
		if sleep != nil {
			o.sleep = sleep
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l logger.Logger) Option {
	return func(o *Orchestrator) {
		if l != nil {
			o.log = l
		}
	}
}
