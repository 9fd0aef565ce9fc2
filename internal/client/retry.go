package client

import (
	"math/rand"
	"time"

	"vitai/internal/config"
)

// RetryConfig bounds the retry loop around planner API calls.
type RetryConfig struct {
	MaxRetries int           // Maximum number of retry attempts
	RetryDelay time.Duration // Initial delay between retries
	MaxDelay   time.Duration // Cap on the backoff delay
}

// DefaultRetryConfig returns sensible retry defaults.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxRetries: 3,
		RetryDelay: 1 * time.Second,
		MaxDelay:   30 * time.Second,
	}
}

// retryConfigFrom merges file-configured retry settings over the defaults.
// Zero values keep the default.
func retryConfigFrom(cfg config.RetryConfig) RetryConfig {
	out := DefaultRetryConfig()
	if cfg.MaxRetries > 0 {
		out.MaxRetries = cfg.MaxRetries
	}
	if cfg.RetryDelay > 0 {
		out.RetryDelay = cfg.RetryDelay
	}
	if cfg.MaxDelay > 0 {
		out.MaxDelay = cfg.MaxDelay
	}
	return out
}

// CalculateBackoff returns the delay before the given retry attempt:
// baseDelay doubled per attempt, capped at maxDelay, plus up to 25% jitter.
func CalculateBackoff(baseDelay time.Duration, attempt int, maxDelay time.Duration) time.Duration {
	delay := baseDelay * time.Duration(1<<uint(attempt))
	if delay > maxDelay {
		delay = maxDelay
	}

	jitter := time.Duration(rand.Int63n(int64(delay / 4)))
	return delay + jitter
}
