package resilience

import (
	"context"
	"errors"
	"math"
	"time"
)

const defaultMaxBackoff = 120 * time.Second

// RetryConfig configures retry behavior.
type RetryConfig struct {
	// MaxRetries is the number of retries after the first attempt. Zero disables retry.
	MaxRetries int
	// BackoffFactor seeds the exponential delay, in seconds.
	BackoffFactor float64
	// MaxBackoff caps a single delay. Defaults to 120s.
	MaxBackoff time.Duration
	// RetryIf determines if an error should be retried.
	RetryIf func(error) bool
	// OnRetry is called before each retry with the 1-based retry number.
	OnRetry func(retry int, err error, backoff time.Duration)
}

// DefaultRetryConfig returns sensible defaults: three retries starting at 100ms.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxRetries:    3,
		BackoffFactor: 0.1,
		MaxBackoff:    defaultMaxBackoff,
		RetryIf:       DefaultRetryIf,
	}
}

// DefaultRetryIf retries all errors except context cancellation.
func DefaultRetryIf(err error) bool {
	return !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded)
}

// Retry executes fn until it succeeds, RetryIf rejects the error, or
// MaxRetries retries have been spent. fn receives the 1-based attempt number.
// The result and error of the last attempt are returned. If ctx is done
// before an attempt or while waiting, ctx.Err() is returned with the last
// result.
func Retry[T any](ctx context.Context, cfg RetryConfig, fn func(attempt int) (T, error)) (T, error) {
	var last T

	if cfg.MaxRetries < 0 {
		cfg.MaxRetries = 0
	}
	if cfg.RetryIf == nil {
		cfg.RetryIf = DefaultRetryIf
	}

	for attempt := 1; ; attempt++ {
		if err := ctx.Err(); err != nil {
			return last, err
		}

		result, err := fn(attempt)
		last = result
		if err == nil {
			return result, nil
		}
		if !cfg.RetryIf(err) || attempt > cfg.MaxRetries {
			return result, err
		}

		backoff := Backoff(cfg, attempt)
		if cfg.OnRetry != nil {
			cfg.OnRetry(attempt, err, backoff)
		}
		if err := wait(ctx, backoff); err != nil {
			return last, err
		}
	}
}

// Backoff returns the delay before the given 1-based retry:
// BackoffFactor × 2^(retry−1) seconds, capped at MaxBackoff.
func Backoff(cfg RetryConfig, retry int) time.Duration {
	if cfg.BackoffFactor <= 0 || retry < 1 {
		return 0
	}
	maxBackoff := cfg.MaxBackoff
	if maxBackoff <= 0 {
		maxBackoff = defaultMaxBackoff
	}

	seconds := cfg.BackoffFactor * math.Pow(2, float64(retry-1))
	if seconds >= maxBackoff.Seconds() {
		return maxBackoff
	}
	return time.Duration(seconds * float64(time.Second))
}

// wait sleeps for d, returning early with ctx.Err() if ctx is done.
func wait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
