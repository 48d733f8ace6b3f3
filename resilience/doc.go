// Package resilience provides the retry loop used by the HTTP transport.
//
// Delays grow exponentially from a backoff factor expressed in seconds:
// the wait before retry n is BackoffFactor × 2^(n−1), capped at MaxBackoff.
//
//	cfg := resilience.RetryConfig{MaxRetries: 3, BackoffFactor: 0.1}
//	resp, err := resilience.Retry(ctx, cfg, func(attempt int) (*Response, error) {
//	    return send(ctx)
//	})
//
// Retry returns the result and error of the last attempt, so callers that
// treat some results as retryable (an HTTP 503, say) still get the final
// result back once retries are exhausted.
package resilience
