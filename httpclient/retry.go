package httpclient

import (
	"fmt"
	"net/http"
	"time"

	"github.com/kbukum/todokit/errors"
	"github.com/kbukum/todokit/resilience"
)

// RetryPolicy decides which attempts are repeated and how long to wait.
type RetryPolicy struct {
	// MaxRetries is the number of retries after the first attempt.
	MaxRetries int `yaml:"max_retries" mapstructure:"max_retries"`
	// BackoffFactor is the base delay in seconds; retry n waits
	// BackoffFactor × 2^(n−1) seconds.
	BackoffFactor float64 `yaml:"backoff_factor" mapstructure:"backoff_factor"`
	// RetryableStatusCodes are the response statuses that trigger a retry.
	RetryableStatusCodes []int `yaml:"retryable_status_codes" mapstructure:"retryable_status_codes"`
	// MaxBackoff caps a single delay. Zero means 120s.
	MaxBackoff time.Duration `yaml:"max_backoff" mapstructure:"max_backoff"`
}

// DefaultRetryPolicy returns three retries with a 0.1s backoff factor on
// 429, 500, 502, 503 and 504.
func DefaultRetryPolicy() *RetryPolicy {
	base := resilience.DefaultRetryConfig()
	return &RetryPolicy{
		MaxRetries:    base.MaxRetries,
		BackoffFactor: base.BackoffFactor,
		RetryableStatusCodes: []int{
			http.StatusTooManyRequests,
			http.StatusInternalServerError,
			http.StatusBadGateway,
			http.StatusServiceUnavailable,
			http.StatusGatewayTimeout,
		},
	}
}

// NoRetry returns a policy that makes exactly one attempt.
func NoRetry() *RetryPolicy {
	return &RetryPolicy{}
}

// Validate checks the policy bounds.
func (p *RetryPolicy) Validate() error {
	if p.MaxRetries < 0 {
		return errors.InvalidConfig("retry.max_retries", "must not be negative")
	}
	if p.BackoffFactor < 0 {
		return errors.InvalidConfig("retry.backoff_factor", "must not be negative")
	}
	if p.MaxBackoff < 0 {
		return errors.InvalidConfig("retry.max_backoff", "must not be negative")
	}
	for _, code := range p.RetryableStatusCodes {
		if code < 100 || code > 599 {
			return errors.InvalidConfig("retry.retryable_status_codes", fmt.Sprintf("%d is not an HTTP status", code))
		}
	}
	return nil
}

// Backoff returns the delay before the given 1-based retry.
func (p *RetryPolicy) Backoff(retry int) time.Duration {
	return resilience.Backoff(p.resilienceConfig(), retry)
}

func (p *RetryPolicy) statusSet() map[int]struct{} {
	set := make(map[int]struct{}, len(p.RetryableStatusCodes))
	for _, code := range p.RetryableStatusCodes {
		set[code] = struct{}{}
	}
	return set
}

func (p *RetryPolicy) resilienceConfig() resilience.RetryConfig {
	cfg := resilience.DefaultRetryConfig()
	cfg.MaxRetries = p.MaxRetries
	cfg.BackoffFactor = p.BackoffFactor
	if p.MaxBackoff > 0 {
		cfg.MaxBackoff = p.MaxBackoff
	}
	cfg.RetryIf = shouldRetry
	return cfg
}

// shouldRetry accepts retryable statuses and transient transport failures.
func shouldRetry(err error) bool {
	if _, ok := err.(*statusError); ok {
		return true
	}
	return errors.IsRetryable(err)
}
