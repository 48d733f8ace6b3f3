package resilience

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestRetry_SucceedsOnFirstAttempt(t *testing.T) {
	callCount := 0

	result, err := Retry(context.Background(), DefaultRetryConfig(), func(int) (string, error) {
		callCount++
		return "success", nil
	})

	if err != nil {
		t.Errorf("expected no error, got %v", err)
	}
	if result != "success" {
		t.Errorf("expected 'success', got %s", result)
	}
	if callCount != 1 {
		t.Errorf("expected 1 call, got %d", callCount)
	}
}

func TestRetry_SucceedsAfterRetry(t *testing.T) {
	cfg := RetryConfig{MaxRetries: 3}
	var attempts []int

	result, err := Retry(context.Background(), cfg, func(attempt int) (string, error) {
		attempts = append(attempts, attempt)
		if attempt < 3 {
			return "", errors.New("temporary error")
		}
		return "success", nil
	})

	if err != nil {
		t.Errorf("expected no error, got %v", err)
	}
	if result != "success" {
		t.Errorf("expected 'success', got %s", result)
	}
	if len(attempts) != 3 || attempts[0] != 1 || attempts[2] != 3 {
		t.Errorf("expected attempts [1 2 3], got %v", attempts)
	}
}

func TestRetry_ExhaustedReturnsLastResultAndError(t *testing.T) {
	cfg := RetryConfig{MaxRetries: 2}
	testErr := errors.New("persistent error")
	callCount := 0

	result, err := Retry(context.Background(), cfg, func(attempt int) (int, error) {
		callCount++
		return attempt * 10, testErr
	})

	if !errors.Is(err, testErr) {
		t.Errorf("expected testErr, got %v", err)
	}
	if result != 30 {
		t.Errorf("expected last result 30, got %d", result)
	}
	if callCount != 3 {
		t.Errorf("expected 1 attempt + 2 retries, got %d", callCount)
	}
}

func TestRetry_ZeroRetries(t *testing.T) {
	callCount := 0
	_, err := Retry(context.Background(), RetryConfig{}, func(int) (string, error) {
		callCount++
		return "", errors.New("fail")
	})
	if err == nil {
		t.Error("expected error")
	}
	if callCount != 1 {
		t.Errorf("expected a single attempt, got %d", callCount)
	}
}

func TestRetry_RetryIfStopsEarly(t *testing.T) {
	permanent := errors.New("permanent")
	cfg := RetryConfig{
		MaxRetries: 5,
		RetryIf:    func(err error) bool { return !errors.Is(err, permanent) },
	}
	callCount := 0

	_, err := Retry(context.Background(), cfg, func(int) (string, error) {
		callCount++
		return "", permanent
	})

	if !errors.Is(err, permanent) {
		t.Errorf("expected permanent error, got %v", err)
	}
	if callCount != 1 {
		t.Errorf("expected 1 call, got %d", callCount)
	}
}

func TestRetry_OnRetryCallback(t *testing.T) {
	var retries []int
	var delays []time.Duration
	cfg := RetryConfig{
		MaxRetries:    2,
		BackoffFactor: 0.001,
		OnRetry: func(retry int, _ error, backoff time.Duration) {
			retries = append(retries, retry)
			delays = append(delays, backoff)
		},
	}

	_, _ = Retry(context.Background(), cfg, func(int) (string, error) {
		return "", errors.New("fail")
	})

	if len(retries) != 2 || retries[0] != 1 || retries[1] != 2 {
		t.Fatalf("expected retries [1 2], got %v", retries)
	}
	if delays[0] != time.Millisecond || delays[1] != 2*time.Millisecond {
		t.Errorf("expected delays [1ms 2ms], got %v", delays)
	}
}

func TestRetry_RespectsContextDuringWait(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cfg := RetryConfig{MaxRetries: 5, BackoffFactor: 10}
	callCount := 0

	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()

	start := time.Now()
	_, err := Retry(ctx, cfg, func(int) (string, error) {
		callCount++
		return "", errors.New("fail")
	})

	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
	if callCount != 1 {
		t.Errorf("expected 1 call before cancellation, got %d", callCount)
	}
	if time.Since(start) > 5*time.Second {
		t.Error("cancellation did not interrupt the backoff wait")
	}
}

func TestRetry_CanceledBeforeFirstAttempt(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	called := false
	_, err := Retry(ctx, DefaultRetryConfig(), func(int) (string, error) {
		called = true
		return "", nil
	})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
	if called {
		t.Error("fn must not run with a done context")
	}
}

func TestDefaultRetryIf(t *testing.T) {
	if DefaultRetryIf(context.Canceled) || DefaultRetryIf(context.DeadlineExceeded) {
		t.Error("context errors must not be retried")
	}
	if !DefaultRetryIf(errors.New("x")) {
		t.Error("ordinary errors should be retried")
	}
}

func TestBackoff(t *testing.T) {
	tests := []struct {
		name   string
		cfg    RetryConfig
		retry  int
		expect time.Duration
	}{
		{"first retry", RetryConfig{BackoffFactor: 0.1}, 1, 100 * time.Millisecond},
		{"second retry", RetryConfig{BackoffFactor: 0.1}, 2, 200 * time.Millisecond},
		{"third retry", RetryConfig{BackoffFactor: 0.1}, 3, 400 * time.Millisecond},
		{"zero factor", RetryConfig{}, 3, 0},
		{"capped", RetryConfig{BackoffFactor: 1, MaxBackoff: 3 * time.Second}, 5, 3 * time.Second},
		{"default cap", RetryConfig{BackoffFactor: 1}, 20, 120 * time.Second},
		{"retry zero", RetryConfig{BackoffFactor: 1}, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Backoff(tt.cfg, tt.retry); got != tt.expect {
				t.Errorf("Backoff() = %v, want %v", got, tt.expect)
			}
		})
	}
}
