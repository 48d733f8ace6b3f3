package errors

import (
	"context"
	stderrors "errors"
	"fmt"
	"strings"
	"testing"
)

func TestAppError_New_Retryable(t *testing.T) {
	err := New(ErrCodeTimeout, "timed out")
	if !err.Retryable {
		t.Error("TIMEOUT should be retryable")
	}
	if New(ErrCodeDecodeFailed, "bad body").Retryable {
		t.Error("DECODE_FAILED should not be retryable")
	}
}

func TestAppError_Error_WithCause(t *testing.T) {
	err := ConnectionFailed("GET /x", fmt.Errorf("connection refused"))
	msg := err.Error()
	if !strings.Contains(msg, "CONNECTION_FAILED") {
		t.Errorf("expected code in message, got %q", msg)
	}
	if !strings.Contains(msg, "connection refused") {
		t.Errorf("expected cause in message, got %q", msg)
	}
}

func TestAppError_Unwrap(t *testing.T) {
	err := Canceled("GET /x", context.Canceled)
	if !stderrors.Is(err, context.Canceled) {
		t.Error("expected errors.Is to find context.Canceled")
	}
}

func TestMissingConfig(t *testing.T) {
	err := MissingConfig("API_BASE_URL")
	if err.Code != ErrCodeMissingConfig {
		t.Errorf("expected MISSING_CONFIGURATION, got %s", err.Code)
	}
	if err.Details["key"] != "API_BASE_URL" {
		t.Errorf("expected key detail, got %v", err.Details["key"])
	}
	if !IsConfiguration(err) {
		t.Error("expected IsConfiguration=true")
	}
	if err.Retryable {
		t.Error("configuration errors are not retryable")
	}
}

func TestDecodeFailed(t *testing.T) {
	err := DecodeFailed(200, []byte("{oops"), fmt.Errorf("unexpected EOF"))
	if !IsDecode(err) {
		t.Error("expected IsDecode=true")
	}
	if err.Details["status_code"] != 200 {
		t.Errorf("expected status_code=200, got %v", err.Details["status_code"])
	}
	if err.Details["body"] != "{oops" {
		t.Errorf("expected raw body detail, got %v", err.Details["body"])
	}
}

func TestCategoryPredicates(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Category
	}{
		{"missing config", MissingConfig("k"), CategoryConfiguration},
		{"invalid config", InvalidConfig("k", "bad"), CategoryConfiguration},
		{"timeout", Timeout("op", nil), CategoryTransport},
		{"connection", ConnectionFailed("op", nil), CategoryTransport},
		{"canceled", Canceled("op", nil), CategoryTransport},
		{"decode", DecodeFailed(200, nil, nil), CategoryDecode},
		{"validation", Validation("bad"), CategoryValidation},
		{"missing field", MissingField("name"), CategoryValidation},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wrapped := fmt.Errorf("wrapped: %w", tt.err)
			got := map[Category]bool{
				CategoryConfiguration: IsConfiguration(wrapped),
				CategoryTransport:     IsTransport(wrapped),
				CategoryDecode:        IsDecode(wrapped),
				CategoryValidation:    IsValidation(wrapped),
			}
			for c, ok := range got {
				if ok != (c == tt.want) {
					t.Errorf("category %s: got %v", c, ok)
				}
			}
		})
	}
}

func TestPredicates_PlainError(t *testing.T) {
	err := fmt.Errorf("plain")
	if IsAppError(err) || IsTransport(err) || IsRetryable(err) {
		t.Error("plain errors must not match AppError predicates")
	}
	if CategoryOf("SOMETHING_ELSE") != CategoryUnknown {
		t.Error("unknown codes must map to CategoryUnknown")
	}
}

func TestWithDetails(t *testing.T) {
	err := Validation("bad").WithDetails(map[string]any{"a": 1}).WithDetail("b", 2)
	if err.Details["a"] != 1 || err.Details["b"] != 2 {
		t.Errorf("unexpected details: %v", err.Details)
	}
}

func TestHasCode(t *testing.T) {
	err := fmt.Errorf("ctx: %w", Timeout("op", nil))
	if !HasCode(err, ErrCodeTimeout) {
		t.Error("expected HasCode TIMEOUT")
	}
	if HasCode(err, ErrCodeCanceled) {
		t.Error("unexpected HasCode CANCELED")
	}
}
