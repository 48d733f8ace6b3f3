package errors

import (
	stderrors "errors"
	"fmt"
)

// AppError is the unified todokit error type.
type AppError struct {
	// Code is a machine-readable error code.
	Code ErrorCode `json:"code"`
	// Message is a human-readable error message.
	Message string `json:"message"`
	// Retryable indicates if the operation can be retried.
	Retryable bool `json:"retryable"`
	// Details contains additional context for the error.
	Details map[string]any `json:"details,omitempty"`
	// Cause is the underlying error that caused this error.
	Cause error `json:"-"`
}

// Error returns the string representation of the error.
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (cause: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause of the error.
func (e *AppError) Unwrap() error { return e.Cause }

// Category returns the taxonomy category of the error.
func (e *AppError) Category() Category { return CategoryOf(e.Code) }

// WithCause sets the underlying cause of the error and returns the receiver.
func (e *AppError) WithCause(cause error) *AppError {
	e.Cause = cause
	return e
}

// WithDetails merges the provided details into the error and returns the receiver.
func (e *AppError) WithDetails(details map[string]any) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	for k, v := range details {
		e.Details[k] = v
	}
	return e
}

// WithDetail sets a single detail key-value pair and returns the receiver.
func (e *AppError) WithDetail(key string, value any) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

// New creates a new AppError with automatic retryable detection.
func New(code ErrorCode, message string) *AppError {
	return &AppError{
		Code:      code,
		Message:   message,
		Retryable: IsRetryableCode(code),
	}
}

// --- Configuration ---

// MissingConfig creates an error for a required configuration value that is absent.
func MissingConfig(key string) *AppError {
	return &AppError{
		Code: ErrCodeMissingConfig, Message: fmt.Sprintf("'%s' configuration value is missing", key),
		Details: map[string]any{"key": key},
	}
}

// InvalidConfig creates an error for a configuration value that cannot be used.
func InvalidConfig(key, reason string) *AppError {
	return &AppError{
		Code: ErrCodeInvalidConfig, Message: fmt.Sprintf("'%s' is invalid: %s", key, reason),
		Details: map[string]any{"key": key},
	}
}

// --- Transport ---

// Timeout creates an error for a request that timed out.
func Timeout(operation string, cause error) *AppError {
	return &AppError{
		Code: ErrCodeTimeout, Message: fmt.Sprintf("%s timed out", operation),
		Retryable: true, Cause: cause,
		Details: map[string]any{"operation": operation},
	}
}

// ConnectionFailed creates an error for a connection-level failure.
func ConnectionFailed(operation string, cause error) *AppError {
	return &AppError{
		Code: ErrCodeConnectionFailed, Message: fmt.Sprintf("%s failed to connect", operation),
		Retryable: true, Cause: cause,
		Details: map[string]any{"operation": operation},
	}
}

// Canceled creates an error for a request abandoned by its caller.
func Canceled(operation string, cause error) *AppError {
	return &AppError{
		Code: ErrCodeCanceled, Message: fmt.Sprintf("%s was canceled", operation),
		Cause:   cause,
		Details: map[string]any{"operation": operation},
	}
}

// --- Decode ---

// DecodeFailed creates an error for a success response whose body could not be decoded.
func DecodeFailed(statusCode int, body []byte, cause error) *AppError {
	return &AppError{
		Code: ErrCodeDecodeFailed, Message: fmt.Sprintf("cannot decode HTTP %d response body", statusCode),
		Cause:   cause,
		Details: map[string]any{"status_code": statusCode, "body": string(body)},
	}
}

// --- Validation ---

// Validation creates a new AppError for validation errors.
func Validation(message string) *AppError {
	return &AppError{Code: ErrCodeInvalidInput, Message: message}
}

// MissingField creates a new AppError for a missing required field.
func MissingField(field string) *AppError {
	return &AppError{
		Code: ErrCodeMissingField, Message: fmt.Sprintf("Missing required field: %s", field),
		Details: map[string]any{"field": field},
	}
}

// --- Inspection ---

// IsAppError checks if an error is an AppError.
func IsAppError(err error) bool {
	var appErr *AppError
	return stderrors.As(err, &appErr)
}

// AsAppError converts an error to an AppError if possible.
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// HasCode reports whether err is an AppError with the given code.
func HasCode(err error, code ErrorCode) bool {
	appErr, ok := AsAppError(err)
	return ok && appErr.Code == code
}

func isCategory(err error, c Category) bool {
	appErr, ok := AsAppError(err)
	return ok && appErr.Category() == c
}

// IsConfiguration reports whether err is a configuration error.
func IsConfiguration(err error) bool { return isCategory(err, CategoryConfiguration) }

// IsTransport reports whether err is a transport error.
func IsTransport(err error) bool { return isCategory(err, CategoryTransport) }

// IsDecode reports whether err is a decode error.
func IsDecode(err error) bool { return isCategory(err, CategoryDecode) }

// IsValidation reports whether err is a validation error.
func IsValidation(err error) bool { return isCategory(err, CategoryValidation) }

// IsRetryable reports whether err is an AppError marked retryable.
func IsRetryable(err error) bool {
	appErr, ok := AsAppError(err)
	return ok && appErr.Retryable
}
