package errors

// ErrorCode represents a machine-readable error code.
type ErrorCode string

// Configuration errors (fatal, raised before any network call)
const (
	// ErrCodeMissingConfig indicates a required configuration value is absent.
	ErrCodeMissingConfig ErrorCode = "MISSING_CONFIGURATION"
	// ErrCodeInvalidConfig indicates a configuration value is malformed.
	ErrCodeInvalidConfig ErrorCode = "INVALID_CONFIGURATION"
)

// Transport errors (retryable)
const (
	// ErrCodeTimeout indicates the request timed out.
	ErrCodeTimeout ErrorCode = "TIMEOUT"
	// ErrCodeConnectionFailed indicates a connection-level failure (refused, DNS, reset).
	ErrCodeConnectionFailed ErrorCode = "CONNECTION_FAILED"
	// ErrCodeCanceled indicates the caller abandoned the request.
	ErrCodeCanceled ErrorCode = "CANCELED"
)

// Decode errors
const (
	// ErrCodeDecodeFailed indicates a successful response whose body does not
	// match the expected shape.
	ErrCodeDecodeFailed ErrorCode = "DECODE_FAILED"
)

// Validation errors
const (
	// ErrCodeInvalidInput indicates the input is invalid.
	ErrCodeInvalidInput ErrorCode = "INVALID_INPUT"
	// ErrCodeMissingField indicates a required field is missing.
	ErrCodeMissingField ErrorCode = "MISSING_FIELD"
)

// Category groups error codes into the taxonomy callers branch on.
type Category string

const (
	CategoryConfiguration Category = "configuration"
	CategoryTransport     Category = "transport"
	CategoryDecode        Category = "decode"
	CategoryValidation    Category = "validation"
	CategoryUnknown       Category = "unknown"
)

var categories = map[ErrorCode]Category{
	ErrCodeMissingConfig:    CategoryConfiguration,
	ErrCodeInvalidConfig:    CategoryConfiguration,
	ErrCodeTimeout:          CategoryTransport,
	ErrCodeConnectionFailed: CategoryTransport,
	ErrCodeCanceled:         CategoryTransport,
	ErrCodeDecodeFailed:     CategoryDecode,
	ErrCodeInvalidInput:     CategoryValidation,
	ErrCodeMissingField:     CategoryValidation,
}

var retryableCodes = map[ErrorCode]bool{
	ErrCodeTimeout:          true,
	ErrCodeConnectionFailed: true,
	ErrCodeCanceled:         false,
}

// IsRetryableCode returns true if the error code indicates a retryable error.
func IsRetryableCode(code ErrorCode) bool {
	return retryableCodes[code]
}

// CategoryOf returns the taxonomy category of a code.
func CategoryOf(code ErrorCode) Category {
	if c, ok := categories[code]; ok {
		return c
	}
	return CategoryUnknown
}
