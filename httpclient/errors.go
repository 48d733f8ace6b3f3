package httpclient

import (
	"context"
	stderrors "errors"
	"fmt"
	"net"

	"github.com/kbukum/todokit/errors"
)

// statusError marks an attempt whose status is in the retryable set. It
// never escapes the adapter: on exhaustion the response itself is returned.
type statusError struct {
	StatusCode int
}

func (e *statusError) Error() string {
	return fmt.Sprintf("retryable status %d", e.StatusCode)
}

// classifyTransportError maps a failed round trip onto the transport taxonomy.
// Caller cancellation wins over everything else; deadlines and net timeouts
// are TIMEOUT; anything else is CONNECTION_FAILED.
func classifyTransportError(ctx context.Context, operation string, err error) *errors.AppError {
	if appErr, ok := errors.AsAppError(err); ok {
		return appErr
	}

	if stderrors.Is(err, context.Canceled) || stderrors.Is(ctx.Err(), context.Canceled) {
		return errors.Canceled(operation, err)
	}
	if stderrors.Is(err, context.DeadlineExceeded) {
		return errors.Timeout(operation, err)
	}

	var netErr net.Error
	if stderrors.As(err, &netErr) && netErr.Timeout() {
		return errors.Timeout(operation, err)
	}
	return errors.ConnectionFailed(operation, err)
}
