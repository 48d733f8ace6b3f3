package observability

import (
	"context"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Operation status values recorded on spans and metrics.
const (
	StatusOK    = "ok"
	StatusError = "error"
)

// Operation is a scoped span around one service call. End must be called on
// every exit path; calls after the first are ignored.
type Operation struct {
	Service   string
	Name      string
	StartTime time.Time

	ctx     context.Context
	span    trace.Span
	metrics *Metrics
	endOnce sync.Once
}

type operationKey struct{}

// StartOperation starts a span named "<service>/<name>" and returns the
// context carrying it. metrics may be nil.
func StartOperation(ctx context.Context, service, name string, metrics *Metrics, attrs ...attribute.KeyValue) (context.Context, *Operation) {
	ctx, span := StartSpan(ctx, service+"/"+name, trace.WithSpanKind(trace.SpanKindClient))
	span.SetAttributes(
		attribute.String(AttrServiceName, service),
		attribute.String(AttrOperationName, name),
	)
	span.SetAttributes(attrs...)

	op := &Operation{
		Service:   service,
		Name:      name,
		StartTime: time.Now(),
		ctx:       ctx,
		span:      span,
		metrics:   metrics,
	}
	return context.WithValue(ctx, operationKey{}, op), op
}

// OperationFromContext returns the Operation stored in ctx, or nil.
func OperationFromContext(ctx context.Context) *Operation {
	if op, ok := ctx.Value(operationKey{}).(*Operation); ok {
		return op
	}
	return nil
}

// SetAttributes adds attributes to the operation span.
func (o *Operation) SetAttributes(attrs ...attribute.KeyValue) {
	o.span.SetAttributes(attrs...)
}

// Span returns the underlying span.
func (o *Operation) Span() trace.Span { return o.span }

// End records the outcome and closes the span.
func (o *Operation) End(status string, err error) {
	o.endOnce.Do(func() {
		duration := time.Since(o.StartTime)

		if err != nil {
			o.span.RecordError(err)
			o.span.SetStatus(codes.Error, err.Error())
			o.span.SetAttributes(attribute.String(AttrErrorMessage, err.Error()))
			o.metrics.RecordError(o.ctx, o.Name, o.Service)
		}
		o.span.SetAttributes(
			attribute.String(AttrStatus, status),
			attribute.Int64(AttrDurationMs, duration.Milliseconds()),
		)
		o.span.End()

		o.metrics.RecordOperation(o.ctx, o.Service, o.Name, status, duration)
	})
}

// Duration returns the elapsed time since the operation started.
func (o *Operation) Duration() time.Duration {
	return time.Since(o.StartTime)
}
