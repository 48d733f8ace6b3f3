package observability

import (
	"context"
	"fmt"
	"testing"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric/noop"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func setupRecorder(t *testing.T) *tracetest.SpanRecorder {
	t.Helper()
	sr := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))
	prev := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)
	t.Cleanup(func() {
		otel.SetTracerProvider(prev)
		_ = tp.Shutdown(context.Background())
	})
	return sr
}

func attrValue(attrs []attribute.KeyValue, key string) (attribute.Value, bool) {
	for _, kv := range attrs {
		if string(kv.Key) == key {
			return kv.Value, true
		}
	}
	return attribute.Value{}, false
}

func TestDefaultTracerConfig(t *testing.T) {
	cfg := DefaultTracerConfig("test-service")

	if cfg.ServiceName != "test-service" {
		t.Errorf("expected ServiceName 'test-service', got %s", cfg.ServiceName)
	}
	if cfg.Endpoint != "localhost:4318" {
		t.Errorf("expected Endpoint 'localhost:4318', got %s", cfg.Endpoint)
	}
	if cfg.SampleRate != 1.0 {
		t.Errorf("expected SampleRate 1.0, got %f", cfg.SampleRate)
	}
	if !cfg.Insecure {
		t.Error("expected Insecure to be true")
	}
	if cfg.Enabled {
		t.Error("expected export to be disabled by default")
	}
}

func TestDefaultMeterConfig(t *testing.T) {
	cfg := DefaultMeterConfig("test-service")

	if cfg.ServiceName != "test-service" {
		t.Errorf("expected ServiceName 'test-service', got %s", cfg.ServiceName)
	}
	if cfg.Interval != 15*time.Second {
		t.Errorf("expected Interval 15s, got %v", cfg.Interval)
	}
}

func TestNewMetrics(t *testing.T) {
	meter := noop.NewMeterProvider().Meter("test")
	metrics, err := NewMetrics(meter)
	if err != nil {
		t.Fatalf("unexpected error creating metrics: %v", err)
	}
	if metrics == nil {
		t.Fatal("expected non-nil metrics")
	}

	ctx := context.Background()
	metrics.RecordAttempt(ctx, "GET", 200, 100*time.Millisecond)
	metrics.RecordAttempt(ctx, "GET", 0, 10*time.Millisecond)
	metrics.RecordRetry(ctx, "GET", "status")
	metrics.RecordOperation(ctx, "ProjectService", "create project", StatusOK, 50*time.Millisecond)
	metrics.RecordError(ctx, "decode", "envelope")
}

func TestMetrics_NilReceiver(t *testing.T) {
	var m *Metrics
	ctx := context.Background()
	m.RecordAttempt(ctx, "GET", 200, time.Millisecond)
	m.RecordRetry(ctx, "GET", "transport")
	m.RecordOperation(ctx, "svc", "op", StatusOK, time.Millisecond)
	m.RecordError(ctx, "x", "y")
}

func TestStartOperation_Success(t *testing.T) {
	sr := setupRecorder(t)

	ctx, op := StartOperation(context.Background(), "ProjectService", "get project", nil,
		attribute.String("project.id", "42"))
	if OperationFromContext(ctx) != op {
		t.Fatal("expected operation in context")
	}
	op.End(StatusOK, nil)

	spans := sr.Ended()
	if len(spans) != 1 {
		t.Fatalf("expected 1 ended span, got %d", len(spans))
	}
	span := spans[0]
	if span.Name() != "ProjectService/get project" {
		t.Errorf("unexpected span name %q", span.Name())
	}
	if span.Status().Code == codes.Error {
		t.Error("expected non-error status")
	}
	if v, ok := attrValue(span.Attributes(), "project.id"); !ok || v.AsString() != "42" {
		t.Errorf("expected project.id attribute, got %v", v)
	}
	if v, ok := attrValue(span.Attributes(), AttrStatus); !ok || v.AsString() != StatusOK {
		t.Errorf("expected status=ok, got %v", v)
	}
}

func TestStartOperation_Error(t *testing.T) {
	sr := setupRecorder(t)

	metrics, err := NewMetrics(noop.NewMeterProvider().Meter("test"))
	if err != nil {
		t.Fatal(err)
	}
	_, op := StartOperation(context.Background(), "ProjectService", "delete project", metrics)
	op.End(StatusError, fmt.Errorf("boom"))

	spans := sr.Ended()
	if len(spans) != 1 {
		t.Fatalf("expected 1 ended span, got %d", len(spans))
	}
	if spans[0].Status().Code != codes.Error {
		t.Errorf("expected error status, got %v", spans[0].Status().Code)
	}
	if len(spans[0].Events()) == 0 {
		t.Error("expected a recorded error event")
	}
}

func TestOperation_EndIsIdempotent(t *testing.T) {
	sr := setupRecorder(t)

	_, op := StartOperation(context.Background(), "svc", "op", nil)
	op.End(StatusOK, nil)
	op.End(StatusError, fmt.Errorf("late"))

	spans := sr.Ended()
	if len(spans) != 1 {
		t.Fatalf("expected 1 ended span, got %d", len(spans))
	}
	if spans[0].Status().Code == codes.Error {
		t.Error("second End must not change the recorded outcome")
	}
}

func TestOperationFromContext_Missing(t *testing.T) {
	if OperationFromContext(context.Background()) != nil {
		t.Error("expected nil operation")
	}
}

func TestSetSpanError(t *testing.T) {
	sr := setupRecorder(t)

	ctx, span := StartSpan(context.Background(), "work")
	SetSpanError(ctx, fmt.Errorf("failed"))
	span.End()

	if got := sr.Ended()[0].Status().Code; got != codes.Error {
		t.Errorf("expected error status, got %v", got)
	}
}
