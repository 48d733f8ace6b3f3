package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"go.opentelemetry.io/otel/trace"
)

func newJSONLogger(buf *bytes.Buffer, level string) *Logger {
	return NewWithWriter(buf, &Config{Level: level, Format: FormatJSON}, "todokit")
}

func decodeLine(t *testing.T, buf *bytes.Buffer) map[string]interface{} {
	t.Helper()
	line := strings.TrimSpace(buf.String())
	if line == "" {
		t.Fatal("expected a log line, got nothing")
	}
	var m map[string]interface{}
	if err := json.Unmarshal([]byte(line), &m); err != nil {
		t.Fatalf("log line is not JSON: %v (%s)", err, line)
	}
	return m
}

func TestNewDefault(t *testing.T) {
	l := NewDefault("test-service")
	if l == nil {
		t.Fatal("expected non-nil logger")
	}
	if l.service != "test-service" {
		t.Errorf("expected service 'test-service', got %q", l.service)
	}
}

func TestJSONOutputWithFields(t *testing.T) {
	var buf bytes.Buffer
	newJSONLogger(&buf, "debug").Info("sent", Fields(FieldMethod, "GET", FieldStatusCode, 200))

	m := decodeLine(t, &buf)
	if m["message"] != "sent" {
		t.Errorf("expected message 'sent', got %v", m["message"])
	}
	if m[FieldMethod] != "GET" {
		t.Errorf("expected method GET, got %v", m[FieldMethod])
	}
	if m["service"] != "todokit" {
		t.Errorf("expected service field, got %v", m["service"])
	}
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	l := newJSONLogger(&buf, "warn")
	l.Debug("hidden")
	l.Info("hidden")
	if buf.Len() != 0 {
		t.Fatalf("expected debug/info to be filtered, got %q", buf.String())
	}
	l.Warn("shown")
	if !strings.Contains(buf.String(), "shown") {
		t.Errorf("expected warn line, got %q", buf.String())
	}
}

func TestInvalidLevelFallsBackToInfo(t *testing.T) {
	var buf bytes.Buffer
	l := newJSONLogger(&buf, "nonsense")
	l.Debug("hidden")
	if buf.Len() != 0 {
		t.Errorf("expected debug to be filtered at info level, got %q", buf.String())
	}
}

func TestWithComponent(t *testing.T) {
	var buf bytes.Buffer
	newJSONLogger(&buf, "info").WithComponent("httpclient").Info("x")
	if m := decodeLine(t, &buf); m[FieldComponent] != "httpclient" {
		t.Errorf("expected component=httpclient, got %v", m[FieldComponent])
	}
}

func TestWithError(t *testing.T) {
	var buf bytes.Buffer
	newJSONLogger(&buf, "info").WithError(errors.New("boom")).Error("failed")
	if m := decodeLine(t, &buf); m["error"] != "boom" {
		t.Errorf("expected error=boom, got %v", m["error"])
	}
}

func TestWithContext_NoSpan(t *testing.T) {
	l := NewDefault("svc")
	if got := l.WithContext(context.Background()); got != l {
		t.Error("expected the same logger when no span is active")
	}
}

func TestWithContext_Span(t *testing.T) {
	var buf bytes.Buffer
	sc := trace.NewSpanContext(trace.SpanContextConfig{
		TraceID: trace.TraceID{1, 2, 3},
		SpanID:  trace.SpanID{4, 5, 6},
	})
	ctx := trace.ContextWithSpanContext(context.Background(), sc)

	newJSONLogger(&buf, "info").WithContext(ctx).Info("traced")
	m := decodeLine(t, &buf)
	if m[FieldTraceID] != sc.TraceID().String() {
		t.Errorf("expected trace_id %s, got %v", sc.TraceID(), m[FieldTraceID])
	}
	if m[FieldSpanID] != sc.SpanID().String() {
		t.Errorf("expected span_id %s, got %v", sc.SpanID(), m[FieldSpanID])
	}
}

func TestNop(t *testing.T) {
	// Must not panic.
	Nop().WithComponent("x").Error("discarded")
}

func TestConsoleFormat(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter(&buf, &Config{Level: "info", Format: "console", NoColor: true}, "smoke")
	l.Info("hello")
	out := buf.String()
	if !strings.Contains(out, "[SMO][INF]") {
		t.Errorf("expected console tag, got %q", out)
	}
	if !strings.Contains(out, "hello") {
		t.Errorf("expected message, got %q", out)
	}
}

func TestConfigApplyDefaults(t *testing.T) {
	cfg := Config{}
	cfg.ApplyDefaults()
	if cfg.Level != "info" || cfg.Format != "console" || cfg.Output != "stdout" {
		t.Errorf("unexpected defaults: %+v", cfg)
	}
	if !cfg.Timestamp {
		t.Error("expected timestamp=true")
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"valid", Config{Level: "debug", Format: "json"}, false},
		{"pretty", Config{Level: "info", Format: FormatPretty}, false},
		{"bad level", Config{Level: "loud", Format: "json"}, true},
		{"bad format", Config{Level: "info", Format: "xml"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestFields(t *testing.T) {
	m := Fields("a", 1, "b", "two", 3, "ignored", "dangling")
	if len(m) != 2 {
		t.Fatalf("expected 2 fields, got %d: %v", len(m), m)
	}
	if m["a"] != 1 || m["b"] != "two" {
		t.Errorf("unexpected fields: %v", m)
	}
}

func TestErrorAndDurationFields(t *testing.T) {
	ef := ErrorFields("create", errors.New("boom"))
	if ef[FieldOperation] != "create" || ef[FieldError] != "boom" {
		t.Errorf("unexpected error fields: %v", ef)
	}
	df := DurationFields("create", 1500*time.Millisecond)
	if df[FieldDuration] != int64(1500) {
		t.Errorf("expected 1500ms, got %v", df[FieldDuration])
	}
	merged := MergeWithError(nil, errors.New("x"))
	if merged[FieldError] != "x" {
		t.Errorf("expected merged error, got %v", merged)
	}
}

func TestGlobalLogger(t *testing.T) {
	prev := globalLogger
	defer SetGlobalLogger(prev)

	var buf bytes.Buffer
	SetGlobalLogger(newJSONLogger(&buf, "info"))
	Info("global")
	WithComponent("c").Info("scoped")
	if !strings.Contains(buf.String(), "global") || !strings.Contains(buf.String(), `"component":"c"`) {
		t.Errorf("unexpected global output: %q", buf.String())
	}
}
