package report

import (
	"bytes"
	"context"
	"encoding/json"
	"time"
)

// RequestSnapshot is the outbound side of one attempt.
type RequestSnapshot struct {
	Method  string            `json:"method"`
	URL     string            `json:"url"`
	Headers map[string]string `json:"headers,omitempty"`
	Body    string            `json:"body,omitempty"`
	Curl    string            `json:"curl"`
	Attempt int               `json:"attempt"`
	Time    time.Time         `json:"time"`
}

// ResponseSnapshot is the inbound side of one attempt. StatusCode is 0 and
// Err is set when the attempt failed before a response arrived.
type ResponseSnapshot struct {
	StatusCode int               `json:"status_code"`
	Headers    map[string]string `json:"headers,omitempty"`
	// Content is the parsed JSON body, or nil when the body is not JSON.
	Content  any           `json:"content,omitempty"`
	Raw      string        `json:"raw,omitempty"`
	Duration time.Duration `json:"duration_ns"`
	Err      string        `json:"error,omitempty"`
}

// Failed reports whether the attempt produced no response.
func (r ResponseSnapshot) Failed() bool {
	return r.Err != ""
}

// Sink receives one request/response pair per attempt. Implementations must
// be safe for concurrent use and must not block the caller for long.
type Sink interface {
	Record(ctx context.Context, req RequestSnapshot, resp ResponseSnapshot)
}

// SinkFunc adapts a function to the Sink interface.
type SinkFunc func(ctx context.Context, req RequestSnapshot, resp ResponseSnapshot)

// Record calls f.
func (f SinkFunc) Record(ctx context.Context, req RequestSnapshot, resp ResponseSnapshot) {
	f(ctx, req, resp)
}

// ParseContent decodes body as JSON, returning nil when it is empty or not JSON.
func ParseContent(body []byte) any {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return nil
	}
	var v any
	if err := json.Unmarshal(trimmed, &v); err != nil {
		return nil
	}
	return v
}
