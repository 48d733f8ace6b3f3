package report

import (
	"context"
	"net/http"
	"strings"

	"github.com/kbukum/todokit/logger"
	"github.com/kbukum/todokit/util"
)

// redactedHeaders are masked before a snapshot reaches the log.
var redactedHeaders = []string{"Authorization", "Proxy-Authorization", "Cookie", "Set-Cookie"}

// LogSink writes exchanges through the structured logger: successful
// attempts at debug, failed attempts and error statuses at warn.
type LogSink struct {
	log *logger.Logger
}

// NewLogSink creates a LogSink. A nil logger falls back to the global one.
func NewLogSink(log *logger.Logger) *LogSink {
	if log == nil {
		log = logger.GetGlobalLogger()
	}
	return &LogSink{log: log.WithComponent("report")}
}

// Record logs the exchange with secrets masked.
func (s *LogSink) Record(ctx context.Context, req RequestSnapshot, resp ResponseSnapshot) {
	fields := logger.Fields(
		logger.FieldMethod, req.Method,
		logger.FieldURL, req.URL,
		logger.FieldAttempt, req.Attempt,
		logger.FieldDuration, resp.Duration.Milliseconds(),
		"curl", Redact(req).Curl,
	)

	log := s.log.WithContext(ctx)
	switch {
	case resp.Failed():
		fields[logger.FieldError] = resp.Err
		log.Warn("request failed", fields)
	case resp.StatusCode >= http.StatusBadRequest:
		fields[logger.FieldStatusCode] = resp.StatusCode
		fields["response"] = resp.Raw
		log.Warn("request returned error status", fields)
	default:
		fields[logger.FieldStatusCode] = resp.StatusCode
		log.Debug("request completed", fields)
	}
}

// Redact returns a copy of req with credential headers masked.
func Redact(req RequestSnapshot) RequestSnapshot {
	if len(req.Headers) == 0 {
		return req
	}
	headers := make(map[string]string, len(req.Headers))
	for k, v := range req.Headers {
		if isRedacted(k) {
			v = maskCredential(v)
		}
		headers[k] = v
	}
	req.Headers = headers
	req.Curl = Curl(req)
	return req
}

func isRedacted(name string) bool {
	for _, h := range redactedHeaders {
		if strings.EqualFold(h, name) {
			return true
		}
	}
	return false
}

// maskCredential keeps the auth scheme and the first characters of the secret.
func maskCredential(v string) string {
	if scheme, secret, ok := strings.Cut(v, " "); ok {
		return scheme + " " + util.MaskSecret(secret, 4)
	}
	return util.MaskSecret(v, 4)
}
