package httpclient

import (
	"bytes"
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/kbukum/todokit/errors"
	"github.com/kbukum/todokit/logger"
	"github.com/kbukum/todokit/report"
	"github.com/kbukum/todokit/resilience"
	"github.com/kbukum/todokit/version"
)

// Adapter is a configurable HTTP adapter with auth, retry and per-attempt
// reporting. It is safe for concurrent use.
type Adapter struct {
	httpClient *http.Client
	config     Config
	retryable  map[int]struct{}
	log        *logger.Logger
}

// Option configures an Adapter.
type Option func(*Adapter)

// WithRoundTripper replaces the underlying transport.
func WithRoundTripper(rt http.RoundTripper) Option {
	return func(a *Adapter) {
		a.httpClient.Transport = rt
	}
}

// New creates a new HTTP adapter with the given configuration. The
// configuration is copied; later changes by the caller have no effect.
func New(cfg Config, opts ...Option) (*Adapter, error) {
	cfg = cfg.clone()
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	c := &Adapter{
		httpClient: &http.Client{
			Transport: http.DefaultTransport.(*http.Transport).Clone(),
			Timeout:   cfg.Timeout,
		},
		config:    cfg,
		retryable: cfg.Retry.statusSet(),
		log:       cfg.Logger.WithComponent("httpclient"),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

// Do executes req, retrying per the configured policy.
//
// A response is returned for every status, including 4xx and 5xx. An error is
// returned only when the request could not be built or when the final attempt
// failed at the transport level; in that case the response is nil.
func (c *Adapter) Do(ctx context.Context, req Request) (*Response, error) {
	body, contentType, err := encodeBody(req.Body)
	if err != nil {
		return nil, errors.Validation(fmt.Sprintf("encode body: %v", err)).WithCause(err)
	}

	target, err := c.resolveURL(req.Path)
	if err != nil {
		return nil, errors.Validation(fmt.Sprintf("resolve path %q: %v", req.Path, err)).WithCause(err)
	}

	operation := req.Method + " " + target
	retryCfg := c.config.Retry.resilienceConfig()
	retryCfg.OnRetry = func(retry int, cause error, backoff time.Duration) {
		reason := "transport"
		if se, ok := cause.(*statusError); ok {
			reason = "status"
			c.log.WithContext(ctx).Warn("retrying request", logger.Fields(
				logger.FieldMethod, req.Method,
				logger.FieldURL, target,
				logger.FieldStatusCode, se.StatusCode,
				logger.FieldAttempt, retry+1,
				logger.FieldBackoff, backoff.Milliseconds(),
			))
		} else {
			c.log.WithContext(ctx).Warn("retrying request", logger.Fields(
				logger.FieldMethod, req.Method,
				logger.FieldURL, target,
				logger.FieldError, cause.Error(),
				logger.FieldAttempt, retry+1,
				logger.FieldBackoff, backoff.Milliseconds(),
			))
		}
		c.config.Metrics.RecordRetry(ctx, req.Method, reason)
	}

	resp, err := resilience.Retry(ctx, retryCfg, func(attempt int) (*Response, error) {
		resp, err := c.attempt(ctx, req, target, body, contentType, attempt)
		if err != nil {
			return nil, err
		}
		if _, ok := c.retryable[resp.StatusCode]; ok {
			return resp, &statusError{StatusCode: resp.StatusCode}
		}
		return resp, nil
	})

	var se *statusError
	switch {
	case err == nil:
		return resp, nil
	case stderrors.As(err, &se):
		// Retries exhausted on a status: the last response is the result.
		return resp, nil
	default:
		return nil, classifyTransportError(ctx, operation, err)
	}
}

// Unwrap returns the underlying *http.Client for advanced use cases.
func (c *Adapter) Unwrap() *http.Client {
	return c.httpClient
}

// Close releases idle connections held by the adapter.
func (c *Adapter) Close(_ context.Context) error {
	c.httpClient.CloseIdleConnections()
	return nil
}

// GetConfig returns a copy of the adapter's configuration.
func (c *Adapter) GetConfig() Config {
	return c.config.clone()
}

// attempt sends one request and reports it to the sink.
func (c *Adapter) attempt(ctx context.Context, req Request, target string, body []byte, contentType string, attempt int) (*Response, error) {
	operation := req.Method + " " + target

	httpReq, err := c.buildRequest(ctx, req, target, body, contentType)
	if err != nil {
		return nil, errors.Validation(fmt.Sprintf("create request: %v", err)).WithCause(err)
	}

	start := time.Now()
	reqSnap := report.RequestSnapshot{
		Method:  httpReq.Method,
		URL:     httpReq.URL.String(),
		Headers: flattenHeaders(httpReq.Header),
		Body:    string(body),
		Attempt: attempt,
		Time:    start,
	}
	reqSnap.Curl = report.Curl(reqSnap)

	result, err := c.roundTrip(httpReq)
	duration := time.Since(start)
	if err != nil {
		terr := classifyTransportError(ctx, operation, err)
		c.config.Sink.Record(ctx, reqSnap, report.ResponseSnapshot{Duration: duration, Err: terr.Error()})
		c.config.Metrics.RecordAttempt(ctx, req.Method, 0, duration)
		c.log.WithContext(ctx).Debug("attempt failed", logger.Fields(
			logger.FieldMethod, req.Method,
			logger.FieldURL, target,
			logger.FieldAttempt, attempt,
			logger.FieldError, terr.Error(),
		))
		return nil, terr
	}
	result.Attempts = attempt
	result.Duration = duration

	c.config.Sink.Record(ctx, reqSnap, report.ResponseSnapshot{
		StatusCode: result.StatusCode,
		Headers:    result.Headers,
		Content:    report.ParseContent(result.Body),
		Raw:        string(result.Body),
		Duration:   duration,
	})
	c.config.Metrics.RecordAttempt(ctx, req.Method, result.StatusCode, duration)
	c.log.WithContext(ctx).Debug("attempt completed", logger.Fields(
		logger.FieldMethod, req.Method,
		logger.FieldURL, target,
		logger.FieldAttempt, attempt,
		logger.FieldStatusCode, result.StatusCode,
		logger.FieldDuration, duration.Milliseconds(),
	))

	return result, nil
}

// roundTrip sends httpReq and reads the whole body. The body is always closed.
func (c *Adapter) roundTrip(httpReq *http.Request) (*Response, error) {
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response body: %w", err)
	}

	return &Response{
		StatusCode: resp.StatusCode,
		Headers:    flattenHeaders(resp.Header),
		Body:       data,
	}, nil
}

// resolveURL joins path onto the base URL with url.JoinPath semantics. Dot
// segments are rejected so a path can never climb above the base path.
func (c *Adapter) resolveURL(path string) (string, error) {
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return path, nil
	}
	if path == "" {
		return c.config.BaseURL, nil
	}
	for _, segment := range strings.Split(path, "/") {
		if segment == "." || segment == ".." {
			return "", fmt.Errorf("dot segment %q in relative path", segment)
		}
	}
	return url.JoinPath(c.config.BaseURL, path)
}

// buildRequest constructs an *http.Request from the adapter config and request.
func (c *Adapter) buildRequest(ctx context.Context, req Request, target string, body []byte, contentType string) (*http.Request, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, target, reader)
	if err != nil {
		return nil, err
	}

	// Apply query parameters
	if len(req.Query) > 0 {
		q := httpReq.URL.Query()
		for k, v := range req.Query {
			q.Set(k, v)
		}
		httpReq.URL.RawQuery = q.Encode()
	}

	httpReq.Header.Set("User-Agent", version.UserAgent())

	// Apply default headers
	for k, v := range c.config.Headers {
		httpReq.Header.Set(k, v)
	}

	// Apply request-specific headers (override defaults)
	for k, v := range req.Headers {
		httpReq.Header.Set(k, v)
	}

	// Set content-type if body present and not already set
	if body != nil && httpReq.Header.Get("Content-Type") == "" && contentType != "" {
		httpReq.Header.Set("Content-Type", contentType)
	}

	// Apply auth: request-level overrides client-level
	auth := c.config.Auth
	if req.Auth != nil {
		auth = req.Auth
	}
	auth.apply(httpReq)

	return httpReq, nil
}

// encodeBody converts a body value into bytes and a content type. Readers are
// drained once so every attempt can resend the same payload.
func encodeBody(body any) ([]byte, string, error) {
	if body == nil {
		return nil, "", nil
	}
	switch v := body.(type) {
	case io.Reader:
		data, err := io.ReadAll(v)
		if err != nil {
			return nil, "", err
		}
		return data, "", nil
	case []byte:
		return v, "", nil
	case string:
		return []byte(v), "text/plain", nil
	default:
		data, err := json.Marshal(v)
		if err != nil {
			return nil, "", err
		}
		return data, "application/json", nil
	}
}

// flattenHeaders converts multi-value headers to single-value.
func flattenHeaders(h http.Header) map[string]string {
	result := make(map[string]string, len(h))
	for k, v := range h {
		if len(v) > 0 {
			result[k] = v[0]
		}
	}
	return result
}
