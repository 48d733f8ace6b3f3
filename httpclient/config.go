package httpclient

import (
	"fmt"
	"maps"
	"net/url"
	"time"

	"github.com/kbukum/todokit/errors"
	"github.com/kbukum/todokit/logger"
	"github.com/kbukum/todokit/observability"
	"github.com/kbukum/todokit/report"
)

const (
	defaultTimeout = 30 * time.Second
)

// Config configures the HTTP client.
type Config struct {
	// BaseURL is the absolute http(s) URL request paths are joined onto. Required.
	BaseURL string `yaml:"base_url" mapstructure:"base_url"`

	// Timeout bounds a single attempt, connect through body read. Defaults to 30s.
	Timeout time.Duration `yaml:"timeout" mapstructure:"timeout"`

	// Auth configures default authentication applied to all requests.
	// Individual requests can override this.
	Auth *AuthConfig `yaml:"-" mapstructure:"-"`

	// Headers are default headers applied to all requests.
	Headers map[string]string `yaml:"headers" mapstructure:"headers"`

	// Retry configures retry behavior. Nil selects DefaultRetryPolicy; use
	// NoRetry to disable retries.
	Retry *RetryPolicy `yaml:"retry" mapstructure:"retry"`

	// Sink receives a snapshot of every attempt. Nil discards them.
	Sink report.Sink `yaml:"-" mapstructure:"-"`

	// Metrics records attempt and retry counters. Nil disables metrics.
	Metrics *observability.Metrics `yaml:"-" mapstructure:"-"`

	// Logger is used for attempt and retry logs. Nil uses the global logger.
	Logger *logger.Logger `yaml:"-" mapstructure:"-"`
}

// ApplyDefaults fills in zero-value fields with sensible defaults.
func (c *Config) ApplyDefaults() {
	if c.Timeout <= 0 {
		c.Timeout = defaultTimeout
	}
	if c.Retry == nil {
		c.Retry = DefaultRetryPolicy()
	}
	if c.Sink == nil {
		c.Sink = report.Discard
	}
	if c.Logger == nil {
		c.Logger = logger.GetGlobalLogger()
	}
}

// Validate checks that the configuration is valid.
func (c *Config) Validate() error {
	if c.BaseURL == "" {
		return errors.MissingConfig("base_url")
	}
	u, err := url.Parse(c.BaseURL)
	if err != nil {
		return errors.InvalidConfig("base_url", err.Error()).WithCause(err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return errors.InvalidConfig("base_url", fmt.Sprintf("scheme must be http or https, got %q", u.Scheme))
	}
	if u.Host == "" {
		return errors.InvalidConfig("base_url", "host is empty")
	}
	if c.Timeout <= 0 {
		return errors.InvalidConfig("timeout", "must be positive")
	}
	if c.Retry != nil {
		if err := c.Retry.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// clone returns a deep copy so the adapter never shares maps with the caller.
func (c Config) clone() Config {
	c.Headers = maps.Clone(c.Headers)
	if c.Retry != nil {
		r := *c.Retry
		r.RetryableStatusCodes = append([]int(nil), c.Retry.RetryableStatusCodes...)
		c.Retry = &r
	}
	if c.Auth != nil {
		a := *c.Auth
		c.Auth = &a
	}
	return c
}
