package config

import (
	"net/url"
	"time"

	"github.com/kbukum/todokit/errors"
	"github.com/kbukum/todokit/httpclient"
	"github.com/kbukum/todokit/logger"
	"github.com/kbukum/todokit/observability"
	"github.com/kbukum/todokit/util"
)

// DefaultServiceName is used when settings do not name the service.
const DefaultServiceName = "todokit"

// Settings is everything a todokit client needs. It is loaded once and passed
// explicitly to constructors.
type Settings struct {
	Name        string                     `yaml:"name" mapstructure:"name"`
	Environment string                     `yaml:"environment" mapstructure:"environment"`
	API         APIConfig                  `yaml:"api" mapstructure:"api"`
	Client      ClientConfig               `yaml:"client" mapstructure:"client"`
	Logging     logger.Config              `yaml:"logging" mapstructure:"logging"`
	Tracing     observability.TracerConfig `yaml:"tracing" mapstructure:"tracing"`
	Metrics     observability.MeterConfig  `yaml:"metrics" mapstructure:"metrics"`
	Report      ReportConfig               `yaml:"report" mapstructure:"report"`
}

// APIConfig locates the API and holds the credential.
type APIConfig struct {
	// BaseURL is read from API_BASE_URL.
	BaseURL string `yaml:"base_url" mapstructure:"base_url"`
	// Key is read from API_KEY. Optional for the client, required by the smoke run.
	Key string `yaml:"key" mapstructure:"key"`
}

// ClientConfig tunes the HTTP transport. Zero values select the defaults,
// except BackoffFactor where only an unset value does, so 0 means no delay.
type ClientConfig struct {
	Timeout              time.Duration `yaml:"timeout" mapstructure:"timeout"`
	MaxRetries           int           `yaml:"max_retries" mapstructure:"max_retries"`
	BackoffFactor        *float64      `yaml:"backoff_factor" mapstructure:"backoff_factor"`
	MaxBackoff           time.Duration `yaml:"max_backoff" mapstructure:"max_backoff"`
	RetryableStatusCodes []int         `yaml:"retryable_status_codes" mapstructure:"retryable_status_codes"`
	// DisableRetry makes every call a single attempt.
	DisableRetry bool `yaml:"disable_retry" mapstructure:"disable_retry"`
}

// ReportConfig controls where exchange attachments are written.
type ReportConfig struct {
	// Dir receives one JSON file per exchange. Empty disables attachments.
	Dir string `yaml:"dir" mapstructure:"dir"`
	// Log writes every exchange through the logger.
	Log bool `yaml:"log" mapstructure:"log"`
}

// Load reads settings for serviceName, applies defaults and validates them.
func Load(serviceName string, opts ...LoaderOption) (*Settings, error) {
	var s Settings
	if err := LoadConfig(serviceName, &s, opts...); err != nil {
		return nil, errors.InvalidConfig("config", err.Error()).WithCause(err)
	}
	if s.Name == "" {
		s.Name = serviceName
	}
	s.ApplyDefaults()
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// ApplyDefaults fills in zero-value fields.
func (s *Settings) ApplyDefaults() {
	if s.Name == "" {
		s.Name = DefaultServiceName
	}
	if s.Environment == "" {
		s.Environment = "development"
	}
	s.Logging.ApplyDefaults()

	defaults := httpclient.DefaultRetryPolicy()
	if s.Client.Timeout <= 0 {
		s.Client.Timeout = 30 * time.Second
	}
	if s.Client.MaxRetries == 0 {
		s.Client.MaxRetries = defaults.MaxRetries
	}
	if s.Client.BackoffFactor == nil {
		s.Client.BackoffFactor = util.Ptr(defaults.BackoffFactor)
	}
	if len(s.Client.RetryableStatusCodes) == 0 {
		s.Client.RetryableStatusCodes = defaults.RetryableStatusCodes
	}

	tracing := observability.DefaultTracerConfig(s.Name)
	s.Tracing.ServiceName = util.Coalesce(s.Tracing.ServiceName, s.Name)
	s.Tracing.Environment = util.Coalesce(s.Tracing.Environment, s.Environment)
	s.Tracing.Endpoint = util.Coalesce(s.Tracing.Endpoint, tracing.Endpoint)
	s.Tracing.SampleRate = util.Coalesce(s.Tracing.SampleRate, tracing.SampleRate)

	metrics := observability.DefaultMeterConfig(s.Name)
	s.Metrics.ServiceName = util.Coalesce(s.Metrics.ServiceName, s.Name)
	s.Metrics.Environment = util.Coalesce(s.Metrics.Environment, s.Environment)
	s.Metrics.Endpoint = util.Coalesce(s.Metrics.Endpoint, metrics.Endpoint)
	s.Metrics.Interval = util.Coalesce(s.Metrics.Interval, metrics.Interval)
}

// Validate checks that the settings can produce a working client.
func (s *Settings) Validate() error {
	if s.API.BaseURL == "" {
		return errors.MissingConfig("API_BASE_URL")
	}
	u, err := url.Parse(s.API.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return errors.InvalidConfig("API_BASE_URL", "must be an absolute http(s) URL")
	}
	if err := s.Logging.Validate(); err != nil {
		return errors.InvalidConfig("logging", err.Error()).WithCause(err)
	}
	if err := s.RetryPolicy().Validate(); err != nil {
		return err
	}
	return nil
}

// RequireAPIKey returns MISSING_CONFIGURATION when no API key is set.
func (s *Settings) RequireAPIKey() error {
	if s.API.Key == "" {
		return errors.MissingConfig("API_KEY")
	}
	return nil
}

// RetryPolicy builds the transport retry policy.
func (s *Settings) RetryPolicy() *httpclient.RetryPolicy {
	if s.Client.DisableRetry {
		return httpclient.NoRetry()
	}
	return &httpclient.RetryPolicy{
		MaxRetries:           s.Client.MaxRetries,
		BackoffFactor:        s.backoffFactor(),
		MaxBackoff:           s.Client.MaxBackoff,
		RetryableStatusCodes: append([]int(nil), s.Client.RetryableStatusCodes...),
	}
}

func (s *Settings) backoffFactor() float64 {
	if s.Client.BackoffFactor == nil {
		return httpclient.DefaultRetryPolicy().BackoffFactor
	}
	return *s.Client.BackoffFactor
}

// HTTPClientConfig builds the transport configuration. Sink, Metrics and
// Logger are left for the caller to attach.
func (s *Settings) HTTPClientConfig() httpclient.Config {
	return httpclient.Config{
		BaseURL: s.API.BaseURL,
		Timeout: s.Client.Timeout,
		Retry:   s.RetryPolicy(),
	}
}
