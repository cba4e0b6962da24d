package client

import (
	"context"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/deeplooplabs/responses-go/hook"
)

// CredentialProvider supplies the API credential for each request. Injecting
// it keeps secret storage (keychains, token refreshers) out of the transport.
type CredentialProvider interface {
	// APIKey returns the bearer credential to use for a request
	APIKey(ctx context.Context) (string, error)
}

// StaticCredentials is a CredentialProvider holding a fixed key
type StaticCredentials string

// APIKey implements CredentialProvider
func (s StaticCredentials) APIKey(ctx context.Context) (string, error) {
	return string(s), nil
}

// Config contains client configuration
type Config struct {
	// BaseURL is the base URL for the API
	BaseURL string

	// BasePath is the path prefix to strip from endpoints before appending
	// to BaseURL, for bases that already include "/v1"
	BasePath string

	// Credentials supplies the bearer credential per request
	Credentials CredentialProvider

	// HTTPClient is the HTTP client to use (optional)
	HTTPClient *http.Client

	// Timeout is the total request timeout for non-streaming calls
	// (optional, default: 60s). Streaming calls are bounded by their context
	// instead, since a healthy stream may outlive any fixed timeout.
	Timeout time.Duration

	// ConnectTimeout is the connection timeout (optional, default: 10s)
	ConnectTimeout time.Duration

	// ReadTimeout is the response header timeout (optional, default: 30s)
	ReadTimeout time.Duration

	// Connection pool settings
	MaxIdleConns        int
	MaxConnsPerHost     int
	IdleConnTimeout     time.Duration
	MaxIdleConnsPerHost int

	// RetryConfig controls backoff on transient failures
	RetryConfig *RetryConfig

	// Logger receives recoverable-anomaly warnings and debug traces
	Logger zerolog.Logger

	// Metrics receives client-side counters when set
	Metrics *Metrics

	// Hooks observes requests and streaming events
	Hooks *hook.Registry
}

// DefaultConfig returns a default client configuration
func DefaultConfig() *Config {
	return &Config{
		Timeout:             60 * time.Second,
		ConnectTimeout:      10 * time.Second,
		ReadTimeout:         30 * time.Second,
		MaxIdleConns:        100,
		MaxConnsPerHost:     10,
		IdleConnTimeout:     90 * time.Second,
		MaxIdleConnsPerHost: 10,
		RetryConfig:         DefaultRetryConfig(),
		Logger:              zerolog.Nop(),
		Hooks:               hook.NewRegistry(),
	}
}

// NewConfig creates a configuration for the given API base URL
func NewConfig(baseURL string) *Config {
	c := DefaultConfig()
	c.BaseURL = baseURL
	return c
}

// WithBasePath sets the base path to strip from endpoints
func (c *Config) WithBasePath(basePath string) *Config {
	c.BasePath = basePath
	return c
}

// WithAPIKey sets a static API key credential
func (c *Config) WithAPIKey(apiKey string) *Config {
	c.Credentials = StaticCredentials(apiKey)
	return c
}

// WithCredentials sets the credential provider
func (c *Config) WithCredentials(creds CredentialProvider) *Config {
	c.Credentials = creds
	return c
}

// WithTimeout sets the non-streaming request timeout
func (c *Config) WithTimeout(timeout time.Duration) *Config {
	c.Timeout = timeout
	return c
}

// WithReadTimeout sets the response header timeout
func (c *Config) WithReadTimeout(timeout time.Duration) *Config {
	c.ReadTimeout = timeout
	return c
}

// WithConnectionPool sets the connection pool parameters
func (c *Config) WithConnectionPool(maxIdleConns, maxConnsPerHost, maxIdleConnsPerHost int, idleConnTimeout time.Duration) *Config {
	c.MaxIdleConns = maxIdleConns
	c.MaxConnsPerHost = maxConnsPerHost
	c.MaxIdleConnsPerHost = maxIdleConnsPerHost
	c.IdleConnTimeout = idleConnTimeout
	return c
}

// WithRetryConfig sets the retry configuration
func (c *Config) WithRetryConfig(retryConfig *RetryConfig) *Config {
	c.RetryConfig = retryConfig
	return c
}

// WithHTTPClient sets the HTTP client
func (c *Config) WithHTTPClient(client *http.Client) *Config {
	c.HTTPClient = client
	return c
}

// WithLogger sets the logger
func (c *Config) WithLogger(logger zerolog.Logger) *Config {
	c.Logger = logger
	return c
}

// WithMetrics sets the metrics collectors
func (c *Config) WithMetrics(m *Metrics) *Config {
	c.Metrics = m
	return c
}

// WithHooks sets the hook registry
func (c *Config) WithHooks(hooks *hook.Registry) *Config {
	c.Hooks = hooks
	return c
}

// GetHTTPClient returns the HTTP client, creating a default one if not set.
// The returned client carries no total timeout; non-streaming calls apply
// Config.Timeout through their context.
func (c *Config) GetHTTPClient() *http.Client {
	if c.HTTPClient != nil {
		return c.HTTPClient
	}

	transport := &http.Transport{
		MaxIdleConns:        c.MaxIdleConns,
		MaxConnsPerHost:     c.MaxConnsPerHost,
		MaxIdleConnsPerHost: c.MaxIdleConnsPerHost,
		IdleConnTimeout:     c.IdleConnTimeout,
		DisableKeepAlives:   false,
	}
	if c.ReadTimeout > 0 {
		transport.ResponseHeaderTimeout = c.ReadTimeout
	}

	return &http.Client{
		Transport: transport,
	}
}
