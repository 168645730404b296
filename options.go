package pomparent

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/pomtools/go-pomparent/metadata"
)

// Option configures an upgrade session.
type Option func(*sessionConfig) error

// sessionConfig holds all session configuration.
type sessionConfig struct {
	repositories []string
	timeout      time.Duration
	httpClient   *http.Client
	fetcher      metadata.Fetcher
	failures     *metadata.Failures

	// logger is the structured logger for debug/info output.
	// If nil, logging is disabled (silent mode).
	logger *slog.Logger
}

// WithRepositories sets the repository URLs to fetch metadata from, in
// priority order. Maven Central is used when none are configured.
func WithRepositories(urls ...string) Option {
	return func(c *sessionConfig) error {
		c.repositories = append(c.repositories, urls...)
		return nil
	}
}

// WithTimeout sets the HTTP request timeout for metadata fetches.
func WithTimeout(d time.Duration) Option {
	return func(c *sessionConfig) error {
		c.timeout = d
		return nil
	}
}

// WithHTTPClient sets a custom HTTP client for metadata fetches.
func WithHTTPClient(client *http.Client) Option {
	return func(c *sessionConfig) error {
		c.httpClient = client
		return nil
	}
}

// WithMetadataFetcher replaces the repository chain with a custom fetcher.
// Intended for tests and callers with their own repository access layer;
// WithRepositories, WithTimeout and WithHTTPClient are ignored when set.
func WithMetadataFetcher(f metadata.Fetcher) Option {
	return func(c *sessionConfig) error {
		if f == nil {
			return errors.New("metadata fetcher must not be nil")
		}
		c.fetcher = f
		return nil
	}
}

// WithFailures sets the ledger that metadata fetch failures are recorded
// into, so a caller driving many documents can report them all afterwards.
func WithFailures(ledger *metadata.Failures) Option {
	return func(c *sessionConfig) error {
		c.failures = ledger
		return nil
	}
}

// WithLogger sets a structured logger for upgrade diagnostics.
// If not set, logging is disabled (silent mode).
func WithLogger(l *slog.Logger) Option {
	return func(c *sessionConfig) error {
		c.logger = l
		return nil
	}
}

// validate checks the configuration for logical consistency.
func (c *sessionConfig) validate() error {
	if c.timeout < 0 {
		return errors.New("timeout must be positive")
	}
	return nil
}

// log returns the configured logger, or a no-op logger if none was set.
// Libraries should be silent by default; users opt in via WithLogger.
func (c *sessionConfig) log() *slog.Logger {
	if c.logger != nil {
		return c.logger
	}
	return slog.New(discardHandler{})
}

// newFetcher builds the metadata fetcher for one session: the configured
// one if present, otherwise a repository chain over the configured (or
// default) repository URLs.
func (c *sessionConfig) newFetcher() (metadata.Fetcher, error) {
	if c.fetcher != nil {
		return c.fetcher, nil
	}
	repos := c.repositories
	if len(repos) == 0 {
		repos = []string{metadata.DefaultRepository}
	}
	if c.httpClient != nil {
		clients := make([]metadata.Fetcher, 0, len(repos))
		for _, url := range repos {
			clients = append(clients, metadata.NewClient(url, metadata.WithHTTPClient(c.httpClient)))
		}
		return metadata.NewChainOf(clients...)
	}
	return metadata.NewChain(repos, c.timeout)
}

// discardHandler is a slog.Handler that discards all log records, so
// internal code can log without nil checks.
type discardHandler struct{}

func (discardHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (discardHandler) Handle(context.Context, slog.Record) error { return nil }
func (d discardHandler) WithAttrs([]slog.Attr) slog.Handler      { return d }
func (d discardHandler) WithGroup(string) slog.Handler           { return d }

// newSessionConfig applies the given options and validates the result.
func newSessionConfig(opts ...Option) (*sessionConfig, error) {
	c := &sessionConfig{}
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}
	if err := c.validate(); err != nil {
		return nil, err
	}
	return c, nil
}
