package metadata

import (
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"
)

// DefaultRepository is Maven Central, used when no repositories are
// configured.
const DefaultRepository = "https://repo.maven.apache.org/maven2"

// Client configuration defaults.
const (
	DefaultMaxIdleConns        = 50
	DefaultMaxIdleConnsPerHost = 20
	DefaultIdleConnTimeout     = 90 * time.Second
	DefaultRequestTimeout      = 15 * time.Second
)

// Sentinel errors for common repository failures.
var (
	// ErrNotFound indicates the coordinate has no metadata in the repository.
	ErrNotFound = errors.New("metadata not found")

	// ErrUnavailable indicates the repository could not be reached or
	// returned an unusable response.
	ErrUnavailable = errors.New("repository unavailable")
)

// RepositoryError reports an HTTP-level failure from a repository.
type RepositoryError struct {
	URL        string
	StatusCode int
}

func (e *RepositoryError) Error() string {
	return fmt.Sprintf("repository returned status %d for %s", e.StatusCode, e.URL)
}

// Unwrap maps the status code onto the package sentinels so callers can use
// errors.Is without inspecting status codes.
func (e *RepositoryError) Unwrap() error {
	if e.StatusCode == http.StatusNotFound {
		return ErrNotFound
	}
	return ErrUnavailable
}

// Client fetches maven-metadata.xml documents from a single repository.
// Responses are cached per coordinate for the lifetime of the client, so
// one client should not outlive the session whose view it caches.
type Client struct {
	baseURL string
	client  *http.Client
	cache   sync.Map // map[string]*Metadata keyed by "group:artifact"
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(client *http.Client) ClientOption {
	return func(c *Client) {
		c.client = client
	}
}

// WithTimeout sets a custom HTTP request timeout.
// Zero or negative values fall back to the default timeout.
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		if timeout > 0 {
			c.client.Timeout = timeout
		} else {
			c.client.Timeout = DefaultRequestTimeout
		}
	}
}

// NewClient creates a client for the given repository URL.
func NewClient(baseURL string, opts ...ClientOption) *Client {
	transport := &http.Transport{
		MaxIdleConns:        DefaultMaxIdleConns,
		MaxIdleConnsPerHost: DefaultMaxIdleConnsPerHost,
		IdleConnTimeout:     DefaultIdleConnTimeout,
		DisableCompression:  false,
	}

	c := &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		client: &http.Client{
			Timeout:   DefaultRequestTimeout,
			Transport: transport,
		},
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// URL returns the repository base URL.
func (c *Client) URL() string {
	return c.baseURL
}

// GetMetadata fetches and parses the metadata document for a coordinate.
// Results are cached by coordinate, so repeated calls for the same
// group/artifact hit the network at most once.
func (c *Client) GetMetadata(ctx context.Context, groupID, artifactID string) (*Metadata, error) {
	cacheKey := groupID + ":" + artifactID
	if cached, ok := c.cache.Load(cacheKey); ok {
		return cached.(*Metadata), nil
	}

	url := fmt.Sprintf("%s/%s/%s/maven-metadata.xml", c.baseURL, strings.ReplaceAll(groupID, ".", "/"), artifactID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch metadata for %s: %w: %w", cacheKey, ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &RepositoryError{URL: url, StatusCode: resp.StatusCode}
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read metadata for %s: %w: %w", cacheKey, ErrUnavailable, err)
	}

	var meta Metadata
	if err := xml.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("parse metadata for %s: %w: %w", cacheKey, ErrUnavailable, err)
	}

	c.cache.Store(cacheKey, &meta)
	return &meta, nil
}
