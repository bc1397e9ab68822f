// Package gnverifier provides a client for the Global Names Verifier API.
package gnverifier

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// DefaultBaseURL is the hosted verifier endpoint.
const DefaultBaseURL = "https://verifier.globalnames.org/api/v1"

// defaultTimeout is the per-request socket timeout.
const defaultTimeout = 10 * time.Second

// Client defines the Global Names Verifier operations.
type Client interface {
	// DataSources fetches the catalog of reference data sources.
	DataSources(ctx context.Context) ([]DataSource, error)
	// Verify submits names for verification under the given configuration.
	Verify(ctx context.Context, cfg *RequestConfiguration, names []string) (*Response, error)
}

// Cache stores raw successful response bodies keyed by request. A hit skips
// both the network call and the throttle delay.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, body []byte, ttl time.Duration) error
}

// Throttle delays outbound requests to respect the service's minimum
// inter-request interval.
type Throttle interface {
	Wait(ctx context.Context) error
}

// Option configures the client.
type Option func(*httpClient)

// WithBaseURL sets a custom base URL (for testing).
func WithBaseURL(url string) Option {
	return func(c *httpClient) {
		c.baseURL = url
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *httpClient) {
		c.http = hc
	}
}

// WithTimeout overrides the default 10 s request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *httpClient) {
		c.http.Timeout = d
	}
}

// WithCache enables local response caching with the given validity window.
func WithCache(cache Cache, ttl time.Duration) Option {
	return func(c *httpClient) {
		c.cache = cache
		c.cacheTTL = ttl
	}
}

// WithThrottle enables the inter-request throttle.
func WithThrottle(t Throttle) Option {
	return func(c *httpClient) {
		c.throttle = t
	}
}

type httpClient struct {
	baseURL   string
	userAgent string
	http      *http.Client
	cache     Cache
	cacheTTL  time.Duration
	throttle  Throttle
}

// NewClient creates a verifier client. The email is embedded in the
// User-Agent header so the service operators can reach out about usage.
func NewClient(email string, opts ...Option) Client {
	c := &httpClient{
		baseURL:   DefaultBaseURL,
		userAgent: fmt.Sprintf("gnverifier-cli/1.0 (%s)", email),
		http: &http.Client{
			Timeout: defaultTimeout,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *httpClient) DataSources(ctx context.Context) ([]DataSource, error) {
	body, err := c.get(ctx, "data_sources")
	if err != nil {
		return nil, err
	}

	var sources []DataSource
	if err := json.Unmarshal(body, &sources); err != nil {
		return nil, eris.Wrap(err, "gnverifier: unmarshal data sources")
	}
	if sources == nil {
		sources = []DataSource{}
	}
	return sources, nil
}

func (c *httpClient) Verify(ctx context.Context, cfg *RequestConfiguration, names []string) (*Response, error) {
	payload := cfg.BuildRequest(names)
	body, err := c.post(ctx, "verifications", payload)
	if err != nil {
		return nil, err
	}

	var resp Response
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, eris.Wrap(err, "gnverifier: unmarshal verification response")
	}
	return &resp, nil
}

// get issues a GET request, consulting the cache first. Transport and
// protocol failures propagate; no empty response is ever fabricated.
func (c *httpClient) get(ctx context.Context, endpoint string) ([]byte, error) {
	if body, ok := c.cached(ctx, endpoint); ok {
		return body, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/"+endpoint, nil)
	if err != nil {
		return nil, eris.Wrap(err, "gnverifier: create request")
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)

	return c.do(ctx, req, endpoint)
}

// post issues a POST request with a JSON body. The cache key includes a hash
// of the body so distinct requests never collide.
func (c *httpClient) post(ctx context.Context, endpoint string, payload any) ([]byte, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, eris.Wrap(err, "gnverifier: marshal request payload")
	}

	key := fmt.Sprintf("%s/%x", endpoint, sha256.Sum256(data))
	if body, ok := c.cached(ctx, key); ok {
		return body, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/"+endpoint, bytes.NewReader(data))
	if err != nil {
		return nil, eris.Wrap(err, "gnverifier: create request")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", c.userAgent)

	return c.do(ctx, req, key)
}

func (c *httpClient) do(ctx context.Context, req *http.Request, cacheKey string) ([]byte, error) {
	if c.throttle != nil {
		if err := c.throttle.Wait(ctx); err != nil {
			return nil, eris.Wrap(err, "gnverifier: throttle wait")
		}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, eris.Wrap(err, "gnverifier: request failed")
	}
	defer resp.Body.Close() //nolint:errcheck

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, eris.Wrap(err, "gnverifier: read response body")
	}

	if resp.StatusCode != http.StatusOK {
		return nil, eris.Errorf("gnverifier: unexpected status %d: %s", resp.StatusCode, string(body))
	}

	if c.cache != nil {
		if err := c.cache.Set(ctx, cacheKey, body, c.cacheTTL); err != nil {
			zap.L().Warn("response cache write failed", zap.String("key", cacheKey), zap.Error(err))
		}
	}
	return body, nil
}

// cached returns a cache hit when caching is enabled. Lookup errors are
// logged and treated as misses.
func (c *httpClient) cached(ctx context.Context, key string) ([]byte, bool) {
	if c.cache == nil {
		return nil, false
	}
	body, ok, err := c.cache.Get(ctx, key)
	if err != nil {
		zap.L().Warn("response cache read failed", zap.String("key", key), zap.Error(err))
		return nil, false
	}
	return body, ok
}
