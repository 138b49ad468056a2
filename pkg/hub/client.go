// Package hub provides a client for the remote dataset repository: it
// loads a dataset's splits and publishes new two-split datasets.
package hub

import (
	"context"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"golang.org/x/time/rate"

	"github.com/sells-group/dataset-prep/internal/dataset"
)

// Client defines the dataset repository operations.
type Client interface {
	// Load fetches every split of the dataset named by repoID.
	Load(ctx context.Context, repoID string) (*dataset.Dataset, error)
	// Publish uploads the dataset under repoID, creating the repository
	// if absent, and returns its canonical address.
	Publish(ctx context.Context, repoID string, ds *dataset.Dataset, opts PublishOptions) (string, error)
}

// PublishOptions controls a publish call.
type PublishOptions struct {
	// Private creates the repository with private visibility.
	Private bool
	// Token is the upload credential. Publish fails without it, before
	// any network activity.
	Token string
}

// Option configures the hub client.
type Option func(*httpClient)

// WithBaseURL sets a custom base URL (for testing).
func WithBaseURL(url string) Option {
	return func(c *httpClient) {
		c.baseURL = strings.TrimSuffix(url, "/")
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *httpClient) {
		c.http = hc
	}
}

// WithToken sets a read credential used on Load for private datasets.
func WithToken(token string) Option {
	return func(c *httpClient) {
		c.token = token
	}
}

// WithRateLimit overrides the requests-per-second limit.
func WithRateLimit(rps float64) Option {
	return func(c *httpClient) {
		c.limiter = rate.NewLimiter(rate.Limit(rps), 1)
	}
}

type httpClient struct {
	baseURL string
	token   string
	http    *http.Client
	limiter *rate.Limiter
}

// NewClient creates a hub client.
func NewClient(opts ...Option) Client {
	c := &httpClient{
		baseURL: "https://hub.sells.dev",
		http: &http.Client{
			Timeout: 120 * time.Second,
		},
		limiter: rate.NewLimiter(rate.Limit(5), 1),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// do issues one rate-limited request. token overrides the client-level
// credential when non-empty.
func (c *httpClient) do(ctx context.Context, method, url string, body io.Reader, contentType, token string) (*http.Response, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, eris.Wrap(err, "hub: rate limit wait")
	}

	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, eris.Wrap(err, "hub: build request")
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if token == "" {
		token = c.token
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, eris.Wrapf(err, "hub: %s %s", method, url)
	}
	return resp, nil
}

// resolve turns a manifest file reference into an absolute URL.
func (c *httpClient) resolve(ref string) string {
	if strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://") {
		return ref
	}
	return c.baseURL + "/" + strings.TrimPrefix(ref, "/")
}
