package restcore

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"
	"time"
)

// HeaderSigner produces the authentication headers for one request. The
// typestate client's authenticated handles implement this; nil means the
// request goes out unsigned.
type HeaderSigner interface {
	SignedHeaders(ctx context.Context, method, path, body string) (http.Header, error)
}

// Client performs JSON requests against one REST base URL.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger

	maxRetries   int
	retryBackoff time.Duration
}

// Option configures a Client.
type Option func(*Client)

// New creates a request client for baseURL.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		logger:       slog.Default(),
		maxRetries:   3,
		retryBackoff: time.Second,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// WithTimeout sets the HTTP client timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.httpClient.Timeout = d
	}
}

// WithRetries sets the retry configuration.
func WithRetries(max int, backoff time.Duration) Option {
	return func(c *Client) {
		c.maxRetries = max
		c.retryBackoff = backoff
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// Request describes one REST call.
type Request struct {
	Method string
	Path   string
	Query  url.Values
	// Body, if non-nil, is JSON-marshalled into the request body. The exact
	// serialised bytes are also what a HeaderSigner signs over.
	Body any
	// Signer, if non-nil, contributes authentication headers.
	Signer HeaderSigner
}
