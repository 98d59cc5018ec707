// Package clobrest wraps the CLOB REST surface: market metadata lookups the
// order-building caches are fed from, order submission and cancellation, API
// key management, and the server clock. Endpoints that require
// authentication take a HeaderSigner; the typestate client's authenticated
// handles implement it.
package clobrest

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/cloblabs/clob-go/internal/restcore"
)

// HeaderSigner produces the authentication headers for one request.
type HeaderSigner = restcore.HeaderSigner

// Client talks to one CLOB REST host.
type Client struct {
	rc *restcore.Client
}

// Option configures a Client.
type Option = restcore.Option

// WithTimeout sets the HTTP client timeout.
func WithTimeout(d time.Duration) Option { return restcore.WithTimeout(d) }

// WithRetries sets the retry configuration.
func WithRetries(max int, backoff time.Duration) Option { return restcore.WithRetries(max, backoff) }

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option { return restcore.WithLogger(logger) }

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option { return restcore.WithHTTPClient(hc) }

// New creates a client for baseURL.
func New(baseURL string, opts ...Option) *Client {
	return &Client{rc: restcore.New(baseURL, opts...)}
}
