// Package bridgerest wraps the Bridge REST surface: deposit-address
// resolution and bridge transfer status for moving collateral onto the
// venue's chain.
package bridgerest

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/cloblabs/clob-go/internal/restcore"
)

// HeaderSigner produces the authentication headers for one request.
type HeaderSigner = restcore.HeaderSigner

// Client talks to one Bridge REST host.
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

// DepositAddress is one chain-specific address a user funds to bridge
// collateral in.
type DepositAddress struct {
	Chain   string `json:"chain"`
	Address string `json:"address"`
	Token   string `json:"token"`
}

// DepositAddresses resolves the deposit addresses for the authenticated
// wallet.
func (c *Client) DepositAddresses(ctx context.Context, s HeaderSigner) ([]DepositAddress, error) {
	var resp struct {
		Addresses []DepositAddress `json:"addresses"`
	}
	if err := c.rc.Get(ctx, "/deposit-addresses", nil, s, &resp); err != nil {
		return nil, fmt.Errorf("get deposit addresses: %w", err)
	}
	return resp.Addresses, nil
}

// TransferStatus is the bridge's view of one in-flight deposit or
// withdrawal.
type TransferStatus struct {
	ID            string `json:"id"`
	State         string `json:"state"`
	Amount        string `json:"amount"`
	SourceChain   string `json:"source_chain"`
	SourceTxHash  string `json:"source_tx_hash"`
	DestTxHash    string `json:"dest_tx_hash"`
	CreatedAt     string `json:"created_at"`
	CompletedAt   string `json:"completed_at,omitempty"`
	FailureReason string `json:"failure_reason,omitempty"`
}

// Status reads the state of one bridge transfer by id.
func (c *Client) Status(ctx context.Context, s HeaderSigner, transferID string) (*TransferStatus, error) {
	query := url.Values{}
	query.Set("id", transferID)

	var resp TransferStatus
	if err := c.rc.Get(ctx, "/transfer", query, s, &resp); err != nil {
		return nil, fmt.Errorf("get transfer status: %w", err)
	}
	return &resp, nil
}
