// Package datarest wraps the Data-API REST surface: positions, historical
// trades, and portfolio value. Every listing endpoint is cursor-paginated
// and streamed through the shared pagination iterator.
package datarest

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/cloblabs/clob-go/internal/pagination"
	"github.com/cloblabs/clob-go/internal/restcore"
)

// Client talks to one Data-API REST host. The surface is public; no request
// signing is involved.
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

// Position is one wallet's holding in one outcome token.
type Position struct {
	ProxyWallet  string `json:"proxyWallet"`
	Asset        string `json:"asset"`
	ConditionID  string `json:"conditionId"`
	Size         string `json:"size"`
	AvgPrice     string `json:"avgPrice"`
	CurrentValue string `json:"currentValue"`
	CashPnL      string `json:"cashPnl"`
	PercentPnL   string `json:"percentPnl"`
	Redeemable   bool   `json:"redeemable"`
}

// PositionsQuery narrows a positions listing.
type PositionsQuery struct {
	User   string // wallet address; required
	Market string // optional condition id filter
}

// Positions streams every position matching q, following cursors until the
// end sentinel.
func (c *Client) Positions(ctx context.Context, q PositionsQuery) *pagination.Iterator[Position] {
	return pagination.New(func(cursor string) (pagination.Page[Position], error) {
		query := url.Values{}
		query.Set("user", q.User)
		if q.Market != "" {
			query.Set("market", q.Market)
		}
		if cursor != "" {
			query.Set("next_cursor", cursor)
		}

		var page pagination.Page[Position]
		if err := c.rc.Get(ctx, "/positions", query, nil, &page); err != nil {
			return pagination.Page[Position]{}, fmt.Errorf("get positions: %w", err)
		}
		return page, nil
	})
}

// Trade is one historical fill as the data surface reports it.
type Trade struct {
	ID        string `json:"id"`
	Market    string `json:"market"`
	Asset     string `json:"asset"`
	Side      string `json:"side"`
	Price     string `json:"price"`
	Size      string `json:"size"`
	Timestamp int64  `json:"timestamp"`
	TxHash    string `json:"transactionHash"`
}

// TradesQuery narrows a historical-trades listing.
type TradesQuery struct {
	User   string
	Market string
}

// Trades streams every historical trade matching q.
func (c *Client) Trades(ctx context.Context, q TradesQuery) *pagination.Iterator[Trade] {
	return pagination.New(func(cursor string) (pagination.Page[Trade], error) {
		query := url.Values{}
		if q.User != "" {
			query.Set("user", q.User)
		}
		if q.Market != "" {
			query.Set("market", q.Market)
		}
		if cursor != "" {
			query.Set("next_cursor", cursor)
		}

		var page pagination.Page[Trade]
		if err := c.rc.Get(ctx, "/trades", query, nil, &page); err != nil {
			return pagination.Page[Trade]{}, fmt.Errorf("get trades: %w", err)
		}
		return page, nil
	})
}

// PortfolioValue is the total current value of one wallet's holdings.
type PortfolioValue struct {
	User  string `json:"user"`
	Value string `json:"value"`
}

// Value reads the current portfolio value for user.
func (c *Client) Value(ctx context.Context, user string) (*PortfolioValue, error) {
	query := url.Values{}
	query.Set("user", user)

	var resp PortfolioValue
	if err := c.rc.Get(ctx, "/value", query, nil, &resp); err != nil {
		return nil, fmt.Errorf("get portfolio value: %w", err)
	}
	return &resp, nil
}
