// Package gammarest wraps the Gamma REST surface: market and event
// metadata. The surface is public and offset-paginated rather than
// cursor-paginated.
package gammarest

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/cloblabs/clob-go/internal/restcore"
)

// Client talks to one Gamma REST host.
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

// Market is one tradable market's metadata.
type Market struct {
	ID            string   `json:"id"`
	Question      string   `json:"question"`
	ConditionID   string   `json:"conditionId"`
	Slug          string   `json:"slug"`
	Active        bool     `json:"active"`
	Closed        bool     `json:"closed"`
	NegRisk       bool     `json:"negRisk"`
	ClobTokenIDs  string   `json:"clobTokenIds"` // JSON-encoded array of decimal strings
	Outcomes      string   `json:"outcomes"`     // JSON-encoded array of outcome labels
	Volume        string   `json:"volume"`
	Liquidity     string   `json:"liquidity"`
	EndDate       string   `json:"endDate"`
	Tags          []string `json:"tags,omitempty"`
	OrderBookSlug string   `json:"marketMakerAddress,omitempty"`
}

// MarketsQuery narrows a markets listing.
type MarketsQuery struct {
	Slugs  []string
	Active *bool
	Closed *bool
	Limit  int
	Offset int
}

// Markets fetches one page of market metadata matching q.
func (c *Client) Markets(ctx context.Context, q MarketsQuery) ([]Market, error) {
	query := url.Values{}
	if len(q.Slugs) > 0 {
		query.Set("slug", strings.Join(q.Slugs, ","))
	}
	if q.Active != nil {
		query.Set("active", strconv.FormatBool(*q.Active))
	}
	if q.Closed != nil {
		query.Set("closed", strconv.FormatBool(*q.Closed))
	}
	if q.Limit > 0 {
		query.Set("limit", strconv.Itoa(q.Limit))
	}
	if q.Offset > 0 {
		query.Set("offset", strconv.Itoa(q.Offset))
	}

	var markets []Market
	if err := c.rc.Get(ctx, "/markets", query, nil, &markets); err != nil {
		return nil, fmt.Errorf("get markets: %w", err)
	}
	return markets, nil
}

// Event is a group of related markets under one umbrella question.
type Event struct {
	ID      string   `json:"id"`
	Title   string   `json:"title"`
	Slug    string   `json:"slug"`
	Active  bool     `json:"active"`
	Closed  bool     `json:"closed"`
	Markets []Market `json:"markets,omitempty"`
}

// EventsQuery narrows an events listing.
type EventsQuery struct {
	Slugs  []string
	Active *bool
	Limit  int
	Offset int
}

// Events fetches one page of event metadata matching q.
func (c *Client) Events(ctx context.Context, q EventsQuery) ([]Event, error) {
	query := url.Values{}
	if len(q.Slugs) > 0 {
		query.Set("slug", strings.Join(q.Slugs, ","))
	}
	if q.Active != nil {
		query.Set("active", strconv.FormatBool(*q.Active))
	}
	if q.Limit > 0 {
		query.Set("limit", strconv.Itoa(q.Limit))
	}
	if q.Offset > 0 {
		query.Set("offset", strconv.Itoa(q.Offset))
	}

	var events []Event
	if err := c.rc.Get(ctx, "/events", query, nil, &events); err != nil {
		return nil, fmt.Errorf("get events: %w", err)
	}
	return events, nil
}
