package clobrest

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/cloblabs/clob-go/internal/model"
	"github.com/cloblabs/clob-go/internal/orderutils"
)

// ServerTime returns the venue's clock as a Unix timestamp in seconds. A
// client configured for server time calls this before every signature.
func (c *Client) ServerTime(ctx context.Context) (int64, error) {
	var raw string
	if err := c.rc.Get(ctx, "/time", nil, nil, &raw); err != nil {
		return 0, err
	}
	ts, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parse server time %q: %w", raw, err)
	}
	return ts, nil
}

// Now implements the typestate client's TimeSource, so a Client can be
// plugged in directly when use_server_time is set.
func (c *Client) Now(ctx context.Context) (int64, error) {
	return c.ServerTime(ctx)
}

// Orderbook fetches the current depth snapshot for tokenID.
func (c *Client) Orderbook(ctx context.Context, tokenID string) (*model.OrderbookSnapshot, error) {
	query := url.Values{}
	query.Set("token_id", tokenID)

	var snap model.OrderbookSnapshot
	if err := c.rc.Get(ctx, "/book", query, nil, &snap); err != nil {
		return nil, fmt.Errorf("get orderbook: %w", err)
	}
	return &snap, nil
}

type tickSizeResponse struct {
	MinimumTickSize string `json:"minimum_tick_size"`
}

// TickSize fetches the minimum tick size for tokenID, mapped onto the
// TickSize enum.
func (c *Client) TickSize(ctx context.Context, tokenID string) (orderutils.TickSize, error) {
	query := url.Values{}
	query.Set("token_id", tokenID)

	var resp tickSizeResponse
	if err := c.rc.Get(ctx, "/tick-size", query, nil, &resp); err != nil {
		return 0, fmt.Errorf("get tick size: %w", err)
	}
	d, err := decimal.NewFromString(resp.MinimumTickSize)
	if err != nil {
		return 0, fmt.Errorf("parse tick size %q: %w", resp.MinimumTickSize, err)
	}
	return orderutils.TickSizeFromDecimal(d)
}

type negRiskResponse struct {
	NegRisk bool `json:"neg_risk"`
}

// NegRisk fetches whether tokenID settles through the neg-risk adapter,
// which selects the alternate verifying contract for order signing.
func (c *Client) NegRisk(ctx context.Context, tokenID string) (bool, error) {
	query := url.Values{}
	query.Set("token_id", tokenID)

	var resp negRiskResponse
	if err := c.rc.Get(ctx, "/neg-risk", query, nil, &resp); err != nil {
		return false, fmt.Errorf("get neg risk: %w", err)
	}
	return resp.NegRisk, nil
}

type feeRateResponse struct {
	BaseFeeBps uint32 `json:"base_fee"`
}

// FeeRate fetches the per-token base fee in basis points.
func (c *Client) FeeRate(ctx context.Context, tokenID string) (orderutils.FeeRate, error) {
	query := url.Values{}
	query.Set("token_id", tokenID)

	var resp feeRateResponse
	if err := c.rc.Get(ctx, "/fee-rate", query, nil, &resp); err != nil {
		return orderutils.FeeRate{}, fmt.Errorf("get fee rate: %w", err)
	}
	return orderutils.FeeRate{BaseFeeBps: resp.BaseFeeBps}, nil
}
