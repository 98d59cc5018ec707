package clobrest

import (
	"context"
	"fmt"
	"math/big"
	"net/url"
	"strconv"

	"github.com/cloblabs/clob-go/internal/errs"
	"github.com/cloblabs/clob-go/internal/orderutils"
	"github.com/cloblabs/clob-go/internal/pagination"
	"github.com/cloblabs/clob-go/internal/signer"
)

// WireOrder is the submitted order's JSON form. Every uint256 field except
// salt is a decimal string; salt is a JSON number (hence its 53-bit cap) and
// side is the uppercase string, not the numeric enum the typed-data hash
// uses.
type WireOrder struct {
	Salt          uint64 `json:"salt"`
	Maker         string `json:"maker"`
	Signer        string `json:"signer"`
	Taker         string `json:"taker"`
	TokenID       string `json:"tokenId"`
	MakerAmount   string `json:"makerAmount"`
	TakerAmount   string `json:"takerAmount"`
	Expiration    string `json:"expiration"`
	Nonce         string `json:"nonce"`
	FeeRateBps    string `json:"feeRateBps"`
	Side          string `json:"side"`
	SignatureType uint8  `json:"signatureType"`
	Signature     string `json:"signature"`
}

// OrderEnvelope is the full order-submission payload. PostOnly is elided
// when false; the server treats an absent field and false identically, and
// market orders never carry it at all.
type OrderEnvelope struct {
	Order     WireOrder `json:"order"`
	OrderType string    `json:"orderType"`
	Owner     string    `json:"owner"`
	PostOnly  bool      `json:"postOnly,omitempty"`
}

func sideString(s signer.Side) string {
	if s == signer.SideSell {
		return "SELL"
	}
	return "BUY"
}

// NewOrderEnvelope folds a signed order into its submission payload. owner
// is the API key the order is attributed to.
func NewOrderEnvelope(o signer.SignedOrder, orderType orderutils.OrderType, owner string, postOnly bool) OrderEnvelope {
	return OrderEnvelope{
		Order: WireOrder{
			Salt:          o.Salt,
			Maker:         o.Maker,
			Signer:        o.Signer,
			Taker:         o.Taker,
			TokenID:       o.TokenID.String(),
			MakerAmount:   o.MakerAmount.String(),
			TakerAmount:   o.TakerAmount.String(),
			Expiration:    strconv.FormatInt(o.Expiration, 10),
			Nonce:         strconv.FormatUint(o.Nonce, 10),
			FeeRateBps:    strconv.FormatUint(o.FeeRateBps, 10),
			Side:          sideString(o.Side),
			SignatureType: uint8(o.SignatureType),
			Signature:     o.Signature,
		},
		OrderType: orderType.String(),
		Owner:     owner,
		PostOnly:  postOnly,
	}
}

// SignedOrder reverses NewOrderEnvelope's fold back into the typed order.
func (e OrderEnvelope) SignedOrder() (signer.SignedOrder, error) {
	tokenID, ok := new(big.Int).SetString(e.Order.TokenID, 10)
	if !ok {
		return signer.SignedOrder{}, errs.Validation("malformed tokenId %q", e.Order.TokenID)
	}
	makerAmount, ok := new(big.Int).SetString(e.Order.MakerAmount, 10)
	if !ok {
		return signer.SignedOrder{}, errs.Validation("malformed makerAmount %q", e.Order.MakerAmount)
	}
	takerAmount, ok := new(big.Int).SetString(e.Order.TakerAmount, 10)
	if !ok {
		return signer.SignedOrder{}, errs.Validation("malformed takerAmount %q", e.Order.TakerAmount)
	}
	expiration, err := strconv.ParseInt(e.Order.Expiration, 10, 64)
	if err != nil {
		return signer.SignedOrder{}, errs.Validation("malformed expiration %q", e.Order.Expiration)
	}
	nonce, err := strconv.ParseUint(e.Order.Nonce, 10, 64)
	if err != nil {
		return signer.SignedOrder{}, errs.Validation("malformed nonce %q", e.Order.Nonce)
	}
	feeRateBps, err := strconv.ParseUint(e.Order.FeeRateBps, 10, 64)
	if err != nil {
		return signer.SignedOrder{}, errs.Validation("malformed feeRateBps %q", e.Order.FeeRateBps)
	}
	side := signer.SideBuy
	if e.Order.Side == "SELL" {
		side = signer.SideSell
	}
	return signer.SignedOrder{
		SignableOrder: signer.SignableOrder{
			Salt:          e.Order.Salt,
			Maker:         e.Order.Maker,
			Signer:        e.Order.Signer,
			Taker:         e.Order.Taker,
			TokenID:       tokenID,
			MakerAmount:   makerAmount,
			TakerAmount:   takerAmount,
			Expiration:    expiration,
			Nonce:         nonce,
			FeeRateBps:    feeRateBps,
			Side:          side,
			SignatureType: signer.SignatureType(e.Order.SignatureType),
		},
		Signature: e.Order.Signature,
	}, nil
}

// PostOrderResponse is the venue's reply to an order submission.
type PostOrderResponse struct {
	Success   bool     `json:"success"`
	ErrorMsg  string   `json:"errorMsg"`
	OrderID   string   `json:"orderID"`
	Status    string   `json:"status"`
	TakingAmt string   `json:"takingAmount"`
	MakingAmt string   `json:"makingAmount"`
	TradeIDs  []string `json:"transactionsHashes"`
}

// PostOrder submits env under s's credentials.
func (c *Client) PostOrder(ctx context.Context, s HeaderSigner, env OrderEnvelope) (*PostOrderResponse, error) {
	var resp PostOrderResponse
	if err := c.rc.Post(ctx, "/order", env, s, &resp); err != nil {
		return nil, fmt.Errorf("post order: %w", err)
	}
	return &resp, nil
}

// CancelResponse reports which order ids a cancel request succeeded or
// failed for.
type CancelResponse struct {
	Canceled    []string          `json:"canceled"`
	NotCanceled map[string]string `json:"not_canceled"`
}

// CancelOrder cancels a single resting order by id.
func (c *Client) CancelOrder(ctx context.Context, s HeaderSigner, orderID string) (*CancelResponse, error) {
	body := map[string]string{"orderID": orderID}
	var resp CancelResponse
	if err := c.rc.Delete(ctx, "/order", body, s, &resp); err != nil {
		return nil, fmt.Errorf("cancel order: %w", err)
	}
	return &resp, nil
}

// CancelOrders cancels a batch of resting orders by id.
func (c *Client) CancelOrders(ctx context.Context, s HeaderSigner, orderIDs []string) (*CancelResponse, error) {
	var resp CancelResponse
	if err := c.rc.Delete(ctx, "/orders", orderIDs, s, &resp); err != nil {
		return nil, fmt.Errorf("cancel orders: %w", err)
	}
	return &resp, nil
}

// CancelAll cancels every resting order the credentials own.
func (c *Client) CancelAll(ctx context.Context, s HeaderSigner) (*CancelResponse, error) {
	var resp CancelResponse
	if err := c.rc.Delete(ctx, "/cancel-all", nil, s, &resp); err != nil {
		return nil, fmt.Errorf("cancel all orders: %w", err)
	}
	return &resp, nil
}

// OpenOrder is one resting order as the venue reports it.
type OpenOrder struct {
	ID           string `json:"id"`
	Market       string `json:"market"`
	AssetID      string `json:"asset_id"`
	Side         string `json:"side"`
	Price        string `json:"price"`
	OriginalSize string `json:"original_size"`
	SizeMatched  string `json:"size_matched"`
	OrderType    string `json:"order_type"`
	CreatedAt    int64  `json:"created_at"`
	Expiration   string `json:"expiration"`
}

// OpenOrdersQuery narrows an open-orders listing.
type OpenOrdersQuery struct {
	Market  string
	AssetID string
}

// OpenOrders streams every resting order matching q, following cursors until
// the end sentinel.
func (c *Client) OpenOrders(ctx context.Context, s HeaderSigner, q OpenOrdersQuery) *pagination.Iterator[OpenOrder] {
	return pagination.New(func(cursor string) (pagination.Page[OpenOrder], error) {
		query := url.Values{}
		if q.Market != "" {
			query.Set("market", q.Market)
		}
		if q.AssetID != "" {
			query.Set("asset_id", q.AssetID)
		}
		if cursor != "" {
			query.Set("next_cursor", cursor)
		}

		var page pagination.Page[OpenOrder]
		if err := c.rc.Get(ctx, "/orders", query, s, &page); err != nil {
			return pagination.Page[OpenOrder]{}, fmt.Errorf("get open orders: %w", err)
		}
		return page, nil
	})
}
