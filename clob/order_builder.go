package clob

import (
	"math/big"

	"github.com/shopspring/decimal"

	"github.com/cloblabs/clob-go/internal/errs"
	"github.com/cloblabs/clob-go/internal/orderutils"
	"github.com/cloblabs/clob-go/internal/signer"
)

// LimitOrderBuilder is a fluent builder for a signed limit order.
// Build requires a cached tick size and fee rate for tokenID; callers
// populate those with SetTickSize/SetFeeRate before building.
type LimitOrderBuilder struct {
	inner   *Inner
	tokenID *big.Int
	side    orderutils.Side
	price   decimal.Decimal
	size    decimal.Decimal

	nonce      uint64
	expiration int64
	taker      string
	orderType  orderutils.OrderType
	postOnly   bool
	funder     string
	sigType    signer.SignatureType
}

func (b *LimitOrderBuilder) Nonce(nonce uint64) *LimitOrderBuilder { b.nonce = nonce; return b }
func (b *LimitOrderBuilder) Expiration(unixSeconds int64) *LimitOrderBuilder {
	b.expiration = unixSeconds
	return b
}
func (b *LimitOrderBuilder) Taker(address string) *LimitOrderBuilder { b.taker = address; return b }
func (b *LimitOrderBuilder) OrderType(t orderutils.OrderType) *LimitOrderBuilder {
	b.orderType = t
	return b
}
func (b *LimitOrderBuilder) PostOnly(v bool) *LimitOrderBuilder        { b.postOnly = v; return b }
func (b *LimitOrderBuilder) Funder(address string) *LimitOrderBuilder  { b.funder = address; return b }
func (b *LimitOrderBuilder) SignatureType(t signer.SignatureType) *LimitOrderBuilder {
	b.sigType = t
	return b
}

// Build validates the accumulated parameters, constructs the unsigned order,
// and signs it with the handle's signer.
func (b *LimitOrderBuilder) Build() (signer.SignedOrder, error) {
	key := b.tokenID.String()
	tickSize, ok := b.cachedTickSize(key)
	if !ok {
		return signer.SignedOrder{}, errs.Validation("no cached tick size for token %s; call SetTickSize first", key)
	}
	feeRate, ok := b.cachedFeeRate(key)
	if !ok {
		return signer.SignedOrder{}, errs.Validation("no cached fee rate for token %s; call SetFeeRate first", key)
	}
	negRisk, _ := b.cachedNegRisk(key) // absent defaults to the standard (non-neg-risk) contract

	order, err := orderutils.BuildLimitOrder(b.inner.signer.Address, tickSize, feeRate, orderutils.LimitOrderParams{
		TokenID:       b.tokenID,
		Side:          b.side,
		Price:         b.price,
		Size:          b.size,
		Nonce:         b.nonce,
		Expiration:    b.expiration,
		Taker:         b.taker,
		OrderType:     b.orderType,
		PostOnly:      b.postOnly,
		Funder:        b.funder,
		SignatureType: b.sigType,
	})
	if err != nil {
		return signer.SignedOrder{}, err
	}
	return signer.SignOrder(b.inner.signer, b.inner.chain, negRisk, order)
}

func (b *LimitOrderBuilder) cachedTickSize(key string) (orderutils.TickSize, bool) {
	v, ok := b.inner.tickSizes.Load(key)
	if !ok {
		return 0, false
	}
	return v.(orderutils.TickSize), true
}

func (b *LimitOrderBuilder) cachedFeeRate(key string) (orderutils.FeeRate, bool) {
	v, ok := b.inner.feeRates.Load(key)
	if !ok {
		return orderutils.FeeRate{}, false
	}
	return v.(orderutils.FeeRate), true
}

func (b *LimitOrderBuilder) cachedNegRisk(key string) (bool, bool) {
	v, ok := b.inner.negRisks.Load(key)
	if !ok {
		return false, false
	}
	return v.(bool), true
}

// MarketOrderBuilder is a fluent builder for a signed market order.
// Build needs the current order-book depth on the opposing side to resolve
// a cutoff price unless Price was called explicitly; fetching that depth is
// out of clob's scope, so callers pass
// it in from a subscribed book event or a REST wrapper.
type MarketOrderBuilder struct {
	inner   *Inner
	tokenID *big.Int
	side    orderutils.Side
	amount  orderutils.Amount

	price     *decimal.Decimal
	nonce     uint64
	taker     string
	orderType orderutils.OrderType
	funder    string
	sigType   signer.SignatureType
}

func (b *MarketOrderBuilder) Price(p decimal.Decimal) *MarketOrderBuilder { b.price = &p; return b }
func (b *MarketOrderBuilder) Nonce(nonce uint64) *MarketOrderBuilder      { b.nonce = nonce; return b }
func (b *MarketOrderBuilder) Taker(address string) *MarketOrderBuilder   { b.taker = address; return b }
func (b *MarketOrderBuilder) OrderType(t orderutils.OrderType) *MarketOrderBuilder {
	b.orderType = t
	return b
}
func (b *MarketOrderBuilder) Funder(address string) *MarketOrderBuilder { b.funder = address; return b }
func (b *MarketOrderBuilder) SignatureType(t signer.SignatureType) *MarketOrderBuilder {
	b.sigType = t
	return b
}

// Build resolves the cutoff price from levels (the current opposing side of
// the book, shallowest to deepest) when Price was not called explicitly,
// then validates and signs the order.
func (b *MarketOrderBuilder) Build(levels []orderutils.PriceLevel) (signer.SignedOrder, error) {
	key := b.tokenID.String()
	tickSize, ok := b.cachedTickSize(key)
	if !ok {
		return signer.SignedOrder{}, errs.Validation("no cached tick size for token %s; call SetTickSize first", key)
	}
	feeRate, ok := b.cachedFeeRate(key)
	if !ok {
		return signer.SignedOrder{}, errs.Validation("no cached fee rate for token %s; call SetFeeRate first", key)
	}
	negRisk, _ := b.cachedNegRisk(key)

	price := decimal.Decimal{}
	if b.price != nil {
		price = *b.price
	} else {
		cutoff, err := orderutils.CalculateCutoffPrice(levels, b.amount, b.orderType)
		if err != nil {
			return signer.SignedOrder{}, err
		}
		price = cutoff
	}

	order, err := orderutils.BuildMarketOrder(b.inner.signer.Address, tickSize, feeRate, orderutils.MarketOrderParams{
		TokenID:       b.tokenID,
		Side:          b.side,
		Amount:        b.amount,
		Price:         price,
		Nonce:         b.nonce,
		Taker:         b.taker,
		OrderType:     b.orderType,
		Funder:        b.funder,
		SignatureType: b.sigType,
	})
	if err != nil {
		return signer.SignedOrder{}, err
	}
	return signer.SignOrder(b.inner.signer, b.inner.chain, negRisk, order)
}

func (b *MarketOrderBuilder) cachedTickSize(key string) (orderutils.TickSize, bool) {
	v, ok := b.inner.tickSizes.Load(key)
	if !ok {
		return 0, false
	}
	return v.(orderutils.TickSize), true
}

func (b *MarketOrderBuilder) cachedFeeRate(key string) (orderutils.FeeRate, bool) {
	v, ok := b.inner.feeRates.Load(key)
	if !ok {
		return orderutils.FeeRate{}, false
	}
	return v.(orderutils.FeeRate), true
}

func (b *MarketOrderBuilder) cachedNegRisk(key string) (bool, bool) {
	v, ok := b.inner.negRisks.Load(key)
	if !ok {
		return false, false
	}
	return v.(bool), true
}
