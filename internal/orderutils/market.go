package orderutils

import (
	"math/big"

	"github.com/shopspring/decimal"

	"github.com/cloblabs/clob-go/internal/errs"
	"github.com/cloblabs/clob-go/internal/signer"
)

// PriceLevel is one rung of an order book's bid or ask side. levels[0] is
// top-of-book (the best price); the list runs from shallowest to deepest —
// the shape CalculateCutoffPrice walks.
type PriceLevel struct {
	Price decimal.Decimal
	Size  decimal.Decimal
}

// CalculateCutoffPrice walks levels from deepest to shallowest (i.e. in
// reverse), accumulating notional or shares, and returns the price of the
// first level in that walk at which the running sum reaches or exceeds
// amount:
//   - amount in USDC: accumulate price*size until the running sum >= amount
//   - amount in shares: accumulate size until the running sum >= amount
// If the cutoff is never reached: FOK orders are rejected (no liquidity);
// FAK callers get the top-of-book (levels[0]) price.
func CalculateCutoffPrice(levels []PriceLevel, amount Amount, orderType OrderType) (decimal.Decimal, error) {
	if len(levels) == 0 {
		return decimal.Decimal{}, errs.Validation("no opposing orders, so there is no market price")
	}

	sum := decimal.Zero
	for i := len(levels) - 1; i >= 0; i-- {
		level := levels[i]
		switch amount.Kind {
		case AmountUSDC:
			sum = sum.Add(level.Size.Mul(level.Price))
		case AmountShares:
			sum = sum.Add(level.Size)
		}
		if sum.GreaterThanOrEqual(amount.Value) {
			return level.Price, nil
		}
	}

	if orderType == OrderFOK {
		return decimal.Decimal{}, errs.Validation("insufficient liquidity to fill order at %s", amount.Value)
	}
	return levels[0].Price, nil
}

// MarketOrderParams is everything BuildMarketOrder needs beyond market
// metadata and, when Price is the zero value, an already-resolved cutoff price
// from CalculateCutoffPrice.
type MarketOrderParams struct {
	TokenID       *big.Int
	Side          Side
	Amount        Amount
	Price         decimal.Decimal // resolved cutoff price; required
	Nonce         uint64
	Taker         string
	OrderType     OrderType // must be FAK or FOK
	Funder        string
	SignatureType signer.SignatureType
}

// BuildMarketOrder validates params and returns the unsigned order ready for
// internal/signer.SignOrder. Sell orders must specify Amount in shares;
// only FAK/FOK order types are valid for market orders.
func BuildMarketOrder(signerAddress string, tickSize TickSize, feeRate FeeRate, p MarketOrderParams) (signer.SignableOrder, error) {
	if p.TokenID == nil {
		return signer.SignableOrder{}, errs.Validation("missing token ID")
	}
	if p.OrderType != OrderFAK && p.OrderType != OrderFOK {
		return signer.SignableOrder{}, errs.Validation("cannot set an order type other than FAK/FOK for a market order")
	}
	if p.Side == SideSell && p.Amount.Kind == AmountUSDC {
		return signer.SignableOrder{}, errs.Validation("sell orders must specify amount in shares")
	}

	decimals := tickSize.Scale()
	minTick := tickSize.AsDecimal()
	price := p.Price.Truncate(decimals)

	one := decimal.NewFromInt(1)
	upperBound := one.Sub(minTick)
	if price.LessThan(minTick) || price.GreaterThan(upperBound) {
		return signer.SignableOrder{}, errs.Validation(
			"price %s is too small or too large for minimum tick size %s", price, minTick)
	}

	scale := decimals + LotSizeScale
	raw := p.Amount.Value

	var takerAmount, makerAmount decimal.Decimal
	switch {
	case p.Side == SideBuy && p.Amount.Kind == AmountUSDC:
		takerAmount = raw.Div(price).Truncate(scale)
		makerAmount = raw
	case p.Side == SideBuy && p.Amount.Kind == AmountShares:
		makerAmount = raw.Mul(price).Truncate(scale)
		takerAmount = raw
	case p.Side == SideSell && p.Amount.Kind == AmountShares:
		takerAmount = raw.Mul(price).Truncate(scale)
		makerAmount = raw
	default:
		return signer.SignableOrder{}, errs.Validation("invalid side/amount combination")
	}

	maker := p.Funder
	if maker == "" {
		maker = signerAddress
	}
	taker := p.Taker
	if taker == "" {
		taker = "0x0000000000000000000000000000000000000000"
	}

	return signer.SignableOrder{
		Salt:          signer.NewSalt(),
		Maker:         maker,
		Signer:        signerAddress,
		Taker:         taker,
		TokenID:       p.TokenID,
		MakerAmount:   ToFixedPoint(makerAmount),
		TakerAmount:   ToFixedPoint(takerAmount),
		Expiration:    0,
		Nonce:         p.Nonce,
		FeeRateBps:    uint64(feeRate.BaseFeeBps),
		Side:          signer.Side(p.Side),
		SignatureType: p.SignatureType,
	}, nil
}
