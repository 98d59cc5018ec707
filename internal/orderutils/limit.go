package orderutils

import (
	"math/big"

	"github.com/shopspring/decimal"

	"github.com/cloblabs/clob-go/internal/errs"
	"github.com/cloblabs/clob-go/internal/signer"
)

// LimitOrderParams is everything a limit order build needs beyond the market
// metadata (tick size, fee rate) the caller's client resolves and passes in.
type LimitOrderParams struct {
	TokenID       *big.Int
	Side          Side
	Price         decimal.Decimal
	Size          decimal.Decimal
	Nonce         uint64
	Expiration    int64 // unix seconds; 0 unless OrderType is GTD
	Taker         string
	OrderType     OrderType
	PostOnly      bool
	Funder        string // defaults to signer's own address when empty
	SignatureType signer.SignatureType
}

// BuildLimitOrder validates params against tickSize/feeRate and returns the
// unsigned order ready for internal/signer.SignOrder.
func BuildLimitOrder(signerAddress string, tickSize TickSize, feeRate FeeRate, p LimitOrderParams) (signer.SignableOrder, error) {
	if p.TokenID == nil {
		return signer.SignableOrder{}, errs.Validation("missing token ID")
	}
	if p.Price.IsNegative() {
		return signer.SignableOrder{}, errs.Validation("negative price %s", p.Price)
	}

	decimals := tickSize.Scale()
	minTick := tickSize.AsDecimal()

	if -p.Price.Exponent() > decimals {
		return signer.SignableOrder{}, errs.Validation(
			"price %s has more decimal places than minimum tick size %s allows", p.Price, minTick)
	}

	one := decimal.NewFromInt(1)
	upperBound := one.Sub(minTick)
	if p.Price.LessThan(minTick) || p.Price.GreaterThan(upperBound) {
		return signer.SignableOrder{}, errs.Validation(
			"price %s is too small or too large for minimum tick size %s", p.Price, minTick)
	}

	if -p.Size.Exponent() > LotSizeScale {
		return signer.SignableOrder{}, errs.Validation(
			"size %s has more decimal places than the maximum lot size of %d allows", p.Size, LotSizeScale)
	}
	if p.Size.IsZero() || p.Size.IsNegative() {
		return signer.SignableOrder{}, errs.Validation("non-positive size %s", p.Size)
	}

	if p.OrderType != OrderGTD && p.Expiration != 0 {
		return signer.SignableOrder{}, errs.Validation("only GTD orders may have a non-zero expiration")
	}
	if p.PostOnly && p.OrderType != OrderGTC && p.OrderType != OrderGTD {
		return signer.SignableOrder{}, errs.Validation("postOnly is only supported for GTC and GTD orders")
	}

	scale := decimals + LotSizeScale

	var takerAmount, makerAmount decimal.Decimal
	switch p.Side {
	case SideBuy:
		takerAmount = p.Size
		makerAmount = p.Size.Mul(p.Price).Truncate(scale)
	case SideSell:
		takerAmount = p.Size.Mul(p.Price).Truncate(scale)
		makerAmount = p.Size
	default:
		return signer.SignableOrder{}, errs.Validation("invalid side %d", p.Side)
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
		Expiration:    p.Expiration,
		Nonce:         p.Nonce,
		FeeRateBps:    uint64(feeRate.BaseFeeBps),
		Side:          signer.Side(p.Side),
		SignatureType: p.SignatureType,
	}, nil
}
