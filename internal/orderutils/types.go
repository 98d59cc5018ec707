package orderutils

import "github.com/shopspring/decimal"

// Side mirrors internal/signer.Side; duplicated here (not imported) so this
// package has no dependency on signing internals, only on the wire-level
// representation signer.SignableOrder also uses.
type Side uint8

const (
	SideBuy Side = iota
	SideSell
)

// OrderType is the time-in-force/fill policy attached to an order.
type OrderType int

const (
	// OrderGTC rests on the book until filled or cancelled.
	OrderGTC OrderType = iota
	// OrderFOK must fill completely and immediately or the whole order cancels.
	OrderFOK
	// OrderGTD rests on the book until filled or a specified expiration.
	OrderGTD
	// OrderFAK fills whatever it can immediately; any remainder cancels.
	OrderFAK
)

func (t OrderType) String() string {
	switch t {
	case OrderGTC:
		return "GTC"
	case OrderFOK:
		return "FOK"
	case OrderGTD:
		return "GTD"
	case OrderFAK:
		return "FAK"
	default:
		return "UNKNOWN"
	}
}

// AmountKind distinguishes a market order's amount expressed in collateral
// (USDC) versus in shares.
type AmountKind int

const (
	AmountUSDC AmountKind = iota
	AmountShares
)

// Amount is a market order's requested size, tagged with whether it is
// denominated in collateral or in shares.
type Amount struct {
	Kind  AmountKind
	Value decimal.Decimal
}

// USDCAmount builds an Amount denominated in collateral.
func USDCAmount(value decimal.Decimal) Amount {
	return Amount{Kind: AmountUSDC, Value: value}
}

// SharesAmount builds an Amount denominated in shares.
func SharesAmount(value decimal.Decimal) Amount {
	return Amount{Kind: AmountShares, Value: value}
}

// FeeRate is the per-token maker/taker fee, expressed in basis points.
type FeeRate struct {
	BaseFeeBps uint32
}
