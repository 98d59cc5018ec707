// Package orderutils implements the decimal quantization, tick/lot size
// rules, and order-building pipeline. It hands off the final typed-data hash
// and signature to internal/signer; everything here is pure decimal
// arithmetic on github.com/shopspring/decimal, never floats.
package orderutils

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// TickSize is the minimum price increment a token's order book accepts.
// Only four values exist on this venue.
type TickSize int

const (
	TickTenth TickSize = iota
	TickHundredth
	TickThousandth
	TickTenThousandth
)

var tickDecimals = map[TickSize]decimal.Decimal{
	TickTenth:         decimal.NewFromFloat(0.1),
	TickHundredth:     decimal.NewFromFloat(0.01),
	TickThousandth:    decimal.NewFromFloat(0.001),
	TickTenThousandth: decimal.NewFromFloat(0.0001),
}

var tickNames = map[TickSize]string{
	TickTenth:         "Tenth",
	TickHundredth:     "Hundredth",
	TickThousandth:    "Thousandth",
	TickTenThousandth: "TenThousandth",
}

// AsDecimal returns the decimal value of t, e.g. TickHundredth -> 0.01.
func (t TickSize) AsDecimal() decimal.Decimal {
	return tickDecimals[t]
}

// Scale returns the number of decimal places t represents.
func (t TickSize) Scale() int32 {
	switch t {
	case TickTenth:
		return 1
	case TickHundredth:
		return 2
	case TickThousandth:
		return 3
	case TickTenThousandth:
		return 4
	default:
		return 0
	}
}

func (t TickSize) String() string {
	return fmt.Sprintf("%s(%s)", tickNames[t], t.AsDecimal().String())
}

// TickSizeFromDecimal maps a minimum-tick-size value reported by the server
// back onto the TickSize enum. Returns an error for any value that is not one
// of the four supported ticks.
func TickSizeFromDecimal(d decimal.Decimal) (TickSize, error) {
	for t, v := range tickDecimals {
		if v.Equal(d) {
			return t, nil
		}
	}
	return 0, fmt.Errorf("unsupported tick size %s", d.String())
}

// LotSizeScale is the maximum number of decimal places a size field may carry;
// fixed at 2 regardless of tick size.
const LotSizeScale int32 = 2

// USDCDecimals is the fixed-point scale collateral amounts are quantized to
// on the wire (6 decimals, matching this venue's USDC-equivalent collateral
// token).
const USDCDecimals int32 = 6
