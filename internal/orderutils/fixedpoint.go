package orderutils

import (
	"math/big"

	"github.com/shopspring/decimal"
)

// ToFixedPoint truncates d to USDCDecimals decimal places and returns it as an
// integer scaled by 10^USDCDecimals — the representation the exchange
// contract expects for makerAmount/takerAmount.
func ToFixedPoint(d decimal.Decimal) *big.Int {
	truncated := d.Truncate(USDCDecimals)
	scaled := truncated.Shift(USDCDecimals)
	return scaled.BigInt()
}
