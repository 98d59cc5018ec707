package orderutils

import (
	"math/big"
	"testing"

	"github.com/shopspring/decimal"
)

func TestToFixedPoint(t *testing.T) {
	tests := []struct {
		in   string
		want int64
	}{
		{"123.456", 123_456_000},
		{"123.456789", 123_456_789},
		{"123.456789111111111", 123_456_789},
		{"3.456789111111111", 3_456_789},
	}
	for _, tt := range tests {
		d, err := decimal.NewFromString(tt.in)
		if err != nil {
			t.Fatalf("parse %s: %v", tt.in, err)
		}
		got := ToFixedPoint(d)
		if got.Cmp(big.NewInt(tt.want)) != 0 {
			t.Fatalf("ToFixedPoint(%s) = %s, want %d", tt.in, got, tt.want)
		}
	}
}
