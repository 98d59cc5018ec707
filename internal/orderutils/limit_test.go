package orderutils

import (
	"math/big"
	"testing"

	"github.com/shopspring/decimal"
)

const testSignerAddress = "0xf39Fd6e51aAd88F6F4ce6aB8827279cffFb92266"

// TestBuildLimitOrderNotionals: BUY, price
// 0.34, size 100, tick size 0.01 -> takerAmount 100_000_000, makerAmount
// 34_000_000.
func TestBuildLimitOrderNotionals(t *testing.T) {
	order, err := BuildLimitOrder(testSignerAddress, TickHundredth, FeeRate{BaseFeeBps: 0}, LimitOrderParams{
		TokenID: big.NewInt(1),
		Side:    SideBuy,
		Price:   decimal.NewFromFloat(0.34),
		Size:    decimal.NewFromInt(100),
	})
	if err != nil {
		t.Fatalf("BuildLimitOrder: %v", err)
	}

	if order.TakerAmount.Cmp(big.NewInt(100_000_000)) != 0 {
		t.Fatalf("TakerAmount = %s, want 100000000", order.TakerAmount)
	}
	if order.MakerAmount.Cmp(big.NewInt(34_000_000)) != 0 {
		t.Fatalf("MakerAmount = %s, want 34000000", order.MakerAmount)
	}
}

func TestBuildLimitOrder_SellSwapsAmounts(t *testing.T) {
	order, err := BuildLimitOrder(testSignerAddress, TickHundredth, FeeRate{BaseFeeBps: 0}, LimitOrderParams{
		TokenID: big.NewInt(1),
		Side:    SideSell,
		Price:   decimal.NewFromFloat(0.34),
		Size:    decimal.NewFromInt(100),
	})
	if err != nil {
		t.Fatalf("BuildLimitOrder: %v", err)
	}
	if order.MakerAmount.Cmp(big.NewInt(100_000_000)) != 0 {
		t.Fatalf("MakerAmount = %s, want 100000000", order.MakerAmount)
	}
	if order.TakerAmount.Cmp(big.NewInt(34_000_000)) != 0 {
		t.Fatalf("TakerAmount = %s, want 34000000", order.TakerAmount)
	}
}

func TestBuildLimitOrder_RejectsNegativePrice(t *testing.T) {
	_, err := BuildLimitOrder(testSignerAddress, TickHundredth, FeeRate{}, LimitOrderParams{
		TokenID: big.NewInt(1),
		Side:    SideBuy,
		Price:   decimal.NewFromFloat(-0.1),
		Size:    decimal.NewFromInt(1),
	})
	if err == nil {
		t.Fatal("expected error for negative price")
	}
}

func TestBuildLimitOrder_RejectsPriceFinerThanTick(t *testing.T) {
	_, err := BuildLimitOrder(testSignerAddress, TickHundredth, FeeRate{}, LimitOrderParams{
		TokenID: big.NewInt(1),
		Side:    SideBuy,
		Price:   decimal.NewFromFloat(0.341),
		Size:    decimal.NewFromInt(1),
	})
	if err == nil {
		t.Fatal("expected error for price with more decimals than the tick size allows")
	}
}

func TestBuildLimitOrder_RejectsPriceOutOfRange(t *testing.T) {
	cases := []decimal.Decimal{
		decimal.NewFromFloat(0.0),
		decimal.NewFromFloat(1.0),
		decimal.NewFromFloat(0.995),
	}
	for _, price := range cases {
		_, err := BuildLimitOrder(testSignerAddress, TickHundredth, FeeRate{}, LimitOrderParams{
			TokenID: big.NewInt(1),
			Side:    SideBuy,
			Price:   price,
			Size:    decimal.NewFromInt(1),
		})
		if err == nil {
			t.Fatalf("expected error for out-of-range price %s", price)
		}
	}
}

func TestBuildLimitOrder_RejectsSizeFinerThanLotSize(t *testing.T) {
	_, err := BuildLimitOrder(testSignerAddress, TickHundredth, FeeRate{}, LimitOrderParams{
		TokenID: big.NewInt(1),
		Side:    SideBuy,
		Price:   decimal.NewFromFloat(0.5),
		Size:    decimal.NewFromFloat(1.005),
	})
	if err == nil {
		t.Fatal("expected error for size with more than 2 decimal places")
	}
}

func TestBuildLimitOrder_RejectsZeroOrNegativeSize(t *testing.T) {
	for _, size := range []decimal.Decimal{decimal.Zero, decimal.NewFromInt(-1)} {
		_, err := BuildLimitOrder(testSignerAddress, TickHundredth, FeeRate{}, LimitOrderParams{
			TokenID: big.NewInt(1),
			Side:    SideBuy,
			Price:   decimal.NewFromFloat(0.5),
			Size:    size,
		})
		if err == nil {
			t.Fatalf("expected error for size %s", size)
		}
	}
}

func TestBuildLimitOrder_RejectsNonZeroExpirationUnlessGTD(t *testing.T) {
	_, err := BuildLimitOrder(testSignerAddress, TickHundredth, FeeRate{}, LimitOrderParams{
		TokenID:    big.NewInt(1),
		Side:       SideBuy,
		Price:      decimal.NewFromFloat(0.5),
		Size:       decimal.NewFromInt(1),
		OrderType:  OrderGTC,
		Expiration: 123,
	})
	if err == nil {
		t.Fatal("expected error for non-zero expiration on a non-GTD order")
	}
}

func TestBuildLimitOrder_RejectsPostOnlyOnFAK(t *testing.T) {
	_, err := BuildLimitOrder(testSignerAddress, TickHundredth, FeeRate{}, LimitOrderParams{
		TokenID:   big.NewInt(1),
		Side:      SideBuy,
		Price:     decimal.NewFromFloat(0.5),
		Size:      decimal.NewFromInt(1),
		OrderType: OrderFAK,
		PostOnly:  true,
	})
	if err == nil {
		t.Fatal("expected error for postOnly on a FAK order")
	}
}

func TestBuildLimitOrder_DefaultsMakerToSigner(t *testing.T) {
	order, err := BuildLimitOrder(testSignerAddress, TickHundredth, FeeRate{}, LimitOrderParams{
		TokenID: big.NewInt(1),
		Side:    SideBuy,
		Price:   decimal.NewFromFloat(0.5),
		Size:    decimal.NewFromInt(1),
	})
	if err != nil {
		t.Fatalf("BuildLimitOrder: %v", err)
	}
	if order.Maker != testSignerAddress {
		t.Fatalf("Maker = %s, want %s", order.Maker, testSignerAddress)
	}
}
