// signtool reproduces the published signing and order-sizing test vectors
// so a reader can check this implementation against them without standing
// up a server. Usage:
//	go run./cmd/signtool
package main

import (
	"fmt"
	"math/big"
	"os"

	"github.com/shopspring/decimal"

	"github.com/cloblabs/clob-go/internal/chainconfig"
	"github.com/cloblabs/clob-go/internal/orderutils"
	"github.com/cloblabs/clob-go/internal/signer"
)

// hardhatAccount0Key is the well-known Hardhat/Anvil default account #0 private
// key, used for the fixtures because its address and signatures are
// reproducible without a funded wallet.
const hardhatAccount0Key = "0xac0974bec39a17e36ba4a6b4d238ff944bacb478cbed5efcae784d7bf4f2ff80"

func main() {
	ok := true
	ok = checkL1Signature() && ok
	ok = checkL2HMAC() && ok
	ok = checkLimitNotionals() && ok
	ok = checkMarketBuyUSDC() && ok
	ok = checkMarketSellShares() && ok

	if !ok {
		os.Exit(1)
	}
}

func report(name string, got, want string) bool {
	match := got == want
	status := "OK"
	if !match {
		status = "MISMATCH"
	}
	fmt.Printf("%-4s %-10s got=%s want=%s\n", status, name, got, want)
	return match
}

func checkL1Signature() bool {
	fmt.Println("-- L1 signature --")
	s, err := signer.NewSignerFromHex(hardhatAccount0Key)
	if err != nil {
		fmt.Println("signer.NewSignerFromHex:", err)
		return false
	}

	hdr, err := signer.SignL1(s, chainconfig.ChainID(80002), 10_000_000, 23)
	if err != nil {
		fmt.Println("signer.SignL1:", err)
		return false
	}

	ok := report("address", hdr.Address, "0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266")
	ok = report("nonce", fmt.Sprint(hdr.Nonce), "23") && ok
	ok = report("timestamp", fmt.Sprint(hdr.Timestamp), "10000000") && ok
	ok = report("signature", hdr.Signature,
		"0xf62319a987514da40e57e2f4d7529f7bac38f0355bd88bb5adbb3768d80de6c1682518e0af677d5260366425f4361e7b70c25ae232aff0ab2331e2b164a1aedc1b") && ok
	return ok
}

func checkL2HMAC() bool {
	fmt.Println("-- L2 message & HMAC --")
	msg := signer.ToMessage(1, "POST", "/path", `{"foo":"bar"}`)
	ok := report("message", msg, `1POST/path{"foo":"bar"}`)

	sig, err := signer.SignL2("AAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAA=",
		signer.ToMessage(1_000_000, "test-sign", "/orders", `{"hash":"0x123"}`))
	if err != nil {
		fmt.Println("signer.SignL2:", err)
		return false
	}
	return report("hmac", sig, "4gJVbox-R6XlDK4nlaicig0_ANVL1qdcahiL8CXfXLM=") && ok
}

func checkLimitNotionals() bool {
	fmt.Println("-- limit order notionals --")
	order, err := orderutils.BuildLimitOrder(
		"0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266",
		orderutils.TickHundredth,
		orderutils.FeeRate{BaseFeeBps: 0},
		orderutils.LimitOrderParams{
			TokenID:   big.NewInt(1),
			Side:      orderutils.SideBuy,
			Price:     decimal.NewFromFloat(0.34),
			Size:      decimal.NewFromInt(100),
			OrderType: orderutils.OrderGTC,
		},
	)
	if err != nil {
		fmt.Println("orderutils.BuildLimitOrder:", err)
		return false
	}
	ok := report("takerAmount", order.TakerAmount.String(), "100000000")
	return report("makerAmount", order.MakerAmount.String(), "34000000") && ok
}

func checkMarketBuyUSDC() bool {
	fmt.Println("-- market BUY (USDC) notionals --")
	levels := []orderutils.PriceLevel{
		{Price: decimal.NewFromFloat(0.34), Size: decimal.NewFromInt(1_000)},
	}
	price, err := orderutils.CalculateCutoffPrice(levels, orderutils.USDCAmount(decimal.NewFromInt(100)), orderutils.OrderFAK)
	if err != nil {
		fmt.Println("orderutils.CalculateCutoffPrice:", err)
		return false
	}

	order, err := orderutils.BuildMarketOrder(
		"0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266",
		orderutils.TickHundredth,
		orderutils.FeeRate{BaseFeeBps: 0},
		orderutils.MarketOrderParams{
			TokenID:   big.NewInt(2),
			Side:      orderutils.SideBuy,
			Amount:    orderutils.USDCAmount(decimal.NewFromInt(100)),
			Price:     price,
			OrderType: orderutils.OrderFAK,
		},
	)
	if err != nil {
		fmt.Println("orderutils.BuildMarketOrder:", err)
		return false
	}
	ok := report("makerAmount", order.MakerAmount.String(), "100000000")
	return report("takerAmount", order.TakerAmount.String(), "294117600") && ok
}

func checkMarketSellShares() bool {
	fmt.Println("-- market SELL (shares) notionals --")
	order, err := orderutils.BuildMarketOrder(
		"0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266",
		orderutils.TickHundredth,
		orderutils.FeeRate{BaseFeeBps: 0},
		orderutils.MarketOrderParams{
			TokenID:   big.NewInt(3),
			Side:      orderutils.SideSell,
			Amount:    orderutils.SharesAmount(decimal.NewFromInt(100)),
			Price:     decimal.NewFromFloat(0.34),
			OrderType: orderutils.OrderFAK,
		},
	)
	if err != nil {
		fmt.Println("orderutils.BuildMarketOrder:", err)
		return false
	}
	ok := report("makerAmount", order.MakerAmount.String(), "100000000")
	return report("takerAmount", order.TakerAmount.String(), "34000000") && ok
}
