// Package chainconfig holds the immutable, compile-time table mapping a supported
// chain id to the contract addresses and domain parameters the signing pipeline
// needs. There is no runtime mutation of this table; it exists so the rest of the
// SDK never has to special-case "which chain am I on" beyond a single lookup.
package chainconfig

import (
	"fmt"
)

// ChainID identifies one of the two chains this SDK talks to.
type ChainID int64

const (
	// Polygon is the production chain.
	Polygon ChainID = 137
	// Amoy is Polygon's public testnet.
	Amoy ChainID = 80002
)

// Chain bundles the contract addresses and typed-data domain parameters for a
// single chain. VerifyingContract and NegRiskVerifyingContract are selected by the
// order builder based on a token's neg-risk flag.
type Chain struct {
	ID                       ChainID
	Name                     string
	ExchangeName             string // typed-data domain "name" for order signing
	VerifyingContract        string
	NegRiskVerifyingContract string
	NegRiskAdapter           string
	CollateralToken          string // USDC-equivalent collateral, 6 decimals
	ConditionalTokens        string
}

var table = map[ChainID]Chain{
	Polygon: {
		ID:                       Polygon,
		Name:                     "polygon",
		ExchangeName:             "Polymarket CTF Exchange",
		VerifyingContract:        "0x4bFb41d5B3570DeFd03C39a9A4D8dE6Bd8B8982E",
		NegRiskVerifyingContract: "0xC5d563A36AE78145C45a50134d48A1215220f80a",
		NegRiskAdapter:           "0xd91E80cF2E7be2e162c6513ceD06f1dD0dA35296",
		CollateralToken:          "0x2791Bca1f2de4661ED88A30C99A7a9449Aa84174",
		ConditionalTokens:        "0x4D97DCd97eC945f40cF65F87097ACe5EA0476045",
	},
	Amoy: {
		ID:                       Amoy,
		Name:                     "amoy",
		ExchangeName:             "Polymarket CTF Exchange",
		VerifyingContract:        "0xdFE02Eb6733538f8Ea35D585af8DE5958AD99E40",
		NegRiskVerifyingContract: "0xC5d563A36AE78145C45a50134d48A1215220f80a",
		NegRiskAdapter:           "0xd91E80cF2E7be2e162c6513ceD06f1dD0dA35296",
		CollateralToken:          "0x9c4e1703476e875070ee25b56a58b008e02de0b2",
		ConditionalTokens:        "0x69308FB512518e39F9b16112fA8d994F4e2Bf8bB",
	},
}

// ClobAuthDomainName and ClobAuthDomainVersion are the fixed typed-data domain
// fields used by the L1 authentication envelope.
// They do not vary by chain; only chainId does.
const (
	ClobAuthDomainName    = "ClobAuthDomain"
	ClobAuthDomainVersion = "1"
)

// Lookup returns the Chain for id, or an error if id is not one of the two chains
// this SDK supports.
func Lookup(id ChainID) (Chain, error) {
	c, ok := table[id]
	if !ok {
		return Chain{}, fmt.Errorf("unsupported chain id %d", int64(id))
	}
	return c, nil
}

// Supported reports whether id is one of the two chains this SDK supports.
func Supported(id ChainID) bool {
	_, ok := table[id]
	return ok
}
