package signer

import (
	"fmt"
	"math/big"

	gmath "github.com/ethereum/go-ethereum/common/math"
	"github.com/ethereum/go-ethereum/signer/core/apitypes"

	"github.com/cloblabs/clob-go/internal/chainconfig"
)

// SignatureType distinguishes how the maker's funds are custodied.
type SignatureType uint8

const (
	SignatureTypeEOA        SignatureType = 0
	SignatureTypeProxy      SignatureType = 1
	SignatureTypeGnosisSafe SignatureType = 2
)

// Side is which side of the book an order rests on.
type Side uint8

const (
	SideBuy  Side = 0
	SideSell Side = 1
)

// SignableOrder is the on-chain order struct this venue's exchange contract
// verifies, laid out field-for-field to match the Solidity struct it hashes
// (salt, maker, signer, taker, tokenId, makerAmount, takerAmount,
// expiration, nonce, feeRateBps, side, signatureType). All
// uint256 fields except Salt are decimal strings on the wire; Salt is a JSON
// number because the backend parses it as an IEEE-754 double.
type SignableOrder struct {
	Salt          uint64 // masked to 53 bits, see NewSalt
	Maker         string
	Signer        string
	Taker         string
	TokenID       *big.Int
	MakerAmount   *big.Int
	TakerAmount   *big.Int
	Expiration    int64
	Nonce         uint64
	FeeRateBps    uint64
	Side          Side
	SignatureType SignatureType
}

// SignedOrder pairs a SignableOrder with the 65-byte signature over its
// EIP-712 digest; the recovered address must equal the signer address.
type SignedOrder struct {
	SignableOrder
	Signature string
}

// orderTypedData builds the EIP-712 typed-data document for o under the given
// chain's exchange domain. negRisk selects the neg-risk variant of the
// verifying contract.
func orderTypedData(o SignableOrder, chain chainconfig.Chain, negRisk bool) apitypes.TypedData {
	verifyingContract := chain.VerifyingContract
	if negRisk {
		verifyingContract = chain.NegRiskVerifyingContract
	}
	return apitypes.TypedData{
		Types: apitypes.Types{
			"EIP712Domain": {
				{Name: "name", Type: "string"},
				{Name: "version", Type: "string"},
				{Name: "chainId", Type: "uint256"},
				{Name: "verifyingContract", Type: "address"},
			},
			"Order": {
				{Name: "salt", Type: "uint256"},
				{Name: "maker", Type: "address"},
				{Name: "signer", Type: "address"},
				{Name: "taker", Type: "address"},
				{Name: "tokenId", Type: "uint256"},
				{Name: "makerAmount", Type: "uint256"},
				{Name: "takerAmount", Type: "uint256"},
				{Name: "expiration", Type: "uint256"},
				{Name: "nonce", Type: "uint256"},
				{Name: "feeRateBps", Type: "uint256"},
				{Name: "side", Type: "uint8"},
				{Name: "signatureType", Type: "uint8"},
			},
		},
		PrimaryType: "Order",
		Domain: apitypes.TypedDataDomain{
			Name:              chain.ExchangeName,
			Version:           "1",
			ChainId:           (*gmath.HexOrDecimal256)(big.NewInt(int64(chain.ID))),
			VerifyingContract: verifyingContract,
		},
		Message: apitypes.TypedDataMessage{
			"salt":          fmt.Sprintf("%d", o.Salt),
			"maker":         o.Maker,
			"signer":        o.Signer,
			"taker":         o.Taker,
			"tokenId":       o.TokenID.String(),
			"makerAmount":   o.MakerAmount.String(),
			"takerAmount":   o.TakerAmount.String(),
			"expiration":    fmt.Sprintf("%d", o.Expiration),
			"nonce":         fmt.Sprintf("%d", o.Nonce),
			"feeRateBps":    fmt.Sprintf("%d", o.FeeRateBps),
			"side":          fmt.Sprintf("%d", o.Side),
			"signatureType": fmt.Sprintf("%d", o.SignatureType),
		},
	}
}

// SignOrder signs o with s, returning the SignedOrder ready to submit. negRisk
// selects the verifying contract; it must match the token's neg-risk flag as
// reported by the market metadata cache.
func SignOrder(s Signer, chain chainconfig.Chain, negRisk bool, o SignableOrder) (SignedOrder, error) {
	td := orderTypedData(o, chain, negRisk)
	digest, err := eip712Sighash(td)
	if err != nil {
		return SignedOrder{}, fmt.Errorf("build order digest: %w", err)
	}
	sig, err := s.Sign(digest)
	if err != nil {
		return SignedOrder{}, fmt.Errorf("sign order digest: %w", err)
	}
	return SignedOrder{
		SignableOrder: o,
		Signature:     "0x" + fmt.Sprintf("%x", sig[:]),
	}, nil
}
