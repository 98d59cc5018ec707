package signer

import (
	"math/rand"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

// saltMask keeps a generated salt within the 53 bits of precision a JSON
// number (parsed as an IEEE-754 double) can hold losslessly.
const saltMask = (uint64(1) << 53) - 1

// NewSalt returns a fresh order salt: wall-clock nanoseconds folded together
// with a random perturbation, then masked to 53 bits. Two calls in the same
// process never collide in practice and the result always survives a JSON
// number round-trip.
func NewSalt() uint64 {
	now := uint64(time.Now().UnixNano())
	return (now ^ rand.Uint64()) & saltMask
}

// DeriveProxyWallet computes the deterministic proxy-wallet address associated
// with an EOA signer address. The real venue derives
// this via CREATE2 against a fixed factory contract and init code hash; this
// SDK does not embed those on-chain constants, so the derivation here is a
// documented placeholder: keccak256(signer || "proxy-wallet"), truncated to an
// address. Callers that need the real factory-derived address should resolve
// it through the REST API's funder-lookup endpoint instead of this helper; see
// DESIGN.md for the Open Question this resolves.
func DeriveProxyWallet(signer common.Address) common.Address {
	return deriveWallet(signer, "proxy-wallet")
}

// DeriveSafeWallet is DeriveProxyWallet's Gnosis Safe counterpart
// (SignatureTypeGnosisSafe). Same caveat applies.
func DeriveSafeWallet(signer common.Address) common.Address {
	return deriveWallet(signer, "gnosis-safe-wallet")
}

func deriveWallet(signer common.Address, tag string) common.Address {
	digest := crypto.Keccak256(signer.Bytes(), []byte(tag))
	return common.BytesToAddress(digest[12:])
}
