package signer

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common/math"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/ethereum/go-ethereum/signer/core/apitypes"

	"github.com/cloblabs/clob-go/internal/chainconfig"
)

// clobAuthMessage is the fixed attestation text signed as part of the L1
// handshake. It is not configurable: every
// client on this venue signs exactly this string.
const clobAuthMessage = "This message attests that I control the given wallet"

// L1Headers are the four headers a signed L1 envelope produces, ready to attach
// to an authentication request.
type L1Headers struct {
	Address   string
	Nonce     uint32
	Signature string
	Timestamp int64
}

// clobAuthTypedData builds the EIP-712 typed-data document for the L1 handshake:
// a single ClobAuth{address,timestamp,nonce,message} struct under the
// ClobAuthDomain domain, parameterized only by chain id and nonce.
func clobAuthTypedData(address string, timestamp int64, nonce uint32, chainID chainconfig.ChainID) apitypes.TypedData {
	return apitypes.TypedData{
		Types: apitypes.Types{
			"EIP712Domain": {
				{Name: "name", Type: "string"},
				{Name: "version", Type: "string"},
				{Name: "chainId", Type: "uint256"},
			},
			"ClobAuth": {
				{Name: "address", Type: "address"},
				{Name: "timestamp", Type: "string"},
				{Name: "nonce", Type: "uint256"},
				{Name: "message", Type: "string"},
			},
		},
		PrimaryType: "ClobAuth",
		Domain: apitypes.TypedDataDomain{
			Name:    chainconfig.ClobAuthDomainName,
			Version: chainconfig.ClobAuthDomainVersion,
			ChainId: (*math.HexOrDecimal256)(big.NewInt(int64(chainID))),
		},
		Message: apitypes.TypedDataMessage{
			"address":   address,
			"timestamp": fmt.Sprintf("%d", timestamp),
			"nonce":     fmt.Sprintf("%d", nonce),
			"message":   clobAuthMessage,
		},
	}
}

// eip712Sighash computes the canonical EIP-712 signing hash for a TypedData
// document: keccak256("\x19\x01" || domainSeparator || structHash).
func eip712Sighash(td apitypes.TypedData) ([32]byte, error) {
	domainSeparator, err := td.HashStruct("EIP712Domain", td.Domain.Map())
	if err != nil {
		return [32]byte{}, fmt.Errorf("hash domain: %w", err)
	}
	typedDataHash, err := td.HashStruct(td.PrimaryType, td.Message)
	if err != nil {
		return [32]byte{}, fmt.Errorf("hash message: %w", err)
	}
	raw := append([]byte("\x19\x01"), append(domainSeparator, typedDataHash...)...)
	var out [32]byte
	copy(out[:], crypto.Keccak256(raw))
	return out, nil
}

// SignL1 signs the L1 authentication envelope for s and returns the headers the
// server expects on the "obtain credentials" endpoint. nonce defaults to 0 when
// a caller has no existing API key to rotate.
func SignL1(s Signer, chainID chainconfig.ChainID, timestamp int64, nonce uint32) (L1Headers, error) {
	td := clobAuthTypedData(s.Address, timestamp, nonce, chainID)
	digest, err := eip712Sighash(td)
	if err != nil {
		return L1Headers{}, fmt.Errorf("build L1 digest: %w", err)
	}
	sig, err := s.Sign(digest)
	if err != nil {
		return L1Headers{}, fmt.Errorf("sign L1 digest: %w", err)
	}
	return L1Headers{
		Address:   s.Address,
		Nonce:     nonce,
		Signature: "0x" + fmt.Sprintf("%x", sig[:]),
		Timestamp: timestamp,
	}, nil
}
