// Package signer implements the credential and signing abstraction:
// typed-data hashing for the L1 handshake, HMAC-SHA256 over canonical
// request strings for L2, and the typed-data envelope used to sign orders.
package signer

import (
	"crypto/ecdsa"
	"fmt"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/google/uuid"
)

// Credentials is the (key, secret, passphrase) triple an API key owner holds. Key is
// a UUID minted by the server when the credentials were created. Secret is held
// URL-safe-base64-encoded, exactly as the server returns it; L2Sign decodes it on
// every call rather than caching the decoded bytes, so a Credentials value is safe
// to copy and never needs to be zeroed on drop beyond normal GC.
type Credentials struct {
	Key        string
	Secret     string
	Passphrase string
}

// String never includes Secret or Passphrase: credentials must never be logged.
func (c Credentials) String() string {
	return fmt.Sprintf("Credentials{Key: %s}", c.Key)
}

// NewCredentialKey mints a fresh UUID for use as a credential key id. Used by
// local (non-server) credential construction paths; server-issued credentials
// carry whatever key id the server assigns.
func NewCredentialKey() string {
	return uuid.NewString()
}

// Signer wraps a private key with the address it corresponds to. It is the
// minimal capability the L1 handshake and order-signing pipeline need: sign a
// 32-byte digest and report the address signatures will recover to.
type Signer struct {
	PrivateKey *ecdsa.PrivateKey
	Address    string
}

// NewSigner derives a Signer from a raw ECDSA private key.
func NewSigner(key *ecdsa.PrivateKey) Signer {
	addr := crypto.PubkeyToAddress(key.PublicKey)
	return Signer{PrivateKey: key, Address: addr.Hex()}
}

// NewSignerFromHex parses a hex-encoded private key (with or without a 0x
// prefix), as produced by most wallet exports.
func NewSignerFromHex(hexKey string) (Signer, error) {
	key, err := crypto.HexToECDSA(trim0x(hexKey))
	if err != nil {
		return Signer{}, fmt.Errorf("parse private key: %w", err)
	}
	return NewSigner(key), nil
}

func trim0x(s string) string {
	if len(s) >= 2 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X') {
		return s[2:]
	}
	return s
}

// Sign produces a 65-byte [R || S || V] signature over digest, with V normalized
// to {27, 28} as the on-chain ecrecover convention expects (go-ethereum's
// crypto.Sign returns V in {0, 1}).
func (s Signer) Sign(digest [32]byte) ([65]byte, error) {
	sig, err := crypto.Sign(digest[:], s.PrivateKey)
	if err != nil {
		return [65]byte{}, fmt.Errorf("sign digest: %w", err)
	}
	var out [65]byte
	copy(out[:], sig)
	if out[64] < 27 {
		out[64] += 27
	}
	return out, nil
}
