package signer

import (
	"net/http"
	"strconv"
)

// Wire header names for the authentication envelopes.
const (
	HeaderAddress    = "POLY_ADDRESS"
	HeaderNonce      = "POLY_NONCE"
	HeaderSignature  = "POLY_SIGNATURE"
	HeaderTimestamp  = "POLY_TIMESTAMP"
	HeaderAPIKey     = "POLY_API_KEY"
	HeaderPassphrase = "POLY_PASSPHRASE"

	HeaderBuilderAPIKey     = "POLY_BUILDER_API_KEY"
	HeaderBuilderPassphrase = "POLY_BUILDER_PASSPHRASE"
	HeaderBuilderSignature  = "POLY_BUILDER_SIGNATURE"
	HeaderBuilderTimestamp  = "POLY_BUILDER_TIMESTAMP"
)

// SetOn writes the four credential-issuance headers onto h.
func (hdr L1Headers) SetOn(h http.Header) {
	h.Set(HeaderAddress, hdr.Address)
	h.Set(HeaderNonce, strconv.FormatUint(uint64(hdr.Nonce), 10))
	h.Set(HeaderSignature, hdr.Signature)
	h.Set(HeaderTimestamp, strconv.FormatInt(hdr.Timestamp, 10))
}

// SetOn writes the five per-request headers onto h.
func (hdr L2Headers) SetOn(h http.Header) {
	h.Set(HeaderAddress, hdr.Address)
	h.Set(HeaderAPIKey, hdr.APIKey)
	h.Set(HeaderPassphrase, hdr.Passphrase)
	h.Set(HeaderSignature, hdr.Signature)
	h.Set(HeaderTimestamp, strconv.FormatInt(hdr.Timestamp, 10))
}
