package clob

import (
	"net/http"
	"strconv"

	"github.com/cloblabs/clob-go/internal/signer"
)

// Wire header names, aliased from the signing layer.
const (
	headerAddress    = signer.HeaderAddress
	headerNonce      = signer.HeaderNonce
	headerSignature  = signer.HeaderSignature
	headerTimestamp  = signer.HeaderTimestamp
	headerAPIKey     = signer.HeaderAPIKey
	headerPassphrase = signer.HeaderPassphrase

	headerBuilderAPIKey     = signer.HeaderBuilderAPIKey
	headerBuilderPassphrase = signer.HeaderBuilderPassphrase
	headerBuilderSignature  = signer.HeaderBuilderSignature
	headerBuilderTimestamp  = signer.HeaderBuilderTimestamp
)

func setL1Headers(h http.Header, hdr signer.L1Headers) {
	hdr.SetOn(h)
}

func setL2Headers(h http.Header, hdr signer.L2Headers) {
	hdr.SetOn(h)
}

func setBuilderHeaders(h http.Header, hdr BuilderHeaders) {
	h.Set(headerBuilderAPIKey, hdr.APIKey)
	h.Set(headerBuilderPassphrase, hdr.Passphrase)
	h.Set(headerBuilderSignature, hdr.Signature)
	h.Set(headerBuilderTimestamp, strconv.FormatInt(hdr.Timestamp, 10))
}
