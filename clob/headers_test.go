package clob

import (
	"net/http"
	"testing"

	"github.com/cloblabs/clob-go/internal/signer"
)

func TestSetL1Headers(t *testing.T) {
	h := make(http.Header)
	setL1Headers(h, signer.L1Headers{
		Address:   "0xabc",
		Nonce:     3,
		Signature: "0xsig",
		Timestamp: 1000,
	})

	want := map[string]string{
		headerAddress:   "0xabc",
		headerNonce:     "3",
		headerSignature: "0xsig",
		headerTimestamp: "1000",
	}
	for k, v := range want {
		if got := h.Get(k); got != v {
			t.Errorf("header %s = %q, want %q", k, got, v)
		}
	}
}

func TestSetL2Headers(t *testing.T) {
	h := make(http.Header)
	setL2Headers(h, signer.L2Headers{
		Address:    "0xabc",
		APIKey:     "key",
		Passphrase: "pass",
		Signature:  "sig",
		Timestamp:  42,
	})

	want := map[string]string{
		headerAddress:    "0xabc",
		headerAPIKey:     "key",
		headerPassphrase: "pass",
		headerSignature:  "sig",
		headerTimestamp:  "42",
	}
	for k, v := range want {
		if got := h.Get(k); got != v {
			t.Errorf("header %s = %q, want %q", k, got, v)
		}
	}
}

func TestSetBuilderHeaders(t *testing.T) {
	h := make(http.Header)
	setBuilderHeaders(h, BuilderHeaders{
		APIKey:     "bkey",
		Passphrase: "bpass",
		Signature:  "bsig",
		Timestamp:  7,
	})

	want := map[string]string{
		headerBuilderAPIKey:     "bkey",
		headerBuilderPassphrase: "bpass",
		headerBuilderSignature:  "bsig",
		headerBuilderTimestamp:  "7",
	}
	for k, v := range want {
		if got := h.Get(k); got != v {
			t.Errorf("header %s = %q, want %q", k, got, v)
		}
	}
}
