package clob

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/cloblabs/clob-go/internal/errs"
	"github.com/cloblabs/clob-go/internal/signer"
)

func TestLocalBuilderSignerSignsDeterministically(t *testing.T) {
	s := LocalBuilderSigner{Credentials: signer.Credentials{
		Key:        "bkey",
		Secret:     "AAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAA=",
		Passphrase: "bpass",
	}}

	hdr, err := s.SignBuilderRequest(context.Background(), "POST", "/orders", `{"hash":"0x123"}`, 1000000)
	if err != nil {
		t.Fatalf("SignBuilderRequest() error = %v", err)
	}
	if hdr.APIKey != "bkey" || hdr.Passphrase != "bpass" || hdr.Timestamp != 1000000 {
		t.Fatalf("SignBuilderRequest() = %+v, want matching api key/passphrase/timestamp", hdr)
	}
	if hdr.Signature == "" {
		t.Error("expected a non-empty signature")
	}

	again, err := s.SignBuilderRequest(context.Background(), "POST", "/orders", `{"hash":"0x123"}`, 1000000)
	if err != nil {
		t.Fatalf("second SignBuilderRequest() error = %v", err)
	}
	if again.Signature != hdr.Signature {
		t.Error("expected identical inputs to produce identical signatures")
	}
}

func TestHTTPRemoteBuilderSignerPostsContractAndParsesReply(t *testing.T) {
	var gotAuth, gotBody string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		var req remoteBuilderRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decode request body: %v", err)
		}
		gotBody = req.Method + " " + req.Path

		resp := remoteBuilderResponse{
			PolyBuilderAPIKey:     "remote-key",
			PolyBuilderTimestamp:  "123",
			PolyBuilderPassphrase: "remote-pass",
			PolyBuilderSignature:  "remote-sig",
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(resp)
	}))
	defer srv.Close()

	s := &HTTPRemoteBuilderSigner{URL: srv.URL, Token: "tok"}
	hdr, err := s.SignBuilderRequest(context.Background(), "POST", "/orders", "{}", 55)
	if err != nil {
		t.Fatalf("SignBuilderRequest() error = %v", err)
	}
	if gotAuth != "Bearer tok" {
		t.Errorf("Authorization header = %q, want %q", gotAuth, "Bearer tok")
	}
	if gotBody != "POST /orders" {
		t.Errorf("request body = %q, want %q", gotBody, "POST /orders")
	}
	if hdr.APIKey != "remote-key" || hdr.Passphrase != "remote-pass" || hdr.Signature != "remote-sig" || hdr.Timestamp != 123 {
		t.Errorf("SignBuilderRequest() = %+v, want the fields echoed by the remote service", hdr)
	}
}

func TestHTTPRemoteBuilderSignerPropagatesStatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte("bad token"))
	}))
	defer srv.Close()

	s := &HTTPRemoteBuilderSigner{URL: srv.URL}
	_, err := s.SignBuilderRequest(context.Background(), "POST", "/orders", "{}", 1)
	if err == nil {
		t.Fatal("expected an error on a 401 reply")
	}
	se, ok := err.(*errs.StatusError)
	if !ok || se.StatusCode != http.StatusUnauthorized {
		t.Errorf("SignBuilderRequest() error = %v (%T), want *errs.StatusError{StatusCode: 401}", err, err)
	}
}
