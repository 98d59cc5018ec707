package restcore

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/cloblabs/clob-go/internal/errs"
)

type staticSigner struct {
	headers http.Header
	gotPath atomic.Value
	gotBody atomic.Value
}

func (s *staticSigner) SignedHeaders(_ context.Context, _, path, body string) (http.Header, error) {
	s.gotPath.Store(path)
	s.gotBody.Store(body)
	return s.headers, nil
}

func TestDoRetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	}))
	defer srv.Close()

	c := New(srv.URL, WithRetries(3, time.Millisecond))
	var result map[string]string
	if err := c.Get(context.Background(), "/thing", nil, nil, &result); err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got := calls.Load(); got != 3 {
		t.Errorf("server calls = %d, want 3", got)
	}
	if result["status"] != "ok" {
		t.Errorf("result = %v, want status ok", result)
	}
}

func TestDoDoesNotRetryClientErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]string{"error": "bad price"})
	}))
	defer srv.Close()

	c := New(srv.URL, WithRetries(3, time.Millisecond))
	err := c.Get(context.Background(), "/thing", nil, nil, nil)

	var statusErr *errs.StatusError
	if !errors.As(err, &statusErr) {
		t.Fatalf("Get() error = %v, want *errs.StatusError", err)
	}
	if statusErr.StatusCode != http.StatusBadRequest || statusErr.Message != "bad price" {
		t.Errorf("StatusError = %+v, want 400/bad price", statusErr)
	}
	if got := calls.Load(); got != 1 {
		t.Errorf("server calls = %d, want 1 (no retry on 4xx)", got)
	}
}

func TestDoMapsGeoblockReplies(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		json.NewEncoder(w).Encode(map[string]any{
			"blocked": true,
			"ip":      "203.0.113.7",
			"country": "FR",
			"region":  "IDF",
		})
	}))
	defer srv.Close()

	c := New(srv.URL)
	err := c.Get(context.Background(), "/order", nil, nil, nil)

	var geoErr *errs.GeoblockError
	if !errors.As(err, &geoErr) {
		t.Fatalf("Get() error = %v, want *errs.GeoblockError", err)
	}
	if geoErr.Country != "FR" || geoErr.Region != "IDF" || geoErr.IP != "203.0.113.7" {
		t.Errorf("GeoblockError = %+v", geoErr)
	}
}

func TestDoTreatsNullBodyAsNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("null"))
	}))
	defer srv.Close()

	c := New(srv.URL)
	var result map[string]string
	err := c.Get(context.Background(), "/market", nil, nil, &result)

	var statusErr *errs.StatusError
	if !errors.As(err, &statusErr) {
		t.Fatalf("Get() error = %v, want *errs.StatusError", err)
	}
	if statusErr.StatusCode != http.StatusNotFound || statusErr.Message != "resource not found" {
		t.Errorf("StatusError = %+v, want 404/resource not found", statusErr)
	}
}

func TestDoSignsOverExactBodyBytes(t *testing.T) {
	var gotHeader atomic.Value
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotHeader.Store(r.Header.Get("POLY_SIGNATURE"))
		w.Write([]byte("{}"))
	}))
	defer srv.Close()

	s := &staticSigner{headers: http.Header{"Poly_signature": []string{"sig-value"}}}
	c := New(srv.URL)
	body := map[string]string{"hash": "0x123"}
	if err := c.Post(context.Background(), "/orders", body, s, nil); err != nil {
		t.Fatalf("Post() error = %v", err)
	}

	if got := s.gotPath.Load(); got != "/orders" {
		t.Errorf("signed path = %v, want /orders", got)
	}
	// The signer must see the exact serialised body, not a re-marshalled
	// variant.
	if got := s.gotBody.Load(); got != `{"hash":"0x123"}` {
		t.Errorf("signed body = %v, want {\"hash\":\"0x123\"}", got)
	}
	if got := gotHeader.Load(); got != "sig-value" {
		t.Errorf("received signature header = %v, want sig-value", got)
	}
}

func TestDoContextCancellationStopsRetries(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	c := New(srv.URL, WithRetries(5, 50*time.Millisecond))
	err := c.Get(ctx, "/thing", nil, nil, nil)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Get() error = %v, want context.Canceled", err)
	}
}
