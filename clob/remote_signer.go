package clob

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/cloblabs/clob-go/internal/errs"
	"github.com/cloblabs/clob-go/internal/signer"
)

// BuilderHeaders are the four headers a signed builder envelope produces.
type BuilderHeaders struct {
	APIKey     string
	Passphrase string
	Signature  string
	Timestamp  int64
}

// RemoteBuilderSigner signs a builder request, either locally against
// held builder credentials or by delegating to a remote signing service.
type RemoteBuilderSigner interface {
	SignBuilderRequest(ctx context.Context, method, path, body string, timestamp int64) (BuilderHeaders, error)
}

// LocalBuilderSigner signs with locally-held builder credentials using the
// same HMAC scheme as L2 requests.
type LocalBuilderSigner struct {
	Credentials signer.Credentials
}

// SignBuilderRequest implements RemoteBuilderSigner.
func (s LocalBuilderSigner) SignBuilderRequest(_ context.Context, method, path, body string, timestamp int64) (BuilderHeaders, error) {
	sig, err := signer.SignL2(s.Credentials.Secret, signer.ToMessage(timestamp, method, path, body))
	if err != nil {
		return BuilderHeaders{}, errs.Internal("sign builder request", err)
	}
	return BuilderHeaders{
		APIKey:     s.Credentials.Key,
		Passphrase: s.Credentials.Passphrase,
		Signature:  sig,
		Timestamp:  timestamp,
	}, nil
}

// remoteBuilderRequest is the JSON body POSTed to a remote signing service.
type remoteBuilderRequest struct {
	Method    string `json:"method"`
	Path      string `json:"path"`
	Body      string `json:"body"`
	Timestamp int64  `json:"timestamp"`
}

// remoteBuilderResponse mirrors the remote signer's reply, which uses the
// uppercase wire header names as JSON keys.
type remoteBuilderResponse struct {
	PolyBuilderAPIKey     string `json:"POLY_BUILDER_API_KEY"`
	PolyBuilderTimestamp  string `json:"POLY_BUILDER_TIMESTAMP"`
	PolyBuilderPassphrase string `json:"POLY_BUILDER_PASSPHRASE"`
	PolyBuilderSignature  string `json:"POLY_BUILDER_SIGNATURE"`
}

// HTTPRemoteBuilderSigner calls out to an external service that holds the
// builder's signing secret, POSTing the request to sign and reading back
// ready-made headers.
type HTTPRemoteBuilderSigner struct {
	URL        string
	Token      string // optional; sent as "Authorization: Bearer {token}"
	HTTPClient *http.Client
}

// SignBuilderRequest implements RemoteBuilderSigner.
func (s *HTTPRemoteBuilderSigner) SignBuilderRequest(ctx context.Context, method, path, body string, timestamp int64) (BuilderHeaders, error) {
	payload, err := json.Marshal(remoteBuilderRequest{Method: method, Path: path, Body: body, Timestamp: timestamp})
	if err != nil {
		return BuilderHeaders{}, errs.Internal("marshal remote builder signer request", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.URL, bytes.NewReader(payload))
	if err != nil {
		return BuilderHeaders{}, errs.Internal("build remote builder signer request", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if s.Token != "" {
		req.Header.Set("Authorization", "Bearer "+s.Token)
	}

	client := s.HTTPClient
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return BuilderHeaders{}, fmt.Errorf("call remote builder signer: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return BuilderHeaders{}, errs.Internal("read remote builder signer response", err)
	}
	if resp.StatusCode >= 400 {
		return BuilderHeaders{}, &errs.StatusError{StatusCode: resp.StatusCode, Method: method, Path: s.URL, Message: string(respBody)}
	}

	var parsed remoteBuilderResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return BuilderHeaders{}, errs.Internal("parse remote builder signer response", err)
	}
	ts, err := strconv.ParseInt(parsed.PolyBuilderTimestamp, 10, 64)
	if err != nil {
		return BuilderHeaders{}, errs.Internal("parse remote builder signer timestamp", err)
	}
	return BuilderHeaders{
		APIKey:     parsed.PolyBuilderAPIKey,
		Passphrase: parsed.PolyBuilderPassphrase,
		Signature:  parsed.PolyBuilderSignature,
		Timestamp:  ts,
	}, nil
}
