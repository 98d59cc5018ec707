package clobrest

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/cloblabs/clob-go/internal/signer"
)

// l1Signer adapts a typed-data authentication envelope onto the request
// engine's signer hook. Credential issuance is the one place headers are
// computed before the request rather than from it.
type l1Signer struct {
	l1 signer.L1Headers
}

func (s l1Signer) SignedHeaders(_ context.Context, _, _, _ string) (http.Header, error) {
	h := http.Header{}
	s.l1.SetOn(h)
	return h, nil
}

type apiKeyResponse struct {
	APIKey     string `json:"apiKey"`
	Secret     string `json:"secret"`
	Passphrase string `json:"passphrase"`
}

func (r apiKeyResponse) credentials() signer.Credentials {
	return signer.Credentials{Key: r.APIKey, Secret: r.Secret, Passphrase: r.Passphrase}
}

// CreateAPIKey mints a fresh credential triple under the supplied typed-data
// authentication envelope. Its signature matches the typestate client's
// CreateCredentials hook, so a method value plugs straight in.
func (c *Client) CreateAPIKey(ctx context.Context, l1 signer.L1Headers) (signer.Credentials, error) {
	var resp apiKeyResponse
	if err := c.rc.Post(ctx, "/auth/api-key", nil, l1Signer{l1: l1}, &resp); err != nil {
		return signer.Credentials{}, err
	}
	return resp.credentials(), nil
}

// DeriveAPIKey recovers the credential triple previously minted for this
// wallet. Its signature matches the typestate client's
// DeriveExistingCredentials hook.
func (c *Client) DeriveAPIKey(ctx context.Context, l1 signer.L1Headers) (signer.Credentials, error) {
	var resp apiKeyResponse
	if err := c.rc.Get(ctx, "/auth/derive-api-key", nil, l1Signer{l1: l1}, &resp); err != nil {
		return signer.Credentials{}, err
	}
	return resp.credentials(), nil
}

type apiKeysResponse struct {
	APIKeys []string `json:"apiKeys"`
}

// APIKeys lists the key ids minted for the authenticated wallet.
func (c *Client) APIKeys(ctx context.Context, s HeaderSigner) ([]string, error) {
	var resp apiKeysResponse
	if err := c.rc.Get(ctx, "/auth/api-keys", nil, s, &resp); err != nil {
		return nil, fmt.Errorf("get api keys: %w", err)
	}
	return resp.APIKeys, nil
}

// DeleteAPIKey revokes the credentials s signs with.
func (c *Client) DeleteAPIKey(ctx context.Context, s HeaderSigner) error {
	if err := c.rc.Delete(ctx, "/auth/api-key", nil, s, nil); err != nil {
		return fmt.Errorf("delete api key: %w", err)
	}
	return nil
}

// BalanceAllowance is the collateral balance and exchange allowance for one
// asset under one signature type.
type BalanceAllowance struct {
	Balance   string `json:"balance"`
	Allowance string `json:"allowance"`
}

// BalanceAllowanceQuery selects which balance to read.
type BalanceAllowanceQuery struct {
	AssetType     string // "COLLATERAL" or "CONDITIONAL"
	TokenID       string // required for CONDITIONAL
	SignatureType int
}

// GetBalanceAllowance reads the funder wallet's balance and exchange
// allowance.
func (c *Client) GetBalanceAllowance(ctx context.Context, s HeaderSigner, q BalanceAllowanceQuery) (*BalanceAllowance, error) {
	query := url.Values{}
	query.Set("asset_type", q.AssetType)
	if q.TokenID != "" {
		query.Set("token_id", q.TokenID)
	}
	query.Set("signature_type", strconv.Itoa(q.SignatureType))

	var resp BalanceAllowance
	if err := c.rc.Get(ctx, "/balance-allowance", query, s, &resp); err != nil {
		return nil, fmt.Errorf("get balance allowance: %w", err)
	}
	return &resp, nil
}
