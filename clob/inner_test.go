package clob

import (
	"context"
	"errors"
	"testing"

	"github.com/ethereum/go-ethereum/crypto"

	"github.com/cloblabs/clob-go/internal/config"
	"github.com/cloblabs/clob-go/internal/errs"
	"github.com/cloblabs/clob-go/internal/orderutils"
	"github.com/cloblabs/clob-go/internal/signer"
)

func testSigner(t *testing.T) signer.Signer {
	t.Helper()
	key, err := crypto.GenerateKey()
	if err != nil {
		t.Fatalf("generate key: %v", err)
	}
	return signer.NewSigner(key)
}

func testUnauthenticatedClient(t *testing.T) *UnauthenticatedClient {
	t.Helper()
	cfg := config.ClientConfig{Chain: config.ChainConfig{ID: 137}}
	c, err := NewUnauthenticatedClient(cfg, testSigner(t), nil, nil)
	if err != nil {
		t.Fatalf("NewUnauthenticatedClient() error = %v", err)
	}
	return c
}

func TestNewUnauthenticatedClientRejectsUnsupportedChain(t *testing.T) {
	cfg := config.ClientConfig{Chain: config.ChainConfig{ID: 1}}
	_, err := NewUnauthenticatedClient(cfg, testSigner(t), nil, nil)
	if err == nil {
		t.Fatal("expected an error for an unsupported chain id")
	}
}

func TestCloneBlocksExclusiveTransition(t *testing.T) {
	c := testUnauthenticatedClient(t)
	dup := c.Clone()
	defer dup.Close()

	if err := c.inner.requireExclusive(); err == nil {
		t.Fatal("expected requireExclusive to fail while a clone is outstanding")
	}

	dup.Close()
	if err := c.inner.requireExclusive(); err != nil {
		t.Fatalf("requireExclusive() after releasing the clone = %v, want nil", err)
	}
}

func TestDeauthenticateRequiresExclusiveOwnership(t *testing.T) {
	c := testUnauthenticatedClient(t)
	auth, err := c.Authenticate(context.Background(), AuthenticateParams{
		Credentials: &signer.Credentials{Key: "k", Secret: "cw==", Passphrase: "p"},
	})
	if err != nil {
		t.Fatalf("Authenticate() error = %v", err)
	}

	dup := auth.Clone()
	defer dup.Close()

	_, err = auth.Deauthenticate()
	if err == nil {
		t.Fatal("expected Deauthenticate to fail with an outstanding clone")
	}
	var syncErr *errs.SynchronisationError
	if !errors.As(err, &syncErr) {
		t.Fatalf("Deauthenticate() error = %v, want *errs.SynchronisationError", err)
	}
}

func TestPerTokenCacheSetGetInvalidate(t *testing.T) {
	c := testUnauthenticatedClient(t)

	if _, ok := c.TickSize("tok-1"); ok {
		t.Fatal("expected no cached tick size before SetTickSize")
	}
	c.SetTickSize("tok-1", orderutils.TickHundredth)
	got, ok := c.TickSize("tok-1")
	if !ok || got != orderutils.TickHundredth {
		t.Fatalf("TickSize() = (%v, %v), want (TickHundredth, true)", got, ok)
	}

	c.InvalidateTickSize("tok-1")
	if _, ok := c.TickSize("tok-1"); ok {
		t.Fatal("expected tick size to be gone after InvalidateTickSize")
	}
}

func TestInvalidateAllCachesClearsEveryField(t *testing.T) {
	c := testUnauthenticatedClient(t)
	c.SetTickSize("tok-1", orderutils.TickTenth)
	c.SetNegRisk("tok-1", true)
	c.SetFeeRate("tok-1", orderutils.FeeRate{BaseFeeBps: 50})

	c.InvalidateAllCaches()

	if _, ok := c.TickSize("tok-1"); ok {
		t.Error("expected tick size cache cleared")
	}
	if _, ok := c.NegRisk("tok-1"); ok {
		t.Error("expected neg-risk cache cleared")
	}
	if _, ok := c.FeeRate("tok-1"); ok {
		t.Error("expected fee rate cache cleared")
	}
}

