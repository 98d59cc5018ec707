package clob

import (
	"context"
	"errors"
	"testing"

	"github.com/cloblabs/clob-go/internal/errs"
	"github.com/cloblabs/clob-go/internal/signer"
)

func TestAuthenticateRejectsExplicitFunderForEOA(t *testing.T) {
	c := testUnauthenticatedClient(t)
	_, err := c.Authenticate(context.Background(), AuthenticateParams{
		SignatureType: signer.SignatureTypeEOA,
		Funder:        "0x0000000000000000000000000000000000000001",
		Credentials:   &signer.Credentials{Key: "k", Secret: "cw==", Passphrase: "p"},
	})
	if err == nil {
		t.Fatal("expected an error when an EOA authenticate supplies an explicit funder")
	}
}

func TestAuthenticateDerivesProxyFunderWhenOmitted(t *testing.T) {
	c := testUnauthenticatedClient(t)
	auth, err := c.Authenticate(context.Background(), AuthenticateParams{
		SignatureType: signer.SignatureTypeProxy,
		Credentials:   &signer.Credentials{Key: "k", Secret: "cw==", Passphrase: "p"},
	})
	if err != nil {
		t.Fatalf("Authenticate() error = %v", err)
	}
	funder, sigType := auth.inner.authSnapshot()
	if sigType != signer.SignatureTypeProxy {
		t.Errorf("sigType = %v, want SignatureTypeProxy", sigType)
	}
	if funder == "" {
		t.Error("expected a derived funder address, got empty string")
	}
}

func TestAuthenticateRejectsZeroFunderForProxy(t *testing.T) {
	c := testUnauthenticatedClient(t)
	_, err := c.Authenticate(context.Background(), AuthenticateParams{
		SignatureType: signer.SignatureTypeProxy,
		Funder:        "0x0000000000000000000000000000000000000000",
		Credentials:   &signer.Credentials{Key: "k", Secret: "cw==", Passphrase: "p"},
	})
	if err == nil {
		t.Fatal("expected an error for an explicit zero funder on signature type proxy")
	}
}

func TestAuthenticateWithoutCredentialsOrHookFails(t *testing.T) {
	c := testUnauthenticatedClient(t)
	_, err := c.Authenticate(context.Background(), AuthenticateParams{})
	if err == nil {
		t.Fatal("expected an error when neither Credentials nor CreateCredentials is supplied")
	}
}

func TestAuthenticateFallsBackToDeriveExistingOnStatusError(t *testing.T) {
	c := testUnauthenticatedClient(t)
	want := signer.Credentials{Key: "derived", Secret: "cw==", Passphrase: "p"}

	auth, err := c.Authenticate(context.Background(), AuthenticateParams{
		CreateCredentials: func(ctx context.Context, l1 signer.L1Headers) (signer.Credentials, error) {
			return signer.Credentials{}, &errs.StatusError{StatusCode: 400, Method: "POST", Path: "/auth/api-key", Message: "already exists"}
		},
		DeriveExistingCredentials: func(ctx context.Context, l1 signer.L1Headers) (signer.Credentials, error) {
			return want, nil
		},
	})
	if err != nil {
		t.Fatalf("Authenticate() error = %v", err)
	}
	got := auth.inner.storedCredentials()
	if got == nil || *got != want {
		t.Errorf("stored credentials = %+v, want %+v", got, want)
	}
}

func TestAuthenticatePropagatesNetworkErrorWithoutFallback(t *testing.T) {
	c := testUnauthenticatedClient(t)
	wantErr := errors.New("dial tcp: connection refused")
	_, err := c.Authenticate(context.Background(), AuthenticateParams{
		CreateCredentials: func(ctx context.Context, l1 signer.L1Headers) (signer.Credentials, error) {
			return signer.Credentials{}, wantErr
		},
	})
	if !errors.Is(err, wantErr) {
		t.Errorf("Authenticate() error = %v, want %v propagated unchanged", err, wantErr)
	}
}

func TestPromoteAndDemoteBuilderRoundTrip(t *testing.T) {
	c := testUnauthenticatedClient(t)
	auth, err := c.Authenticate(context.Background(), AuthenticateParams{
		Credentials: &signer.Credentials{Key: "k", Secret: "cw==", Passphrase: "p"},
	})
	if err != nil {
		t.Fatalf("Authenticate() error = %v", err)
	}

	builder, err := auth.PromoteToBuilder(PromoteToBuilderParams{
		Credentials: &signer.Credentials{Key: "bk", Secret: "cw==", Passphrase: "bp"},
	})
	if err != nil {
		t.Fatalf("PromoteToBuilder() error = %v", err)
	}

	hdr, err := builder.SignBuilderRequest(context.Background(), "POST", "/orders", "{}", 10)
	if err != nil {
		t.Fatalf("SignBuilderRequest() error = %v", err)
	}
	if hdr.APIKey != "bk" {
		t.Errorf("builder header api key = %q, want %q", hdr.APIKey, "bk")
	}

	back, err := builder.DemoteFromBuilder()
	if err != nil {
		t.Fatalf("DemoteFromBuilder() error = %v", err)
	}
	if back.inner.remoteBuilderSigner != nil {
		t.Error("expected remote builder signer cleared after demotion")
	}
}

func TestPromoteToBuilderRejectsBothOrNeitherSigner(t *testing.T) {
	c := testUnauthenticatedClient(t)
	auth, err := c.Authenticate(context.Background(), AuthenticateParams{
		Credentials: &signer.Credentials{Key: "k", Secret: "cw==", Passphrase: "p"},
	})
	if err != nil {
		t.Fatalf("Authenticate() error = %v", err)
	}

	if _, err := auth.PromoteToBuilder(PromoteToBuilderParams{}); err == nil {
		t.Error("expected an error when neither Credentials nor RemoteSigner is set")
	}

	both := PromoteToBuilderParams{
		Credentials:  &signer.Credentials{Key: "bk", Secret: "cw==", Passphrase: "bp"},
		RemoteSigner: &HTTPRemoteBuilderSigner{URL: "https://example.invalid"},
	}
	if _, err := auth.PromoteToBuilder(both); err == nil {
		t.Error("expected an error when both Credentials and RemoteSigner are set")
	}
}
