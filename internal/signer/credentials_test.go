package signer

import (
	"strings"
	"testing"
)

func TestCredentials_StringNeverLeaksSecrets(t *testing.T) {
	c := Credentials{Key: "key-id", Secret: "super-secret", Passphrase: "pp"}
	s := c.String()
	if strings.Contains(s, "super-secret") || strings.Contains(s, "pp=") {
		t.Fatalf("Credentials.String leaked a secret field: %q", s)
	}
	if !strings.Contains(s, "key-id") {
		t.Fatalf("Credentials.String should include the key id: %q", s)
	}
}

func TestNewCredentialKey_ProducesDistinctValues(t *testing.T) {
	a := NewCredentialKey()
	b := NewCredentialKey()
	if a == b {
		t.Fatal("NewCredentialKey should not repeat")
	}
}

func TestNewSignerFromHex_AcceptsWithAndWithoutPrefix(t *testing.T) {
	withPrefix, err := NewSignerFromHex(publicKeyPrivateKey)
	if err != nil {
		t.Fatalf("NewSignerFromHex: %v", err)
	}
	withoutPrefix, err := NewSignerFromHex(publicKeyPrivateKey[2:])
	if err != nil {
		t.Fatalf("NewSignerFromHex: %v", err)
	}
	if withPrefix.Address != withoutPrefix.Address {
		t.Fatalf("expected same address regardless of 0x prefix: %s != %s", withPrefix.Address, withoutPrefix.Address)
	}
}

func TestNewSignerFromHex_InvalidKey(t *testing.T) {
	if _, err := NewSignerFromHex("not-hex"); err == nil {
		t.Fatal("expected error for invalid hex key")
	}
}

