package signer

import (
	"testing"

	"github.com/ethereum/go-ethereum/common"
)

func TestNewSalt_FitsInIEEE754Precision(t *testing.T) {
	for i := 0; i < 100; i++ {
		s := NewSalt()
		if s > saltMask {
			t.Fatalf("salt %d exceeds 53-bit mask %d", s, saltMask)
		}
	}
}

func TestDeriveProxyWallet_Deterministic(t *testing.T) {
	addr := common.HexToAddress("0xf39Fd6e51aAd88F6F4ce6aB8827279cffFb92266")

	a := DeriveProxyWallet(addr)
	b := DeriveProxyWallet(addr)
	if a != b {
		t.Fatalf("DeriveProxyWallet is not deterministic: %s != %s", a.Hex(), b.Hex())
	}
}

func TestDeriveProxyWallet_DiffersFromSafeWallet(t *testing.T) {
	addr := common.HexToAddress("0xf39Fd6e51aAd88F6F4ce6aB8827279cffFb92266")

	proxy := DeriveProxyWallet(addr)
	safe := DeriveSafeWallet(addr)
	if proxy == safe {
		t.Fatal("proxy and safe wallet derivations must not collide")
	}
}
