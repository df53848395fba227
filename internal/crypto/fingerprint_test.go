package crypto_test

import (
	"errors"
	"testing"

	"yacen/internal/crypto"
)

func TestFingerprint_Stable(t *testing.T) {
	pub := mustSigner(t).PublicKey()
	a, b := crypto.Fingerprint(pub.Slice()), crypto.Fingerprint(pub.Slice())
	if a != b || len(a) != 20 {
		t.Fatalf("fingerprint %q / %q", a, b)
	}
}

func TestPublicKeyText_RoundTrip(t *testing.T) {
	pub := mustSigner(t).PublicKey()
	got, err := crypto.DecodePublicKey(crypto.EncodePublicKey(pub))
	if err != nil {
		t.Fatalf("DecodePublicKey: %v", err)
	}
	if got != pub {
		t.Fatal("round trip changed key")
	}
	if _, err := crypto.DecodePublicKey("3mJr7AoUXx2Wqd"); !errors.Is(err, crypto.ErrInvalidPublicKey) {
		t.Fatalf("short key: got %v", err)
	}
	if _, err := crypto.DecodePublicKey("0OIl"); !errors.Is(err, crypto.ErrInvalidPublicKey) {
		t.Fatalf("bad alphabet: got %v", err)
	}
}
