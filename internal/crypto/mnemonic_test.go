package crypto_test

import (
	"crypto/ed25519"
	"errors"
	"strings"
	"testing"

	"yacen/internal/crypto"
	"yacen/internal/domain"
)

func zeroSeedKey() domain.Ed25519Private {
	var k domain.Ed25519Private
	copy(k[:], ed25519.NewKeyFromSeed(make([]byte, ed25519.SeedSize)))
	return k
}

func TestRecoveryPhrase_RoundTrip(t *testing.T) {
	s := mustSigner(t)
	phrase, err := crypto.RecoveryPhrase(s)
	if err != nil {
		t.Fatalf("RecoveryPhrase: %v", err)
	}
	if n := len(strings.Fields(phrase)); n != 24 {
		t.Fatalf("phrase has %d words", n)
	}

	// Case and spacing are not significant.
	restored, err := crypto.SignerFromRecoveryPhrase("  " + strings.ToUpper(phrase) + "\n")
	if err != nil {
		t.Fatalf("SignerFromRecoveryPhrase: %v", err)
	}
	if restored.PublicKey() != s.PublicKey() {
		t.Fatalf("restored key differs")
	}
	if restored.PrivateKey() != s.PrivateKey() {
		t.Fatalf("restored private key differs")
	}
}

func TestRecoveryPhrase_Invalid(t *testing.T) {
	phrase, err := crypto.RecoveryPhrase(mustSigner(t))
	if err != nil {
		t.Fatalf("RecoveryPhrase: %v", err)
	}
	words := strings.Fields(phrase)

	cases := map[string]string{
		"empty":      "",
		"short":      strings.Join(words[:12], " "),
		"not a word": strings.Join(append(append([]string{}, words[:23]...), "yacen"), " "),
		// Zero entropy checksums to "art", not "abandon".
		"bad checksum": strings.TrimSpace(strings.Repeat("abandon ", 24)),
	}
	for name, p := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := crypto.SignerFromRecoveryPhrase(p); !errors.Is(err, crypto.ErrInvalidMnemonic) {
				t.Fatalf("want ErrInvalidMnemonic, got %v", err)
			}
		})
	}
}

func TestRecoveryPhrase_KnownVector(t *testing.T) {
	// BIP-39 vector for 32 zero bytes of entropy.
	phrase := strings.TrimSpace(strings.Repeat("abandon ", 23)) + " art"
	s, err := crypto.SignerFromRecoveryPhrase(phrase)
	if err != nil {
		t.Fatalf("SignerFromRecoveryPhrase: %v", err)
	}
	want, err := crypto.NewEd25519Signer(zeroSeedKey())
	if err != nil {
		t.Fatalf("NewEd25519Signer: %v", err)
	}
	if s.PublicKey() != want.PublicKey() {
		t.Fatalf("zero-seed key mismatch")
	}
	back, err := crypto.RecoveryPhrase(s)
	if err != nil || back != phrase {
		t.Fatalf("RecoveryPhrase = %q, %v", back, err)
	}
}
