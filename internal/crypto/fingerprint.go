package crypto

import (
	"crypto/sha256"
	"encoding/hex"

	"github.com/mr-tron/base58"
	"github.com/pkg/errors"

	"yacen/internal/domain"
)

// Fingerprint returns a short hex fingerprint of a public key.
//
// It hashes with SHA-256 and truncates to 10 bytes (20 hex chars).
func Fingerprint(pub []byte) domain.Fingerprint {
	sum := sha256.Sum256(pub)
	return domain.Fingerprint(hex.EncodeToString(sum[:10]))
}

// EncodePublicKey renders a verification key as base58 for copy/paste.
func EncodePublicKey(pub domain.Ed25519Public) string {
	return base58.Encode(pub.Slice())
}

// DecodePublicKey parses the output of EncodePublicKey.
func DecodePublicKey(s string) (domain.Ed25519Public, error) {
	var pub domain.Ed25519Public
	raw, err := base58.Decode(s)
	if err != nil {
		return pub, errors.Wrap(ErrInvalidPublicKey, err.Error())
	}
	if len(raw) != PublicKeySize {
		return pub, errors.Wrapf(ErrInvalidPublicKey, "want %d bytes, got %d", PublicKeySize, len(raw))
	}
	copy(pub[:], raw)
	return pub, nil
}
