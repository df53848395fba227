package crypto

import (
	"crypto/rand"

	"github.com/mr-tron/base58"
	"github.com/pkg/errors"
	"golang.org/x/crypto/curve25519"

	"yacen/internal/domain"
)

// GenerateX25519 returns a fresh Curve25519 key pair for anonymous sealing.
// The private key is clamped per RFC 7748.
func GenerateX25519() (priv domain.X25519Private, pub domain.X25519Public, err error) {
	if _, err = rand.Read(priv[:]); err != nil {
		return priv, pub, errors.Wrap(err, "generate x25519 key")
	}
	clamp(&priv)
	pub, err = X25519PublicKey(priv)
	return priv, pub, err
}

// X25519PublicKey derives the public key belonging to priv.
func X25519PublicKey(priv domain.X25519Private) (domain.X25519Public, error) {
	var pub domain.X25519Public
	pb, err := curve25519.X25519(priv.Slice(), curve25519.Basepoint)
	if err != nil {
		return pub, errors.Wrap(ErrInvalidPublicKey, err.Error())
	}
	copy(pub[:], pb)
	return pub, nil
}

// EncodeSealKey renders a sealing key as base58.
func EncodeSealKey(pub domain.X25519Public) string { return base58.Encode(pub.Slice()) }

// DecodeSealKey parses the output of EncodeSealKey.
func DecodeSealKey(s string) (domain.X25519Public, error) {
	var pub domain.X25519Public
	raw, err := base58.Decode(s)
	if err != nil {
		return pub, errors.Wrap(ErrInvalidPublicKey, err.Error())
	}
	if len(raw) != len(pub) {
		return pub, errors.Wrapf(ErrInvalidPublicKey, "want %d bytes, got %d", len(pub), len(raw))
	}
	copy(pub[:], raw)
	return pub, nil
}

func clamp(k *domain.X25519Private) {
	k[0] &= 248
	k[31] &= 127
	k[31] |= 64
}
