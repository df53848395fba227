package crypto

import (
	"bytes"
	"crypto/ed25519"
	"crypto/rand"
	"crypto/x509"

	"github.com/pkg/errors"

	"yacen/internal/domain"
)

const (
	PublicKeySize = ed25519.PublicKeySize
	SignatureSize = ed25519.SignatureSize
)

// Signer produces Ed25519 signatures. Implementations are read-only after
// construction and safe for concurrent use.
type Signer interface {
	Sign(msg []byte) []byte
	PublicKey() domain.Ed25519Public
}

// Ed25519Signer is a loaded Ed25519 key pair.
type Ed25519Signer struct {
	priv ed25519.PrivateKey
	pub  domain.Ed25519Public
}

// GenerateEd25519 returns a new Ed25519 private key as a PKCS#8 DER document.
func GenerateEd25519() ([]byte, error) {
	_, sk, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return nil, errors.Wrap(err, "generate ed25519 key")
	}
	return x509.MarshalPKCS8PrivateKey(sk)
}

// ParseEd25519 loads a key pair from a PKCS#8 DER document.
func ParseEd25519(pkcs8 []byte) (*Ed25519Signer, error) {
	key, err := x509.ParsePKCS8PrivateKey(pkcs8)
	if err != nil {
		return nil, errors.Wrap(ErrInvalidPrivateKey, err.Error())
	}
	sk, ok := key.(ed25519.PrivateKey)
	if !ok {
		return nil, errors.Wrapf(ErrInvalidPrivateKey, "unexpected key type %T", key)
	}
	return newSigner(sk), nil
}

// NewEd25519Signer loads a key pair from the raw 64-byte private key layout
// (seed || public key). The embedded public key must match the seed.
func NewEd25519Signer(priv domain.Ed25519Private) (*Ed25519Signer, error) {
	sk := ed25519.NewKeyFromSeed(priv[:ed25519.SeedSize])
	if !bytes.Equal(sk, priv.Slice()) {
		return nil, errors.Wrap(ErrInvalidPrivateKey, "public half does not match seed")
	}
	return newSigner(sk), nil
}

func newSigner(sk ed25519.PrivateKey) *Ed25519Signer {
	s := &Ed25519Signer{priv: sk}
	copy(s.pub[:], sk.Public().(ed25519.PublicKey))
	return s
}

// Sign returns the 64-byte signature of msg. Ed25519 is deterministic, so
// equal messages produce equal signatures.
func (s *Ed25519Signer) Sign(msg []byte) []byte {
	return ed25519.Sign(s.priv, msg)
}

// PublicKey returns the 32-byte verification key.
func (s *Ed25519Signer) PublicKey() domain.Ed25519Public { return s.pub }

// PrivateKey returns the raw key in the ed25519.PrivateKey layout.
func (s *Ed25519Signer) PrivateKey() domain.Ed25519Private {
	var out domain.Ed25519Private
	copy(out[:], s.priv)
	return out
}

// PKCS8 encodes the private key as a PKCS#8 DER document.
func (s *Ed25519Signer) PKCS8() ([]byte, error) {
	return x509.MarshalPKCS8PrivateKey(s.priv)
}

// Verify checks sig over msg with pub. Wrong lengths and mismatches both
// fail with ErrSignatureInvalid.
func Verify(pub, msg, sig []byte) error {
	if len(pub) != PublicKeySize || len(sig) != SignatureSize {
		return ErrSignatureInvalid
	}
	if !ed25519.Verify(ed25519.PublicKey(pub), msg, sig) {
		return ErrSignatureInvalid
	}
	return nil
}

var _ Signer = (*Ed25519Signer)(nil)
