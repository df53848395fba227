package crypto

import (
	"crypto/rand"
	"crypto/sha256"

	"github.com/pkg/errors"
	"golang.org/x/crypto/pbkdf2"

	"yacen/internal/domain"
	"yacen/internal/util/memzero"
)

const (
	// DefaultIterations is the PBKDF2 work factor used by EncryptWithPassphrase.
	DefaultIterations = 100_000
	// SaltSize is the length of the random salt prepended to passphrase envelopes.
	SaltSize = 16
	// PassphraseHeaderSize is the minimum length of a passphrase envelope.
	PassphraseHeaderSize = SaltSize + NonceSize
)

// DeriveKey derives an AES-256 key from passphrase and salt with
// PBKDF2-HMAC-SHA256. Equal inputs always produce equal keys.
func DeriveKey(passphrase, salt []byte, iterations int) domain.SymmetricKey {
	var key domain.SymmetricKey
	derived := pbkdf2.Key(passphrase, salt, iterations, KeySize, sha256.New)
	copy(key[:], derived)
	memzero.Zero(derived)
	return key
}

// EncryptWithPassphrase encrypts plaintext under a key derived from
// passphrase at DefaultIterations. The output layout is
// salt(16) || nonce(12) || ciphertext || tag(16).
func EncryptWithPassphrase(passphrase, plaintext []byte) ([]byte, error) {
	return EncryptWithPassphraseIterations(passphrase, plaintext, DefaultIterations)
}

// DecryptWithPassphrase opens data produced by EncryptWithPassphrase.
func DecryptWithPassphrase(passphrase, data []byte) ([]byte, error) {
	return DecryptWithPassphraseIterations(passphrase, data, DefaultIterations)
}

// EncryptWithPassphraseIterations is EncryptWithPassphrase with an explicit
// PBKDF2 iteration count. The count is not part of the output; callers that
// use a non-default value must persist it themselves.
func EncryptWithPassphraseIterations(passphrase, plaintext []byte, iterations int) ([]byte, error) {
	if iterations < 1 {
		return nil, ErrInvalidIterations
	}

	salt := make([]byte, SaltSize)
	if _, err := rand.Read(salt); err != nil {
		return nil, errors.Wrap(err, "generate salt")
	}
	key := DeriveKey(passphrase, salt, iterations)
	defer memzero.Zero(key[:])

	sealed, err := Encrypt(key, plaintext)
	if err != nil {
		return nil, err
	}
	return append(salt, sealed...), nil
}

// DecryptWithPassphraseIterations is DecryptWithPassphrase with an explicit
// PBKDF2 iteration count.
//
// A wrong passphrase fails with ErrAuthenticationFailure, the same error a
// tampered envelope produces.
func DecryptWithPassphraseIterations(passphrase, data []byte, iterations int) ([]byte, error) {
	if len(data) < PassphraseHeaderSize {
		return nil, ErrInputTooShort
	}
	if iterations < 1 {
		return nil, ErrInvalidIterations
	}

	salt, rest := data[:SaltSize], data[SaltSize:]
	key := DeriveKey(passphrase, salt, iterations)
	defer memzero.Zero(key[:])

	return Decrypt(key, rest)
}
