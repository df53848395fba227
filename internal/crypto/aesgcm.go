package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"

	"github.com/pkg/errors"

	"yacen/internal/domain"
)

const (
	// KeySize is the AES-256 key length.
	KeySize = 32
	// NonceSize is the GCM standard nonce length.
	NonceSize = 12
	// TagSize is the GCM authentication tag length appended to ciphertexts.
	TagSize = 16
)

// GenerateKey returns a fresh random AES-256 key.
func GenerateKey() (domain.SymmetricKey, error) {
	var key domain.SymmetricKey
	if _, err := rand.Read(key[:]); err != nil {
		return key, errors.Wrap(err, "generate key")
	}
	return key, nil
}

// Encrypt seals plaintext with AES-256-GCM under key.
//
// A random nonce is drawn for every call. The output layout is
// nonce(12) || ciphertext || tag(16).
func Encrypt(key domain.SymmetricKey, plaintext []byte) ([]byte, error) {
	aead, err := newGCM(key)
	if err != nil {
		return nil, err
	}

	out := make([]byte, NonceSize, NonceSize+len(plaintext)+TagSize)
	if _, err := rand.Read(out); err != nil {
		return nil, errors.Wrap(err, "generate nonce")
	}
	return aead.Seal(out, out[:NonceSize], plaintext, nil), nil
}

// Decrypt opens data produced by Encrypt.
//
// Inputs shorter than a nonce fail with ErrInputTooShort. Any tag mismatch
// fails with ErrAuthenticationFailure.
func Decrypt(key domain.SymmetricKey, data []byte) ([]byte, error) {
	if len(data) < NonceSize {
		return nil, ErrInputTooShort
	}
	aead, err := newGCM(key)
	if err != nil {
		return nil, err
	}

	nonce, ciphertext := data[:NonceSize], data[NonceSize:]
	plaintext, err := aead.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, ErrAuthenticationFailure
	}
	return plaintext, nil
}

func newGCM(key domain.SymmetricKey) (cipher.AEAD, error) {
	block, err := aes.NewCipher(key.Slice())
	if err != nil {
		return nil, errors.Wrap(err, "aes cipher")
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, errors.Wrap(err, "gcm mode")
	}
	return aead, nil
}
