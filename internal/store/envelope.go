package store

import (
	"encoding/json"

	"github.com/pkg/errors"

	"yacen/internal/crypto"
)

const (
	// The current supported version of the encrypted file format.
	fileFormatVersion = 1

	kdfPBKDF2SHA256 = "pbkdf2-sha256"

	// Upper bound on the stored work factor, so a crafted file cannot pin
	// the CPU during load.
	maxIterations = 10_000_000
)

// ErrUnsupportedFormat is returned for files that are not a known version of
// the encrypted file format.
var ErrUnsupportedFormat = errors.New("unsupported encrypted file format")

// sealedFile is the on-disk JSON structure. The KDF parameters travel next to
// the passphrase envelope so data stays readable if the default changes.
type sealedFile struct {
	V          int    `json:"v"`
	KDF        string `json:"kdf"`
	Iterations int    `json:"iterations"`
	Data       []byte `json:"data"` // salt || nonce || ciphertext || tag
}

// Encrypt seals plaintext under passphrase with the given PBKDF2 iteration
// count and returns the encoded file.
func Encrypt(passphrase string, plaintext []byte, iterations int) ([]byte, error) {
	data, err := crypto.EncryptWithPassphraseIterations([]byte(passphrase), plaintext, iterations)
	if err != nil {
		return nil, err
	}
	return json.Marshal(sealedFile{
		V:          fileFormatVersion,
		KDF:        kdfPBKDF2SHA256,
		Iterations: iterations,
		Data:       data,
	})
}

// Decrypt opens a file produced by Encrypt using the iteration count stored
// in it. A wrong passphrase fails with crypto.ErrAuthenticationFailure.
func Decrypt(passphrase string, b []byte) ([]byte, error) {
	var f sealedFile
	if err := json.Unmarshal(b, &f); err != nil {
		return nil, errors.Wrap(ErrUnsupportedFormat, err.Error())
	}
	if f.V != fileFormatVersion {
		return nil, errors.Wrapf(ErrUnsupportedFormat, "version %d", f.V)
	}
	if f.KDF != kdfPBKDF2SHA256 {
		return nil, errors.Wrapf(ErrUnsupportedFormat, "kdf %q", f.KDF)
	}
	if f.Iterations < 1 || f.Iterations > maxIterations {
		return nil, errors.Wrapf(ErrUnsupportedFormat, "iterations %d", f.Iterations)
	}
	return crypto.DecryptWithPassphraseIterations([]byte(passphrase), f.Data, f.Iterations)
}
