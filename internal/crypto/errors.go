package crypto

import "errors"

var (
	// ErrInputTooShort is returned when an envelope is shorter than its
	// mandatory header. It is checked before any cryptographic operation.
	ErrInputTooShort = errors.New("ciphertext too short")

	// ErrAuthenticationFailure is returned when an AEAD tag does not verify.
	// Wrong key, wrong passphrase, corruption and tampering all look the same.
	ErrAuthenticationFailure = errors.New("message authentication failed")

	// ErrSignatureInvalid is returned when a signature does not verify or the
	// public key or signature is malformed.
	ErrSignatureInvalid = errors.New("signature verification failed")

	ErrInvalidIterations = errors.New("pbkdf2 iteration count must be positive")
	ErrInvalidPrivateKey = errors.New("invalid ed25519 private key")
	ErrInvalidPublicKey  = errors.New("invalid ed25519 public key")
)
