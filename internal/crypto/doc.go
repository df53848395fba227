// Package crypto exposes the primitives used by yacen.
//
// Contents
//
//   - AES-256-GCM sealing with a raw 256-bit key (GenerateKey, Encrypt,
//     Decrypt). Output layout: nonce(12) || ciphertext || tag(16).
//   - Passphrase sealing via PBKDF2-HMAC-SHA256 (DeriveKey,
//     EncryptWithPassphrase, DecryptWithPassphrase). Output layout:
//     salt(16) || nonce(12) || ciphertext || tag(16).
//   - Ed25519 key generation, loading, signing and verification
//     (GenerateEd25519, ParseEd25519, NewEd25519Signer, Verify). Private keys
//     travel as PKCS#8 DER documents.
//   - Anonymous sealing to an X25519 public key (GenerateX25519,
//     SealAnonymous, OpenAnonymous), delegated to NaCl box.
//   - Short public-key fingerprints and base58 key text (Fingerprint,
//     EncodePublicKey, DecodePublicKey, EncodeSealKey, DecodeSealKey).
//   - 24-word BIP-39 recovery phrases for Ed25519 seeds (RecoveryPhrase,
//     SignerFromRecoveryPhrase).
//
// # Errors
//
// Envelopes shorter than their header fail with ErrInputTooShort before any
// cryptographic work. Failed authentication is always ErrAuthenticationFailure
// regardless of cause; failed signatures are ErrSignatureInvalid.
//
// # Notes
//
// All functions are stateless and safe for concurrent use. Derived keys are
// wiped with memzero once consumed; callers should treat returned secrets the
// same way.
package crypto
