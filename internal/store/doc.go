// Package store provides file-based persistence for yacen's local profile.
//
// Files are JSON wrapped in a versioned encrypted format:
//
//	{"v":1,"kdf":"pbkdf2-sha256","iterations":N,"data":"<base64>"}
//
// where data is the passphrase envelope salt(16) || nonce(12) ||
// ciphertext || tag(16). Recording the iteration count next to the salt keeps
// old files readable when the default work factor changes.
//
// Writes go through a temp file and rename, with owner-only permissions.
// Stores are concurrency-safe via internal locking.
package store
