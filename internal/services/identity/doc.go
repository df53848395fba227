// Package identity manages creation and loading of the local profile.
//
// It enforces passphrase policy, generates the profile's Ed25519 key pair,
// keeps the set of trusted identities, and persists everything via the
// domain.ProfileStore.
package identity
