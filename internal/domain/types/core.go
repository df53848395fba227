package types

// Fingerprint is a short identifier for public keys presented to users.
type Fingerprint string

// String returns the string form of the fingerprint.
func (f Fingerprint) String() string { return string(f) }

// LocalID identifies an identity inside one profile. It is the hex form of
// 32 random bytes and has no meaning outside that profile.
type LocalID string

// String returns the string form of the identifier.
func (id LocalID) String() string { return string(id) }
