package types

// Identity is a peer known to a profile.
type Identity struct {
	LocalID   LocalID       `json:"local_id"`
	Name      string        `json:"name"`
	PublicKey Ed25519Public `json:"public_key"`
	LocalKey  SymmetricKey  `json:"local_key"`
}

// KnownIdentities indexes identities by their verification key.
type KnownIdentities map[Ed25519Public]Identity

// Profile is the local user: a display name, the signing key pair as a
// PKCS#8 document, and the identities the user trusts.
type Profile struct {
	Name            string          `json:"name"`
	KeyPair         []byte          `json:"keypair"`
	KnownIdentities KnownIdentities `json:"known_identities"`
}

// Contact is the public half of an identity, as exchanged through the
// directory.
type Contact struct {
	Name      string        `json:"name"`
	PublicKey Ed25519Public `json:"public_key"`
}
