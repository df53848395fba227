package types

import (
	"encoding/hex"
	"fmt"
)

// X25519Public is a Curve25519 public key used for anonymous sealing.
type X25519Public [32]byte

// Slice returns the key as a []byte.
func (p X25519Public) Slice() []byte { return p[:] }

// X25519Private is a Curve25519 private key.
type X25519Private [32]byte

// Slice returns the key as a []byte.
func (k X25519Private) Slice() []byte { return k[:] }

// Ed25519Public is an Ed25519 verification key.
//
// It marshals as lowercase hex so it can key JSON maps.
type Ed25519Public [32]byte

// Slice returns the key as a []byte.
func (p Ed25519Public) Slice() []byte { return p[:] }

// String returns the hex form of the key.
func (p Ed25519Public) String() string { return hex.EncodeToString(p[:]) }

// MarshalText implements encoding.TextMarshaler.
func (p Ed25519Public) MarshalText() ([]byte, error) { return hexText(p[:]), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (p *Ed25519Public) UnmarshalText(b []byte) error { return fromHexText(p[:], b, "ed25519 public key") }

// Ed25519Private is an Ed25519 private key in the ed25519.PrivateKey layout.
type Ed25519Private [64]byte

// Slice returns the key as a []byte.
func (k Ed25519Private) Slice() []byte { return k[:] }

// SymmetricKey is a 256-bit AES key.
type SymmetricKey [32]byte

// Slice returns the key as a []byte.
func (k SymmetricKey) Slice() []byte { return k[:] }

// MarshalText implements encoding.TextMarshaler.
func (k SymmetricKey) MarshalText() ([]byte, error) { return hexText(k[:]), nil }

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *SymmetricKey) UnmarshalText(b []byte) error { return fromHexText(k[:], b, "symmetric key") }

func hexText(b []byte) []byte {
	out := make([]byte, hex.EncodedLen(len(b)))
	hex.Encode(out, b)
	return out
}

func fromHexText(dst, src []byte, what string) error {
	if hex.DecodedLen(len(src)) != len(dst) {
		return fmt.Errorf("%s: want %d hex bytes, got %d", what, len(dst)*2, len(src))
	}
	_, err := hex.Decode(dst, src)
	return err
}
