package crypto

import (
	"crypto/rand"

	"github.com/pkg/errors"
	"golang.org/x/crypto/nacl/box"

	"yacen/internal/domain"
)

// SealOverhead is the number of bytes SealAnonymous adds to a message.
const SealOverhead = box.AnonymousOverhead

// SealAnonymous encrypts msg to the holder of recipient's private key. The
// sender stays anonymous: an ephemeral X25519 key is generated per call and
// travels in the output.
func SealAnonymous(recipient domain.X25519Public, msg []byte) ([]byte, error) {
	pub := [32]byte(recipient)
	out, err := box.SealAnonymous(nil, msg, &pub, rand.Reader)
	if err != nil {
		return nil, errors.Wrap(err, "seal anonymous")
	}
	return out, nil
}

// OpenAnonymous decrypts the output of SealAnonymous.
func OpenAnonymous(priv domain.X25519Private, pub domain.X25519Public, sealed []byte) ([]byte, error) {
	if len(sealed) < SealOverhead {
		return nil, ErrInputTooShort
	}
	sk, pk := [32]byte(priv), [32]byte(pub)
	out, ok := box.OpenAnonymous(nil, sealed, &pk, &sk)
	if !ok {
		return nil, ErrAuthenticationFailure
	}
	return out, nil
}
