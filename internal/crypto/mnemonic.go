package crypto

import (
	"crypto/ed25519"
	"strings"

	"github.com/pkg/errors"
	"github.com/tyler-smith/go-bip39"

	"yacen/internal/util/memzero"
)

// ErrInvalidMnemonic is returned for recovery phrases that are not valid
// 24-word BIP-39 mnemonics.
var ErrInvalidMnemonic = errors.New("invalid recovery phrase")

const mnemonicWords = 24

// RecoveryPhrase encodes the signer's 32-byte seed as a 24-word BIP-39
// mnemonic. The phrase alone is enough to rebuild the key pair.
func RecoveryPhrase(s *Ed25519Signer) (string, error) {
	seed := s.priv.Seed()
	defer memzero.Zero(seed)
	return bip39.NewMnemonic(seed)
}

// SignerFromRecoveryPhrase rebuilds the key pair encoded by RecoveryPhrase.
func SignerFromRecoveryPhrase(phrase string) (*Ed25519Signer, error) {
	phrase = strings.Join(strings.Fields(strings.ToLower(phrase)), " ")
	if len(strings.Fields(phrase)) != mnemonicWords {
		return nil, errors.Wrapf(ErrInvalidMnemonic, "want %d words", mnemonicWords)
	}
	seed, err := bip39.EntropyFromMnemonic(phrase)
	if err != nil {
		return nil, errors.Wrap(ErrInvalidMnemonic, err.Error())
	}
	defer memzero.Zero(seed)
	return newSigner(ed25519.NewKeyFromSeed(seed)), nil
}
