package identity

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"unicode"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"yacen/internal/crypto"
	"yacen/internal/domain"
	"yacen/internal/util/memzero"
)

const (
	// minPassphraseLength defines the minimum number of characters required for a passphrase.
	minPassphraseLength = 12

	localIDSize = 32
)

var (
	// ErrWeakPassphrase is returned when the passphrase fails the strength policy.
	ErrWeakPassphrase = fmt.Errorf(
		"passphrase is too weak (must be at least %d characters and include upper, lower, "+
			"number, and symbol)",
		minPassphraseLength,
	)

	// ErrProfileExists is returned by CreateProfile when a profile is already saved.
	ErrProfileExists = errors.New("profile already exists")

	// ErrEmptyName is returned when a profile or identity has no name.
	ErrEmptyName = errors.New("name must not be empty")
)

// Service manages the local profile using a backing store.
//
// The profile contains:
//   - An Ed25519 key pair, stored as PKCS#8, used to sign RPC requests.
//   - The identities the user has chosen to trust, keyed by public key.
type Service struct {
	store domain.ProfileStore
	log   logrus.FieldLogger
}

// New returns an identity service backed by the given store.
func New(s domain.ProfileStore, log logrus.FieldLogger) *Service {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Service{store: s, log: log}
}

// CreateProfile creates a new profile, saves it encrypted with the passphrase,
// and returns the profile plus a short fingerprint of its public key.
func (s *Service) CreateProfile(
	passphrase, name string,
) (domain.Profile, domain.Fingerprint, error) {
	if err := s.checkNew(passphrase, name); err != nil {
		return domain.Profile{}, "", err
	}

	keyPair, err := crypto.GenerateEd25519()
	if err != nil {
		return domain.Profile{}, "", err
	}
	signer, err := crypto.ParseEd25519(keyPair)
	if err != nil {
		return domain.Profile{}, "", err
	}
	return s.saveNew(passphrase, name, signer, keyPair)
}

// RestoreProfile rebuilds a profile from a recovery phrase. Known identities
// are not part of the phrase and start empty.
func (s *Service) RestoreProfile(
	passphrase, name, phrase string,
) (domain.Profile, domain.Fingerprint, error) {
	if err := s.checkNew(passphrase, name); err != nil {
		return domain.Profile{}, "", err
	}

	signer, err := crypto.SignerFromRecoveryPhrase(phrase)
	if err != nil {
		return domain.Profile{}, "", err
	}
	keyPair, err := signer.PKCS8()
	if err != nil {
		return domain.Profile{}, "", err
	}
	return s.saveNew(passphrase, name, signer, keyPair)
}

// RecoveryPhrase returns the 24-word phrase that restores the profile key.
func (s *Service) RecoveryPhrase(passphrase string) (string, error) {
	signer, err := s.Signer(passphrase)
	if err != nil {
		return "", err
	}
	return crypto.RecoveryPhrase(signer)
}

// checkNew applies the policy for a profile that is about to be written.
func (s *Service) checkNew(passphrase, name string) error {
	if !isSecurePassphrase(passphrase) {
		return ErrWeakPassphrase
	}
	if name == "" {
		return ErrEmptyName
	}
	exists, err := s.store.Exists()
	if err != nil {
		return err
	}
	if exists {
		return ErrProfileExists
	}
	return nil
}

func (s *Service) saveNew(
	passphrase, name string,
	signer *crypto.Ed25519Signer,
	keyPair []byte,
) (domain.Profile, domain.Fingerprint, error) {
	profile := domain.Profile{
		Name:            name,
		KeyPair:         keyPair,
		KnownIdentities: make(domain.KnownIdentities),
	}
	if err := s.store.SaveProfile(passphrase, profile); err != nil {
		return domain.Profile{}, "", errors.Wrap(err, "save profile")
	}

	fp := crypto.Fingerprint(signer.PublicKey().Slice())
	s.log.WithField("fingerprint", fp).Info("profile created")
	return profile, fp, nil
}

// LoadProfile decrypts and returns the local profile.
func (s *Service) LoadProfile(passphrase string) (domain.Profile, error) {
	return s.store.LoadProfile(passphrase)
}

// FingerprintProfile returns a short fingerprint of the profile's public key.
func (s *Service) FingerprintProfile(passphrase string) (domain.Fingerprint, error) {
	signer, err := s.Signer(passphrase)
	if err != nil {
		return "", err
	}
	return crypto.Fingerprint(signer.PublicKey().Slice()), nil
}

// Signer loads the profile and returns a signer over its key pair.
func (s *Service) Signer(passphrase string) (*crypto.Ed25519Signer, error) {
	profile, err := s.store.LoadProfile(passphrase)
	if err != nil {
		return nil, err
	}
	defer memzero.Zero(profile.KeyPair)
	return crypto.ParseEd25519(profile.KeyPair)
}

// AddKnownIdentity records contact as trusted and persists the profile.
// Adding a key that is already known returns the existing identity.
func (s *Service) AddKnownIdentity(
	passphrase string,
	contact domain.Contact,
) (domain.Identity, error) {
	var (
		id    domain.Identity
		added bool
	)
	err := s.store.UpdateProfile(passphrase, func(profile *domain.Profile) error {
		if existing, ok := profile.KnownIdentities[contact.PublicKey]; ok {
			id = existing
			return nil
		}
		fresh, err := NewLocalIdentity(contact.Name)
		if err != nil {
			return err
		}
		fresh.PublicKey = contact.PublicKey
		if profile.KnownIdentities == nil {
			profile.KnownIdentities = make(domain.KnownIdentities)
		}
		profile.KnownIdentities[contact.PublicKey] = fresh
		id, added = fresh, true
		return nil
	})
	if err != nil {
		return domain.Identity{}, errors.Wrap(err, "update profile")
	}

	if added {
		s.log.WithFields(logrus.Fields{
			"name":        id.Name,
			"fingerprint": crypto.Fingerprint(contact.PublicKey.Slice()),
		}).Info("identity added")
	}
	return id, nil
}

// KnownKeys returns the public keys of every trusted identity.
func (s *Service) KnownKeys(passphrase string) ([]domain.Ed25519Public, error) {
	profile, err := s.store.LoadProfile(passphrase)
	if err != nil {
		return nil, err
	}
	keys := make([]domain.Ed25519Public, 0, len(profile.KnownIdentities))
	for k := range profile.KnownIdentities {
		keys = append(keys, k)
	}
	return keys, nil
}

// NewLocalIdentity returns an identity with a fresh random LocalID and
// LocalKey. The public key is left for the caller to fill in.
func NewLocalIdentity(name string) (domain.Identity, error) {
	if name == "" {
		return domain.Identity{}, ErrEmptyName
	}
	var raw [localIDSize]byte
	if _, err := rand.Read(raw[:]); err != nil {
		return domain.Identity{}, errors.Wrap(err, "generate local id")
	}
	key, err := crypto.GenerateKey()
	if err != nil {
		return domain.Identity{}, err
	}
	return domain.Identity{
		LocalID:  domain.LocalID(hex.EncodeToString(raw[:])),
		Name:     name,
		LocalKey: key,
	}, nil
}

// isSecurePassphrase enforces a basic strength policy.
func isSecurePassphrase(passphrase string) bool {
	var hasUpper, hasLower, hasDigit, hasSymbol bool
	if len(passphrase) < minPassphraseLength {
		return false
	}
	for _, r := range passphrase {
		switch {
		case unicode.IsUpper(r):
			hasUpper = true
		case unicode.IsLower(r):
			hasLower = true
		case unicode.IsDigit(r):
			hasDigit = true
		case unicode.IsPunct(r), unicode.IsSymbol(r):
			hasSymbol = true
		}
	}
	return hasUpper && hasLower && hasDigit && hasSymbol
}

// Compile-time assertion that Service implements domain.IdentityService.
var _ domain.IdentityService = (*Service)(nil)
