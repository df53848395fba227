package store

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"yacen/internal/crypto"
	"yacen/internal/domain"
	"yacen/internal/util/memzero"
)

const profileFilename = "profile.json.enc"

// ErrProfileNotFound is returned by LoadProfile when nothing has been saved.
var ErrProfileNotFound = errors.New("no profile saved")

// ProfileFileStore persists the local profile to disk, encrypted under a
// passphrase.
type ProfileFileStore struct {
	dir        string
	iterations int
	log        logrus.FieldLogger
	mu         sync.Mutex
}

// NewProfileFileStore returns a ProfileFileStore rooted at dir. New writes
// use iterations; reads use whatever count the file records.
func NewProfileFileStore(dir string, iterations int, log logrus.FieldLogger) *ProfileFileStore {
	if iterations < 1 {
		iterations = crypto.DefaultIterations
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &ProfileFileStore{dir: dir, iterations: iterations, log: log}
}

func (s *ProfileFileStore) path() string { return filepath.Join(s.dir, profileFilename) }

// SaveProfile writes the encrypted profile to disk.
func (s *ProfileFileStore) SaveProfile(passphrase string, profile domain.Profile) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.save(passphrase, profile)
}

// LoadProfile reads and decrypts the profile.
func (s *ProfileFileStore) LoadProfile(passphrase string) (domain.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load(passphrase)
}

// UpdateProfile loads the profile, applies fn and saves the result while
// holding the store lock, so concurrent updates are not lost. Nothing is
// written when fn returns an error.
func (s *ProfileFileStore) UpdateProfile(passphrase string, fn func(*domain.Profile) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	profile, err := s.load(passphrase)
	if err != nil {
		return err
	}
	if err := fn(&profile); err != nil {
		return err
	}
	return s.save(passphrase, profile)
}

func (s *ProfileFileStore) save(passphrase string, profile domain.Profile) error {
	raw, err := json.Marshal(profile)
	if err != nil {
		return errors.Wrap(err, "encode profile")
	}
	defer memzero.Zero(raw)

	ct, err := Encrypt(passphrase, raw, s.iterations)
	if err != nil {
		return err
	}
	if err := writeFile(s.path(), ct, 0o600); err != nil {
		return errors.Wrapf(err, "write %s", s.path())
	}
	s.log.WithFields(logrus.Fields{
		"path":  s.path(),
		"known": len(profile.KnownIdentities),
	}).Debug("profile saved")
	return nil
}

func (s *ProfileFileStore) load(passphrase string) (domain.Profile, error) {
	b, err := readFile(s.path())
	if err != nil {
		return domain.Profile{}, err
	}
	if b == nil {
		return domain.Profile{}, ErrProfileNotFound
	}
	pt, err := Decrypt(passphrase, b)
	if err != nil {
		return domain.Profile{}, err
	}
	defer memzero.Zero(pt)

	var profile domain.Profile
	if err := json.Unmarshal(pt, &profile); err != nil {
		return domain.Profile{}, errors.Wrap(err, "decode profile")
	}
	if profile.KnownIdentities == nil {
		profile.KnownIdentities = make(domain.KnownIdentities)
	}
	return profile, nil
}

// Exists reports whether a profile file is present.
func (s *ProfileFileStore) Exists() (bool, error) {
	_, err := os.Stat(s.path())
	if errors.Is(err, os.ErrNotExist) {
		return false, nil
	}
	return err == nil, err
}

// Compile-time assertion that ProfileFileStore implements domain.ProfileStore.
var _ domain.ProfileStore = (*ProfileFileStore)(nil)
