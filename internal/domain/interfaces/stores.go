package interfaces

import domaintypes "yacen/internal/domain/types"

// ProfileStore persists the local profile encrypted under a passphrase.
type ProfileStore interface {
	SaveProfile(passphrase string, profile domaintypes.Profile) error
	LoadProfile(passphrase string) (domaintypes.Profile, error)
	// UpdateProfile applies fn to the stored profile and saves it as one
	// step with respect to other calls on the same store.
	UpdateProfile(passphrase string, fn func(*domaintypes.Profile) error) error
	Exists() (bool, error)
}
