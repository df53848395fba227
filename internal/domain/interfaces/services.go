package interfaces

import (
	"context"

	domaintypes "yacen/internal/domain/types"
)

// IdentityService creates, loads and inspects the local profile.
type IdentityService interface {
	CreateProfile(passphrase, name string) (domaintypes.Profile, domaintypes.Fingerprint, error)
	LoadProfile(passphrase string) (domaintypes.Profile, error)
	FingerprintProfile(passphrase string) (domaintypes.Fingerprint, error)
	AddKnownIdentity(passphrase string, contact domaintypes.Contact) (domaintypes.Identity, error)
}

// DirectoryClient publishes and looks up contacts over signed RPC.
type DirectoryClient interface {
	Publish(ctx context.Context, contact domaintypes.Contact) error
	Lookup(ctx context.Context, fp domaintypes.Fingerprint) (domaintypes.Contact, error)
	Close() error
}
