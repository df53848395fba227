package app

import (
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"google.golang.org/grpc"

	"yacen/internal/crypto"
	"yacen/internal/directory"
	"yacen/internal/rpcauth"
	"yacen/internal/services/identity"
	"yacen/internal/store"
)

// ErrNoDirectory is returned when a directory command runs without a
// configured address or pinned key.
var ErrNoDirectory = errors.New("directory address and key must be configured")

// Wire bundles the stores and services for the CLI.
type Wire struct {
	Profiles *store.ProfileFileStore
	Identity *identity.Service
}

// NewWire constructs the dependency graph from cfg.
func NewWire(cfg Config, log logrus.FieldLogger) *Wire {
	profiles := store.NewProfileFileStore(cfg.Home, cfg.KDF.Iterations, log.WithField("component", "store"))
	return &Wire{
		Profiles: profiles,
		Identity: identity.New(profiles, log.WithField("component", "identity")),
	}
}

// DialDirectory unlocks the profile key and connects to the configured
// directory. Requests are signed with the profile key and replies must be
// signed by the pinned directory key.
func (a *App) DialDirectory(passphrase string, opts ...grpc.DialOption) (*directory.Client, error) {
	if a.Config.DirectoryAddr == "" || a.Config.DirectoryKey == "" {
		return nil, ErrNoDirectory
	}
	serverKey, err := crypto.DecodePublicKey(a.Config.DirectoryKey)
	if err != nil {
		return nil, err
	}
	key, err := a.Identity.Signer(passphrase)
	if err != nil {
		return nil, err
	}

	log := a.Log.WithField("component", "rpcauth")
	signer, err := rpcauth.NewRequestSigner(key, a.Config.Headers.Signature, a.Config.Headers.PublicKey,
		rpcauth.WithLogger(log))
	if err != nil {
		return nil, err
	}
	verifier, err := rpcauth.NewResponseVerifier(serverKey, a.Config.Headers.Signature, rpcauth.WithLogger(log))
	if err != nil {
		return nil, err
	}
	return directory.Dial(a.Config.DirectoryAddr, signer, verifier, opts...)
}
