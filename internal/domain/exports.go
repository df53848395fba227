package domain

import (
	interfaces "yacen/internal/domain/interfaces"
	types "yacen/internal/domain/types"
)

// Type aliases expose domain types from the types subpackage for compact imports.
type (
	Fingerprint     = types.Fingerprint
	LocalID         = types.LocalID
	Identity        = types.Identity
	KnownIdentities = types.KnownIdentities
	Profile         = types.Profile
	Contact         = types.Contact
	X25519Public    = types.X25519Public
	X25519Private   = types.X25519Private
	Ed25519Public   = types.Ed25519Public
	Ed25519Private  = types.Ed25519Private
	SymmetricKey    = types.SymmetricKey
)

// Interface aliases expose domain interfaces from the interfaces subpackage.
type (
	IdentityService = interfaces.IdentityService
	DirectoryClient = interfaces.DirectoryClient
	ProfileStore    = interfaces.ProfileStore
)
