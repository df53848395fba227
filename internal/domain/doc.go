// Package domain defines the profile, identity and key types shared by the
// stores, services and RPC layer, plus the contracts between them. Types live
// in the types subpackage and interfaces in the interfaces subpackage; this
// package re-exports both under short names.
package domain
