// Package memzero wipes key material from memory once it is no longer needed.
package memzero

import "runtime"

// Zero overwrites b with zeros. It is best-effort: Go may already have
// copied the contents elsewhere.
//
//go:noinline
func Zero(b []byte) {
	clear(b)
	runtime.KeepAlive(b)
}

// ZeroAll wipes every slice in bs.
func ZeroAll(bs ...[]byte) {
	for _, b := range bs {
		Zero(b)
	}
}
