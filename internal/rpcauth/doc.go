// Package rpcauth authenticates RPC traffic with Ed25519 signatures carried
// in binary metadata.
//
// # Model
//
// The sender serialises a message with a deterministic encoding
// (CanonicalEncode), signs the bytes, and attaches two binary headers: the
// raw 64-byte signature and the raw 32-byte public key. The receiver
// re-serialises the message it got, reads the signature header and verifies
// it, either against a pinned key (ResponseVerifier) or against the key in
// the public key header, optionally limited to a trust set
// (RequestVerifier).
//
// The core types work on bytes and the framework-neutral Metadata map.
// grpc.go adapts them to gRPC unary interceptors:
//
//	client: UnaryClientInterceptor(requestSigner, responseVerifier)
//	server: UnaryServerInterceptor(requestVerifier, responseSigner)
//
// # Errors
//
// ErrMissingSignature and ErrMalformedSignature describe header problems and
// are reported before any encoding. ErrEncodingFailure wraps serialisation
// errors. ErrAuthenticationFailure means the signature does not match. At the
// gRPC boundary all of them become codes.Unauthenticated; there is no partial
// success.
//
// # Concurrency
//
// Signers and verifiers are immutable after construction and can be shared
// by any number of goroutines.
package rpcauth
