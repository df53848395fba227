package rpcauth

import (
	"errors"

	"yacen/internal/crypto"
)

var (
	// ErrEncodingFailure is returned when a payload cannot be serialised
	// before signing or verification.
	ErrEncodingFailure = errors.New("payload encoding failed")

	// ErrMissingSignature is returned when the signature header is absent.
	// The message must be treated as untrusted.
	ErrMissingSignature = errors.New("missing signature header")

	// ErrMalformedSignature is returned when the signature header does not
	// hold exactly 64 bytes.
	ErrMalformedSignature = errors.New("malformed signature header")

	// ErrMalformedPublicKey is returned when the public key header does not
	// hold exactly 32 bytes.
	ErrMalformedPublicKey = errors.New("malformed public key header")

	// ErrUntrustedKey is returned when a request is signed by a key outside
	// the configured trust set.
	ErrUntrustedKey = errors.New("signing key is not trusted")

	// ErrHeaderName is returned for header names that cannot carry binary
	// metadata.
	ErrHeaderName = errors.New("invalid binary header name")

	// ErrAuthenticationFailure is returned when a signature does not match
	// the payload. It is the same sentinel as crypto.ErrAuthenticationFailure.
	ErrAuthenticationFailure = crypto.ErrAuthenticationFailure
)

// failureReason names a verification error for metrics and logs.
func failureReason(err error) string {
	switch {
	case errors.Is(err, ErrMissingSignature):
		return "missing_signature"
	case errors.Is(err, ErrMalformedSignature):
		return "malformed_signature"
	case errors.Is(err, ErrMalformedPublicKey):
		return "malformed_public_key"
	case errors.Is(err, ErrUntrustedKey):
		return "untrusted_key"
	case errors.Is(err, ErrEncodingFailure):
		return "encoding_failure"
	case errors.Is(err, ErrAuthenticationFailure):
		return "authentication_failure"
	default:
		return "other"
	}
}
