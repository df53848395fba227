package rpcauth

import (
	"strings"

	"github.com/pkg/errors"
)

const (
	// DefaultSignatureHeader carries the 64-byte Ed25519 signature.
	DefaultSignatureHeader = "x-signature-bin"
	// DefaultPublicKeyHeader carries the signer's 32-byte public key.
	DefaultPublicKeyHeader = "x-pubkey-bin"

	binarySuffix = "-bin"
)

// Metadata holds binary header values keyed by lower-case header name. It is
// the framework-neutral form of the headers attached to a signed message.
type Metadata map[string][]byte

// Get returns the value stored under key.
func (md Metadata) Get(key string) ([]byte, bool) {
	v, ok := md[strings.ToLower(key)]
	return v, ok
}

// Set stores a copy of value under key.
func (md Metadata) Set(key string, value []byte) {
	md[strings.ToLower(key)] = append([]byte(nil), value...)
}

// ValidateHeader normalises name and checks that it can carry binary
// metadata: lower-case ASCII token characters ending in "-bin" and outside
// the reserved "grpc-" namespace.
func ValidateHeader(name string) (string, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if len(name) <= len(binarySuffix) || !strings.HasSuffix(name, binarySuffix) {
		return "", errors.Wrapf(ErrHeaderName, "%q must end in %q", name, binarySuffix)
	}
	if strings.HasPrefix(name, "grpc-") {
		return "", errors.Wrapf(ErrHeaderName, "%q uses the reserved grpc- prefix", name)
	}
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-', r == '_', r == '.':
		default:
			return "", errors.Wrapf(ErrHeaderName, "%q contains %q", name, r)
		}
	}
	return name, nil
}
