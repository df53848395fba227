package rpcauth

import (
	"github.com/pkg/errors"
	"google.golang.org/protobuf/proto"

	"yacen/internal/crypto"
	"yacen/internal/domain"
)

// MessageSigner signs outgoing RPC payloads and produces the binary headers
// that carry the signature and the signer's public key. It never mutates the
// payload and is safe for concurrent use.
type MessageSigner struct {
	signer    crypto.Signer
	sigHeader string
	pubHeader string
	side      string
	opts      options
}

// NewRequestSigner returns a signer for outgoing requests.
func NewRequestSigner(signer crypto.Signer, sigHeader, pubHeader string, opts ...Option) (*MessageSigner, error) {
	return newMessageSigner(signer, sigHeader, pubHeader, sideRequest, opts)
}

// NewResponseSigner returns a signer for outgoing responses.
func NewResponseSigner(signer crypto.Signer, sigHeader, pubHeader string, opts ...Option) (*MessageSigner, error) {
	return newMessageSigner(signer, sigHeader, pubHeader, sideResponse, opts)
}

func newMessageSigner(signer crypto.Signer, sigHeader, pubHeader, side string, opts []Option) (*MessageSigner, error) {
	if signer == nil {
		return nil, errors.New("rpcauth: nil signer")
	}
	sigHeader, err := ValidateHeader(sigHeader)
	if err != nil {
		return nil, err
	}
	pubHeader, err = ValidateHeader(pubHeader)
	if err != nil {
		return nil, err
	}
	if sigHeader == pubHeader {
		return nil, errors.Wrap(ErrHeaderName, "signature and public key headers must differ")
	}
	return &MessageSigner{
		signer:    signer,
		sigHeader: sigHeader,
		pubHeader: pubHeader,
		side:      side,
		opts:      buildOptions(opts),
	}, nil
}

// PublicKey returns the key peers should pin to verify this signer.
func (s *MessageSigner) PublicKey() domain.Ed25519Public { return s.signer.PublicKey() }

// SignBytes signs an already serialised payload and returns the metadata
// additions: the raw signature and the raw public key.
func (s *MessageSigner) SignBytes(payload []byte) Metadata {
	pub := s.signer.PublicKey()
	md := Metadata{
		s.sigHeader: s.signer.Sign(payload),
		s.pubHeader: pub[:],
	}
	signedMessages.WithLabelValues(s.side).Inc()
	return md
}

// Intercept serialises msg with the configured encoder and signs the bytes.
// It fails only with ErrEncodingFailure.
func (s *MessageSigner) Intercept(msg proto.Message) (Metadata, error) {
	payload, err := s.opts.encodeMessage(msg)
	if err != nil {
		return nil, err
	}
	return s.SignBytes(payload), nil
}
