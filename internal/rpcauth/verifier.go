package rpcauth

import (
	"github.com/pkg/errors"
	"google.golang.org/protobuf/proto"

	"yacen/internal/crypto"
	"yacen/internal/domain"
)

// ResponseVerifier checks response signatures against the pinned public key
// of the remote party. It holds no state besides its configuration, so every
// call is independent.
type ResponseVerifier struct {
	pub       domain.Ed25519Public
	sigHeader string
	opts      options
}

// NewResponseVerifier returns a verifier pinned to pub that reads the
// signature from sigHeader.
func NewResponseVerifier(pub domain.Ed25519Public, sigHeader string, opts ...Option) (*ResponseVerifier, error) {
	sigHeader, err := ValidateHeader(sigHeader)
	if err != nil {
		return nil, err
	}
	return &ResponseVerifier{pub: pub, sigHeader: sigHeader, opts: buildOptions(opts)}, nil
}

// VerifyBytes checks the signature in md over an already serialised payload.
func (v *ResponseVerifier) VerifyBytes(payload []byte, md Metadata) error {
	sig, err := readSignature(md, v.sigHeader)
	if err != nil {
		return v.fail(err)
	}
	return v.fail(checkSignature(v.pub, payload, sig))
}

// Verify serialises msg exactly as the sender did and checks the signature
// in md. Header problems are reported before any encoding happens.
func (v *ResponseVerifier) Verify(msg proto.Message, md Metadata) error {
	sig, err := readSignature(md, v.sigHeader)
	if err != nil {
		return v.fail(err)
	}
	payload, err := v.opts.encodeMessage(msg)
	if err != nil {
		return v.fail(err)
	}
	return v.fail(checkSignature(v.pub, payload, sig))
}

func (v *ResponseVerifier) fail(err error) error {
	if err == nil {
		verifiedMessages.WithLabelValues(sideResponse).Inc()
		return nil
	}
	recordFailure(sideResponse, err)
	return err
}

// RequestVerifier authenticates incoming requests. The signer's public key
// travels in its own header; WithTrustedKeys limits which keys are accepted.
type RequestVerifier struct {
	sigHeader string
	pubHeader string
	opts      options
}

// NewRequestVerifier returns a verifier reading the signature and public key
// from the given headers.
func NewRequestVerifier(sigHeader, pubHeader string, opts ...Option) (*RequestVerifier, error) {
	sigHeader, err := ValidateHeader(sigHeader)
	if err != nil {
		return nil, err
	}
	pubHeader, err = ValidateHeader(pubHeader)
	if err != nil {
		return nil, err
	}
	return &RequestVerifier{sigHeader: sigHeader, pubHeader: pubHeader, opts: buildOptions(opts)}, nil
}

// VerifyBytes checks the request signature over payload and returns the key
// that produced it.
func (v *RequestVerifier) VerifyBytes(payload []byte, md Metadata) (domain.Ed25519Public, error) {
	pub, sig, err := v.readHeaders(md)
	if err != nil {
		return pub, v.fail(err)
	}
	return pub, v.fail(checkSignature(pub, payload, sig))
}

// Verify serialises msg and checks the request signature in md.
func (v *RequestVerifier) Verify(msg proto.Message, md Metadata) (domain.Ed25519Public, error) {
	pub, sig, err := v.readHeaders(md)
	if err != nil {
		return pub, v.fail(err)
	}
	payload, err := v.opts.encodeMessage(msg)
	if err != nil {
		return pub, v.fail(err)
	}
	return pub, v.fail(checkSignature(pub, payload, sig))
}

func (v *RequestVerifier) readHeaders(md Metadata) (domain.Ed25519Public, []byte, error) {
	var pub domain.Ed25519Public
	sig, err := readSignature(md, v.sigHeader)
	if err != nil {
		return pub, nil, err
	}
	raw, ok := md.Get(v.pubHeader)
	if !ok {
		return pub, nil, errors.Wrap(ErrMissingSignature, "no public key header")
	}
	if len(raw) != crypto.PublicKeySize {
		return pub, nil, errors.Wrapf(ErrMalformedPublicKey, "got %d bytes", len(raw))
	}
	copy(pub[:], raw)
	if v.opts.trusted != nil {
		if _, ok := v.opts.trusted[pub]; !ok {
			return pub, nil, errors.Wrapf(ErrUntrustedKey, "key %s", crypto.Fingerprint(pub[:]))
		}
	}
	return pub, sig, nil
}

func (v *RequestVerifier) fail(err error) error {
	if err == nil {
		verifiedMessages.WithLabelValues(sideRequest).Inc()
		return nil
	}
	recordFailure(sideRequest, err)
	return err
}

func readSignature(md Metadata, header string) ([]byte, error) {
	sig, ok := md.Get(header)
	if !ok {
		return nil, ErrMissingSignature
	}
	if len(sig) != crypto.SignatureSize {
		return nil, errors.Wrapf(ErrMalformedSignature, "got %d bytes", len(sig))
	}
	return sig, nil
}

func checkSignature(pub domain.Ed25519Public, payload, sig []byte) error {
	if err := crypto.Verify(pub.Slice(), payload, sig); err != nil {
		return ErrAuthenticationFailure
	}
	return nil
}
