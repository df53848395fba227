package rpcauth

import (
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"google.golang.org/protobuf/proto"

	"yacen/internal/domain"
)

// Encoder turns a message into the bytes that get signed. Signer and
// verifier must use the same encoder.
type Encoder func(msg proto.Message) ([]byte, error)

var deterministic = proto.MarshalOptions{Deterministic: true}

// CanonicalEncode serialises msg with deterministic protobuf encoding, so
// map fields are emitted in a stable order on both ends of the connection.
func CanonicalEncode(msg proto.Message) ([]byte, error) {
	if msg == nil {
		return nil, errors.Wrap(ErrEncodingFailure, "nil message")
	}
	b, err := deterministic.Marshal(msg)
	if err != nil {
		return nil, errors.Wrap(ErrEncodingFailure, err.Error())
	}
	return b, nil
}

type options struct {
	encode  Encoder
	log     logrus.FieldLogger
	trusted map[domain.Ed25519Public]struct{}
}

// Option configures signers and verifiers.
type Option func(*options)

// WithEncoder replaces CanonicalEncode.
func WithEncoder(enc Encoder) Option {
	return func(o *options) { o.encode = enc }
}

// WithLogger sets the logger used for verification failures.
func WithLogger(log logrus.FieldLogger) Option {
	return func(o *options) { o.log = log }
}

// WithTrustedKeys restricts a RequestVerifier to requests signed by keys.
// Without it any well-formed signature is accepted and the signer's key is
// handed to the handler for its own checks.
func WithTrustedKeys(keys ...domain.Ed25519Public) Option {
	return func(o *options) {
		if o.trusted == nil {
			o.trusted = make(map[domain.Ed25519Public]struct{}, len(keys))
		}
		for _, k := range keys {
			o.trusted[k] = struct{}{}
		}
	}
}

func buildOptions(opts []Option) options {
	o := options{encode: CanonicalEncode, log: logrus.StandardLogger()}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

func (o options) encodeMessage(msg proto.Message) ([]byte, error) {
	b, err := o.encode(msg)
	if err != nil {
		if errors.Is(err, ErrEncodingFailure) {
			return nil, err
		}
		return nil, errors.Wrap(ErrEncodingFailure, err.Error())
	}
	return b, nil
}
