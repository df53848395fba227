package rpcauth_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"yacen/internal/crypto"
	"yacen/internal/domain"
	"yacen/internal/rpcauth"
)

func newSigner(t *testing.T) *crypto.Ed25519Signer {
	t.Helper()
	pkcs8, err := crypto.GenerateEd25519()
	require.NoError(t, err)
	s, err := crypto.ParseEd25519(pkcs8)
	require.NoError(t, err)
	return s
}

func newRequestSigner(t *testing.T, s crypto.Signer, opts ...rpcauth.Option) *rpcauth.MessageSigner {
	t.Helper()
	rs, err := rpcauth.NewRequestSigner(s, rpcauth.DefaultSignatureHeader, rpcauth.DefaultPublicKeyHeader, opts...)
	require.NoError(t, err)
	return rs
}

func TestSignedMessageVerifies(t *testing.T) {
	key := newSigner(t)
	signer := newRequestSigner(t, key)
	msg := wrapperspb.String("hello")

	md, err := signer.Intercept(msg)
	require.NoError(t, err)

	sig, ok := md.Get(rpcauth.DefaultSignatureHeader)
	require.True(t, ok)
	require.Len(t, sig, crypto.SignatureSize)
	pub, ok := md.Get(rpcauth.DefaultPublicKeyHeader)
	require.True(t, ok)
	require.Equal(t, key.PublicKey().Slice(), pub)

	verifier, err := rpcauth.NewResponseVerifier(key.PublicKey(), rpcauth.DefaultSignatureHeader)
	require.NoError(t, err)

	// The response carries the same serialised bytes as the signed request.
	require.NoError(t, verifier.Verify(wrapperspb.String("hello"), md))

	err = verifier.Verify(wrapperspb.String("hello"), rpcauth.Metadata{})
	require.ErrorIs(t, err, rpcauth.ErrMissingSignature)
}

func TestInterceptDoesNotMutate(t *testing.T) {
	signer := newRequestSigner(t, newSigner(t))
	msg := wrapperspb.String("payload")
	before := proto.Clone(msg)

	_, err := signer.Intercept(msg)
	require.NoError(t, err)
	require.True(t, proto.Equal(before, msg))
}

func TestSignBytesMatchesIntercept(t *testing.T) {
	signer := newRequestSigner(t, newSigner(t))
	msg := wrapperspb.Bytes([]byte{1, 2, 3})
	raw, err := rpcauth.CanonicalEncode(msg)
	require.NoError(t, err)

	a, err := signer.Intercept(msg)
	require.NoError(t, err)
	require.Equal(t, a, signer.SignBytes(raw))
}

func TestResponseVerifierFailures(t *testing.T) {
	key := newSigner(t)
	signer := newRequestSigner(t, key)
	verifier, err := rpcauth.NewResponseVerifier(key.PublicKey(), rpcauth.DefaultSignatureHeader)
	require.NoError(t, err)

	md, err := signer.Intercept(wrapperspb.String("original"))
	require.NoError(t, err)

	t.Run("tampered payload", func(t *testing.T) {
		err := verifier.Verify(wrapperspb.String("tampered"), md)
		require.ErrorIs(t, err, rpcauth.ErrAuthenticationFailure)
	})

	t.Run("flipped signature byte", func(t *testing.T) {
		sig, _ := md.Get(rpcauth.DefaultSignatureHeader)
		for i := range sig {
			bad := rpcauth.Metadata{}
			bad.Set(rpcauth.DefaultSignatureHeader, sig)
			bad[rpcauth.DefaultSignatureHeader][i] ^= 0x01
			err := verifier.Verify(wrapperspb.String("original"), bad)
			require.ErrorIs(t, err, rpcauth.ErrAuthenticationFailure, "byte %d", i)
		}
	})

	t.Run("short signature", func(t *testing.T) {
		sig, _ := md.Get(rpcauth.DefaultSignatureHeader)
		bad := rpcauth.Metadata{rpcauth.DefaultSignatureHeader: sig[:63]}
		err := verifier.Verify(wrapperspb.String("original"), bad)
		require.ErrorIs(t, err, rpcauth.ErrMalformedSignature)
	})

	t.Run("long signature", func(t *testing.T) {
		sig, _ := md.Get(rpcauth.DefaultSignatureHeader)
		bad := rpcauth.Metadata{rpcauth.DefaultSignatureHeader: append(append([]byte(nil), sig...), 0)}
		err := verifier.VerifyBytes(nil, bad)
		require.ErrorIs(t, err, rpcauth.ErrMalformedSignature)
	})

	t.Run("other key", func(t *testing.T) {
		other, err := rpcauth.NewResponseVerifier(newSigner(t).PublicKey(), rpcauth.DefaultSignatureHeader)
		require.NoError(t, err)
		require.ErrorIs(t, other.Verify(wrapperspb.String("original"), md), rpcauth.ErrAuthenticationFailure)
	})

	t.Run("header checked before encoding", func(t *testing.T) {
		failing := func(proto.Message) ([]byte, error) { return nil, errors.New("boom") }
		v, err := rpcauth.NewResponseVerifier(key.PublicKey(), rpcauth.DefaultSignatureHeader, rpcauth.WithEncoder(failing))
		require.NoError(t, err)
		require.ErrorIs(t, v.Verify(wrapperspb.String("x"), rpcauth.Metadata{}), rpcauth.ErrMissingSignature)
		require.ErrorIs(t, v.Verify(wrapperspb.String("x"), md), rpcauth.ErrEncodingFailure)
	})
}

func TestEncodingFailure(t *testing.T) {
	failing := func(proto.Message) ([]byte, error) { return nil, errors.New("cannot encode") }
	signer := newRequestSigner(t, newSigner(t), rpcauth.WithEncoder(failing))
	_, err := signer.Intercept(wrapperspb.String("x"))
	require.ErrorIs(t, err, rpcauth.ErrEncodingFailure)

	_, err = rpcauth.CanonicalEncode(nil)
	require.ErrorIs(t, err, rpcauth.ErrEncodingFailure)
}

func TestCanonicalEncodeIsDeterministic(t *testing.T) {
	fields := map[string]any{"z": 1, "a": "two", "m": true, "b": []any{1, "x"}}
	first, err := structpb.NewStruct(fields)
	require.NoError(t, err)
	want, err := rpcauth.CanonicalEncode(first)
	require.NoError(t, err)

	for i := 0; i < 20; i++ {
		again, err := structpb.NewStruct(fields)
		require.NoError(t, err)
		got, err := rpcauth.CanonicalEncode(again)
		require.NoError(t, err)
		require.Equal(t, want, got)
	}
}

func TestRequestVerifier(t *testing.T) {
	key := newSigner(t)
	signer := newRequestSigner(t, key)
	msg := wrapperspb.String("req")
	md, err := signer.Intercept(msg)
	require.NoError(t, err)

	open, err := rpcauth.NewRequestVerifier(rpcauth.DefaultSignatureHeader, rpcauth.DefaultPublicKeyHeader)
	require.NoError(t, err)
	pub, err := open.Verify(msg, md)
	require.NoError(t, err)
	require.Equal(t, key.PublicKey(), pub)

	pinned, err := rpcauth.NewRequestVerifier(rpcauth.DefaultSignatureHeader, rpcauth.DefaultPublicKeyHeader,
		rpcauth.WithTrustedKeys(newSigner(t).PublicKey()))
	require.NoError(t, err)
	_, err = pinned.Verify(msg, md)
	require.ErrorIs(t, err, rpcauth.ErrUntrustedKey)

	trusting, err := rpcauth.NewRequestVerifier(rpcauth.DefaultSignatureHeader, rpcauth.DefaultPublicKeyHeader,
		rpcauth.WithTrustedKeys(key.PublicKey()))
	require.NoError(t, err)
	_, err = trusting.Verify(msg, md)
	require.NoError(t, err)

	noPub := rpcauth.Metadata{}
	sig, _ := md.Get(rpcauth.DefaultSignatureHeader)
	noPub.Set(rpcauth.DefaultSignatureHeader, sig)
	_, err = open.Verify(msg, noPub)
	require.ErrorIs(t, err, rpcauth.ErrMissingSignature)

	noPub.Set(rpcauth.DefaultPublicKeyHeader, []byte{1, 2, 3})
	_, err = open.Verify(msg, noPub)
	require.ErrorIs(t, err, rpcauth.ErrMalformedPublicKey)

	// A valid signature under a swapped-in public key must not pass.
	swapped := rpcauth.Metadata{}
	swapped.Set(rpcauth.DefaultSignatureHeader, sig)
	other := newSigner(t).PublicKey()
	swapped.Set(rpcauth.DefaultPublicKeyHeader, other[:])
	_, err = open.Verify(msg, swapped)
	require.ErrorIs(t, err, rpcauth.ErrAuthenticationFailure)
}

func TestValidateHeader(t *testing.T) {
	got, err := rpcauth.ValidateHeader(" X-Signature-Bin ")
	require.NoError(t, err)
	require.Equal(t, "x-signature-bin", got)

	for _, bad := range []string{"", "-bin", "x-signature", "grpc-sig-bin", "x sig-bin", "x/sig-bin"} {
		_, err := rpcauth.ValidateHeader(bad)
		require.ErrorIs(t, err, rpcauth.ErrHeaderName, bad)
	}

	_, err = rpcauth.NewRequestSigner(newSigner(t), "x-same-bin", "X-Same-Bin")
	require.ErrorIs(t, err, rpcauth.ErrHeaderName)
	_, err = rpcauth.NewRequestSigner(nil, "a-bin", "b-bin")
	require.Error(t, err)
}

func TestStatusIsUnauthenticated(t *testing.T) {
	for _, err := range []error{
		rpcauth.ErrMissingSignature,
		rpcauth.ErrMalformedSignature,
		rpcauth.ErrAuthenticationFailure,
		rpcauth.ErrUntrustedKey,
	} {
		require.Equal(t, codes.Unauthenticated, status.Code(rpcauth.Status(err)))
	}
	already := status.Error(codes.Internal, "x")
	require.Equal(t, already, rpcauth.Status(already))
	require.NoError(t, rpcauth.Status(nil))
}

func TestMetadataGRPCRoundTrip(t *testing.T) {
	var pub domain.Ed25519Public
	pub[0], pub[31] = 0xFF, 0x00
	md := rpcauth.Metadata{"x-pubkey-bin": pub[:]}
	back := rpcauth.FromGRPC(rpcauth.ToGRPC(md))
	require.Equal(t, md, back)
}
