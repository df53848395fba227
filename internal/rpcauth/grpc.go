package rpcauth

import (
	"context"
	"errors"
	"strings"

	"github.com/sirupsen/logrus"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/proto"

	"yacen/internal/domain"
)

// Status maps a verification error to a gRPC Unauthenticated status. Errors
// that already carry a status are returned unchanged.
func Status(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := status.FromError(err); ok {
		return err
	}
	return status.Error(codes.Unauthenticated, err.Error())
}

// FromGRPC extracts the binary headers of md. When a header repeats, the
// first value wins.
func FromGRPC(md metadata.MD) Metadata {
	out := make(Metadata, len(md))
	for k, vs := range md {
		if len(vs) == 0 || !strings.HasSuffix(k, binarySuffix) {
			continue
		}
		out[strings.ToLower(k)] = []byte(vs[0])
	}
	return out
}

// ToGRPC converts md to gRPC metadata. gRPC base64-encodes "-bin" values on
// the wire and decodes them on receipt, so raw bytes go in unchanged.
func ToGRPC(md Metadata) metadata.MD {
	out := make(metadata.MD, len(md))
	for k, v := range md {
		out.Set(k, string(v))
	}
	return out
}

// UnaryClientInterceptor signs every outgoing request with signer. When
// verifier is non-nil the response headers are captured and the reply must
// carry a valid signature from the pinned server key; otherwise the call
// fails with codes.Unauthenticated.
func UnaryClientInterceptor(signer *MessageSigner, verifier *ResponseVerifier) grpc.UnaryClientInterceptor {
	return func(
		ctx context.Context,
		method string,
		req, reply any,
		cc *grpc.ClientConn,
		invoker grpc.UnaryInvoker,
		opts ...grpc.CallOption,
	) error {
		msg, ok := req.(proto.Message)
		if !ok {
			return status.Errorf(codes.Internal, "rpcauth: request %T is not a protobuf message", req)
		}
		md, err := signer.Intercept(msg)
		if err != nil {
			return status.Errorf(codes.Internal, "rpcauth: sign %s: %v", method, err)
		}
		// Set, not append: the server reads only the first value.
		out, _ := metadata.FromOutgoingContext(ctx)
		out = out.Copy()
		for k, v := range md {
			out.Set(k, string(v))
		}
		ctx = metadata.NewOutgoingContext(ctx, out)

		var header metadata.MD
		if verifier != nil {
			opts = append(opts, grpc.Header(&header))
		}
		if err := invoker(ctx, method, req, reply, cc, opts...); err != nil {
			return err
		}
		if verifier == nil {
			return nil
		}

		resp, ok := reply.(proto.Message)
		if !ok {
			return status.Errorf(codes.Internal, "rpcauth: reply %T is not a protobuf message", reply)
		}
		if err := verifier.Verify(resp, FromGRPC(header)); err != nil {
			verifier.opts.log.WithFields(logrus.Fields{
				"method": method,
				"reason": failureReason(err),
			}).Warn("rejecting unauthenticated response")
			return Status(err)
		}
		return nil
	}
}

type peerKeyCtx struct{}

// PeerKey returns the public key that signed the current request, as set by
// UnaryServerInterceptor.
func PeerKey(ctx context.Context) (domain.Ed25519Public, bool) {
	pub, ok := ctx.Value(peerKeyCtx{}).(domain.Ed25519Public)
	return pub, ok
}

// UnaryServerInterceptor rejects requests whose signature does not verify
// and, when signer is non-nil, signs every successful response through the
// response header. verifier is required; a nil verifier panics here rather
// than on the first request.
func UnaryServerInterceptor(verifier *RequestVerifier, signer *MessageSigner) grpc.UnaryServerInterceptor {
	if verifier == nil {
		panic("rpcauth: UnaryServerInterceptor requires a RequestVerifier")
	}
	return func(
		ctx context.Context,
		req any,
		info *grpc.UnaryServerInfo,
		handler grpc.UnaryHandler,
	) (any, error) {
		log := verifier.opts.log.WithField("method", info.FullMethod)

		msg, ok := req.(proto.Message)
		if !ok {
			return nil, status.Errorf(codes.Internal, "rpcauth: request %T is not a protobuf message", req)
		}
		in, _ := metadata.FromIncomingContext(ctx)
		pub, err := verifier.Verify(msg, FromGRPC(in))
		if err != nil {
			log.WithField("reason", failureReason(err)).Warn("rejecting unauthenticated request")
			return nil, Status(err)
		}

		resp, err := handler(context.WithValue(ctx, peerKeyCtx{}, pub), req)
		if err != nil || signer == nil {
			return resp, err
		}

		out, ok := resp.(proto.Message)
		if !ok {
			return nil, status.Errorf(codes.Internal, "rpcauth: response %T is not a protobuf message", resp)
		}
		md, err := signer.Intercept(out)
		if err != nil {
			return nil, status.Errorf(codes.Internal, "rpcauth: sign response: %v", err)
		}
		if err := grpc.SetHeader(ctx, ToGRPC(md)); err != nil {
			if errors.Is(err, context.Canceled) {
				return nil, status.FromContextError(err).Err()
			}
			return nil, status.Errorf(codes.Internal, "rpcauth: set response header: %v", err)
		}
		return resp, nil
	}
}
