package rpcauth_test

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"yacen/internal/domain"
	"yacen/internal/rpcauth"
)

const echoMethod = "/yacen.test.Echo/Echo"

// echoDesc is a one-method service on well-known wrapper types. The handler
// records the authenticated peer key it sees.
func echoDesc(seen chan<- domain.Ed25519Public) *grpc.ServiceDesc {
	return &grpc.ServiceDesc{
		ServiceName: "yacen.test.Echo",
		HandlerType: (*any)(nil),
		Methods: []grpc.MethodDesc{{
			MethodName: "Echo",
			Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
				in := new(wrapperspb.StringValue)
				if err := dec(in); err != nil {
					return nil, err
				}
				h := func(ctx context.Context, req any) (any, error) {
					if pub, ok := rpcauth.PeerKey(ctx); ok {
						select {
						case seen <- pub:
						default:
						}
					}
					return wrapperspb.String("echo: " + req.(*wrapperspb.StringValue).GetValue()), nil
				}
				if interceptor == nil {
					return h(ctx, in)
				}
				return interceptor(ctx, in, &grpc.UnaryServerInfo{Server: srv, FullMethod: echoMethod}, h)
			},
		}},
	}
}

type echoEnv struct {
	conn *grpc.ClientConn
	seen chan domain.Ed25519Public
}

func startEcho(t *testing.T, serverOpts []grpc.ServerOption, clientOpts ...grpc.DialOption) *echoEnv {
	t.Helper()
	lis := bufconn.Listen(1 << 20)
	seen := make(chan domain.Ed25519Public, 1)

	srv := grpc.NewServer(serverOpts...)
	srv.RegisterService(echoDesc(seen), struct{}{})
	go func() { _ = srv.Serve(lis) }()
	t.Cleanup(srv.Stop)

	dial := func(ctx context.Context, _ string) (net.Conn, error) { return lis.DialContext(ctx) }
	opts := append([]grpc.DialOption{
		grpc.WithContextDialer(dial),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	}, clientOpts...)
	conn, err := grpc.NewClient("passthrough:///bufnet", opts...)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return &echoEnv{conn: conn, seen: seen}
}

func (e *echoEnv) call(t *testing.T, in string) (*wrapperspb.StringValue, error) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	out := new(wrapperspb.StringValue)
	err := e.conn.Invoke(ctx, echoMethod, wrapperspb.String(in), out)
	return out, err
}

func TestGRPC_SignedRoundTrip(t *testing.T) {
	clientKey, serverKey := newSigner(t), newSigner(t)

	reqVerifier, err := rpcauth.NewRequestVerifier(rpcauth.DefaultSignatureHeader, rpcauth.DefaultPublicKeyHeader,
		rpcauth.WithTrustedKeys(clientKey.PublicKey()))
	require.NoError(t, err)
	respSigner, err := rpcauth.NewResponseSigner(serverKey, rpcauth.DefaultSignatureHeader, rpcauth.DefaultPublicKeyHeader)
	require.NoError(t, err)
	respVerifier, err := rpcauth.NewResponseVerifier(serverKey.PublicKey(), rpcauth.DefaultSignatureHeader)
	require.NoError(t, err)

	env := startEcho(t,
		[]grpc.ServerOption{grpc.UnaryInterceptor(rpcauth.UnaryServerInterceptor(reqVerifier, respSigner))},
		grpc.WithUnaryInterceptor(rpcauth.UnaryClientInterceptor(newRequestSigner(t, clientKey), respVerifier)),
	)

	out, err := env.call(t, "hi")
	require.NoError(t, err)
	require.Equal(t, "echo: hi", out.GetValue())
	require.Equal(t, clientKey.PublicKey(), <-env.seen)
}

func TestGRPC_UnsignedRequestRejected(t *testing.T) {
	reqVerifier, err := rpcauth.NewRequestVerifier(rpcauth.DefaultSignatureHeader, rpcauth.DefaultPublicKeyHeader)
	require.NoError(t, err)

	env := startEcho(t, []grpc.ServerOption{grpc.UnaryInterceptor(rpcauth.UnaryServerInterceptor(reqVerifier, nil))})

	_, err = env.call(t, "hi")
	require.Equal(t, codes.Unauthenticated, status.Code(err))
}

func TestGRPC_UntrustedClientRejected(t *testing.T) {
	reqVerifier, err := rpcauth.NewRequestVerifier(rpcauth.DefaultSignatureHeader, rpcauth.DefaultPublicKeyHeader,
		rpcauth.WithTrustedKeys(newSigner(t).PublicKey()))
	require.NoError(t, err)

	env := startEcho(t,
		[]grpc.ServerOption{grpc.UnaryInterceptor(rpcauth.UnaryServerInterceptor(reqVerifier, nil))},
		grpc.WithUnaryInterceptor(rpcauth.UnaryClientInterceptor(newRequestSigner(t, newSigner(t)), nil)),
	)

	_, err = env.call(t, "hi")
	require.Equal(t, codes.Unauthenticated, status.Code(err))
}

func TestGRPC_UnsignedResponseRejected(t *testing.T) {
	serverKey := newSigner(t)
	respVerifier, err := rpcauth.NewResponseVerifier(serverKey.PublicKey(), rpcauth.DefaultSignatureHeader)
	require.NoError(t, err)

	// The server does not sign responses at all.
	env := startEcho(t, nil,
		grpc.WithUnaryInterceptor(rpcauth.UnaryClientInterceptor(newRequestSigner(t, newSigner(t)), respVerifier)),
	)

	_, err = env.call(t, "hi")
	require.Equal(t, codes.Unauthenticated, status.Code(err))
	require.Contains(t, status.Convert(err).Message(), rpcauth.ErrMissingSignature.Error())
}

func TestGRPC_ResponseFromWrongServerRejected(t *testing.T) {
	reqVerifier, err := rpcauth.NewRequestVerifier(rpcauth.DefaultSignatureHeader, rpcauth.DefaultPublicKeyHeader)
	require.NoError(t, err)
	impostor, err := rpcauth.NewResponseSigner(newSigner(t), rpcauth.DefaultSignatureHeader, rpcauth.DefaultPublicKeyHeader)
	require.NoError(t, err)
	respVerifier, err := rpcauth.NewResponseVerifier(newSigner(t).PublicKey(), rpcauth.DefaultSignatureHeader)
	require.NoError(t, err)

	env := startEcho(t,
		[]grpc.ServerOption{grpc.UnaryInterceptor(rpcauth.UnaryServerInterceptor(reqVerifier, impostor))},
		grpc.WithUnaryInterceptor(rpcauth.UnaryClientInterceptor(newRequestSigner(t, newSigner(t)), respVerifier)),
	)

	_, err = env.call(t, "hi")
	require.Equal(t, codes.Unauthenticated, status.Code(err))
}

func TestGRPC_StaleSignatureHeadersReplaced(t *testing.T) {
	clientKey := newSigner(t)
	reqVerifier, err := rpcauth.NewRequestVerifier(rpcauth.DefaultSignatureHeader, rpcauth.DefaultPublicKeyHeader)
	require.NoError(t, err)

	env := startEcho(t,
		[]grpc.ServerOption{grpc.UnaryInterceptor(rpcauth.UnaryServerInterceptor(reqVerifier, nil))},
		grpc.WithUnaryInterceptor(rpcauth.UnaryClientInterceptor(newRequestSigner(t, clientKey), nil)),
	)

	// Headers from an earlier call by another key are already in the context,
	// as happens with forwarded metadata.
	stale, err := newRequestSigner(t, newSigner(t)).Intercept(wrapperspb.String("earlier"))
	require.NoError(t, err)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	ctx = metadata.NewOutgoingContext(ctx, rpcauth.ToGRPC(stale))

	out := new(wrapperspb.StringValue)
	require.NoError(t, env.conn.Invoke(ctx, echoMethod, wrapperspb.String("hi"), out))
	require.Equal(t, "echo: hi", out.GetValue())
	require.Equal(t, clientKey.PublicKey(), <-env.seen)

	// The caller's context is left untouched.
	md, _ := metadata.FromOutgoingContext(ctx)
	require.Equal(t, rpcauth.ToGRPC(stale), md)
}

func TestGRPC_ServerInterceptorRequiresVerifier(t *testing.T) {
	require.Panics(t, func() { rpcauth.UnaryServerInterceptor(nil, nil) })
}
