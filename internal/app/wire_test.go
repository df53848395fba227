package app

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/test/bufconn"

	"yacen/internal/crypto"
	"yacen/internal/directory"
	"yacen/internal/domain"
	"yacen/internal/rpcauth"
)

const testPass = "Correct-Horse-9"

func newTestApp(t *testing.T) *App {
	t.Helper()
	cfg := DefaultConfig(t.TempDir())
	cfg.KDF.Iterations = 10
	cfg.LogLevel = "error"
	a, err := New(cfg)
	require.NoError(t, err)
	return a
}

func TestNew_RejectsInvalidConfig(t *testing.T) {
	cfg := DefaultConfig(t.TempDir())
	cfg.LogFormat = "xml"
	_, err := New(cfg)
	require.Error(t, err)
}

func TestDialDirectory_NotConfigured(t *testing.T) {
	a := newTestApp(t)
	_, err := a.DialDirectory(testPass)
	require.ErrorIs(t, err, ErrNoDirectory)
}

func TestDialDirectory_PublishLookup(t *testing.T) {
	a := newTestApp(t)
	profile, fp, err := a.Identity.CreateProfile(testPass, "alice")
	require.NoError(t, err)

	der, err := crypto.GenerateEd25519()
	require.NoError(t, err)
	serverKey, err := crypto.ParseEd25519(der)
	require.NoError(t, err)

	verifier, err := rpcauth.NewRequestVerifier(rpcauth.DefaultSignatureHeader, rpcauth.DefaultPublicKeyHeader)
	require.NoError(t, err)
	signer, err := rpcauth.NewResponseSigner(serverKey, rpcauth.DefaultSignatureHeader, rpcauth.DefaultPublicKeyHeader)
	require.NoError(t, err)

	lis := bufconn.Listen(1 << 20)
	g, err := directory.NewGRPCServer(directory.NewServer(nil), verifier, signer)
	require.NoError(t, err)
	go func() { _ = g.Serve(lis) }()
	t.Cleanup(g.Stop)

	a.Config.DirectoryAddr = "passthrough:///bufnet"
	a.Config.DirectoryKey = crypto.EncodePublicKey(serverKey.PublicKey())

	dialer := func(ctx context.Context, _ string) (net.Conn, error) { return lis.DialContext(ctx) }
	c, err := a.DialDirectory(testPass, grpc.WithContextDialer(dialer))
	require.NoError(t, err)
	defer c.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	key, err := crypto.ParseEd25519(profile.KeyPair)
	require.NoError(t, err)
	me := domain.Contact{Name: profile.Name, PublicKey: key.PublicKey()}
	require.NoError(t, c.Publish(ctx, me))

	got, err := c.Lookup(ctx, fp)
	require.NoError(t, err)
	require.Equal(t, me, got)
}
