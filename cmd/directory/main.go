package main

import (
	"context"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"yacen/internal/app"
	"yacen/internal/crypto"
	"yacen/internal/directory"
	"yacen/internal/domain"
	"yacen/internal/rpcauth"
	"yacen/internal/store"
)

type options struct {
	listen    string
	metrics   string
	keyPath   string
	trusted   []string
	rps       float64
	burst     int
	logLevel  string
	logFormat string
}

func main() {
	var o options
	cmd := &cobra.Command{
		Use:           "directory",
		Short:         "Run the signed gRPC contact directory",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return run(ctx, o)
		},
	}
	f := cmd.Flags()
	f.StringVar(&o.listen, "listen", ":7070", "gRPC listen address")
	f.StringVar(&o.metrics, "metrics", ":9090", "prometheus /metrics address (empty to disable)")
	f.StringVar(&o.keyPath, "key", "directory.key", "server signing key (PKCS#8 DER, created if missing)")
	f.StringSliceVar(&o.trusted, "trust", nil, "only accept requests signed by these keys (base58, repeatable)")
	f.Float64Var(&o.rps, "rate", 10, "requests per second allowed per caller key (0 disables)")
	f.IntVar(&o.burst, "burst", 20, "burst size for --rate")
	f.StringVar(&o.logLevel, "log-level", "info", "log level")
	f.StringVar(&o.logFormat, "log-format", "text", "log format: text or json")

	if err := cmd.ExecuteContext(context.Background()); err != nil {
		logrus.WithError(err).Error("directory failed")
		os.Exit(1)
	}
}

func run(ctx context.Context, o options) error {
	log, err := app.NewLogger(app.Config{LogLevel: o.logLevel, LogFormat: o.logFormat})
	if err != nil {
		return err
	}

	key, err := loadOrCreateKey(o.keyPath)
	if err != nil {
		return err
	}
	trusted := make([]domain.Ed25519Public, 0, len(o.trusted))
	for _, s := range o.trusted {
		pub, err := crypto.DecodePublicKey(s)
		if err != nil {
			return errors.Wrapf(err, "--trust %s", s)
		}
		trusted = append(trusted, pub)
	}

	authLog := log.WithField("component", "rpcauth")
	verifierOpts := []rpcauth.Option{rpcauth.WithLogger(authLog)}
	if len(trusted) > 0 {
		verifierOpts = append(verifierOpts, rpcauth.WithTrustedKeys(trusted...))
	}
	verifier, err := rpcauth.NewRequestVerifier(rpcauth.DefaultSignatureHeader, rpcauth.DefaultPublicKeyHeader, verifierOpts...)
	if err != nil {
		return err
	}
	signer, err := rpcauth.NewResponseSigner(key, rpcauth.DefaultSignatureHeader, rpcauth.DefaultPublicKeyHeader,
		rpcauth.WithLogger(authLog))
	if err != nil {
		return err
	}

	srv, err := directory.NewGRPCServer(directory.NewServer(log.WithField("component", "directory"),
		directory.WithRateLimit(o.rps, o.burst)), verifier, signer)
	if err != nil {
		return err
	}
	lis, err := net.Listen("tcp", o.listen)
	if err != nil {
		return err
	}

	var metrics *http.Server
	if o.metrics != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.Handler())
		metrics = &http.Server{Addr: o.metrics, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
		go func() {
			if err := metrics.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.WithError(err).Error("metrics server stopped")
			}
		}()
	}

	log.WithFields(logrus.Fields{
		"listen":     lis.Addr().String(),
		"metrics":    o.metrics,
		"public_key": crypto.EncodePublicKey(key.PublicKey()),
		"trusted":    len(trusted),
	}).Info("directory listening")

	errc := make(chan error, 1)
	go func() { errc <- srv.Serve(lis) }()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	srv.GracefulStop()
	if metrics != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = metrics.Shutdown(shutdownCtx)
	}
	return nil
}

// loadOrCreateKey reads the server key, generating and saving one on first run.
func loadOrCreateKey(path string) (*crypto.Ed25519Signer, error) {
	der, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		if der, err = crypto.GenerateEd25519(); err != nil {
			return nil, err
		}
		if err := store.WriteFile(path, der); err != nil {
			return nil, errors.Wrapf(err, "write %s", path)
		}
	} else if err != nil {
		return nil, errors.Wrapf(err, "read %s", path)
	}
	return crypto.ParseEd25519(der)
}
