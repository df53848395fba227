package commands

import (
	"os"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"yacen/internal/app"
)

// passphraseEnv may hold the passphrase instead of the -p flag.
const passphraseEnv = "YACEN_PASSPHRASE"

var (
	home       string
	passphrase string
	appCtx     *app.App

	directoryAddr string
	directoryKey  string
	logLevel      string
	logFormat     string
	iterations    int
)

func newRoot() *cobra.Command {
	root := &cobra.Command{
		Use:           "yacen",
		Short:         "Authenticated encryption and signed RPC toolkit",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if home == "" {
				dir, err := app.DefaultHome()
				if err != nil {
					return err
				}
				home = dir
			}
			if err := os.MkdirAll(home, 0o700); err != nil {
				return err
			}
			cfg, err := app.LoadConfig(home)
			if err != nil {
				return err
			}

			flags := cmd.Flags()
			if flags.Changed("directory") {
				cfg.DirectoryAddr = directoryAddr
			}
			if flags.Changed("directory-key") {
				cfg.DirectoryKey = directoryKey
			}
			if flags.Changed("log-level") {
				cfg.LogLevel = logLevel
			}
			if flags.Changed("log-format") {
				cfg.LogFormat = logFormat
			}
			if flags.Changed("iterations") {
				cfg.KDF.Iterations = iterations
			}
			if passphrase == "" {
				passphrase = os.Getenv(passphraseEnv)
			}

			appCtx, err = app.New(cfg)
			return err
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&home, "home", "", "config dir (default ~/.yacen)")
	pf.StringVarP(&passphrase, "passphrase", "p", "", "passphrase to protect keys (or $"+passphraseEnv+")")
	pf.StringVar(&directoryAddr, "directory", "", "directory gRPC address (e.g. 127.0.0.1:7070)")
	pf.StringVar(&directoryKey, "directory-key", "", "pinned directory public key (base58)")
	pf.StringVar(&logLevel, "log-level", "info", "log level")
	pf.StringVar(&logFormat, "log-format", "text", "log format: text or json")
	pf.IntVar(&iterations, "iterations", 0, "PBKDF2 iterations for newly encrypted files")

	root.AddCommand(
		initCmd(),
		fingerprintCmd(),
		backupCmd(),
		restoreCmd(),
		encryptCmd(),
		decryptCmd(),
		signCmd(),
		verifyCmd(),
		sealCmd(),
		openCmd(),
		publishCmd(),
		lookupCmd(),
	)
	return root
}

// Execute runs the CLI.
func Execute() error { return newRoot().Execute() }

func requirePassphrase() error {
	if passphrase == "" {
		return errors.New("passphrase required (-p or $" + passphraseEnv + ")")
	}
	return nil
}
