package commands

import (
	"github.com/spf13/cobra"

	"yacen/internal/crypto"
	"yacen/internal/store"
)

// encrypt/decrypt protect files with the passphrase. By default the output
// records the KDF parameters; --raw emits the bare salt||nonce||ct||tag
// envelope at the default work factor.
func encryptCmd() *cobra.Command {
	var in, out string
	var raw bool
	cmd := &cobra.Command{
		Use:   "encrypt",
		Short: "Encrypt a file with the passphrase",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requirePassphrase(); err != nil {
				return err
			}
			pt, err := readInput(in)
			if err != nil {
				return err
			}
			var ct []byte
			if raw {
				ct, err = crypto.EncryptWithPassphrase([]byte(passphrase), pt)
			} else {
				ct, err = store.Encrypt(passphrase, pt, appCtx.Config.KDF.Iterations)
			}
			if err != nil {
				return err
			}
			return writeOutput(out, ct)
		},
	}
	bindFileFlags(cmd, &in, &out)
	cmd.Flags().BoolVar(&raw, "raw", false, "write the bare envelope without KDF parameters")
	return cmd
}

func decryptCmd() *cobra.Command {
	var in, out string
	var raw bool
	cmd := &cobra.Command{
		Use:   "decrypt",
		Short: "Decrypt a file produced by encrypt",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requirePassphrase(); err != nil {
				return err
			}
			ct, err := readInput(in)
			if err != nil {
				return err
			}
			var pt []byte
			if raw {
				pt, err = crypto.DecryptWithPassphrase([]byte(passphrase), ct)
			} else {
				pt, err = store.Decrypt(passphrase, ct)
			}
			if err != nil {
				return err
			}
			return writeOutput(out, pt)
		},
	}
	bindFileFlags(cmd, &in, &out)
	cmd.Flags().BoolVar(&raw, "raw", false, "read the bare envelope without KDF parameters")
	return cmd
}

func bindFileFlags(cmd *cobra.Command, in, out *string) {
	cmd.Flags().StringVarP(in, "in", "i", "-", "input file (- for stdin)")
	cmd.Flags().StringVarP(out, "out", "o", "-", "output file (- for stdout)")
}
