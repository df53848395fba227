package commands

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"yacen/internal/crypto"
)

func signCmd() *cobra.Command {
	var in, out string
	cmd := &cobra.Command{
		Use:   "sign",
		Short: "Write a detached Ed25519 signature of a file",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requirePassphrase(); err != nil {
				return err
			}
			key, err := appCtx.Identity.Signer(passphrase)
			if err != nil {
				return err
			}
			msg, err := readInput(in)
			if err != nil {
				return err
			}
			return writeOutput(out, key.Sign(msg))
		},
	}
	bindFileFlags(cmd, &in, &out)
	return cmd
}

func verifyCmd() *cobra.Command {
	var in, sigPath, pubKey string
	cmd := &cobra.Command{
		Use:   "verify",
		Short: "Check a detached signature against a public key",
		RunE: func(cmd *cobra.Command, args []string) error {
			pub, err := crypto.DecodePublicKey(pubKey)
			if err != nil {
				return err
			}
			sig, err := readInput(sigPath)
			if err != nil {
				return errors.Wrap(err, "read signature")
			}
			msg, err := readInput(in)
			if err != nil {
				return err
			}
			if err := crypto.Verify(pub.Slice(), msg, sig); err != nil {
				return err
			}
			fmt.Println("signature OK")
			return nil
		},
	}
	cmd.Flags().StringVarP(&in, "in", "i", "-", "signed file (- for stdin)")
	cmd.Flags().StringVarP(&sigPath, "sig", "s", "", "signature file")
	cmd.Flags().StringVar(&pubKey, "key", "", "signer public key (base58)")
	_ = cmd.MarkFlagRequired("sig")
	_ = cmd.MarkFlagRequired("key")
	return cmd
}
