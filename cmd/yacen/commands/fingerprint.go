package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"yacen/internal/crypto"
)

func fingerprintCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "fingerprint",
		Short: "Print profile fingerprint and public key",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requirePassphrase(); err != nil {
				return err
			}
			key, err := appCtx.Identity.Signer(passphrase)
			if err != nil {
				return err
			}
			fmt.Printf("Fingerprint: %s\nPublic key:  %s\n",
				crypto.Fingerprint(key.PublicKey().Slice()), crypto.EncodePublicKey(key.PublicKey()))
			return nil
		},
	}
}
