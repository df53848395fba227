package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"yacen/internal/crypto"
)

func initCmd() *cobra.Command {
	var name string
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Generate a signing key pair and store it securely",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requirePassphrase(); err != nil {
				return err
			}
			profile, fp, err := appCtx.Identity.CreateProfile(passphrase, name)
			if err != nil {
				return err
			}
			key, err := crypto.ParseEd25519(profile.KeyPair)
			if err != nil {
				return err
			}
			fmt.Printf("Profile created.\nFingerprint: %s\nPublic key:  %s\n",
				fp, crypto.EncodePublicKey(key.PublicKey()))
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "display name published to the directory")
	_ = cmd.MarkFlagRequired("name")
	return cmd
}
