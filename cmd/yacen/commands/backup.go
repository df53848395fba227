package commands

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"yacen/internal/crypto"
)

func backupCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "backup",
		Short: "Print the 24-word recovery phrase for the profile key",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requirePassphrase(); err != nil {
				return err
			}
			phrase, err := appCtx.Identity.RecoveryPhrase(passphrase)
			if err != nil {
				return err
			}
			fmt.Println(phrase)
			return nil
		},
	}
}

func restoreCmd() *cobra.Command {
	var name string
	cmd := &cobra.Command{
		Use:   "restore",
		Short: "Recreate the profile from a recovery phrase read on stdin",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requirePassphrase(); err != nil {
				return err
			}
			phrase, err := bufio.NewReader(os.Stdin).ReadString('\n')
			if err != nil && strings.TrimSpace(phrase) == "" {
				return err
			}
			profile, fp, err := appCtx.Identity.RestoreProfile(passphrase, name, phrase)
			if err != nil {
				return err
			}
			key, err := crypto.ParseEd25519(profile.KeyPair)
			if err != nil {
				return err
			}
			fmt.Printf("Profile restored.\nFingerprint: %s\nPublic key:  %s\n",
				fp, crypto.EncodePublicKey(key.PublicKey()))
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "display name published to the directory")
	_ = cmd.MarkFlagRequired("name")
	return cmd
}
