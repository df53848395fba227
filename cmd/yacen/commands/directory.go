package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"yacen/internal/crypto"
	"yacen/internal/domain"
)

const rpcTimeout = 10 * time.Second

func publishCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "publish",
		Short: "Publish your name and public key to the directory",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requirePassphrase(); err != nil {
				return err
			}
			profile, err := appCtx.Identity.LoadProfile(passphrase)
			if err != nil {
				return err
			}
			key, err := crypto.ParseEd25519(profile.KeyPair)
			if err != nil {
				return err
			}
			client, err := appCtx.DialDirectory(passphrase)
			if err != nil {
				return err
			}
			defer client.Close()

			ctx, cancel := context.WithTimeout(cmd.Context(), rpcTimeout)
			defer cancel()
			if err := client.Publish(ctx, domain.Contact{Name: profile.Name, PublicKey: key.PublicKey()}); err != nil {
				return err
			}
			fmt.Printf("published %s (%s)\n", profile.Name, crypto.Fingerprint(key.PublicKey().Slice()))
			return nil
		},
	}
}

func lookupCmd() *cobra.Command {
	var trust bool
	cmd := &cobra.Command{
		Use:   "lookup <fingerprint>",
		Short: "Fetch a contact from the directory",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requirePassphrase(); err != nil {
				return err
			}
			client, err := appCtx.DialDirectory(passphrase)
			if err != nil {
				return err
			}
			defer client.Close()

			ctx, cancel := context.WithTimeout(cmd.Context(), rpcTimeout)
			defer cancel()
			contact, err := client.Lookup(ctx, domain.Fingerprint(args[0]))
			if err != nil {
				return err
			}
			fmt.Printf("Name:       %s\nPublic key: %s\n", contact.Name, crypto.EncodePublicKey(contact.PublicKey))

			if !trust {
				return nil
			}
			id, err := appCtx.Identity.AddKnownIdentity(passphrase, contact)
			if err != nil {
				return err
			}
			fmt.Printf("Trusted as %s\n", id.LocalID)
			return nil
		},
	}
	cmd.Flags().BoolVar(&trust, "trust", false, "add the contact to your known identities")
	return cmd
}
