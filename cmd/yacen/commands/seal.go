package commands

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"yacen/internal/crypto"
	"yacen/internal/domain"
	"yacen/internal/store"
	"yacen/internal/util/memzero"
)

// seal encrypts to an X25519 key without revealing the sender. The private
// half lives in a key file encrypted under the passphrase.
func sealCmd() *cobra.Command {
	var in, out, to string
	cmd := &cobra.Command{
		Use:   "seal",
		Short: "Encrypt a file to a sealing key",
		RunE: func(cmd *cobra.Command, args []string) error {
			recipient, err := crypto.DecodeSealKey(to)
			if err != nil {
				return err
			}
			msg, err := readInput(in)
			if err != nil {
				return err
			}
			sealed, err := crypto.SealAnonymous(recipient, msg)
			if err != nil {
				return err
			}
			return writeOutput(out, sealed)
		},
	}
	bindFileFlags(cmd, &in, &out)
	cmd.Flags().StringVar(&to, "to", "", "recipient sealing key (base58)")
	_ = cmd.MarkFlagRequired("to")
	cmd.AddCommand(sealKeygenCmd())
	return cmd
}

func sealKeygenCmd() *cobra.Command {
	var keyPath string
	cmd := &cobra.Command{
		Use:   "keygen",
		Short: "Generate a sealing key pair",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requirePassphrase(); err != nil {
				return err
			}
			priv, pub, err := crypto.GenerateX25519()
			if err != nil {
				return err
			}
			defer memzero.Zero(priv[:])
			b, err := store.Encrypt(passphrase, priv.Slice(), appCtx.Config.KDF.Iterations)
			if err != nil {
				return err
			}
			if err := store.WriteFile(keyPath, b); err != nil {
				return err
			}
			fmt.Printf("Sealing key: %s\n", crypto.EncodeSealKey(pub))
			return nil
		},
	}
	cmd.Flags().StringVar(&keyPath, "key", "", "where to write the encrypted private key")
	_ = cmd.MarkFlagRequired("key")
	return cmd
}

func openCmd() *cobra.Command {
	var in, out, keyPath string
	cmd := &cobra.Command{
		Use:   "open",
		Short: "Decrypt a file produced by seal",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := requirePassphrase(); err != nil {
				return err
			}
			priv, err := loadSealKey(keyPath)
			if err != nil {
				return err
			}
			defer memzero.Zero(priv[:])
			pub, err := crypto.X25519PublicKey(priv)
			if err != nil {
				return err
			}
			sealed, err := readInput(in)
			if err != nil {
				return err
			}
			msg, err := crypto.OpenAnonymous(priv, pub, sealed)
			if err != nil {
				return err
			}
			return writeOutput(out, msg)
		},
	}
	bindFileFlags(cmd, &in, &out)
	cmd.Flags().StringVar(&keyPath, "key", "", "encrypted private key written by seal keygen")
	_ = cmd.MarkFlagRequired("key")
	return cmd
}

func loadSealKey(path string) (domain.X25519Private, error) {
	var priv domain.X25519Private
	b, err := readInput(path)
	if err != nil {
		return priv, err
	}
	raw, err := store.Decrypt(passphrase, b)
	if err != nil {
		return priv, err
	}
	defer memzero.Zero(raw)
	if len(raw) != len(priv) {
		return priv, errors.Wrapf(crypto.ErrInvalidPrivateKey, "sealing key is %d bytes", len(raw))
	}
	copy(priv[:], raw)
	return priv, nil
}
