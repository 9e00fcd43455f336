package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/joshuadahlunr/tangle/crypto/keys"
)

var (
	privKeyFile string
	pubKeyFile  string
)

// NewKeygenCmd returns the command that creates a new key pair.
func NewKeygenCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "keygen",
		Short: "Create a new account key pair",
		RunE:  keygen,
	}
	addKeygenFlags(cmd)
	return cmd
}

func addKeygenFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&privKeyFile, "priv", "", "File where the private key will be written (default: <datadir>/priv_key)")
	cmd.Flags().StringVar(&pubKeyFile, "pub", "", "File where the public key will be written (default: <datadir>/key.pub)")
}

func keygen(cmd *cobra.Command, args []string) error {
	priv := privKeyFile
	if priv == "" {
		priv = appConfig.Keyfile()
	}
	pub := pubKeyFile
	if pub == "" {
		pub = filepath.Join(filepath.Dir(priv), "key.pub")
	}

	if _, err := os.Stat(priv); err == nil {
		return fmt.Errorf("a key already lives under: %s", filepath.Dir(priv))
	}

	kp, err := keys.Generate()
	if err != nil {
		return fmt.Errorf("generating key: %w", err)
	}

	if err := keys.NewKeyFile(priv).Save(kp); err != nil {
		return fmt.Errorf("writing private key: %w", err)
	}
	fmt.Printf("Your private key has been saved to: %s\n", priv)

	der, err := kp.Public().Encode()
	if err != nil {
		return fmt.Errorf("encoding public key: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(pub), 0700); err != nil {
		return fmt.Errorf("writing public key: %w", err)
	}
	if err := os.WriteFile(pub, der, 0600); err != nil {
		return fmt.Errorf("writing public key: %w", err)
	}
	fmt.Printf("Your public key has been saved to: %s\n", pub)

	return nil
}
