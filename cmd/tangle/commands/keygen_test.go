package commands

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/joshuadahlunr/tangle/crypto/keys"
)

func TestKeygenWritesPrivateAndPublicKey(t *testing.T) {
	dir := t.TempDir()
	privKeyFile = filepath.Join(dir, "priv_key")
	pubKeyFile = filepath.Join(dir, "key.pub")
	t.Cleanup(func() { privKeyFile = ""; pubKeyFile = "" })

	if err := keygen(nil, nil); err != nil {
		t.Fatalf("keygen: %v", err)
	}

	kp, err := keys.NewKeyFile(privKeyFile).Load()
	if err != nil {
		t.Fatalf("loading written private key: %v", err)
	}

	der, err := os.ReadFile(pubKeyFile)
	if err != nil {
		t.Fatalf("reading written public key: %v", err)
	}
	pub, err := keys.DecodePublicKey(der)
	if err != nil {
		t.Fatalf("decoding written public key: %v", err)
	}
	if !kp.Public().Equal(pub) {
		t.Fatalf("public key file does not match private key file's public half")
	}
}

func TestKeygenRefusesToOverwrite(t *testing.T) {
	dir := t.TempDir()
	privKeyFile = filepath.Join(dir, "priv_key")
	pubKeyFile = filepath.Join(dir, "key.pub")
	t.Cleanup(func() { privKeyFile = ""; pubKeyFile = "" })

	if err := keygen(nil, nil); err != nil {
		t.Fatalf("first keygen: %v", err)
	}
	if err := keygen(nil, nil); err == nil {
		t.Fatalf("second keygen over an existing key succeeded, want an error")
	}
}
