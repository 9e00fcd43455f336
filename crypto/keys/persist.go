package keys

import (
	"encoding/hex"
	"fmt"
	"math/big"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// KeyFile reads and writes a KeyPair from/to an unencrypted file holding
// a hex dump of the private scalar, one line, nothing else.
type KeyFile struct {
	mu   sync.Mutex
	path string
}

// NewKeyFile returns a KeyFile backed by path. Nothing is read or
// written until Load or Save is called.
func NewKeyFile(path string) *KeyFile {
	return &KeyFile{path: path}
}

// checkPermissions verifies the underlying file excludes group/other
// access, the same policy a keyfile holding live key material needs
// regardless of which curve it stores.
func (f *KeyFile) checkPermissions() error {
	info, err := os.Stat(f.path)
	if err != nil {
		return err
	}
	const nonUserMask = os.FileMode((1 << 6) - 1)
	if perm := info.Mode().Perm() & nonUserMask; perm != 0 {
		return fmt.Errorf("keys: key file permissions must exclude group and other, got %o", info.Mode().Perm())
	}
	return nil
}

// Load reads and parses the key pair stored at f's path.
func (f *KeyFile) Load() (KeyPair, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.checkPermissions(); err != nil {
		return KeyPair{}, err
	}

	raw, err := os.ReadFile(f.path)
	if err != nil {
		return KeyPair{}, err
	}

	scalarBytes, err := hex.DecodeString(strings.TrimSpace(string(raw)))
	if err != nil {
		return KeyPair{}, ErrInvalidKey
	}

	return FromScalar(new(big.Int).SetBytes(scalarBytes))
}

// Save writes kp's private scalar to f's path as hex, creating parent
// directories as needed, with permissions restricted to the owner.
func (f *KeyFile) Save(kp KeyPair) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := kp.Validate(); err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(f.path), 0700); err != nil {
		return err
	}

	encoded := hex.EncodeToString(kp.Scalar().Bytes())
	return os.WriteFile(f.path, []byte(encoded), 0600)
}
