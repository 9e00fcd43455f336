package keys

import (
	"os"
	"path/filepath"
	"testing"
)

func TestSignAndVerify(t *testing.T) {
	kp, err := Generate()
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	digest := []byte("a transaction hash, 32 bytes pretend")
	sig, err := Sign(kp, digest)
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}

	if !Verify(kp.Public(), digest, sig) {
		t.Fatalf("signature did not verify under its own public key")
	}

	other, err := Generate()
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if Verify(other.Public(), digest, sig) {
		t.Fatalf("signature verified under an unrelated public key")
	}
}

func TestVerifyRejectsTamperedDigest(t *testing.T) {
	kp, _ := Generate()
	digest := []byte("original message")
	sig, _ := Sign(kp, digest)

	if Verify(kp.Public(), []byte("tampered message"), sig) {
		t.Fatalf("signature verified against a different digest")
	}
}

func TestPublicKeyEncodeDecodeRoundTrip(t *testing.T) {
	kp, _ := Generate()
	pub := kp.Public()

	der, err := pub.Encode()
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}

	decoded, err := DecodePublicKey(der)
	if err != nil {
		t.Fatalf("DecodePublicKey: %v", err)
	}

	if !pub.Equal(decoded) {
		t.Fatalf("decoded public key does not equal original")
	}
}

func TestPublicKeyHashIsStable(t *testing.T) {
	kp, _ := Generate()
	pub := kp.Public()

	a, err := pub.Hash()
	if err != nil {
		t.Fatalf("Hash: %v", err)
	}
	b, err := pub.Hash()
	if err != nil {
		t.Fatalf("Hash: %v", err)
	}
	if a != b {
		t.Fatalf("Hash is not stable: %s != %s", a, b)
	}
}

func TestFromScalarRejectsZero(t *testing.T) {
	if _, err := FromScalar(nil); err != ErrInvalidKey {
		t.Fatalf("expected ErrInvalidKey for nil scalar, got %v", err)
	}
}

func TestKeyFileRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "priv.key")

	kp, _ := Generate()
	kf := NewKeyFile(path)

	if err := kf.Save(kp); err != nil {
		t.Fatalf("Save: %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if perm := info.Mode().Perm(); perm&0077 != 0 {
		t.Fatalf("expected owner-only permissions, got %o", perm)
	}

	loaded, err := kf.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !loaded.Public().Equal(kp.Public()) {
		t.Fatalf("loaded key pair does not match the saved one")
	}
}

func TestDecodeSignatureRejectsGarbage(t *testing.T) {
	if _, _, err := DecodeSignature([]byte("not a signature")); err != ErrInvalidSignature {
		t.Fatalf("expected ErrInvalidSignature, got %v", err)
	}
}
