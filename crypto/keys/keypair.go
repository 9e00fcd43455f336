package keys

import (
	"crypto/ecdsa"
	"crypto/rand"
	"math/big"
)

// KeyPair is a private key together with the public key it derives. It is
// the credential an account or a peer signs with.
type KeyPair struct {
	priv *ecdsa.PrivateKey
}

// Generate creates a fresh KeyPair using the package's curve.
func Generate() (KeyPair, error) {
	priv, err := ecdsa.GenerateKey(Curve(), rand.Reader)
	if err != nil {
		return KeyPair{}, err
	}
	return KeyPair{priv: priv}, nil
}

// FromScalar rebuilds a KeyPair from a raw private scalar, as read back
// from a key file. It returns ErrInvalidKey if the scalar is out of range
// for the curve.
func FromScalar(d *big.Int) (KeyPair, error) {
	if d == nil || d.Sign() <= 0 || d.Cmp(curveN) >= 0 {
		return KeyPair{}, ErrInvalidKey
	}
	priv := new(ecdsa.PrivateKey)
	priv.PublicKey.Curve = Curve()
	priv.D = d
	priv.PublicKey.X, priv.PublicKey.Y = Curve().ScalarBaseMult(d.Bytes())
	return KeyPair{priv: priv}, nil
}

// Scalar returns the raw private scalar, for persistence.
func (k KeyPair) Scalar() *big.Int {
	return k.priv.D
}

// Public returns the public half of k.
func (k KeyPair) Public() PublicKey {
	return PublicKey{point: &k.priv.PublicKey}
}

// Sign produces an ECDSA signature over digest. Callers pass the hash of
// whatever they intend to authenticate; this package never hashes on their
// behalf.
func (k KeyPair) Sign(digest []byte) (r, s *big.Int, err error) {
	return ecdsa.Sign(rand.Reader, k.priv, digest)
}

// Validate reports whether the key pair's scalar is in the curve's valid
// range and its public point lies on the curve.
func (k KeyPair) Validate() error {
	if k.priv == nil || k.priv.D == nil || k.priv.D.Sign() <= 0 || k.priv.D.Cmp(curveN) >= 0 {
		return ErrInvalidKey
	}
	if !Curve().IsOnCurve(k.priv.PublicKey.X, k.priv.PublicKey.Y) {
		return ErrInvalidKey
	}
	return nil
}
