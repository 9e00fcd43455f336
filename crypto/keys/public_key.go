package keys

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"encoding/asn1"
	"encoding/hex"
	"math/big"

	"golang.org/x/crypto/sha3"
)

// PublicKey identifies an account or a peer. Two PublicKeys are equal iff
// their underlying curve points are equal.
type PublicKey struct {
	point *ecdsa.PublicKey
}

// subjectPublicKeyInfo mirrors the shape of an X.509 SubjectPublicKeyInfo
// closely enough to round-trip a secp256k1 point: an algorithm OID
// followed by the uncompressed curve point. crypto/x509 can't be used
// directly because it only recognizes NIST curves.
type subjectPublicKeyInfo struct {
	Algorithm asn1.ObjectIdentifier
	PointData []byte
}

// NewPublicKey wraps a raw ecdsa.PublicKey. It returns ErrInvalidKey if the
// point is not on the curve.
func NewPublicKey(pub *ecdsa.PublicKey) (PublicKey, error) {
	if pub == nil || pub.X == nil || pub.Y == nil || !Curve().IsOnCurve(pub.X, pub.Y) {
		return PublicKey{}, ErrInvalidKey
	}
	return PublicKey{point: pub}, nil
}

// IsZero reports whether k holds no key material.
func (k PublicKey) IsZero() bool {
	return k.point == nil
}

// Encode returns the canonical ASN.1 DER serialization of k: an algorithm
// identifier followed by the uncompressed curve point, the "ASN.1-ish
// SubjectPublicKeyInfo" form required by the wire format.
func (k PublicKey) Encode() ([]byte, error) {
	if k.IsZero() {
		return nil, ErrInvalidKey
	}
	point := elliptic.Marshal(Curve(), k.point.X, k.point.Y)
	return asn1.Marshal(subjectPublicKeyInfo{
		Algorithm: curveOID,
		PointData: point,
	})
}

// DecodePublicKey parses the ASN.1 form produced by Encode.
func DecodePublicKey(der []byte) (PublicKey, error) {
	var info subjectPublicKeyInfo
	rest, err := asn1.Unmarshal(der, &info)
	if err != nil || len(rest) != 0 {
		return PublicKey{}, ErrInvalidEncoding
	}
	x, y := elliptic.Unmarshal(Curve(), info.PointData)
	if x == nil {
		return PublicKey{}, ErrInvalidEncoding
	}
	return NewPublicKey(&ecdsa.PublicKey{Curve: Curve(), X: x, Y: y})
}

// Hash returns the stable hex account identifier for k: the content
// digest of the encoded key.
func (k PublicKey) Hash() (string, error) {
	der, err := k.Encode()
	if err != nil {
		return "", err
	}
	sum := sha3.Sum256(der)
	return hex.EncodeToString(sum[:]), nil
}

// Verify checks that (r, s) is a valid signature of digest under k.
func (k PublicKey) Verify(digest []byte, r, s *big.Int) bool {
	if k.IsZero() {
		return false
	}
	return ecdsa.Verify(k.point, digest, r, s)
}

// Equal reports whether k and other represent the same point.
func (k PublicKey) Equal(other PublicKey) bool {
	if k.IsZero() || other.IsZero() {
		return k.IsZero() == other.IsZero()
	}
	return k.point.X.Cmp(other.point.X) == 0 && k.point.Y.Cmp(other.point.Y) == 0
}
