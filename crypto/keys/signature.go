package keys

import (
	"encoding/asn1"
	"math/big"
)

// signatureASN1 is the DER shape a signature is encoded as: the two
// ECDSA scalars, nothing else. Wire messages carry this as a
// length-prefixed opaque byte string, so callers never need to know the
// encoding is ASN.1 underneath.
type signatureASN1 struct {
	R, S *big.Int
}

// Sign is a convenience wrapper that signs digest with priv and returns
// the encoded signature bytes directly.
func Sign(priv KeyPair, digest []byte) ([]byte, error) {
	r, s, err := priv.Sign(digest)
	if err != nil {
		return nil, err
	}
	return EncodeSignature(r, s)
}

// Verify is a convenience wrapper that decodes sig and checks it against
// digest under pub.
func Verify(pub PublicKey, digest []byte, sig []byte) bool {
	r, s, err := DecodeSignature(sig)
	if err != nil {
		return false
	}
	return pub.Verify(digest, r, s)
}

// EncodeSignature serializes (r, s) to the opaque byte form carried on
// the wire.
func EncodeSignature(r, s *big.Int) ([]byte, error) {
	if r == nil || s == nil {
		return nil, ErrInvalidSignature
	}
	return asn1.Marshal(signatureASN1{R: r, S: s})
}

// DecodeSignature parses the byte form produced by EncodeSignature.
func DecodeSignature(sig []byte) (r, s *big.Int, err error) {
	var decoded signatureASN1
	rest, err := asn1.Unmarshal(sig, &decoded)
	if err != nil || len(rest) != 0 {
		return nil, nil, ErrInvalidSignature
	}
	if decoded.R == nil || decoded.S == nil || decoded.R.Sign() <= 0 || decoded.S.Sign() <= 0 {
		return nil, nil, ErrInvalidSignature
	}
	return decoded.R, decoded.S, nil
}
