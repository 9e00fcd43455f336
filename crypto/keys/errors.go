package keys

import "errors"

var (
	// ErrInvalidKey is returned by Validate when a private key's scalar is
	// out of range for the curve, or a public key's point is not on the
	// curve.
	ErrInvalidKey = errors.New("keys: invalid key")

	// ErrInvalidSignature is returned when decoding a malformed signature.
	ErrInvalidSignature = errors.New("keys: invalid signature encoding")

	// ErrInvalidEncoding is returned when decoding a malformed public key.
	ErrInvalidEncoding = errors.New("keys: invalid public key encoding")
)
