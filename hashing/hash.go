// Package hashing provides the content-addressing primitive used to
// identify transactions in the tangle. Every Transaction is addressed by
// the digest of its canonical byte form; nothing else in this package
// knows what a Transaction is.
package hashing

import (
	"encoding/hex"

	"golang.org/x/crypto/sha3"
)

// Size is the number of raw digest bytes produced by Sum.
const Size = 32

// Hash is a fixed-length content digest, normally rendered as lowercase
// hex for logging and wire transmission.
type Hash [Size]byte

// InvalidHash is the sentinel value for uninitialized hash fields.
var InvalidHash Hash

// IsValid reports whether h is something other than the zero hash.
func (h Hash) IsValid() bool {
	return h != InvalidHash
}

// String returns the lowercase hex representation of h.
func (h Hash) String() string {
	return hex.EncodeToString(h[:])
}

// Bytes returns a copy of the underlying digest bytes.
func (h Hash) Bytes() []byte {
	b := make([]byte, Size)
	copy(b, h[:])
	return b
}

// LeadingZeroNibbles counts the number of leading hex nibbles of h that
// are zero, used to check proof-of-work difficulty.
func (h Hash) LeadingZeroNibbles() int {
	count := 0
	for _, b := range h {
		hi, lo := b>>4, b&0x0f
		if hi == 0 {
			count++
		} else {
			return count
		}
		if lo == 0 {
			count++
		} else {
			return count
		}
	}
	return count
}

// Sum computes the content digest of data.
func Sum(data []byte) Hash {
	var h Hash
	sum := sha3.Sum256(data)
	copy(h[:], sum[:])
	return h
}

// FromHex parses a lowercase or uppercase hex string into a Hash.
func FromHex(s string) (Hash, error) {
	var h Hash
	b, err := hex.DecodeString(s)
	if err != nil {
		return h, err
	}
	if len(b) != Size {
		return h, ErrWrongLength
	}
	copy(h[:], b)
	return h, nil
}

// FromBytes copies b into a Hash. It returns an error if b is not Size
// bytes long.
func FromBytes(b []byte) (Hash, error) {
	var h Hash
	if len(b) != Size {
		return h, ErrWrongLength
	}
	copy(h[:], b)
	return h, nil
}
