// Package keys implements the public key cryptography used throughout the
// tangle: every account and every peer owns an elliptic-curve key pair that
// it uses to sign and verify transactions.
//
// The curve is secp256k1, via btcsuite's implementation, the same choice
// babble-style systems make because it is also the curve used by Bitcoin
// and Ethereum. A production deployment could swap in any other named
// curve without changing the rest of this package's API.
package keys

import (
	"crypto/elliptic"
	"math/big"

	"github.com/btcsuite/btcd/btcec"
)

// Parameters of the secp256k1 curve, used to validate that a private key's
// scalar is in range.
var (
	curveN, _  = new(big.Int).SetString("fffffffffffffffffffffffffffffffebaaedce6af48a03bbfd25e8cd0364141", 16)
	curveHalfN = new(big.Int).Div(curveN, big.NewInt(2))
)

// Curve returns the elliptic.Curve used by this package.
func Curve() elliptic.Curve {
	return btcec.S256()
}

// curveOID is the SEC 2 object identifier of secp256k1 (1.3.132.0.10),
// used to tag points in the ASN.1 encoding produced by Encode. secp256k1 is not one of the
// named curves crypto/x509 recognizes, so this package defines its own
// minimal SubjectPublicKeyInfo-shaped wrapper instead of depending on
// crypto/x509's curve registry.
var curveOID = []int{1, 3, 132, 0, 10}
