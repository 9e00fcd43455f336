package tx

import (
	"encoding/binary"
	"math"

	"github.com/joshuadahlunr/tangle/crypto/keys"
)

// CanonicalBytes returns the pre-image hashed to produce t.Hash: parent
// hashes in declared order, each input as account-bytes ∥ amount (with
// the signature omitted, since a signature attests to the hash and can't
// be part of what it attests to), each output as account-bytes ∥ amount,
// the mining difficulty, and the nonce.
func (t *Transaction) CanonicalBytes() ([]byte, error) {
	var buf []byte

	for _, parent := range t.ParentHashes {
		buf = append(buf, parent.Bytes()...)
	}

	for _, in := range t.Inputs {
		accountBytes, err := encodeAccount(in.Account)
		if err != nil {
			return nil, err
		}
		buf = append(buf, accountBytes...)
		buf = append(buf, encodeAmount(in.Amount)...)
	}

	for _, out := range t.Outputs {
		accountBytes, err := encodeAccount(out.Account)
		if err != nil {
			return nil, err
		}
		buf = append(buf, accountBytes...)
		buf = append(buf, encodeAmount(out.Amount)...)
	}

	buf = append(buf, t.MiningDifficulty)

	nonceBytes := make([]byte, 8)
	binary.LittleEndian.PutUint64(nonceBytes, t.Nonce)
	buf = append(buf, nonceBytes...)

	return buf, nil
}

// encodeAccount renders a public key as a length-prefixed ASN.1 blob, the
// canonical subjectPublicKeyInfo form required for byte-identical hashing
// across implementations.
func encodeAccount(pub keys.PublicKey) ([]byte, error) {
	der, err := pub.Encode()
	if err != nil {
		return nil, err
	}
	length := make([]byte, 4)
	binary.LittleEndian.PutUint32(length, uint32(len(der)))
	return append(length, der...), nil
}

// encodeAmount renders a double as 8 bytes, little-endian IEEE-754, the
// fixed amount encoding every implementation of this format must share.
func encodeAmount(amount float64) []byte {
	buf := make([]byte, 8)
	binary.LittleEndian.PutUint64(buf, math.Float64bits(amount))
	return buf
}
