package tx

import (
	"github.com/joshuadahlunr/tangle/crypto/keys"
	"github.com/joshuadahlunr/tangle/hashing"
)

// Mine searches nonces starting from 0 until t's canonical digest has at
// least difficulty leading zero hex nibbles, then re-signs every input
// over the final hash. Signers must be given in the same order as
// t.Inputs; mining mutates the nonce and therefore the hash, so any
// signature computed before mining is necessarily provisional.
func Mine(t *Transaction, difficulty uint8, signers []keys.KeyPair) error {
	if len(signers) != len(t.Inputs) {
		return ErrSignerMismatch
	}

	t.MiningDifficulty = difficulty
	t.Nonce = 0

	for {
		pre, err := t.CanonicalBytes()
		if err != nil {
			return err
		}
		digest := hashing.Sum(pre)
		if digest.LeadingZeroNibbles() >= int(difficulty) {
			t.Hash = digest
			break
		}
		t.Nonce++
	}

	for i := range t.Inputs {
		sig, err := keys.Sign(signers[i], t.Hash.Bytes())
		if err != nil {
			return err
		}
		t.Inputs[i].Signature = sig
	}

	return nil
}
