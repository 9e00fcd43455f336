package tx

import (
	"github.com/joshuadahlunr/tangle/crypto/keys"
	"github.com/joshuadahlunr/tangle/hashing"
)

// ValidateTransactionTotals checks that t does not spend more than it
// credits.
func (t *Transaction) ValidateTransactionTotals() error {
	if t.TotalInputs() < t.TotalOutputs() {
		return ErrInvalidAmounts
	}
	return nil
}

// ValidateTransactionMined checks that t's stored hash matches its
// recomputed digest and that the digest satisfies the declared
// difficulty's leading-zero-nibble prefix.
func (t *Transaction) ValidateTransactionMined() error {
	pre, err := t.CanonicalBytes()
	if err != nil {
		return err
	}
	digest := hashing.Sum(pre)
	if digest != t.Hash {
		return ErrInvalidHash
	}
	if digest.LeadingZeroNibbles() < int(t.MiningDifficulty) {
		return ErrInvalidProofOfWork
	}
	return nil
}

// ValidateTransaction runs every structural and cryptographic check that
// does not require consulting the tangle this transaction will join:
// mining, totals, parent well-formedness, and input signatures.
func (t *Transaction) ValidateTransaction() error {
	if !t.IsGenesis() {
		for _, p := range t.ParentHashes {
			if !p.IsValid() {
				return ErrMalformedParent
			}
		}
	}

	if err := t.ValidateTransactionMined(); err != nil {
		return err
	}

	if err := t.ValidateTransactionTotals(); err != nil {
		return err
	}

	for _, in := range t.Inputs {
		if !keys.Verify(in.Account, t.Hash.Bytes(), in.Signature) {
			return ErrInvalidSignature
		}
	}

	return nil
}
