// Package tx implements the signed value-transfer record that the tangle
// is built out of: Transaction, its Input/Output halves, canonical byte
// encoding, proof-of-work mining, and validation.
package tx

import (
	"github.com/joshuadahlunr/tangle/crypto/keys"
	"github.com/joshuadahlunr/tangle/hashing"
)

// Input spends amount from account. Signature covers the owning
// Transaction's final hash, not the transaction's canonical pre-image.
type Input struct {
	Account   keys.PublicKey
	Amount    float64
	Signature []byte
}

// Output credits amount to account.
type Output struct {
	Account keys.PublicKey
	Amount  float64
}

// Transaction is a node's payload: a set of inputs spent, a set of
// outputs credited, a list of parent hashes it approves, and the
// proof-of-work nonce that makes its hash expensive to produce.
type Transaction struct {
	ParentHashes     []hashing.Hash
	Inputs           []Input
	Outputs          []Output
	MiningDifficulty uint8
	Nonce            uint64
	Hash             hashing.Hash
}

// IsGenesis reports whether t has no parents, the shape a genesis
// transaction takes.
func (t *Transaction) IsGenesis() bool {
	return len(t.ParentHashes) == 0
}

// TotalInputs sums the amounts of every input.
func (t *Transaction) TotalInputs() float64 {
	var total float64
	for _, in := range t.Inputs {
		total += in.Amount
	}
	return total
}

// TotalOutputs sums the amounts of every output.
func (t *Transaction) TotalOutputs() float64 {
	var total float64
	for _, out := range t.Outputs {
		total += out.Amount
	}
	return total
}
