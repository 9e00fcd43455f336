// Package wire defines the stable, versioned-free wire shapes for
// transactions and synchronization messages, and the msgpack encoding
// used to move them between peers. It deliberately does not reuse
// tx.Transaction or crypto/keys.PublicKey directly as wire types: those
// carry unexported fields (a PublicKey's curve point, in particular)
// that a generic encoder can't see, so every wire type here is a plain
// exported-field DTO with explicit ToXxx/FromXxx conversions.
package wire

import (
	"github.com/joshuadahlunr/tangle/crypto/keys"
	"github.com/joshuadahlunr/tangle/hashing"
	"github.com/joshuadahlunr/tangle/tx"
)

// Input is the wire shape of tx.Input: account-bytes, amount, signature.
type Input struct {
	Account   []byte
	Amount    float64
	Signature []byte
}

// Output is the wire shape of tx.Output: account-bytes, amount.
type Output struct {
	Account []byte
	Amount  float64
}

// Transaction is the wire shape of tx.Transaction:
// parentHashes ∥ inputs ∥ outputs ∥ miningDifficulty ∥ nonce ∥ hash.
type Transaction struct {
	ParentHashes     []string
	Inputs           []Input
	Outputs          []Output
	MiningDifficulty uint8
	Nonce            uint64
	Hash             string
}

// FromTransaction converts a domain Transaction to its wire shape.
func FromTransaction(t tx.Transaction) (Transaction, error) {
	w := Transaction{
		MiningDifficulty: t.MiningDifficulty,
		Nonce:            t.Nonce,
		Hash:             t.Hash.String(),
	}

	for _, ph := range t.ParentHashes {
		w.ParentHashes = append(w.ParentHashes, ph.String())
	}

	for _, in := range t.Inputs {
		der, err := in.Account.Encode()
		if err != nil {
			return Transaction{}, err
		}
		w.Inputs = append(w.Inputs, Input{
			Account:   der,
			Amount:    in.Amount,
			Signature: in.Signature,
		})
	}

	for _, out := range t.Outputs {
		der, err := out.Account.Encode()
		if err != nil {
			return Transaction{}, err
		}
		w.Outputs = append(w.Outputs, Output{
			Account: der,
			Amount:  out.Amount,
		})
	}

	return w, nil
}

// ToTransaction converts a wire Transaction back to its domain form.
func (w Transaction) ToTransaction() (tx.Transaction, error) {
	t := tx.Transaction{
		MiningDifficulty: w.MiningDifficulty,
		Nonce:            w.Nonce,
	}

	h, err := hashing.FromHex(w.Hash)
	if err != nil {
		return tx.Transaction{}, err
	}
	t.Hash = h

	for _, ph := range w.ParentHashes {
		parentHash, err := hashing.FromHex(ph)
		if err != nil {
			return tx.Transaction{}, err
		}
		t.ParentHashes = append(t.ParentHashes, parentHash)
	}

	for _, in := range w.Inputs {
		account, err := keys.DecodePublicKey(in.Account)
		if err != nil {
			return tx.Transaction{}, err
		}
		t.Inputs = append(t.Inputs, tx.Input{
			Account:   account,
			Amount:    in.Amount,
			Signature: in.Signature,
		})
	}

	for _, out := range w.Outputs {
		account, err := keys.DecodePublicKey(out.Account)
		if err != nil {
			return tx.Transaction{}, err
		}
		t.Outputs = append(t.Outputs, tx.Output{
			Account: account,
			Amount:  out.Amount,
		})
	}

	return t, nil
}

// Marshal encodes w using the package's canonical msgpack handle.
func (w Transaction) Marshal() ([]byte, error) {
	return marshal(&w)
}

// UnmarshalTransaction decodes a wire Transaction from data.
func UnmarshalTransaction(data []byte) (Transaction, error) {
	var w Transaction
	if err := unmarshal(data, &w); err != nil {
		return Transaction{}, err
	}
	return w, nil
}
