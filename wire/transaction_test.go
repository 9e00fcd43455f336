package wire

import (
	"testing"

	"github.com/joshuadahlunr/tangle/crypto/keys"
	"github.com/joshuadahlunr/tangle/hashing"
	"github.com/joshuadahlunr/tangle/tx"
)

// TestRoundTrip is P5: serialize(transaction) then deserialize yields an
// equal transaction, including hash.
func TestRoundTrip(t *testing.T) {
	k0, k1 := generateKey(t), generateKey(t)

	genesis := tx.Transaction{
		Outputs: []tx.Output{{Account: k0.Public(), Amount: 100}},
	}
	if err := tx.Mine(&genesis, 1, nil); err != nil {
		t.Fatalf("Mine: %v", err)
	}

	transfer := tx.Transaction{
		ParentHashes: []hashing.Hash{genesis.Hash},
		Inputs:       []tx.Input{{Account: k0.Public(), Amount: 10}},
		Outputs:      []tx.Output{{Account: k1.Public(), Amount: 10}},
	}
	if err := tx.Mine(&transfer, 1, []keys.KeyPair{k0}); err != nil {
		t.Fatalf("Mine: %v", err)
	}

	w, err := FromTransaction(transfer)
	if err != nil {
		t.Fatalf("FromTransaction: %v", err)
	}

	encoded, err := w.Marshal()
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}

	decodedWire, err := UnmarshalTransaction(encoded)
	if err != nil {
		t.Fatalf("UnmarshalTransaction: %v", err)
	}

	decoded, err := decodedWire.ToTransaction()
	if err != nil {
		t.Fatalf("ToTransaction: %v", err)
	}

	if decoded.Hash != transfer.Hash {
		t.Fatalf("round-tripped hash = %v, want %v", decoded.Hash, transfer.Hash)
	}
	if len(decoded.Inputs) != len(transfer.Inputs) || decoded.Inputs[0].Amount != transfer.Inputs[0].Amount {
		t.Fatalf("round-tripped inputs mismatch: %+v vs %+v", decoded.Inputs, transfer.Inputs)
	}
	if !decoded.Inputs[0].Account.Equal(transfer.Inputs[0].Account) {
		t.Fatalf("round-tripped input account mismatch")
	}
}

func generateKey(t *testing.T) keys.KeyPair {
	t.Helper()
	kp, err := keys.Generate()
	if err != nil {
		t.Fatalf("keys.Generate: %v", err)
	}
	return kp
}
