package snapshot

import (
	"bytes"
	"testing"

	"github.com/joshuadahlunr/tangle/crypto/keys"
	"github.com/joshuadahlunr/tangle/tangle"
	"github.com/joshuadahlunr/tangle/tx"
)

func mustKey(t *testing.T) keys.KeyPair {
	t.Helper()
	kp, err := keys.Generate()
	if err != nil {
		t.Fatalf("keys.Generate: %v", err)
	}
	return kp
}

func mineTxFor(t *testing.T, parents []tx.Transaction, inputs []tx.Input, outputs []tx.Output, signers []keys.KeyPair) tx.Transaction {
	t.Helper()
	txn := tx.Transaction{Inputs: inputs, Outputs: outputs}
	for _, p := range parents {
		txn.ParentHashes = append(txn.ParentHashes, p.Hash)
	}
	if err := tx.Mine(&txn, 1, signers); err != nil {
		t.Fatalf("Mine: %v", err)
	}
	return txn
}

// TestSaveLoadRoundTrip writes a small tangle to a byte buffer and reads
// it back, checking that every transaction and the genesis hash survive.
func TestSaveLoadRoundTrip(t *testing.T) {
	k0 := mustKey(t)
	genesis := mineTxFor(t, nil, nil, []tx.Output{{Account: k0.Public(), Amount: 1000}}, nil)
	tg, err := tangle.NewTangle(genesis)
	if err != nil {
		t.Fatalf("NewTangle: %v", err)
	}

	var hashes []tx.Transaction
	prev := genesis
	for i := 0; i < 4; i++ {
		next := mineTxFor(t, []tx.Transaction{prev},
			[]tx.Input{{Account: k0.Public(), Amount: 1}},
			[]tx.Output{{Account: k0.Public(), Amount: 1}},
			[]keys.KeyPair{k0})
		if _, err := tg.AddTransaction(next); err != nil {
			t.Fatalf("AddTransaction: %v", err)
		}
		hashes = append(hashes, next)
		prev = next
	}

	var buf bytes.Buffer
	if err := Save(&buf, tg); err != nil {
		t.Fatalf("Save: %v", err)
	}

	loaded, err := Load(&buf)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if loaded.Genesis().Hash != genesis.Hash {
		t.Fatalf("loaded genesis = %s, want %s", loaded.Genesis().Hash, genesis.Hash)
	}
	for _, want := range hashes {
		if _, ok := loaded.Find(want.Hash); !ok {
			t.Fatalf("loaded tangle missing transaction %s", want.Hash)
		}
	}
}

// TestLoadEmptyStreamFails checks that Load on an empty stream reports
// an error rather than panicking on the missing genesis record.
func TestLoadEmptyStreamFails(t *testing.T) {
	if _, err := Load(&bytes.Buffer{}); err == nil {
		t.Fatalf("Load(empty) succeeded, want an error")
	}
}
