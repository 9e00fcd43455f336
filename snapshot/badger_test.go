package snapshot

import (
	"path/filepath"
	"testing"

	"github.com/joshuadahlunr/tangle/crypto/keys"
	"github.com/joshuadahlunr/tangle/tangle"
	"github.com/joshuadahlunr/tangle/tx"
)

// TestBadgerSinkRoundTrip opens a fresh badger database under a
// temporary directory, saves a small tangle to it, reopens it, and
// checks every transaction survived.
func TestBadgerSinkRoundTrip(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "tangle_db")

	k0 := mustKey(t)
	genesis := mineTxFor(t, nil, nil, []tx.Output{{Account: k0.Public(), Amount: 1000}}, nil)
	tg, err := tangle.NewTangle(genesis)
	if err != nil {
		t.Fatalf("NewTangle: %v", err)
	}

	prev := genesis
	var last tx.Transaction
	for i := 0; i < 3; i++ {
		next := mineTxFor(t, []tx.Transaction{prev},
			[]tx.Input{{Account: k0.Public(), Amount: 1}},
			[]tx.Output{{Account: k0.Public(), Amount: 1}},
			[]keys.KeyPair{k0})
		if _, err := tg.AddTransaction(next); err != nil {
			t.Fatalf("AddTransaction: %v", err)
		}
		last = next
		prev = next
	}

	sink, err := OpenBadgerSink(dir)
	if err != nil {
		t.Fatalf("OpenBadgerSink: %v", err)
	}
	if err := sink.Save(tg); err != nil {
		sink.Close()
		t.Fatalf("Save: %v", err)
	}
	if err := sink.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	reopened, err := OpenBadgerSink(dir)
	if err != nil {
		t.Fatalf("reopen OpenBadgerSink: %v", err)
	}
	defer reopened.Close()

	loaded, err := reopened.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if loaded.Genesis().Hash != genesis.Hash {
		t.Fatalf("loaded genesis = %s, want %s", loaded.Genesis().Hash, genesis.Hash)
	}
	if _, ok := loaded.Find(last.Hash); !ok {
		t.Fatalf("loaded tangle missing last transaction %s", last.Hash)
	}
}
