package network

import (
	"testing"

	"github.com/joshuadahlunr/tangle/crypto/keys"
	"github.com/joshuadahlunr/tangle/tangle"
	"github.com/joshuadahlunr/tangle/tx"
)

func newTestNetworkedTangle(t *testing.T, genesis tx.Transaction) *NetworkedTangle {
	t.Helper()
	tg, err := tangle.NewTangle(genesis)
	if err != nil {
		t.Fatalf("NewTangle: %v", err)
	}
	identity, err := keys.Generate()
	if err != nil {
		t.Fatalf("keys.Generate: %v", err)
	}
	return New(tg, nil, identity, nil)
}

// TestOrphanBuffering is S4: T2 (parent T1) arrives before T1. After
// both are processed, the DAG contains both and T2 is a child of T1.
func TestOrphanBuffering(t *testing.T) {
	k0 := mustKey(t)

	genesis := mineTxFor(t, nil, nil, []tx.Output{{Account: k0.Public(), Amount: 100}}, nil)
	nt := newTestNetworkedTangle(t, genesis)

	t1 := mineTxFor(t, []tx.Transaction{genesis},
		[]tx.Input{{Account: k0.Public(), Amount: 1}},
		[]tx.Output{{Account: k0.Public(), Amount: 1}},
		[]keys.KeyPair{k0})

	t2 := mineTxFor(t, []tx.Transaction{t1},
		[]tx.Input{{Account: k0.Public(), Amount: 1}},
		[]tx.Output{{Account: k0.Public(), Amount: 1}},
		[]keys.KeyPair{k0})

	if err := nt.insertOrQueue(t2, false); err != nil {
		t.Fatalf("insertOrQueue(t2): %v", err)
	}
	if nt.QueueLen() != 1 {
		t.Fatalf("QueueLen() = %d, want 1 (t2 buffered as orphan)", nt.QueueLen())
	}
	if _, ok := nt.Tangle.Find(t2.Hash); ok {
		t.Fatalf("t2 found before its parent arrived")
	}

	if err := nt.insertOrQueue(t1, false); err != nil {
		t.Fatalf("insertOrQueue(t1): %v", err)
	}

	if _, ok := nt.Tangle.Find(t1.Hash); !ok {
		t.Fatalf("t1 not found after insertion")
	}
	t2Node, ok := nt.Tangle.Find(t2.Hash)
	if !ok {
		t.Fatalf("t2 not found after its parent was drained from the orphan queue")
	}
	if nt.QueueLen() != 0 {
		t.Fatalf("QueueLen() = %d, want 0 after drain", nt.QueueLen())
	}

	t1Node, _ := nt.Tangle.Find(t1.Hash)
	found := false
	for _, c := range t1Node.Children() {
		if c.Hash == t2Node.Hash {
			found = true
		}
	}
	if !found {
		t.Fatalf("t2 not recorded as a child of t1")
	}
}

// mineTxFor is a self-contained test helper (network package can't
// import tangle's test helpers, which are unexported).
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

func mustKey(t *testing.T) keys.KeyPair {
	t.Helper()
	kp, err := keys.Generate()
	if err != nil {
		t.Fatalf("keys.Generate: %v", err)
	}
	return kp
}
