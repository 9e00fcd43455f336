package network

import (
	"testing"

	"github.com/joshuadahlunr/tangle/crypto/keys"
	"github.com/joshuadahlunr/tangle/hashing"
	"github.com/joshuadahlunr/tangle/tx"
	"github.com/joshuadahlunr/tangle/wire"
)

// TestGenesisSyncConvergence is S5, driven directly through the handler
// functions rather than a live transport (the transport framing itself
// is covered in package net): peer B applies the stream peer A would
// have sent in response to a TangleSynchronizeRequest, and ends up with
// every node A has, sharing A's genesis hash.
func TestGenesisSyncConvergence(t *testing.T) {
	k0 := mustKey(t)

	genesis := mineTxFor(t, nil, nil, []tx.Output{{Account: k0.Public(), Amount: 1000}}, nil)
	a := newTestNetworkedTangle(t, genesis)

	prev := genesis
	for i := 0; i < 5; i++ {
		next := mineTxFor(t, []tx.Transaction{prev},
			[]tx.Input{{Account: k0.Public(), Amount: 1}},
			[]tx.Output{{Account: k0.Public(), Amount: 1}},
			[]keys.KeyPair{k0})
		if _, err := a.Tangle.AddTransaction(next); err != nil {
			t.Fatalf("AddTransaction on A: %v", err)
		}
		prev = next
	}

	order := a.Tangle.PreOrder()
	if len(order) != 5 {
		t.Fatalf("PreOrder returned %d nodes, want 5", len(order))
	}
	seen := map[hashing.Hash]bool{a.Tangle.Genesis().Hash: true}
	for _, n := range order {
		for _, p := range n.Parents() {
			if !seen[p.Hash] {
				t.Fatalf("node %s emitted before its parent %s", n.Hash, p.Hash)
			}
		}
		seen[n.Hash] = true
	}

	// Peer B starts with a different genesis and must be replaced wholesale.
	bGenesis := mineTxFor(t, nil, nil, []tx.Output{{Account: k0.Public(), Amount: 1}}, nil)
	b := newTestNetworkedTangle(t, bGenesis)
	b.listeningForGenesisSync.Store(true)

	genesisWire, err := wire.FromTransaction(genesis)
	if err != nil {
		t.Fatalf("FromTransaction: %v", err)
	}
	if err := b.HandleSyncGenesis(wire.SyncGenesisRequest{
		ValidityHash: genesis.Hash.String(),
		Genesis:      genesisWire,
	}); err != nil {
		t.Fatalf("HandleSyncGenesis: %v", err)
	}
	if b.Tangle.Genesis().Hash != genesis.Hash {
		t.Fatalf("B genesis = %s, want %s", b.Tangle.Genesis().Hash, genesis.Hash)
	}

	for _, node := range order {
		if _, err := b.Tangle.AddTransactionReplay(node.Transaction); err != nil {
			t.Fatalf("AddTransactionReplay on B: %v", err)
		}
	}

	for _, node := range order {
		if _, ok := b.Tangle.Find(node.Hash); !ok {
			t.Fatalf("B missing node %s present on A", node.Hash)
		}
	}
}
