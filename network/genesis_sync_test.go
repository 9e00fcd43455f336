package network

import (
	"testing"

	"github.com/joshuadahlunr/tangle/tx"
	"github.com/joshuadahlunr/tangle/wire"
)

// TestHandleSyncGenesisRejectsInvalidHashBeforeCheckingListenState checks
// that the validity hash is verified unconditionally, before the
// listening-for-genesis-sync state is even consulted — a malformed
// message must fail with ErrInvalidHash even when the replica never
// asked for a genesis sync.
func TestHandleSyncGenesisRejectsInvalidHashBeforeCheckingListenState(t *testing.T) {
	k0 := mustKey(t)
	genesis := mineTxFor(t, nil, nil, []tx.Output{{Account: k0.Public(), Amount: 1}}, nil)
	nt := newTestNetworkedTangle(t, genesis)

	remoteGenesis := mineTxFor(t, nil, nil, []tx.Output{{Account: k0.Public(), Amount: 2}}, nil)
	remoteWire, err := wire.FromTransaction(remoteGenesis)
	if err != nil {
		t.Fatalf("FromTransaction: %v", err)
	}

	err = nt.HandleSyncGenesis(wire.SyncGenesisRequest{
		ValidityHash: genesis.Hash.String(), // wrong on purpose
		Genesis:      remoteWire,
	})
	if err != ErrInvalidHash {
		t.Fatalf("HandleSyncGenesis = %v, want ErrInvalidHash", err)
	}
	if nt.Tangle.Genesis().Hash != genesis.Hash {
		t.Fatalf("genesis was mutated by a rejected request")
	}
}

// TestHandleSyncGenesisSilentlyIgnoresWhenNotListening matches the
// original's `if(!t.listeningForGenesisSync) return;`: an unsolicited
// SyncGenesisRequest with a valid hash is a silent no-op, not an error.
func TestHandleSyncGenesisSilentlyIgnoresWhenNotListening(t *testing.T) {
	k0 := mustKey(t)
	genesis := mineTxFor(t, nil, nil, []tx.Output{{Account: k0.Public(), Amount: 1}}, nil)
	nt := newTestNetworkedTangle(t, genesis)

	remoteGenesis := mineTxFor(t, nil, nil, []tx.Output{{Account: k0.Public(), Amount: 2}}, nil)
	remoteWire, err := wire.FromTransaction(remoteGenesis)
	if err != nil {
		t.Fatalf("FromTransaction: %v", err)
	}

	if err := nt.HandleSyncGenesis(wire.SyncGenesisRequest{
		ValidityHash: remoteGenesis.Hash.String(),
		Genesis:      remoteWire,
	}); err != nil {
		t.Fatalf("HandleSyncGenesis = %v, want nil (silent ignore)", err)
	}
	if nt.Tangle.Genesis().Hash != genesis.Hash {
		t.Fatalf("genesis was overwritten despite not listening")
	}
}

// TestHandleSyncGenesisSilentlyIgnoresMatchingGenesis matches the
// original's "don't start with a new genesis if its hash matches the
// current genesis" check: a valid request naming the replica's own
// genesis is a silent no-op even while listening.
func TestHandleSyncGenesisSilentlyIgnoresMatchingGenesis(t *testing.T) {
	k0 := mustKey(t)
	genesis := mineTxFor(t, nil, nil, []tx.Output{{Account: k0.Public(), Amount: 1}}, nil)
	nt := newTestNetworkedTangle(t, genesis)
	nt.listeningForGenesisSync.Store(true)

	genesisWire, err := wire.FromTransaction(genesis)
	if err != nil {
		t.Fatalf("FromTransaction: %v", err)
	}

	if err := nt.HandleSyncGenesis(wire.SyncGenesisRequest{
		ValidityHash: genesis.Hash.String(),
		Genesis:      genesisWire,
	}); err != nil {
		t.Fatalf("HandleSyncGenesis = %v, want nil", err)
	}
	if !nt.listeningForGenesisSync.Load() {
		t.Fatalf("listeningForGenesisSync was cleared by a same-genesis no-op")
	}
}
