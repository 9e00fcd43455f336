package commands

import (
	"bytes"
	"testing"

	"github.com/joshuadahlunr/tangle/crypto/keys"
	"github.com/joshuadahlunr/tangle/snapshot"
	"github.com/joshuadahlunr/tangle/tangle"
	"github.com/joshuadahlunr/tangle/tx"
)

func mustKeyPair(t *testing.T) keys.KeyPair {
	t.Helper()
	kp, err := keys.Generate()
	if err != nil {
		t.Fatalf("keys.Generate: %v", err)
	}
	return kp
}

func TestMintGenesisProducesSpendableSupply(t *testing.T) {
	kp := mustKeyPair(t)
	genesisAmount = 500
	t.Cleanup(func() { genesisAmount = 1000000 })

	genesisTx, err := mintGenesis(kp)
	if err != nil {
		t.Fatalf("mintGenesis: %v", err)
	}
	if !genesisTx.IsGenesis() {
		t.Fatalf("mintGenesis did not produce a genesis-shaped transaction")
	}
	if got := genesisTx.TotalOutputs(); got != 500 {
		t.Fatalf("genesis output total = %v, want 500", got)
	}
}

func TestLoadGenesisStateFallsBackToMintedGenesisWithNoSnapshot(t *testing.T) {
	kp := mustKeyPair(t)
	appConfig.SnapshotPath = ""
	appConfig.BadgerDir = ""

	genesisTx, replay, sink, err := loadGenesisState(kp)
	if err != nil {
		t.Fatalf("loadGenesisState: %v", err)
	}
	if sink != nil {
		t.Fatalf("expected no badger sink when nothing is configured")
	}
	if len(replay) != 0 {
		t.Fatalf("expected no replay backlog from a freshly minted genesis, got %d", len(replay))
	}
	if !genesisTx.IsGenesis() {
		t.Fatalf("expected a freshly minted genesis transaction")
	}
}

func TestGenesisAndRestRoundTripsThroughFileSnapshot(t *testing.T) {
	k0 := mustKeyPair(t)
	genesis := tx.Transaction{Outputs: []tx.Output{{Account: k0.Public(), Amount: 10}}}
	if err := tx.Mine(&genesis, 1, nil); err != nil {
		t.Fatalf("Mine: %v", err)
	}

	tg, err := tangle.NewTangle(genesis)
	if err != nil {
		t.Fatalf("NewTangle: %v", err)
	}

	var buf bytes.Buffer
	if err := snapshot.Save(&buf, tg); err != nil {
		t.Fatalf("Save: %v", err)
	}

	loaded, err := snapshot.Load(&buf)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	genesisTx, replay, sink, err := genesisAndRest(loaded)
	if err != nil {
		t.Fatalf("genesisAndRest: %v", err)
	}
	if sink != nil {
		t.Fatalf("genesisAndRest should never return a sink")
	}
	if genesisTx.Hash != genesis.Hash {
		t.Fatalf("genesisTx hash = %s, want %s", genesisTx.Hash, genesis.Hash)
	}
	if len(replay) != 0 {
		t.Fatalf("expected no replay backlog for a genesis-only tangle, got %d", len(replay))
	}
}
