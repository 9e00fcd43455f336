package tx

import (
	"testing"

	"github.com/joshuadahlunr/tangle/crypto/keys"
	"github.com/joshuadahlunr/tangle/hashing"
)

func genesisFixture(t *testing.T) (keys.KeyPair, *Transaction) {
	t.Helper()
	k0, err := keys.Generate()
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	genesis := &Transaction{
		Outputs: []Output{{Account: k0.Public(), Amount: 1e300}},
	}
	if err := Mine(genesis, 1, nil); err != nil {
		t.Fatalf("Mine genesis: %v", err)
	}
	return k0, genesis
}

func TestMineSatisfiesDifficulty(t *testing.T) {
	_, genesis := genesisFixture(t)
	if err := genesis.ValidateTransactionMined(); err != nil {
		t.Fatalf("ValidateTransactionMined: %v", err)
	}
}

func TestMineIsDeterministicInNonceSearch(t *testing.T) {
	k0, err := keys.Generate()
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	build := func() *Transaction {
		tr := &Transaction{Outputs: []Output{{Account: k0.Public(), Amount: 7}}}
		_ = Mine(tr, 1, nil)
		return tr
	}

	a := build()
	b := build()
	if a.Nonce != b.Nonce || a.Hash != b.Hash {
		t.Fatalf("mining the same transaction twice produced different results")
	}
}

func TestValidTransferValidates(t *testing.T) {
	k0, genesis := genesisFixture(t)
	k1, err := keys.Generate()
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}

	transfer := &Transaction{
		ParentHashes: []hashing.Hash{genesis.Hash},
		Inputs:       []Input{{Account: k0.Public(), Amount: 1000}},
		Outputs:      []Output{{Account: k1.Public(), Amount: 1000}},
	}
	if err := Mine(transfer, 1, []keys.KeyPair{k0}); err != nil {
		t.Fatalf("Mine: %v", err)
	}

	if err := transfer.ValidateTransaction(); err != nil {
		t.Fatalf("ValidateTransaction: %v", err)
	}
}

func TestValidateRejectsOverdraft(t *testing.T) {
	k0, genesis := genesisFixture(t)
	k1, _ := keys.Generate()

	overdraft := &Transaction{
		ParentHashes: []hashing.Hash{genesis.Hash},
		Inputs:       []Input{{Account: k0.Public(), Amount: 500}},
		Outputs:      []Output{{Account: k1.Public(), Amount: 2000}},
	}
	if err := Mine(overdraft, 1, []keys.KeyPair{k0}); err != nil {
		t.Fatalf("Mine: %v", err)
	}

	if err := overdraft.ValidateTransactionTotals(); err != ErrInvalidAmounts {
		t.Fatalf("expected ErrInvalidAmounts, got %v", err)
	}
}

func TestValidateRejectsTamperedHash(t *testing.T) {
	_, genesis := genesisFixture(t)
	genesis.Hash[0] ^= 0xff

	if err := genesis.ValidateTransactionMined(); err != ErrInvalidHash {
		t.Fatalf("expected ErrInvalidHash, got %v", err)
	}
}

func TestValidateRejectsBadSignature(t *testing.T) {
	k0, genesis := genesisFixture(t)
	k1, _ := keys.Generate()

	transfer := &Transaction{
		ParentHashes: []hashing.Hash{genesis.Hash},
		Inputs:       []Input{{Account: k0.Public(), Amount: 100}},
		Outputs:      []Output{{Account: k1.Public(), Amount: 100}},
	}
	if err := Mine(transfer, 1, []keys.KeyPair{k0}); err != nil {
		t.Fatalf("Mine: %v", err)
	}

	other, _ := keys.Generate()
	badSig, err := keys.Sign(other, transfer.Hash.Bytes())
	if err != nil {
		t.Fatalf("Sign: %v", err)
	}
	transfer.Inputs[0].Signature = badSig

	if err := transfer.ValidateTransaction(); err != ErrInvalidSignature {
		t.Fatalf("expected ErrInvalidSignature, got %v", err)
	}
}

func TestMineRejectsSignerCountMismatch(t *testing.T) {
	k0, _ := keys.Generate()
	transfer := &Transaction{
		Inputs: []Input{{Account: k0.Public(), Amount: 1}},
	}
	if err := Mine(transfer, 1, nil); err != ErrSignerMismatch {
		t.Fatalf("expected ErrSignerMismatch, got %v", err)
	}
}

func TestCanonicalBytesExcludeSignatures(t *testing.T) {
	k0, genesis := genesisFixture(t)
	k1, _ := keys.Generate()

	transfer := &Transaction{
		ParentHashes: []hashing.Hash{genesis.Hash},
		Inputs:       []Input{{Account: k0.Public(), Amount: 1}},
		Outputs:      []Output{{Account: k1.Public(), Amount: 1}},
	}
	if err := Mine(transfer, 1, []keys.KeyPair{k0}); err != nil {
		t.Fatalf("Mine: %v", err)
	}

	before, err := transfer.CanonicalBytes()
	if err != nil {
		t.Fatalf("CanonicalBytes: %v", err)
	}

	transfer.Inputs[0].Signature = []byte("something else entirely")

	after, err := transfer.CanonicalBytes()
	if err != nil {
		t.Fatalf("CanonicalBytes: %v", err)
	}

	if string(before) != string(after) {
		t.Fatalf("canonical bytes changed when only the signature changed")
	}
}
