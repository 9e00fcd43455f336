package network

import (
	"github.com/joshuadahlunr/tangle/hashing"
	"github.com/joshuadahlunr/tangle/tangle"
	"github.com/joshuadahlunr/tangle/tx"
	"github.com/joshuadahlunr/tangle/wire"
)

// HandleAddTransaction processes an inbound AddTransactionRequest: a
// live, non-replay broadcast of a single transaction, subject to the
// ordinary balance check.
func (nt *NetworkedTangle) HandleAddTransaction(msg wire.AddTransactionRequest) error {
	return nt.handleIncoming(msg.ValidityHash, msg.Transaction, false)
}

// HandleSynchronizationAddTransaction processes an inbound
// SynchronizationAddTransactionRequest: one entry of an initial DAG
// stream, replayed without balance enforcement.
func (nt *NetworkedTangle) HandleSynchronizationAddTransaction(msg wire.SynchronizationAddTransactionRequest) error {
	return nt.handleIncoming(msg.ValidityHash, msg.Transaction, true)
}

// handleIncoming implements the orphan-handling procedure: verify the
// validity hash, then either insert (following up with a single queue
// drain) or buffer as an orphan if a parent is missing.
func (nt *NetworkedTangle) handleIncoming(validityHashHex string, wireTx wire.Transaction, relaxed bool) error {
	t, err := wireTx.ToTransaction()
	if err != nil {
		return err
	}

	validityHash, err := hashing.FromHex(validityHashHex)
	if err != nil || validityHash != t.Hash {
		return ErrInvalidHash
	}

	return nt.insertOrQueue(t, relaxed)
}

// insertOrQueue attempts to insert t. A NodeNotFound failure (a missing
// parent) is not surfaced as an error: t is buffered in the orphan
// queue instead, converting to an orphan rather than an error surfaced
// to the caller. A successful insertion triggers one drain pass over
// the queue, since t resolving may have unblocked other buffered
// orphans.
func (nt *NetworkedTangle) insertOrQueue(t tx.Transaction, relaxed bool) error {
	var err error
	if relaxed {
		_, err = nt.Tangle.AddTransactionReplay(t)
	} else {
		_, err = nt.Tangle.AddTransaction(t)
	}

	if err != nil {
		if tangleErr, ok := err.(*tangle.Error); ok && tangleErr.Code == tangle.NodeNotFound {
			nt.queue.push(t, relaxed)
			return nil
		}
		return err
	}

	nt.queue.drainOnce(func(queued tx.Transaction, queuedRelaxed bool) error {
		var err error
		if queuedRelaxed {
			_, err = nt.Tangle.AddTransactionReplay(queued)
		} else {
			_, err = nt.Tangle.AddTransaction(queued)
		}
		return err
	})

	return nil
}

// HandleSyncGenesis processes an inbound SyncGenesisRequest. The
// validity hash is checked unconditionally first; everything after that
// is a silent no-op rather than a reported failure, since neither "the
// genesis already matches" nor "we never asked for a new genesis" is a
// protocol violation by the sender.
func (nt *NetworkedTangle) HandleSyncGenesis(msg wire.SyncGenesisRequest) error {
	genesisTx, err := msg.Genesis.ToTransaction()
	if err != nil {
		return err
	}

	validityHash, err := hashing.FromHex(msg.ValidityHash)
	if err != nil || validityHash != genesisTx.Hash {
		return ErrInvalidHash
	}

	if current := nt.Tangle.Genesis(); current != nil && current.Hash == genesisTx.Hash {
		return nil
	}

	if !nt.listeningForGenesisSync.Load() {
		return nil
	}

	if err := nt.Tangle.SetGenesis(genesisTx); err != nil {
		return err
	}

	nt.listeningForGenesisSync.Store(false)
	return nil
}

// HandleUpdateWeights processes an inbound UpdateWeightsRequest by
// recomputing cumulative weights across the whole DAG.
func (nt *NetworkedTangle) HandleUpdateWeights() {
	nt.Tangle.RecomputeAllWeights()
}

// HandlePublicKeySync answers an inbound PublicKeySyncRequest with this
// replica's own account public key.
func (nt *NetworkedTangle) HandlePublicKeySync() (wire.PublicKeySyncResponse, error) {
	der, err := nt.identity.Public().Encode()
	if err != nil {
		return wire.PublicKeySyncResponse{}, err
	}
	return wire.PublicKeySyncResponse{PublicKey: der}, nil
}
