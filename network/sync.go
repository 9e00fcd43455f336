package network

import (
	"github.com/joshuadahlunr/tangle/tangle"
	"github.com/joshuadahlunr/tangle/wire"
)

// RequestSynchronize issues a TangleSynchronizeRequest to peerAddr,
// first marking this replica as listening for a genesis sync — the
// sender must enter that state before emitting the request, not after,
// otherwise a fast-responding peer's SyncGenesisRequest could arrive
// and be dropped as unsolicited.
func (nt *NetworkedTangle) RequestSynchronize(peerAddr string) error {
	nt.listeningForGenesisSync.Store(true)

	req := &wire.TangleSynchronizeRequest{ReplyTo: nt.transport.AdvertiseAddr()}
	var resp wire.TangleSynchronizeResponse
	return nt.transport.TangleSynchronize(peerAddr, req, &resp)
}

// HandleTangleSynchronize processes an inbound TangleSynchronizeRequest
// by streaming this replica's entire DAG back to msg.ReplyTo: a
// SyncGenesisRequest for the genesis, followed by a
// SynchronizationAddTransactionRequest for every descendant, in an
// order where every transaction's parents are pushed before it.
func (nt *NetworkedTangle) HandleTangleSynchronize(msg wire.TangleSynchronizeRequest) error {
	genesis := nt.Tangle.Genesis()
	if genesis == nil {
		return nil
	}

	genesisWire, err := toWireTransaction(genesis)
	if err != nil {
		return err
	}
	if err := nt.transport.SyncGenesis(msg.ReplyTo, &wire.SyncGenesisRequest{
		ValidityHash: genesis.Hash.String(),
		Genesis:      genesisWire,
	}); err != nil {
		return err
	}

	for _, node := range nt.Tangle.PreOrder() {
		wireTx, err := toWireTransaction(node)
		if err != nil {
			return err
		}
		if err := nt.transport.SynchronizationAddTransaction(msg.ReplyTo, &wire.SynchronizationAddTransactionRequest{
			ValidityHash: node.Hash.String(),
			Transaction:  wireTx,
		}); err != nil {
			return err
		}
	}

	return nil
}

func toWireTransaction(node *tangle.TransactionNode) (wire.Transaction, error) {
	return wire.FromTransaction(node.Transaction)
}
