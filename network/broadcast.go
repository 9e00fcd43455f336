package network

import (
	"github.com/joshuadahlunr/tangle/hashing"
	"github.com/joshuadahlunr/tangle/tx"
	"github.com/joshuadahlunr/tangle/wire"
)

// AddLocalTransaction inserts a locally authored transaction into the
// base tangle and, on success, broadcasts an AddTransactionRequest to
// every known peer. This is the entry point an operator (or this repo's
// cmd/tangle) uses to author new transactions; it is distinct from the
// inbound path (HandleAddTransaction) specifically so a transaction
// received over the network is never re-broadcast back out by the base
// Tangle.AddTransaction it calls into.
func (nt *NetworkedTangle) AddLocalTransaction(t tx.Transaction) (hashing.Hash, error) {
	h, err := nt.Tangle.AddTransaction(t)
	if err != nil {
		return h, err
	}

	nt.broadcast(t)

	return h, nil
}

// broadcast sends t to every known peer, fire-and-forget. Broadcast is
// unreliable: a failed send is logged and otherwise ignored, since
// convergence relies on future TangleSynchronizeRequest calls or
// re-broadcasts rather than delivery guarantees here.
func (nt *NetworkedTangle) broadcast(t tx.Transaction) {
	wireTx, err := wire.FromTransaction(t)
	if err != nil {
		nt.logger.WithField("error", err).Error("failed to encode transaction for broadcast")
		return
	}

	req := &wire.AddTransactionRequest{
		ValidityHash: t.Hash.String(),
		Transaction:  wireTx,
	}

	for _, peer := range nt.Peers() {
		if err := nt.transport.AddTransaction(peer.Address, req); err != nil {
			nt.logger.WithField("peer", peer.Address).WithField("error", err).Warn("broadcast failed")
		}
	}
}
