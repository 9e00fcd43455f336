package network

import (
	"context"

	"github.com/joshuadahlunr/tangle/net"
	"github.com/joshuadahlunr/tangle/wire"
)

// Run reads inbound RPCs from the transport's consumer channel and
// dispatches each to the matching handler until ctx is canceled. It is
// the network I/O thread of this replica's concurrency model, reduced
// to a single dispatch loop since every handler here either returns
// quickly or (for AddTransaction/SynchronizationAddTransaction) does no
// more work than a single tangle insertion plus queue drain.
func (nt *NetworkedTangle) Run(ctx context.Context) {
	consumer := nt.transport.Consumer()
	for {
		select {
		case rpc := <-consumer:
			nt.dispatch(rpc)
		case <-ctx.Done():
			return
		}
	}
}

func (nt *NetworkedTangle) dispatch(rpc net.RPC) {
	switch cmd := rpc.Command.(type) {
	case *wire.PublicKeySyncRequest:
		resp, err := nt.HandlePublicKeySync()
		rpc.Respond(resp, err)

	case *wire.TangleSynchronizeRequest:
		err := nt.HandleTangleSynchronize(*cmd)
		rpc.Respond(wire.TangleSynchronizeResponse{}, err)

	case *wire.UpdateWeightsRequest:
		nt.HandleUpdateWeights()
		rpc.Respond(wire.UpdateWeightsResponse{}, nil)

	case *wire.SyncGenesisRequest:
		err := nt.HandleSyncGenesis(*cmd)
		if err != nil {
			nt.logger.WithField("error", err).Warn("sync genesis rejected")
		}
		rpc.Respond(nil, err)

	case *wire.SynchronizationAddTransactionRequest:
		err := nt.HandleSynchronizationAddTransaction(*cmd)
		if err != nil {
			nt.logger.WithField("error", err).Warn("synchronization add transaction rejected")
		}
		rpc.Respond(nil, err)

	case *wire.AddTransactionRequest:
		err := nt.HandleAddTransaction(*cmd)
		if err != nil {
			nt.logger.WithField("error", err).Warn("add transaction rejected")
		}
		rpc.Respond(nil, err)

	default:
		rpc.Respond(nil, nil)
	}
}
