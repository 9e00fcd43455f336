// Package node wires a *tangle.Tangle, its network.NetworkedTangle
// synchronization layer, and a net.Transport into a single runnable
// replica, grounded on babble's src/node/node.go but using
// context.Context and sync.WaitGroup in place of babble's global
// sigintCh/shutdownCh pair and detached goroutines.
package node

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/joshuadahlunr/tangle/crypto/keys"
	"github.com/joshuadahlunr/tangle/hashing"
	"github.com/joshuadahlunr/tangle/net"
	"github.com/joshuadahlunr/tangle/network"
	"github.com/joshuadahlunr/tangle/tangle"
	"github.com/joshuadahlunr/tangle/tx"
	"github.com/joshuadahlunr/tangle/wire"
)

// Config holds the tunables a Node needs at construction time. It plays
// the role of babble's node.Config, trimmed to what this repo's
// protocol actually uses.
type Config struct {
	// HeartbeatTimeout is the interval between gossip rounds: each round
	// re-requests synchronization and pushes a weight-update notice to
	// every known peer.
	HeartbeatTimeout time.Duration

	// BootstrapPeers lists peer addresses to introduce this replica to
	// on Init, each driven through network.NetworkedTangle.Bootstrap.
	BootstrapPeers []string
}

// DefaultConfig mirrors babble's node.DefaultConfig default values,
// adapted to this repo's single heartbeat timer.
func DefaultConfig() Config {
	return Config{HeartbeatTimeout: 10 * time.Second}
}

// Node is a single running replica: a tangle, its networked
// synchronization wrapper, and the transport both ride on.
type Node struct {
	conf   Config
	logger *logrus.Entry

	tangle    *tangle.Tangle
	networked *network.NetworkedTangle
	transport net.Transport
	identity  keys.KeyPair

	submitCh chan submission

	wg sync.WaitGroup
}

type submission struct {
	txn    tx.Transaction
	result chan submitResult
}

type submitResult struct {
	hash hashing.Hash
	err  error
}

// New constructs a Node around an already-bootstrapped genesis tangle,
// a transport, and this replica's own signing identity.
func New(conf Config, genesis tx.Transaction, transport net.Transport, identity keys.KeyPair, logger *logrus.Entry) (*Node, error) {
	if logger == nil {
		logger = logrus.NewEntry(logrus.New())
	}

	tg, err := tangle.NewTangle(genesis, tangle.WithLogger(logger), tangle.WithWeightUpdates(true))
	if err != nil {
		return nil, err
	}

	nt := network.New(tg, transport, identity, logger)

	return &Node{
		conf:      conf,
		logger:    logger,
		tangle:    tg,
		networked: nt,
		transport: transport,
		identity:  identity,
		submitCh:  make(chan submission),
	}, nil
}

// Tangle exposes the underlying DAG for read-only callers (balance
// queries, diagnostics, CLI reporting).
func (n *Node) Tangle() *tangle.Tangle { return n.tangle }

// Networked exposes the synchronization layer, for callers that need to
// add peers or author transactions on it directly.
func (n *Node) Networked() *network.NetworkedTangle { return n.networked }

// Init bootstraps against every address in conf.BootstrapPeers in turn,
// grounded on babble's Node.Init/babbleOrCatchUp: a freshly started
// replica always tries to catch up before it starts gossiping on its
// own. A failed bootstrap against one peer is logged and does not
// prevent trying the rest.
func (n *Node) Init() error {
	for _, addr := range n.conf.BootstrapPeers {
		if err := n.networked.Bootstrap(uuid.New(), addr); err != nil {
			n.logger.WithField("peer", addr).WithField("error", err).Warn("bootstrap failed")
		}
	}
	return nil
}

// Run starts the transport listener, the RPC dispatch loop, the weight
// recomputation worker, the submission loop, and the heartbeat gossip
// loop, and blocks until ctx is canceled. Callers that want to continue
// past Run returning should call Wait first to be sure every background
// goroutine has actually exited.
func (n *Node) Run(ctx context.Context) {
	n.wg.Add(1)
	go func() {
		defer n.wg.Done()
		n.transport.Listen()
	}()

	n.wg.Add(1)
	go func() {
		defer n.wg.Done()
		n.networked.Run(ctx)
	}()

	n.wg.Add(1)
	go func() {
		defer n.wg.Done()
		n.tangle.RunWeightWorker(ctx)
	}()

	n.wg.Add(1)
	go func() {
		defer n.wg.Done()
		n.submitLoop(ctx)
	}()

	n.wg.Add(1)
	go func() {
		defer n.wg.Done()
		n.heartbeatLoop(ctx)
	}()

	<-ctx.Done()
}

// Wait blocks until every goroutine started by Run has exited.
func (n *Node) Wait() {
	n.wg.Wait()
}

// Shutdown closes the transport, which unblocks the Listen accept loop;
// callers should cancel the context passed to Run and then call
// Shutdown followed by Wait.
func (n *Node) Shutdown() error {
	return n.transport.Close()
}

// submitLoop serializes locally authored transactions through
// AddLocalTransaction, so submission and inbound RPC dispatch never
// race on the same tangle mutation path from two different goroutines
// without a result channel to report back on.
func (n *Node) submitLoop(ctx context.Context) {
	for {
		select {
		case s := <-n.submitCh:
			hash, err := n.networked.AddLocalTransaction(s.txn)
			s.result <- submitResult{hash: hash, err: err}
		case <-ctx.Done():
			return
		}
	}
}

// Submit hands t to the submission loop and blocks for the result. It
// is the entry point for authoring a new transaction on a running node.
func (n *Node) Submit(t tx.Transaction) (hashing.Hash, error) {
	result := make(chan submitResult, 1)
	n.submitCh <- submission{txn: t, result: result}
	r := <-result
	return r.hash, r.err
}

// heartbeatLoop periodically re-synchronizes with every known peer and
// pushes a weight-update notice, grounded on babble's ControlTimer-
// driven gossip round but reduced to a plain ticker since this repo
// has no "nothing to gossip about" slow-timeout state.
func (n *Node) heartbeatLoop(ctx context.Context) {
	ticker := time.NewTicker(n.conf.HeartbeatTimeout)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			n.gossipRound()
		case <-ctx.Done():
			return
		}
	}
}

func (n *Node) gossipRound() {
	for _, peer := range n.networked.Peers() {
		if err := n.networked.RequestSynchronize(peer.Address); err != nil {
			n.logger.WithField("peer", peer.Address).WithField("error", err).Debug("gossip synchronize failed")
		}

		var resp wire.UpdateWeightsResponse
		if err := n.transport.UpdateWeights(peer.Address, &wire.UpdateWeightsRequest{}, &resp); err != nil {
			n.logger.WithField("peer", peer.Address).WithField("error", err).Debug("gossip weight update failed")
		}
	}
}
