package network

import (
	"sync/atomic"

	"github.com/sirupsen/logrus"

	"github.com/joshuadahlunr/tangle/concurrency"
	"github.com/joshuadahlunr/tangle/crypto/keys"
	"github.com/joshuadahlunr/tangle/net"
	"github.com/joshuadahlunr/tangle/peers"
	"github.com/joshuadahlunr/tangle/tangle"
)

// NetworkedTangle layers the synchronization protocol on top of a
// plain *tangle.Tangle: it owns the transport, the per-peer
// public key table, the address book, and the orphan queue, and it is
// the thing a node's RPC dispatch loop (NetworkedTangle.Run) calls into.
type NetworkedTangle struct {
	*tangle.Tangle

	transport net.Transport
	identity  keys.KeyPair

	peerKeys *peers.Keys
	peerList *concurrency.RWBox[[]peers.Peer]

	queue *Queue

	listeningForGenesisSync atomic.Bool

	logger *logrus.Entry
}

// New wraps tg with the networked synchronization layer. identity is
// this replica's own account key pair, advertised in response to
// PublicKeySyncRequest.
func New(tg *tangle.Tangle, transport net.Transport, identity keys.KeyPair, logger *logrus.Entry) *NetworkedTangle {
	if logger == nil {
		logger = logrus.NewEntry(logrus.New())
	}
	return &NetworkedTangle{
		Tangle:    tg,
		transport: transport,
		identity:  identity,
		peerKeys:  peers.NewKeys(),
		peerList:  concurrency.NewRWBox[[]peers.Peer](nil),
		queue:     NewQueue(),
		logger:    logger,
	}
}

// AddPeer registers a peer this replica knows how to dial, e.g. after an
// external handshake over the out-of-scope discovery mechanism
// establishes the address.
func (nt *NetworkedTangle) AddPeer(p peers.Peer) {
	nt.peerList.Write(func(value *[]peers.Peer) error {
		*value = append(*value, p)
		return nil
	})
}

// Peers returns a snapshot of the known peer list.
func (nt *NetworkedTangle) Peers() []peers.Peer {
	return nt.peerList.Get()
}

// PeerKeys exposes the peer-id → public-key table, for callers that need
// to resolve an account hash back to a peer (e.g. InvalidAccount
// diagnostics).
func (nt *NetworkedTangle) PeerKeys() *peers.Keys {
	return nt.peerKeys
}

// QueueLen reports how many transactions are currently buffered as
// orphans.
func (nt *NetworkedTangle) QueueLen() int {
	return nt.queue.Len()
}

