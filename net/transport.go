// Package net provides the peer transport this repo exercises the
// synchronization protocol over. Peer discovery and raw-socket
// handshake are treated as an external concern, so this package does
// no discovery, NAT traversal, or signaling — callers dial a peer's
// address directly, and only the framing/RPC-dispatch mechanics live
// here, grounded on babble's src/net/transport.go and net_transport.go.
package net

import "github.com/joshuadahlunr/tangle/wire"

// Transport lets a node exchange messages with a named target address.
// Every call is a synchronous RPC except the three fire-and-forget
// pushes (SyncGenesis, SynchronizationAddTransaction, AddTransaction),
// which are unreliable broadcasts with no response the sender waits on.
type Transport interface {
	// Listen starts accepting inbound connections. It blocks until the
	// transport is closed.
	Listen()

	// Consumer returns the channel inbound RPCs are delivered on.
	Consumer() <-chan RPC

	// LocalAddr returns the address this transport is bound to.
	LocalAddr() string

	// AdvertiseAddr returns the address other peers should dial to
	// reach this transport.
	AdvertiseAddr() string

	PublicKeySync(target string, args *wire.PublicKeySyncRequest, resp *wire.PublicKeySyncResponse) error
	TangleSynchronize(target string, args *wire.TangleSynchronizeRequest, resp *wire.TangleSynchronizeResponse) error
	UpdateWeights(target string, args *wire.UpdateWeightsRequest, resp *wire.UpdateWeightsResponse) error

	SyncGenesis(target string, args *wire.SyncGenesisRequest) error
	SynchronizationAddTransaction(target string, args *wire.SynchronizationAddTransactionRequest) error
	AddTransaction(target string, args *wire.AddTransactionRequest) error

	// Close permanently shuts the transport down, releasing any pooled
	// connections and stopping Listen's accept loop.
	Close() error
}
