package net

import (
	"fmt"
	"reflect"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/joshuadahlunr/tangle/wire"
)

// NewInmemAddr returns a randomly generated address suitable for use
// with InmemTransport, grounded on babble's net.NewInmemAddr.
func NewInmemAddr() string {
	return uuid.NewString()
}

// InmemTransport implements Transport by routing RPCs directly between
// in-process peers, skipping sockets and codecs entirely. It exists so
// package node (and anything above it) can exercise the synchronization
// protocol in tests without binding real ports, grounded on babble's
// net.InmemTransport.
type InmemTransport struct {
	mu         sync.RWMutex
	consumeCh  chan RPC
	localAddr  string
	peers      map[string]*InmemTransport
	timeout    time.Duration
	shutdownCh chan struct{}
}

// NewInmemTransport creates an InmemTransport bound to addr, generating
// a random address if addr is empty.
func NewInmemTransport(addr string) (string, *InmemTransport) {
	if addr == "" {
		addr = NewInmemAddr()
	}
	return addr, &InmemTransport{
		consumeCh:  make(chan RPC, 16),
		localAddr:  addr,
		peers:      make(map[string]*InmemTransport),
		timeout:    100 * time.Millisecond,
		shutdownCh: make(chan struct{}),
	}
}

// Connect registers other under peerAddr so RPC calls from this
// transport targeting peerAddr are routed to it. Connections are
// one-directional; call Connect on both sides for a bidirectional link.
func (i *InmemTransport) Connect(peerAddr string, other *InmemTransport) {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.peers[peerAddr] = other
}

// Listen implements Transport; in-memory routing needs no accept loop.
func (i *InmemTransport) Listen() {}

// Consumer implements Transport.
func (i *InmemTransport) Consumer() <-chan RPC { return i.consumeCh }

// LocalAddr implements Transport.
func (i *InmemTransport) LocalAddr() string { return i.localAddr }

// AdvertiseAddr implements Transport.
func (i *InmemTransport) AdvertiseAddr() string { return i.localAddr }

// Close implements Transport.
func (i *InmemTransport) Close() error {
	i.mu.Lock()
	defer i.mu.Unlock()
	select {
	case <-i.shutdownCh:
	default:
		close(i.shutdownCh)
	}
	i.peers = make(map[string]*InmemTransport)
	return nil
}

func (i *InmemTransport) twoWay(target string, args, resp interface{}) error {
	peer, ok := i.lookup(target)
	if !ok {
		return fmt.Errorf("net: no route to %s", target)
	}

	respCh := make(chan RPCResponse, 1)
	rpc := RPC{Command: args, RespChan: respCh}

	select {
	case peer.consumeCh <- rpc:
	case <-peer.shutdownCh:
		return ErrTransportShutdown
	}

	select {
	case rpcResp := <-respCh:
		if rpcResp.Error != nil {
			return rpcResp.Error
		}
		return copyResponse(resp, rpcResp.Response)
	case <-time.After(i.timeout):
		return fmt.Errorf("net: rpc to %s timed out", target)
	}
}

func (i *InmemTransport) oneWay(target string, args interface{}) error {
	peer, ok := i.lookup(target)
	if !ok {
		return fmt.Errorf("net: no route to %s", target)
	}

	respCh := make(chan RPCResponse, 1)
	rpc := RPC{Command: args, RespChan: respCh}

	select {
	case peer.consumeCh <- rpc:
	case <-peer.shutdownCh:
		return ErrTransportShutdown
	}

	go func() { <-respCh }()
	return nil
}

func (i *InmemTransport) lookup(target string) (*InmemTransport, bool) {
	i.mu.RLock()
	defer i.mu.RUnlock()
	peer, ok := i.peers[target]
	return peer, ok
}

// copyResponse assigns *src onto *dst by value, so the in-memory path
// matches the value-copy semantics a real wire transport would give a
// caller (the caller's resp pointer never aliases the handler's return
// value, since a real transport would have round-tripped it through the
// wire encoding in between).
func copyResponse(dst, src interface{}) error {
	if src == nil {
		return nil
	}
	dstVal := reflect.ValueOf(dst).Elem()
	srcVal := reflect.ValueOf(src)
	if srcVal.Kind() == reflect.Ptr {
		srcVal = srcVal.Elem()
	}
	dstVal.Set(srcVal)
	return nil
}

// PublicKeySync implements Transport.
func (i *InmemTransport) PublicKeySync(target string, args *wire.PublicKeySyncRequest, resp *wire.PublicKeySyncResponse) error {
	return i.twoWay(target, args, resp)
}

// TangleSynchronize implements Transport.
func (i *InmemTransport) TangleSynchronize(target string, args *wire.TangleSynchronizeRequest, resp *wire.TangleSynchronizeResponse) error {
	return i.twoWay(target, args, resp)
}

// UpdateWeights implements Transport.
func (i *InmemTransport) UpdateWeights(target string, args *wire.UpdateWeightsRequest, resp *wire.UpdateWeightsResponse) error {
	return i.twoWay(target, args, resp)
}

// SyncGenesis implements Transport.
func (i *InmemTransport) SyncGenesis(target string, args *wire.SyncGenesisRequest) error {
	return i.oneWay(target, args)
}

// SynchronizationAddTransaction implements Transport.
func (i *InmemTransport) SynchronizationAddTransaction(target string, args *wire.SynchronizationAddTransactionRequest) error {
	return i.oneWay(target, args)
}

// AddTransaction implements Transport.
func (i *InmemTransport) AddTransaction(target string, args *wire.AddTransactionRequest) error {
	return i.oneWay(target, args)
}
