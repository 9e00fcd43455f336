package net

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"math"
	"net"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/ugorji/go/codec"

	"github.com/joshuadahlunr/tangle/wire"
)

/*
TCPTransport moves messages between two replicas. Each RPC request is
framed by a single byte identifying the message type, followed by an
ugorji/go/codec msgpack encoding of the payload; two-way calls
additionally get an error string and a response object encoded the
same way, back from the recipient. Fire-and-forget pushes skip the
response leg entirely.

Grounded directly on babble's src/net/net_transport.go, which itself
credits hashicorp/raft for the original shape; the type tags and
payload types are this repo's own.
*/

const (
	rpcPublicKeySync uint8 = iota
	rpcTangleSynchronize
	rpcUpdateWeights
	rpcSyncGenesis
	rpcSynchronizationAddTransaction
	rpcAddTransaction
)

const bufSize = math.MaxUint16

// ErrTransportShutdown is returned by operations performed after Close.
var ErrTransportShutdown = errors.New("net: transport shutdown")

// TCPTransport is the reference Transport implementation.
type TCPTransport struct {
	logger *logrus.Entry

	connPool     map[string][]*netConn
	connPoolLock sync.Mutex
	maxPool      int

	consumeCh chan RPC

	shutdown     bool
	shutdownCh   chan struct{}
	shutdownLock sync.Mutex

	stream StreamLayer

	timeout time.Duration
}

type netConn struct {
	target string
	conn   net.Conn
	r      *bufio.Reader
	w      *bufio.Writer
	dec    *codec.Decoder
	enc    *codec.Encoder
}

func (c *netConn) Release() error { return c.conn.Close() }

func handle() *codec.MsgpackHandle {
	h := new(codec.MsgpackHandle)
	h.Canonical = true
	return h
}

// NewTCPTransport wraps stream in a TCPTransport. maxPool bounds the
// number of pooled connections kept per target; timeout applies to both
// dialing and per-RPC I/O deadlines.
func NewTCPTransport(stream StreamLayer, maxPool int, timeout time.Duration, logger *logrus.Entry) *TCPTransport {
	if logger == nil {
		logger = logrus.NewEntry(logrus.New())
	}
	return &TCPTransport{
		connPool:   make(map[string][]*netConn),
		consumeCh:  make(chan RPC),
		logger:     logger,
		maxPool:    maxPool,
		shutdownCh: make(chan struct{}),
		stream:     stream,
		timeout:    timeout,
	}
}

// Close implements Transport.
func (t *TCPTransport) Close() error {
	t.shutdownLock.Lock()
	defer t.shutdownLock.Unlock()

	if !t.shutdown {
		close(t.shutdownCh)
		t.stream.Close()
		t.shutdown = true
	}
	return nil
}

// Consumer implements Transport.
func (t *TCPTransport) Consumer() <-chan RPC { return t.consumeCh }

// LocalAddr implements Transport.
func (t *TCPTransport) LocalAddr() string {
	if addr := t.stream.Addr(); addr != nil {
		return addr.String()
	}
	return ""
}

// AdvertiseAddr implements Transport.
func (t *TCPTransport) AdvertiseAddr() string { return t.stream.AdvertiseAddr() }

func (t *TCPTransport) isShutdown() bool {
	select {
	case <-t.shutdownCh:
		return true
	default:
		return false
	}
}

func (t *TCPTransport) getPooledConn(target string) *netConn {
	t.connPoolLock.Lock()
	defer t.connPoolLock.Unlock()

	conns, ok := t.connPool[target]
	if !ok || len(conns) == 0 {
		return nil
	}
	num := len(conns)
	conn := conns[num-1]
	conns[num-1] = nil
	t.connPool[target] = conns[:num-1]
	return conn
}

func (t *TCPTransport) getConn(target string) (*netConn, error) {
	if conn := t.getPooledConn(target); conn != nil {
		return conn, nil
	}

	conn, err := t.stream.Dial(target, t.timeout)
	if err != nil {
		return nil, err
	}

	nc := &netConn{
		target: target,
		conn:   conn,
		r:      bufio.NewReaderSize(conn, bufSize),
		w:      bufio.NewWriterSize(conn, bufSize),
	}
	nc.dec = codec.NewDecoder(nc.r, handle())
	nc.enc = codec.NewEncoder(nc.w, handle())
	return nc, nil
}

func (t *TCPTransport) returnConn(conn *netConn) {
	t.connPoolLock.Lock()
	defer t.connPoolLock.Unlock()

	conns := t.connPool[conn.target]
	if !t.isShutdown() && len(conns) < t.maxPool {
		t.connPool[conn.target] = append(conns, conn)
	} else {
		conn.Release()
	}
}

// PublicKeySync implements Transport.
func (t *TCPTransport) PublicKeySync(target string, args *wire.PublicKeySyncRequest, resp *wire.PublicKeySyncResponse) error {
	return t.genericRPC(target, rpcPublicKeySync, args, resp)
}

// TangleSynchronize implements Transport.
func (t *TCPTransport) TangleSynchronize(target string, args *wire.TangleSynchronizeRequest, resp *wire.TangleSynchronizeResponse) error {
	return t.genericRPC(target, rpcTangleSynchronize, args, resp)
}

// UpdateWeights implements Transport.
func (t *TCPTransport) UpdateWeights(target string, args *wire.UpdateWeightsRequest, resp *wire.UpdateWeightsResponse) error {
	return t.genericRPC(target, rpcUpdateWeights, args, resp)
}

// SyncGenesis implements Transport as a fire-and-forget push.
func (t *TCPTransport) SyncGenesis(target string, args *wire.SyncGenesisRequest) error {
	return t.push(target, rpcSyncGenesis, args)
}

// SynchronizationAddTransaction implements Transport as a fire-and-forget push.
func (t *TCPTransport) SynchronizationAddTransaction(target string, args *wire.SynchronizationAddTransactionRequest) error {
	return t.push(target, rpcSynchronizationAddTransaction, args)
}

// AddTransaction implements Transport as a fire-and-forget push.
func (t *TCPTransport) AddTransaction(target string, args *wire.AddTransactionRequest) error {
	return t.push(target, rpcAddTransaction, args)
}

// genericRPC sends a framed request and waits for the framed response.
func (t *TCPTransport) genericRPC(target string, rpcType uint8, args, resp interface{}) error {
	conn, err := t.getConn(target)
	if err != nil {
		return err
	}

	if t.timeout > 0 {
		conn.conn.SetDeadline(time.Now().Add(t.timeout))
	}

	if err := sendFrame(conn, rpcType, args); err != nil {
		return err
	}

	canReturn, err := decodeResponse(conn, resp)
	if canReturn {
		t.returnConn(conn)
	}
	return err
}

// push sends a framed request and releases the connection without
// waiting for any response, for the unreliable fire-and-forget
// messages.
func (t *TCPTransport) push(target string, rpcType uint8, args interface{}) error {
	conn, err := t.getConn(target)
	if err != nil {
		return err
	}
	if t.timeout > 0 {
		conn.conn.SetDeadline(time.Now().Add(t.timeout))
	}
	if err := sendFrame(conn, rpcType, args); err != nil {
		return err
	}
	t.returnConn(conn)
	return nil
}

func sendFrame(conn *netConn, rpcType uint8, args interface{}) error {
	if err := conn.w.WriteByte(rpcType); err != nil {
		conn.Release()
		return err
	}
	if err := conn.enc.Encode(args); err != nil {
		conn.Release()
		return err
	}
	if err := conn.w.Flush(); err != nil {
		conn.Release()
		return err
	}
	return nil
}

func decodeResponse(conn *netConn, resp interface{}) (bool, error) {
	var rpcError string
	if err := conn.dec.Decode(&rpcError); err != nil {
		conn.Release()
		return false, err
	}
	if err := conn.dec.Decode(resp); err != nil {
		conn.Release()
		return false, err
	}
	if rpcError != "" {
		return true, fmt.Errorf(rpcError)
	}
	return true, nil
}

// Listen implements Transport.
func (t *TCPTransport) Listen() {
	for {
		conn, err := t.stream.Accept()
		if err != nil {
			if t.isShutdown() {
				return
			}
			t.logger.WithField("error", err).Error("failed to accept connection")
			continue
		}
		go t.handleConn(conn)
	}
}

func (t *TCPTransport) handleConn(conn net.Conn) {
	defer conn.Close()
	r := bufio.NewReaderSize(conn, bufSize)
	w := bufio.NewWriterSize(conn, bufSize)
	dec := codec.NewDecoder(r, handle())
	enc := codec.NewEncoder(w, handle())

	for {
		if err := t.handleCommand(r, dec, enc); err != nil {
			if err != ErrTransportShutdown && err != io.EOF {
				t.logger.WithField("error", err).Error("failed to decode incoming command")
			}
			return
		}
		if err := w.Flush(); err != nil {
			t.logger.WithField("error", err).Error("failed to flush response")
			return
		}
	}
}

// handleCommand decodes and dispatches a single framed command. Pushes
// (SyncGenesis, SynchronizationAddTransaction, AddTransaction) are
// dispatched but never write a response frame back, matching the
// sender's push(), which never reads one.
func (t *TCPTransport) handleCommand(r *bufio.Reader, dec *codec.Decoder, enc *codec.Encoder) error {
	rpcType, err := r.ReadByte()
	if err != nil {
		return err
	}

	isPush := rpcType == rpcSyncGenesis || rpcType == rpcSynchronizationAddTransaction || rpcType == rpcAddTransaction

	respCh := make(chan RPCResponse, 1)
	rpc := RPC{RespChan: respCh}

	switch rpcType {
	case rpcPublicKeySync:
		var req wire.PublicKeySyncRequest
		if err := dec.Decode(&req); err != nil {
			return err
		}
		rpc.Command = &req
	case rpcTangleSynchronize:
		var req wire.TangleSynchronizeRequest
		if err := dec.Decode(&req); err != nil {
			return err
		}
		rpc.Command = &req
	case rpcUpdateWeights:
		var req wire.UpdateWeightsRequest
		if err := dec.Decode(&req); err != nil {
			return err
		}
		rpc.Command = &req
	case rpcSyncGenesis:
		var req wire.SyncGenesisRequest
		if err := dec.Decode(&req); err != nil {
			return err
		}
		rpc.Command = &req
	case rpcSynchronizationAddTransaction:
		var req wire.SynchronizationAddTransactionRequest
		if err := dec.Decode(&req); err != nil {
			return err
		}
		rpc.Command = &req
	case rpcAddTransaction:
		var req wire.AddTransactionRequest
		if err := dec.Decode(&req); err != nil {
			return err
		}
		rpc.Command = &req
	default:
		return fmt.Errorf("net: unknown rpc type %d", rpcType)
	}

	select {
	case t.consumeCh <- rpc:
	case <-t.shutdownCh:
		return ErrTransportShutdown
	}

	if isPush {
		// Drain the handler's response off-band so a slow consumer
		// can't leak a goroutine, but never write it to the wire.
		go func() { <-respCh }()
		return nil
	}

	select {
	case resp := <-respCh:
		respErr := ""
		if resp.Error != nil {
			respErr = resp.Error.Error()
		}
		if err := enc.Encode(respErr); err != nil {
			return err
		}
		if err := enc.Encode(resp.Response); err != nil {
			return err
		}
	case <-t.shutdownCh:
		return ErrTransportShutdown
	}

	return nil
}
