package net

import (
	"net"
	"time"
)

// StreamLayer abstracts the raw connection mechanics TCPTransport
// needs, so the framing/RPC logic doesn't care whether the underlying
// transport is TCP, TLS, or something else. Grounded on babble's
// src/net/stream_layer.go.
type StreamLayer interface {
	net.Listener

	Dial(address string, timeout time.Duration) (net.Conn, error)
	AdvertiseAddr() string
}

// TCPStreamLayer is the plain-TCP StreamLayer this repo ships as its one
// reference transport. Grounded directly on babble's
// src/net/tcp_stream_layer.go.
type TCPStreamLayer struct {
	advertise string
	listener  *net.TCPListener
}

// NewTCPStreamLayer binds a TCP listener at bindAddr. advertise, if
// non-empty, overrides the address reported to peers (useful behind a
// NAT or port-forward where the bind address isn't reachable directly).
func NewTCPStreamLayer(bindAddr, advertise string) (*TCPStreamLayer, error) {
	addr, err := net.ResolveTCPAddr("tcp", bindAddr)
	if err != nil {
		return nil, err
	}
	listener, err := net.ListenTCP("tcp", addr)
	if err != nil {
		return nil, err
	}
	return &TCPStreamLayer{advertise: advertise, listener: listener}, nil
}

// Dial implements StreamLayer.
func (t *TCPStreamLayer) Dial(address string, timeout time.Duration) (net.Conn, error) {
	return net.DialTimeout("tcp", address, timeout)
}

// Accept implements net.Listener.
func (t *TCPStreamLayer) Accept() (net.Conn, error) {
	return t.listener.Accept()
}

// Close implements net.Listener.
func (t *TCPStreamLayer) Close() error {
	return t.listener.Close()
}

// Addr implements net.Listener.
func (t *TCPStreamLayer) Addr() net.Addr {
	return t.listener.Addr()
}

// AdvertiseAddr implements StreamLayer.
func (t *TCPStreamLayer) AdvertiseAddr() string {
	if t.advertise != "" {
		return t.advertise
	}
	return t.listener.Addr().String()
}
