package net

// RPCResponse captures both a response and a potential error, the reply
// half of an inbound RPC.
type RPCResponse struct {
	Response interface{}
	Error    error
}

// RPC encapsulates an inbound request and the channel used to respond
// to it. Grounded on babble's src/net/rpc.go, unchanged in shape since
// the request/response envelope doesn't depend on what's inside it.
type RPC struct {
	Command  interface{}
	RespChan chan<- RPCResponse
}

// Respond replies to the RPC with resp, err, or both.
func (r *RPC) Respond(resp interface{}, err error) {
	r.RespChan <- RPCResponse{resp, err}
}
