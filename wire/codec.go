package wire

import (
	"bytes"

	"github.com/ugorji/go/codec"
)

// handle returns the msgpack handle every Marshal/Unmarshal in this
// package encodes with. Canonical mode sorts map keys during encoding,
// grounded on babble's own use of codec.JsonHandle with Canonical = true
// in hashgraph.Frame.Marshal — this repo uses the same library's
// MsgpackHandle instead of JsonHandle to get length-prefixed binary
// framing.
func handle() *codec.MsgpackHandle {
	h := new(codec.MsgpackHandle)
	h.Canonical = true
	return h
}

func marshal(v interface{}) ([]byte, error) {
	var buf bytes.Buffer
	enc := codec.NewEncoder(&buf, handle())
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func unmarshal(data []byte, v interface{}) error {
	dec := codec.NewDecoder(bytes.NewReader(data), handle())
	return dec.Decode(v)
}
