// Package snapshot persists and restores a tangle as a pre-order byte
// stream: identical in shape to the synchronize stream (genesis, then
// every descendant, parents always before children), just written to a
// sink instead of pushed over the wire. Two concrete sinks are
// provided: a plain file (Save/Load) and an optional dgraph-io/badger
// key-value store (BadgerSink), grounded on babble's own choice to
// offer both an in-memory/file-backed store and a BadgerStore for
// longer-lived embedding.
package snapshot

import (
	"encoding/binary"
	"io"

	"github.com/joshuadahlunr/tangle/tangle"
	"github.com/joshuadahlunr/tangle/tx"
	"github.com/joshuadahlunr/tangle/wire"
)

// Save writes tg's genesis, followed by every descendant in pre-order,
// to w. Each record is a 4-byte little-endian length prefix followed by
// that many bytes of msgpack-encoded wire.Transaction.
func Save(w io.Writer, tg *tangle.Tangle) error {
	genesis := tg.Genesis()
	if genesis == nil {
		return nil
	}

	if err := writeRecord(w, genesis.Transaction); err != nil {
		return err
	}

	for _, node := range tg.PreOrder() {
		if err := writeRecord(w, node.Transaction); err != nil {
			return err
		}
	}

	return nil
}

func writeRecord(w io.Writer, t tx.Transaction) error {
	wireTx, err := wire.FromTransaction(t)
	if err != nil {
		return err
	}
	payload, err := wireTx.Marshal()
	if err != nil {
		return err
	}

	var length [4]byte
	binary.LittleEndian.PutUint32(length[:], uint32(len(payload)))
	if _, err := w.Write(length[:]); err != nil {
		return err
	}
	_, err = w.Write(payload)
	return err
}

// Load reads a stream previously written by Save and reconstructs a
// Tangle from it: the first record becomes genesis, and every
// subsequent record is replayed via AddTransactionReplay, tolerating
// out-of-order records via the same "insert what's ready, retry the
// rest" approach the networked synchronization path uses, since a
// snapshot is not guaranteed to have been written in strict pre-order
// (e.g. after being copied or concatenated from multiple sources).
func Load(r io.Reader, opts ...tangle.Option) (*tangle.Tangle, error) {
	genesisTx, err := readRecord(r)
	if err != nil {
		return nil, err
	}

	tg, err := tangle.NewTangle(genesisTx, opts...)
	if err != nil {
		return nil, err
	}

	var pending []tx.Transaction
	for {
		t, err := readRecord(r)
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		pending = append(pending, t)
	}

	for len(pending) > 0 {
		var remaining []tx.Transaction
		progressed := false

		for _, t := range pending {
			if _, err := tg.AddTransactionReplay(t); err != nil {
				remaining = append(remaining, t)
				continue
			}
			progressed = true
		}

		if !progressed {
			return nil, ErrIncompleteSnapshot
		}
		pending = remaining
	}

	return tg, nil
}

func readRecord(r io.Reader) (tx.Transaction, error) {
	var length [4]byte
	if _, err := io.ReadFull(r, length[:]); err != nil {
		return tx.Transaction{}, err
	}

	payload := make([]byte, binary.LittleEndian.Uint32(length[:]))
	if _, err := io.ReadFull(r, payload); err != nil {
		return tx.Transaction{}, err
	}

	wireTx, err := wire.UnmarshalTransaction(payload)
	if err != nil {
		return tx.Transaction{}, err
	}
	return wireTx.ToTransaction()
}
