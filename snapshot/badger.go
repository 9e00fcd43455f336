package snapshot

import (
	"encoding/binary"

	"github.com/dgraph-io/badger"

	"github.com/joshuadahlunr/tangle/tangle"
	"github.com/joshuadahlunr/tangle/tx"
	"github.com/joshuadahlunr/tangle/wire"
)

var orderKeyPrefix = []byte("order:")

// BadgerSink persists a tangle's pre-order stream into a dgraph-io/badger
// key-value store instead of a flat file, for embedding in a longer-
// lived process that wants the snapshot available without managing a
// file directly. Grounded on babble's hashgraph.BadgerStore: a thin
// wrapper around *badger.DB with small dbGet/dbSet helpers per record
// kind, here reduced to the one record kind a tangle snapshot needs.
type BadgerSink struct {
	db *badger.DB
}

// OpenBadgerSink opens (creating if necessary) a badger database rooted
// at dir.
func OpenBadgerSink(dir string) (*BadgerSink, error) {
	opts := badger.DefaultOptions(dir)
	opts.ValueDir = dir
	opts.SyncWrites = false

	db, err := badger.Open(opts)
	if err != nil {
		return nil, err
	}
	return &BadgerSink{db: db}, nil
}

// Close releases the underlying badger database.
func (s *BadgerSink) Close() error {
	return s.db.Close()
}

// Save writes tg's genesis, keyed under order index 0, followed by
// every descendant in pre-order under increasing indices. Records are
// keyed by order index only.
func (s *BadgerSink) Save(tg *tangle.Tangle) error {
	genesis := tg.Genesis()
	if genesis == nil {
		return nil
	}

	txn := s.db.NewTransaction(true)
	defer txn.Discard()

	if err := dbSetRecord(txn, 0, genesis.Transaction); err != nil {
		return err
	}

	order := tg.PreOrder()
	for i, node := range order {
		if err := dbSetRecord(txn, i+1, node.Transaction); err != nil {
			return err
		}
	}

	return txn.Commit()
}

// Load reads every record back out in index order and reconstructs a
// Tangle, using the same retry-until-no-progress replay loop as Load,
// since a record written under an index derived from a stale PreOrder
// call is still only guaranteed ready-or-retryable, not strictly ordered
// against concurrent writers.
func (s *BadgerSink) Load(opts ...tangle.Option) (*tangle.Tangle, error) {
	records, err := s.dbAllRecords()
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, ErrIncompleteSnapshot
	}

	tg, err := tangle.NewTangle(records[0], opts...)
	if err != nil {
		return nil, err
	}

	pending := records[1:]
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

func dbSetRecord(txn *badger.Txn, index int, t tx.Transaction) error {
	wireTx, err := wire.FromTransaction(t)
	if err != nil {
		return err
	}
	payload, err := wireTx.Marshal()
	if err != nil {
		return err
	}
	return txn.Set(orderKey(index), payload)
}

func (s *BadgerSink) dbAllRecords() ([]tx.Transaction, error) {
	var records []tx.Transaction

	err := s.db.View(func(txn *badger.Txn) error {
		for i := 0; ; i++ {
			item, err := txn.Get(orderKey(i))
			if err != nil {
				if isKeyNotFound(err) {
					return nil
				}
				return err
			}

			payload, err := item.ValueCopy(nil)
			if err != nil {
				return err
			}

			wireTx, err := wire.UnmarshalTransaction(payload)
			if err != nil {
				return err
			}
			t, err := wireTx.ToTransaction()
			if err != nil {
				return err
			}
			records = append(records, t)
		}
	})

	return records, err
}

func orderKey(index int) []byte {
	key := make([]byte, len(orderKeyPrefix)+4)
	copy(key, orderKeyPrefix)
	binary.BigEndian.PutUint32(key[len(orderKeyPrefix):], uint32(index))
	return key
}

func isKeyNotFound(err error) bool {
	return err == badger.ErrKeyNotFound
}
