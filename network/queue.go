// Package network layers the synchronization protocol on top of
// package tangle: the message types, the orphan buffer that lets
// replicas converge despite out-of-order delivery, and the broadcast
// behavior a local insertion triggers.
package network

import (
	"sync"

	"github.com/joshuadahlunr/tangle/tx"
)

// orphan is a transaction buffered in the NetworkQueue because one or
// more of its declared parents were not yet present locally when it
// arrived. relaxed records which insertion path (AddTransaction vs.
// AddTransactionReplay) the queue should retry it on once its parents
// resolve.
type orphan struct {
	transaction tx.Transaction
	relaxed     bool
}

// Queue is an ordered buffer of transactions whose parents are not yet
// resolved locally.
type Queue struct {
	mu    sync.Mutex
	items []orphan
}

// NewQueue returns an empty Queue.
func NewQueue() *Queue {
	return &Queue{}
}

// push appends t to the back of the queue.
func (q *Queue) push(t tx.Transaction, relaxed bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.items = append(q.items, orphan{transaction: t, relaxed: relaxed})
}

// Len reports how many transactions are currently buffered.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}

// drainOnce attempts attempt against every currently queued transaction,
// in original order, exactly once. Transactions attempt accepts (nil
// error) are dropped from the queue; transactions it still can't place
// remain queued in their original relative order.
func (q *Queue) drainOnce(attempt func(tx.Transaction, bool) error) {
	q.mu.Lock()
	pending := q.items
	q.items = nil
	q.mu.Unlock()

	var stillOrphaned []orphan
	for _, o := range pending {
		if err := attempt(o.transaction, o.relaxed); err != nil {
			stillOrphaned = append(stillOrphaned, o)
		}
	}

	q.mu.Lock()
	q.items = append(stillOrphaned, q.items...)
	q.mu.Unlock()
}
