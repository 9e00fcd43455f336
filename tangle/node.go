package tangle

import (
	"math"
	"sync/atomic"

	"github.com/joshuadahlunr/tangle/concurrency"
	"github.com/joshuadahlunr/tangle/hashing"
	"github.com/joshuadahlunr/tangle/tx"
)

// TransactionNode enriches a tx.Transaction with the DAG topology around
// it: the parents it approves and the children that approve it. Parents
// are fixed at construction and readable lock-free; children are mutated
// under a small RWBox monitor so the random walk and balance queries can
// read them without contending on the tangle's structural mutex.
type TransactionNode struct {
	tx.Transaction

	isGenesis bool
	parents   []*TransactionNode
	children  *concurrency.RWBox[[]*TransactionNode]

	// cumulativeWeight is updated by the weight-update worker and read
	// by the random walk without synchronizing against it; both sides
	// treat it as advisory, so a plain atomic word is enough and no
	// lock is needed.
	cumulativeWeightBits atomic.Uint64
}

// newTransactionNode builds a TransactionNode over t, owning references
// to parents. It does not register the node with any tangle.
func newTransactionNode(t tx.Transaction, parents []*TransactionNode, isGenesis bool) *TransactionNode {
	n := &TransactionNode{
		Transaction: t,
		isGenesis:   isGenesis,
		parents:     parents,
		children:    concurrency.NewRWBox[[]*TransactionNode](nil),
	}
	n.SetCumulativeWeight(n.OwnWeight())
	return n
}

// IsGenesis reports whether n is the tangle's root.
func (n *TransactionNode) IsGenesis() bool {
	return n.isGenesis
}

// Parents returns n's parent nodes. The slice is never mutated after
// construction, so callers may read it without locking.
func (n *TransactionNode) Parents() []*TransactionNode {
	return n.parents
}

// Children returns a snapshot of n's current children.
func (n *TransactionNode) Children() []*TransactionNode {
	return n.children.Get()
}

// addChild appends c to n's children, unless a child with the same hash
// is already present (benign idempotent no-op, matching DuplicateChild's
// contract).
func (n *TransactionNode) addChild(c *TransactionNode) (added bool) {
	n.children.Write(func(value *[]*TransactionNode) error {
		for _, existing := range *value {
			if existing.Hash == c.Hash {
				return nil
			}
		}
		*value = append(*value, c)
		added = true
		return nil
	})
	return added
}

// hasChildHash reports whether n already has a child with hash h.
func (n *TransactionNode) hasChildHash(h hashing.Hash) bool {
	found := false
	n.children.Read(func(value []*TransactionNode) error {
		for _, c := range value {
			if c.Hash == h {
				found = true
				break
			}
		}
		return nil
	})
	return found
}

// removeChild removes c from n's children by hash and reports whether
// n became childless as a result.
func (n *TransactionNode) removeChild(c *TransactionNode) (becameChildless bool) {
	n.children.Write(func(value *[]*TransactionNode) error {
		out := (*value)[:0]
		for _, existing := range *value {
			if existing.Hash != c.Hash {
				out = append(out, existing)
			}
		}
		*value = out
		becameChildless = len(*value) == 0
		return nil
	})
	return becameChildless
}

// isTip reports whether n currently has no children.
func (n *TransactionNode) isTip() bool {
	return len(n.Children()) == 0
}

// OwnWeight is the mining-derived weight a node contributes on its own,
// independent of its descendants: min(difficulty/5, 1).
func (n *TransactionNode) OwnWeight() float64 {
	return math.Min(float64(n.MiningDifficulty)/5.0, 1.0)
}

// CumulativeWeight returns n's most recently computed cumulative weight.
// The value is advisory: it may be stale relative to the latest
// insertion until the weight-update worker catches up.
func (n *TransactionNode) CumulativeWeight() float64 {
	return math.Float64frombits(n.cumulativeWeightBits.Load())
}

// SetCumulativeWeight stores w as n's cumulative weight.
func (n *TransactionNode) SetCumulativeWeight(w float64) {
	n.cumulativeWeightBits.Store(math.Float64bits(w))
}

// IsChildOf reports whether target is reachable from n by following
// parent references — i.e. whether n descends from target. Used by
// confirmationConfidence to score a random walk's landing tip.
func (n *TransactionNode) IsChildOf(target *TransactionNode) bool {
	if n.Hash == target.Hash {
		return true
	}
	visited := map[hashing.Hash]bool{}
	queue := append([]*TransactionNode{}, n.parents...)
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		if visited[cur.Hash] {
			continue
		}
		visited[cur.Hash] = true
		if cur.Hash == target.Hash {
			return true
		}
		queue = append(queue, cur.parents...)
	}
	return false
}
