// Package tangle implements the in-memory DAG of transactions: tip
// tracking, cumulative-weight maintenance, a biased random walk for tip
// selection, and balance accounting. It knows nothing about the
// network; NetworkedTangle in package network layers synchronization
// on top of it.
package tangle

import (
	"sync"

	"github.com/joshuadahlunr/tangle/crypto/keys"
	"github.com/joshuadahlunr/tangle/hashing"
	"github.com/joshuadahlunr/tangle/tx"
	"github.com/sirupsen/logrus"
)

// Tangle is a single replica of the DAG: one genesis, a tip set, and a
// hash-indexed lookup table. A single mutex linearizes every structural
// mutation (add, removeTip, setGenesis); readers that only need a
// consistent snapshot (find, tips, queryBalance's starting point) take
// the read side of the same RWMutex.
type Tangle struct {
	mu      sync.RWMutex
	genesis *TransactionNode
	tips    map[hashing.Hash]*TransactionNode
	index   map[hashing.Hash]*TransactionNode

	updateWeights bool
	weightCh      chan *TransactionNode
	weightWG      sync.WaitGroup

	diagnostics diagnosticsCache

	logger *logrus.Entry
}

// Option configures a Tangle at construction.
type Option func(*Tangle)

// WithLogger attaches a logrus entry used for structural-event logging.
// Grounded on babble's convention of threading a *logrus.Entry through
// every major component rather than using the package-level logger.
func WithLogger(logger *logrus.Entry) Option {
	return func(tg *Tangle) { tg.logger = logger }
}

// WithWeightUpdates enables the asynchronous cumulative-weight worker
// that add() schedules work onto after each successful insertion.
func WithWeightUpdates(enabled bool) Option {
	return func(tg *Tangle) { tg.updateWeights = enabled }
}

// NewTangle creates a Tangle rooted at genesisTx. genesisTx must have no
// parent hashes; its stored hash and proof-of-work are still checked,
// but totals validation is skipped because a genesis transaction mints
// the ledger's initial supply out of nothing, by convention, rather
// than by spending existing inputs.
func NewTangle(genesisTx tx.Transaction, opts ...Option) (*Tangle, error) {
	if !genesisTx.IsGenesis() {
		return nil, &Error{Code: NotGenesisShaped, Hash: genesisTx.Hash.String()}
	}
	if err := genesisTx.ValidateTransactionMined(); err != nil {
		return nil, &Error{Code: InvalidTransaction, Hash: genesisTx.Hash.String(), Err: err}
	}

	genesis := newTransactionNode(genesisTx, nil, true)

	tg := &Tangle{
		genesis: genesis,
		tips:    map[hashing.Hash]*TransactionNode{genesisTx.Hash: genesis},
		index:   map[hashing.Hash]*TransactionNode{genesisTx.Hash: genesis},
		logger:  logrus.NewEntry(logrus.New()),
	}
	for _, opt := range opts {
		opt(tg)
	}
	tg.diagnostics = newDiagnosticsCache()

	if tg.updateWeights {
		tg.weightCh = make(chan *TransactionNode, 256)
	}

	return tg, nil
}

// Genesis returns the tangle's current root node.
func (tg *Tangle) Genesis() *TransactionNode {
	tg.mu.RLock()
	defer tg.mu.RUnlock()
	return tg.genesis
}

// Tips returns a snapshot slice of the current tip set.
func (tg *Tangle) Tips() []*TransactionNode {
	tg.mu.RLock()
	defer tg.mu.RUnlock()
	out := make([]*TransactionNode, 0, len(tg.tips))
	for _, n := range tg.tips {
		out = append(out, n)
	}
	return out
}

// Find returns the node addressed by h, or (nil, false) if no such node
// has been inserted. Backed by a hash-indexed map, an O(1) alternative
// to a DFS from genesis.
func (tg *Tangle) Find(h hashing.Hash) (*TransactionNode, bool) {
	tg.mu.RLock()
	defer tg.mu.RUnlock()
	n, ok := tg.index[h]
	return n, ok
}

// AddTransaction validates t, resolves its declared parents against the
// current DAG, checks that no input would drive its account negative,
// and inserts it as a new tip. It returns t's hash on success — whether
// that success is a fresh insertion or an idempotent no-op because t was
// already present.
func (tg *Tangle) AddTransaction(t tx.Transaction) (hashing.Hash, error) {
	return tg.addTransaction(t, false)
}

// addTransaction is the shared implementation behind AddTransaction and
// the relaxed replay path NetworkedTangle uses while streaming another
// replica's DAG (skipBalanceCheck true during
// SynchronizationAddTransactionRequest replay).
func (tg *Tangle) addTransaction(t tx.Transaction, skipBalanceCheck bool) (hashing.Hash, error) {
	if existing, ok := tg.Find(t.Hash); ok {
		_ = existing
		return t.Hash, nil
	}

	if err := t.ValidateTransaction(); err != nil {
		return hashing.InvalidHash, &Error{Code: InvalidTransaction, Hash: t.Hash.String(), Err: err}
	}

	parentNodes := make([]*TransactionNode, 0, len(t.ParentHashes))
	for _, ph := range t.ParentHashes {
		pn, ok := tg.Find(ph)
		if !ok {
			return hashing.InvalidHash, &Error{Code: NodeNotFound, Hash: ph.String()}
		}
		parentNodes = append(parentNodes, pn)
	}

	for _, pn := range parentNodes {
		if pn.hasChildHash(t.Hash) {
			return t.Hash, nil
		}
	}

	if !skipBalanceCheck {
		if err := tg.checkBalances(t); err != nil {
			return hashing.InvalidHash, err
		}
	}

	node := newTransactionNode(t, parentNodes, false)

	tg.mu.Lock()
	for _, pn := range parentNodes {
		delete(tg.tips, pn.Hash)
		pn.addChild(node)
	}
	tg.tips[node.Hash] = node
	tg.index[node.Hash] = node
	tg.mu.Unlock()

	tg.diagnostics.invalidate()

	if tg.updateWeights {
		tg.scheduleWeightUpdate(node)
	}

	tg.logger.WithField("hash", node.Hash.String()).Debug("inserted transaction")

	return node.Hash, nil
}

// checkBalances enforces that for each distinct input account, the
// running balance (current
// queryBalance result, adjusted by any earlier input in this same
// transaction against the same account) must stay nonnegative.
func (tg *Tangle) checkBalances(t tx.Transaction) error {
	cache := map[string]float64{}
	for _, in := range t.Inputs {
		acct, err := accountKey(in.Account)
		if err != nil {
			return &Error{Code: InvalidAccount, Err: err}
		}

		bal, ok := cache[acct]
		if !ok {
			bal, err = tg.QueryBalance(in.Account)
			if err != nil {
				return err
			}
		}

		bal -= in.Amount
		if bal < 0 {
			return &Error{Code: InvalidBalance, Account: acct}
		}
		cache[acct] = bal
	}
	return nil
}

// AddTransactionReplay inserts t without enforcing the balance check,
// for use only while replaying another replica's DAG via
// SynchronizationAddTransactionRequest. Callers must not
// expose this on any path a remotely authored, un-replayed transaction
// can reach, since it would let an attacker spend funds they don't have.
func (tg *Tangle) AddTransactionReplay(t tx.Transaction) (hashing.Hash, error) {
	return tg.addTransaction(t, true)
}

// RemoveTip removes node from the tangle. Only nodes with no children
// may be removed; removing node may make one or more of its parents
// newly childless, in which case they are added back to the tip set.
func (tg *Tangle) RemoveTip(node *TransactionNode) error {
	if !node.isTip() {
		return &Error{Code: NotATip, Hash: node.Hash.String()}
	}

	tg.mu.Lock()
	defer tg.mu.Unlock()

	if _, ok := tg.index[node.Hash]; !ok {
		return &Error{Code: NodeNotFound, Hash: node.Hash.String()}
	}

	for _, parent := range node.parents {
		if parent.removeChild(node) {
			tg.tips[parent.Hash] = parent
		}
	}
	delete(tg.tips, node.Hash)
	delete(tg.index, node.Hash)

	tg.diagnostics.invalidate()

	return nil
}

// SetGenesis replaces the tangle's genesis wholesale, used only during
// initial synchronization (SyncGenesisRequest). Any existing DAG is
// torn down tip-by-tip first, under the same structural lock
// throughout so no add() can observe a half-swapped genesis — favoring
// quiescing the tangle over a pointer-cast overwrite.
func (tg *Tangle) SetGenesis(genesisTx tx.Transaction) error {
	if !genesisTx.IsGenesis() {
		return &Error{Code: NotGenesisShaped, Hash: genesisTx.Hash.String()}
	}
	if err := genesisTx.ValidateTransactionMined(); err != nil {
		return &Error{Code: InvalidTransaction, Hash: genesisTx.Hash.String(), Err: err}
	}

	tg.mu.Lock()
	defer tg.mu.Unlock()

	if tg.genesis != nil && tg.genesis.Hash == genesisTx.Hash {
		return nil
	}

	for len(tg.tips) > 1 || (len(tg.tips) == 1 && !tg.soleTipIsGenesisLocked()) {
		var victim *TransactionNode
		for _, n := range tg.tips {
			if !n.IsGenesis() {
				victim = n
				break
			}
		}
		if victim == nil {
			break
		}
		for _, parent := range victim.parents {
			if parent.removeChild(victim) {
				tg.tips[parent.Hash] = parent
			}
		}
		delete(tg.tips, victim.Hash)
		delete(tg.index, victim.Hash)
	}

	newGenesis := newTransactionNode(genesisTx, nil, true)
	tg.genesis = newGenesis
	tg.tips = map[hashing.Hash]*TransactionNode{genesisTx.Hash: newGenesis}
	tg.index = map[hashing.Hash]*TransactionNode{genesisTx.Hash: newGenesis}
	tg.diagnostics.invalidate()

	return nil
}

func (tg *Tangle) soleTipIsGenesisLocked() bool {
	for _, n := range tg.tips {
		return n.IsGenesis()
	}
	return false
}

// QueryBalance computes account's current balance by a breadth-first
// walk from genesis, adding outputs and subtracting inputs that name
// account. It fails with InvalidBalance if any prefix of the walk would
// go negative, which indicates a corrupt DAG rather than a normal
// overdraft (overdrafts are rejected at AddTransaction time, before they
// ever enter the DAG).
func (tg *Tangle) QueryBalance(account keys.PublicKey) (float64, error) {
	genesis := tg.Genesis()
	if genesis == nil {
		return 0, nil
	}

	acctKey, err := accountKey(account)
	if err != nil {
		return 0, &Error{Code: InvalidAccount, Err: err}
	}

	var balance float64
	visited := map[hashing.Hash]bool{genesis.Hash: true}
	queue := []*TransactionNode{genesis}

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]

		for _, out := range cur.Outputs {
			key, err := accountKey(out.Account)
			if err == nil && key == acctKey {
				balance += out.Amount
			}
		}
		for _, in := range cur.Inputs {
			key, err := accountKey(in.Account)
			if err == nil && key == acctKey {
				balance -= in.Amount
			}
		}
		if balance < 0 {
			return 0, &Error{Code: InvalidBalance, Account: acctKey}
		}

		for _, child := range cur.Children() {
			if !visited[child.Hash] {
				visited[child.Hash] = true
				queue = append(queue, child)
			}
		}
	}

	return balance, nil
}

// QueryBalanceWithConfidence is QueryBalance restricted to nodes whose
// ConfirmationConfidence is at least minConfidence (genesis always
// counts, whatever the floor). It answers the "how much of my balance
// is at least N% confirmed" question a caller uses to decide whether a
// recent transfer is safe to treat as final, without waiting for the
// full weight-update cycle to settle. Unlike QueryBalance it does not
// fail on a negative running total: confidence-filtering can skip a
// node's debit while still counting an earlier credit, so a negative
// partial sum is expected rather than a sign of DAG corruption.
func (tg *Tangle) QueryBalanceWithConfidence(account keys.PublicKey, minConfidence, alpha float64) (float64, error) {
	genesis := tg.Genesis()
	if genesis == nil {
		return 0, nil
	}

	acctKey, err := accountKey(account)
	if err != nil {
		return 0, &Error{Code: InvalidAccount, Err: err}
	}

	var balance float64
	visited := map[hashing.Hash]bool{genesis.Hash: true}
	queue := []*TransactionNode{genesis}

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]

		if cur.IsGenesis() || tg.ConfirmationConfidence(cur, alpha) >= minConfidence {
			for _, out := range cur.Outputs {
				key, err := accountKey(out.Account)
				if err == nil && key == acctKey {
					balance += out.Amount
				}
			}
			for _, in := range cur.Inputs {
				key, err := accountKey(in.Account)
				if err == nil && key == acctKey {
					balance -= in.Amount
				}
			}
		}

		for _, child := range cur.Children() {
			if !visited[child.Hash] {
				visited[child.Hash] = true
				queue = append(queue, child)
			}
		}
	}

	return balance, nil
}

func accountKey(account keys.PublicKey) (string, error) {
	return account.Hash()
}
