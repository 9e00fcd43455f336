package tangle

import "github.com/joshuadahlunr/tangle/concurrency"

// diagnosticsCache memoizes the three pure-function diagnostics (height,
// depth, score), keyed by node pointer, since all three
// are defined recursively over structure that only changes on insertion
// or removal. Any structural mutation calls invalidate, which simply
// drops the caches — small maps are cheap to rebuild lazily and this
// avoids having to track exactly which entries a given mutation could
// have disturbed.
type diagnosticsCache struct {
	height *concurrency.RWBox[map[*TransactionNode]int]
	depth  *concurrency.RWBox[map[*TransactionNode]int]
	score  *concurrency.RWBox[map[*TransactionNode]float64]
}

func newDiagnosticsCache() diagnosticsCache {
	return diagnosticsCache{
		height: concurrency.NewRWBox(map[*TransactionNode]int{}),
		depth:  concurrency.NewRWBox(map[*TransactionNode]int{}),
		score:  concurrency.NewRWBox(map[*TransactionNode]float64{}),
	}
}

func (d diagnosticsCache) invalidate() {
	d.height.Set(map[*TransactionNode]int{})
	d.depth.Set(map[*TransactionNode]int{})
	d.score.Set(map[*TransactionNode]float64{})
}

// Height returns 0 for genesis, else 1 + the maximum height of n's
// parents.
func (tg *Tangle) Height(n *TransactionNode) int {
	if cached, ok := tg.diagnostics.height.Get()[n]; ok {
		return cached
	}
	var h int
	if !n.IsGenesis() {
		for _, p := range n.parents {
			if ph := tg.Height(p); ph+1 > h {
				h = ph + 1
			}
		}
	}
	tg.diagnostics.height.Write(func(value *map[*TransactionNode]int) error {
		(*value)[n] = h
		return nil
	})
	return h
}

// Depth returns 0 for a tip, else 1 + the maximum depth of n's children.
func (tg *Tangle) Depth(n *TransactionNode) int {
	if cached, ok := tg.diagnostics.depth.Get()[n]; ok {
		return cached
	}
	children := n.Children()
	var d int
	for _, c := range children {
		if cd := tg.Depth(c); cd+1 > d {
			d = cd + 1
		}
	}
	tg.diagnostics.depth.Write(func(value *map[*TransactionNode]int) error {
		(*value)[n] = d
		return nil
	})
	return d
}

// Score returns n's own weight plus the score of every parent, i.e. the
// total mining weight invested along every path from genesis to n.
func (tg *Tangle) Score(n *TransactionNode) float64 {
	if cached, ok := tg.diagnostics.score.Get()[n]; ok {
		return cached
	}
	s := n.OwnWeight()
	for _, p := range n.parents {
		s += tg.Score(p)
	}
	tg.diagnostics.score.Write(func(value *map[*TransactionNode]float64) error {
		(*value)[n] = s
		return nil
	})
	return s
}
