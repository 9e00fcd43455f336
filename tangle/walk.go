package tangle

import (
	"math"
	"math/rand"
)

// epsilon floors any underflowing or non-finite transition weight so the
// random walk's distribution stays well-defined even when a cumulative
// weight gap is large enough that exp() would otherwise underflow to
// zero for every child.
const epsilon = 1e-9

// minWalkSetSize is the floor confirmationConfidence pads its walk set
// to.
const minWalkSetSize = 100

// BiasedRandomWalk descends the DAG from start toward a tip. At each
// node with children it picks the next child with probability
// proportional to exp(-alpha * (W - childWeight)), so heavier subtrees
// are preferred without ever assigning a lighter subtree zero
// probability. It terminates at the first node with no children.
//
// There is no upward step: the walk takes no step-back probability and
// never recurses into a parent.
func (tg *Tangle) BiasedRandomWalk(start *TransactionNode, alpha float64) *TransactionNode {
	cur := start
	for {
		children := cur.Children()
		if len(children) == 0 {
			return cur
		}

		W := cur.CumulativeWeight()
		weights := make([]float64, len(children))
		var total float64
		for i, c := range children {
			w := math.Exp(-alpha * (W - c.CumulativeWeight()))
			if w < epsilon || math.IsNaN(w) || math.IsInf(w, 0) {
				w = epsilon
			}
			weights[i] = w
			total += w
		}

		r := rand.Float64() * total
		var cum float64
		next := children[len(children)-1]
		for i, w := range weights {
			cum += w
			if r <= cum {
				next = children[i]
				break
			}
		}
		cur = next
	}
}

// ConfirmationConfidence estimates how thoroughly target has been
// approved: the fraction of independent biased random walks, started
// from a walk set built around target, that land on a tip descending
// from target.
func (tg *Tangle) ConfirmationConfidence(target *TransactionNode, alpha float64) float64 {
	walkSet := tg.buildWalkSet(target)
	if len(walkSet) == 0 {
		return 0
	}

	var hits int
	for _, entry := range walkSet {
		tip := tg.BiasedRandomWalk(entry, alpha)
		if tip.IsChildOf(target) {
			hits++
		}
	}

	return float64(hits) / float64(len(walkSet))
}

// buildWalkSet assembles at least minWalkSetSize entries at depth+5 from
// target: a BFS frontier over target's ancestors and descendants. If
// the DAG is too small to produce that many distinct
// nodes, it falls back to the genesis singleton and replicates entries
// until the floor is met.
func (tg *Tangle) buildWalkSet(target *TransactionNode) []*TransactionNode {
	depth := tg.Depth(target)
	frontierSize := depth + 5

	var frontier []*TransactionNode
	visited := map[*TransactionNode]bool{target: true}
	queue := []*TransactionNode{target}

	for len(queue) > 0 && len(frontier) < frontierSize {
		cur := queue[0]
		queue = queue[1:]
		frontier = append(frontier, cur)

		for _, p := range cur.parents {
			if !visited[p] {
				visited[p] = true
				queue = append(queue, p)
			}
		}
		for _, c := range cur.Children() {
			if !visited[c] {
				visited[c] = true
				queue = append(queue, c)
			}
		}
	}

	if len(frontier) < frontierSize {
		genesis := tg.Genesis()
		if genesis == nil {
			return nil
		}
		frontier = []*TransactionNode{genesis}
	}

	walkSet := make([]*TransactionNode, 0, minWalkSetSize)
	for len(walkSet) < minWalkSetSize {
		walkSet = append(walkSet, frontier[len(walkSet)%len(frontier)])
	}
	return walkSet
}
