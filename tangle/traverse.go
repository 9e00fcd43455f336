package tangle

import "github.com/joshuadahlunr/tangle/hashing"

// PreOrder returns every non-genesis node reachable from genesis in an
// order where a node never precedes any of its parents, by repeated
// relaxation outward along children edges from genesis. It generalizes
// a tree pre-order traversal to the DAG's possibly-multiple-parents
// shape, and backs both the synchronize stream (package network) and the
// snapshot byte stream (package snapshot), which share an identical
// pre-order contract.
func (tg *Tangle) PreOrder() []*TransactionNode {
	genesis := tg.Genesis()
	if genesis == nil {
		return nil
	}

	visited := map[hashing.Hash]bool{genesis.Hash: true}
	var order []*TransactionNode

	pending := dedupeNodes(genesis.Children())
	for len(pending) > 0 {
		var next []*TransactionNode
		progressed := false

		for _, n := range pending {
			if visited[n.Hash] {
				continue
			}
			ready := true
			for _, p := range n.Parents() {
				if !visited[p.Hash] {
					ready = false
					break
				}
			}
			if ready {
				visited[n.Hash] = true
				order = append(order, n)
				progressed = true
				next = append(next, n.Children()...)
			} else {
				next = append(next, n)
			}
		}

		pending = dedupeNodes(next)
		if !progressed {
			break
		}
	}

	return order
}

func dedupeNodes(nodes []*TransactionNode) []*TransactionNode {
	seen := map[hashing.Hash]bool{}
	out := make([]*TransactionNode, 0, len(nodes))
	for _, n := range nodes {
		if !seen[n.Hash] {
			seen[n.Hash] = true
			out = append(out, n)
		}
	}
	return out
}
