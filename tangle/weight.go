package tangle

import "context"

// scheduleWeightUpdate enqueues node for the weight-update worker. It
// never blocks the caller of AddTransaction: when the channel is full
// the update for node is dropped with a warning, which is tolerable
// since cumulativeWeight is advisory.
func (tg *Tangle) scheduleWeightUpdate(node *TransactionNode) {
	select {
	case tg.weightCh <- node:
	default:
		tg.logger.WithField("hash", node.Hash.String()).Warn("weight update queue full, dropping")
	}
}

// RunWeightWorker runs the single long-lived goroutine that recomputes
// cumulative weights, until ctx is canceled. Callers launch it with
// `go tg.RunWeightWorker(ctx)`; it is a bounded, non-detached
// replacement for spawning a fresh goroutine on every insertion.
func (tg *Tangle) RunWeightWorker(ctx context.Context) {
	if !tg.updateWeights {
		return
	}
	tg.weightWG.Add(1)
	defer tg.weightWG.Done()

	for {
		select {
		case node := <-tg.weightCh:
			tg.recomputeWeightsFrom(node)
		case <-ctx.Done():
			return
		}
	}
}

// Wait blocks until any running weight worker has observed
// cancellation and returned.
func (tg *Tangle) Wait() {
	tg.weightWG.Wait()
}

// recomputeWeightsFrom performs a BFS from node toward genesis (via
// parents), recomputing each visited node's cumulative weight as its own
// weight plus the sum of its children's current cumulative weights. The
// BFS naturally terminates at genesis, which has no parents.
func (tg *Tangle) recomputeWeightsFrom(node *TransactionNode) {
	visited := map[*TransactionNode]bool{}
	queue := []*TransactionNode{node}

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		if visited[cur] {
			continue
		}
		visited[cur] = true

		var sum float64
		for _, child := range cur.Children() {
			sum += child.CumulativeWeight()
		}
		cur.SetCumulativeWeight(cur.OwnWeight() + sum)

		queue = append(queue, cur.parents...)
	}
}

// RecomputeAllWeights recomputes cumulative weights across the entire
// DAG, starting a BFS from every current tip. It backs
// wire.UpdateWeightsRequest, which asks a replica to refresh weights
// unconditionally rather than waiting on the incremental worker.
func (tg *Tangle) RecomputeAllWeights() {
	for _, tip := range tg.Tips() {
		tg.recomputeWeightsFrom(tip)
	}
}
