package routing

import "chway/pkg/graph"

// MinHeap is a concrete-typed min-heap for the routing engine's bidirectional
// Dijkstra priority queues. Avoids interface boxing overhead of
// container/heap, matching the witness-search heap in pkg/ch.
type MinHeap struct {
	items []PQItem
}

// PQItem is a priority queue entry.
type PQItem struct {
	Node graph.NodeID
	Dist graph.Cost
}

func (h *MinHeap) Len() int { return len(h.items) }

func (h *MinHeap) Push(node graph.NodeID, dist graph.Cost) {
	h.items = append(h.items, PQItem{node, dist})
	h.siftUp(len(h.items) - 1)
}

func (h *MinHeap) Pop() PQItem {
	n := len(h.items)
	item := h.items[0]
	h.items[0] = h.items[n-1]
	h.items = h.items[:n-1]
	if len(h.items) > 0 {
		h.siftDown(0)
	}
	return item
}

func (h *MinHeap) PeekDist() graph.Cost {
	if len(h.items) == 0 {
		return graph.MaxCost
	}
	return h.items[0].Dist
}

func (h *MinHeap) Reset() {
	h.items = h.items[:0]
}

func (h *MinHeap) siftUp(i int) {
	for i > 0 {
		parent := (i - 1) / 2
		if h.items[i].Dist >= h.items[parent].Dist {
			break
		}
		h.items[i], h.items[parent] = h.items[parent], h.items[i]
		i = parent
	}
}

func (h *MinHeap) siftDown(i int) {
	n := len(h.items)
	for {
		smallest := i
		left := 2*i + 1
		right := 2*i + 2
		if left < n && h.items[left].Dist < h.items[smallest].Dist {
			smallest = left
		}
		if right < n && h.items[right].Dist < h.items[smallest].Dist {
			smallest = right
		}
		if smallest == i {
			break
		}
		h.items[i], h.items[smallest] = h.items[smallest], h.items[i]
		i = smallest
	}
}

// QueryState holds per-query state for bidirectional CH Dijkstra, amortized
// across queries the same way pkg/ch's witnessState and queryState are.
type QueryState struct {
	DistFwd []graph.Cost
	DistBwd []graph.Cost
	PredFwd []graph.NodeID // predecessor in forward search (graph.NoNode = none)
	PredBwd []graph.NodeID // predecessor in backward search (graph.NoNode = none)
	Touched []graph.NodeID
	FwdPQ   MinHeap
	BwdPQ   MinHeap
}

// NewQueryState creates a new QueryState for a graph with n nodes.
func NewQueryState(n uint32) *QueryState {
	distFwd := make([]graph.Cost, n)
	distBwd := make([]graph.Cost, n)
	predFwd := make([]graph.NodeID, n)
	predBwd := make([]graph.NodeID, n)
	for i := range distFwd {
		distFwd[i] = graph.MaxCost
		distBwd[i] = graph.MaxCost
		predFwd[i] = graph.NoNode
		predBwd[i] = graph.NoNode
	}
	return &QueryState{
		DistFwd: distFwd,
		DistBwd: distBwd,
		PredFwd: predFwd,
		PredBwd: predBwd,
		Touched: make([]graph.NodeID, 0, 1024),
		FwdPQ:   MinHeap{items: make([]PQItem, 0, 256)},
		BwdPQ:   MinHeap{items: make([]PQItem, 0, 256)},
	}
}

// Reset clears only the touched entries for fast reuse.
func (qs *QueryState) Reset() {
	for _, node := range qs.Touched {
		qs.DistFwd[node] = graph.MaxCost
		qs.DistBwd[node] = graph.MaxCost
		qs.PredFwd[node] = graph.NoNode
		qs.PredBwd[node] = graph.NoNode
	}
	qs.Touched = qs.Touched[:0]
	qs.FwdPQ.Reset()
	qs.BwdPQ.Reset()
}

func (qs *QueryState) touchFwd(node graph.NodeID, dist graph.Cost) {
	if qs.DistFwd[node] == graph.MaxCost && qs.DistBwd[node] == graph.MaxCost {
		qs.Touched = append(qs.Touched, node)
	}
	qs.DistFwd[node] = dist
}

func (qs *QueryState) touchBwd(node graph.NodeID, dist graph.Cost) {
	if qs.DistFwd[node] == graph.MaxCost && qs.DistBwd[node] == graph.MaxCost {
		qs.Touched = append(qs.Touched, node)
	}
	qs.DistBwd[node] = dist
}
