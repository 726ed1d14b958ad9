package ch

import "chway/pkg/graph"

// maxSettled bounds the number of nodes a single witness search will expand
// before giving up; maxHops bounds search depth. Both keep worst-case
// contraction time near-linear on road networks, where a true witness path
// rarely needs many hops to beat a two-edge detour.
const (
	maxSettled = 500
	maxHops    = 8
)

// witnessHeapItem is an entry in the witness search min-heap.
type witnessHeapItem struct {
	node graph.NodeID
	cost graph.Cost
	hops int
}

// witnessHeap is a concrete-typed binary min-heap for witness search.
type witnessHeap struct {
	items []witnessHeapItem
}

func (h *witnessHeap) Len() int { return len(h.items) }

func (h *witnessHeap) Push(node graph.NodeID, cost graph.Cost, hops int) {
	h.items = append(h.items, witnessHeapItem{node, cost, hops})
	h.siftUp(len(h.items) - 1)
}

func (h *witnessHeap) Pop() witnessHeapItem {
	top := h.items[0]
	n := len(h.items) - 1
	h.items[0] = h.items[n]
	h.items = h.items[:n]
	if n > 0 {
		h.siftDown(0)
	}
	return top
}

// siftUp uses hole-sift: saves the floating item and does one assignment
// per level instead of three (swap).
func (h *witnessHeap) siftUp(i int) {
	item := h.items[i]
	for i > 0 {
		parent := (i - 1) / 2
		if item.cost >= h.items[parent].cost {
			break
		}
		h.items[i] = h.items[parent]
		i = parent
	}
	h.items[i] = item
}

func (h *witnessHeap) siftDown(i int) {
	n := len(h.items)
	item := h.items[i]
	for {
		child := 2*i + 1
		if child >= n {
			break
		}
		if right := child + 1; right < n && h.items[right].cost < h.items[child].cost {
			child = right
		}
		if item.cost <= h.items[child].cost {
			break
		}
		h.items[i] = h.items[child]
		i = child
	}
	h.items[i] = item
}

func (h *witnessHeap) Reset() { h.items = h.items[:0] }

// witnessState holds reusable scratch state for witness searches. One
// instance is shared across every call the contractor makes, trading a
// touched-list reset for the per-call distance-array allocation a naive
// implementation would otherwise pay.
type witnessState struct {
	cost    []graph.Cost // indexed by node id; graph.MaxCost means unreached
	touched []graph.NodeID
	heap    witnessHeap
}

func newWitnessState(numNodes uint32) *witnessState {
	cost := make([]graph.Cost, numNodes)
	for i := range cost {
		cost[i] = graph.MaxCost
	}
	return &witnessState{
		cost: cost,
		heap: witnessHeap{items: make([]witnessHeapItem, 0, 256)},
	}
}

func (ws *witnessState) reset() {
	for _, n := range ws.touched {
		ws.cost[n] = graph.MaxCost
	}
	ws.touched = ws.touched[:0]
	ws.heap.Reset()
}

// witnessCost runs a bounded Dijkstra from source that never relaxes an
// edge into banned and prunes everything above ceiling. After it returns, ws.cost[w] holds the cheapest cost from source to w
// found using edges that never touch banned and whose tentative cost never
// exceeds ceiling; the search also stops after maxSettled settled nodes and
// does not expand paths of maxHops edges, so this can exceed the true
// minimum. graph.MaxCost means w was not reached. The mapping is
// left in the dense scratch array rather than copied out — callers read
// ws.cost[w] for whichever nodes they care about.
func witnessCost(ws *witnessState, s *graph.Store, source, banned graph.NodeID, ceiling graph.Cost) {
	ws.reset()

	ws.cost[source] = 0
	ws.touched = append(ws.touched, source)
	ws.heap.Push(source, 0, 0)

	settled := 0

	for ws.heap.Len() > 0 {
		cur := ws.heap.Pop()

		if cur.cost > ws.cost[cur.node] {
			continue // stale entry
		}

		settled++
		if settled > maxSettled {
			break
		}
		if cur.cost > ceiling || cur.hops >= maxHops {
			continue
		}

		for _, e := range s.Outgoing(cur.node) {
			if e.Target == banned {
				continue
			}
			newCost := cur.cost + e.Cost
			if newCost > ceiling {
				continue
			}
			if newCost < ws.cost[e.Target] {
				if ws.cost[e.Target] == graph.MaxCost {
					ws.touched = append(ws.touched, e.Target)
				}
				ws.cost[e.Target] = newCost
				ws.heap.Push(e.Target, newCost, cur.hops+1)
			}
		}
	}
}

// witnessCostTo is the same bounded search, but it returns as soon as
// target is settled.
func witnessCostTo(ws *witnessState, s *graph.Store, source, target, banned graph.NodeID, ceiling graph.Cost) (graph.Cost, bool) {
	ws.reset()

	if source == target {
		return 0, true
	}

	ws.cost[source] = 0
	ws.touched = append(ws.touched, source)
	ws.heap.Push(source, 0, 0)

	settled := 0

	for ws.heap.Len() > 0 {
		cur := ws.heap.Pop()
		if cur.cost > ws.cost[cur.node] {
			continue
		}
		if cur.node == target {
			return cur.cost, true
		}

		settled++
		if settled > maxSettled {
			break
		}
		if cur.cost > ceiling || cur.hops >= maxHops {
			continue
		}

		for _, e := range s.Outgoing(cur.node) {
			if e.Target == banned {
				continue
			}
			newCost := cur.cost + e.Cost
			if newCost > ceiling {
				continue
			}
			if newCost < ws.cost[e.Target] {
				if ws.cost[e.Target] == graph.MaxCost {
					ws.touched = append(ws.touched, e.Target)
				}
				ws.cost[e.Target] = newCost
				ws.heap.Push(e.Target, newCost, cur.hops+1)
			}
		}
	}

	return 0, false
}
