package ch

import (
	"container/heap"
	"math/rand"

	"chway/pkg/graph"
)

// pqEntry is a single heap slot: the node and its last-computed priority.
type pqEntry struct {
	node     graph.NodeID
	priority int
	index    int
}

// priorityHeap is container/heap's required interface over pqEntry slots.
type priorityHeap []*pqEntry

func (h priorityHeap) Len() int           { return len(h) }
func (h priorityHeap) Less(i, j int) bool { return h[i].priority < h[j].priority }
func (h priorityHeap) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
	h[i].index = i
	h[j].index = j
}

func (h *priorityHeap) Push(x any) {
	entry := x.(*pqEntry)
	entry.index = len(*h)
	*h = append(*h, entry)
}

func (h *priorityHeap) Pop() any {
	old := *h
	n := len(old)
	entry := old[n-1]
	old[n-1] = nil
	entry.index = -1
	*h = old[:n-1]
	return entry
}

// LazyQueue is a lazy min-heap: entries carry a possibly stale priority,
// recomputed on pop, and are re-pushed if the live priority
// turns out higher than what the heap last sorted on.
type LazyQueue struct {
	heap       priorityHeap
	term       PriorityTerm
	contracted []bool
}

// NewLazyQueue pushes every node [0,n) with its initial priority, after
// shuffling node order with the given seed. Shuffling is required because
// priority ties would otherwise follow node-id order and produce
// pathological hierarchies on structured inputs (e.g. FMI graphs whose ids
// were assigned in a grid scan). The seed is caller-supplied rather than
// drawn from the global source so two runs over the same input produce the
// same hierarchy.
func NewLazyQueue(n uint32, term PriorityTerm, seed int64) *LazyQueue {
	order := make([]graph.NodeID, n)
	for i := range order {
		order[i] = graph.NodeID(i)
	}
	rng := rand.New(rand.NewSource(seed))
	rng.Shuffle(len(order), func(i, j int) { order[i], order[j] = order[j], order[i] })

	h := make(priorityHeap, n)
	for i, v := range order {
		h[i] = &pqEntry{node: v, priority: term.Priority(v), index: i}
	}
	heap.Init(&h)

	return &LazyQueue{heap: h, term: term, contracted: make([]bool, n)}
}

// Pop implements the lazy-pop state machine: discard entries for nodes
// already contracted, recompute the top live entry's priority, and if it
// rose above the (new) heap minimum, push it back and keep trying. Once a
// node's recomputed priority no longer needs deferring, mark it contracted,
// notify every term via Update, and return it. Returns (0, false) when
// empty.
func (q *LazyQueue) Pop() (graph.NodeID, bool) {
	for q.heap.Len() > 0 {
		entry := heap.Pop(&q.heap).(*pqEntry)
		if q.contracted[entry.node] {
			continue
		}

		fresh := q.term.Priority(entry.node)
		if q.heap.Len() > 0 && fresh > q.heap[0].priority {
			entry.priority = fresh
			heap.Push(&q.heap, entry)
			continue
		}

		q.contracted[entry.node] = true
		q.term.Update(entry.node)
		return entry.node, true
	}
	return 0, false
}

// Len reports the number of entries still in the heap (including any
// stale duplicates not yet discarded).
func (q *LazyQueue) Len() int { return q.heap.Len() }

// Remaining returns every node not yet popped via Pop, in arbitrary order.
// Used by the contractor to assign a shared sentinel level to whatever is
// left after a time-budget cutoff.
func (q *LazyQueue) Remaining() []graph.NodeID {
	var out []graph.NodeID
	for i, c := range q.contracted {
		if !c {
			out = append(out, graph.NodeID(i))
		}
	}
	return out
}
