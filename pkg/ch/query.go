package ch

import (
	"container/heap"

	"chway/pkg/graph"
)

// qEntry is a single query-search heap slot.
type qEntry struct {
	node  graph.NodeID
	cost  graph.Cost
	index int
}

type queryHeap []*qEntry

func (h queryHeap) Len() int           { return len(h) }
func (h queryHeap) Less(i, j int) bool { return h[i].cost < h[j].cost }
func (h queryHeap) Swap(i, j int)      { h[i], h[j] = h[j], h[i]; h[i].index = i; h[j].index = j }
func (h *queryHeap) Push(x any) {
	e := x.(*qEntry)
	e.index = len(*h)
	*h = append(*h, e)
}
func (h *queryHeap) Pop() any {
	old := *h
	n := len(old)
	e := old[n-1]
	old[n-1] = nil
	*h = old[:n-1]
	return e
}

// queryState is one direction's reusable Dijkstra scratch space (cost map,
// settled set, heap), amortized across queries the same way witnessState is
// amortized across contraction.
type queryState struct {
	cost    []graph.Cost
	pred    []graph.NodeID
	settled []bool
	touched []graph.NodeID
	heap    queryHeap
}

func newQueryState(n uint32) *queryState {
	cost := make([]graph.Cost, n)
	pred := make([]graph.NodeID, n)
	for i := range cost {
		cost[i] = graph.MaxCost
		pred[i] = graph.NoNode
	}
	return &queryState{cost: cost, pred: pred, settled: make([]bool, n)}
}

func (s *queryState) reset() {
	for _, n := range s.touched {
		s.cost[n] = graph.MaxCost
		s.pred[n] = graph.NoNode
		s.settled[n] = false
	}
	s.touched = s.touched[:0]
	s.heap = s.heap[:0]
}

func (s *queryState) pop() (graph.NodeID, graph.Cost, bool) {
	for s.heap.Len() > 0 {
		e := heap.Pop(&s.heap).(*qEntry)
		if s.settled[e.node] {
			continue
		}
		s.settled[e.node] = true
		return e.node, e.cost, true
	}
	return 0, 0, false
}

func (s *queryState) frontier() graph.Cost {
	if s.heap.Len() == 0 {
		return graph.MaxCost
	}
	return s.heap[0].cost
}

func (s *queryState) relax(v graph.NodeID, cost graph.Cost, w graph.NodeID, edgeCost uint32) {
	newCost := cost + graph.Cost(edgeCost)
	if newCost < s.cost[w] {
		if s.cost[w] == graph.MaxCost {
			s.touched = append(s.touched, w)
		}
		s.cost[w] = newCost
		s.pred[w] = v
		heap.Push(&s.heap, &qEntry{node: w, cost: newCost})
	}
}

// Result is the outcome of a single bidirectional query: the minimum cost
// found, the node where the two searches met, and the sequence of hierarchy
// nodes from source to target (shortcuts left un-expanded — pkg/routing
// unpacks them into original edges for callers that need the full polyline).
type Result struct {
	Found bool
	Cost  graph.Cost
	Meet  graph.NodeID
	Path  []graph.NodeID

	// Settled counts nodes settled across both search directions, for
	// search-space comparisons against a plain Dijkstra baseline.
	Settled int
}

// QueryEngine runs bidirectional CH queries against a contracted hierarchy.
// One instance's scratch state is reused across queries; it is not safe for
// concurrent use by multiple goroutines. Callers pool one engine per worker;
// the hierarchy itself is immutable and freely shared.
type QueryEngine struct {
	g   *graph.CHGraph
	fwd *queryState
	bwd *queryState
}

// NewQueryEngine allocates scratch state sized for g.
func NewQueryEngine(g *graph.CHGraph) *QueryEngine {
	return &QueryEngine{g: g, fwd: newQueryState(g.NumNodes), bwd: newQueryState(g.NumNodes)}
}

// Query runs two Dijkstras, forward over the level-pruned upward graph and
// backward over its reversed counterpart, meeting in the middle, with early
// termination once neither frontier can improve on the best meeting cost
// seen so far.
func (qe *QueryEngine) Query(s, t graph.NodeID) Result {
	if s == t {
		return Result{Found: true, Cost: 0, Meet: s, Path: []graph.NodeID{s}}
	}

	qe.fwd.reset()
	qe.bwd.reset()

	qe.fwd.cost[s] = 0
	qe.fwd.touched = append(qe.fwd.touched, s)
	heap.Push(&qe.fwd.heap, &qEntry{node: s, cost: 0})

	qe.bwd.cost[t] = 0
	qe.bwd.touched = append(qe.bwd.touched, t)
	heap.Push(&qe.bwd.heap, &qEntry{node: t, cost: 0})

	best := graph.MaxCost
	meet := graph.NoNode
	fwdFrontier := graph.Cost(0)
	bwdFrontier := graph.Cost(0)
	settled := 0

	for (qe.fwd.heap.Len() > 0 || qe.bwd.heap.Len() > 0) && min32(fwdFrontier, bwdFrontier) < best {
		if qe.fwd.heap.Len() > 0 {
			if v, cost, ok := qe.fwd.pop(); ok {
				settled++
				if bc := qe.bwd.cost[v]; bc != graph.MaxCost {
					if c := cost + bc; c < best {
						best = c
						meet = v
					}
				}
				start, end := qe.g.FwdEdgesFrom(v)
				for i := start; i < end; i++ {
					qe.fwd.relax(v, cost, qe.g.FwdHead[i], qe.g.FwdWeight[i])
				}
			}
		}
		fwdFrontier = qe.fwd.frontier()

		if qe.bwd.heap.Len() > 0 {
			if v, cost, ok := qe.bwd.pop(); ok {
				settled++
				if fc := qe.fwd.cost[v]; fc != graph.MaxCost {
					if c := cost + fc; c < best {
						best = c
						meet = v
					}
				}
				start, end := qe.g.BwdEdgesFrom(v)
				for i := start; i < end; i++ {
					qe.bwd.relax(v, cost, qe.g.BwdHead[i], qe.g.BwdWeight[i])
				}
			}
		}
		bwdFrontier = qe.bwd.frontier()
	}

	if best == graph.MaxCost {
		return Result{Found: false, Settled: settled}
	}

	return Result{
		Found:   true,
		Cost:    best,
		Meet:    meet,
		Path:    reconstructPath(qe.fwd, qe.bwd, meet),
		Settled: settled,
	}
}

func min32(a, b graph.Cost) graph.Cost {
	if a < b {
		return a
	}
	return b
}

// reconstructPath walks the forward predecessor chain from meet back to the
// source (reversing it into source-to-meet order), then appends the
// backward predecessor chain from meet to the target. Backward predecessors
// already run in meet-to-target order: a backward relaxation pred[w]=v
// records the original directed edge w->v, since the backward graph is
// stored with its edges reversed.
func reconstructPath(fwd, bwd *queryState, meet graph.NodeID) []graph.NodeID {
	var fwdPart []graph.NodeID
	for v := meet; v != graph.NoNode; v = fwd.pred[v] {
		fwdPart = append(fwdPart, v)
	}
	for i, j := 0, len(fwdPart)-1; i < j; i, j = i+1, j-1 {
		fwdPart[i], fwdPart[j] = fwdPart[j], fwdPart[i]
	}

	path := fwdPart
	for v := bwd.pred[meet]; v != graph.NoNode; v = bwd.pred[v] {
		path = append(path, v)
	}
	return path
}
