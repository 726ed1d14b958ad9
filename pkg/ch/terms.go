package ch

import (
	"math"

	"chway/pkg/graph"
)

// PriorityTerm is the capability shared by every priority-term variant: a
// current contribution for a node, and a one-time notification when that
// node is about to be contracted. The composite queue dispatches over this
// interface uniformly rather than switching on a concrete type.
type PriorityTerm interface {
	Priority(v graph.NodeID) int
	Update(v graph.NodeID)
}

// TermWeights holds the per-term multiplier in the composite priority sum
// priority(v) = Σ weight_i * term_i.Priority(v). Every standard term's
// weight defaults to 1 and the optional Voronoi term's to 0; tuning a hierarchy's shape only ever requires changing these.
type TermWeights struct {
	DeletedNeighbors float64
	CostOfQueries    float64
	EdgeDifference   float64
	VoronoiRegion    float64 // 0 disables the term's contribution
}

// DefaultTermWeights gives every standard term weight 1 and leaves the
// optional Voronoi term disabled.
func DefaultTermWeights() TermWeights {
	return TermWeights{DeletedNeighbors: 1, CostOfQueries: 1, EdgeDifference: 1, VoronoiRegion: 0}
}

// edgeDifferenceTerm scores a node by the net edge count change its
// contraction would cause: priority(v) = (shortcuts naive_shortcuts(v) would insert) -
// (|incoming[v]| + |outgoing[v]|). Stateless w.r.t. Update. Expensive —
// it runs the full shortcut generator for scoring, not just for the node
// actually selected — which is why the lazy queue exists: every node is
// scored once when the queue is built, and after that only nodes that
// reach the top of the heap are scored again.
type edgeDifferenceTerm struct {
	store *graph.Store
	gen   *ShortcutGenerator
}

func newEdgeDifferenceTerm(store *graph.Store, gen *ShortcutGenerator) *edgeDifferenceTerm {
	return &edgeDifferenceTerm{store: store, gen: gen}
}

func (t *edgeDifferenceTerm) Priority(v graph.NodeID) int {
	degree := len(t.store.Incoming(v)) + len(t.store.Outgoing(v))
	shortcuts := len(t.gen.NaiveShortcuts(v))
	return shortcuts - degree
}

func (t *edgeDifferenceTerm) Update(graph.NodeID) {}

// costOfQueriesTerm tracks a "hop depth" pushed forward along outgoing
// edges each time a node is contracted, approximating how deep a query
// search tree rooted here would grow.
type costOfQueriesTerm struct {
	store *graph.Store
	depth []int
}

func newCostOfQueriesTerm(store *graph.Store, n uint32) *costOfQueriesTerm {
	return &costOfQueriesTerm{store: store, depth: make([]int, n)}
}

func (t *costOfQueriesTerm) Priority(v graph.NodeID) int { return t.depth[v] }

func (t *costOfQueriesTerm) Update(v graph.NodeID) {
	for _, e := range t.store.Outgoing(v) {
		if d := t.depth[v] + 1; d > t.depth[e.Target] {
			t.depth[e.Target] = d
		}
	}
}

// deletedNeighborsTerm counts how many of v's neighbors are still live, so nodes
// whose neighborhood has already thinned out (cheap to contract) sort
// ahead of nodes still tangled in a dense, uncontracted region.
type deletedNeighborsTerm struct {
	store   *graph.Store
	deleted []bool
}

func newDeletedNeighborsTerm(store *graph.Store, n uint32) *deletedNeighborsTerm {
	return &deletedNeighborsTerm{store: store, deleted: make([]bool, n)}
}

func (t *deletedNeighborsTerm) Priority(v graph.NodeID) int {
	live := 0
	for _, e := range t.store.Outgoing(v) {
		if !t.deleted[e.Target] {
			live++
		}
	}
	for _, e := range t.store.Incoming(v) {
		if !t.deleted[e.Source] {
			live++
		}
	}
	return live
}

func (t *deletedNeighborsTerm) Update(v graph.NodeID) { t.deleted[v] = true }

// voronoiRegionTerm is the optional Voronoi-region-size term: priority(v)
// estimates the downstream search cost of leaving v
// uncontracted by counting outgoing neighbors whose own cheapest exit
// (other than straight back to v) already costs at least as much as
// reaching them from v, then taking the integer square root. Stateless
// w.r.t. Update, like edge-difference.
type voronoiRegionTerm struct {
	store *graph.Store
}

func newVoronoiRegionTerm(store *graph.Store) *voronoiRegionTerm {
	return &voronoiRegionTerm{store: store}
}

func (t *voronoiRegionTerm) Priority(v graph.NodeID) int {
	count := 0
	for _, out := range t.store.Outgoing(v) {
		n := out.Target
		var cheapestExit graph.Cost = graph.MaxCost
		for _, e := range t.store.Outgoing(n) {
			if e.Target == v {
				continue
			}
			if e.Cost < cheapestExit {
				cheapestExit = e.Cost
			}
		}
		if cheapestExit != graph.MaxCost && cheapestExit >= out.Cost {
			count++
		}
	}
	return int(math.Sqrt(float64(count)))
}

func (t *voronoiRegionTerm) Update(graph.NodeID) {}

// compositeTerm sums the weighted contributions of a fixed, ordered set of
// terms: deleted-neighbors, then cost-of-queries, then edge-difference,
// then the optional Voronoi term.
type compositeTerm struct {
	terms   []PriorityTerm
	weights []float64
}

func newCompositeTerm(store *graph.Store, gen *ShortcutGenerator, n uint32, w TermWeights) *compositeTerm {
	c := &compositeTerm{}
	c.add(newDeletedNeighborsTerm(store, n), w.DeletedNeighbors)
	c.add(newCostOfQueriesTerm(store, n), w.CostOfQueries)
	c.add(newEdgeDifferenceTerm(store, gen), w.EdgeDifference)
	if w.VoronoiRegion != 0 {
		c.add(newVoronoiRegionTerm(store), w.VoronoiRegion)
	}
	return c
}

func (c *compositeTerm) add(term PriorityTerm, weight float64) {
	c.terms = append(c.terms, term)
	c.weights = append(c.weights, weight)
}

func (c *compositeTerm) Priority(v graph.NodeID) int {
	total := 0.0
	for i, term := range c.terms {
		total += c.weights[i] * float64(term.Priority(v))
	}
	return int(total)
}

func (c *compositeTerm) Update(v graph.NodeID) {
	for _, term := range c.terms {
		term.Update(v)
	}
}
