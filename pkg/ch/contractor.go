package ch

import (
	"log"
	"time"

	"chway/pkg/graph"
)

// LevelInfinite is the level assigned to every node still uncontracted when
// a time budget cuts preprocessing short. All such
// nodes share this one sentinel value rather than receiving distinct
// sequential ranks: the level property keeps an edge (u,v) between two
// core nodes in the forward graph whenever level[u] <= level[v]
// and in the backward graph whenever level[u] >= level[v], so two nodes
// sharing a level satisfy both inequalities and the edge survives in *both*
// pruned graphs. Two core nodes that instead received distinct sequential
// ranks could fail one of the two inequalities and silently lose the edge
// from whichever graph it needed for the upward-search fallback, breaking
// correctness on the unfinished portion of the hierarchy.
const LevelInfinite uint32 = ^uint32(0)

// ContractOptions configures a single contraction run.
type ContractOptions struct {
	// TimeBudget bounds wall-clock contraction time. Negative means
	// unlimited. Zero means "contract nothing": Contract returns an
	// overlay with zero shortcuts and every node at LevelInfinite.
	TimeBudget time.Duration

	// Seed drives the deterministic node shuffle.
	Seed int64

	// Weights selects the composite priority's per-term multipliers.
	Weights TermWeights

	// PruneRedundantShortcuts enables the optional post-pass that drops
	// shortcuts dominated by other shortcuts of the same contraction. Off
	// by default; shortcut count grows without it, but correctness never
	// depends on it.
	PruneRedundantShortcuts bool
}

// DefaultContractOptions returns unlimited time budget, seed 1, and equal
// term weights with the optional Voronoi term disabled.
func DefaultContractOptions() ContractOptions {
	return ContractOptions{TimeBudget: -1, Seed: 1, Weights: DefaultTermWeights()}
}

// Contract drives the preprocessing pipeline: initialize priorities, lazily
// pop the next node, generate and insert its shortcuts, disconnect it from
// the live graph, record its level, then restore the original edges, union
// in every shortcut, clean up, and enforce the level property.
func Contract(g *graph.Graph, opts ContractOptions) *graph.CHGraph {
	n := g.NumNodes
	if n == 0 {
		return &graph.CHGraph{}
	}

	store := graph.NewStoreFromGraph(g)
	graph.Cleanup(store) // preconditions: no self-loops, no parallel edges

	// Step 1: snapshot original adjacency to restore after contraction.
	snapshot := store.CloneSnapshot()

	ws := newWitnessState(n)
	gen := NewShortcutGenerator(store, ws)
	term := newCompositeTerm(store, gen, n, opts.Weights)
	queue := NewLazyQueue(n, term, opts.Seed)

	level := make([]uint32, n)
	var shortcuts []graph.Edge
	order := uint32(0)
	start := time.Now()

	log.Printf("starting contraction of %d nodes", n)
	logInterval := uint32(50000)

	for {
		if opts.TimeBudget >= 0 && time.Since(start) >= opts.TimeBudget {
			break
		}
		v, ok := queue.Pop()
		if !ok {
			break
		}

		vShortcuts := gen.NaiveShortcuts(v)
		if opts.PruneRedundantShortcuts {
			vShortcuts = gen.PruneRedundant(vShortcuts, v)
		}
		for _, sc := range vShortcuts {
			store.AddEdge(sc)
		}
		shortcuts = append(shortcuts, vShortcuts...)

		store.DisconnectNode(v)
		level[v] = order
		order++

		remaining := n - order
		switch {
		case remaining < 1000:
			logInterval = 100
		case remaining < 10000:
			logInterval = 1000
		case remaining < 100000:
			logInterval = 10000
		default:
			logInterval = 50000
		}
		if order%logInterval == 0 {
			log.Printf("contracted %d/%d nodes, %d shortcuts so far", order, n, len(shortcuts))
		}
	}

	coreSize := 0
	for _, v := range queue.Remaining() {
		level[v] = LevelInfinite
		coreSize++
	}

	log.Printf("contraction complete: %d shortcuts, %d nodes contracted, %d left at infinite level",
		len(shortcuts), order, coreSize)

	// Step 4: restore originals, union in every emitted shortcut.
	for _, sc := range shortcuts {
		snapshot.AddEdge(sc)
	}
	// Duplicate shortcuts from different contraction steps collapse here.
	graph.Cleanup(snapshot)

	return buildOverlay(g, snapshot, level)
}

// buildOverlay enforces the non-strict level property and assembles the
// forward/backward upward CSR graphs the query engine runs against.
func buildOverlay(orig *graph.Graph, s *graph.Store, level []uint32) *graph.CHGraph {
	n := orig.NumNodes

	type csrEdge struct {
		from, to graph.NodeID
		cost     graph.Cost
		middle   int32
	}
	var fwdEdges, bwdEdges []csrEdge

	for u := graph.NodeID(0); u < n; u++ {
		for _, e := range s.Outgoing(u) {
			if level[u] <= level[e.Target] {
				fwdEdges = append(fwdEdges, csrEdge{from: u, to: e.Target, cost: e.Cost, middle: e.Middle})
			}
		}
		// Backward upward graph stored reversed: an edge v->u with
		// level[v] >= level[u] is recorded as u->v so a backward search
		// walks it exactly like a forward one, climbing toward the apex.
		for _, e := range s.Incoming(u) {
			if level[e.Source] >= level[u] {
				bwdEdges = append(bwdEdges, csrEdge{from: u, to: e.Source, cost: e.Cost, middle: e.Middle})
			}
		}
	}

	log.Printf("overlay: %d forward upward edges, %d backward upward edges", len(fwdEdges), len(bwdEdges))

	buildCSR := func(edges []csrEdge) (firstOut, head []uint32, cost []uint32, middle []int32) {
		numEdges := uint32(len(edges))
		firstOut = make([]uint32, n+1)
		head = make([]uint32, numEdges)
		cost = make([]uint32, numEdges)
		middle = make([]int32, numEdges)

		for _, e := range edges {
			firstOut[e.from+1]++
		}
		for i := graph.NodeID(1); i <= n; i++ {
			firstOut[i] += firstOut[i-1]
		}

		pos := make([]uint32, n)
		copy(pos, firstOut[:n])
		for _, e := range edges {
			idx := pos[e.from]
			head[idx] = e.to
			cost[idx] = e.cost
			middle[idx] = e.middle
			pos[e.from]++
		}
		return
	}

	fwdFirstOut, fwdHead, fwdWeight, fwdMiddle := buildCSR(fwdEdges)
	bwdFirstOut, bwdHead, bwdWeight, bwdMiddle := buildCSR(bwdEdges)

	return &graph.CHGraph{
		NumNodes:     n,
		NodeLat:      orig.NodeLat,
		NodeLon:      orig.NodeLon,
		Level:        level,
		FwdFirstOut:  fwdFirstOut,
		FwdHead:      fwdHead,
		FwdWeight:    fwdWeight,
		FwdMiddle:    fwdMiddle,
		BwdFirstOut:  bwdFirstOut,
		BwdHead:      bwdHead,
		BwdWeight:    bwdWeight,
		BwdMiddle:    bwdMiddle,
		OrigFirstOut: orig.FirstOut,
		OrigHead:     orig.Head,
		OrigWeight:   orig.Weight,
		GeoFirstOut:  orig.GeoFirstOut,
		GeoShapeLat:  orig.GeoShapeLat,
		GeoShapeLon:  orig.GeoShapeLon,
	}
}
