package ch

import (
	"testing"

	"chway/pkg/graph"
)

func TestEdgeDifferenceTermCountsNetShortcuts(t *testing.T) {
	// 0 -> 1 -> 2, contracting 1 adds one shortcut (0->2) and removes two
	// edges (0->1, 1->2): edge difference = 1 - 2 = -1.
	s := graph.NewStore(3)
	s.AddEdge(graph.Edge{Source: 0, Target: 1, Cost: 10, Middle: -1})
	s.AddEdge(graph.Edge{Source: 1, Target: 2, Cost: 10, Middle: -1})
	gen := NewShortcutGenerator(s, newWitnessState(3))
	term := newEdgeDifferenceTerm(s, gen)

	if p := term.Priority(1); p != -1 {
		t.Fatalf("edge difference for node 1: got %d, want -1", p)
	}
}

func TestCostOfQueriesTermPropagatesDepthOnUpdate(t *testing.T) {
	s := graph.NewStore(3)
	s.AddEdge(graph.Edge{Source: 0, Target: 1, Cost: 10, Middle: -1})
	s.AddEdge(graph.Edge{Source: 1, Target: 2, Cost: 10, Middle: -1})
	term := newCostOfQueriesTerm(s, 3)

	if term.Priority(1) != 0 {
		t.Fatalf("initial depth for node 1: got %d, want 0", term.Priority(1))
	}
	term.Update(0)
	if term.Priority(1) != 1 {
		t.Fatalf("depth for node 1 after contracting 0: got %d, want 1", term.Priority(1))
	}
	term.Update(1)
	if term.Priority(2) != 2 {
		t.Fatalf("depth for node 2 after contracting 0 then 1: got %d, want 2", term.Priority(2))
	}
}

func TestDeletedNeighborsTermCountsOnlyLiveNeighbors(t *testing.T) {
	s := graph.NewStore(3)
	s.AddEdge(graph.Edge{Source: 0, Target: 1, Cost: 10, Middle: -1})
	s.AddEdge(graph.Edge{Source: 2, Target: 1, Cost: 10, Middle: -1})
	term := newDeletedNeighborsTerm(s, 3)

	if p := term.Priority(1); p != 2 {
		t.Fatalf("initial live-neighbor count for node 1: got %d, want 2", p)
	}
	term.Update(0)
	if p := term.Priority(1); p != 1 {
		t.Fatalf("live-neighbor count after deleting 0: got %d, want 1", p)
	}
}

func TestCompositeTermSumsWeightedContributions(t *testing.T) {
	s := graph.NewStore(2)
	s.AddEdge(graph.Edge{Source: 0, Target: 1, Cost: 10, Middle: -1})
	gen := NewShortcutGenerator(s, newWitnessState(2))

	weights := TermWeights{DeletedNeighbors: 0, CostOfQueries: 0, EdgeDifference: 2, VoronoiRegion: 0}
	composite := newCompositeTerm(s, gen, 2, weights)

	// Node 0 has no incoming edges, so NaiveShortcuts(0) is empty and its
	// edge difference term is 0 - 1 = -1; weighted by 2 that's -2, and every
	// other term is weighted to 0.
	if p := composite.Priority(0); p != -2 {
		t.Fatalf("composite priority for node 0: got %d, want -2", p)
	}
}

func TestCompositeTermUpdatePropagatesToAllTerms(t *testing.T) {
	s := graph.NewStore(2)
	s.AddEdge(graph.Edge{Source: 0, Target: 1, Cost: 10, Middle: -1})
	gen := NewShortcutGenerator(s, newWitnessState(2))
	// Contracting 0 drops node 1's live-neighbor count from 1 to 0 and
	// raises its cost-of-queries depth from 0 to 1; with equal weights the
	// two changes cancel, so cost of queries is weighted 2 here. Edge
	// difference stays -1. Before: 1 + 0 - 1 = 0; after: 0 + 2 - 1 = 1.
	weights := TermWeights{DeletedNeighbors: 1, CostOfQueries: 2, EdgeDifference: 1, VoronoiRegion: 0}
	composite := newCompositeTerm(s, gen, 2, weights)

	before := composite.Priority(1)
	composite.Update(0)
	after := composite.Priority(1)
	if before != 0 || after != 1 {
		t.Fatalf("composite priority for node 1 around contracting its neighbor 0: got %d then %d, want 0 then 1", before, after)
	}
}

func TestVoronoiRegionTermDisabledByDefault(t *testing.T) {
	weights := DefaultTermWeights()
	if weights.VoronoiRegion != 0 {
		t.Fatalf("expected Voronoi term disabled by default, got weight %v", weights.VoronoiRegion)
	}
}
