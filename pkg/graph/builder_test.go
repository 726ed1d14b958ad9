package graph

import "testing"

func TestBuildSimpleGraph(t *testing.T) {
	// Triangle graph: 100 -> 200 -> 300 -> 100.
	raw := &RawGraph[uint64]{
		Edges: []RawEdge[uint64]{
			{From: 100, To: 200, Cost: 1000},
			{From: 200, To: 300, Cost: 2000},
			{From: 300, To: 100, Cost: 3000},
		},
		NodeLat: map[uint64]float64{100: 1.0, 200: 1.1, 300: 1.0},
		NodeLon: map[uint64]float64{100: 103.0, 200: 103.0, 300: 103.1},
	}

	g := Build(raw)

	if g.NumNodes != 3 {
		t.Fatalf("NumNodes = %d, want 3", g.NumNodes)
	}
	if g.NumEdges != 3 {
		t.Fatalf("NumEdges = %d, want 3", g.NumEdges)
	}

	for i := NodeID(0); i < g.NumNodes; i++ {
		start, end := g.EdgesFrom(i)
		if count := end - start; count != 1 {
			t.Errorf("node %d has %d edges, want 1", i, count)
		}
	}

	var totalCost uint32
	for _, w := range g.Weight {
		totalCost += w
	}
	if totalCost != 6000 {
		t.Errorf("total cost = %d, want 6000", totalCost)
	}
}

func TestBuildEmptyGraph(t *testing.T) {
	raw := &RawGraph[uint64]{
		NodeLat: map[uint64]float64{},
		NodeLon: map[uint64]float64{},
	}

	g := Build(raw)

	if g.NumNodes != 0 {
		t.Errorf("NumNodes = %d, want 0", g.NumNodes)
	}
	if g.NumEdges != 0 {
		t.Errorf("NumEdges = %d, want 0", g.NumEdges)
	}
}

func TestBuildBidirectionalEdges(t *testing.T) {
	raw := &RawGraph[uint64]{
		Edges: []RawEdge[uint64]{
			{From: 1, To: 2, Cost: 500},
			{From: 2, To: 1, Cost: 500},
		},
		NodeLat: map[uint64]float64{1: 1.0, 2: 1.1},
		NodeLon: map[uint64]float64{1: 103.0, 2: 103.1},
	}

	g := Build(raw)

	if g.NumNodes != 2 {
		t.Fatalf("NumNodes = %d, want 2", g.NumNodes)
	}
	if g.NumEdges != 2 {
		t.Fatalf("NumEdges = %d, want 2", g.NumEdges)
	}

	for i := NodeID(0); i < g.NumNodes; i++ {
		start, end := g.EdgesFrom(i)
		if end-start != 1 {
			t.Errorf("node %d has %d edges, want 1", i, end-start)
		}
	}
}

func TestBuildCSRInvariants(t *testing.T) {
	// Star graph: center -> A, center -> B, center -> C, plus one back-edge.
	raw := &RawGraph[uint64]{
		Edges: []RawEdge[uint64]{
			{From: 10, To: 20, Cost: 100},
			{From: 10, To: 30, Cost: 200},
			{From: 10, To: 40, Cost: 300},
			{From: 20, To: 10, Cost: 100},
		},
		NodeLat: map[uint64]float64{10: 1.0, 20: 1.1, 30: 1.2, 40: 1.3},
		NodeLon: map[uint64]float64{10: 103.0, 20: 103.1, 30: 103.2, 40: 103.3},
	}

	g := Build(raw)

	if g.NumNodes != 4 {
		t.Fatalf("NumNodes = %d, want 4", g.NumNodes)
	}
	if g.NumEdges != 4 {
		t.Fatalf("NumEdges = %d, want 4", g.NumEdges)
	}

	for i := NodeID(1); i <= g.NumNodes; i++ {
		if g.FirstOut[i] < g.FirstOut[i-1] {
			t.Errorf("FirstOut[%d]=%d < FirstOut[%d]=%d — not monotonic", i, g.FirstOut[i], i-1, g.FirstOut[i-1])
		}
	}

	if g.FirstOut[g.NumNodes] != g.NumEdges {
		t.Errorf("FirstOut[%d]=%d != NumEdges=%d", g.NumNodes, g.FirstOut[g.NumNodes], g.NumEdges)
	}

	for i, h := range g.Head {
		if h >= g.NumNodes {
			t.Errorf("Head[%d]=%d >= NumNodes=%d", i, h, g.NumNodes)
		}
	}
}

func TestBuildDedupesNodeKeysAcrossEdges(t *testing.T) {
	// Node 5 appears as both a source and a target; it must get one index.
	raw := &RawGraph[uint64]{
		Edges: []RawEdge[uint64]{
			{From: 1, To: 5, Cost: 10},
			{From: 5, To: 9, Cost: 20},
		},
		NodeLat: map[uint64]float64{1: 0, 5: 0, 9: 0},
		NodeLon: map[uint64]float64{1: 0, 5: 0, 9: 0},
	}

	g := Build(raw)
	if g.NumNodes != 3 {
		t.Fatalf("NumNodes = %d, want 3", g.NumNodes)
	}
}
