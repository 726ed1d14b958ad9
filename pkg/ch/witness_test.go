package ch

import (
	"testing"

	"chway/pkg/graph"
)

func storeFromEdges(n uint32, edges [][3]uint32) *graph.Store {
	s := graph.NewStore(n)
	for _, e := range edges {
		s.AddEdge(graph.Edge{Source: e[0], Target: e[1], Cost: e[2], Middle: -1})
	}
	return s
}

func TestWitnessCostFindsCheaperPath(t *testing.T) {
	// 0 -5-> 1 -5-> 2, and 0 -100-> 2 (the long way).
	s := storeFromEdges(3, [][3]uint32{{0, 1, 5}, {1, 2, 5}, {0, 2, 100}})
	ws := newWitnessState(3)

	witnessCost(ws, s, 0, graph.NoNode, 100)
	if ws.cost[2] != 10 {
		t.Fatalf("cost to 2: got %d, want 10", ws.cost[2])
	}
}

func TestWitnessCostRespectsBannedNode(t *testing.T) {
	s := storeFromEdges(3, [][3]uint32{{0, 1, 5}, {1, 2, 5}})
	ws := newWitnessState(3)

	witnessCost(ws, s, 0, 1, 100)
	if ws.cost[2] != graph.MaxCost {
		t.Fatalf("cost to 2 through banned node 1: got %d, want unreached", ws.cost[2])
	}
}

func TestWitnessCostRespectsCeiling(t *testing.T) {
	s := storeFromEdges(2, [][3]uint32{{0, 1, 50}})
	ws := newWitnessState(2)

	witnessCost(ws, s, 0, graph.NoNode, 10)
	if ws.cost[1] != graph.MaxCost {
		t.Fatalf("cost to 1 above ceiling: got %d, want unreached", ws.cost[1])
	}
}

func TestWitnessCostToStopsAtTarget(t *testing.T) {
	s := storeFromEdges(3, [][3]uint32{{0, 1, 5}, {1, 2, 5}})
	ws := newWitnessState(3)

	cost, ok := witnessCostTo(ws, s, 0, 2, graph.NoNode, 100)
	if !ok || cost != 10 {
		t.Fatalf("witnessCostTo(0,2): got (%d,%v), want (10,true)", cost, ok)
	}
}

func TestWitnessCostToUnreachable(t *testing.T) {
	s := storeFromEdges(3, [][3]uint32{{0, 1, 5}})
	ws := newWitnessState(3)

	_, ok := witnessCostTo(ws, s, 0, 2, graph.NoNode, 100)
	if ok {
		t.Fatalf("witnessCostTo(0,2): expected unreachable")
	}
}

func TestWitnessStateResetClearsTouched(t *testing.T) {
	s := storeFromEdges(3, [][3]uint32{{0, 1, 5}, {1, 2, 5}})
	ws := newWitnessState(3)

	witnessCost(ws, s, 0, graph.NoNode, 100)
	if ws.cost[2] != 10 {
		t.Fatalf("first search: cost to 2 = %d, want 10", ws.cost[2])
	}

	ws.reset()
	for i, c := range ws.cost {
		if c != graph.MaxCost {
			t.Fatalf("node %d not reset: cost %d", i, c)
		}
	}
}
