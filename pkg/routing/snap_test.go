package routing

import (
	"testing"

	"chway/pkg/graph"
)

func buildSnapTestGraph() *graph.Graph {
	raw := &graph.RawGraph[uint64]{
		Edges: []graph.RawEdge[uint64]{
			{From: 1, To: 2, Cost: 1000}, {From: 2, To: 1, Cost: 1000},
		},
		NodeLat: map[uint64]float64{1: 1.300, 2: 1.301},
		NodeLon: map[uint64]float64{1: 103.800, 2: 103.800},
	}
	return graph.Build(raw)
}

func TestSnapperFindsNearestSegment(t *testing.T) {
	g := buildSnapTestGraph()
	s := NewSnapper(g)

	res, err := s.Snap(1.3005, 103.800)
	if err != nil {
		t.Fatalf("Snap: %v", err)
	}
	if res.Ratio < 0.3 || res.Ratio > 0.7 {
		t.Errorf("Ratio = %f, want roughly 0.5 (midpoint)", res.Ratio)
	}
}

func TestSnapperRejectsFarPoint(t *testing.T) {
	g := buildSnapTestGraph()
	s := NewSnapper(g)

	_, err := s.Snap(5.0, 5.0)
	if err != ErrPointTooFar {
		t.Fatalf("Snap on far point: got err %v, want ErrPointTooFar", err)
	}
}
