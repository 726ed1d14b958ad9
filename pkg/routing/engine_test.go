package routing

import (
	"context"
	"errors"
	"testing"

	"chway/pkg/ch"
	"chway/pkg/graph"
)

func TestNodeRouteMatchesPlainDijkstra(t *testing.T) {
	g, chg := buildTestGraphAndCH(t)
	engine := NewEngine(chg, g)

	for s := graph.NodeID(0); s < g.NumNodes; s++ {
		for tgt := graph.NodeID(0); tgt < g.NumNodes; tgt++ {
			want := plainDijkstra(g, s, tgt)
			got, err := engine.NodeRoute(context.Background(), s, tgt)
			if want == graph.MaxCost {
				if !errors.Is(err, ErrNoRoute) {
					t.Errorf("NodeRoute(%d, %d): err = %v, want ErrNoRoute", s, tgt, err)
				}
				continue
			}
			if err != nil {
				t.Errorf("NodeRoute(%d, %d): %v", s, tgt, err)
				continue
			}
			if got.Cost != want {
				t.Errorf("NodeRoute(%d, %d) = %d, want %d", s, tgt, got.Cost, want)
			}
		}
	}
}

func TestNodeRoutePathEndpoints(t *testing.T) {
	g, chg := buildTestGraphAndCH(t)
	engine := NewEngine(chg, g)

	res, err := engine.NodeRoute(context.Background(), 0, 5)
	if err != nil {
		t.Fatalf("NodeRoute: %v", err)
	}
	if len(res.Path) < 2 {
		t.Fatalf("path too short: %v", res.Path)
	}
	if res.Path[0] != 0 || res.Path[len(res.Path)-1] != 5 {
		t.Errorf("path = %v, want endpoints 0 and 5", res.Path)
	}
	// Every consecutive pair must be an original-graph edge: unpacking is
	// only done if no shortcut survives in the returned sequence.
	for i := 0; i < len(res.Path)-1; i++ {
		if findEdge(g.FirstOut, g.Head, res.Path[i], res.Path[i+1]) == graph.NoNode {
			t.Errorf("path step %d -> %d is not an original edge", res.Path[i], res.Path[i+1])
		}
	}
}

func TestNodeRouteSameNode(t *testing.T) {
	g, chg := buildTestGraphAndCH(t)
	engine := NewEngine(chg, g)

	res, err := engine.NodeRoute(context.Background(), 3, 3)
	if err != nil {
		t.Fatalf("NodeRoute: %v", err)
	}
	if res.Cost != 0 || len(res.Path) != 1 {
		t.Errorf("NodeRoute(v, v) = %+v, want cost 0 and single-node path", res)
	}
}

func TestNodeRouteOutOfRange(t *testing.T) {
	g, chg := buildTestGraphAndCH(t)
	engine := NewEngine(chg, g)

	if _, err := engine.NodeRoute(context.Background(), g.NumNodes, 0); !errors.Is(err, ErrNodeOutOfRange) {
		t.Errorf("err = %v, want ErrNodeOutOfRange", err)
	}
	if _, err := engine.NodeRoute(context.Background(), 0, g.NumNodes+7); !errors.Is(err, ErrNodeOutOfRange) {
		t.Errorf("err = %v, want ErrNodeOutOfRange", err)
	}
}

func TestNodeRouteDirectedGraphIsAsymmetric(t *testing.T) {
	raw := &graph.RawGraph[uint64]{
		Edges: []graph.RawEdge[uint64]{
			{From: 1, To: 2, Cost: 1},
			{From: 2, To: 3, Cost: 1},
		},
		NodeLat: map[uint64]float64{1: 48.0, 2: 48.1, 3: 48.2},
		NodeLon: map[uint64]float64{1: 9.0, 2: 9.1, 3: 9.2},
	}
	g := graph.Build(raw)
	chg := ch.Contract(g, ch.DefaultContractOptions())
	engine := NewEngine(chg, g)

	fwd, err := engine.NodeRoute(context.Background(), 0, 2)
	if err != nil || fwd.Cost != 2 {
		t.Errorf("forward query = (%+v, %v), want cost 2", fwd, err)
	}
	if _, err := engine.NodeRoute(context.Background(), 2, 0); !errors.Is(err, ErrNoRoute) {
		t.Errorf("reverse query err = %v, want ErrNoRoute", err)
	}
}
