package graph

import "testing"

func TestRemoveSelfLoops(t *testing.T) {
	s := NewStore(2)
	s.AddEdge(Edge{Source: 0, Target: 0, Cost: 1, Middle: -1})
	s.AddEdge(Edge{Source: 0, Target: 1, Cost: 2, Middle: -1})

	RemoveSelfLoops(s)

	if got := len(s.Outgoing(0)); got != 1 {
		t.Fatalf("Outgoing(0) len = %d, want 1", got)
	}
	for _, e := range s.Outgoing(0) {
		if e.Target == e.Source {
			t.Errorf("self-loop survived: %+v", e)
		}
	}
}

func TestRemoveSelfLoopsIdempotent(t *testing.T) {
	s := NewStore(2)
	s.AddEdge(Edge{Source: 0, Target: 0, Cost: 1, Middle: -1})
	s.AddEdge(Edge{Source: 0, Target: 1, Cost: 2, Middle: -1})

	RemoveSelfLoops(s)
	first := len(s.Outgoing(0))
	RemoveSelfLoops(s)
	second := len(s.Outgoing(0))

	if first != second {
		t.Errorf("RemoveSelfLoops not idempotent: %d then %d", first, second)
	}
}

func TestDedupEdgesKeepsCheapest(t *testing.T) {
	s := NewStore(2)
	s.AddEdge(Edge{Source: 0, Target: 1, Cost: 10, Middle: -1})
	s.AddEdge(Edge{Source: 0, Target: 1, Cost: 3, Middle: -1})
	s.AddEdge(Edge{Source: 0, Target: 1, Cost: 7, Middle: -1})

	DedupEdges(s)

	out := s.Outgoing(0)
	if len(out) != 1 {
		t.Fatalf("Outgoing(0) len = %d, want 1", len(out))
	}
	if out[0].Cost != 3 {
		t.Errorf("kept cost = %d, want 3", out[0].Cost)
	}

	in := s.Incoming(1)
	if len(in) != 1 || in[0].Cost != 3 {
		t.Errorf("Incoming(1) = %+v, want single edge of cost 3", in)
	}
}

func TestDedupEdgesIdempotent(t *testing.T) {
	s := NewStore(2)
	s.AddEdge(Edge{Source: 0, Target: 1, Cost: 10, Middle: -1})
	s.AddEdge(Edge{Source: 0, Target: 1, Cost: 3, Middle: -1})

	DedupEdges(s)
	first := len(s.Outgoing(0))
	DedupEdges(s)
	second := len(s.Outgoing(0))

	if first != 1 || second != 1 {
		t.Errorf("DedupEdges not idempotent: %d then %d", first, second)
	}
}

func TestDedupEdgesLeavesDistinctTargetsAlone(t *testing.T) {
	s := NewStore(3)
	s.AddEdge(Edge{Source: 0, Target: 1, Cost: 10, Middle: -1})
	s.AddEdge(Edge{Source: 0, Target: 2, Cost: 3, Middle: -1})

	DedupEdges(s)

	if got := len(s.Outgoing(0)); got != 2 {
		t.Fatalf("Outgoing(0) len = %d, want 2", got)
	}
}
