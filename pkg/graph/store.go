package graph

// Store is the mutable bidirectional adjacency structure the contractor
// owns exclusively during preprocessing: outgoing[v] and incoming[v] hold
// every live edge with source/target v. It is frozen into a Graph/CHGraph
// once contraction finishes.
type Store struct {
	outgoing [][]Edge
	incoming [][]Edge
}

// NewStore creates an empty store sized for n nodes.
func NewStore(n uint32) *Store {
	return &Store{
		outgoing: make([][]Edge, n),
		incoming: make([][]Edge, n),
	}
}

// NewStoreFromGraph builds a Store holding every edge of g, ready for
// contraction.
func NewStoreFromGraph(g *Graph) *Store {
	s := NewStore(g.NumNodes)
	for u := NodeID(0); u < g.NumNodes; u++ {
		start, end := g.EdgesFrom(u)
		for e := start; e < end; e++ {
			s.AddEdge(Edge{Source: u, Target: g.Head[e], Cost: g.Weight[e], Middle: -1})
		}
	}
	return s
}

// NodeCount returns the number of nodes the store was sized for.
func (s *Store) NodeCount() uint32 { return uint32(len(s.outgoing)) }

// AddEdge appends e to outgoing[e.Source] and incoming[e.Target].
func (s *Store) AddEdge(e Edge) {
	s.outgoing[e.Source] = append(s.outgoing[e.Source], e)
	s.incoming[e.Target] = append(s.incoming[e.Target], e)
}

// Outgoing returns the live outgoing edges of v. The returned slice aliases
// internal storage and must not be retained across a mutating call.
func (s *Store) Outgoing(v NodeID) []Edge { return s.outgoing[v] }

// Incoming returns the live incoming edges of v. Same aliasing caveat as
// Outgoing.
func (s *Store) Incoming(v NodeID) []Edge { return s.incoming[v] }

// PopOutgoing removes and returns the last outgoing edge of v, or (Edge{},
// false) if none remain.
func (s *Store) PopOutgoing(v NodeID) (Edge, bool) {
	list := s.outgoing[v]
	if len(list) == 0 {
		return Edge{}, false
	}
	e := list[len(list)-1]
	s.outgoing[v] = list[:len(list)-1]
	return e, true
}

// PopIncoming removes and returns the last incoming edge of v, or (Edge{},
// false) if none remain.
func (s *Store) PopIncoming(v NodeID) (Edge, bool) {
	list := s.incoming[v]
	if len(list) == 0 {
		return Edge{}, false
	}
	e := list[len(list)-1]
	s.incoming[v] = list[:len(list)-1]
	return e, true
}

// RetainOutgoing keeps only the outgoing edges of v for which keep returns
// true, preserving relative order.
func (s *Store) RetainOutgoing(v NodeID, keep func(Edge) bool) {
	s.outgoing[v] = filterEdges(s.outgoing[v], keep)
}

// RetainIncoming keeps only the incoming edges of v for which keep returns
// true, preserving relative order.
func (s *Store) RetainIncoming(v NodeID, keep func(Edge) bool) {
	s.incoming[v] = filterEdges(s.incoming[v], keep)
}

func filterEdges(edges []Edge, keep func(Edge) bool) []Edge {
	out := edges[:0]
	for _, e := range edges {
		if keep(e) {
			out = append(out, e)
		}
	}
	return out
}

// CloneSnapshot returns a deep copy of the current adjacency, used to
// restore original edges after contraction empties every node's lists.
func (s *Store) CloneSnapshot() *Store {
	clone := &Store{
		outgoing: make([][]Edge, len(s.outgoing)),
		incoming: make([][]Edge, len(s.incoming)),
	}
	for v := range s.outgoing {
		if s.outgoing[v] != nil {
			clone.outgoing[v] = append([]Edge(nil), s.outgoing[v]...)
		}
	}
	for v := range s.incoming {
		if s.incoming[v] != nil {
			clone.incoming[v] = append([]Edge(nil), s.incoming[v]...)
		}
	}
	return clone
}

// DisconnectNode empties v's outgoing and incoming lists and removes every
// edge referencing v from its neighbors' lists. After it returns, no live
// list mentions v.
func (s *Store) DisconnectNode(v NodeID) {
	for _, e := range s.incoming[v] {
		s.RetainOutgoing(e.Source, func(o Edge) bool { return o.Target != v })
	}
	for _, e := range s.outgoing[v] {
		s.RetainIncoming(e.Target, func(in Edge) bool { return in.Source != v })
	}
	s.outgoing[v] = nil
	s.incoming[v] = nil
}

// ToGraph freezes the store into a CSR Graph ordered by source; each node's
// edges keep the order of its outgoing list and are not sorted by target.
func (s *Store) ToGraph(nodeLat, nodeLon []float64) *Graph {
	n := s.NodeCount()
	var numEdges uint32
	for v := NodeID(0); v < n; v++ {
		numEdges += uint32(len(s.outgoing[v]))
	}

	firstOut := make([]uint32, n+1)
	head := make([]uint32, numEdges)
	weight := make([]uint32, numEdges)

	pos := uint32(0)
	for v := NodeID(0); v < n; v++ {
		firstOut[v] = pos
		for _, e := range s.outgoing[v] {
			head[pos] = e.Target
			weight[pos] = e.Cost
			pos++
		}
	}
	firstOut[n] = pos

	return &Graph{
		NumNodes: n,
		NumEdges: numEdges,
		FirstOut: firstOut,
		Head:     head,
		Weight:   weight,
		NodeLat:  nodeLat,
		NodeLon:  nodeLon,
	}
}
