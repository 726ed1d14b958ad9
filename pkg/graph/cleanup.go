package graph

// RemoveSelfLoops drops every edge (v,v) from the store. Idempotent: a
// second call finds nothing to remove.
func RemoveSelfLoops(s *Store) {
	n := s.NodeCount()
	for v := NodeID(0); v < n; v++ {
		s.RetainOutgoing(v, func(e Edge) bool { return e.Target != v })
		s.RetainIncoming(v, func(e Edge) bool { return e.Source != v })
	}
}

// DedupEdges collapses parallel edges, keeping only the cheapest edge for
// each (source,target) pair. Idempotent: a store with no parallel edges is
// left unchanged.
func DedupEdges(s *Store) {
	n := s.NodeCount()

	type key struct{ source, target NodeID }
	minCost := make(map[key]Cost)
	for v := NodeID(0); v < n; v++ {
		for _, e := range s.outgoing[v] {
			k := key{e.Source, e.Target}
			if c, ok := minCost[k]; !ok || e.Cost < c {
				minCost[k] = e.Cost
			}
		}
	}

	for v := NodeID(0); v < n; v++ {
		s.RetainOutgoing(v, func(e Edge) bool {
			return e.Cost <= minCost[key{e.Source, e.Target}]
		})
		s.RetainIncoming(v, func(e Edge) bool {
			return e.Cost <= minCost[key{e.Source, e.Target}]
		})
	}

	// RetainOutgoing/RetainIncoming above can both keep two equal-cost
	// parallel edges (the <= comparison is intentionally lax so dedup never
	// drops an edge that is tied for cheapest); collapse any remaining ties
	// down to one representative per key.
	for v := NodeID(0); v < n; v++ {
		seen := make(map[NodeID]bool, len(s.outgoing[v]))
		s.RetainOutgoing(v, func(e Edge) bool {
			if seen[e.Target] {
				return false
			}
			seen[e.Target] = true
			return true
		})
	}
	for v := NodeID(0); v < n; v++ {
		seen := make(map[NodeID]bool, len(s.incoming[v]))
		s.RetainIncoming(v, func(e Edge) bool {
			if seen[e.Source] {
				return false
			}
			seen[e.Source] = true
			return true
		})
	}
}

// Cleanup runs self-loop removal followed by dedup. The contractor invokes
// it before contraction starts and again after shortcuts are unioned back
// in.
func Cleanup(s *Store) {
	RemoveSelfLoops(s)
	DedupEdges(s)
}
