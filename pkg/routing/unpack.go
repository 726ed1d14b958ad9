package routing

import "chway/pkg/graph"

// maxUnpackDepth bounds shortcut-unpacking recursion; a hierarchy of depth
// greater than this would mean something is wrong with contraction, not with
// a legitimate route.
const maxUnpackDepth = 64

// unpackOverlayPath expands a path of hierarchy nodes (as produced by the
// bidirectional query, shortcuts included) into the full sequence of
// original-graph nodes it traverses, so callers can render an actual
// road-following polyline.
func unpackOverlayPath(chg *graph.CHGraph, nodes []graph.NodeID) []graph.NodeID {
	if len(nodes) == 0 {
		return nil
	}
	out := []graph.NodeID{nodes[0]}
	for i := 0; i < len(nodes)-1; i++ {
		unpackEdge(chg, nodes[i], nodes[i+1], 0, &out)
	}
	return out
}

// unpackEdge expands the hierarchy edge a->b, appending every intermediate
// original node and finally b to out. The edge may live in either the
// forward or the backward upward graph: the non-strict level property says
// it must be in the forward graph as (a,b) when
// level[a] <= level[b], and in the backward graph stored reversed as (b,a)
// when level[a] >= level[b] — both hold for same-level pairs, so forward is
// tried first.
func unpackEdge(chg *graph.CHGraph, a, b graph.NodeID, depth int, out *[]graph.NodeID) {
	if depth > maxUnpackDepth {
		*out = append(*out, b)
		return
	}

	if chg.Level[a] <= chg.Level[b] {
		if idx := findEdge(chg.FwdFirstOut, chg.FwdHead, a, b); idx != graph.NoNode {
			if mid := chg.FwdMiddle[idx]; mid >= 0 {
				unpackEdge(chg, a, graph.NodeID(mid), depth+1, out)
				unpackEdge(chg, graph.NodeID(mid), b, depth+1, out)
			} else {
				*out = append(*out, b)
			}
			return
		}
	}

	if idx := findEdge(chg.BwdFirstOut, chg.BwdHead, b, a); idx != graph.NoNode {
		if mid := chg.BwdMiddle[idx]; mid >= 0 {
			unpackEdge(chg, a, graph.NodeID(mid), depth+1, out)
			unpackEdge(chg, graph.NodeID(mid), b, depth+1, out)
		} else {
			*out = append(*out, b)
		}
		return
	}

	// Neither graph has the edge: should not happen for a path the query
	// engine actually produced. Emit b directly so the caller still gets a
	// usable (if geometrically approximate) node sequence.
	*out = append(*out, b)
}

// findEdge finds an edge from source to target in a CSR graph, or
// graph.NoNode if none exists.
func findEdge(firstOut, head []uint32, source, target graph.NodeID) graph.NodeID {
	start := firstOut[source]
	end := firstOut[source+1]
	for e := start; e < end; e++ {
		if head[e] == target {
			return e
		}
	}
	return graph.NoNode
}
