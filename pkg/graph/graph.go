package graph

// Graph is a frozen directed graph in CSR (Compressed Sparse Row) format,
// as produced by a loader (pkg/osm, pkg/fmi) before contraction.
type Graph struct {
	NumNodes uint32
	NumEdges uint32
	FirstOut []uint32 // len: NumNodes+1; FirstOut[i]..FirstOut[i+1] are edges from node i
	Head     []uint32 // len: NumEdges; target node for each edge
	Weight   []uint32 // len: NumEdges; edge cost
	NodeLat  []float64
	NodeLon  []float64

	// Edge geometry: intermediate shape points for rendering, indexed in
	// parallel with Head/Weight. Absent for FMI-loaded graphs.
	GeoFirstOut []uint32 // len: NumEdges+1
	GeoShapeLat []float64
	GeoShapeLon []float64
}

// EdgesFrom returns the range of edge indices for edges originating from u.
func (g *Graph) EdgesFrom(u NodeID) (start, end uint32) {
	return g.FirstOut[u], g.FirstOut[u+1]
}

// CHGraph is the frozen, post-contraction hierarchy: the level-pruned
// forward and backward upward graphs, plus enough of the original graph to
// unpack shortcuts and snap query points to roads.
type CHGraph struct {
	NumNodes uint32
	NodeLat  []float64
	NodeLon  []float64
	Level    []uint32

	// Forward upward graph: edges (u,v) with level[u] <= level[v].
	FwdFirstOut []uint32
	FwdHead     []uint32
	FwdWeight   []uint32
	FwdMiddle   []int32 // -1 for original edges, else the contracted midpoint node

	// Backward upward graph: edges (u,v) with level[u] >= level[v], stored
	// reversed so a backward search walks it like a forward one.
	BwdFirstOut []uint32
	BwdHead     []uint32
	BwdWeight   []uint32
	BwdMiddle   []int32

	// Original graph, kept in full for route geometry and for the point
	// snapping index (pkg/routing/snap.go) — the level-pruned graphs alone
	// cannot answer "what roads pass near this point".
	OrigFirstOut []uint32
	OrigHead     []uint32
	OrigWeight   []uint32

	GeoFirstOut []uint32
	GeoShapeLat []float64
	GeoShapeLon []float64
}

// FwdEdgesFrom returns the range of forward-graph edge indices from u.
func (c *CHGraph) FwdEdgesFrom(u NodeID) (start, end uint32) {
	return c.FwdFirstOut[u], c.FwdFirstOut[u+1]
}

// BwdEdgesFrom returns the range of backward-graph edge indices from u.
func (c *CHGraph) BwdEdgesFrom(u NodeID) (start, end uint32) {
	return c.BwdFirstOut[u], c.BwdFirstOut[u+1]
}

// OrigEdgesFrom returns the range of original-graph edge indices from u.
func (c *CHGraph) OrigEdgesFrom(u NodeID) (start, end uint32) {
	return c.OrigFirstOut[u], c.OrigFirstOut[u+1]
}
