package graph

import "sort"

// RawEdge is a single directed edge as produced by any loader, keyed by
// whatever node identifier that source format uses (osm.NodeID for OSM
// extracts, uint32 for FMI graphs).
type RawEdge[K comparable] struct {
	From, To  K
	Cost      Cost
	ShapeLats []float64
	ShapeLons []float64
}

// RawGraph is the loader-agnostic intermediate form Build consumes: an edge
// list plus node coordinates, both keyed by the loader's native id type.
type RawGraph[K comparable] struct {
	Edges   []RawEdge[K]
	NodeLat map[K]float64
	NodeLon map[K]float64
}

// Build remaps a RawGraph's sparse, loader-native node ids onto a dense
// [0,N) range and assembles the result into a CSR Graph, sorted by
// (source, target) for deterministic iteration. One function serves every
// loader because K is the only thing that varies between them.
func Build[K comparable](raw *RawGraph[K]) *Graph {
	if len(raw.Edges) == 0 {
		return &Graph{}
	}

	nodeIndex := make(map[K]NodeID)
	var nodeKeys []K
	indexOf := func(k K) NodeID {
		if idx, ok := nodeIndex[k]; ok {
			return idx
		}
		idx := NodeID(len(nodeKeys))
		nodeIndex[k] = idx
		nodeKeys = append(nodeKeys, k)
		return idx
	}

	for _, e := range raw.Edges {
		indexOf(e.From)
		indexOf(e.To)
	}
	numNodes := NodeID(len(nodeKeys))

	type compactEdge struct {
		from, to  NodeID
		cost      Cost
		shapeLats []float64
		shapeLons []float64
	}
	compact := make([]compactEdge, len(raw.Edges))
	for i, e := range raw.Edges {
		compact[i] = compactEdge{
			from:      nodeIndex[e.From],
			to:        nodeIndex[e.To],
			cost:      e.Cost,
			shapeLats: e.ShapeLats,
			shapeLons: e.ShapeLons,
		}
	}
	sort.Slice(compact, func(i, j int) bool {
		if compact[i].from != compact[j].from {
			return compact[i].from < compact[j].from
		}
		return compact[i].to < compact[j].to
	})

	numEdges := uint32(len(compact))
	firstOut := make([]uint32, numNodes+1)
	head := make([]uint32, numEdges)
	weight := make([]uint32, numEdges)
	geoFirstOut := make([]uint32, numEdges+1)
	var geoShapeLat, geoShapeLon []float64

	for i, e := range compact {
		head[i] = e.to
		weight[i] = e.cost
		geoFirstOut[i] = uint32(len(geoShapeLat))
		geoShapeLat = append(geoShapeLat, e.shapeLats...)
		geoShapeLon = append(geoShapeLon, e.shapeLons...)
		firstOut[e.from+1]++
	}
	geoFirstOut[numEdges] = uint32(len(geoShapeLat))
	for i := NodeID(1); i <= numNodes; i++ {
		firstOut[i] += firstOut[i-1]
	}

	nodeLat := make([]float64, numNodes)
	nodeLon := make([]float64, numNodes)
	for k, idx := range nodeIndex {
		nodeLat[idx] = raw.NodeLat[k]
		nodeLon[idx] = raw.NodeLon[k]
	}

	return &Graph{
		NumNodes:    numNodes,
		NumEdges:    numEdges,
		FirstOut:    firstOut,
		Head:        head,
		Weight:      weight,
		NodeLat:     nodeLat,
		NodeLon:     nodeLon,
		GeoFirstOut: geoFirstOut,
		GeoShapeLat: geoShapeLat,
		GeoShapeLon: geoShapeLon,
	}
}
