package routing

import (
	"errors"
	"math"

	"github.com/tidwall/rtree"

	"chway/pkg/geo"
	"chway/pkg/graph"
)

const maxSnapDistMeters = 500.0

// metersPerDegreeLat converts a meter radius into an approximate degree
// radius for building an R-tree search box; good enough everywhere since we
// only use it to size a conservative bounding box, not for the final
// distance check (geo.PointToSegmentDist does that in meters).
const metersPerDegreeLat = 111_320.0

// ErrPointTooFar is returned when the query point is too far from any road.
var ErrPointTooFar = errors.New("point too far from road")

// SnapResult represents a point snapped to a road segment.
type SnapResult struct {
	EdgeIdx graph.NodeID // index into original edge arrays
	NodeU   graph.NodeID // source node of the edge
	NodeV   graph.NodeID // target node of the edge
	Ratio   float64      // 0.0 = at NodeU, 1.0 = at NodeV
	Dist    float64      // distance in meters from query point to snapped point
}

// Snapper finds the nearest road segment to a query point, backed by an
// R-tree over every edge's bounding box.
type Snapper struct {
	tree rtree.RTreeG[graph.NodeID]
	g    *graph.Graph
}

// NewSnapper indexes every edge of g by its (lat,lon) bounding box.
func NewSnapper(g *graph.Graph) *Snapper {
	s := &Snapper{g: g}
	for u := graph.NodeID(0); u < g.NumNodes; u++ {
		start, end := g.EdgesFrom(u)
		for e := start; e < end; e++ {
			v := g.Head[e]
			uLat, uLon := g.NodeLat[u], g.NodeLon[u]
			vLat, vLon := g.NodeLat[v], g.NodeLon[v]
			min := [2]float64{math.Min(uLon, vLon), math.Min(uLat, vLat)}
			max := [2]float64{math.Max(uLon, vLon), math.Max(uLat, vLat)}
			s.tree.Insert(min, max, e)
		}
	}
	return s
}

// Snap finds the nearest road segment to the given lat/lng within
// maxSnapDistMeters, searching a bounding box sized to the max snap radius
// around the query point.
func (s *Snapper) Snap(lat, lng float64) (SnapResult, error) {
	cosLat := math.Cos(lat * math.Pi / 180)
	if cosLat < 0.01 {
		cosLat = 0.01 // guard against poles; irrelevant for road networks
	}
	degLat := maxSnapDistMeters / metersPerDegreeLat
	degLon := degLat / cosLat

	bestDist := math.Inf(1)
	var bestResult SnapResult
	found := false

	min := [2]float64{lng - degLon, lat - degLat}
	max := [2]float64{lng + degLon, lat + degLat}
	s.tree.Search(min, max, func(_, _ [2]float64, edgeIdx graph.NodeID) bool {
		u := edgeSource(s.g, edgeIdx)
		v := s.g.Head[edgeIdx]

		dist, ratio := geo.PointToSegmentDist(
			lat, lng,
			s.g.NodeLat[u], s.g.NodeLon[u],
			s.g.NodeLat[v], s.g.NodeLon[v],
		)
		if dist < bestDist {
			bestDist = dist
			bestResult = SnapResult{EdgeIdx: edgeIdx, NodeU: u, NodeV: v, Ratio: ratio, Dist: dist}
			found = true
		}
		return true
	})

	if !found || bestDist > maxSnapDistMeters {
		return SnapResult{}, ErrPointTooFar
	}
	return bestResult, nil
}

// edgeSource finds the source node owning edge index e via binary search
// over the CSR first-out array.
func edgeSource(g *graph.Graph, e graph.NodeID) graph.NodeID {
	lo, hi := graph.NodeID(0), g.NumNodes
	for lo < hi {
		mid := (lo + hi) / 2
		if g.FirstOut[mid+1] <= e {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	return lo
}
