package routing

import (
	"context"
	"errors"
	"math"
	"sync"

	"chway/pkg/graph"
)

// ErrNoRoute is returned when no route exists between the two points.
var ErrNoRoute = errors.New("no route found")

// ErrNodeOutOfRange is returned when a node-id query references an id >= N.
var ErrNodeOutOfRange = errors.New("node id out of range")

// LatLng represents a geographic coordinate.
type LatLng struct {
	Lat float64
	Lng float64
}

// Segment represents a road segment in the route result.
type Segment struct {
	DistanceMeters float64
	Geometry       []LatLng
}

// RouteResult is the output of a route query.
type RouteResult struct {
	TotalDistanceMeters float64
	Segments            []Segment
}

// NodeRouteResult is the output of a node-to-node query: the path cost and
// the sequence of original-graph nodes traversed, shortcuts unpacked.
type NodeRouteResult struct {
	Cost graph.Cost
	Path []graph.NodeID
}

// Router is the interface for route queries: geographic point-to-point
// routing, and raw node-id queries against the hierarchy.
type Router interface {
	Route(ctx context.Context, start, end LatLng) (*RouteResult, error)
	NodeRoute(ctx context.Context, source, target graph.NodeID) (*NodeRouteResult, error)
}

// Engine implements Router on top of a contracted hierarchy: it snaps query
// points onto the nearest road segment, runs a bidirectional Dijkstra seeded
// from both segment endpoints over the level-pruned graphs, then unpacks the
// resulting shortcut path back into original edges for the response
// geometry. The pure node-to-node query engine lives in pkg/ch; this is
// the point-to-point layer built on top of it.
type Engine struct {
	chg       *graph.CHGraph
	origGraph *graph.Graph
	snapper   *Snapper
	qsPool    sync.Pool
}

// NewEngine creates a routing engine from a CH graph and the original graph.
func NewEngine(chg *graph.CHGraph, origGraph *graph.Graph) *Engine {
	e := &Engine{
		chg:       chg,
		origGraph: origGraph,
		snapper:   NewSnapper(origGraph),
	}
	e.qsPool.New = func() any {
		return NewQueryState(chg.NumNodes)
	}
	return e
}

// Route computes the shortest path between two points.
func (e *Engine) Route(ctx context.Context, start, end LatLng) (*RouteResult, error) {
	startSnap, err := e.snapper.Snap(start.Lat, start.Lng)
	if err != nil {
		return nil, err
	}
	endSnap, err := e.snapper.Snap(end.Lat, end.Lng)
	if err != nil {
		return nil, err
	}

	qs := e.qsPool.Get().(*QueryState)
	defer func() {
		qs.Reset()
		e.qsPool.Put(qs)
	}()

	seedForward(qs, e.origGraph, startSnap)
	seedBackward(qs, e.origGraph, endSnap)

	mu, meetNode := e.runCHDijkstra(ctx, qs)

	if meetNode == graph.NoNode || mu == graph.MaxCost {
		return nil, ErrNoRoute
	}

	overlayNodes := e.reconstructOverlayPath(meetNode, qs.PredFwd, qs.PredBwd)
	origNodes := unpackOverlayPath(e.chg, overlayNodes)

	totalDistMeters := float64(mu) / 1000.0
	geometry := e.buildGeometry(origNodes)

	return &RouteResult{
		TotalDistanceMeters: totalDistMeters,
		Segments: []Segment{
			{DistanceMeters: totalDistMeters, Geometry: geometry},
		},
	}, nil
}

// NodeRoute computes the shortest path between two graph node ids. The
// source and target seed the two searches directly, with no snapping step;
// this is the bare query surface of the hierarchy, used by the node-route
// API endpoint.
func (e *Engine) NodeRoute(ctx context.Context, source, target graph.NodeID) (*NodeRouteResult, error) {
	if source >= e.chg.NumNodes || target >= e.chg.NumNodes {
		return nil, ErrNodeOutOfRange
	}
	if source == target {
		return &NodeRouteResult{Cost: 0, Path: []graph.NodeID{source}}, nil
	}

	qs := e.qsPool.Get().(*QueryState)
	defer func() {
		qs.Reset()
		e.qsPool.Put(qs)
	}()

	qs.touchFwd(source, 0)
	qs.FwdPQ.Push(source, 0)
	qs.touchBwd(target, 0)
	qs.BwdPQ.Push(target, 0)

	mu, meetNode := e.runCHDijkstra(ctx, qs)
	if meetNode == graph.NoNode || mu == graph.MaxCost {
		return nil, ErrNoRoute
	}

	overlayNodes := e.reconstructOverlayPath(meetNode, qs.PredFwd, qs.PredBwd)
	return &NodeRouteResult{Cost: mu, Path: unpackOverlayPath(e.chg, overlayNodes)}, nil
}

// reconstructOverlayPath builds the full overlay node path from the source
// seed through meetNode to the target seed.
func (e *Engine) reconstructOverlayPath(meetNode graph.NodeID, predFwd, predBwd []graph.NodeID) []graph.NodeID {
	fwdPath := make([]graph.NodeID, 0, 16)
	node := meetNode
	for {
		fwdPath = append(fwdPath, node)
		pred := predFwd[node]
		if pred == graph.NoNode {
			break
		}
		node = pred
	}
	for i, j := 0, len(fwdPath)-1; i < j; i, j = i+1, j-1 {
		fwdPath[i], fwdPath[j] = fwdPath[j], fwdPath[i]
	}

	// predBwd[v] = u means original direction v -> u (toward target).
	node = meetNode
	for {
		pred := predBwd[node]
		if pred == graph.NoNode {
			break
		}
		fwdPath = append(fwdPath, pred)
		node = pred
	}

	return fwdPath
}

// buildGeometry converts a sequence of original graph node IDs into lat/lng
// coordinates, including intermediate shape points from edge geometry.
func (e *Engine) buildGeometry(nodes []graph.NodeID) []LatLng {
	if len(nodes) == 0 {
		return nil
	}

	g := e.origGraph
	geom := make([]LatLng, 0, len(nodes)*2)
	geom = append(geom, LatLng{Lat: g.NodeLat[nodes[0]], Lng: g.NodeLon[nodes[0]]})

	for i := 0; i < len(nodes)-1; i++ {
		u := nodes[i]
		v := nodes[i+1]

		if g.GeoFirstOut != nil {
			edgeIdx := findEdge(g.FirstOut, g.Head, u, v)
			if edgeIdx != graph.NoNode && edgeIdx < uint32(len(g.GeoFirstOut)-1) {
				geoStart := g.GeoFirstOut[edgeIdx]
				geoEnd := g.GeoFirstOut[edgeIdx+1]
				for k := geoStart; k < geoEnd; k++ {
					geom = append(geom, LatLng{Lat: g.GeoShapeLat[k], Lng: g.GeoShapeLon[k]})
				}
			}
		}

		geom = append(geom, LatLng{Lat: g.NodeLat[v], Lng: g.NodeLon[v]})
	}

	return geom
}

// seedForward seeds the forward PQ with the start snap point's reachable
// endpoints, each at its share of the edge weight from the snapped point.
func seedForward(qs *QueryState, g *graph.Graph, snap SnapResult) {
	u := snap.NodeU
	v := snap.NodeV
	weight := g.Weight[snap.EdgeIdx]

	dv := graph.Cost(math.Round(float64(weight) * (1 - snap.Ratio)))
	qs.touchFwd(v, dv)
	qs.FwdPQ.Push(v, dv)

	du := graph.Cost(math.Round(float64(weight) * snap.Ratio))
	qs.touchFwd(u, du)
	qs.FwdPQ.Push(u, du)
}

// seedBackward seeds the backward PQ with the end snap point's reachable
// endpoints.
func seedBackward(qs *QueryState, g *graph.Graph, snap SnapResult) {
	u := snap.NodeU
	v := snap.NodeV
	weight := g.Weight[snap.EdgeIdx]

	du := graph.Cost(math.Round(float64(weight) * snap.Ratio))
	qs.touchBwd(u, du)
	qs.BwdPQ.Push(u, du)

	dv := graph.Cost(math.Round(float64(weight) * (1 - snap.Ratio)))
	qs.touchBwd(v, dv)
	qs.BwdPQ.Push(v, dv)
}

// runCHDijkstra runs bidirectional CH Dijkstra with predecessor tracking
// over the level-pruned forward and backward graphs.
func (e *Engine) runCHDijkstra(ctx context.Context, qs *QueryState) (graph.Cost, graph.NodeID) {
	mu := graph.MaxCost
	meetNode := graph.NoNode

	iterations := uint32(0)

	for {
		fwdMin := qs.FwdPQ.PeekDist()
		bwdMin := qs.BwdPQ.PeekDist()
		if fwdMin >= mu && bwdMin >= mu {
			break
		}

		iterations++
		if iterations&255 == 0 {
			if ctx.Err() != nil {
				return mu, meetNode
			}
		}

		if fwdMin < mu {
			item := qs.FwdPQ.Pop()
			u := item.Node
			d := item.Dist

			if d <= qs.DistFwd[u] {
				if qs.DistBwd[u] != graph.MaxCost {
					if candidate := d + qs.DistBwd[u]; candidate < mu {
						mu = candidate
						meetNode = u
					}
				}

				fStart, fEnd := e.chg.FwdEdgesFrom(u)
				for ei := fStart; ei < fEnd; ei++ {
					v := e.chg.FwdHead[ei]
					newDist := d + e.chg.FwdWeight[ei]
					if newDist < qs.DistFwd[v] {
						qs.touchFwd(v, newDist)
						qs.FwdPQ.Push(v, newDist)
						qs.PredFwd[v] = u
					}
				}
			}
		}

		if qs.BwdPQ.PeekDist() < mu {
			item := qs.BwdPQ.Pop()
			u := item.Node
			d := item.Dist

			if d <= qs.DistBwd[u] {
				if qs.DistFwd[u] != graph.MaxCost {
					if candidate := qs.DistFwd[u] + d; candidate < mu {
						mu = candidate
						meetNode = u
					}
				}

				bStart, bEnd := e.chg.BwdEdgesFrom(u)
				for ei := bStart; ei < bEnd; ei++ {
					v := e.chg.BwdHead[ei]
					newDist := d + e.chg.BwdWeight[ei]
					if newDist < qs.DistBwd[v] {
						qs.touchBwd(v, newDist)
						qs.BwdPQ.Push(v, newDist)
						qs.PredBwd[v] = u
					}
				}
			}
		}
	}

	return mu, meetNode
}
