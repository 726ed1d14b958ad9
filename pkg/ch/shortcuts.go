package ch

import "chway/pkg/graph"

// ShortcutGenerator decides, for a candidate node v, which (u,v,w) pairs
// need a shortcut edge (u,w) to preserve shortest paths once v is gone. It owns no state of its own beyond the shared witness scratch
// space; the live adjacency always comes from the store passed in.
type ShortcutGenerator struct {
	store *graph.Store
	ws    *witnessState
}

// NewShortcutGenerator creates a generator sharing ws across calls.
func NewShortcutGenerator(store *graph.Store, ws *witnessState) *ShortcutGenerator {
	return &ShortcutGenerator{store: store, ws: ws}
}

// NaiveShortcuts implements naive_shortcuts(v): for each incoming edge
// (u,v,c_uv), runs one witness search rooted at u with v banned and a
// ceiling of c_uv + max_w(c_vw), then emits a shortcut (u,w,c_uv+c_vw) for
// every outgoing edge (v,w,c_vw) whose witness cost strictly exceeds the
// candidate shortcut cost. Running one search per incoming neighbor instead
// of one per (u,w) pair turns an O(|in|*|out|) witness search count into
// O(|in|); every outgoing target is then checked for free against that
// single search's cost array.
func (g *ShortcutGenerator) NaiveShortcuts(v graph.NodeID) []graph.Edge {
	incoming := g.store.Incoming(v)
	outgoing := g.store.Outgoing(v)
	if len(incoming) == 0 || len(outgoing) == 0 {
		return nil
	}

	var shortcuts []graph.Edge

	for _, in := range incoming {
		var ceiling graph.Cost
		hasCandidate := false
		for _, out := range outgoing {
			if out.Target == in.Source {
				continue // would witness through the same neighbor it came from
			}
			hasCandidate = true
			if c := in.Cost + out.Cost; c > ceiling {
				ceiling = c
			}
		}
		if !hasCandidate {
			continue // every outgoing edge loops back to in.Source
		}

		witnessCost(g.ws, g.store, in.Source, v, ceiling)

		for _, out := range outgoing {
			if out.Target == in.Source {
				continue
			}
			candidate := in.Cost + out.Cost
			// Strict less-than: a witness that merely ties the candidate
			// cost still makes the shortcut redundant.
			if g.ws.cost[out.Target] > candidate {
				shortcuts = append(shortcuts, graph.Edge{
					Source: in.Source,
					Target: out.Target,
					Cost:   candidate,
					Middle: int32(v),
				})
			}
		}
	}

	return shortcuts
}

// PruneRedundant drops a candidate s whose cost is matched or beaten by
// routing through some other candidate s' that also avoids v. Off by
// default (see ContractOptions.PruneRedundantShortcuts); correctness of the
// overall hierarchy never depends on it, only shortcut count does.
func (g *ShortcutGenerator) PruneRedundant(candidates []graph.Edge, v graph.NodeID) []graph.Edge {
	if len(candidates) < 2 {
		return candidates
	}

	kept := make([]graph.Edge, 0, len(candidates))
	for i, s := range candidates {
		redundant := false
		for j, other := range candidates {
			if i == j || other.Source != s.Source {
				continue
			}
			// Is there a two-hop path s'.source -> s'.target -> s.target
			// (or equal) avoiding v that matches s's cost?
			if other.Target == s.Target || other.Cost > s.Cost {
				continue
			}
			tailCost, ok := witnessCostTo(g.ws, g.store, other.Target, s.Target, v, s.Cost-other.Cost)
			if ok && other.Cost+tailCost <= s.Cost {
				redundant = true
				break
			}
		}
		if !redundant {
			kept = append(kept, s)
		}
	}
	return kept
}
