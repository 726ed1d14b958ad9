// Package graph holds the data model shared by preprocessing and queries:
// a frozen CSR graph for loaded input, a mutable bidirectional adjacency
// store used only during contraction, and the post-contraction CH overlay.
package graph

// NodeID identifies a node by its dense index in [0, N).
type NodeID = uint32

// Cost is an edge weight or path cost. Costs are non-negative; callers must
// ensure additions of two costs never overflow, since sums are not checked.
type Cost = uint32

// NoNode is the sentinel for "no node" (missing predecessor, failed lookup).
const NoNode NodeID = ^NodeID(0)

// MaxCost is the sentinel for "unreached"/infinite cost.
const MaxCost Cost = ^Cost(0)

// Edge is a directed, weighted edge. Middle is -1 for edges present in the
// original input graph, or the id of the node whose contraction created the
// edge (a shortcut).
type Edge struct {
	Source NodeID
	Target NodeID
	Cost   Cost
	Middle int32
}

// IsShortcut reports whether e was inserted by contraction rather than
// present in the original input.
func (e Edge) IsShortcut() bool { return e.Middle >= 0 }
