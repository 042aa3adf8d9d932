// Package routing implements the hierarchical region tree used to prune
// targeted event delivery. Regions are reconstructed each traversal and
// parent-linked, so a path from any node to the root can be rebuilt without
// global bookkeeping.
package routing

import "github.com/ResistanceIsUseless/reflow/pkg/ids"

// Region is a node in the per-traversal region tree. The record itself is
// owned by a slot in the data graph and survives across traversals; only the
// parent link is rewritten as the tree is rebuilt.
type Region struct {
	parent *Region
}

// Parent returns the enclosing region, or nil at the root.
func (r *Region) Parent() *Region { return r.parent }

// SetParent links the region under its enclosing region for this traversal.
func (r *Region) SetParent(p *Region) { r.parent = p }

// NodeID packages a node's value identity with the region that was active
// when the node was observed. Targeted events carry one to route delivery.
type NodeID struct {
	ID     ids.Captured
	Region *Region
}

// MakeNodeID captures id against region.
func MakeNodeID(id ids.ID, region *Region) NodeID {
	return NodeID{ID: ids.Capture(id), Region: region}
}

// Matches reports whether the target identity equals id.
func (n *NodeID) Matches(id ids.ID) bool { return n.ID.Matches(id) }

// PathElement is one step of the root-to-target path assembled before a
// targeted dispatch. The list is threaded head-first from the root.
type PathElement struct {
	Region *Region
	Rest   *PathElement
}

// BuildPath walks from the target's region to the root and returns the path
// in root-first order.
func BuildPath(target *Region) *PathElement {
	var head *PathElement
	for r := target; r != nil; r = r.parent {
		head = &PathElement{Region: r, Rest: head}
	}
	return head
}
