// Package graph implements the data graph: a lazily constructed persistent
// store keyed by the control-flow path of a traversal. Each logical node the
// controller visits gets a stable slot for state, caches, and named
// subtrees, and refresh traversals garbage-collect whatever the controller
// no longer reaches.
package graph

import "reflect"

// dataNode is one typed slot in a data block. Nodes are created in visit
// order on first traversal and reused by slot position afterwards.
type dataNode struct {
	next *dataNode

	// value holds a *T for the slot's element type.
	value any

	// clearCache releases recomputable state held by the node. Cache
	// holders drop their cell; child-block nodes recurse. Nil for plain
	// persistent state.
	clearCache func()

	// destroy tears down graph-owned resources when the containing block
	// dies: naming maps unlink from the graph, child blocks recurse.
	destroy func()
}

func (n *dataNode) valueType() reflect.Type {
	return reflect.TypeOf(n.value).Elem()
}

// DataBlock is an ordered store of data nodes plus an ordered list of
// named-block references. A block's lifetime is the lifetime of its
// containing block.
type DataBlock struct {
	nodes *dataNode
	refs  *namedRef

	// cachesCleared guards clearCaches so repeated clears are cheap.
	cachesCleared bool
}

// clearCaches releases all recomputable data in the block, recursing into
// child blocks and deactivating the block's named references. Persistent
// state survives. Idempotent.
func (b *DataBlock) clearCaches() {
	if b.cachesCleared {
		return
	}
	b.cachesCleared = true
	for n := b.nodes; n != nil; n = n.next {
		if n.clearCache != nil {
			n.clearCache()
		}
	}
	for r := b.refs; r != nil; r = r.next {
		r.deactivate()
	}
}

// destroyContents tears down everything the block owns. Named references are
// deactivated before they are released so sibling teardown observes cleared
// caches deterministically.
func (b *DataBlock) destroyContents() {
	for n := b.nodes; n != nil; n = n.next {
		if n.destroy != nil {
			n.destroy()
		}
	}
	r := b.refs
	b.nodes = nil
	b.refs = nil
	for r != nil {
		next := r.next
		r.next = nil
		r.destroy()
		r = next
	}
}
