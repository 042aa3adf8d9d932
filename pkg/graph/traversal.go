package graph

import (
	"reflect"

	"github.com/ResistanceIsUseless/reflow/pkg/ids"
	"github.com/ResistanceIsUseless/reflow/pkg/logger"
)

// Traversal is the cursor for one pass over the data graph. It tracks the
// active block, the slot where the next data node will be read or written,
// the active naming map, and the bookkeeping for named-block reordering.
//
// A traversal is single-threaded and scoped to one controller invocation.
type Traversal struct {
	gr *DataGraph

	block *DataBlock
	// next addresses the link where the next visited node lives.
	next **dataNode

	namingMap *NamingMap

	// predicted addresses the link of the next named-block reference
	// expected under the current block. Hits unlink the reference and move
	// it to the used list.
	predicted **namedRef
	used      *namedRef
	usedTail  **namedRef

	gcEnabled            bool
	cacheClearingEnabled bool
}

// NewTraversal positions a cursor at the graph root. GC and cache clearing
// are enabled for refresh passes only; every other event traverses with both
// disabled.
func NewTraversal(g *DataGraph, gcEnabled bool) *Traversal {
	return &Traversal{
		gr:                   g,
		namingMap:            g.rootMap,
		gcEnabled:            gcEnabled,
		cacheClearingEnabled: gcEnabled,
	}
}

// Graph returns the graph this cursor walks.
func (tr *Traversal) Graph() *DataGraph { return tr.gr }

// GCEnabled reports whether this pass garbage-collects.
func (tr *Traversal) GCEnabled() bool { return tr.gcEnabled }

// Run executes body over the root block. On normal completion with GC
// enabled the root's unreached named references are collected and the
// graph's holding list is released; on abort the consumed references are
// parked on the holding list instead.
func (tr *Traversal) Run(body func()) {
	tr.VisitBlock(&tr.gr.root, body)
	if tr.gcEnabled {
		tr.gr.releaseUnused()
	}
}

// savedScope is the block-local cursor state restored on scope exit.
type savedScope struct {
	block     *DataBlock
	next      **dataNode
	predicted **namedRef
	used      *namedRef
	usedTail  **namedRef
}

func (tr *Traversal) beginBlock(b *DataBlock) savedScope {
	saved := savedScope{
		block:     tr.block,
		next:      tr.next,
		predicted: tr.predicted,
		used:      tr.used,
		usedTail:  tr.usedTail,
	}
	tr.block = b
	tr.next = &b.nodes
	tr.predicted = &b.refs
	tr.used = nil
	tr.usedTail = &tr.used
	b.cachesCleared = false
	return saved
}

func (tr *Traversal) endBlock(b *DataBlock, saved savedScope, completed bool) {
	switch {
	case completed && tr.gcEnabled:
		// Whatever is left on the block's old list was predicted but never
		// used this pass; collect it. The used list becomes the new order.
		collected := 0
		r := b.refs
		for r != nil {
			next := r.next
			r.next = nil
			r.destroy()
			r = next
			collected++
		}
		b.refs = tr.used
		if collected > 0 {
			logger.DebugCF(tr.gr.component, "collected named block references", map[string]any{
				"count": collected,
			})
		}
	case completed:
		// GC disabled: consumed references were unlinked in order; splice
		// them back in front of the unconsumed tail.
		*tr.usedTail = b.refs
		b.refs = tr.used
	default:
		// Aborted: keep consumed references alive until the next complete
		// traversal can re-reference their blocks.
		tr.gr.holdRefs(tr.used, tr.usedTail)
	}

	tr.block = saved.block
	tr.next = saved.next
	tr.predicted = saved.predicted
	tr.used = saved.used
	tr.usedTail = saved.usedTail
}

// VisitBlock traverses b as the active block for the duration of body. The
// cursor state is restored even when body panics (e.g. a traversal abort);
// GC then skips the block.
func (tr *Traversal) VisitBlock(b *DataBlock, body func()) {
	saved := tr.beginBlock(b)
	completed := false
	defer func() {
		tr.endBlock(b, saved, completed)
	}()
	body()
	completed = true
}

// SkipBlock clears b's caches when cache clearing is enabled. Used for
// branches the controller did not take this pass.
func (tr *Traversal) SkipBlock(b *DataBlock) {
	if tr.cacheClearingEnabled {
		b.clearCaches()
	}
}

// getNode fetches or creates the next node in the current block as a slot of
// type T. Revisiting a slot with a different type is a hard failure.
func getNode[T any](tr *Traversal) (*dataNode, bool) {
	if n := *tr.next; n != nil {
		if _, ok := n.value.(*T); !ok {
			panic(&SlotTypeError{
				Expected: reflect.TypeOf((*T)(nil)).Elem(),
				Actual:   n.valueType(),
			})
		}
		tr.next = &n.next
		return n, false
	}
	n := &dataNode{value: new(T)}
	*tr.next = n
	tr.next = &n.next
	return n, true
}

// GetData returns the persistent slot of type T at the cursor's position,
// reporting whether the slot was created by this call. A given call site
// returns the same slot on every traversal as long as the controller's
// control-flow skeleton is unchanged.
func GetData[T any](tr *Traversal) (*T, bool) {
	n, fresh := getNode[T](tr)
	return n.value.(*T), fresh
}

// ChildBlock returns the child data block stored at the cursor's position,
// creating it on first visit. Child blocks participate in recursive cache
// clearing and teardown.
func (tr *Traversal) ChildBlock() *DataBlock {
	n, fresh := getNode[DataBlock](tr)
	b := n.value.(*DataBlock)
	if fresh {
		n.clearCache = b.clearCaches
		n.destroy = b.destroyContents
	}
	return b
}

// GetNamingMap returns the naming map stored at the cursor's position,
// creating and linking it on first visit.
func GetNamingMap(tr *Traversal) *NamingMap {
	n, fresh := getNode[*NamingMap](tr)
	p := n.value.(**NamingMap)
	if fresh {
		*p = newNamingMap(tr.gr)
		m := *p
		n.destroy = m.unlink
	}
	return *p
}

// CurrentMap returns the naming map named blocks resolve against.
func (tr *Traversal) CurrentMap() *NamingMap { return tr.namingMap }

// WithMap runs body with m as the active naming map.
func (tr *Traversal) WithMap(m *NamingMap, body func()) {
	saved := tr.namingMap
	tr.namingMap = m
	defer func() { tr.namingMap = saved }()
	body()
}

// fetchNamedRef resolves the reference for id under map m. The predicted
// reference is the O(1) hot path; anything else requires GC to be enabled.
func (tr *Traversal) fetchNamedRef(m *NamingMap, id ids.ID, manualDelete bool) *namedRef {
	if p := *tr.predicted; p != nil && p.block.owner == m && p.block.key.Matches(id) {
		*tr.predicted = p.next
		p.next = nil
		return p
	}
	if !tr.gcEnabled {
		panic(&OutOfOrderError{Key: reflect.TypeOf(id).String()})
	}
	nb := m.lookup(id)
	if nb == nil {
		nb = m.insert(id, manualDelete)
	}
	return newNamedRef(nb)
}

// NamedBlockIn enters the named block for id under map m, creating it on
// first use, and runs body inside it. References consumed this pass define
// the block list's new order.
func (tr *Traversal) NamedBlockIn(m *NamingMap, id ids.ID, body func()) {
	tr.namedBlock(m, id, false, body)
}

// NamedBlock enters the named block for id under the current naming map.
func (tr *Traversal) NamedBlock(id ids.ID, body func()) {
	tr.namedBlock(tr.namingMap, id, false, body)
}

// ManualNamedBlock enters a named block that survives losing all references;
// it must be removed with NamingMap.Delete.
func (tr *Traversal) ManualNamedBlock(m *NamingMap, id ids.ID, body func()) {
	tr.namedBlock(m, id, true, body)
}

func (tr *Traversal) namedBlock(m *NamingMap, id ids.ID, manualDelete bool, body func()) {
	ref := tr.fetchNamedRef(m, id, manualDelete)
	ref.activate()
	*tr.usedTail = ref
	tr.usedTail = &ref.next

	tr.WithMap(m, func() {
		tr.VisitBlock(&ref.block.block, body)
	})
}
