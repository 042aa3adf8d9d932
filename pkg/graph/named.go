package graph

import (
	"github.com/google/btree"

	"github.com/ResistanceIsUseless/reflow/pkg/ids"
	"github.com/ResistanceIsUseless/reflow/pkg/logger"
)

// NamedBlock is a data block addressed by value identity within a naming
// map. It is co-owned by its references; the map entry is a non-owning
// back-reference.
type NamedBlock struct {
	key   ids.Captured
	block DataBlock

	// refCount counts the block-slot references holding this block alive.
	refCount int
	// activeCount counts the references used during the current pass. When
	// it reaches zero all recomputable data inside the block is cleared.
	activeCount int

	manualDelete bool
	owner        *NamingMap
}

// Key returns the block's identity.
func (nb *NamedBlock) Key() ids.ID { return nb.key.Get() }

// release drops one owning reference. At zero the block is destroyed and
// removed from its map, unless it is manually owned, in which case only its
// caches are cleared.
func (nb *NamedBlock) release() {
	nb.refCount--
	if nb.refCount > 0 {
		return
	}
	if nb.manualDelete {
		nb.block.clearCaches()
		return
	}
	if nb.owner != nil {
		nb.owner.remove(nb)
	}
	nb.block.destroyContents()
}

// namedRef is one block-slot's reference to a named block.
type namedRef struct {
	next   *namedRef
	block  *NamedBlock
	active bool
}

func newNamedRef(nb *NamedBlock) *namedRef {
	nb.refCount++
	return &namedRef{block: nb}
}

// activate records that the reference is used this pass.
func (r *namedRef) activate() {
	if !r.active {
		r.active = true
		r.block.activeCount++
	}
}

// deactivate undoes activate. The last deactivation clears the named
// block's recomputable caches while preserving persistent state.
func (r *namedRef) deactivate() {
	if !r.active {
		return
	}
	r.active = false
	r.block.activeCount--
	if r.block.activeCount == 0 {
		r.block.block.clearCaches()
	}
}

// destroy deactivates, then releases the underlying block. Clear-then-unlink
// order is deliberate.
func (r *namedRef) destroy() {
	r.deactivate()
	r.block.release()
}

// NamingMap associates value identities with named blocks so state can be
// reassociated with logical items across passes regardless of visit order.
// Maps are linked into their graph so destroying the holding slot unlinks
// them.
type NamingMap struct {
	gr   *DataGraph
	tree *btree.BTreeG[*NamedBlock]

	next, prev *NamingMap
}

func newNamingMap(g *DataGraph) *NamingMap {
	m := &NamingMap{
		gr: g,
		tree: btree.NewG(2, func(a, b *NamedBlock) bool {
			return a.key.Less(&b.key)
		}),
	}
	m.next = g.maps
	if g.maps != nil {
		g.maps.prev = m
	}
	g.maps = m
	return m
}

func (m *NamingMap) lookup(id ids.ID) *NamedBlock {
	probe := &NamedBlock{key: ids.Borrow(id)}
	nb, ok := m.tree.Get(probe)
	if !ok {
		return nil
	}
	return nb
}

func (m *NamingMap) insert(id ids.ID, manualDelete bool) *NamedBlock {
	nb := &NamedBlock{
		key:          ids.Capture(id),
		manualDelete: manualDelete,
		owner:        m,
	}
	m.tree.ReplaceOrInsert(nb)
	return nb
}

func (m *NamingMap) remove(nb *NamedBlock) {
	m.tree.Delete(nb)
	nb.owner = nil
}

// Delete removes the named block for id, clearing its caches first. This is
// the manual-ownership path; blocks still referenced stay alive until their
// references drop.
func (m *NamingMap) Delete(id ids.ID) bool {
	nb := m.lookup(id)
	if nb == nil {
		return false
	}
	m.remove(nb)
	nb.block.clearCaches()
	if nb.refCount == 0 {
		nb.block.destroyContents()
	}
	return true
}

// Len returns the number of named blocks in the map.
func (m *NamingMap) Len() int { return m.tree.Len() }

// unlink removes the map from its graph and orphans its entries. Entries
// keep their data alive through their references; they just lose the map
// back-pointer.
func (m *NamingMap) unlink() {
	m.tree.Ascend(func(nb *NamedBlock) bool {
		nb.owner = nil
		return true
	})
	m.tree.Clear(false)

	if m.prev != nil {
		m.prev.next = m.next
	} else if m.gr != nil && m.gr.maps == m {
		m.gr.maps = m.next
	}
	if m.next != nil {
		m.next.prev = m.prev
	}
	m.next, m.prev = nil, nil

	logger.DebugCF("data-graph", "naming map unlinked", nil)
}
