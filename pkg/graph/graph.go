package graph

import "github.com/ResistanceIsUseless/reflow/pkg/logger"

// DataGraph owns the root data block, the list of live naming maps, and a
// holding list of named-block references orphaned by an aborted traversal.
// Held references keep their blocks alive until the next complete traversal
// has had a chance to re-reference them.
type DataGraph struct {
	root    DataBlock
	rootMap *NamingMap
	maps    *NamingMap
	unused  *namedRef

	component string
}

// New creates an empty data graph.
func New() *DataGraph {
	g := &DataGraph{component: "data-graph"}
	g.rootMap = newNamingMap(g)
	return g
}

// Root returns the root data block.
func (g *DataGraph) Root() *DataBlock { return &g.root }

// RootMap returns the graph's default naming map.
func (g *DataGraph) RootMap() *NamingMap { return g.rootMap }

// holdRefs parks a consumed-reference list on the holding list after an
// aborted traversal.
func (g *DataGraph) holdRefs(head *namedRef, tail **namedRef) {
	if head == nil {
		return
	}
	*tail = g.unused
	g.unused = head
}

// releaseUnused drops the holding list. Called after a complete traversal,
// when everything still reachable has been re-referenced.
func (g *DataGraph) releaseUnused() {
	count := 0
	r := g.unused
	g.unused = nil
	for r != nil {
		next := r.next
		r.next = nil
		r.destroy()
		r = next
		count++
	}
	if count > 0 {
		logger.DebugCF(g.component, "released held named block references", map[string]any{
			"count": count,
		})
	}
}
