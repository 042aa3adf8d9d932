package graph

import (
	"fmt"

	mapset "github.com/deckarep/golang-set/v2"
	"golang.org/x/exp/slices"
)

// AuditReport summarizes a consistency walk over the graph.
type AuditReport struct {
	// ReachableNamed counts named blocks reachable from the root block.
	ReachableNamed int
	// RegisteredNamed counts named blocks present in naming maps.
	RegisteredNamed int
	// Violations lists named blocks that break the GC contract: registered,
	// unreachable, still reference-counted, and not manually owned.
	Violations []string
}

// Audit cross-checks the named-block population against reachability from
// the root. After a complete refresh traversal the report should carry no
// violations.
func Audit(g *DataGraph) AuditReport {
	reachable := mapset.NewThreadUnsafeSet[*NamedBlock]()
	collectReachable(&g.root, reachable)

	registered := mapset.NewThreadUnsafeSet[*NamedBlock]()
	for m := g.maps; m != nil; m = m.next {
		m.tree.Ascend(func(nb *NamedBlock) bool {
			registered.Add(nb)
			return true
		})
	}

	report := AuditReport{
		ReachableNamed:  reachable.Cardinality(),
		RegisteredNamed: registered.Cardinality(),
	}
	for nb := range registered.Difference(reachable).Iter() {
		if nb.refCount > 0 && !nb.manualDelete {
			report.Violations = append(report.Violations,
				fmt.Sprintf("named block %v: unreachable but holds %d references", nb.key.Get(), nb.refCount))
		}
	}
	slices.Sort(report.Violations)
	return report
}

func collectReachable(b *DataBlock, out mapset.Set[*NamedBlock]) {
	for n := b.nodes; n != nil; n = n.next {
		switch v := n.value.(type) {
		case *DataBlock:
			collectReachable(v, out)
		case *[]*DataBlock:
			for _, pb := range *v {
				collectReachable(pb, out)
			}
		}
	}
	for r := b.refs; r != nil; r = r.next {
		if out.Add(r.block) {
			collectReachable(&r.block.block, out)
		}
	}
}
