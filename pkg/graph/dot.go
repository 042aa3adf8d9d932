package graph

import (
	"fmt"
	"io"

	"github.com/emicklei/dot"
)

// WriteDOT renders the live block tree in graphviz DOT form for debugging.
// Blocks become nodes, child blocks and loop pools become edges, and named
// references become labeled edges to their named blocks.
func WriteDOT(g *DataGraph, w io.Writer) error {
	dg := dot.NewGraph(dot.Directed)
	seq := 0
	emitBlock(dg, &g.root, "root", &seq)
	_, err := io.WriteString(w, dg.String())
	if err != nil {
		return fmt.Errorf("failed to write dot graph: %w", err)
	}
	return nil
}

func emitBlock(dg *dot.Graph, b *DataBlock, label string, seq *int) dot.Node {
	*seq++
	node := dg.Node(fmt.Sprintf("b%d", *seq))
	slots := 0
	for n := b.nodes; n != nil; n = n.next {
		slots++
	}
	node.Attr("label", fmt.Sprintf("%s (%d slots)", label, slots))

	childIndex := 0
	for n := b.nodes; n != nil; n = n.next {
		switch v := n.value.(type) {
		case *DataBlock:
			child := emitBlock(dg, v, fmt.Sprintf("block[%d]", childIndex), seq)
			dg.Edge(node, child)
			childIndex++
		case *[]*DataBlock:
			for i, pb := range *v {
				child := emitBlock(dg, pb, fmt.Sprintf("iter[%d]", i), seq)
				dg.Edge(node, child)
			}
			childIndex++
		case **NamingMap:
			*seq++
			mapNode := dg.Node(fmt.Sprintf("m%d", *seq))
			mapNode.Attr("label", fmt.Sprintf("map (%d named)", (*v).Len()))
			mapNode.Attr("shape", "box")
			dg.Edge(node, mapNode)
		}
	}

	for r := b.refs; r != nil; r = r.next {
		nb := r.block
		child := emitBlock(dg, &nb.block, fmt.Sprintf("named %v", nb.key.Get()), seq)
		dg.Edge(node, child).Attr("style", "dashed").
			Attr("label", fmt.Sprintf("refs=%d active=%d", nb.refCount, nb.activeCount))
	}
	return node
}
