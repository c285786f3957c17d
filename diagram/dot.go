package diagram

import (
	"fmt"

	"github.com/emicklei/dot"
)

const foreignKeyColor = "#1f77b4"

// DOT renders the graph in the Graphviz DOT language. Foreign-key
// targets missing from the graph are emitted as plain nodes.
func (g *Graph) DOT() (out string, err error) {
	defer func() {
		if r := recover(); r != nil {
			out = ""
			err = &RenderError{Err: fmt.Errorf("%v", r)}
		}
	}()

	d := dot.NewGraph(dot.Directed)
	d.Attr("rankdir", "LR")

	nodes := make(map[string]dot.Node, len(g.Nodes))
	for _, n := range g.Nodes {
		nodes[n.ID] = d.Node(n.ID).Label(n.Label).Attr("shape", string(n.Shape))
	}
	lookup := func(id string) dot.Node {
		if n, ok := nodes[id]; ok {
			return n
		}
		label := id
		if name, ok := tableName(id); ok {
			label = name
		}
		n := d.Node(id).Label(label)
		nodes[id] = n
		return n
	}

	for _, e := range g.Edges {
		edge := d.Edge(lookup(e.From), lookup(e.To))
		if e.Kind == EdgeForeignKey {
			edge.Label(e.Label).Attr("style", "dashed").Attr("color", foreignKeyColor).Attr("fontcolor", foreignKeyColor)
		}
	}
	return d.String(), nil
}
