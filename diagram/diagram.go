// Package diagram builds the table/column/foreign-key graph of a schema
// and renders it as Graphviz DOT.
//
// The graph is built either from a parsed schema.Schema or from the
// raw column fragments of sqlddl.Tables. Foreign-key edges point at the
// referenced table's node, not the referenced column; the label names
// the referenced column.
package diagram

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/DachengChen/paiSchema/schema"
	"github.com/DachengChen/paiSchema/sqlddl"
)

// Shape is the rendered node shape.
type Shape string

const (
	ShapeBox     Shape = "box"
	ShapeEllipse Shape = "ellipse"
)

// EdgeKind distinguishes containment edges from foreign-key edges.
type EdgeKind int

const (
	EdgeContains EdgeKind = iota
	EdgeForeignKey
)

// Node is a table or column node.
type Node struct {
	ID    string
	Label string
	Shape Shape
}

// Edge connects two nodes by ID. A foreign-key edge may target a table
// that is not part of the graph's nodes.
type Edge struct {
	From  string
	To    string
	Label string
	Kind  EdgeKind
}

// Graph is built fresh for every request and never persisted.
type Graph struct {
	Nodes []Node
	Edges []Edge
	index map[string]int
}

// RenderError reports a failure while building or rendering a graph.
type RenderError struct {
	Err error
}

func (e *RenderError) Error() string { return "render diagram: " + e.Err.Error() }

func (e *RenderError) Unwrap() error { return e.Err }

func newGraph() *Graph {
	return &Graph{index: make(map[string]int)}
}

// Node returns the node with the given ID.
func (g *Graph) Node(id string) (Node, bool) {
	i, ok := g.index[id]
	if !ok {
		return Node{}, false
	}
	return g.Nodes[i], true
}

// Count returns the number of nodes with the given shape.
func (g *Graph) Count(shape Shape) int {
	n := 0
	for _, node := range g.Nodes {
		if node.Shape == shape {
			n++
		}
	}
	return n
}

// EdgesOf returns the edges of the given kind.
func (g *Graph) EdgesOf(kind EdgeKind) []Edge {
	var out []Edge
	for _, e := range g.Edges {
		if e.Kind == kind {
			out = append(out, e)
		}
	}
	return out
}

func (g *Graph) addNode(id, label string, shape Shape) {
	if _, ok := g.index[id]; ok {
		return
	}
	g.index[id] = len(g.Nodes)
	g.Nodes = append(g.Nodes, Node{ID: id, Label: label, Shape: shape})
}

func (g *Graph) addEdge(from, to, label string, kind EdgeKind) {
	g.Edges = append(g.Edges, Edge{From: from, To: to, Label: label, Kind: kind})
}

// TableID is the node ID of a table.
func TableID(table string) string { return "table:" + strconv.Quote(table) }

// ColumnID is the node ID of a column. Both parts are quoted so dotted
// names such as ("a.b", "c") and ("a", "b.c") stay distinct.
func ColumnID(table, column string) string {
	return "column:" + strconv.Quote(table) + "." + strconv.Quote(column)
}

// tableName recovers the table name from a TableID.
func tableName(id string) (string, bool) {
	rest, ok := strings.CutPrefix(id, "table:")
	if !ok {
		return "", false
	}
	name, err := strconv.Unquote(rest)
	return name, err == nil
}

// Build builds a graph from exactly one of s and tables.
func Build(s *schema.Schema, tables *sqlddl.Tables) (*Graph, error) {
	switch {
	case s != nil && tables == nil:
		return FromSchema(*s)
	case s == nil && tables != nil:
		return FromTables(*tables)
	default:
		return nil, &RenderError{Err: fmt.Errorf("exactly one of schema or SQL tables is required")}
	}
}

// FromSchema builds the graph of a parsed schema: one box per table,
// one ellipse per column labelled "table.column (type)", a containment
// edge per column and a labelled edge per foreign key.
func FromSchema(s schema.Schema) (g *Graph, err error) {
	defer recoverRender(&g, &err)

	g = newGraph()
	for _, t := range s.Tables {
		g.addNode(TableID(t.Name), t.Name, ShapeBox)
	}
	for _, t := range s.Tables {
		for _, c := range t.Columns {
			colID := ColumnID(t.Name, c.Name)
			g.addNode(colID, fmt.Sprintf("%s.%s (%s)", t.Name, c.Name, c.Type), ShapeEllipse)
			g.addEdge(TableID(t.Name), colID, "", EdgeContains)
			if c.ForeignKey != nil {
				g.addEdge(colID, TableID(c.ForeignKey.Table), c.ForeignKey.String(), EdgeForeignKey)
			}
		}
	}
	return g, nil
}

// FromTables builds the graph of SQL-extracted tables. Column labels
// are the raw fragments; no foreign-key edges are derived.
func FromTables(tables sqlddl.Tables) (g *Graph, err error) {
	defer recoverRender(&g, &err)

	g = newGraph()
	for _, name := range tables.Names {
		g.addNode(TableID(name), name, ShapeBox)
		for i, frag := range tables.Columns[name] {
			colID := fmt.Sprintf("%s#%d", ColumnID(name, ""), i)
			g.addNode(colID, frag, ShapeEllipse)
			g.addEdge(TableID(name), colID, "", EdgeContains)
		}
	}
	return g, nil
}

func recoverRender(g **Graph, err *error) {
	if r := recover(); r != nil {
		*g = nil
		*err = &RenderError{Err: fmt.Errorf("%v", r)}
	}
}
