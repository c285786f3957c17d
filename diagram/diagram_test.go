package diagram

import (
	"fmt"
	"math/rand"
	"strings"
	"testing"

	"github.com/DachengChen/paiSchema/schema"
	"github.com/DachengChen/paiSchema/sqlddl"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleSchema() schema.Schema {
	return schema.Schema{Tables: []schema.Table{
		{Name: "users", Columns: []schema.Column{
			{Name: "id", Type: "integer"},
			{Name: "email", Type: "string"},
		}},
		{Name: "orders", Columns: []schema.Column{
			{Name: "id", Type: "integer"},
			{Name: "user_id", Type: "integer", ForeignKey: &schema.ForeignKey{Table: "users", Column: "id"}},
			{Name: "coupon_id", Type: "integer", ForeignKey: &schema.ForeignKey{Table: "coupons", Column: "code"}},
		}},
	}}
}

func TestFromSchemaShape(t *testing.T) {
	g, err := FromSchema(sampleSchema())
	require.NoError(t, err)

	assert.Equal(t, 2, g.Count(ShapeBox))
	assert.Equal(t, 5, g.Count(ShapeEllipse))
	assert.Len(t, g.EdgesOf(EdgeContains), 5)

	n, ok := g.Node(ColumnID("orders", "user_id"))
	require.True(t, ok)
	assert.Equal(t, "orders.user_id (integer)", n.Label)

	fks := g.EdgesOf(EdgeForeignKey)
	require.Len(t, fks, 2)
	assert.Equal(t, Edge{From: ColumnID("orders", "user_id"), To: TableID("users"), Label: "users.id", Kind: EdgeForeignKey}, fks[0])
	// dangling reference still renders, targeting the table node ID
	assert.Equal(t, TableID("coupons"), fks[1].To)
	_, ok = g.Node(TableID("coupons"))
	assert.False(t, ok)
}

func TestFromTables(t *testing.T) {
	tables := sqlddl.ExtractTables("CREATE TABLE users (id INT, name TEXT); CREATE TABLE tags (label TEXT REFERENCES users(name));")
	g, err := FromTables(tables)
	require.NoError(t, err)

	assert.Equal(t, 2, g.Count(ShapeBox))
	assert.Equal(t, 3, g.Count(ShapeEllipse))
	assert.Len(t, g.EdgesOf(EdgeContains), 3)
	assert.Empty(t, g.EdgesOf(EdgeForeignKey))

	var labels []string
	for _, n := range g.Nodes {
		labels = append(labels, n.Label)
	}
	assert.Contains(t, labels, "name TEXT")
	assert.Contains(t, labels, "label TEXT REFERENCES users(name)")
}

func TestBuildRequiresExactlyOneInput(t *testing.T) {
	s := sampleSchema()
	tables := sqlddl.ExtractTables("CREATE TABLE a (x INT);")

	_, err := Build(nil, nil)
	var rerr *RenderError
	require.ErrorAs(t, err, &rerr)

	_, err = Build(&s, &tables)
	require.ErrorAs(t, err, &rerr)

	g, err := Build(&s, nil)
	require.NoError(t, err)
	assert.Equal(t, 2, g.Count(ShapeBox))

	g, err = Build(nil, &tables)
	require.NoError(t, err)
	assert.Equal(t, 1, g.Count(ShapeBox))
}

func TestDOT(t *testing.T) {
	g, err := FromSchema(sampleSchema())
	require.NoError(t, err)

	out, err := g.DOT()
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(strings.TrimSpace(out), "digraph"))
	assert.Contains(t, out, "orders.user_id (integer)")
	assert.Contains(t, out, "users.id")
	assert.Contains(t, out, "dashed")
	assert.Contains(t, out, "box")
	assert.Contains(t, out, "coupons")
}

func TestFromSchemaDottedNames(t *testing.T) {
	s, err := schema.Parse(`{"tables": [
		{"name": "a.b", "columns": [{"name": "c"}]},
		{"name": "a", "columns": [{"name": "b.c"}]}
	]}`)
	require.NoError(t, err)

	g, err := FromSchema(s)
	require.NoError(t, err)
	assert.Equal(t, 2, g.Count(ShapeBox))
	assert.Equal(t, 2, g.Count(ShapeEllipse))
	assert.Len(t, g.EdgesOf(EdgeContains), 2)
	assert.NotEqual(t, ColumnID("a.b", "c"), ColumnID("a", "b.c"))

	n, ok := g.Node(ColumnID("a", "b.c"))
	require.True(t, ok)
	assert.Equal(t, "a.b.c ()", n.Label)
}

// randomSchemaJSON builds a well-formed schema document with random
// table and column counts and random foreign keys (some dangling).
func randomSchemaJSON(r *rand.Rand) (text string, tables, columns, fks int) {
	var sb strings.Builder
	sb.WriteString("Model:\n```json\n{\"tables\": [")
	tables = r.Intn(6)
	for i := 0; i < tables; i++ {
		if i > 0 {
			sb.WriteString(",")
		}
		// t0, t0.x, t1, t1.x, ... so qualified names overlap
		name := fmt.Sprintf("t%d", i/2)
		if i%2 == 1 {
			name += ".x"
		}
		fmt.Fprintf(&sb, `{"name": %q, "columns": [`, name)
		nc := r.Intn(5)
		for j := 0; j < nc; j++ {
			if j > 0 {
				sb.WriteString(",")
			}
			col := fmt.Sprintf("c%d", j)
			if r.Intn(2) == 0 {
				col = "x." + col
			}
			fmt.Fprintf(&sb, `{"name": %q, "type": "integer"`, col)
			if r.Intn(3) == 0 {
				fmt.Fprintf(&sb, `, "foreign_key": {"table": "t%d", "column": "c0"}`, r.Intn(8))
				fks++
			}
			sb.WriteString("}")
		}
		columns += nc
		sb.WriteString("]}")
	}
	sb.WriteString("]}\n```\nExplanation.")
	return sb.String(), tables, columns, fks
}

func TestParsedSchemaAlwaysRenders(t *testing.T) {
	r := rand.New(rand.NewSource(42))
	for i := 0; i < 200; i++ {
		text, tables, columns, fks := randomSchemaJSON(r)
		s, err := schema.Parse(text)
		require.NoError(t, err, text)

		g, err := FromSchema(s)
		require.NoError(t, err)
		assert.Equal(t, tables, g.Count(ShapeBox))
		assert.Equal(t, columns, g.Count(ShapeEllipse))
		assert.Len(t, g.EdgesOf(EdgeContains), columns)
		assert.Len(t, g.EdgesOf(EdgeForeignKey), fks)

		_, err = g.DOT()
		require.NoError(t, err)
	}
}
