package sqlddl

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractTablesIgnoresNonCreate(t *testing.T) {
	got := ExtractTables("CREATE TABLE users (id INT, name TEXT); SELECT 1;")
	require.Equal(t, []string{"users"}, got.Names)
	assert.Equal(t, []string{"id INT", "name TEXT"}, got.Columns["users"])
	assert.Equal(t, 1, got.Len())
}

func TestExtractTablesRealisticDDL(t *testing.T) {
	sql := `
-- customers first
CREATE TABLE IF NOT EXISTS public.customers (
  id SERIAL PRIMARY KEY,
  name VARCHAR(120) NOT NULL, -- display name
  price NUMERIC(10, 2) DEFAULT 0.00,
  status TEXT CHECK (status IN ('a;b', 'c,d'))
);

/* orders reference customers; note the semicolon in this comment */
create temporary table "Orders" (
  id BIGINT,
  customer_id INT REFERENCES customers(id),
  PRIMARY KEY (id, customer_id)
);

CREATE INDEX idx_orders ON "Orders" (customer_id);
INSERT INTO customers (name) VALUES ('x; y');
CREATE VIEW v AS SELECT 1;
`
	got := ExtractTables(sql)
	require.Equal(t, []string{"public.customers", "Orders"}, got.Names)
	assert.Equal(t, []string{
		"id SERIAL PRIMARY KEY",
		"name VARCHAR(120) NOT NULL",
		"price NUMERIC(10, 2) DEFAULT 0.00",
		"status TEXT CHECK (status IN ('a;b', 'c,d'))",
	}, got.Columns["public.customers"])
	assert.Equal(t, []string{
		"id BIGINT",
		"customer_id INT REFERENCES customers(id)",
		"PRIMARY KEY (id, customer_id)",
	}, got.Columns["Orders"])
}

func TestExtractTablesSkipsUnnamed(t *testing.T) {
	got := ExtractTables("CREATE TABLE (a INT); CREATE TABLE; DROP TABLE x; ;;")
	assert.Zero(t, got.Len())
	assert.Empty(t, got.Columns)
}

func TestExtractTablesAsSelect(t *testing.T) {
	got := ExtractTables("CREATE TABLE snapshot AS SELECT * FROM users;")
	require.Equal(t, []string{"snapshot"}, got.Names)
	assert.Empty(t, got.Columns["snapshot"])
}

func TestExtractTablesRedefinition(t *testing.T) {
	got := ExtractTables("CREATE TABLE a (x INT); CREATE TABLE b (y INT); CREATE TABLE a (z INT);")
	assert.Equal(t, []string{"a", "b"}, got.Names)
	assert.Equal(t, []string{"z INT"}, got.Columns["a"])
}

func TestExtractTablesEscapedQuotes(t *testing.T) {
	got := ExtractTables(`CREATE TABLE "we""ird" (a INT); CREATE TABLE [odd]]name].` + "`t``x`" + ` (b TEXT);`)
	require.Equal(t, []string{`we"ird`, "odd]name.t`x"}, got.Names)
	assert.Equal(t, []string{"a INT"}, got.Columns[`we"ird`])
	assert.Equal(t, []string{"b TEXT"}, got.Columns["odd]name.t`x"])
}

func TestSplitStatements(t *testing.T) {
	got := SplitStatements("SELECT ';' AS s; -- trailing; comment\nSELECT 2 /* ; */;")
	assert.Equal(t, []string{"SELECT ';' AS s", "SELECT 2"}, got)
}

func TestExtractFromAnswer(t *testing.T) {
	text := "1. JSON\n```json\n{\"tables\": []}\n```\n2. SQL\n```sql\nCREATE TABLE a (x INT);\n```\nand\n```SQL\nCREATE TABLE b (y INT);\n```\n3. Explanation"
	got := ExtractFromAnswer(text)
	assert.Equal(t, "CREATE TABLE a (x INT);\n\nCREATE TABLE b (y INT);", got)

	plain := "CREATE TABLE c (z INT);"
	assert.Equal(t, plain, ExtractFromAnswer(plain))

	tables := ExtractTables(ExtractFromAnswer(text))
	assert.Equal(t, []string{"a", "b"}, tables.Names)
}
