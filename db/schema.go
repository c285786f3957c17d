// schema.go imports an existing PostgreSQL schema so it can be optimized,
// adapted, visualized or materialized like a generated one.
//
// These functions gather:
//   - Column definitions (name, type, PK)
//   - Foreign key relationships
//   - Implicit relationships from the "<table>_id" naming convention
package db

import (
	"context"
	"fmt"
	"strings"

	"github.com/DachengChen/paiSchema/schema"
)

type columnRow struct {
	Table    string
	Column   string
	DataType string
	IsPK     bool
}

type foreignKeyRow struct {
	Table         string
	Column        string
	ForeignTable  string
	ForeignColumn string
}

const columnsSQL = `
	SELECT c.table_name, c.column_name, c.data_type,
	       EXISTS (
	         SELECT 1
	         FROM information_schema.table_constraints tc
	         JOIN information_schema.key_column_usage kcu
	           ON tc.constraint_name = kcu.constraint_name
	          AND tc.table_schema = kcu.table_schema
	         WHERE tc.constraint_type = 'PRIMARY KEY'
	           AND tc.table_schema = c.table_schema
	           AND tc.table_name = c.table_name
	           AND kcu.column_name = c.column_name
	       ) AS is_pk
	FROM information_schema.columns c
	JOIN information_schema.tables t
	  ON t.table_schema = c.table_schema AND t.table_name = c.table_name
	WHERE c.table_schema = $1 AND t.table_type = 'BASE TABLE'
	ORDER BY c.table_name, c.ordinal_position`

const foreignKeysSQL = `
	SELECT kcu.table_name, kcu.column_name, ccu.table_name, ccu.column_name
	FROM information_schema.table_constraints tc
	JOIN information_schema.key_column_usage kcu
	  ON tc.constraint_name = kcu.constraint_name
	 AND tc.table_schema = kcu.table_schema
	JOIN information_schema.constraint_column_usage ccu
	  ON ccu.constraint_name = tc.constraint_name
	 AND ccu.table_schema = tc.table_schema
	WHERE tc.constraint_type = 'FOREIGN KEY' AND tc.table_schema = $1
	ORDER BY kcu.table_name, kcu.ordinal_position`

// Introspect reads every base table of schemaName ("public" when empty).
func (d *DB) Introspect(ctx context.Context, schemaName string) (schema.Schema, error) {
	if schemaName == "" {
		schemaName = "public"
	}

	rows, err := d.Pool.Query(ctx, columnsSQL, schemaName)
	if err != nil {
		return schema.Schema{}, fmt.Errorf("list columns of %s: %w", schemaName, err)
	}
	var cols []columnRow
	for rows.Next() {
		var c columnRow
		if err := rows.Scan(&c.Table, &c.Column, &c.DataType, &c.IsPK); err != nil {
			rows.Close()
			return schema.Schema{}, err
		}
		cols = append(cols, c)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return schema.Schema{}, err
	}

	rows, err = d.Pool.Query(ctx, foreignKeysSQL, schemaName)
	if err != nil {
		return schema.Schema{}, fmt.Errorf("list foreign keys of %s: %w", schemaName, err)
	}
	var fks []foreignKeyRow
	for rows.Next() {
		var fk foreignKeyRow
		if err := rows.Scan(&fk.Table, &fk.Column, &fk.ForeignTable, &fk.ForeignColumn); err != nil {
			rows.Close()
			return schema.Schema{}, err
		}
		fks = append(fks, fk)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return schema.Schema{}, err
	}

	return assemble(cols, fks), nil
}

// assemble groups column rows into tables, keeping row order, and
// attaches foreign keys. Tables without any declared foreign key get
// implicit ones from "<table>_id" columns whose table exists.
func assemble(cols []columnRow, fks []foreignKeyRow) schema.Schema {
	var s schema.Schema
	index := make(map[string]int)
	pks := make(map[string]bool)
	for _, c := range cols {
		i, ok := index[c.Table]
		if !ok {
			i = len(s.Tables)
			index[c.Table] = i
			s.Tables = append(s.Tables, schema.Table{Name: c.Table})
		}
		typ := typeName(c.DataType)
		s.Tables[i].Columns = append(s.Tables[i].Columns, schema.Column{
			Name: c.Column,
			Type: typ,
			Kind: schema.ClassifyType(typ),
		})
		if c.IsPK {
			pks[c.Table+"."+c.Column] = true
		}
	}

	declared := make(map[string]bool)
	for _, fk := range fks {
		i, ok := index[fk.Table]
		if !ok {
			continue
		}
		for j := range s.Tables[i].Columns {
			col := &s.Tables[i].Columns[j]
			if col.Name == fk.Column && col.ForeignKey == nil {
				col.ForeignKey = &schema.ForeignKey{Table: fk.ForeignTable, Column: fk.ForeignColumn}
				declared[fk.Table] = true
			}
		}
	}

	for i := range s.Tables {
		t := &s.Tables[i]
		if declared[t.Name] {
			continue
		}
		for j := range t.Columns {
			col := &t.Columns[j]
			if pks[t.Name+"."+col.Name] || !strings.HasSuffix(col.Name, "_id") {
				continue
			}
			// "country_id" → "country", falling back to "countries"-style plurals
			ref := strings.TrimSuffix(col.Name, "_id")
			for _, candidate := range []string{ref, ref + "s", ref + "es"} {
				if _, ok := index[candidate]; ok && candidate != t.Name {
					col.ForeignKey = &schema.ForeignKey{Table: candidate, Column: "id"}
					break
				}
			}
		}
	}
	return s
}

// typeName maps a PostgreSQL data_type to the model's type vocabulary.
// Unknown types are kept verbatim.
func typeName(dataType string) string {
	dt := strings.ToLower(strings.TrimSpace(dataType))
	switch {
	case dt == "smallint" || dt == "integer" || dt == "bigint":
		return "integer"
	case dt == "numeric" || dt == "real" || dt == "double precision" || dt == "money":
		return "double"
	case dt == "boolean":
		return "boolean"
	case dt == "date" || strings.HasPrefix(dt, "timestamp") || strings.HasPrefix(dt, "time "):
		return "datetime"
	case dt == "array":
		return "array"
	case dt == "json" || dt == "jsonb":
		return "object"
	case dt == "text" || dt == "uuid" || strings.HasPrefix(dt, "character"):
		return "string"
	default:
		return dataType
	}
}
