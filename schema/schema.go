// Package schema defines the structured schema produced by the model
// pipeline and the parser that extracts it from generated text.
package schema

import (
	"errors"
	"fmt"
	"strings"
)

// ColumnType is the classified declared type of a column.
type ColumnType int

const (
	TypeOther ColumnType = iota
	TypeString
	TypeInteger
	TypeDouble
	TypeBoolean
	TypeDatetime
	TypeArray
	TypeObject
	TypeObjectID
)

var typeNames = map[ColumnType]string{
	TypeOther:    "other",
	TypeString:   "string",
	TypeInteger:  "integer",
	TypeDouble:   "double",
	TypeBoolean:  "boolean",
	TypeDatetime: "datetime",
	TypeArray:    "array",
	TypeObject:   "object",
	TypeObjectID: "objectid",
}

func (t ColumnType) String() string {
	if name, ok := typeNames[t]; ok {
		return name
	}
	return "other"
}

var typeAliases = map[string]ColumnType{
	"string": TypeString, "str": TypeString, "text": TypeString, "varchar": TypeString, "char": TypeString,
	"integer": TypeInteger, "int": TypeInteger, "int32": TypeInteger, "int64": TypeInteger,
	"long": TypeInteger, "bigint": TypeInteger, "smallint": TypeInteger,
	"double": TypeDouble, "float": TypeDouble, "decimal": TypeDouble, "number": TypeDouble,
	"numeric": TypeDouble, "real": TypeDouble,
	"boolean": TypeBoolean, "bool": TypeBoolean,
	"datetime": TypeDatetime, "date": TypeDatetime, "timestamp": TypeDatetime, "time": TypeDatetime,
	"array": TypeArray, "list": TypeArray,
	"object": TypeObject, "dict": TypeObject, "map": TypeObject, "json": TypeObject,
	"objectid": TypeObjectID, "object_id": TypeObjectID, "object-id": TypeObjectID, "oid": TypeObjectID,
}

// ClassifyType maps a declared type name to a ColumnType.
// Matching is case-insensitive; unknown names are TypeOther.
func ClassifyType(declared string) ColumnType {
	if t, ok := typeAliases[strings.ToLower(strings.TrimSpace(declared))]; ok {
		return t
	}
	return TypeOther
}

// ForeignKey references a column of another table. The target is not
// required to exist in the schema.
type ForeignKey struct {
	Table  string `json:"table"`
	Column string `json:"column"`
}

func (fk ForeignKey) String() string {
	if fk.Column == "" {
		return fk.Table
	}
	return fk.Table + "." + fk.Column
}

// Column is one column of a table. Type keeps the declared text;
// Kind is its classification.
type Column struct {
	Name        string      `json:"name"`
	Type        string      `json:"type"`
	Kind        ColumnType  `json:"-"`
	SampleValue any         `json:"sample_value,omitempty"`
	ForeignKey  *ForeignKey `json:"foreign_key,omitempty"`
}

// Table is a named, ordered list of columns.
type Table struct {
	Name    string   `json:"name"`
	Columns []Column `json:"columns"`
}

// Schema is an ordered list of tables.
type Schema struct {
	Tables []Table `json:"tables"`
}

// Table returns the table with the given name.
func (s Schema) Table(name string) (Table, bool) {
	for _, t := range s.Tables {
		if t.Name == name {
			return t, true
		}
	}
	return Table{}, false
}

// ColumnCount returns the total number of columns across all tables.
func (s Schema) ColumnCount() int {
	n := 0
	for _, t := range s.Tables {
		n += len(t.Columns)
	}
	return n
}

// Validate reports duplicate table names and duplicate column names
// within a table.
func (s Schema) Validate() error {
	var errs []error
	tables := make(map[string]bool, len(s.Tables))
	for _, t := range s.Tables {
		if tables[t.Name] {
			errs = append(errs, fmt.Errorf("duplicate table %q", t.Name))
		}
		tables[t.Name] = true

		cols := make(map[string]bool, len(t.Columns))
		for _, c := range t.Columns {
			if cols[c.Name] {
				errs = append(errs, fmt.Errorf("duplicate column %q in table %q", c.Name, t.Name))
			}
			cols[c.Name] = true
		}
	}
	return errors.Join(errs...)
}

// Summary returns a one-line description such as "2 tables, 9 columns, 1 foreign key".
func (s Schema) Summary() string {
	fks := 0
	for _, t := range s.Tables {
		for _, c := range t.Columns {
			if c.ForeignKey != nil {
				fks++
			}
		}
	}
	return fmt.Sprintf("%s, %s, %s",
		plural(len(s.Tables), "table"),
		plural(s.ColumnCount(), "column"),
		plural(fks, "foreign key"))
}

func plural(n int, noun string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", noun)
	}
	return fmt.Sprintf("%d %ss", n, noun)
}
