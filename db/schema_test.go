package db

import (
	"testing"

	"github.com/DachengChen/paiSchema/config"
	"github.com/DachengChen/paiSchema/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func configDisabled() config.PostgresConfig {
	return config.PostgresConfig{Host: "localhost", Port: 5432}
}

func TestAssembleDeclaredForeignKeys(t *testing.T) {
	cols := []columnRow{
		{Table: "orders", Column: "id", DataType: "bigint", IsPK: true},
		{Table: "orders", Column: "customer_id", DataType: "integer"},
		{Table: "orders", Column: "placed_at", DataType: "timestamp with time zone"},
		{Table: "customers", Column: "id", DataType: "integer", IsPK: true},
		{Table: "customers", Column: "name", DataType: "character varying"},
		{Table: "customers", Column: "prefs", DataType: "jsonb"},
	}
	fks := []foreignKeyRow{{Table: "orders", Column: "customer_id", ForeignTable: "customers", ForeignColumn: "id"}}

	s := assemble(cols, fks)
	require.Len(t, s.Tables, 2)
	assert.Equal(t, "orders", s.Tables[0].Name)

	orders := s.Tables[0]
	assert.Equal(t, schema.TypeInteger, orders.Columns[0].Kind)
	require.NotNil(t, orders.Columns[1].ForeignKey)
	assert.Equal(t, "customers.id", orders.Columns[1].ForeignKey.String())
	assert.Equal(t, schema.TypeDatetime, orders.Columns[2].Kind)

	customers := s.Tables[1]
	assert.Equal(t, "string", customers.Columns[1].Type)
	assert.Equal(t, schema.TypeObject, customers.Columns[2].Kind)
	assert.NoError(t, s.Validate())
}

func TestAssembleImplicitForeignKeys(t *testing.T) {
	cols := []columnRow{
		{Table: "city", Column: "id", DataType: "integer", IsPK: true},
		{Table: "city", Column: "country_id", DataType: "integer"},
		{Table: "city", Column: "mayor_id", DataType: "integer"},
		{Table: "countries", Column: "id", DataType: "integer", IsPK: true},
	}
	s := assemble(cols, nil)
	city := s.Tables[0]
	require.NotNil(t, city.Columns[1].ForeignKey)
	assert.Equal(t, schema.ForeignKey{Table: "countries", Column: "id"}, *city.Columns[1].ForeignKey)
	assert.Nil(t, city.Columns[2].ForeignKey)
	assert.Nil(t, city.Columns[0].ForeignKey)
}

func TestTypeName(t *testing.T) {
	cases := map[string]string{
		"smallint":                    "integer",
		"numeric":                     "double",
		"boolean":                     "boolean",
		"date":                        "datetime",
		"time without time zone":      "datetime",
		"timestamp without time zone": "datetime",
		"ARRAY":                       "array",
		"json":                        "object",
		"uuid":                        "string",
		"character":                   "string",
		"bytea":                       "bytea",
	}
	for in, want := range cases {
		assert.Equal(t, want, typeName(in), in)
	}
}
