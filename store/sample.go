package store

import (
	"github.com/DachengChen/paiSchema/schema"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// EpochLiteral is the placeholder for datetime columns.
const EpochLiteral = "1970-01-01T00:00:00Z"

// SampleDocument builds the synthetic document for a table, keeping
// column order. A column's sample value wins over the type placeholder.
func SampleDocument(t schema.Table) bson.D {
	doc := make(bson.D, 0, len(t.Columns))
	for _, c := range t.Columns {
		doc = append(doc, bson.E{Key: c.Name, Value: SampleValue(c)})
	}
	return doc
}

// SampleValue returns the value stored for one column.
func SampleValue(c schema.Column) any {
	if c.SampleValue != nil {
		return c.SampleValue
	}
	switch c.Kind {
	case schema.TypeString:
		return "exemplo"
	case schema.TypeInteger:
		return 0
	case schema.TypeDouble:
		return 0.0
	case schema.TypeBoolean:
		return true
	case schema.TypeDatetime:
		return EpochLiteral
	case schema.TypeArray:
		return bson.A{}
	case schema.TypeObject:
		return bson.M{}
	case schema.TypeObjectID:
		return primitive.NewObjectID().Hex()
	default:
		return nil
	}
}
