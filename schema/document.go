package schema

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sync"

	invopop "github.com/invopop/jsonschema"
	"github.com/santhosh-tekuri/jsonschema/v6"
)

// documentTable and documentColumn describe the JSON document a model
// answer must carry. They only feed the reflected JSON Schema; decoding
// goes through rawTable and rawColumn.
type documentTable struct {
	Name    string           `json:"name" jsonschema:"description=Table name"`
	Columns []documentColumn `json:"columns,omitempty"`
}

type documentColumn struct {
	Name        string `json:"name" jsonschema:"description=Column name"`
	Type        string `json:"type,omitempty" jsonschema:"description=Declared type such as string or integer or objectid"`
	SampleValue any    `json:"sample_value,omitempty" jsonschema:"description=Example value of any JSON type"`
	ForeignKey  any    `json:"foreign_key,omitempty" jsonschema:"description=Referenced table and column as an object or as table.column"`
}

type document struct {
	Tables []documentTable `json:"tables"`
}

// DocumentSchema returns the JSON Schema (draft 2020-12) of the model
// document. Unknown keys are allowed at every level.
func DocumentSchema() *invopop.Schema {
	r := &invopop.Reflector{
		Anonymous:                 true,
		DoNotReference:            true,
		ExpandedStruct:            true,
		AllowAdditionalProperties: true,
	}
	s := r.Reflect(&document{})
	s.Title = "paiSchema model document"
	return s
}

// DocumentSchemaJSON renders DocumentSchema as indented JSON.
func DocumentSchemaJSON() ([]byte, error) {
	return json.MarshalIndent(DocumentSchema(), "", "  ")
}

const documentURL = "paischema-model.json"

var compiledDocument = sync.OnceValues(func() (*jsonschema.Schema, error) {
	raw, err := DocumentSchemaJSON()
	if err != nil {
		return nil, fmt.Errorf("marshaling document schema: %w", err)
	}
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("unmarshaling document schema: %w", err)
	}
	c := jsonschema.NewCompiler()
	if err := c.AddResource(documentURL, doc); err != nil {
		return nil, fmt.Errorf("adding document schema: %w", err)
	}
	return c.Compile(documentURL)
})

// validateDocument checks a candidate JSON text against the document
// schema. The returned error names the offending instance locations.
func validateDocument(text string) error {
	sch, err := compiledDocument()
	if err != nil {
		return err
	}
	inst, err := jsonschema.UnmarshalJSON(bytes.NewReader([]byte(text)))
	if err != nil {
		return &MalformedSchemaError{Reason: "invalid JSON", Err: err}
	}
	if err := sch.Validate(inst); err != nil {
		return &MalformedSchemaError{Reason: "document does not match the model format", Err: err}
	}
	return nil
}
