package ai

import (
	"fmt"
	"strings"
)

// Prompt templates of the schema-model pipeline.
//
// Inputs are embedded verbatim: nothing is validated or escaped, the
// service is trusted to read them as data.

const fence = "```"

// systemPromptModeler is sent as the system message by chat-style backends.
const systemPromptModeler = `You are a data modeling expert. You design relational schemas,
explain your reasoning briefly and always follow the requested answer format.`

// answerFormat is the tri-part answer shape shared by the model prompts.
var answerFormat = `Answer in exactly three parts, in this order:

1. JSON schema: one JSON object inside a ` + fence + `json fence, shaped like
   {"tables": [{"name": "...", "columns": [{"name": "...", "type": "...",
   "sample_value": ..., "foreign_key": {"table": "...", "column": "..."}}]}]}
   Use only these types: string, integer, double, boolean, datetime, array,
   object, objectid. "sample_value" and "foreign_key" are optional.
2. SQL: the equivalent CREATE TABLE statements inside a ` + fence + `sql fence.
3. Explanation: a short prose explanation of the design decisions.`

// QueryType selects the kind of example statements requested.
type QueryType string

const (
	QuerySelect QueryType = "SELECT"
	QueryInsert QueryType = "INSERT"
	QueryUpdate QueryType = "UPDATE"
	QueryDelete QueryType = "DELETE"
)

// QueryTypes lists the supported query types in menu order.
var QueryTypes = []QueryType{QuerySelect, QueryInsert, QueryUpdate, QueryDelete}

// ParseQueryType validates a user choice; the prompt template itself
// accepts any value.
func ParseQueryType(s string) (QueryType, error) {
	qt := QueryType(strings.ToUpper(strings.TrimSpace(s)))
	for _, known := range QueryTypes {
		if qt == known {
			return qt, nil
		}
	}
	return "", fmt.Errorf("unknown query type %q (want SELECT, INSERT, UPDATE or DELETE)", s)
}

// GenerateModelPrompt asks for a data model inferred from the input data.
func GenerateModelPrompt(inputData string) string {
	return fmt.Sprintf(`Given the following data structure:
%s

Generate a data model that represents this structure efficiently.
Infer the tables, the column names, the data type of every column and
the relationships between tables (foreign keys).

%s
`, inputData, answerFormat)
}

// OptimizeModelPrompt asks for a redundancy analysis and an optimized model.
func OptimizeModelPrompt(currentModel string) string {
	return fmt.Sprintf(`Given the following data model:
%s

Identify any redundancies or inefficiencies in the structure and suggest
improvements. Then produce the optimized data model.

%s
`, currentModel, answerFormat)
}

// AdaptModelPrompt asks to incorporate new requirements into a model.
func AdaptModelPrompt(currentModel, newRequirements string) string {
	return fmt.Sprintf(`Given the current data model:
%s

And the new requirements:
%s

Adapt the model to incorporate these changes, keeping everything that
the new requirements do not affect.

%s
`, currentModel, newRequirements, answerFormat)
}

// GenerateQueriesPrompt asks for example SQL statements of one kind.
func GenerateQueriesPrompt(currentModel string, queryType QueryType) string {
	return fmt.Sprintf(`Given the following data model:
%s

Write example SQL %s statements that exercise this model. Cover the main
tables and, where relevant, the relationships between them.
Return the statements inside a %ssql fence, followed by a short
explanation of what each statement does.
`, currentModel, queryType, fence)
}
