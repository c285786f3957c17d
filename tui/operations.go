package tui

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/DachengChen/paiSchema/input"
	"github.com/DachengChen/paiSchema/session"
)

// field is one input of an operation form.
type field struct {
	Label       string
	Hint        string
	Multiline   bool
	Default     string
	FromModel   bool // prefill with the session's current model
	Optional    bool
	ReadsFiles  bool // "@path" loads the file
	ParsesInput bool // "@path" goes through the CSV/JSON input loader
}

// operation is one entry of the menu.
type operation struct {
	Op     session.Operation
	Desc   string
	Fields []field
	Run    func(ctx context.Context, s *session.Session, values []string) session.Result
}

const (
	hintModel = "model text, or @path to load a file; empty uses the current model"
	hintOut   = "optional: write the DOT output to this file"
)

// operations builds the menu catalogue. mongoURI is the configured
// default for the materialize form.
func operations(mongoURI string) []operation {
	return []operation{
		{
			Op:   session.OpGenerateModel,
			Desc: "Infer tables, columns, types and relationships from your data",
			Fields: []field{{
				Label: "Input data", Multiline: true, ReadsFiles: true, ParsesInput: true,
				Hint: "free text or JSON, or @path to a .txt, .json or .csv file",
			}},
			Run: func(ctx context.Context, s *session.Session, v []string) session.Result {
				return s.GenerateModel(ctx, v[0])
			},
		},
		{
			Op:     session.OpOptimizeModel,
			Desc:   "Find redundancies and produce an optimized model",
			Fields: []field{modelField()},
			Run: func(ctx context.Context, s *session.Session, v []string) session.Result {
				return s.OptimizeModel(ctx, v[0])
			},
		},
		{
			Op:   session.OpAdaptModel,
			Desc: "Incorporate new requirements into the model",
			Fields: []field{
				modelField(),
				{Label: "Requirements", Multiline: true, ReadsFiles: true, Hint: "what changed"},
			},
			Run: func(ctx context.Context, s *session.Session, v []string) session.Result {
				return s.AdaptModel(ctx, v[0], v[1])
			},
		},
		{
			Op:   session.OpGenerateQueries,
			Desc: "Write example SELECT, INSERT, UPDATE or DELETE statements",
			Fields: []field{
				modelField(),
				{Label: "Query type", Default: "SELECT", Hint: "SELECT, INSERT, UPDATE or DELETE"},
			},
			Run: func(ctx context.Context, s *session.Session, v []string) session.Result {
				return s.GenerateQueries(ctx, v[0], v[1])
			},
		},
		{
			Op:     session.OpVisualizeModel,
			Desc:   "Draw the JSON schema as a Graphviz diagram",
			Fields: []field{modelField(), {Label: "Save to", Optional: true, Hint: hintOut}},
			Run: func(ctx context.Context, s *session.Session, v []string) session.Result {
				return saveDOT(s.VisualizeModel(ctx, v[0]), v[1])
			},
		},
		{
			Op:   session.OpVisualizeSQL,
			Desc: "Draw the CREATE TABLE statements as a Graphviz diagram",
			Fields: []field{
				{Label: "SQL", Multiline: true, FromModel: true, ReadsFiles: true, Hint: "SQL or a full answer, or @path"},
				{Label: "Save to", Optional: true, Hint: hintOut},
			},
			Run: func(ctx context.Context, s *session.Session, v []string) session.Result {
				return saveDOT(s.VisualizeSQL(ctx, v[0]), v[1])
			},
		},
		{
			Op:   session.OpMaterialize,
			Desc: "Insert one sample document per table into MongoDB",
			Fields: []field{
				modelField(),
				{Label: "MongoDB URI", Default: mongoURI, Hint: "connection string"},
			},
			Run: func(ctx context.Context, s *session.Session, v []string) session.Result {
				return s.Materialize(ctx, v[0], v[1])
			},
		},
		{
			Op:   session.OpCheckDDL,
			Desc: "Dry-run the SQL against PostgreSQL, always rolled back",
			Fields: []field{
				{Label: "SQL", Multiline: true, FromModel: true, ReadsFiles: true, Hint: "SQL or a full answer, or @path"},
			},
			Run: func(ctx context.Context, s *session.Session, v []string) session.Result {
				return s.CheckDDL(ctx, v[0])
			},
		},
		{
			Op:     session.OpImportSchema,
			Desc:   "Load an existing PostgreSQL schema as the current model",
			Fields: []field{{Label: "Schema", Default: "public"}},
			Run: func(ctx context.Context, s *session.Session, v []string) session.Result {
				return s.ImportSchema(ctx, v[0])
			},
		},
	}
}

func modelField() field {
	return field{Label: "Model", Multiline: true, FromModel: true, ReadsFiles: true, Hint: hintModel}
}

// resolveValues expands "@path" values of fields that accept files and
// normalizes pipeline input.
func resolveValues(fields []field, values []string) ([]string, error) {
	out := make([]string, len(values))
	for i, v := range values {
		f := fields[i]
		trimmed := strings.TrimSpace(v)
		fromFile := f.ReadsFiles && strings.HasPrefix(trimmed, "@")
		path := strings.TrimSpace(strings.TrimPrefix(trimmed, "@"))

		switch {
		case fromFile && f.ParsesInput:
			in, err := input.Load(path, os.Stdin)
			if err != nil {
				return nil, err
			}
			out[i] = in.Text
		case fromFile:
			data, err := os.ReadFile(path)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", f.Label, err)
			}
			out[i] = string(data)
		case f.ParsesInput:
			out[i] = input.FromText(v).Text
		default:
			out[i] = v
		}
	}
	return out, nil
}

func saveDOT(res session.Result, path string) session.Result {
	path = strings.TrimSpace(path)
	if !res.OK() || path == "" {
		return res
	}
	if err := os.WriteFile(path, []byte(res.Output), 0o644); err != nil {
		res.Output += "\n\n" + StyleError.Render("could not save: "+err.Error())
		return res
	}
	res.Output += "\n\n" + StyleSuccess.Render("saved to "+path)
	return res
}
