// Package session runs the schema-model pipeline for one interactive
// session.
//
// A Session owns its interaction log and the collaborators the
// operations need. Every operation returns a Result that carries either
// the output or a typed error kind, and appends exactly one record to
// the log. No failure is fatal to the session.
package session

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/DachengChen/paiSchema/ai"
	"github.com/DachengChen/paiSchema/db"
	"github.com/DachengChen/paiSchema/diagram"
	"github.com/DachengChen/paiSchema/schema"
	"github.com/DachengChen/paiSchema/sqlddl"
	"github.com/DachengChen/paiSchema/store"
	"github.com/google/uuid"
)

// Operation names a pipeline operation.
type Operation string

const (
	OpGenerateModel   Operation = "generate_model"
	OpOptimizeModel   Operation = "optimize_model"
	OpAdaptModel      Operation = "adapt_model"
	OpGenerateQueries Operation = "generate_queries"
	OpVisualizeModel  Operation = "visualize_model"
	OpVisualizeSQL    Operation = "visualize_sql"
	OpMaterialize     Operation = "materialize"
	OpCheckDDL        Operation = "check_ddl"
	OpImportSchema    Operation = "import_schema"
)

var opTitles = map[Operation]string{
	OpGenerateModel:   "Generate model",
	OpOptimizeModel:   "Optimize model",
	OpAdaptModel:      "Adapt model",
	OpGenerateQueries: "Generate queries",
	OpVisualizeModel:  "Visualize model",
	OpVisualizeSQL:    "Visualize SQL",
	OpMaterialize:     "Materialize in MongoDB",
	OpCheckDDL:        "Check DDL",
	OpImportSchema:    "Import PostgreSQL schema",
}

// Title returns the display name of the operation.
func (o Operation) Title() string {
	if t, ok := opTitles[o]; ok {
		return t
	}
	return string(o)
}

// Materializer writes sample documents for a schema.
type Materializer interface {
	Materialize(ctx context.Context, s schema.Schema, uri string) (store.Report, error)
}

// Checker dry-runs DDL against a database.
type Checker interface {
	Check(ctx context.Context, ddl string) (db.CheckReport, error)
}

// Importer reads an existing database schema.
type Importer interface {
	Introspect(ctx context.Context, schemaName string) (schema.Schema, error)
}

// Deps are the collaborators of a Session. Only Generator is required
// by the generation operations; the others may be nil, in which case
// the operations that need them fail with KindInput.
type Deps struct {
	Generator    ai.Generator
	Materializer Materializer
	Checker      Checker
	Importer     Importer
	Logger       *slog.Logger
}

// Result is the outcome of one operation.
type Result struct {
	Operation Operation
	Output    string
	Graph     *diagram.Graph
	Schema    *schema.Schema
	Err       error
	Kind      ErrorKind
	Duration  time.Duration
}

// OK reports whether the operation succeeded.
func (r Result) OK() bool { return r.Err == nil }

// Display returns the text to show the user. Partial output, such as
// the tables that were written before a failed insert, precedes the error.
func (r Result) Display() string {
	if r.Err == nil {
		return r.Output
	}
	msg := "Error (" + r.Kind.String() + "): " + r.Err.Error()
	if r.Output != "" {
		return r.Output + "\n\n" + msg
	}
	return msg
}

// Session is the explicit context of one interactive session.
type Session struct {
	ID   uuid.UUID
	deps Deps
	log  *Log

	mu    sync.Mutex
	model string
}

// New creates a session with an empty log.
func New(deps Deps) *Session {
	if deps.Logger == nil {
		deps.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Session{ID: uuid.New(), deps: deps, log: NewLog()}
}

// Log returns the session's interaction log.
func (s *Session) Log() *Log { return s.log }

// CurrentModel returns the last model text produced or imported in this
// session, or "".
func (s *Session) CurrentModel() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.model
}

// SetCurrentModel replaces the current model text.
func (s *Session) SetCurrentModel(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.model = text
}

// GeneratorName describes the configured generator.
func (s *Session) GeneratorName() string {
	if s.deps.Generator == nil {
		return "(none)"
	}
	return s.deps.Generator.Name()
}

// AdaptInput is the logged input of AdaptModel.
type AdaptInput struct {
	Model        string `json:"model"`
	Requirements string `json:"requirements"`
}

// QueriesInput is the logged input of GenerateQueries.
type QueriesInput struct {
	Model     string `json:"model"`
	QueryType string `json:"query_type"`
}

// MaterializeInput is the logged input of Materialize.
type MaterializeInput struct {
	Model string `json:"model"`
	URI   string `json:"uri,omitempty"`
}

// GenerateModel asks the generator for a model of the input data.
func (s *Session) GenerateModel(ctx context.Context, inputData string) Result {
	if strings.TrimSpace(inputData) == "" {
		return s.finish(OpGenerateModel, inputData, time.Now(), Result{Err: &InputError{Msg: "input data is empty"}})
	}
	return s.generate(ctx, OpGenerateModel, inputData, ai.GenerateModelPrompt(inputData), true)
}

// OptimizeModel asks for an optimized version of model. An empty model
// selects the session's current model.
func (s *Session) OptimizeModel(ctx context.Context, model string) Result {
	model, err := s.modelOr(model)
	if err != nil {
		return s.finish(OpOptimizeModel, model, time.Now(), Result{Err: err})
	}
	return s.generate(ctx, OpOptimizeModel, model, ai.OptimizeModelPrompt(model), true)
}

// AdaptModel asks for model to be adapted to new requirements.
func (s *Session) AdaptModel(ctx context.Context, model, requirements string) Result {
	model, err := s.modelOr(model)
	in := AdaptInput{Model: model, Requirements: requirements}
	if err == nil && strings.TrimSpace(requirements) == "" {
		err = &InputError{Msg: "new requirements are empty"}
	}
	if err != nil {
		return s.finish(OpAdaptModel, in, time.Now(), Result{Err: err})
	}
	return s.generate(ctx, OpAdaptModel, in, ai.AdaptModelPrompt(model, requirements), true)
}

// GenerateQueries asks for example statements of one query type.
func (s *Session) GenerateQueries(ctx context.Context, model string, queryType string) Result {
	model, err := s.modelOr(model)
	in := QueriesInput{Model: model, QueryType: queryType}
	var qt ai.QueryType
	if err == nil {
		qt, err = ai.ParseQueryType(queryType)
		if err != nil {
			err = &InputError{Msg: err.Error()}
		}
	}
	if err != nil {
		return s.finish(OpGenerateQueries, in, time.Now(), Result{Err: err})
	}
	in.QueryType = string(qt)
	return s.generate(ctx, OpGenerateQueries, in, ai.GenerateQueriesPrompt(model, qt), false)
}

func (s *Session) generate(ctx context.Context, op Operation, input any, prompt string, isModel bool) Result {
	started := time.Now()
	if s.deps.Generator == nil {
		return s.finish(op, input, started, Result{Err: &InputError{Msg: "no generator configured"}})
	}
	text, err := s.deps.Generator.Generate(ctx, prompt)
	if err != nil {
		return s.finish(op, input, started, Result{Err: err})
	}
	res := Result{Output: text}
	if isModel {
		s.SetCurrentModel(text)
		if parsed, perr := schema.Parse(text); perr == nil {
			res.Schema = &parsed
		} else {
			s.deps.Logger.Warn("generated model has no parsable schema", slog.String("operation", string(op)), slog.String("error", perr.Error()))
		}
	}
	return s.finish(op, input, started, res)
}

// VisualizeModel renders the JSON schema found in text as a DOT diagram.
func (s *Session) VisualizeModel(ctx context.Context, text string) Result {
	started := time.Now()
	text, err := s.modelOr(text)
	if err != nil {
		return s.finish(OpVisualizeModel, text, started, Result{Err: err})
	}
	parsed, err := schema.Parse(text)
	if err != nil {
		return s.finish(OpVisualizeModel, text, started, Result{Err: err})
	}
	g, err := diagram.FromSchema(parsed)
	if err != nil {
		return s.finish(OpVisualizeModel, text, started, Result{Err: err})
	}
	return s.finish(OpVisualizeModel, text, started, render(g, &parsed))
}

// VisualizeSQL renders the CREATE TABLE statements found in text as a
// DOT diagram. Text may be raw SQL or a full generated answer.
func (s *Session) VisualizeSQL(ctx context.Context, text string) Result {
	started := time.Now()
	text, err := s.modelOr(text)
	if err != nil {
		return s.finish(OpVisualizeSQL, text, started, Result{Err: err})
	}
	tables := sqlddl.ExtractTables(sqlddl.ExtractFromAnswer(text))
	if tables.Len() == 0 {
		s.deps.Logger.Info("no CREATE TABLE statements found", slog.String("operation", string(OpVisualizeSQL)))
	}
	g, err := diagram.FromTables(tables)
	if err != nil {
		return s.finish(OpVisualizeSQL, text, started, Result{Err: err})
	}
	return s.finish(OpVisualizeSQL, text, started, render(g, nil))
}

func render(g *diagram.Graph, parsed *schema.Schema) Result {
	out, err := g.DOT()
	if err != nil {
		return Result{Err: err}
	}
	return Result{Output: out, Graph: g, Schema: parsed}
}

// Materialize parses the schema in text and writes one sample document
// per table. An empty uri selects the configured store.
func (s *Session) Materialize(ctx context.Context, text, uri string) Result {
	started := time.Now()
	text, err := s.modelOr(text)
	in := MaterializeInput{Model: text, URI: uri}
	if err == nil && s.deps.Materializer == nil {
		err = &InputError{Msg: "no document store configured"}
	}
	if err != nil {
		return s.finish(OpMaterialize, in, started, Result{Err: err})
	}
	parsed, err := schema.Parse(text)
	if err != nil {
		return s.finish(OpMaterialize, in, started, Result{Err: err})
	}
	report, err := s.deps.Materializer.Materialize(ctx, parsed, uri)
	res := Result{Schema: &parsed, Err: err}
	if err == nil || len(report.Inserted) > 0 {
		res.Output = report.Summary()
	}
	return s.finish(OpMaterialize, in, started, res)
}

// CheckDDL dry-runs the SQL found in text against the configured
// database, rolling everything back.
func (s *Session) CheckDDL(ctx context.Context, text string) Result {
	started := time.Now()
	text, err := s.modelOr(text)
	if err == nil && s.deps.Checker == nil {
		err = &InputError{Msg: "no database configured for DDL checks"}
	}
	if err != nil {
		return s.finish(OpCheckDDL, text, started, Result{Err: err})
	}
	report, err := s.deps.Checker.Check(ctx, sqlddl.ExtractFromAnswer(text))
	return s.finish(OpCheckDDL, text, started, Result{Output: report.Summary(), Err: err})
}

// ImportSchema reads an existing database schema and makes its JSON
// form the session's current model.
func (s *Session) ImportSchema(ctx context.Context, schemaName string) Result {
	started := time.Now()
	if s.deps.Importer == nil {
		return s.finish(OpImportSchema, schemaName, started, Result{Err: &InputError{Msg: "no database configured for import"}})
	}
	imported, err := s.deps.Importer.Introspect(ctx, schemaName)
	if err != nil {
		return s.finish(OpImportSchema, schemaName, started, Result{Err: err})
	}
	data, err := json.MarshalIndent(imported, "", "  ")
	if err != nil {
		return s.finish(OpImportSchema, schemaName, started, Result{Err: err})
	}
	text := "```json\n" + string(data) + "\n```\n\n" + imported.Summary()
	s.SetCurrentModel(text)
	return s.finish(OpImportSchema, schemaName, started, Result{Output: text, Schema: &imported})
}

func (s *Session) modelOr(model string) (string, error) {
	if strings.TrimSpace(model) != "" {
		return model, nil
	}
	if cur := s.CurrentModel(); cur != "" {
		return cur, nil
	}
	return "", &InputError{Msg: "no model given and none generated in this session yet"}
}

// finish completes res, logs it and appends it to the interaction log.
func (s *Session) finish(op Operation, input any, started time.Time, res Result) Result {
	res.Operation = op
	res.Kind = KindOf(res.Err)
	res.Duration = time.Since(started)

	attrs := []any{
		slog.String("session", s.ID.String()),
		slog.String("operation", string(op)),
		slog.Duration("duration", res.Duration),
	}
	if res.Err != nil {
		s.deps.Logger.Error("operation failed", append(attrs, slog.String("kind", res.Kind.String()), slog.String("error", res.Err.Error()))...)
	} else {
		s.deps.Logger.Info("operation finished", attrs...)
	}

	s.log.Append(op, input, res.Display())
	return res
}
