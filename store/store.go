// Package store materializes a schema into a MongoDB database: one
// collection per table, one synthetic document per collection.
//
// Design decisions:
//   - The connection is opened per Materialize call and always closed
//     before returning, including on failure.
//   - Tables are inserted independently. A failed insert does not roll
//     back tables that were already written.
//   - The driver sits behind the Inserter interface so the document
//     synthesis and error handling can be tested without a server.
package store

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/DachengChen/paiSchema/config"
	"github.com/DachengChen/paiSchema/schema"
	"go.mongodb.org/mongo-driver/bson"
)

// Inserter writes single documents into named collections.
type Inserter interface {
	InsertOne(ctx context.Context, collection string, doc bson.D) (string, error)
	Close(ctx context.Context) error
}

// Dialer opens an Inserter for the given connection string and database.
type Dialer func(ctx context.Context, uri, database string) (Inserter, error)

// ConnectionError reports that the document store could not be reached.
type ConnectionError struct {
	URI string
	Err error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("connect to document store %s: %v", e.URI, e.Err)
}

func (e *ConnectionError) Unwrap() error { return e.Err }

// WriteError reports a failed insert into one table's collection.
type WriteError struct {
	Table string
	Err   error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("insert into %s: %v", e.Table, e.Err)
}

func (e *WriteError) Unwrap() error { return e.Err }

// Inserted records one written document.
type Inserted struct {
	Table string
	ID    string
	Doc   bson.D
}

// Report describes the outcome of a Materialize call.
type Report struct {
	Database string
	Inserted []Inserted
	Failed   []string
}

// Summary returns a short human-readable description of the report.
func (r Report) Summary() string {
	s := fmt.Sprintf("inserted %d document(s) into database %q", len(r.Inserted), r.Database)
	for _, ins := range r.Inserted {
		s += fmt.Sprintf("\n  %s: _id=%s", ins.Table, ins.ID)
	}
	if len(r.Failed) > 0 {
		s += fmt.Sprintf("\nfailed tables: %v", r.Failed)
	}
	return s
}

// Materializer writes sample documents for a schema.
type Materializer struct {
	uri      string
	database string
	timeout  time.Duration
	dial     Dialer
	logger   *slog.Logger
}

// NewMaterializer creates a Materializer backed by the MongoDB driver.
func NewMaterializer(cfg config.MongoConfig, logger *slog.Logger) *Materializer {
	return NewMaterializerWithDialer(cfg, DialMongo, logger)
}

// NewMaterializerWithDialer creates a Materializer using dial to connect.
func NewMaterializerWithDialer(cfg config.MongoConfig, dial Dialer, logger *slog.Logger) *Materializer {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	database := cfg.Database
	if database == "" {
		database = "paischema"
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Materializer{uri: cfg.URI, database: database, timeout: timeout, dial: dial, logger: logger}
}

// Materialize inserts one synthetic document per table of s. An empty
// uri selects the configured connection string. Every call inserts new
// documents; nothing is deduplicated.
func (m *Materializer) Materialize(ctx context.Context, s schema.Schema, uri string) (Report, error) {
	if uri == "" {
		uri = m.uri
	}
	report := Report{Database: m.database}
	redacted := redactURI(uri)

	dialCtx, cancel := context.WithTimeout(ctx, m.timeout)
	conn, err := m.dial(dialCtx, uri, m.database)
	cancel()
	if err != nil {
		m.logger.Error("document store connection failed", slog.String("uri", redacted), slog.String("error", err.Error()))
		return report, &ConnectionError{URI: redacted, Err: err}
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), m.timeout)
		defer cancel()
		if err := conn.Close(closeCtx); err != nil {
			m.logger.Warn("closing document store connection", slog.String("error", err.Error()))
		}
	}()

	var errs []error
	for _, t := range s.Tables {
		doc := SampleDocument(t)
		id, err := conn.InsertOne(ctx, t.Name, doc)
		if err != nil {
			m.logger.Error("materialize table failed", slog.String("table", t.Name), slog.String("error", err.Error()))
			report.Failed = append(report.Failed, t.Name)
			errs = append(errs, &WriteError{Table: t.Name, Err: err})
			continue
		}
		m.logger.Info("materialized table", slog.String("table", t.Name), slog.String("id", id))
		report.Inserted = append(report.Inserted, Inserted{Table: t.Name, ID: id, Doc: doc})
	}
	return report, errors.Join(errs...)
}
