package db

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/DachengChen/paiSchema/sqlddl"
	pgx "github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// ErrNoStatements is returned when the DDL to check is empty.
var ErrNoStatements = errors.New("no SQL statements to check")

// Beginner starts transactions. *pgxpool.Pool satisfies it.
type Beginner interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

// CheckError reports the first statement the database rejected.
type CheckError struct {
	Index     int // 1-based
	Statement string
	Code      string // SQLSTATE, when the server reported one
	Err       error
}

func (e *CheckError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("statement %d rejected (%s): %v", e.Index, e.Code, e.Err)
	}
	return fmt.Sprintf("statement %d rejected: %v", e.Index, e.Err)
}

func (e *CheckError) Unwrap() error { return e.Err }

// StatementResult is one statement that executed successfully.
type StatementResult struct {
	SQL string
	Tag string
}

// CheckReport describes a dry run.
type CheckReport struct {
	Total    int
	Executed []StatementResult
}

// Summary returns a short human-readable description of the report.
func (r CheckReport) Summary() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%d of %d statement(s) executed, all rolled back", len(r.Executed), r.Total)
	for i, s := range r.Executed {
		fmt.Fprintf(&sb, "\n  %d. %s  [%s]", i+1, firstLine(s.SQL), s.Tag)
	}
	return sb.String()
}

// Checker dry-runs DDL inside a transaction that is always rolled back.
type Checker struct {
	db     Beginner
	logger *slog.Logger
}

// NewChecker creates a Checker on top of db.
func NewChecker(db Beginner, logger *slog.Logger) *Checker {
	if logger == nil {
		logger = slog.Default()
	}
	return &Checker{db: db, logger: logger}
}

// Check executes every statement of ddl in order and stops at the first
// failure, which is returned as a *CheckError. Nothing is ever committed.
func (c *Checker) Check(ctx context.Context, ddl string) (CheckReport, error) {
	stmts := sqlddl.SplitStatements(ddl)
	report := CheckReport{Total: len(stmts)}
	if len(stmts) == 0 {
		return report, ErrNoStatements
	}

	tx, err := c.db.Begin(ctx)
	if err != nil {
		return report, &ConnectionError{Target: "transaction", Err: err}
	}
	defer func() {
		if err := tx.Rollback(context.WithoutCancel(ctx)); err != nil && !errors.Is(err, pgx.ErrTxClosed) {
			c.logger.Warn("rollback after dry run failed", slog.String("error", err.Error()))
		}
	}()

	for i, stmt := range stmts {
		tag, err := tx.Exec(ctx, stmt)
		if err != nil {
			cerr := &CheckError{Index: i + 1, Statement: stmt, Err: err}
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) {
				cerr.Code = pgErr.Code
			}
			c.logger.Info("ddl dry run rejected", slog.Int("statement", i+1), slog.String("error", err.Error()))
			return report, cerr
		}
		report.Executed = append(report.Executed, StatementResult{SQL: stmt, Tag: tag.String()})
	}
	c.logger.Info("ddl dry run passed", slog.Int("statements", len(stmts)))
	return report, nil
}

func firstLine(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i] + " ..."
	}
	return s
}
