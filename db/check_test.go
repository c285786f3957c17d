package db

import (
	"context"
	"errors"
	"testing"

	pgx "github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeTx implements the parts of pgx.Tx the checker uses.
type fakeTx struct {
	pgx.Tx
	execs      []string
	fail       map[int]error
	rolledBack int
	committed  bool
}

func (f *fakeTx) Exec(_ context.Context, sql string, _ ...any) (pgconn.CommandTag, error) {
	f.execs = append(f.execs, sql)
	if err := f.fail[len(f.execs)]; err != nil {
		return pgconn.CommandTag{}, err
	}
	return pgconn.NewCommandTag("CREATE TABLE"), nil
}

func (f *fakeTx) Rollback(context.Context) error {
	f.rolledBack++
	return nil
}

func (f *fakeTx) Commit(context.Context) error {
	f.committed = true
	return nil
}

type fakeBeginner struct {
	tx  *fakeTx
	err error
}

func (b *fakeBeginner) Begin(context.Context) (pgx.Tx, error) {
	if b.err != nil {
		return nil, b.err
	}
	return b.tx, nil
}

func TestCheckAllStatementsPass(t *testing.T) {
	tx := &fakeTx{}
	c := NewChecker(&fakeBeginner{tx: tx}, nil)

	report, err := c.Check(context.Background(), "CREATE TABLE a (x INT);\nCREATE TABLE b (y INT);")
	require.NoError(t, err)
	assert.Equal(t, 2, report.Total)
	require.Len(t, report.Executed, 2)
	assert.Equal(t, "CREATE TABLE", report.Executed[0].Tag)
	assert.Equal(t, []string{"CREATE TABLE a (x INT)", "CREATE TABLE b (y INT)"}, tx.execs)
	assert.Equal(t, 1, tx.rolledBack)
	assert.False(t, tx.committed)
	assert.Contains(t, report.Summary(), "2 of 2 statement(s) executed, all rolled back")
}

func TestCheckStopsAtFirstFailure(t *testing.T) {
	pgErr := &pgconn.PgError{Code: "42P07", Message: `relation "a" already exists`}
	tx := &fakeTx{fail: map[int]error{2: pgErr}}
	c := NewChecker(&fakeBeginner{tx: tx}, nil)

	report, err := c.Check(context.Background(), "CREATE TABLE a (x INT); CREATE TABLE a (x INT); CREATE TABLE c (z INT);")
	var cerr *CheckError
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, 2, cerr.Index)
	assert.Equal(t, "42P07", cerr.Code)
	assert.Equal(t, "CREATE TABLE a (x INT)", cerr.Statement)
	assert.Len(t, report.Executed, 1)
	assert.Len(t, tx.execs, 2)
	assert.Equal(t, 1, tx.rolledBack)
}

func TestCheckEmpty(t *testing.T) {
	c := NewChecker(&fakeBeginner{tx: &fakeTx{}}, nil)
	_, err := c.Check(context.Background(), " -- nothing\n ; ")
	assert.ErrorIs(t, err, ErrNoStatements)
}

func TestCheckBeginFailure(t *testing.T) {
	c := NewChecker(&fakeBeginner{err: errors.New("pool closed")}, nil)
	_, err := c.Check(context.Background(), "CREATE TABLE a (x INT);")
	var connErr *ConnectionError
	assert.ErrorAs(t, err, &connErr)
}

func TestLazyDisabled(t *testing.T) {
	l := NewLazy(configDisabled(), nil)
	_, err := l.Check(context.Background(), "CREATE TABLE a (x INT);")
	var connErr *ConnectionError
	require.ErrorAs(t, err, &connErr)
	assert.Contains(t, err.Error(), "not configured")
	l.Close()
}
