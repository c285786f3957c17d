// Package db manages the optional PostgreSQL connection used to dry-run
// generated DDL and to import an existing schema.
//
// Design decisions:
//   - Uses pgxpool for connection pooling (safe for concurrent access).
//   - SSH tunnel integration is handled transparently: if SSH is enabled,
//     we first establish the tunnel, then connect pgx to the local endpoint.
//   - Lazy defers connecting until the first operation that needs the
//     database, so the rest of the tool works without one.
package db

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/DachengChen/paiSchema/config"
	"github.com/DachengChen/paiSchema/schema"
	"github.com/DachengChen/paiSchema/ssh"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ConnectionError reports that the database could not be reached.
type ConnectionError struct {
	Target string
	Err    error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("connect to postgres %s: %v", e.Target, e.Err)
}

func (e *ConnectionError) Unwrap() error { return e.Err }

// DB wraps a pgx connection pool and optional SSH tunnel.
type DB struct {
	Pool   *pgxpool.Pool
	Tunnel *ssh.Tunnel
}

// Connect establishes a PostgreSQL connection, optionally through an SSH tunnel.
func Connect(ctx context.Context, cfg config.PostgresConfig, logger *slog.Logger) (*DB, error) {
	if logger == nil {
		logger = slog.Default()
	}
	d := &DB{}
	target := fmt.Sprintf("%s:%d/%s", cfg.Host, cfg.Port, cfg.Database)

	if cfg.SSH.Enabled {
		tunnel, err := ssh.NewTunnel(cfg.SSH, cfg.Host, cfg.Port, logger)
		if err != nil {
			return nil, &ConnectionError{Target: target, Err: fmt.Errorf("ssh tunnel: %w", err)}
		}
		localAddr, err := tunnel.Start(ctx)
		if err != nil {
			return nil, &ConnectionError{Target: target, Err: fmt.Errorf("ssh tunnel start: %w", err)}
		}
		d.Tunnel = tunnel

		// Override connection target with local tunnel endpoint
		cfg.Host = localAddr.Host
		cfg.Port = localAddr.Port
	}

	pool, err := pgxpool.New(ctx, cfg.DSN())
	if err != nil {
		d.Close()
		return nil, &ConnectionError{Target: target, Err: err}
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		d.Close()
		return nil, &ConnectionError{Target: target, Err: fmt.Errorf("ping: %w", err)}
	}

	logger.Info("connected to postgres", slog.String("target", target))
	d.Pool = pool
	return d, nil
}

// Close shuts down the pool and SSH tunnel.
func (d *DB) Close() {
	if d.Pool != nil {
		d.Pool.Close()
	}
	if d.Tunnel != nil {
		d.Tunnel.Stop()
	}
}

// Lazy connects on first use and then reuses the connection.
type Lazy struct {
	cfg    config.PostgresConfig
	logger *slog.Logger

	mu sync.Mutex
	db *DB
}

// NewLazy creates a Lazy connection for cfg. Nothing is dialed yet.
func NewLazy(cfg config.PostgresConfig, logger *slog.Logger) *Lazy {
	if logger == nil {
		logger = slog.Default()
	}
	return &Lazy{cfg: cfg, logger: logger}
}

func (l *Lazy) get(ctx context.Context) (*DB, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.db != nil {
		return l.db, nil
	}
	if !l.cfg.Enabled {
		return nil, &ConnectionError{Target: "(disabled)", Err: fmt.Errorf("postgres is not configured; set postgres.enabled or PGHOST")}
	}
	d, err := Connect(ctx, l.cfg, l.logger)
	if err != nil {
		return nil, err
	}
	l.db = d
	return d, nil
}

// Check dry-runs ddl; see Checker.Check.
func (l *Lazy) Check(ctx context.Context, ddl string) (CheckReport, error) {
	d, err := l.get(ctx)
	if err != nil {
		return CheckReport{}, err
	}
	return NewChecker(d.Pool, l.logger).Check(ctx, ddl)
}

// Introspect reads an existing schema; see DB.Introspect.
func (l *Lazy) Introspect(ctx context.Context, schemaName string) (schema.Schema, error) {
	d, err := l.get(ctx)
	if err != nil {
		return schema.Schema{}, err
	}
	return d.Introspect(ctx, schemaName)
}

// Close releases the connection if one was opened.
func (l *Lazy) Close() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.db != nil {
		l.db.Close()
		l.db = nil
	}
}
