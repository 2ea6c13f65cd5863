// Package pgxutil holds small helpers around database/sql connections backed by the pgx driver.
package pgxutil

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/stdlib"
)

// SQLTxConfig groups parameters for WithSQLTx.
type SQLTxConfig struct {
	Opts *sql.TxOptions
	Fn   func(*sql.Tx) error
}

// WithSQLTx runs the given function within a database/sql transaction.
func WithSQLTx(ctx context.Context, db *sql.DB, cfg SQLTxConfig) (err error) {
	tx, err := db.BeginTx(ctx, cfg.Opts)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		if rerr := tx.Rollback(); rerr != nil && !errors.Is(rerr, sql.ErrTxDone) {
			err = errors.Join(err, fmt.Errorf("rollback: %w", rerr))
		}
	}()
	if err = cfg.Fn(tx); err != nil {
		return err
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// ReadOnlyTx returns options for a read-only transaction at the server's default isolation.
func ReadOnlyTx() *sql.TxOptions {
	return &sql.TxOptions{ReadOnly: true}
}

// OpenDB opens a database/sql pool on top of the pgx driver from a parsed
// connection config.
func OpenDB(connString string) (*sql.DB, error) {
	cfg, err := pgx.ParseConfig(connString)
	if err != nil {
		return nil, fmt.Errorf("parse dsn: %w", err)
	}
	return stdlib.OpenDB(*cfg), nil
}

// Quote sanitises a possibly qualified identifier such as "jobs.id".
func Quote(parts ...string) string {
	return pgx.Identifier(parts).Sanitize()
}
