// Package pgxutil bridges database/sql handles opened with the pgx stdlib
// driver to pgx's native row collection API.
package pgxutil

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/stdlib"
)

// SQLTxConfig describes a database/sql transaction body.
type SQLTxConfig struct {
	Opts *sql.TxOptions
	Fn   func(*sql.Tx) error
}

// WithSQLTx runs cfg.Fn inside a transaction and commits when it returns nil.
// Rollback errors other than sql.ErrTxDone are joined onto the returned error.
func WithSQLTx(ctx context.Context, db *sql.DB, cfg SQLTxConfig) (err error) {
	if cfg.Fn == nil {
		return errors.New("pgxutil: transaction body is nil")
	}

	tx, err := db.BeginTx(ctx, cfg.Opts)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		rerr := tx.Rollback()
		if rerr != nil && !errors.Is(rerr, sql.ErrTxDone) {
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

// WithPgxConn borrows a connection from db and hands fn the underlying *pgx.Conn.
func WithPgxConn(ctx context.Context, db *sql.DB, fn func(*pgx.Conn) error) error {
	conn, err := db.Conn(ctx)
	if err != nil {
		return fmt.Errorf("get conn from pool: %w", err)
	}
	defer conn.Close() //nolint:errcheck // returning a conn to the pool does not fail meaningfully

	return conn.Raw(func(driverConn any) error {
		std, ok := driverConn.(*stdlib.Conn)
		if !ok {
			return fmt.Errorf("pgxutil: unexpected driver connection %T", driverConn)
		}
		return fn(std.Conn())
	})
}

// Collect runs query and maps every row with fn.
func Collect[T any](ctx context.Context, db *sql.DB, fn pgx.RowToFunc[T], query string, args ...any) ([]T, error) {
	var out []T
	err := WithPgxConn(ctx, db, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, query, args...)
		if err != nil {
			return err
		}
		out, err = pgx.CollectRows(rows, fn)
		return err
	})
	return out, err
}

// CollectOne runs query and maps its single row with fn.
// pgx.ErrNoRows is returned unwrapped so callers can translate it.
func CollectOne[T any](ctx context.Context, db *sql.DB, fn pgx.RowToFunc[T], query string, args ...any) (T, error) {
	var out T
	err := WithPgxConn(ctx, db, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, query, args...)
		if err != nil {
			return err
		}
		out, err = pgx.CollectExactlyOneRow(rows, fn)
		return err
	})
	return out, err
}
