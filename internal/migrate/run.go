// Package migrate applies the embedded PostgreSQL schema.
package migrate

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"log/slog"
	"path"
	"slices"
	"strings"
	"time"

	"github.com/target/reportd/internal/data/pgxutil"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// lockKey serialises migrators across replicas started together.
const lockKey int64 = 0x7265706f727464 // "reportd"

// VersionStatus reports whether one embedded migration has been applied.
type VersionStatus struct {
	Version   string
	Applied   bool
	AppliedAt time.Time
}

// Run applies every embedded migration not yet recorded in schema_migrations,
// each in its own transaction. Calling it repeatedly is a no-op.
func Run(ctx context.Context, db *sql.DB) error {
	logger := slog.Default().With("component", "migrations")

	if err := ensureVersionTable(ctx, db); err != nil {
		return err
	}
	versions, err := embeddedVersions()
	if err != nil {
		return err
	}

	for _, version := range versions {
		applied, err := apply(ctx, db, version)
		if err != nil {
			return err
		}
		if applied {
			logger.InfoContext(ctx, "applied migration", "version", version)
		}
	}
	return nil
}

// Status lists every embedded migration in order with its applied state.
func Status(ctx context.Context, db *sql.DB) ([]VersionStatus, error) {
	if err := ensureVersionTable(ctx, db); err != nil {
		return nil, err
	}
	versions, err := embeddedVersions()
	if err != nil {
		return nil, err
	}
	applied, err := appliedVersions(ctx, db)
	if err != nil {
		return nil, err
	}

	out := make([]VersionStatus, 0, len(versions))
	for _, v := range versions {
		at, ok := applied[v]
		out = append(out, VersionStatus{Version: v, Applied: ok, AppliedAt: at})
	}
	return out, nil
}

func ensureVersionTable(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version TEXT PRIMARY KEY,
			applied_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`)
	if err != nil {
		return fmt.Errorf("create schema_migrations table: %w", err)
	}
	return nil
}

// embeddedVersions returns migration file names without extension, sorted.
func embeddedVersions() ([]string, error) {
	names, err := fs.Glob(migrationsFS, "migrations/*.sql")
	if err != nil {
		return nil, fmt.Errorf("read migrations: %w", err)
	}
	versions := make([]string, 0, len(names))
	for _, name := range names {
		versions = append(versions, strings.TrimSuffix(path.Base(name), ".sql"))
	}
	slices.Sort(versions)
	return versions, nil
}

func appliedVersions(ctx context.Context, db *sql.DB) (map[string]time.Time, error) {
	rows, err := db.QueryContext(ctx, `SELECT version, applied_at FROM schema_migrations`)
	if err != nil {
		return nil, fmt.Errorf("list applied migrations: %w", err)
	}
	defer rows.Close()

	out := make(map[string]time.Time)
	for rows.Next() {
		var (
			version string
			at      time.Time
		)
		if err := rows.Scan(&version, &at); err != nil {
			return nil, fmt.Errorf("scan applied migration: %w", err)
		}
		out[version] = at
	}
	return out, rows.Err()
}

// apply runs one migration under a transaction-scoped advisory lock and reports
// whether it did any work. The applied check happens after the lock is held so
// a concurrent migrator that won the race is observed.
func apply(ctx context.Context, db *sql.DB, version string) (bool, error) {
	body, err := migrationsFS.ReadFile("migrations/" + version + ".sql")
	if err != nil {
		return false, fmt.Errorf("read migration %s: %w", version, err)
	}

	var applied bool
	err = pgxutil.WithSQLTx(ctx, db, pgxutil.SQLTxConfig{Fn: func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock($1)`, lockKey); err != nil {
			return fmt.Errorf("lock migrations: %w", err)
		}

		var exists bool
		err := tx.QueryRowContext(ctx,
			`SELECT EXISTS(SELECT 1 FROM schema_migrations WHERE version = $1)`, version).Scan(&exists)
		if err != nil {
			return fmt.Errorf("check migration %s: %w", version, err)
		}
		if exists {
			return nil
		}

		if _, err := tx.ExecContext(ctx, string(body)); err != nil {
			return fmt.Errorf("exec migration %s: %w", version, err)
		}
		if _, err := tx.ExecContext(ctx, `INSERT INTO schema_migrations (version) VALUES ($1)`, version); err != nil {
			return fmt.Errorf("record migration %s: %w", version, err)
		}
		applied = true
		return nil
	}})
	return applied, err
}
