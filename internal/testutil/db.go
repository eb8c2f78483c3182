// Package testutil provides PostgreSQL and Redis fixtures for integration tests
// plus builders for report job requests.
//
// Integration helpers skip the calling test when infrastructure is missing unless
// TEST_REQUIRE_DB, TEST_REQUIRE_REDIS or TEST_REQUIRE_INFRA is truthy.
package testutil

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/hex"
	"net"
	"net/url"
	"os"
	"strings"
	"time"

	// Registers the "pgx" database/sql driver.
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/target/reportd/internal/migrate"
)

// TestingTB is the subset of testing.TB the fixtures need.
type TestingTB interface {
	Helper()
	Skip(args ...any)
	Skipf(format string, args ...any)
	Fatal(args ...any)
	Fatalf(format string, args ...any)
	Logf(format string, args ...any)
	Cleanup(func())
}

// TestDBConfig locates the integration database.
type TestDBConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
}

// DefaultTestDBConfig reads TEST_DB_* variables. The port defaults to 55432,
// the docker-compose test profile; CI sets TEST_DB_PORT=5432.
func DefaultTestDBConfig() TestDBConfig {
	return TestDBConfig{
		Host:     envOr("TEST_DB_HOST", "localhost"),
		Port:     envOr("TEST_DB_PORT", "55432"),
		User:     envOr("TEST_DB_USER", "reportd"),
		Password: envOr("TEST_DB_PASSWORD", "reportd"),
		DBName:   envOr("TEST_DB_NAME", "reportd"),
	}
}

// DSN renders the config as a postgres URL. A non-empty schema is placed first on the search_path.
func (c TestDBConfig) DSN(schema string) string {
	q := url.Values{}
	q.Set("sslmode", envOr("DB_SSL_MODE", "disable"))
	if schema != "" {
		q.Set("search_path", schema+",public")
	}
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.User, c.Password),
		Host:     net.JoinHostPort(c.Host, c.Port),
		Path:     "/" + c.DBName,
		RawQuery: q.Encode(),
	}
	return u.String()
}

// cleanupTables lists every table tests write to, children first.
var cleanupTables = []string{
	"personal_report_logs",
	"project_report_logs",
	"personal_report_jobs",
	"project_report_jobs",
	"report_job_keys",
	"subscribers",
	"tasks",
	"project_members",
	"projects",
	"members",
}

// SkipIfNoTestDB skips t when the integration database does not answer a ping.
func SkipIfNoTestDB(t TestingTB) {
	t.Helper()

	db, err := sql.Open("pgx", DefaultTestDBConfig().DSN(""))
	if err == nil {
		defer db.Close()
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		err = db.PingContext(ctx)
	}
	if err == nil {
		return
	}
	if requireDB() {
		t.Fatal("test database not available:", err)
	}
	t.Skip("test database not available:", err)
}

// WithAutoDB runs fn against a migrated database. With TEST_DB_EPHEMERAL set the
// database is a throwaway schema dropped on cleanup; otherwise the shared test
// database is emptied before and after fn.
func WithAutoDB(t TestingTB, fn func(*sql.DB)) {
	t.Helper()
	SkipIfNoTestDB(t)

	if envBool("TEST_DB_EPHEMERAL") {
		fn(openEphemeralSchema(t))
		return
	}

	db := openMigrated(t, "")
	truncateAll(t, db)
	t.Cleanup(func() {
		truncateAll(t, db)
		if err := db.Close(); err != nil {
			t.Logf("warning: close test db: %v", err)
		}
	})
	fn(db)
}

func openMigrated(t TestingTB, schema string) *sql.DB {
	t.Helper()

	db, err := sql.Open("pgx", DefaultTestDBConfig().DSN(schema))
	if err != nil {
		t.Fatal("open test db:", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		t.Fatal("ping test db (is docker-compose --profile test up?):", err)
	}
	if err := migrate.Run(ctx, db); err != nil {
		_ = db.Close()
		t.Fatal("migrate test db:", err)
	}
	return db
}

func truncateAll(t TestingTB, db *sql.DB) {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	for _, table := range cleanupTables {
		if _, err := db.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			t.Fatalf("clean table %s: %v", table, err)
		}
	}
}

// openEphemeralSchema creates schema t_<hex>, migrates into it and drops it on cleanup.
func openEphemeralSchema(t TestingTB) *sql.DB {
	t.Helper()

	admin, err := sql.Open("pgx", DefaultTestDBConfig().DSN(""))
	if err != nil {
		t.Fatal("open admin db:", err)
	}

	schema := schemaName()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if _, err := admin.ExecContext(ctx, "CREATE SCHEMA "+schema); err != nil {
		_ = admin.Close()
		t.Fatalf("create schema %s: %v", schema, err)
	}
	t.Logf("using ephemeral schema %s", schema)

	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if _, err := admin.ExecContext(ctx, "DROP SCHEMA IF EXISTS "+schema+" CASCADE"); err != nil {
			t.Logf("warning: drop schema %s: %v", schema, err)
		}
		_ = admin.Close()
	})

	db := openMigrated(t, schema)
	db.SetMaxOpenConns(10)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func schemaName() string {
	b := make([]byte, 4)
	if _, err := rand.Read(b); err != nil {
		return "t_" + strings.ReplaceAll(time.Now().UTC().Format("150405.000000"), ".", "")
	}
	return "t_" + hex.EncodeToString(b)
}

// TestTime is the fixed instant builders anchor report windows to.
func TestTime() time.Time {
	return time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envBool(key string) bool {
	switch strings.ToLower(strings.TrimSpace(os.Getenv(key))) {
	case "1", "true", "yes", "y":
		return true
	default:
		return false
	}
}

func requireDB() bool    { return envBool("TEST_REQUIRE_DB") || envBool("TEST_REQUIRE_INFRA") }
func requireRedis() bool { return envBool("TEST_REQUIRE_REDIS") || envBool("TEST_REQUIRE_INFRA") }
