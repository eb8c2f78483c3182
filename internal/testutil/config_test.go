package testutil

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultTestDBConfig(t *testing.T) {
	t.Run("defaults target the local compose database", func(t *testing.T) {
		for _, key := range []string{"TEST_DB_HOST", "TEST_DB_PORT", "TEST_DB_USER", "TEST_DB_PASSWORD", "TEST_DB_NAME"} {
			t.Setenv(key, "")
		}

		assert.Equal(t, TestDBConfig{
			Host:     "localhost",
			Port:     "55432",
			User:     "reportd",
			Password: "reportd",
			DBName:   "reportd",
		}, DefaultTestDBConfig())
	})

	t.Run("environment overrides", func(t *testing.T) {
		t.Setenv("TEST_DB_HOST", "postgres")
		t.Setenv("TEST_DB_PORT", "5432")
		t.Setenv("TEST_DB_NAME", "reportd_ci")

		cfg := DefaultTestDBConfig()
		assert.Equal(t, "postgres", cfg.Host)
		assert.Equal(t, "5432", cfg.Port)
		assert.Equal(t, "reportd_ci", cfg.DBName)
	})
}

func TestTestDBConfigDSN(t *testing.T) {
	t.Setenv("DB_SSL_MODE", "")
	cfg := TestDBConfig{Host: "db", Port: "5432", User: "u", Password: "p@ss", DBName: "reportd"}

	u, err := url.Parse(cfg.DSN(""))
	require.NoError(t, err)
	assert.Equal(t, "db:5432", u.Host)
	assert.Equal(t, "/reportd", u.Path)
	pw, _ := u.User.Password()
	assert.Equal(t, "p@ss", pw)
	assert.Equal(t, "disable", u.Query().Get("sslmode"))
	assert.Empty(t, u.Query().Get("search_path"))

	u, err = url.Parse(cfg.DSN("t_abcd1234"))
	require.NoError(t, err)
	assert.Equal(t, "t_abcd1234,public", u.Query().Get("search_path"))
}

func TestSchemaName(t *testing.T) {
	a, b := schemaName(), schemaName()
	assert.Regexp(t, `^t_[0-9a-f]{8}$`, a)
	assert.NotEqual(t, a, b)
}

func TestEnvBool(t *testing.T) {
	for value, want := range map[string]bool{"1": true, "TRUE": true, " yes ": true, "y": true, "0": false, "": false, "nope": false} {
		t.Setenv("TESTUTIL_FLAG", value)
		assert.Equal(t, want, envBool("TESTUTIL_FLAG"), "value %q", value)
	}
}
