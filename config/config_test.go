package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "crewflow.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

func TestDefaultConfigIsValid(t *testing.T) {
	c := DefaultConfig()
	require.NoError(t, c.Validate())
	assert.Equal(t, ":3000", c.Server.Addr)
	assert.Equal(t, DriverMemory, c.Store.Driver)
}

func TestLoadFromFileKeepsDefaults(t *testing.T) {
	path := writeConfig(t, "store:\n  driver: sqlite\n  dsn: flows.db\n")

	c, err := LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, DriverSQLite, c.Store.Driver)
	assert.Equal(t, "flows.db", c.Store.DSN)
	assert.Equal(t, ":3000", c.Server.Addr)
	assert.Equal(t, "info", c.Log.Level)
}

func TestLoadFromFileErrors(t *testing.T) {
	_, err := LoadFromFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	_, err = LoadFromFile(writeConfig(t, "server: [unterminated"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		ok     bool
	}{
		{"defaults", func(*Config) {}, true},
		{"no addr", func(c *Config) { c.Server.Addr = "" }, false},
		{"unknown driver", func(c *Config) { c.Store.Driver = "redis" }, false},
		{"sqlite without dsn", func(c *Config) { c.Store.Driver = DriverSQLite }, false},
		{"postgres with dsn", func(c *Config) {
			c.Store.Driver = DriverPostgres
			c.Store.DSN = "postgres://localhost/crewflow"
		}, true},
		{"bad level", func(c *Config) { c.Log.Level = "loud" }, false},
		{"bad format", func(c *Config) { c.Log.Format = "xml" }, false},
		{"json debug", func(c *Config) { c.Log.Level = "debug"; c.Log.Format = "json" }, true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			c := DefaultConfig()
			tc.mutate(c)
			if tc.ok {
				assert.NoError(t, c.Validate())
			} else {
				assert.Error(t, c.Validate())
			}
		})
	}
}

func TestLoadAppliesDatabaseURL(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://env/crewflow")
	path := writeConfig(t, "store:\n  driver: postgres\n")

	c, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "postgres://env/crewflow", c.Store.DSN)
}

func TestLoadWithoutFile(t *testing.T) {
	c, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), c)
}

func TestSlogLevel(t *testing.T) {
	level, err := LogConfig{Level: "debug"}.SlogLevel()
	require.NoError(t, err)
	assert.Equal(t, slog.LevelDebug, level)
}
