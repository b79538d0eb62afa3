package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// allConfigKeys lists every SERVICEHUB_ env var that Load() reads.
var allConfigKeys = []string{
	"SERVICEHUB_LISTEN_ADDR",
	"SERVICEHUB_STORE",
	"SERVICEHUB_DATA_DIR",
	"SERVICEHUB_DB_PATH",
	"SERVICEHUB_POLL_INTERVAL",
	"SERVICEHUB_PROBE_TIMEOUT",
	"SERVICEHUB_PROBE_CONCURRENCY",
	"SERVICEHUB_SKIP_CATEGORIES",
	"SERVICEHUB_SKIP_NAME_KEYWORDS",
}

// isolateConfigEnv saves and unsets all SERVICEHUB_ env vars so tests don't
// inherit values from the host environment (e.g. a running dev server).
// t.Cleanup restores original values after the test.
func isolateConfigEnv(t *testing.T) {
	t.Helper()
	for _, key := range allConfigKeys {
		if orig, ok := os.LookupEnv(key); ok {
			t.Cleanup(func() { os.Setenv(key, orig) })
		} else {
			t.Cleanup(func() { os.Unsetenv(key) })
		}
		os.Unsetenv(key)
	}
}

func TestLoad_Defaults(t *testing.T) {
	isolateConfigEnv(t)

	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:8080", cfg.ListenAddr)
	assert.Equal(t, StoreJSON, cfg.Store)
	assert.False(t, cfg.UsesSQLite())
	assert.Equal(t, "data", cfg.DataDir)
	assert.Equal(t, "servicehub.db", cfg.DBPath)
	assert.Equal(t, 30*time.Second, cfg.PollInterval)
	assert.Equal(t, 3*time.Second, cfg.ProbeTimeout)
	assert.Equal(t, 8, cfg.ProbeConcurrency)
	assert.Equal(t, []string{"development"}, cfg.SkipCategories)
	assert.Equal(t, []string{"database"}, cfg.SkipNameKeywords)
}

func TestLoad_Success(t *testing.T) {
	isolateConfigEnv(t)
	t.Setenv("SERVICEHUB_LISTEN_ADDR", "0.0.0.0:9090")
	t.Setenv("SERVICEHUB_STORE", "SQLite")
	t.Setenv("SERVICEHUB_DATA_DIR", "/srv/hub")
	t.Setenv("SERVICEHUB_DB_PATH", "/tmp/test.db")
	t.Setenv("SERVICEHUB_POLL_INTERVAL", "1m")
	t.Setenv("SERVICEHUB_PROBE_TIMEOUT", "500ms")
	t.Setenv("SERVICEHUB_PROBE_CONCURRENCY", "2")
	t.Setenv("SERVICEHUB_SKIP_CATEGORIES", "development, lab ,")
	t.Setenv("SERVICEHUB_SKIP_NAME_KEYWORDS", "database,redis")

	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, "0.0.0.0:9090", cfg.ListenAddr)
	assert.Equal(t, StoreSQLite, cfg.Store)
	assert.True(t, cfg.UsesSQLite())
	assert.Equal(t, "/srv/hub", cfg.DataDir)
	assert.Equal(t, "/tmp/test.db", cfg.DBPath)
	assert.Equal(t, time.Minute, cfg.PollInterval)
	assert.Equal(t, 500*time.Millisecond, cfg.ProbeTimeout)
	assert.Equal(t, 2, cfg.ProbeConcurrency)
	assert.Equal(t, []string{"development", "lab"}, cfg.SkipCategories)
	assert.Equal(t, []string{"database", "redis"}, cfg.SkipNameKeywords)
}

func TestLoad_EmptyListDisablesSkipping(t *testing.T) {
	isolateConfigEnv(t)
	t.Setenv("SERVICEHUB_SKIP_CATEGORIES", "")
	t.Setenv("SERVICEHUB_SKIP_NAME_KEYWORDS", " , ")

	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, []string{}, cfg.SkipCategories)
	assert.Equal(t, []string{}, cfg.SkipNameKeywords)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{name: "unknown store", key: "SERVICEHUB_STORE", value: "postgres"},
		{name: "bad poll interval", key: "SERVICEHUB_POLL_INTERVAL", value: "not-a-duration"},
		{name: "zero poll interval", key: "SERVICEHUB_POLL_INTERVAL", value: "0s"},
		{name: "bad probe timeout", key: "SERVICEHUB_PROBE_TIMEOUT", value: "soon"},
		{name: "negative probe timeout", key: "SERVICEHUB_PROBE_TIMEOUT", value: "-1s"},
		{name: "bad concurrency", key: "SERVICEHUB_PROBE_CONCURRENCY", value: "many"},
		{name: "zero concurrency", key: "SERVICEHUB_PROBE_CONCURRENCY", value: "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			isolateConfigEnv(t)
			t.Setenv(tt.key, tt.value)

			cfg, err := Load()

			assert.Nil(t, cfg)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.key)
		})
	}
}
