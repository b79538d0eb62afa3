// Package config loads application configuration from environment variables.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Store backends selectable with SERVICEHUB_STORE.
const (
	StoreJSON   = "json"
	StoreSQLite = "sqlite"
)

// Config holds the application configuration loaded from environment variables.
type Config struct {
	ListenAddr       string
	Store            string
	DataDir          string
	DBPath           string
	PollInterval     time.Duration
	ProbeTimeout     time.Duration
	ProbeConcurrency int
	SkipCategories   []string
	SkipNameKeywords []string
}

// UsesSQLite reports whether documents are kept in the SQLite database rather
// than in JSON files under DataDir.
func (c *Config) UsesSQLite() bool {
	return c.Store == StoreSQLite
}

// Load reads configuration from environment variables and returns a validated Config.
// Optional variables with defaults: SERVICEHUB_LISTEN_ADDR (127.0.0.1:8080),
// SERVICEHUB_STORE (json), SERVICEHUB_DATA_DIR (data), SERVICEHUB_DB_PATH
// (servicehub.db), SERVICEHUB_POLL_INTERVAL (30s), SERVICEHUB_PROBE_TIMEOUT (3s),
// SERVICEHUB_PROBE_CONCURRENCY (8), SERVICEHUB_SKIP_CATEGORIES (development),
// SERVICEHUB_SKIP_NAME_KEYWORDS (database). List variables are comma separated;
// setting one to an empty string disables it.
func Load() (*Config, error) {
	listenAddr := "127.0.0.1:8080"
	if v, ok := os.LookupEnv("SERVICEHUB_LISTEN_ADDR"); ok {
		listenAddr = v
	}

	store := StoreJSON
	if v, ok := os.LookupEnv("SERVICEHUB_STORE"); ok && v != "" {
		store = strings.ToLower(strings.TrimSpace(v))
		if store != StoreJSON && store != StoreSQLite {
			return nil, fmt.Errorf("SERVICEHUB_STORE must be %q or %q, got %q", StoreJSON, StoreSQLite, v)
		}
	}

	dataDir := "data"
	if v, ok := os.LookupEnv("SERVICEHUB_DATA_DIR"); ok && v != "" {
		dataDir = v
	}

	dbPath := "servicehub.db"
	if v, ok := os.LookupEnv("SERVICEHUB_DB_PATH"); ok && v != "" {
		dbPath = v
	}

	pollInterval, err := durationEnv("SERVICEHUB_POLL_INTERVAL", 30*time.Second)
	if err != nil {
		return nil, err
	}

	probeTimeout, err := durationEnv("SERVICEHUB_PROBE_TIMEOUT", 3*time.Second)
	if err != nil {
		return nil, err
	}

	concurrency := 8
	if v, ok := os.LookupEnv("SERVICEHUB_PROBE_CONCURRENCY"); ok {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed < 1 {
			return nil, fmt.Errorf("SERVICEHUB_PROBE_CONCURRENCY must be a positive integer, got %q", v)
		}
		concurrency = parsed
	}

	return &Config{
		ListenAddr:       listenAddr,
		Store:            store,
		DataDir:          dataDir,
		DBPath:           dbPath,
		PollInterval:     pollInterval,
		ProbeTimeout:     probeTimeout,
		ProbeConcurrency: concurrency,
		SkipCategories:   listEnv("SERVICEHUB_SKIP_CATEGORIES", []string{"development"}),
		SkipNameKeywords: listEnv("SERVICEHUB_SKIP_NAME_KEYWORDS", []string{"database"}),
	}, nil
}

func durationEnv(key string, def time.Duration) (time.Duration, error) {
	v, ok := os.LookupEnv(key)
	if !ok {
		return def, nil
	}
	parsed, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s has invalid duration %q: %w", key, v, err)
	}
	if parsed <= 0 {
		return 0, fmt.Errorf("%s must be positive, got %q", key, v)
	}
	return parsed, nil
}

// listEnv splits a comma separated variable, dropping blank entries. An unset
// variable yields def; a set but empty one yields an empty list.
func listEnv(key string, def []string) []string {
	v, ok := os.LookupEnv(key)
	if !ok {
		return def
	}

	items := []string{}
	for _, item := range strings.Split(v, ",") {
		item = strings.TrimSpace(item)
		if item != "" {
			items = append(items, item)
		}
	}
	return items
}
