// Package iotesting provides shared test utilities for integration tests.
// This is an internal package for test infrastructure only.
package iotesting

import (
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/permaguild/guilddb/pkg/config"
)

const (
	// TestDatabaseName is the database name used for all integration tests.
	// This ensures tests never accidentally run against production databases.
	TestDatabaseName = "guilddb_test"
)

// GetTestConfig returns a configuration suitable for integration tests.
// It starts from the built-in defaults, applies GUILDDB_DATABASE_* environment
// variables, and overrides the database name to TestDatabaseName for safety.
//
// Usage in integration tests:
//
//	func TestSomething(t *testing.T) {
//	    if testing.Short() {
//	        t.Skip("Skipping integration test")
//	    }
//	    cfg := iotesting.GetTestConfig()
//	    // ... use cfg for database operations
//	}
func GetTestConfig() *config.Config {
	var opts []config.Option

	if host := os.Getenv("GUILDDB_DATABASE_HOST"); host != "" {
		opts = append(opts, config.OptDatabaseHost(host))
	}
	if port := os.Getenv("GUILDDB_DATABASE_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			opts = append(opts, config.OptDatabasePort(p))
		}
	}
	if user := os.Getenv("GUILDDB_DATABASE_USER"); user != "" {
		opts = append(opts, config.OptDatabaseUser(user))
	}
	if pass := os.Getenv("GUILDDB_DATABASE_PASSWORD"); pass != "" {
		opts = append(opts, config.OptDatabasePassword(pass))
	}

	cfg := config.New()
	cfg.Update(opts)

	// Always use test database for safety
	cfg.Database.Database = TestDatabaseName

	return cfg
}

// GetTestDatabaseConfig returns only the database configuration for tests.
// This is useful when you only need database config without the full Config struct.
func GetTestDatabaseConfig() *config.DatabaseConfig {
	cfg := GetTestConfig()
	return &cfg.Database
}

// SetupTempHome creates a temporary home directory for a test. All config,
// cache, log and artifact paths derive from the home directory, so pointing
// a test at a temporary home keeps it away from production files in
// ~/.config/guilddb and ~/.local/share/guilddb. The directory is cleaned up
// automatically when the test finishes.
//
// Usage:
//
//	func TestSomething(t *testing.T) {
//	    home := iotesting.SetupTempHome(t)
//	    // config.ConfigDir(home) etc. now point below the temp dir
//	}
//
// Returns the absolute path to the temporary home directory.
func SetupTempHome(t *testing.T) string {
	t.Helper()

	tempDir, err := os.MkdirTemp("", "guilddb-test-home-*")
	if err != nil {
		t.Fatalf("Failed to create temp home dir: %v", err)
	}

	t.Cleanup(func() {
		os.RemoveAll(tempDir)
	})

	return tempDir
}

// WriteTempDatasetsYAML writes a datasets.yaml file below the given home
// directory, creating the config directory if needed.
//
// Usage:
//
//	home := iotesting.SetupTempHome(t)
//	iotesting.WriteTempDatasetsYAML(t, home, `
//	datasets:
//	  - id: 1000
//	    kind: plants
//	    parent: /path/to/testdata
//	`)
func WriteTempDatasetsYAML(t *testing.T, homeDir, content string) {
	t.Helper()

	configDir := config.ConfigDir(homeDir)
	if err := os.MkdirAll(configDir, 0755); err != nil {
		t.Fatalf("Failed to create temp config dir: %v", err)
	}

	datasetsPath := filepath.Join(configDir, "datasets.yaml")
	err := os.WriteFile(datasetsPath, []byte(content), 0644)
	if err != nil {
		t.Fatalf("Failed to write temp datasets.yaml: %v", err)
	}
}
