// Package config provides configuration management for GuildDB.
//
// This package has no I/O dependencies (no file operations, no network calls).
// Validation functions may write user-facing warnings via gn.Warn().
//
// # Configuration Sources
//
// Precedence (highest to lowest): CLI flags > env vars > config.yaml > defaults
//
// # Design Principles
//
// - Default config (from New()) is always valid - no validation needed
// - All mutations go through Option functions - the only way to modify Config
// - Invalid options are rejected with gn.Warn() - config remains in valid state
// - ToOptions() converts persistent fields (those in config.yaml)
// - Environment variables match ToOptions() fields exactly
//
// # Persistent vs Runtime Fields
//
// Persistent fields (in ToOptions, config.yaml, and env vars):
//   - Database: host, port, user, password, database, ssl_mode, batch_size
//   - Embed: dims, max_iter, seed, sample_pairs, min_correlation
//   - Serve: port
//   - Log: level, format, destination
//   - General: jobs_number
//
// Runtime-only fields (CLI flags only):
//   - Import.DatasetIDs, Embed.WithBenchmark (per-command)
//   - HomeDir (set once at startup)
//
// # Environment Variables
//
// Use GUILDDB_ prefix with underscores for nesting:
//
//	GUILDDB_DATABASE_HOST=localhost
//	GUILDDB_DATABASE_PORT=5432
//	GUILDDB_EMBED_DIMS=10
//	GUILDDB_LOG_LEVEL=info
//	GUILDDB_JOBS_NUMBER=8
package config

import (
	"runtime"
)

// Config represents the complete GuildDB configuration.
type Config struct {
	// Database contains PostgreSQL connection settings.
	Database DatabaseConfig `mapstructure:"database" yaml:"database"`

	// Import contains settings specific to the import command.
	Import ImportConfig `mapstructure:"import" yaml:"import"`

	// Embed contains settings for the embedding generator.
	Embed EmbedConfig `mapstructure:"embed" yaml:"embed"`

	// Serve contains settings for the HTTP API.
	Serve ServeConfig `mapstructure:"serve" yaml:"serve"`

	Log LogConfig `mapstructure:"log" yaml:"log"`

	// JobsNumber is the number of concurrent workers for parallel operations.
	// Default value is set according to the number of available threads.
	JobsNumber int `mapstructure:"jobs_number" yaml:"jobs_number"`

	// HomeDir determines where config, cache, artifacts and logs reside.
	// It must be set by CLI during init, there is no default value for it.
	HomeDir string
}

// DatabaseConfig contains PostgreSQL connection parameters.
type DatabaseConfig struct {
	// Host is the PostgreSQL server hostname or IP address.
	Host string `mapstructure:"host" yaml:"host"`

	// Port is the PostgreSQL server port number.
	Port int `mapstructure:"port" yaml:"port"`

	// User is the PostgreSQL database username.
	User string `mapstructure:"user" yaml:"user"`

	// Password is the PostgreSQL database password.
	Password string `mapstructure:"password" yaml:"password"`

	// Database is the PostgreSQL database name to connect to.
	Database string `mapstructure:"database" yaml:"database"`

	// SSLMode specifies the SSL connection mode.
	// Valid values: "disable", "require", "verify-ca", "verify-full"
	SSLMode string `mapstructure:"ssl_mode" yaml:"ssl_mode"`

	// BatchSize defines the number of records to process per batch for bulk
	// operations. Used by import, profiles, benefits and the matrix builder
	// (as the row-block size). Larger batches are faster but use more memory.
	BatchSize int `mapstructure:"batch_size" yaml:"batch_size"`
}

// ImportConfig contains settings specific to the import command.
type ImportConfig struct {
	// DatasetIDs is the list of dataset IDs to import.
	// Empty slice means import all datasets from datasets.yaml.
	// The CLI filters datasets and passes only the IDs to process.
	DatasetIDs []int `mapstructure:"dataset_ids" yaml:"dataset_ids"`
}

// EmbedConfig contains settings for the embedding generator.
type EmbedConfig struct {
	// Dims is the dimensionality of the phylogenetic embedding.
	Dims int `mapstructure:"dims" yaml:"dims"`

	// MaxIter caps the number of SMACOF majorization iterations.
	MaxIter int `mapstructure:"max_iter" yaml:"max_iter"`

	// Seed makes the random initialization and the quality sampling
	// reproducible.
	Seed int `mapstructure:"seed" yaml:"seed"`

	// SamplePairs is the number of random pairs used to estimate
	// embedding fidelity (Pearson correlation against the exact matrix).
	SamplePairs int `mapstructure:"sample_pairs" yaml:"sample_pairs"`

	// MinCorrelation is the acceptance threshold for the embedding
	// artifact. Below it the artifact is written but flagged stale.
	MinCorrelation float64 `mapstructure:"min_correlation" yaml:"min_correlation"`

	// WithBenchmark runs the recommender benchmark against the exact
	// tree oracle after embedding. Runtime-only, set by the --benchmark flag.
	WithBenchmark bool
}

// ServeConfig contains settings for the HTTP API server.
type ServeConfig struct {
	// Port is the TCP port the API listens on.
	Port int `mapstructure:"port" yaml:"port"`
}

// LogConfig provides typical settings for application logs.
type LogConfig struct {
	// Format can be 'json', 'text' or 'tint' (user-facing and colored).
	Format string `mapstructure:"format"      yaml:"format"`
	// Level of logging -- 'error', 'warn', 'info', 'debug'
	Level string `mapstructure:"level"       yaml:"level"`
	// Destination can be a log file (to default place), STDERR or STDOUT
	Destination string `mapstructure:"destination" yaml:"destination"`
}

// New creates a Config with sensible default values.
// The returned config is always valid and ready to use.
// Default values can be overridden using Option functions via Update().
func New() *Config {
	res := &Config{
		Database: DatabaseConfig{
			Host:      "localhost",
			Port:      5432,
			User:      "postgres",
			Password:  "postgres",
			Database:  "guilddb",
			SSLMode:   "disable",
			BatchSize: 50_000, // Batch size for bulk operations
		},
		Embed: EmbedConfig{
			Dims:           10,
			MaxIter:        300,
			Seed:           42,
			SamplePairs:    10_000,
			MinCorrelation: 0.85,
		},
		Serve: ServeConfig{
			Port: 8080,
		},
		Log: LogConfig{
			Format: "json",
			Level:  "info",
			// for now file is rewritten every time the log starts
			Destination: "file",
		},
		JobsNumber: runtime.NumCPU(), // Default to number of CPU threads
	}

	return res
}
