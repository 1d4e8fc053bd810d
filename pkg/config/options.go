package config

import (
	"strings"
)

// Option is a function that modifies a Config.
// Options validate inputs and reject invalid values with warnings.
type Option func(*Config)

// OptDatabaseHost sets the PostgreSQL server hostname or IP address.
func OptDatabaseHost(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Database Host", s) {
			c.Database.Host = s
		}
	}
}

// OptDatabasePort sets the PostgreSQL server port number.
func OptDatabasePort(i int) Option {
	return func(c *Config) {
		if isValidInt("Database Port", i) {
			c.Database.Port = i
		}
	}
}

// OptDatabaseUser sets the PostgreSQL database username.
func OptDatabaseUser(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Database User", s) {
			c.Database.User = s
		}
	}
}

// OptDatabasePassword sets the PostgreSQL database password.
func OptDatabasePassword(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Database Password", s) {
			c.Database.Password = s
		}
	}
}

// OptDatabaseDatabase sets the PostgreSQL database name to connect to.
func OptDatabaseDatabase(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Database Name", s) {
			c.Database.Database = s
		}
	}
}

// OptDatabaseSSLMode sets the SSL connection mode.
// Valid values: "disable", "require", "verify-ca", "verify-full".
func OptDatabaseSSLMode(s string) Option {
	s = strings.TrimSpace(s)
	s = strings.ToLower(s)
	return func(c *Config) {
		if isValidEnum("Database.SSLMode", s) {
			c.Database.SSLMode = s
		}
	}
}

// OptDatabaseBatchSize sets the number of records to process per batch.
// Used for bulk operations in import, profiles, benefits and distances.
func OptDatabaseBatchSize(i int) Option {
	return func(c *Config) {
		if isValidInt("Batch Size", i) {
			c.Database.BatchSize = i
		}
	}
}

// OptImportDatasetIDs sets the list of dataset IDs to import.
// Empty slice means import all datasets from datasets.yaml.
// Runtime-only field - not in ToOptions().
func OptImportDatasetIDs(ii []int) Option {
	return func(c *Config) {
		if len(ii) > 0 {
			c.Import.DatasetIDs = ii
		}
	}
}

// OptEmbedDims sets the dimensionality of the phylogenetic embedding.
func OptEmbedDims(i int) Option {
	return func(c *Config) {
		if isValidInt("Embed Dims", i) {
			c.Embed.Dims = i
		}
	}
}

// OptEmbedMaxIter sets the SMACOF iteration cap.
func OptEmbedMaxIter(i int) Option {
	return func(c *Config) {
		if isValidInt("Embed MaxIter", i) {
			c.Embed.MaxIter = i
		}
	}
}

// OptEmbedSeed sets the random seed for embedding init and quality sampling.
func OptEmbedSeed(i int) Option {
	return func(c *Config) {
		if isValidInt("Embed Seed", i) {
			c.Embed.Seed = i
		}
	}
}

// OptEmbedSamplePairs sets the number of random pairs for the quality check.
func OptEmbedSamplePairs(i int) Option {
	return func(c *Config) {
		if isValidInt("Embed SamplePairs", i) {
			c.Embed.SamplePairs = i
		}
	}
}

// OptEmbedMinCorrelation sets the acceptance threshold for embedding
// fidelity. Valid range is (0,1].
func OptEmbedMinCorrelation(f float64) Option {
	return func(c *Config) {
		if isValidFraction("Embed MinCorrelation", f) {
			c.Embed.MinCorrelation = f
		}
	}
}

// OptEmbedWithBenchmark enables the recommender benchmark after embedding.
// Runtime-only field - not in ToOptions().
func OptEmbedWithBenchmark(b bool) Option {
	return func(c *Config) {
		c.Embed.WithBenchmark = b
	}
}

// OptServePort sets the TCP port of the HTTP API.
func OptServePort(i int) Option {
	return func(c *Config) {
		if isValidInt("Serve Port", i) {
			c.Serve.Port = i
		}
	}
}

// OptLogLevel sets the logging level.
// Valid values: "debug", "info", "warn", "error".
func OptLogLevel(s string) Option {
	s = strings.TrimSpace(s)
	s = strings.ToLower(s)
	return func(c *Config) {
		if isValidEnum("Log.Level", s) {
			c.Log.Level = s
		}
	}
}

// OptLogFormat sets the log output format.
// Valid values: "json", "text", "tint".
func OptLogFormat(s string) Option {
	s = strings.TrimSpace(s)
	s = strings.ToLower(s)
	return func(c *Config) {
		if isValidEnum("Log.Format", s) {
			c.Log.Format = s
		}
	}
}

// OptLogDestination sets where logs are written.
// Valid values: "file", "stdin", "stdout".
func OptLogDestination(s string) Option {
	s = strings.TrimSpace(s)
	s = strings.ToLower(s)
	return func(c *Config) {
		if isValidEnum("Log.Destination", s) {
			c.Log.Destination = s
		}
	}
}

// OptJobsNumber sets the number of concurrent workers for parallel operations.
// Default is runtime.NumCPU().
func OptJobsNumber(i int) Option {
	return func(c *Config) {
		if isValidInt("Jobs Number", i) {
			c.JobsNumber = i
		}
	}
}

// OptHomeDir sets the home directory for config, cache, artifact and log
// locations. Set once at startup from os.UserHomeDir().
// Runtime-only field - not in ToOptions().
func OptHomeDir(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Home Directory", s) {
			c.HomeDir = s
		}
	}
}
