package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/gnames/gn"
	"github.com/permaguild/guilddb/internal/iofs"
	"github.com/permaguild/guilddb/internal/iologger"
	"github.com/permaguild/guilddb/pkg/config"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile string
	homeDir string
	cfg     *config.Config
)

func getRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Version: fmt.Sprintf("version: %s\nbuild:   %s", Version, Build),
		Use:     "guilddb",
		Short:   "GuildDB manages the plant guild database lifecycle",
		Long: `GuildDB is a CLI tool for managing the complete lifecycle of the plant
guild PostgreSQL database, from schema creation through dataset imports,
derived interaction profiles and distance artifacts, to the online
commands that score and recommend companion plantings.

Offline phases (in dependency order):
  - create: create the database schema
  - migrate: apply schema migrations
  - import: load dataset snapshots (plants, interactions, fungal traits)
  - profiles: mine interactions into per-plant organism profiles
  - benefits: mine cross-plant biocontrol benefits
  - distances: build the exact phylogenetic distance matrix
  - embed: project the matrix into a compact metric embedding
  - pairs: precompute pairwise compatibility entries
  - verify: check artifact integrity and staleness

Online commands:
  - score: score a guild of 2-20 plants
  - recommend: rank candidate companions for a partial guild
  - search: find plants by name fragment
  - serve: run the HTTP scoring API

Configuration precedence (highest to lowest):
  1. CLI flags
  2. Environment variables (GUILDDB_*)
  3. Config file (~/.config/guilddb/config.yaml)
  4. Built-in defaults

Environment Variables:
  Nested fields use underscores (database.host → GUILDDB_DATABASE_HOST).

  Examples:
    GUILDDB_DATABASE_HOST           PostgreSQL host
    GUILDDB_DATABASE_PORT           PostgreSQL port
    GUILDDB_DATABASE_USER           PostgreSQL user
    GUILDDB_DATABASE_PASSWORD       PostgreSQL password
    GUILDDB_DATABASE_DATABASE       Database name
    GUILDDB_EMBED_DIMS              Embedding dimensionality
    GUILDDB_SERVE_PORT              HTTP API port
    GUILDDB_LOG_LEVEL               Log level (debug/info/warn/error)

  See 'go doc github.com/permaguild/guilddb/pkg/config' for the
  complete list.`,
		PersistentPreRunE: bootstrap,
		SilenceErrors:     true,
		SilenceUsage:      true,
	}

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "",
		"config file (default: ~/.config/guilddb/config.yaml)")

	// Remove the automatic "guilddb version" prefix
	rootCmd.SetVersionTemplate("{{.Version}}\n")

	// Override version flag to use -V (consistent with other gn projects)
	rootCmd.Flags().BoolP("version", "V", false, "version for guilddb")

	rootCmd.AddCommand(getCreateCmd())
	rootCmd.AddCommand(getMigrateCmd())
	rootCmd.AddCommand(getImportCmd())
	rootCmd.AddCommand(getProfilesCmd())
	rootCmd.AddCommand(getBenefitsCmd())
	rootCmd.AddCommand(getDistancesCmd())
	rootCmd.AddCommand(getEmbedCmd())
	rootCmd.AddCommand(getPairsCmd())
	rootCmd.AddCommand(getVerifyCmd())
	rootCmd.AddCommand(getScoreCmd())
	rootCmd.AddCommand(getRecommendCmd())
	rootCmd.AddCommand(getSearchCmd())
	rootCmd.AddCommand(getServeCmd())

	return rootCmd
}

func bootstrap(cmd *cobra.Command, args []string) error {
	var err error
	homeDir, err = os.UserHomeDir()
	if err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	if err = iofs.EnsureDirs(homeDir); err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	// Initialize logging with hardcoded defaults.
	// Will be reconfigured later with user's config settings.
	defaultLog := config.LogConfig{
		Format:      "json",
		Level:       "info",
		Destination: "file",
	}
	if err = iologger.Init(config.LogDir(homeDir), defaultLog, false); err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	if err = iofs.EnsureConfigFile(homeDir); err != nil {
		gn.PrintErrorMessage(err)
		return err
	}
	if err = iofs.EnsureDatasetsFile(homeDir); err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	gn.Info(
		"Configuration files are available at <em>%s</em>",
		config.ConfigDir(homeDir),
	)

	var cfgViper *config.Config
	if cfgViper, err = initConfig(homeDir); err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	cfg = config.New()
	cfg.Update(cfgViper.ToOptions())

	// Set HomeDir after config is loaded
	cfg.Update([]config.Option{config.OptHomeDir(homeDir)})

	// Reconfigure logging with user's settings, appending so the
	// entries from the bootstrap phase survive.
	if err = reconfigureLogging(cfg); err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	slog.Info("Configuration loaded",
		"config_file", config.ConfigFilePath(homeDir))

	return nil
}

// reconfigureLogging reinitializes the logger with the loaded
// configuration.
func reconfigureLogging(cfg *config.Config) error {
	logDir := config.LogDir(cfg.HomeDir)
	return iologger.Init(logDir, cfg.Log, true)
}

func initConfig(home string) (*config.Config, error) {
	var err error
	cfgPath := config.ConfigFilePath(home)
	if cfgFile != "" {
		cfgPath = cfgFile
	}
	v := viper.New()
	v.SetConfigFile(cfgPath)

	initEnvVars(v)

	if err = v.ReadInConfig(); err != nil {
		return nil, iofs.ReadFileError(cfgPath, err)
	}

	var res config.Config
	if err = v.Unmarshal(&res); err != nil {
		return nil, iofs.ReadFileError(cfgPath, err)
	}

	return &res, nil
}

func initEnvVars(v *viper.Viper) {
	// Set environment variables we want.
	// We set them manually so we can see clearly which env variables
	// are allowed. These match the fields included in
	// config.ToOptions(), the persistent configuration that can be
	// stored in config.yaml.
	v.SetEnvPrefix("GUILDDB")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Database configuration
	v.BindEnv("database.host", "DATABASE_HOST")
	v.BindEnv("database.port", "DATABASE_PORT")
	v.BindEnv("database.user", "DATABASE_USER")
	v.BindEnv("database.password", "DATABASE_PASSWORD")
	v.BindEnv("database.database", "DATABASE_DATABASE")
	v.BindEnv("database.ssl_mode", "DATABASE_SSL_MODE")
	v.BindEnv("database.batch_size", "DATABASE_BATCH_SIZE")

	// Embedding configuration
	v.BindEnv("embed.dims", "EMBED_DIMS")
	v.BindEnv("embed.max_iter", "EMBED_MAX_ITER")
	v.BindEnv("embed.seed", "EMBED_SEED")
	v.BindEnv("embed.sample_pairs", "EMBED_SAMPLE_PAIRS")
	v.BindEnv("embed.min_correlation", "EMBED_MIN_CORRELATION")

	// Serving configuration
	v.BindEnv("serve.port", "SERVE_PORT")

	// Log configuration
	v.BindEnv("log.level", "LOG_LEVEL")
	v.BindEnv("log.format", "LOG_FORMAT")
	v.BindEnv("log.destination", "LOG_DESTINATION")

	// General configuration
	v.BindEnv("jobs_number", "JOBS_NUMBER")

	v.AutomaticEnv()
}
