package main

import (
	"context"

	"github.com/gnames/gn"
	"github.com/permaguild/guilddb/internal/iodb"
	"github.com/permaguild/guilddb/internal/ioprofile"
	"github.com/spf13/cobra"
)

// getProfilesCmd returns the profiles command.
// Extracted as a function to facilitate testing and dynamic
// command registration.
func getProfilesCmd() *cobra.Command {
	profilesCmd := &cobra.Command{
		Use:   "profiles",
		Short: "Mine organism interaction profiles",
		Long: `Profiles mines the imported interaction rows into per-plant
organism profiles.

This command:
  1. Connects to PostgreSQL using configuration settings
  2. Classifies interaction partners into pollinators, visitors,
     herbivores and pathogens (split by kingdom)
  3. Sorts fungal partners into beneficial guilds
  4. Builds the organism enemy indexes (herbivore predators,
     pathogen antagonists)
  5. Refreshes the plant summary materialized view

Prerequisites:
  - Database must be created (run 'guilddb create' first)
  - Datasets must be imported (run 'guilddb import' first)

Profile building always rebuilds from scratch; it is safe to re-run
after any import.

Examples:
  guilddb profiles`,
		RunE: func(cmd *cobra.Command, args []string) error {
			err := runProfiles(cmd, args)
			if err != nil {
				gn.PrintErrorMessage(err)
			}
			return err
		},
	}

	return profilesCmd
}

func runProfiles(_ *cobra.Command, _ []string) error {
	ctx := context.Background()

	op := iodb.NewPgxOperator()
	if err := op.Connect(ctx, &cfg.Database); err != nil {
		return err
	}
	defer op.Close()

	gn.Info("Connected to database: <em>%s@%s:%d/%s</em>",
		cfg.Database.User, cfg.Database.Host,
		cfg.Database.Port, cfg.Database.Database)

	hasTables, err := op.HasTables(ctx)
	if err != nil {
		return err
	}

	if !hasTables {
		gn.Warn(`Warning: Database appears to be empty.
Run 'guilddb create' and 'guilddb import' first.`)
		return nil
	}

	profiler := ioprofile.NewProfiler(op)

	if err := profiler.BuildProfiles(ctx, cfg); err != nil {
		return err
	}

	gn.Info(`Next steps:
  - Run '<em>guilddb benefits</em>' to mine biocontrol benefits
  - Run '<em>guilddb pairs</em>' to precompute pair scores
`)

	return nil
}
