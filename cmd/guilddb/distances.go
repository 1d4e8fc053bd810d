package main

import (
	"context"

	"github.com/gnames/gn"
	"github.com/permaguild/guilddb/internal/iodb"
	"github.com/permaguild/guilddb/internal/iodistance"
	"github.com/spf13/cobra"
)

// getDistancesCmd returns the distances command.
// Extracted as a function to facilitate testing and dynamic
// command registration.
func getDistancesCmd() *cobra.Command {
	distancesCmd := &cobra.Command{
		Use:   "distances",
		Short: "Build the exact phylogenetic distance matrix",
		Long: `Distances builds the exact pairwise distance matrix artifact.

This command:
  1. Loads the registered phylogeny and resolves plants to its tips
  2. Computes path distances for every plant pair, in parallel
     row blocks
  3. Saves finished blocks as shards, so an interrupted run resumes
     where it stopped
  4. Merges the shards into a flat matrix artifact

Performance:
  The full matrix is quadratic in the roster size and may take a
  while. Progress is reported per row block; re-running skips the
  blocks that are already on disk.

Prerequisites:
  - Datasets must be imported (run 'guilddb import' first)

Examples:
  guilddb distances`,
		RunE: func(cmd *cobra.Command, args []string) error {
			err := runDistances(cmd, args)
			if err != nil {
				gn.PrintErrorMessage(err)
			}
			return err
		},
	}

	return distancesCmd
}

func runDistances(_ *cobra.Command, _ []string) error {
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

	builder := iodistance.NewBuilder(op)

	if err := builder.BuildDistances(ctx, cfg); err != nil {
		return err
	}

	gn.Info(`Next steps:
  - Run '<em>guilddb embed</em>' to build the metric embedding
  - Run '<em>guilddb verify</em>' to check the artifact chain
`)

	return nil
}
