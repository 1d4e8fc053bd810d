package main

import (
	"context"

	"github.com/gnames/gn"
	"github.com/permaguild/guilddb/internal/iodb"
	"github.com/permaguild/guilddb/internal/iopairs"
	"github.com/spf13/cobra"
)

// getPairsCmd returns the pairs command.
// Extracted as a function to facilitate testing and dynamic
// command registration.
func getPairsCmd() *cobra.Command {
	pairsCmd := &cobra.Command{
		Use:   "pairs",
		Short: "Precompute pairwise compatibility entries",
		Long: `Pairs precomputes compatibility entries for a bounded candidate
set.

Each entry carries the component scores and the evidence the online
pair endpoint serves without recomputing. The entries are produced
with the same scorer the online commands use.

Prerequisites:
  - Profiles must be built (run 'guilddb profiles' first)
  - Benefits must be mined (run 'guilddb benefits' first)

The cache always rebuilds from scratch; it is safe to re-run after
profiles or benefits change.

Examples:
  guilddb pairs`,
		RunE: func(cmd *cobra.Command, args []string) error {
			err := runPairs(cmd, args)
			if err != nil {
				gn.PrintErrorMessage(err)
			}
			return err
		},
	}

	return pairsCmd
}

func runPairs(_ *cobra.Command, _ []string) error {
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

	scorer := iopairs.NewScorer(op)

	if err := scorer.ScorePairs(ctx, cfg); err != nil {
		return err
	}

	gn.Info(`Next steps:
  - Run '<em>guilddb serve</em>' to start the scoring API
`)

	return nil
}
