package main

import (
	"context"

	"github.com/gnames/gn"
	"github.com/permaguild/guilddb/internal/iobenefit"
	"github.com/permaguild/guilddb/internal/iodb"
	"github.com/spf13/cobra"
)

// getBenefitsCmd returns the benefits command.
// Extracted as a function to facilitate testing and dynamic
// command registration.
func getBenefitsCmd() *cobra.Command {
	benefitsCmd := &cobra.Command{
		Use:   "benefits",
		Short: "Mine cross-plant biocontrol benefits",
		Long: `Benefits mines the cross-plant biocontrol table.

For every ordered plant pair it counts the distinct predators plant A
supplies against plant B's herbivores, keeping a few example chains,
and the analogous antagonist counts against plant B's pathogens.

Prerequisites:
  - Profiles must be built (run 'guilddb profiles' first)

Benefit mining always rebuilds from scratch; it is safe to re-run
after profiles change.

Examples:
  guilddb benefits`,
		RunE: func(cmd *cobra.Command, args []string) error {
			err := runBenefits(cmd, args)
			if err != nil {
				gn.PrintErrorMessage(err)
			}
			return err
		},
	}

	return benefitsCmd
}

func runBenefits(_ *cobra.Command, _ []string) error {
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

	miner := iobenefit.NewMiner(op)

	if err := miner.MineBenefits(ctx, cfg); err != nil {
		return err
	}

	gn.Info(`Next steps:
  - Run '<em>guilddb pairs</em>' to precompute pair scores
  - Run '<em>guilddb serve</em>' to start the scoring API
`)

	return nil
}
