package main

import (
	"context"

	"github.com/gnames/gn"
	"github.com/permaguild/guilddb/internal/iodb"
	"github.com/permaguild/guilddb/internal/ioembed"
	"github.com/permaguild/guilddb/pkg/config"
	"github.com/spf13/cobra"
)

// getEmbedCmd returns the embed command.
// Extracted as a function to facilitate testing and dynamic
// command registration.
func getEmbedCmd() *cobra.Command {
	var withBenchmark bool

	embedCmd := &cobra.Command{
		Use:   "embed",
		Short: "Build the metric embedding of the distance matrix",
		Long: `Embed projects the distance matrix artifact into a compact
Euclidean embedding.

This command:
  1. Loads the distance matrix artifact
  2. Runs stress-minimizing MDS with the configured dimensionality
  3. Measures how well sampled embedded distances track the exact
     ones
  4. Saves the embedding artifact with its quality report

The embedding works from the artifact alone; no database connection
is needed unless --benchmark is set. With --benchmark the command
additionally ranks sampled guilds with both the exact oracle and the
embedding and reports their overlap and speedup.

Configuration:
  embed.dims, embed.max_iter, embed.seed, embed.sample_pairs and
  embed.min_correlation control the projection and its acceptance
  threshold.

Prerequisites:
  - Distance matrix must be built (run 'guilddb distances' first)

Examples:
  guilddb embed
  guilddb embed --benchmark
  guilddb embed -b`,
		RunE: func(cmd *cobra.Command, args []string) error {
			err := runEmbed(cmd, withBenchmark)
			if err != nil {
				gn.PrintErrorMessage(err)
			}
			return err
		},
	}

	embedCmd.Flags().BoolVarP(&withBenchmark, "benchmark", "b",
		false, "benchmark the recommender against the exact oracle")

	return embedCmd
}

func runEmbed(cmd *cobra.Command, withBenchmark bool) error {
	ctx := context.Background()

	if cmd.Flags().Changed("benchmark") {
		cfg.Update([]config.Option{
			config.OptEmbedWithBenchmark(withBenchmark),
		})
	}

	op := iodb.NewPgxOperator()
	if cfg.Embed.WithBenchmark {
		if err := op.Connect(ctx, &cfg.Database); err != nil {
			return err
		}
		defer op.Close()

		gn.Info("Connected to database: <em>%s@%s:%d/%s</em>",
			cfg.Database.User, cfg.Database.Host,
			cfg.Database.Port, cfg.Database.Database)
	}

	embedder := ioembed.NewEmbedder(op)

	if err := embedder.Embed(ctx, cfg); err != nil {
		return err
	}

	if cfg.Embed.WithBenchmark {
		if err := embedder.Benchmark(ctx, cfg); err != nil {
			return err
		}
	}

	gn.Info(`Next steps:
  - Run '<em>guilddb verify</em>' to check the artifact chain
  - Run '<em>guilddb serve</em>' to start the scoring API
`)

	return nil
}
