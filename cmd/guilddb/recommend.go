package main

import (
	"context"
	"fmt"

	"github.com/gnames/gn"
	"github.com/gnames/gnfmt"
	"github.com/permaguild/guilddb/internal/ioartifact"
	"github.com/permaguild/guilddb/internal/iodb"
	"github.com/permaguild/guilddb/internal/iotree"
	"github.com/permaguild/guilddb/pkg/recommend"
	"github.com/spf13/cobra"
)

// getRecommendCmd returns the recommend command.
// Extracted as a function to facilitate testing and dynamic
// command registration.
func getRecommendCmd() *cobra.Command {
	var (
		strategyFlag string
		oracleFlag   string
		topK         int
		asJSON       bool
	)

	recommendCmd := &cobra.Command{
		Use:   "recommend <plant-id> [plant-id...]",
		Short: "Rank candidate companions for a partial guild",
		Long: `Recommend ranks candidate plants by phylogenetic fit to a guild.

The arguments are the plants already in the guild. Candidates come
from the full roster and are ranked by distance to the guild:
the centroid strategy ranks by distance to the guild centroid, the
maximin strategy by the smallest distance to any member (most
diversifying first).

The embedding oracle answers from the embedding artifact and needs
no database. The exact oracle walks the phylogeny and needs both the
database and the registered tree; it is the reference the embedding
is benchmarked against.

Examples:
  guilddb recommend wfo-0000832453
  guilddb recommend wfo-0000832453 wfo-0000944837 -k 10
  guilddb recommend wfo-0000832453 --strategy centroid
  guilddb recommend wfo-0000832453 --oracle exact`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			err := runRecommend(
				cmd, args, strategyFlag, oracleFlag, topK, asJSON,
			)
			if err != nil {
				gn.PrintErrorMessage(err)
			}
			return err
		},
	}

	recommendCmd.Flags().StringVarP(&strategyFlag, "strategy", "s",
		"maximin", "ranking strategy: centroid or maximin")
	recommendCmd.Flags().StringVarP(&oracleFlag, "oracle", "o",
		"embedding", "distance oracle: embedding or exact")
	recommendCmd.Flags().IntVarP(&topK, "top", "k",
		recommend.DefaultTopK, "number of candidates to return")
	recommendCmd.Flags().BoolVarP(&asJSON, "json", "j",
		false, "print the result as JSON")

	return recommendCmd
}

func runRecommend(
	_ *cobra.Command,
	guild []string,
	strategyFlag, oracleFlag string,
	topK int,
	asJSON bool,
) error {
	ctx := context.Background()

	strategy, err := recommend.ParseStrategy(strategyFlag)
	if err != nil {
		return err
	}

	var oracle recommend.DistanceOracle
	var pool []string

	switch oracleFlag {
	case "embedding":
		emb, err := ioartifact.LoadEmbedding(cfg.HomeDir)
		if err != nil {
			return err
		}
		eo := recommend.NewEmbeddingOracle(emb)
		oracle, pool = eo, eo.Roster()
	case "exact":
		op := iodb.NewPgxOperator()
		if err := op.Connect(ctx, &cfg.Database); err != nil {
			return err
		}
		defer op.Close()

		tree, _, err := iotree.Load(cfg)
		if err != nil {
			return err
		}
		resolver, err := iotree.ResolverFromDB(ctx, op.Pool(), tree)
		if err != nil {
			return err
		}
		resolutions := resolver.Roster()
		oracle = recommend.NewTreeOracle(resolutions)
		pool = make([]string, len(resolutions))
		for i, r := range resolutions {
			pool[i] = r.PlantID
		}
	default:
		return fmt.Errorf(
			"unknown oracle %q, use embedding or exact", oracleFlag,
		)
	}

	recs, err := recommend.Recommend(oracle, guild, pool, topK, strategy)
	if err != nil {
		return err
	}

	if asJSON {
		enc := gnfmt.GNjson{Pretty: true}
		out, err := enc.Encode(recs)
		if err != nil {
			return err
		}
		fmt.Println(string(out))
		return nil
	}

	for i, r := range recs {
		fmt.Printf("%2d. %s  (distance %.4f)\n", i+1, r.PlantID, r.Distance)
	}
	return nil
}
