package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/gnames/gn"
	"github.com/gnames/gnfmt"
	"github.com/permaguild/guilddb/internal/ioartifact"
	"github.com/permaguild/guilddb/internal/iodb"
	"github.com/permaguild/guilddb/internal/ioplants"
	"github.com/permaguild/guilddb/pkg/explain"
	"github.com/permaguild/guilddb/pkg/score"
	"github.com/spf13/cobra"
)

// scoreOutput is the JSON shape of the score command, the scorer
// result next to the rendered explanation.
type scoreOutput struct {
	Result      *score.Result       `json:"result"`
	Explanation explain.Explanation `json:"explanation"`
}

// getScoreCmd returns the score command.
// Extracted as a function to facilitate testing and dynamic
// command registration.
func getScoreCmd() *cobra.Command {
	var asJSON bool

	scoreCmd := &cobra.Command{
		Use:   "score <plant-id> <plant-id> [plant-id...]",
		Short: "Score the compatibility of a guild",
		Long: `Score evaluates how well a guild of plants grows together.

The guild takes 2 to 20 plant identifiers. The score runs the
climate compatibility gate first; a guild whose members cannot share
a climate is vetoed with the conflicting pairs listed. Compatible
guilds get negative components (shared pests and diseases, pollinator
competition) and positive components (pollinator support, biocontrol,
nitrogen, structure, phylogenetic diversity), with evidence and
warnings for sparse data.

When the embedding artifact is present, the phylogenetic diversity
component measures real distances; without it the component falls
back to a family heuristic and the result carries a warning.

Examples:
  guilddb score wfo-0000832453 wfo-0000944837
  guilddb score wfo-0000832453 wfo-0000944837 wfo-0000649700 --json`,
		Args: cobra.RangeArgs(score.MinMembers, score.MaxMembers),
		RunE: func(cmd *cobra.Command, args []string) error {
			err := runScore(cmd, args, asJSON)
			if err != nil {
				gn.PrintErrorMessage(err)
			}
			return err
		},
	}

	scoreCmd.Flags().BoolVarP(&asJSON, "json", "j",
		false, "print the result as JSON")

	return scoreCmd
}

func runScore(_ *cobra.Command, ids []string, asJSON bool) error {
	ctx := context.Background()

	op := iodb.NewPgxOperator()
	if err := op.Connect(ctx, &cfg.Database); err != nil {
		return err
	}
	defer op.Close()

	store := ioplants.New(op)

	web, err := store.Web(ctx)
	if err != nil {
		return err
	}

	members, err := store.Members(ctx, ids)
	if err != nil {
		return err
	}

	if emb, err := ioartifact.LoadEmbedding(cfg.HomeDir); err == nil {
		ioplants.AttachVectors(members, emb)
	} else {
		slog.Warn("Embedding artifact is not available, "+
			"diversity uses the family fallback", "error", err)
	}

	scorer := score.NewScorer(web)
	res, err := scorer.Score(members)
	if err != nil {
		return err
	}

	names := make(map[string]string, len(members))
	for _, m := range members {
		names[m.Traits.ID] = m.Traits.Name
	}
	expl := explain.Describe(res, names)

	if asJSON {
		enc := gnfmt.GNjson{Pretty: true}
		out, err := enc.Encode(scoreOutput{
			Result:      res,
			Explanation: expl,
		})
		if err != nil {
			return err
		}
		fmt.Println(string(out))
		return nil
	}

	fmt.Println(expl.Text())
	return nil
}
