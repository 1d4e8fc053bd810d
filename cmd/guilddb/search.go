package main

import (
	"context"
	"fmt"

	"github.com/gnames/gn"
	"github.com/gnames/gnfmt"
	"github.com/permaguild/guilddb/internal/iodb"
	"github.com/permaguild/guilddb/internal/ioplants"
	"github.com/spf13/cobra"
)

// getSearchCmd returns the search command.
// Extracted as a function to facilitate testing and dynamic
// command registration.
func getSearchCmd() *cobra.Command {
	var (
		limit  int
		asJSON bool
	)

	searchCmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Find plants by name fragment",
		Long: `Search finds plants whose scientific name, genus or family
matches a fragment.

The query is matched case-insensitively and needs at least three
characters. Results come from profiled plants only, the ones the
score and recommend commands accept.

Examples:
  guilddb search trifolium
  guilddb search acer --limit 5
  guilddb search "salvia off" --json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			err := runSearch(cmd, args[0], limit, asJSON)
			if err != nil {
				gn.PrintErrorMessage(err)
			}
			return err
		},
	}

	searchCmd.Flags().IntVarP(&limit, "limit", "l",
		ioplants.DefaultSearchLimit, "maximum number of results")
	searchCmd.Flags().BoolVarP(&asJSON, "json", "j",
		false, "print the result as JSON")

	return searchCmd
}

func runSearch(_ *cobra.Command, query string, limit int, asJSON bool) error {
	ctx := context.Background()

	op := iodb.NewPgxOperator()
	if err := op.Connect(ctx, &cfg.Database); err != nil {
		return err
	}
	defer op.Close()

	store := ioplants.New(op)

	plants, err := store.Search(ctx, query, limit)
	if err != nil {
		return err
	}

	if asJSON {
		enc := gnfmt.GNjson{Pretty: true}
		out, err := enc.Encode(plants)
		if err != nil {
			return err
		}
		fmt.Println(string(out))
		return nil
	}

	if len(plants) == 0 {
		gn.Info("No plants match <em>%s</em>", query)
		return nil
	}

	for _, p := range plants {
		fmt.Printf("%-18s %s", p.ID, p.ScientificName)
		if p.Family != "" {
			fmt.Printf("  (%s)", p.Family)
		}
		fmt.Println()
	}
	return nil
}
