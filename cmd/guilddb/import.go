package main

import (
	"context"
	"errors"

	"github.com/gnames/gn"
	"github.com/permaguild/guilddb/internal/iodb"
	"github.com/permaguild/guilddb/internal/ioimport"
	"github.com/permaguild/guilddb/pkg/config"
	"github.com/permaguild/guilddb/pkg/errcode"
	"github.com/spf13/cobra"
)

// getImportCmd returns the import command.
// Extracted as a function to facilitate testing and dynamic
// command registration.
func getImportCmd() *cobra.Command {
	var datasetIDs []int

	importCmd := &cobra.Command{
		Use:   "import",
		Short: "Import dataset snapshots into the database",
		Long: `Import loads dataset snapshots into PostgreSQL.

This command:
  1. Connects to PostgreSQL using configuration settings
  2. Reads datasets.yaml to discover snapshot locations
  3. Downloads/opens SQLite snapshots (local or remote, optionally
     zipped)
  4. Replaces the rows of each imported dataset via pgx CopyFrom
  5. Registers the phylogeny location without loading it into tables

Dataset snapshots configured in: ~/.config/guilddb/datasets.yaml
Each dataset has a numeric ID; the import order follows the registry.

Examples:
  # Import all datasets from datasets.yaml
  guilddb import

  # Import specific datasets only
  guilddb import --dataset-ids 1,2
  guilddb import -d 1,2`,
		RunE: func(cmd *cobra.Command, args []string) error {
			err := runImport(cmd, datasetIDs)
			if err != nil {
				gn.PrintErrorMessage(err)
			}
			return err
		},
	}

	importCmd.Flags().IntSliceVarP(
		&datasetIDs, "dataset-ids", "d", []int{},
		"dataset IDs to import (empty = all)",
	)

	return importCmd
}

func runImport(cmd *cobra.Command, datasetIDs []int) error {
	ctx := context.Background()

	if cmd.Flags().Changed("dataset-ids") {
		cfg.Update([]config.Option{
			config.OptImportDatasetIDs(datasetIDs),
		})
	}

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
		return &gn.Error{
			Code: errcode.DBEmptyDatabaseError,
			Msg: `<err>Database appears to be empty.</err>
   Run <em>'guilddb create'</em> first to initialize the schema.`,
			Err: errors.New("cannot import into an empty database"),
		}
	}

	imp := ioimport.NewImporter(op)

	if err := imp.Import(ctx, cfg); err != nil {
		return err
	}

	gn.Info(`Next steps:
  - Run '<em>guilddb profiles</em>' to mine organism profiles
  - Run '<em>guilddb distances</em>' to build the distance matrix
`)

	return nil
}
