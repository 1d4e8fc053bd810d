package main

import (
	"context"

	"github.com/gnames/gn"
	"github.com/permaguild/guilddb/internal/ioartifact"
	"github.com/permaguild/guilddb/internal/iodb"
	"github.com/spf13/cobra"
)

// getVerifyCmd returns the verify command.
// Extracted as a function to facilitate testing and dynamic
// command registration.
func getVerifyCmd() *cobra.Command {
	verifyCmd := &cobra.Command{
		Use:   "verify",
		Short: "Check artifact integrity and staleness",
		Long: `Verify checks the artifact chain against the current database.

This command:
  1. Loads the registered phylogeny and resolves the current roster
  2. Checks the distance matrix against the tree fingerprint and
     the roster
  3. Checks the embedding against the matrix fingerprint, the
     configured dimensions and the quality threshold

A stale artifact is reported with the reasons; rebuild it with
'guilddb distances' or 'guilddb embed'.

Examples:
  guilddb verify`,
		RunE: func(cmd *cobra.Command, args []string) error {
			err := runVerify(cmd, args)
			if err != nil {
				gn.PrintErrorMessage(err)
			}
			return err
		},
	}

	return verifyCmd
}

func runVerify(_ *cobra.Command, _ []string) error {
	ctx := context.Background()

	op := iodb.NewPgxOperator()
	if err := op.Connect(ctx, &cfg.Database); err != nil {
		return err
	}
	defer op.Close()

	gn.Info("Connected to database: <em>%s@%s:%d/%s</em>",
		cfg.Database.User, cfg.Database.Host,
		cfg.Database.Port, cfg.Database.Database)

	verifier := ioartifact.NewVerifier(op)

	if err := verifier.Verify(ctx, cfg); err != nil {
		return err
	}

	gn.Info("All artifacts are up to date.")

	return nil
}
