package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/gnames/gn"
	"github.com/permaguild/guilddb/internal/iodb"
	"github.com/permaguild/guilddb/internal/ioserve"
	"github.com/permaguild/guilddb/pkg/config"
	"github.com/spf13/cobra"
)

// getServeCmd returns the serve command.
// Extracted as a function to facilitate testing and dynamic
// command registration.
func getServeCmd() *cobra.Command {
	var port int

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP scoring API",
		Long: `Serve runs the guild scoring HTTP API.

This command:
  1. Connects to PostgreSQL using configuration settings
  2. Loads the natural-enemy web and the embedding artifact once
  3. Serves scoring, recommendation, pair, search and plant detail
     endpoints until interrupted

The loaded handles are shared read-only across requests. To pick up
freshly built artifacts, restart the server.

Endpoints:
  POST /api/score-guild       score a guild of plant ids
  POST /api/recommend         rank candidates for a partial guild
  GET  /api/pair/:a/:b        pairwise score with evidence
  GET  /api/plants/search     plant autocomplete
  GET  /api/plant/:id         plant details
  GET  /ping                  health check

Prerequisites:
  - Profiles must be built (run 'guilddb profiles' first)
  - Embedding must be built (run 'guilddb embed' first)

Examples:
  guilddb serve
  guilddb serve --port 8090`,
		RunE: func(cmd *cobra.Command, args []string) error {
			err := runServe(cmd, port)
			if err != nil {
				gn.PrintErrorMessage(err)
			}
			return err
		},
	}

	serveCmd.Flags().IntVarP(&port, "port", "p",
		0, "port to listen on (default from configuration)")

	return serveCmd
}

func runServe(cmd *cobra.Command, port int) error {
	ctx, stop := signal.NotifyContext(
		context.Background(), os.Interrupt, syscall.SIGTERM,
	)
	defer stop()

	if cmd.Flags().Changed("port") {
		cfg.Update([]config.Option{config.OptServePort(port)})
	}

	op := iodb.NewPgxOperator()
	if err := op.Connect(ctx, &cfg.Database); err != nil {
		return err
	}
	defer op.Close()

	gn.Info("Connected to database: <em>%s@%s:%d/%s</em>",
		cfg.Database.User, cfg.Database.Host,
		cfg.Database.Port, cfg.Database.Database)

	handles, err := ioserve.LoadHandles(ctx, op, cfg)
	if err != nil {
		return err
	}

	srv := ioserve.NewServer(handles, cfg.Serve.Port)

	gn.Info("The guild API is listening on port <em>%d</em>. "+
		"Press Ctrl-C to stop.", cfg.Serve.Port)
	return srv.Run(ctx)
}
