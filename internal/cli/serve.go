package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/nodenav/internal/server"
)

// serveCommand creates the serve command for the HTTP debug server.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr  string
		watch bool
	)

	cmd := &cobra.Command{
		Use:   "serve [graph file]",
		Short: "Serve a navigation graph over an HTTP debug API",
		Long: `Serve a navigation graph over an HTTP debug API.

The API exposes the graph as JSON, plans routes, registers actors and
moves them with instant semantics, and saves or restores state snapshots
through the configured store backend. Intended for debugging and
integration tests, not production traffic.

With --watch the graph file is hot-reloaded on save; actors registered
over the API are dropped on reload.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd.Context(), args[0], addr, watch)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "localhost:7070", "listen address")
	cmd.Flags().BoolVar(&watch, "watch", false, "hot-reload the graph file on change")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, path, addr string, watch bool) error {
	store, err := c.openStore(ctx)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer store.Close()

	srv, err := server.New(server.Config{
		Addr:      addr,
		GraphPath: path,
		Store:     store,
		Logger:    c.Logger,
	})
	if err != nil {
		return fmt.Errorf("start server: %w", err)
	}

	if watch {
		err := watchFile(withLogger(ctx, c.Logger), path, func() {
			if err := srv.Reload(); err != nil {
				c.Logger.Warn("reload failed, keeping old graph", "err", err)
			}
		})
		if err != nil {
			return err
		}
	}

	printInfo("Serving %s on http://%s", path, addr)
	printNextStep("Inspect the graph", fmt.Sprintf("curl http://%s/graph", addr))
	return srv.ListenAndServe(ctx)
}
