package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/nodenav/pkg/nav/navio"
)

// validateCommand creates the validate command for checking authored graphs.
func (c *CLI) validateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "validate [graph file]",
		Short: "Check an authored graph for structural problems",
		Long: `Check an authored graph for structural problems.

Validation catches what the format itself cannot: direction links that
reference unregistered nodes, duplicate IDs, and out-of-range angles.
A graph that validates cleanly is safe to hand to route, simulate, and
serve.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := c.Config.Graph
			if len(args) > 0 {
				path = args[0]
			}
			if path == "" {
				return fmt.Errorf("no graph file given and none configured")
			}

			g, err := navio.ReadFile(path)
			if err != nil {
				return fmt.Errorf("load graph %s: %w", path, err)
			}
			if err := g.Validate(); err != nil {
				printError("Graph is invalid")
				printDetail("%v", err)
				return err
			}

			dirs := 0
			for _, n := range g.Nodes() {
				dirs += len(n.Directions())
			}
			printSuccess("Graph is valid")
			printStats(g.NodeCount(), dirs, false)
			return nil
		},
	}
}
