package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/nodenav/pkg/cache"
	"github.com/matzehuels/nodenav/pkg/render"
)

// renderCommand creates the render command for graph visualization.
func (c *CLI) renderCommand() *cobra.Command {
	var (
		format   string
		output   string
		detailed bool
		noCache  bool
	)

	cmd := &cobra.Command{
		Use:   "render [graph file]",
		Short: "Render a navigation graph to SVG, PNG, or DOT",
		Long: `Render a navigation graph to SVG, PNG, or DOT.

Nodes are laid out by graphviz; disabled directions show as dashed grey
edges and occupied nodes are highlighted. With --detailed each node also
lists its position, marker mode and occupant, and edges carry their
direction ID and angle.

Rendered artifacts are cached locally keyed by graph content, so
re-rendering an unchanged graph is instant.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runRender(cmd.Context(), args[0], format, output, detailed, noCache)
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "", "output format: svg, png, or dot (default from config)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default derived from the graph file)")
	cmd.Flags().BoolVar(&detailed, "detailed", false, "include positions, markers and occupants")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	return cmd
}

func (c *CLI) runRender(ctx context.Context, path, format, output string, detailed, noCache bool) error {
	if format == "" {
		format = c.Config.Render.Format
	}
	format = strings.ToLower(format)
	switch format {
	case "svg", "png", "dot":
	default:
		return fmt.Errorf("unsupported format %q (want svg, png, or dot)", format)
	}
	if !detailed {
		detailed = c.Config.Render.Detailed
	}
	if output == "" {
		base := strings.TrimSuffix(path, filepath.Ext(path))
		output = base + "." + format
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read graph %s: %w", path, err)
	}

	store, err := newCache(noCache)
	if err != nil {
		return fmt.Errorf("open cache: %w", err)
	}
	defer store.Close()

	style := "plain"
	if detailed {
		style = "detailed"
	}
	key := graphKeyer(path).RenderKey(cache.Hash(raw), cache.RenderKeyOpts{
		Format: format,
		Style:  style,
	})

	data, hit, _ := store.Get(ctx, key)
	if !hit {
		g, err := c.loadGraph(path)
		if err != nil {
			return err
		}
		dot := render.ToDOT(g, render.Options{Detailed: detailed})

		sp := newSpinnerWithContext(ctx, "Rendering "+format)
		sp.Start()
		switch format {
		case "dot":
			data = []byte(dot)
		case "svg":
			data, err = render.RenderSVG(dot)
		case "png":
			data, err = render.RenderPNG(dot, 2.0)
		}
		if err != nil {
			sp.StopWithError("Render failed")
			return fmt.Errorf("render %s: %w", format, err)
		}
		sp.StopWithSuccess("Rendered " + format)

		if err := store.Set(ctx, key, data, 0); err != nil {
			c.Logger.Debug("render cache write failed", "err", err)
		}
	} else {
		printSuccess("Rendered %s", format)
	}

	if err := os.WriteFile(output, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", output, err)
	}
	printFile(output)
	printStats(0, 0, hit)
	return nil
}
