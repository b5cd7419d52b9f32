package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/nodenav/pkg/cache"
	apperrors "github.com/matzehuels/nodenav/pkg/errors"
)

// routeResult is the cached form of one planned route.
type routeResult struct {
	IDs     []string `json:"ids"`
	Cost    float64  `json:"cost"`
	Reached bool     `json:"reached"`
}

// routeCommand creates the route command for shortest-path planning.
func (c *CLI) routeCommand() *cobra.Command {
	var (
		fallback bool
		noCache  bool
	)

	cmd := &cobra.Command{
		Use:   "route [graph file] [from] [to]",
		Short: "Plan the shortest path between two nodes",
		Long: `Plan the shortest path between two nodes.

The planner runs Dijkstra over the Euclidean distances between linked
nodes. By default only enabled directions are usable; with --fallback the
search ignores the enabled flags and then truncates the route at the
first hop that is actually blocked, yielding the walkable prefix toward
the target.

Routes are planned against the authored graph (no occupancy), so results
are cached locally keyed by graph content.`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runRoute(cmd.Context(), args[0], args[1], args[2], fallback, noCache)
		},
	}

	cmd.Flags().BoolVar(&fallback, "fallback", false, "ignore disabled directions, truncate at the first blocked hop")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	return cmd
}

func (c *CLI) runRoute(ctx context.Context, path, from, to string, fallback, noCache bool) error {
	for _, id := range []string{from, to} {
		if err := apperrors.ValidateNodeID(id); err != nil {
			return err
		}
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

	key := graphKeyer(path).RouteKey(cache.Hash(raw), cache.RouteKeyOpts{
		Start:    from,
		End:      to,
		Fallback: fallback,
	})

	var res routeResult
	cached := false
	if blob, hit, err := store.Get(ctx, key); err == nil && hit {
		cached = json.Unmarshal(blob, &res) == nil
	}

	if !cached {
		g, err := c.loadGraph(path)
		if err != nil {
			return err
		}
		prog := newProgress(c.Logger)
		p, err := g.ShortestPath(from, to, fallback)
		if err != nil {
			return fmt.Errorf("route %s -> %s: %w", from, to, err)
		}
		prog.done(fmt.Sprintf("Planned %d-hop route", len(p)-1))
		res = routeResult{IDs: p.IDs(), Cost: p.Cost(), Reached: p.Reached(to)}
		if blob, err := json.Marshal(res); err == nil {
			if err := store.Set(ctx, key, blob, 0); err != nil {
				c.Logger.Debug("route cache write failed", "err", err)
			}
		}
	}

	if !res.Reached {
		if len(res.IDs) < 2 {
			printWarning("No route from %s to %s", from, to)
			return nil
		}
		printWarning("Target %s is blocked; walkable prefix:", to)
	} else {
		printSuccess("Route found")
	}
	printDetail("%s", strings.Join(res.IDs, " "+iconArrow+" "))
	printKeyValue("hops", fmt.Sprintf("%d", len(res.IDs)-1))
	printKeyValue("cost", fmt.Sprintf("%.2f", res.Cost))
	printStats(len(res.IDs), 0, cached)
	return nil
}
