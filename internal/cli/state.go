package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	apperrors "github.com/matzehuels/nodenav/pkg/errors"
	"github.com/matzehuels/nodenav/pkg/state"
)

// stateCommand creates the state command with save/load/show subcommands.
func (c *CLI) stateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "state",
		Short: "Save and restore navigation runtime state",
		Long: `Save and restore navigation runtime state.

A snapshot records per-direction enabled flags and per-node occupancy.
Authored data (positions, links, angles) never changes across snapshots,
so a snapshot only makes sense against the graph it was taken from.

Snapshots live in the configured store backend (file by default; memory,
redis, and mongo via config).`,
	}

	cmd.AddCommand(c.stateSaveCommand())
	cmd.AddCommand(c.stateLoadCommand())
	cmd.AddCommand(c.stateShowCommand())

	return cmd
}

func (c *CLI) stateSaveCommand() *cobra.Command {
	var slot string

	cmd := &cobra.Command{
		Use:   "save [graph file]",
		Short: "Snapshot a graph's runtime state into the store",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runStateSave(cmd.Context(), args[0], slot)
		},
	}

	cmd.Flags().StringVar(&slot, "slot", "default", "save slot name")

	return cmd
}

// checkSlot validates a slot name before it becomes a store key.
func checkSlot(slot string) error {
	if err := apperrors.ValidateSlotName(slot); err != nil {
		return fmt.Errorf("invalid slot: %w", err)
	}
	return nil
}

func (c *CLI) runStateSave(ctx context.Context, path, slot string) error {
	if err := checkSlot(slot); err != nil {
		return err
	}
	g, err := c.loadGraph(path)
	if err != nil {
		return err
	}

	store, err := c.openStore(ctx)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer store.Close()

	blob := state.Save(g)
	if err := store.Save(ctx, state.Key(slot), blob); err != nil {
		return fmt.Errorf("save slot %s: %w", slot, err)
	}

	records := 0
	if len(blob) > 0 {
		records = strings.Count(string(blob), "\n") + 1
	}
	printSuccess("Saved slot %s", slot)
	printKeyValue("records", fmt.Sprintf("%d", records))
	printKeyValue("bytes", fmt.Sprintf("%d", len(blob)))
	return nil
}

func (c *CLI) stateLoadCommand() *cobra.Command {
	var slot string

	cmd := &cobra.Command{
		Use:   "load [graph file]",
		Short: "Restore a snapshot onto a graph and report what applied",
		Long: `Restore a snapshot onto a graph and report what applied.

Loading is lossy-tolerant: records for nodes or directions that no longer
exist in the graph are skipped with a warning instead of failing the
restore. The skip count in the output is the drift between the snapshot
and the current graph.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runStateLoad(cmd.Context(), args[0], slot)
		},
	}

	cmd.Flags().StringVar(&slot, "slot", "default", "save slot name")

	return cmd
}

func (c *CLI) runStateLoad(ctx context.Context, path, slot string) error {
	if err := checkSlot(slot); err != nil {
		return err
	}
	g, err := c.loadGraph(path)
	if err != nil {
		return err
	}

	store, err := c.openStore(ctx)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer store.Close()

	blob, err := store.Load(ctx, state.Key(slot))
	if errors.Is(err, state.ErrNotFound) {
		printWarning("No snapshot in slot %s", slot)
		return nil
	}
	if err != nil {
		return fmt.Errorf("load slot %s: %w", slot, err)
	}

	report := state.Load(g, blob)
	if report.Skipped > 0 {
		printWarning("Restored slot %s with drift", slot)
	} else {
		printSuccess("Restored slot %s", slot)
	}
	printKeyValue("applied", fmt.Sprintf("%d", report.Nodes))
	printKeyValue("skipped", fmt.Sprintf("%d", report.Skipped))
	return nil
}

func (c *CLI) stateShowCommand() *cobra.Command {
	var slot string

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print the raw snapshot records in a slot",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runStateShow(cmd.Context(), slot)
		},
	}

	cmd.Flags().StringVar(&slot, "slot", "default", "save slot name")

	return cmd
}

func (c *CLI) runStateShow(ctx context.Context, slot string) error {
	if err := checkSlot(slot); err != nil {
		return err
	}
	store, err := c.openStore(ctx)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer store.Close()

	blob, err := store.Load(ctx, state.Key(slot))
	if errors.Is(err, state.ErrNotFound) {
		printWarning("No snapshot in slot %s", slot)
		return nil
	}
	if err != nil {
		return fmt.Errorf("load slot %s: %w", slot, err)
	}

	printInfo("Slot %s", slot)
	for _, line := range strings.Split(strings.TrimRight(string(blob), "\n"), "\n") {
		if line == "" {
			continue
		}
		printDetail("%s", line)
	}
	return nil
}
