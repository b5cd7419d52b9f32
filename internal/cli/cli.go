// Package cli implements the nodenav command-line interface.
//
// This package provides commands for validating authored navigation
// graphs, planning routes, rendering diagrams, walking a graph
// interactively, and managing persisted snapshots. The CLI is built using
// cobra and supports verbose logging via the charmbracelet/log library.
//
// # Commands
//
// The main commands are:
//   - validate: Check an authored graph for structural problems
//   - route: Plan and print the shortest path between two nodes
//   - render: Generate DOT, SVG, or PNG diagrams
//   - simulate: Walk an actor around the graph interactively
//   - state: Save, load, and inspect runtime snapshots
//   - serve: Run the debug HTTP API
//   - cache: Manage the render/route cache
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. Loggers are
// passed through context.Context to allow structured progress tracking.
package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/nodenav/pkg/buildinfo"
	"github.com/matzehuels/nodenav/pkg/cache"
	"github.com/matzehuels/nodenav/pkg/nav"
	"github.com/matzehuels/nodenav/pkg/nav/navio"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories and display.
const appName = "nodenav"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
	Config *Config
}

// New creates a new CLI instance with a default logger and the on-disk
// config (falling back to defaults when no config file exists).
func New(w io.Writer, level log.Level) *CLI {
	c := &CLI{Logger: newLogger(w, level)}
	cfg, err := LoadConfig("")
	if err != nil {
		c.Logger.Warn("config file ignored", "err", err)
		cfg = DefaultConfig()
	}
	c.Config = cfg
	return c
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          "nodenav",
		Short:        "Nodenav plans and inspects node-based character navigation",
		Long:         `Nodenav is a CLI tool for authoring, validating, and debugging node-based navigation graphs: discrete movement points, directional turning, occupancy, and shortest-path planning.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
	}

	root.SetVersionTemplate(buildinfo.Template())

	// Register all subcommands
	root.AddCommand(c.validateCommand())
	root.AddCommand(c.routeCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.simulateCommand())
	root.AddCommand(c.stateCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Graph Loading
// =============================================================================

// loadGraph reads an authored graph file and validates link integrity.
func (c *CLI) loadGraph(path string) (*nav.Graph, error) {
	g, err := navio.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load graph %s: %w", path, err)
	}
	if err := g.Validate(); err != nil {
		return nil, fmt.Errorf("graph %s: %w", path, err)
	}
	c.Logger.Debug("graph loaded", "path", path, "nodes", g.NodeCount())
	return g, nil
}

// =============================================================================
// Cache Factory
// =============================================================================

func newCache(noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	dir, err := cacheDir()
	if err != nil {
		return cache.NewNullCache(), nil
	}
	return cache.NewFileCache(dir)
}

// graphKeyer builds the cache keyer for one authored graph file. Keys
// are scoped by the file stem so artifacts from different graphs stay
// apart in a shared cache directory.
func graphKeyer(path string) cache.Keyer {
	stem := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return cache.NewScopedKeyer(cache.NewDefaultKeyer(), "graph:"+stem+":")
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/nodenav/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// configDir returns the config directory using XDG standard (~/.config/nodenav/).
func configDir() (string, error) {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName), nil
}
