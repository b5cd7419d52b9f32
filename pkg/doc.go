// Package pkg provides the core libraries for node-based character
// navigation.
//
// # Overview
//
// Nodenav models a world as a graph of walkable nodes: each node carries
// a set of outgoing directions with spin/pitch angles, and characters
// move by claiming nodes and traversing the links between them. The pkg
// directory is organized into five main areas:
//
//  1. [nav] - Domain logic (graph, occupancy, pathfinding, turning, the
//     move/snap controller) plus [nav/navio] for authored graph files
//  2. [state] - Runtime snapshots and their storage backends
//  3. [render] - Graphviz export of authored graphs
//  4. [cache] - Content-addressed caching of render and route artifacts
//  5. [observability] - Hook interfaces for metrics and tracing
//
// # Architecture
//
// The typical data flow:
//
//	Authored graph file (JSON/YAML)
//	         ↓
//	    [nav/navio] package (read + validate)
//	         ↓
//	    [nav] package (occupancy, shortest paths, moves)
//	         ↓
//	    [state] package (snapshot save/load)
//
// # Quick Start
//
// Load a graph and move the player across it:
//
//	import (
//	    "github.com/matzehuels/nodenav/pkg/nav"
//	    "github.com/matzehuels/nodenav/pkg/nav/navio"
//	)
//
//	// 1. Load and validate the authored graph
//	g, _ := navio.ReadFile("world.json")
//	_ = g.Validate()
//
//	// 2. Register the player and place it
//	g.RegisterActor(&nav.Actor{ID: 1, Role: nav.RolePlayer, Mover: mover})
//	_ = g.Occupy("spawn", 1)
//
//	// 3. Move through the graph
//	ctrl := nav.NewController(g, nil, nil)
//	state, _ := ctrl.MoveTo(nav.MoveRequest{Actor: 1, Target: "gate"})
//
// Supporting packages: [buildinfo] embeds version metadata and [errors]
// carries machine-readable error codes shared by the CLI and the debug
// server.
package pkg
