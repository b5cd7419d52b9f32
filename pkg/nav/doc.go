// Package nav implements node-based character navigation over a small,
// explicitly authored graph of discrete movement nodes.
//
// A [Graph] owns a set of [Node] values, each occupiable by at most one
// actor and connected to other nodes by directional links ([Direction]).
// The package provides:
//
//   - Occupancy management with a graph-wide single-occupant invariant
//     ([Graph.Occupy], [Graph.Unoccupy], [Graph.IsOccupied])
//   - Shortest-path search between nodes using Dijkstra's algorithm
//     ([Graph.ShortestPath]), with a fallback mode that relaxes
//     enabled/occupied constraints and truncates to the reachable prefix
//   - Directional turning ([Node.NextDirection], [Node.PrevDirection])
//     with per-node cyclic or bounded rotation
//   - A [Controller] that orchestrates move and snap requests through an
//     external [Mover]
//
// # Architecture
//
// The graph is an explicit context object rather than a process-wide
// registry: callers create independent graphs with [NewGraph] and pass or
// hold them directly. Node membership changes only via [Graph.Register]
// and [Graph.Unregister]. All occupancy state (node→actor, actor→node, and
// the cached player-node pointer) is derived from the nodes themselves and
// rebuilt on every mutation.
//
// All graph mutation is serialized behind a single mutex, so a Graph may
// be shared with an HTTP handler or a TUI event loop. The intended model
// is still a single logic goroutine driving moves per frame; the mutex
// exists so inspection surfaces cannot observe a half-applied occupancy
// change.
//
// # Usage
//
//	g := nav.NewGraph(nil)
//	g.Register(&nav.Node{ID: "dock", Pos: nav.Vec3{X: 0, Y: 0, Z: 0}})
//	g.Register(&nav.Node{ID: "gate", Pos: nav.Vec3{X: 4, Y: 0, Z: 0}})
//	...
//	path, err := g.ShortestPath("dock", "gate", false)
//
// Move orchestration goes through a Controller:
//
//	ctrl := nav.NewController(g, nil, logger)
//	state, err := ctrl.MoveTo(nav.MoveRequest{Actor: 1, Target: "gate"})
package nav
