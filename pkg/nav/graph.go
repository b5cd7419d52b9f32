package nav

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/nodenav/pkg/observability"
)

var (
	// ErrInvalidNodeID is returned by [Graph.Register] when the node ID is
	// empty. All nodes must have non-empty identifiers.
	ErrInvalidNodeID = errors.New("node ID must not be empty")

	// ErrDuplicateNodeID is returned by [Graph.Register] when a node with
	// the same ID is already registered.
	ErrDuplicateNodeID = errors.New("duplicate node ID")

	// ErrUnknownNode is returned when a node ID is not registered.
	ErrUnknownNode = errors.New("unknown node")

	// ErrUnknownActor is returned when an actor ID is not registered.
	ErrUnknownActor = errors.New("unknown actor")

	// ErrNodeOccupied is returned by [Graph.Claim] when the node is already
	// claimed by a different actor.
	ErrNodeOccupied = errors.New("node occupied")

	// ErrDanglingLink is returned by [Graph.Validate] when a direction
	// links to a node that is not registered.
	ErrDanglingLink = errors.New("direction links to unknown node")
)

// Graph is the live set of movement nodes plus the occupancy indices
// derived from them. It replaces a process-wide registry with an explicit
// context object: create independent graphs with [NewGraph] and hand them
// to whatever needs one.
//
// All mutation (register/unregister/occupy/unoccupy) is serialized behind
// a single mutex, preserving the at-most-one-occupant invariant even when
// a server or TUI goroutine inspects the graph concurrently with the
// logic loop.
type Graph struct {
	mu         sync.Mutex
	nodes      map[string]*Node
	actors     map[ActorID]*Actor
	byActor    map[ActorID]string // actor -> node ID, rebuilt on every mutation
	playerNode string             // cached ID of the node the player occupies, "" = none
	logger     *log.Logger
}

// NewGraph creates an empty navigation graph. The logger may be nil, in
// which case log.Default() is used for the warnings the package emits on
// dropped requests and skipped snapshot entries.
func NewGraph(logger *log.Logger) *Graph {
	if logger == nil {
		logger = log.Default()
	}
	return &Graph{
		nodes:   make(map[string]*Node),
		actors:  make(map[ActorID]*Actor),
		byActor: make(map[ActorID]string),
		logger:  logger,
	}
}

// Logger returns the graph's logger.
func (g *Graph) Logger() *log.Logger { return g.logger }

// =============================================================================
// Node lifecycle
// =============================================================================

// Register adds a node to the graph. Membership changes only through
// Register/Unregister - typically tied to the host object's activation.
// Returns ErrInvalidNodeID for an empty ID or ErrDuplicateNodeID if the ID
// is taken.
func (g *Graph) Register(n *Node) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if n.ID == "" {
		return ErrInvalidNodeID
	}
	if _, exists := g.nodes[n.ID]; exists {
		return fmt.Errorf("node %s: %w", n.ID, ErrDuplicateNodeID)
	}
	n.sortDirections()
	g.nodes[n.ID] = n
	g.rebuildIndicesLocked()
	return nil
}

// Unregister removes a node from the graph, clearing its occupant first so
// the occupancy indices stay consistent. Unknown IDs are a no-op.
func (g *Graph) Unregister(id string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	n, ok := g.nodes[id]
	if !ok {
		return
	}
	n.occupant = None
	delete(g.nodes, id)
	g.rebuildIndicesLocked()
	g.refreshMarkersLocked()
}

// Node returns the node with the given ID and true, or nil and false.
func (g *Graph) Node(id string) (*Node, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	n, ok := g.nodes[id]
	return n, ok
}

// Nodes returns all registered nodes. The order is not guaranteed.
func (g *Graph) Nodes() []*Node {
	g.mu.Lock()
	defer g.mu.Unlock()
	nodes := make([]*Node, 0, len(g.nodes))
	for _, n := range g.nodes {
		nodes = append(nodes, n)
	}
	return nodes
}

// NodeCount returns the number of registered nodes.
func (g *Graph) NodeCount() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.nodes)
}

// Validate checks authored-graph integrity: every direction link must
// reference a registered node. It returns the first problem found wrapped
// with the offending node and direction, or nil.
func (g *Graph) Validate() error {
	g.mu.Lock()
	defer g.mu.Unlock()
	for _, n := range g.nodes {
		for _, d := range n.dirs {
			if d.Link == "" {
				continue
			}
			if _, ok := g.nodes[d.Link]; !ok {
				return fmt.Errorf("node %s direction %d -> %s: %w", n.ID, d.ID, d.Link, ErrDanglingLink)
			}
		}
	}
	return nil
}

// =============================================================================
// Actor registry
// =============================================================================

// RegisterActor makes an actor resolvable by ID. Registering the same ID
// again replaces the descriptor, which is how a respawned character
// re-attaches its mover.
func (g *Graph) RegisterActor(a *Actor) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.actors[a.ID] = a
}

// UnregisterActor removes an actor descriptor and clears any node the
// actor occupied. Call this when the character is destroyed; the graph
// never holds an owning reference, so this is the only cleanup needed.
func (g *Graph) UnregisterActor(id ActorID) {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.actors, id)
	for _, n := range g.nodes {
		if n.occupant == id {
			n.occupant = None
			n.pending = false
		}
	}
	g.rebuildIndicesLocked()
	g.refreshMarkersLocked()
}

// Actor resolves an actor descriptor by ID.
func (g *Graph) Actor(id ActorID) (*Actor, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	a, ok := g.actors[id]
	return a, ok
}

// Player returns the registered actor tagged RolePlayer, or nil.
func (g *Graph) Player() *Actor {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.playerLocked()
}

func (g *Graph) playerLocked() *Actor {
	for _, a := range g.actors {
		if a.Role == RolePlayer {
			return a
		}
	}
	return nil
}

// =============================================================================
// Occupancy
// =============================================================================

// Occupy sets the node's occupant to actor and, as a side effect, clears
// the actor from every other node's occupant slot, preserving the
// graph-wide invariant: at most one node claims a given actor and at most
// one actor occupies a given node. Marker visibility is recomputed.
func (g *Graph) Occupy(nodeID string, actor ActorID) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	n, ok := g.nodes[nodeID]
	if !ok {
		return fmt.Errorf("node %s: %w", nodeID, ErrUnknownNode)
	}
	for _, other := range g.nodes {
		if other != n && other.occupant == actor {
			other.occupant = None
			other.pending = false
		}
	}
	n.occupant = actor
	n.pending = false
	g.rebuildIndicesLocked()
	g.refreshMarkersLocked()
	observability.Nav().OnOccupancyChanged(nodeID, int(actor))
	return nil
}

// Claim atomically checks that the node is free (or already held by the
// same actor) and sets its occupant without sweeping the actor's previous
// node. The controller uses this at commit time so the origin node stays
// blocked while the actor is physically en route; the sweep happens when
// arrival calls [Graph.Occupy]. Until then the claim is marked pending,
// so the occupancy indices keep answering with the actor's origin node.
// Returns ErrNodeOccupied if another actor holds the node.
func (g *Graph) Claim(nodeID string, actor ActorID) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	n, ok := g.nodes[nodeID]
	if !ok {
		return fmt.Errorf("node %s: %w", nodeID, ErrUnknownNode)
	}
	if n.occupant != None && n.occupant != actor {
		return fmt.Errorf("node %s held by actor %d: %w", nodeID, n.occupant, ErrNodeOccupied)
	}
	if n.occupant != actor {
		n.pending = true
	}
	n.occupant = actor
	g.rebuildIndicesLocked()
	g.refreshMarkersLocked()
	observability.Nav().OnOccupancyChanged(nodeID, int(actor))
	return nil
}

// Unoccupy clears the node's occupant if it matches actor. Passing None
// clears unconditionally. Clearing the player also drops the cached
// player-node pointer. Calling Unoccupy on an already-clear node is a
// no-op, so the operation is idempotent.
func (g *Graph) Unoccupy(nodeID string, actor ActorID) {
	g.mu.Lock()
	defer g.mu.Unlock()
	n, ok := g.nodes[nodeID]
	if !ok {
		return
	}
	if actor != None && n.occupant != actor {
		return
	}
	if n.occupant == None {
		return
	}
	n.occupant = None
	n.pending = false
	g.rebuildIndicesLocked()
	g.refreshMarkersLocked()
	observability.Nav().OnOccupancyChanged(nodeID, 0)
}

// IsOccupied reports whether any actor occupies the node.
// Unknown node IDs report false.
func (g *Graph) IsOccupied(nodeID string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	n, ok := g.nodes[nodeID]
	return ok && n.occupant != None
}

// NodeOf returns the ID of the node the actor occupies, or "" if none.
// This is an O(1) index lookup rebuilt on every occupancy mutation. An
// actor mid-traversal holds two nodes; NodeOf reports the physical origin
// until arrival promotes the destination claim.
func (g *Graph) NodeOf(actor ActorID) string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.byActor[actor]
}

// PlayerNode returns the ID of the node the player occupies, or "".
// The value is a denormalized cache; [Graph.InvalidatePlayerNode] drops it
// when a load/restore begins and it is rebuilt on the next mutation.
func (g *Graph) PlayerNode() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.playerNode
}

// InvalidatePlayerNode clears the cached player-node pointer. Snapshot
// loading calls this before mutating any node so a stale cache can never
// survive a restore.
func (g *Graph) InvalidatePlayerNode() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.playerNode = ""
}

// rebuildIndicesLocked recomputes actor→node and the player-node cache
// from node state, the single source of truth. While an actor holds both
// its origin and a pending destination claim, the index points at the
// origin; nodes are visited in ID order so every rebuild resolves the
// same way.
func (g *Graph) rebuildIndicesLocked() {
	clear(g.byActor)
	g.playerNode = ""
	for _, id := range slices.Sorted(maps.Keys(g.nodes)) {
		n := g.nodes[id]
		if n.occupant == None {
			continue
		}
		if cur, ok := g.byActor[n.occupant]; ok && (n.pending || !g.nodes[cur].pending) {
			continue
		}
		g.byActor[n.occupant] = id
	}
	if player := g.playerLocked(); player != nil {
		g.playerNode = g.byActor[player.ID]
	}
}

// refreshMarkersLocked recomputes every node's marker visibility:
// hidden while occupied; otherwise shown for MarkerAlways, or for
// MarkerOnlyImmediate when an enabled direction on the player's node
// links here.
func (g *Graph) refreshMarkersLocked() {
	playerNode := g.nodes[g.playerNode]
	for id, n := range g.nodes {
		switch {
		case n.occupant != None, n.Marker == MarkerNever:
			n.markerVisible = false
		case n.Marker == MarkerAlways:
			n.markerVisible = true
		default:
			n.markerVisible = playerNode != nil && playerNode.enabledLinkTo(id)
		}
	}
}

// =============================================================================
// Movement queries
// =============================================================================

// CanMoveForward reports whether the node's current facing direction is
// enabled, linked, and targets an unoccupied node.
func (g *Graph) CanMoveForward(nodeID string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	n, ok := g.nodes[nodeID]
	if !ok {
		return false
	}
	d := n.FacingDirection()
	return g.walkableLocked(d)
}

// CanMoveBackward reports whether the node has a qualifying opposite
// direction (per [Node.BackwardDirection]) that is enabled, linked, and
// targets an unoccupied node.
func (g *Graph) CanMoveBackward(nodeID string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	n, ok := g.nodes[nodeID]
	if !ok {
		return false
	}
	i, ok := n.BackwardDirection()
	if !ok {
		return false
	}
	return g.walkableLocked(n.dirs[i])
}

func (g *Graph) walkableLocked(d *Direction) bool {
	if d == nil || !d.Enabled || d.Link == "" {
		return false
	}
	target, ok := g.nodes[d.Link]
	return ok && target.occupant == None
}
