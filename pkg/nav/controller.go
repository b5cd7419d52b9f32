package nav

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/nodenav/pkg/observability"
)

// ErrNoMover is returned by [Controller.MoveTo] when the resolved actor
// has no movement service attached.
var ErrNoMover = errors.New("actor has no mover")

// MoveState is the per-request state of the move/snap state machine.
//
//	Idle → Validating → (PathBlocked | Committing) → Traversing → Arrived
//
// PathBlocked is terminal with no state change; Arrived is terminal with
// the destination claimed and the origin released.
type MoveState int

const (
	StateIdle MoveState = iota
	StateValidating
	StatePathBlocked
	StateCommitting
	StateTraversing
	StateArrived
)

// String returns the lowercase state name.
func (s MoveState) String() string {
	switch s {
	case StateValidating:
		return "validating"
	case StatePathBlocked:
		return "blocked"
	case StateCommitting:
		return "committing"
	case StateTraversing:
		return "traversing"
	case StateArrived:
		return "arrived"
	default:
		return "idle"
	}
}

// MoveRequest describes one move or snap request.
type MoveRequest struct {
	// Actor is the requesting character.
	Actor ActorID
	// Target is the destination node ID.
	Target string
	// Instant teleports instead of traversing ("snap").
	Instant bool
	// IgnoreGraph skips path planning entirely and moves in a single hop
	// straight to the target, regardless of links between nodes.
	IgnoreGraph bool
	// FirstOnly truncates the computed path to its first hop, committing
	// occupancy against that intermediate node instead of the target.
	// Used for manual step-by-step navigation.
	FirstOnly bool
	// UsePathfinder refines the waypoint list through the external
	// pathfinding service before handing it to the mover.
	UsePathfinder bool
	// Face is the ID of the direction to face once arrived; 0 picks the
	// direction best aligned with the actor's forward vector at arrival.
	Face int
}

// traversal is the in-flight bookkeeping for one committed move.
type traversal struct {
	handle PathHandle
	dest   string
	face   int
}

// Controller services move, snap, and turn requests against a graph,
// committing occupancy optimistically at request time and finishing on
// the movement service's path-completion event.
//
// The controller assumes the cooperative single-goroutine model described
// in the package documentation: requests and completion events arrive from
// the same logic loop. Issuing a new request for an actor already mid-
// traversal implicitly cancels the previous path - the mover's target is
// unconditionally overwritten, the stale completion event is discarded by
// its path handle, and the cancelled traversal's destination claim is
// released when the new request commits.
type Controller struct {
	g      *Graph
	pf     Pathfinder // may be nil
	logger *log.Logger
	active map[ActorID]*traversal
}

// NewController creates a controller over the graph. The pathfinder may be
// nil, in which case UsePathfinder requests fall back to the raw node
// positions. A nil logger falls back to the graph's logger.
func NewController(g *Graph, pf Pathfinder, logger *log.Logger) *Controller {
	if logger == nil {
		logger = g.Logger()
	}
	return &Controller{
		g:      g,
		pf:     pf,
		logger: logger,
		active: make(map[ActorID]*traversal),
	}
}

// MoveTo runs a move request through the state machine and returns the
// state it settled in: StateArrived for instant moves, StateTraversing for
// animated ones, StatePathBlocked when the target cannot be reached, or
// StateIdle when the request was invalid and dropped. Invalid and blocked
// requests mutate nothing and are logged as warnings, never fatal.
func (c *Controller) MoveTo(req MoveRequest) (MoveState, error) {
	// Validating
	actor, ok := c.g.Actor(req.Actor)
	if !ok {
		c.logger.Warn("move dropped: unknown actor", "actor", req.Actor)
		return StateIdle, fmt.Errorf("actor %d: %w", req.Actor, ErrUnknownActor)
	}
	if actor.Mover == nil {
		c.logger.Warn("move dropped: actor has no mover", "actor", req.Actor)
		return StateIdle, fmt.Errorf("actor %d: %w", req.Actor, ErrNoMover)
	}
	dest, ok := c.g.Node(req.Target)
	if !ok {
		c.logger.Warn("move dropped: unknown node", "actor", req.Actor, "node", req.Target)
		return StateIdle, fmt.Errorf("node %s: %w", req.Target, ErrUnknownNode)
	}
	if occ := dest.Occupant(); occ != None && occ != req.Actor {
		c.logger.Warn("move dropped: node occupied", "actor", req.Actor, "node", req.Target, "occupant", occ)
		observability.Nav().OnMoveRejected(int(req.Actor), req.Target, "occupied")
		return StatePathBlocked, fmt.Errorf("node %s held by actor %d: %w", req.Target, occ, ErrNodeOccupied)
	}

	path, err := c.planPath(req, dest)
	if err != nil {
		observability.Nav().OnMoveRejected(int(req.Actor), req.Target, "unreachable")
		return StatePathBlocked, err
	}
	commit := path[len(path)-1]

	// Committing: claim the destination before traversal starts so a
	// second request in the same tick observes it as occupied.
	if err := c.g.Claim(commit.ID, req.Actor); err != nil {
		c.logger.Warn("move dropped: commit lost", "actor", req.Actor, "node", commit.ID)
		observability.Nav().OnMoveRejected(int(req.Actor), commit.ID, "occupied")
		return StatePathBlocked, err
	}
	observability.Nav().OnMoveStart(int(req.Actor), commit.ID, req.Instant)

	// A successful commit supersedes any traversal still in flight: drop
	// its bookkeeping and release the abandoned destination claim, unless
	// the new commit landed on the same node.
	if prev, ok := c.active[req.Actor]; ok {
		delete(c.active, req.Actor)
		if prev.dest != commit.ID {
			c.g.Unoccupy(prev.dest, req.Actor)
		}
	}

	if req.Instant {
		c.snap(actor, commit, req.Face)
		return StateArrived, nil
	}

	waypoints := path.Waypoints()
	if len(waypoints) == 0 {
		// Already standing on the destination node.
		c.arrive(actor, commit, req.Face)
		return StateArrived, nil
	}
	if req.UsePathfinder && c.pf != nil {
		waypoints = c.pf.ComputeWaypoints(actor.Mover.Position(), waypoints)
	}

	t := &traversal{handle: NewPathHandle(), dest: commit.ID, face: req.Face}
	c.active[req.Actor] = t
	actor.Mover.SetPathTarget(t.handle, waypoints)
	return StateTraversing, nil
}

// planPath resolves the node sequence for the request. Single-hop cases
// (IgnoreGraph, or an actor not currently hosted by any node) bypass the
// planner. Otherwise the planner runs in default mode first and retries in
// fallback mode before giving up.
func (c *Controller) planPath(req MoveRequest, dest *Node) (Path, error) {
	if req.IgnoreGraph {
		return Path{dest}, nil
	}
	start := c.g.NodeOf(req.Actor)
	if start == "" {
		return Path{dest}, nil
	}
	path, err := c.g.ShortestPath(start, req.Target, false)
	if err != nil {
		return nil, err
	}
	if !path.Reached(req.Target) {
		path, err = c.g.ShortestPath(start, req.Target, true)
		if err != nil {
			return nil, err
		}
	}
	if len(path) < 2 {
		c.logger.Warn("move dropped: target unreachable", "actor", req.Actor, "from", start, "to", req.Target)
		return nil, fmt.Errorf("no path from %s to %s: %w", start, req.Target, ErrUnreachable)
	}
	observability.Nav().OnPathComputed(start, req.Target, len(path), path.Cost())
	if req.FirstOnly {
		path = path[:2]
	}
	return path, nil
}

// snap teleports the actor onto the node and finishes immediately.
func (c *Controller) snap(actor *Actor, dest *Node, face int) {
	actor.Mover.Teleport(dest.Pos)
	c.resolveFacing(actor, dest, face, true)
	c.finish(actor, dest)
}

// arrive finishes a traversal whose path turned out to be empty.
func (c *Controller) arrive(actor *Actor, dest *Node, face int) {
	c.resolveFacing(actor, dest, face, false)
	c.finish(actor, dest)
}

// OnPathFinished is the external "actor finished its path" event. The
// event is ignored unless the handle matches the actor's in-flight
// traversal and the actor still holds the destination claim; a mismatched
// handle means the traversal was superseded by a newer request.
func (c *Controller) OnPathFinished(actorID ActorID, handle PathHandle) {
	t, ok := c.active[actorID]
	if !ok || t.handle != handle {
		return
	}
	dest, ok := c.g.Node(t.dest)
	if !ok || dest.Occupant() != actorID {
		delete(c.active, actorID)
		return
	}
	actor, ok := c.g.Actor(actorID)
	if !ok {
		delete(c.active, actorID)
		return
	}
	delete(c.active, actorID)
	c.resolveFacing(actor, dest, t.face, false)
	c.finish(actor, dest)
}

// finish promotes the commit-time claim to a full occupancy (sweeping the
// origin node's slot clear) and emits the completion hook.
func (c *Controller) finish(actor *Actor, dest *Node) {
	if err := c.g.Occupy(dest.ID, actor.ID); err != nil {
		c.logger.Warn("arrival occupy failed", "actor", actor.ID, "node", dest.ID, "err", err)
		return
	}
	observability.Nav().OnMoveComplete(int(actor.ID), dest.ID)
}

// resolveFacing sets the node facing and the actor's look direction.
// A positive face selects that direction ID; otherwise the direction whose
// forward vector best aligns (maximum dot product) with the actor's
// current forward vector wins.
func (c *Controller) resolveFacing(actor *Actor, dest *Node, face int, instant bool) {
	dirs := dest.Directions()
	if len(dirs) == 0 {
		return
	}
	pick := -1
	if face > 0 {
		for i, d := range dirs {
			if d.ID == face {
				pick = i
				break
			}
		}
	}
	if pick < 0 {
		forward := actor.Mover.Forward()
		best := -2.0 // dot products lie in [-1,1]
		for i, d := range dirs {
			if dot := d.Forward().Dot(forward); dot > best {
				best, pick = dot, i
			}
		}
	}
	dest.SetFacing(pick)
	actor.Mover.SetLookDirection(dirs[pick].Forward(), instant)
}

// Busy reports whether the actor has an in-flight traversal or its mover
// still reports travel or turn in progress.
func (c *Controller) Busy(actorID ActorID) bool {
	if _, ok := c.active[actorID]; ok {
		return true
	}
	actor, ok := c.g.Actor(actorID)
	if !ok || actor.Mover == nil {
		return false
	}
	return actor.Mover.IsTraversingPath() || actor.Mover.IsTurning()
}

// Wait polls until the actor's travel-in-progress and turn-in-progress
// flags both clear, ceding control between ticks. It returns ctx.Err()
// if the context is cancelled first. This is the "wait for completion"
// pattern for callers that drive the controller outside a frame loop.
func (c *Controller) Wait(ctx context.Context, actorID ActorID, tick time.Duration) error {
	if tick <= 0 {
		tick = 16 * time.Millisecond
	}
	ticker := time.NewTicker(tick)
	defer ticker.Stop()
	for c.Busy(actorID) {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
	return nil
}
