package nav

import "github.com/google/uuid"

// ActorID is the stable identifier of a character known to the navigation
// graph. The zero value means "no actor" and never identifies a real
// character; persisted snapshots use 0 for unoccupied nodes.
type ActorID int

// None is the ActorID of no actor. Unoccupied nodes report None.
const None ActorID = 0

// Role tags a character as the player or a non-player character.
// Occupancy policies that care about "the player" check this tag; there is
// no type inspection anywhere in the package.
type Role int

const (
	// RoleNPC is a non-player character. This is the zero value.
	RoleNPC Role = iota
	// RolePlayer is the single player-controlled character.
	RolePlayer
)

// String returns "player" or "npc".
func (r Role) String() string {
	if r == RolePlayer {
		return "player"
	}
	return "npc"
}

// Actor describes a character that can occupy nodes. The graph does not
// own the character's lifetime - it holds descriptors only, and a
// character's destruction is signalled with [Graph.UnregisterActor].
type Actor struct {
	ID    ActorID
	Role  Role
	Name  string
	Mover Mover // drives physical movement; may be nil for bookkeeping-only actors
}

// IsPlayer reports whether the actor carries the player role tag.
func (a *Actor) IsPlayer() bool { return a != nil && a.Role == RolePlayer }

// PathHandle identifies one issued path-follow instruction. The handle is
// generated at commit time and echoed back by the movement service when
// the actor finishes (or abandons) the path, so a stale completion event
// from an interrupted traversal can be told apart from the current one.
type PathHandle = uuid.UUID

// NewPathHandle returns a fresh unique path handle.
func NewPathHandle() PathHandle { return uuid.New() }

// Mover is the external actor-movement service consumed by the core.
// Implementations advance the actor across frames; the core only issues
// instructions and polls the two in-progress flags.
type Mover interface {
	// Teleport moves the actor instantly to pos.
	Teleport(pos Vec3)

	// SetLookDirection orients the actor toward dir, either instantly or
	// tweened over subsequent frames.
	SetLookDirection(dir Vec3, instant bool)

	// SetPathTarget hands the actor an ordered waypoint list to follow.
	// Issuing a new target unconditionally overwrites any path still in
	// progress; there is no separate cancellation.
	SetPathTarget(handle PathHandle, waypoints []Vec3)

	// Position returns the actor's current world position.
	Position() Vec3

	// Forward returns the actor's current forward vector.
	Forward() Vec3

	// IsTraversingPath reports whether the actor is still following a path.
	IsTraversingPath() bool

	// IsTurning reports whether the actor is mid-rotation.
	IsTurning() bool
}

// Pathfinder is an optional external waypoint-refinement service. When a
// move request sets UsePathfinder, the controller passes the raw node
// positions through ComputeWaypoints to obtain a walkable spline before
// handing the result to the Mover.
type Pathfinder interface {
	ComputeWaypoints(origin Vec3, targets []Vec3) []Vec3
}
