package nav

import (
	"fmt"
	"slices"
)

// MarkerPolicy controls when a node's auto-managed interactive marker is
// shown. The marker is always hidden while the node itself is occupied.
type MarkerPolicy int

const (
	// MarkerAlways shows the marker whenever the node is unoccupied.
	MarkerAlways MarkerPolicy = iota
	// MarkerOnlyImmediate shows the marker only when the node is unoccupied
	// and directly linked, via any enabled direction, from the node the
	// player currently occupies.
	MarkerOnlyImmediate
	// MarkerNever keeps the marker hidden regardless of occupancy.
	MarkerNever
)

// String returns the policy name used in authored graph files.
func (p MarkerPolicy) String() string {
	switch p {
	case MarkerOnlyImmediate:
		return "immediate"
	case MarkerNever:
		return "never"
	default:
		return "always"
	}
}

// Node is a discrete occupiable point in the navigation graph.
//
// The exported fields are authored/static data; occupancy and facing are
// runtime state managed through the owning [Graph] and the turn methods.
// The zero value is not usable - ID must be set before [Graph.Register].
type Node struct {
	ID     string       // stable identifier, unique within the graph
	Label  string       // display label; DisplayLabel falls back to ID
	Pos    Vec3         // position in world space
	Cycle  bool         // allow full 360° rotation instead of a ±180° arc
	Spawn  string       // optional linked spawn point identifier
	Marker MarkerPolicy

	dirs          []*Direction // sorted by spin angle
	facing        int          // index into dirs, -1 if the node has none
	occupant      ActorID      // None when unoccupied
	pending       bool         // occupant claimed the node but has not arrived
	markerVisible bool
}

// DisplayLabel returns the label if set, otherwise the node ID.
func (n *Node) DisplayLabel() string {
	if n.Label != "" {
		return n.Label
	}
	return n.ID
}

// Directions returns the node's directions sorted by spin angle.
// The returned slice is the node's own - treat it as read-only and use the
// authoring methods for structural edits.
func (n *Node) Directions() []*Direction { return n.dirs }

// Direction returns the direction with the given ID, or nil if absent.
func (n *Node) Direction(id int) *Direction {
	for _, d := range n.dirs {
		if d.ID == id {
			return d
		}
	}
	return nil
}

// Facing returns the index of the node's current facing direction, or -1
// if the node has no directions.
func (n *Node) Facing() int {
	if len(n.dirs) == 0 {
		return -1
	}
	return n.facing
}

// FacingDirection returns the current facing direction, or nil if the node
// has no directions.
func (n *Node) FacingDirection() *Direction {
	if len(n.dirs) == 0 {
		return nil
	}
	return n.dirs[n.facing]
}

// SetFacing sets the current facing direction by index.
// Out-of-range indices are clamped into the valid range.
func (n *Node) SetFacing(i int) {
	if len(n.dirs) == 0 {
		n.facing = 0
		return
	}
	if i < 0 {
		i = 0
	}
	if i >= len(n.dirs) {
		i = len(n.dirs) - 1
	}
	n.facing = i
}

// Occupant returns the actor currently claiming the node, or None.
func (n *Node) Occupant() ActorID { return n.occupant }

// MarkerVisible reports whether the node's interactive marker is currently
// shown. Visibility is recomputed by the graph after every occupancy
// change; presentation layers poll this, the core never renders.
func (n *Node) MarkerVisible() bool { return n.markerVisible }

// =============================================================================
// Authoring
// =============================================================================

// AddDirection appends a direction to the node and re-sorts by spin angle.
// The angle is normalized into [0,360). Returns ErrDuplicateDirectionID if
// the ID is already in use on this node, or ErrPitchOutOfRange if the
// pitch lies outside [MinPitch,MaxPitch].
func (n *Node) AddDirection(d Direction) error {
	return n.InsertDirection(len(n.dirs), d)
}

// InsertDirection inserts a direction at the given position before sorting.
// Because directions are kept sorted by angle, the position only matters
// for tie-breaking between equal angles. Validation matches AddDirection.
func (n *Node) InsertDirection(at int, d Direction) error {
	if d.ID <= 0 {
		return fmt.Errorf("direction %d on node %s: %w", d.ID, n.ID, ErrInvalidDirectionID)
	}
	if n.Direction(d.ID) != nil {
		return fmt.Errorf("direction %d on node %s: %w", d.ID, n.ID, ErrDuplicateDirectionID)
	}
	if d.Pitch < MinPitch || d.Pitch > MaxPitch {
		return fmt.Errorf("direction %d on node %s: %w", d.ID, n.ID, ErrPitchOutOfRange)
	}
	d.Angle = NormalizeAngle(d.Angle)
	if at < 0 {
		at = 0
	}
	if at > len(n.dirs) {
		at = len(n.dirs)
	}
	n.dirs = slices.Insert(n.dirs, at, &d)
	n.sortDirections()
	return nil
}

// RemoveDirection deletes the direction with the given ID.
// Returns ErrUnknownDirection if no such direction exists. The facing
// index is clamped so it stays valid.
func (n *Node) RemoveDirection(id int) error {
	i := slices.IndexFunc(n.dirs, func(d *Direction) bool { return d.ID == id })
	if i < 0 {
		return fmt.Errorf("direction %d on node %s: %w", id, n.ID, ErrUnknownDirection)
	}
	n.dirs = slices.Delete(n.dirs, i, i+1)
	n.SetFacing(n.facing)
	return nil
}

// SetDirectionAngle updates a direction's spin angle and re-sorts.
// The angle is normalized into [0,360).
func (n *Node) SetDirectionAngle(id int, angle float64) error {
	d := n.Direction(id)
	if d == nil {
		return fmt.Errorf("direction %d on node %s: %w", id, n.ID, ErrUnknownDirection)
	}
	d.Angle = NormalizeAngle(angle)
	n.sortDirections()
	return nil
}

// SetDirectionLink updates a direction's target node ID. An empty target
// makes the direction a dead end.
func (n *Node) SetDirectionLink(id int, target string) error {
	d := n.Direction(id)
	if d == nil {
		return fmt.Errorf("direction %d on node %s: %w", id, n.ID, ErrUnknownDirection)
	}
	d.Link = target
	return nil
}

// SetDirectionEnabled toggles a direction's enabled flag.
func (n *Node) SetDirectionEnabled(id int, enabled bool) error {
	d := n.Direction(id)
	if d == nil {
		return fmt.Errorf("direction %d on node %s: %w", id, n.ID, ErrUnknownDirection)
	}
	d.Enabled = enabled
	return nil
}

// sortDirections restores by-angle ordering and keeps the facing index
// pointed at the same direction it referenced before the sort.
func (n *Node) sortDirections() {
	var facingID int
	hasFacing := len(n.dirs) > 0 && n.facing < len(n.dirs)
	if hasFacing {
		facingID = n.dirs[n.facing].ID
	}
	slices.SortStableFunc(n.dirs, func(a, b *Direction) int {
		switch {
		case a.Angle < b.Angle:
			return -1
		case a.Angle > b.Angle:
			return 1
		default:
			return a.ID - b.ID
		}
	})
	if hasFacing {
		if i := slices.IndexFunc(n.dirs, func(d *Direction) bool { return d.ID == facingID }); i >= 0 {
			n.facing = i
		}
	}
	n.SetFacing(n.facing)
}

// enabledLinkTo reports whether the node has any enabled direction whose
// link targets the given node ID.
func (n *Node) enabledLinkTo(id string) bool {
	for _, d := range n.dirs {
		if d.Enabled && d.Link == id {
			return true
		}
	}
	return false
}
