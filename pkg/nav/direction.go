package nav

import (
	"errors"
	"math"
)

// Angle bounds for authored direction data.
const (
	// MinPitch and MaxPitch bound a direction's pitch angle in degrees.
	MinPitch = -60.0
	MaxPitch = 60.0
)

var (
	// ErrUnknownDirection is returned when a direction ID does not exist on
	// the node.
	ErrUnknownDirection = errors.New("unknown direction")

	// ErrInvalidDirectionID is returned when a direction ID is not positive.
	// Zero is reserved to mean "no direction" in move requests and snapshots.
	ErrInvalidDirectionID = errors.New("direction ID must be positive")

	// ErrDuplicateDirectionID is returned by [Node.AddDirection] and
	// [Node.InsertDirection] when the ID is already used on the node.
	ErrDuplicateDirectionID = errors.New("duplicate direction ID")

	// ErrPitchOutOfRange is returned when a direction's pitch lies outside
	// [MinPitch, MaxPitch].
	ErrPitchOutOfRange = errors.New("pitch out of range")
)

// Direction is a single outgoing edge of a node. Each direction carries a
// spin angle in [0,360) and a pitch in [MinPitch,MaxPitch], both degrees.
// Link names the target node; an empty Link is a dead end the actor can
// face but not walk. Directions may reference any node, including ones
// that link back - the structure is a general directed graph, not a tree.
//
// Directions are authored in no particular order but are kept sorted by
// spin angle on their owning node; turning walks that sorted order.
type Direction struct {
	ID      int     // unique within the owning node
	Angle   float64 // spin angle in degrees, [0,360)
	Pitch   float64 // tilt in degrees, [MinPitch,MaxPitch]
	Link    string  // target node ID, "" = dead end
	Enabled bool
}

// Forward returns the unit forward vector for the direction's spin and
// pitch. Spin 0 points along +Z, spin 90 along +X; pitch tilts toward +Y.
func (d *Direction) Forward() Vec3 {
	yaw := d.Angle * math.Pi / 180
	pitch := d.Pitch * math.Pi / 180
	return Vec3{
		X: math.Cos(pitch) * math.Sin(yaw),
		Y: math.Sin(pitch),
		Z: math.Cos(pitch) * math.Cos(yaw),
	}
}
