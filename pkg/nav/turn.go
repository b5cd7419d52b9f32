package nav

import "math"

// Turn resolution. Directions are totally ordered by spin angle; turning
// scans that order circularly, skipping disabled directions. A node with
// Cycle set may rotate the full 360°; otherwise candidates must lie within
// 180° of the current angle on the correct rotational side.

// NextDirection returns the index of the direction the node would face
// after one clockwise ("right") turn, and whether a turn is possible.
// When no enabled direction qualifies, the current index is returned with
// ok == false - the caller leaves the facing unchanged.
func (n *Node) NextDirection() (int, bool) { return n.findTurn(+1) }

// PrevDirection returns the index of the direction the node would face
// after one counter-clockwise ("left") turn, and whether a turn is
// possible. Semantics mirror [Node.NextDirection].
func (n *Node) PrevDirection() (int, bool) { return n.findTurn(-1) }

// TurnRight advances the facing clockwise if a qualifying direction
// exists, reporting whether the facing changed.
func (n *Node) TurnRight() bool { return n.turn(+1) }

// TurnLeft advances the facing counter-clockwise if a qualifying direction
// exists, reporting whether the facing changed.
func (n *Node) TurnLeft() bool { return n.turn(-1) }

func (n *Node) turn(step int) bool {
	i, ok := n.findTurn(step)
	if ok {
		n.facing = i
	}
	return ok
}

// findTurn scans circularly from the current facing in the given step
// direction until it finds an enabled direction within the allowed arc,
// or has visited every other direction.
func (n *Node) findTurn(step int) (int, bool) {
	count := len(n.dirs)
	if count == 0 {
		return -1, false
	}
	cur := n.dirs[n.facing]
	for off := 1; off < count; off++ {
		i := ((n.facing+step*off)%count + count) % count
		cand := n.dirs[i]
		if !cand.Enabled {
			continue
		}
		if n.Cycle || n.withinArc(cur.Angle, cand.Angle, step) {
			return i, true
		}
	}
	return n.facing, false
}

// withinArc reports whether cand lies within 180° of cur on the side the
// turn is rotating toward. The clockwise distance is used directly for
// right turns and mirrored for left turns, so the boundary angle (exactly
// 180° away) qualifies from either side.
func (n *Node) withinArc(cur, cand float64, step int) bool {
	if step > 0 {
		return clockwiseDelta(cur, cand) <= 180
	}
	return clockwiseDelta(cand, cur) <= 180
}

// BackwardDirection returns the index of the direction best suited for
// stepping backwards: the one whose angle is closest to the current angle
// plus 180°, among directions within a 90° tolerance of that opposite
// angle. ok is false when no direction lies inside the tolerance window.
// Enabled/link/occupancy validity is checked by [Graph.CanMoveBackward],
// not here.
func (n *Node) BackwardDirection() (int, bool) {
	if len(n.dirs) == 0 {
		return -1, false
	}
	opposite := NormalizeAngle(n.dirs[n.facing].Angle + 180)
	best, bestDiff := -1, math.MaxFloat64
	for i, d := range n.dirs {
		if i == n.facing {
			continue
		}
		diff := math.Abs(angleDiff(d.Angle, opposite))
		if diff <= 90 && diff < bestDiff {
			best, bestDiff = i, diff
		}
	}
	return best, best >= 0
}
