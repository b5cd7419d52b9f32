package nav

import "testing"

// compassNode builds a node with directions at 0, 90, 180 and 270 degrees
// (IDs 1-4 in that order) facing the 0-degree direction.
func compassNode(t *testing.T, cycle bool) *Node {
	t.Helper()
	n := &Node{ID: "hub", Cycle: cycle}
	for i, angle := range []float64{0, 90, 180, 270} {
		mustAdd(t, n, Direction{ID: i + 1, Angle: angle, Enabled: true})
	}
	n.SetFacing(0)
	return n
}

func TestTurn(t *testing.T) {
	tests := []struct {
		name      string
		cycle     bool
		disable   []int // direction IDs toggled off
		start     int   // facing index before the turn
		step      int   // +1 right, -1 left
		wantIndex int
		wantOK    bool
	}{
		{
			name:      "RightToNeighbor",
			start:     0,
			step:      +1,
			wantIndex: 1, // 0 -> 90
			wantOK:    true,
		},
		{
			name:      "LeftToNeighbor",
			start:     1,
			step:      -1,
			wantIndex: 0, // 90 -> 0
			wantOK:    true,
		},
		{
			name:      "RightSkipsDisabled",
			disable:   []int{2},
			start:     0,
			step:      +1,
			wantIndex: 2, // 90 disabled, 180 is exactly on the arc boundary
			wantOK:    true,
		},
		{
			name:      "RightRejectsBeyondArc",
			disable:   []int{2, 3},
			start:     0,
			step:      +1,
			wantIndex: 0, // only 270 remains, 270 clockwise is outside the arc
			wantOK:    false,
		},
		{
			name:      "LeftAcceptsSameTarget",
			disable:   []int{2, 3},
			start:     0,
			step:      -1,
			wantIndex: 3, // 270 is one step counter-clockwise from 0
			wantOK:    true,
		},
		{
			name:      "LeftWrapsAroundZero",
			start:     0,
			step:      -1,
			wantIndex: 3,
			wantOK:    true,
		},
		{
			name:      "CycleIgnoresArc",
			cycle:     true,
			disable:   []int{2, 3},
			start:     0,
			step:      +1,
			wantIndex: 3, // full rotation allowed, 270 qualifies
			wantOK:    true,
		},
		{
			name:      "AllDisabled",
			disable:   []int{2, 3, 4},
			start:     0,
			step:      +1,
			wantIndex: 0,
			wantOK:    false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n := compassNode(t, tt.cycle)
			for _, id := range tt.disable {
				if err := n.SetDirectionEnabled(id, false); err != nil {
					t.Fatalf("SetDirectionEnabled(%d): %v", id, err)
				}
			}
			n.SetFacing(tt.start)

			var got int
			var ok bool
			if tt.step > 0 {
				got, ok = n.NextDirection()
			} else {
				got, ok = n.PrevDirection()
			}
			if got != tt.wantIndex || ok != tt.wantOK {
				t.Errorf("findTurn = (%d, %v), want (%d, %v)", got, ok, tt.wantIndex, tt.wantOK)
			}
		})
	}
}

func TestTurnMutatesFacing(t *testing.T) {
	n := compassNode(t, false)

	if !n.TurnRight() {
		t.Fatal("TurnRight failed on open compass node")
	}
	if got := n.FacingDirection().Angle; got != 90 {
		t.Errorf("facing angle after TurnRight = %v, want 90", got)
	}

	if !n.TurnLeft() {
		t.Fatal("TurnLeft failed")
	}
	if got := n.FacingDirection().Angle; got != 0 {
		t.Errorf("facing angle after TurnLeft = %v, want 0", got)
	}

	// A failed turn leaves the facing untouched.
	for _, id := range []int{2, 3, 4} {
		n.SetDirectionEnabled(id, false)
	}
	if n.TurnRight() {
		t.Error("TurnRight succeeded with no qualifying direction")
	}
	if got := n.FacingDirection().Angle; got != 0 {
		t.Errorf("facing angle after failed turn = %v, want 0", got)
	}
}

func TestTurnEmptyNode(t *testing.T) {
	n := &Node{ID: "bare"}
	if i, ok := n.NextDirection(); ok || i != -1 {
		t.Errorf("NextDirection on bare node = (%d, %v), want (-1, false)", i, ok)
	}
	if n.TurnRight() {
		t.Error("TurnRight succeeded on a node with no directions")
	}
}

func TestBackwardDirection(t *testing.T) {
	tests := []struct {
		name      string
		angles    []float64
		facing    int
		wantIndex int
		wantOK    bool
	}{
		{
			name:      "ExactOpposite",
			angles:    []float64{0, 90, 180, 270},
			facing:    0,
			wantIndex: 2,
			wantOK:    true,
		},
		{
			name:      "ClosestWithinTolerance",
			angles:    []float64{0, 120, 200},
			facing:    0,
			wantIndex: 2, // 200 is 20 off the opposite, 120 is 60 off
			wantOK:    true,
		},
		{
			name:   "NothingWithinTolerance",
			angles: []float64{0, 45},
			facing: 0,
			wantOK: false,
		},
		{
			name:      "ToleranceBoundary",
			angles:    []float64{0, 90},
			facing:    0,
			wantIndex: 1, // exactly 90 off the opposite still qualifies
			wantOK:    true,
		},
		{
			name:   "SingleDirection",
			angles: []float64{0},
			facing: 0,
			wantOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n := &Node{ID: "hub"}
			for i, a := range tt.angles {
				mustAdd(t, n, Direction{ID: i + 1, Angle: a, Enabled: true})
			}
			n.SetFacing(tt.facing)

			got, ok := n.BackwardDirection()
			if ok != tt.wantOK {
				t.Fatalf("BackwardDirection ok = %v, want %v", ok, tt.wantOK)
			}
			if ok && got != tt.wantIndex {
				t.Errorf("BackwardDirection = %d, want %d", got, tt.wantIndex)
			}
		})
	}
}
