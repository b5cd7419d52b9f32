package nav

import (
	"errors"
	"math"
	"slices"
	"testing"
)

// diamondGraph builds two routes from a to d: a cheap one through b
// (total length 2) and an expensive one through c (total length ~4.47).
func diamondGraph(t *testing.T) *Graph {
	t.Helper()
	g := NewGraph(nil)
	nodes := []*Node{
		{ID: "a", Pos: Vec3{}},
		{ID: "b", Pos: Vec3{X: 1}},
		{ID: "c", Pos: Vec3{X: 1, Z: 2}},
		{ID: "d", Pos: Vec3{X: 2}},
	}
	links := []struct {
		from, to string
		id       int
		angle    float64
	}{
		{"a", "b", 1, 80},
		{"a", "c", 2, 100},
		{"b", "d", 1, 90},
		{"c", "d", 1, 90},
	}
	byID := map[string]*Node{}
	for _, n := range nodes {
		byID[n.ID] = n
	}
	for _, l := range links {
		mustAdd(t, byID[l.from], Direction{ID: l.id, Angle: l.angle, Link: l.to, Enabled: true})
	}
	for _, n := range nodes {
		if err := g.Register(n); err != nil {
			t.Fatalf("Register(%s): %v", n.ID, err)
		}
	}
	return g
}

func TestShortestPath(t *testing.T) {
	tests := []struct {
		name     string
		build    func(t *testing.T) *Graph
		start    string
		end      string
		fallback bool
		wantIDs  []string
		wantCost float64
	}{
		{
			name:     "StraightLine",
			build:    lineGraph,
			start:    "a",
			end:      "d",
			wantIDs:  []string{"a", "b", "c", "d"},
			wantCost: 3,
		},
		{
			name:     "PicksCheaperBranch",
			build:    diamondGraph,
			start:    "a",
			end:      "d",
			wantIDs:  []string{"a", "b", "d"},
			wantCost: 2,
		},
		{
			name:     "StartEqualsEnd",
			build:    lineGraph,
			start:    "b",
			end:      "b",
			wantIDs:  []string{"b"},
			wantCost: 0,
		},
		{
			name: "UnreachableReturnsStartOnly",
			build: func(t *testing.T) *Graph {
				g := lineGraph(t)
				g.Register(&Node{ID: "island", Pos: Vec3{Z: 9}})
				return g
			},
			start:   "a",
			end:     "island",
			wantIDs: []string{"a"},
		},
		{
			name: "DisabledHopBlocksDefaultMode",
			build: func(t *testing.T) *Graph {
				g := lineGraph(t)
				b, _ := g.Node("b")
				b.SetDirectionEnabled(1, false) // b -> c
				return g
			},
			start:   "a",
			end:     "d",
			wantIDs: []string{"a"},
		},
		{
			name: "FallbackTruncatesAtDisabledHop",
			build: func(t *testing.T) *Graph {
				g := lineGraph(t)
				b, _ := g.Node("b")
				b.SetDirectionEnabled(1, false) // b -> c
				return g
			},
			start:    "a",
			end:      "d",
			fallback: true,
			wantIDs:  []string{"a", "b"},
			wantCost: 1,
		},
		{
			name: "FallbackTruncatesBeforeOccupiedNode",
			build: func(t *testing.T) *Graph {
				g := lineGraph(t)
				g.RegisterActor(&Actor{ID: 9})
				if err := g.Occupy("c", 9); err != nil {
					t.Fatalf("Occupy: %v", err)
				}
				return g
			},
			start:    "a",
			end:      "d",
			fallback: true,
			wantIDs:  []string{"a", "b"},
			wantCost: 1,
		},
		{
			name: "FallbackReachesWhenNothingBlocks",
			build: func(t *testing.T) *Graph {
				return lineGraph(t)
			},
			start:    "a",
			end:      "d",
			fallback: true,
			wantIDs:  []string{"a", "b", "c", "d"},
			wantCost: 3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := tt.build(t)

			path, err := g.ShortestPath(tt.start, tt.end, tt.fallback)
			if err != nil {
				t.Fatalf("ShortestPath: %v", err)
			}
			if got := path.IDs(); !slices.Equal(got, tt.wantIDs) {
				t.Errorf("path = %v, want %v", got, tt.wantIDs)
			}
			if got := path.Cost(); math.Abs(got-tt.wantCost) > 1e-9 {
				t.Errorf("cost = %v, want %v", got, tt.wantCost)
			}
			wantReached := len(tt.wantIDs) > 0 && tt.wantIDs[len(tt.wantIDs)-1] == tt.end
			if got := path.Reached(tt.end); got != wantReached {
				t.Errorf("Reached(%s) = %v, want %v", tt.end, got, wantReached)
			}
		})
	}
}

func TestShortestPathUnknownNodes(t *testing.T) {
	g := lineGraph(t)
	if _, err := g.ShortestPath("ghost", "d", false); !errors.Is(err, ErrUnknownNode) {
		t.Errorf("unknown start: err = %v, want ErrUnknownNode", err)
	}
	if _, err := g.ShortestPath("a", "ghost", false); !errors.Is(err, ErrUnknownNode) {
		t.Errorf("unknown end: err = %v, want ErrUnknownNode", err)
	}
}

func TestShortestPathTieBreak(t *testing.T) {
	// Two equal-cost routes from s to t; the search must settle on the
	// branch through the lexicographically lower node ID every time.
	g := NewGraph(nil)
	nodes := []*Node{
		{ID: "s", Pos: Vec3{}},
		{ID: "m1", Pos: Vec3{X: 1, Z: 1}},
		{ID: "m2", Pos: Vec3{X: 1, Z: -1}},
		{ID: "t", Pos: Vec3{X: 2}},
	}
	s, m1, m2 := nodes[0], nodes[1], nodes[2]
	mustAdd(t, s, Direction{ID: 1, Angle: 45, Link: "m1", Enabled: true})
	mustAdd(t, s, Direction{ID: 2, Angle: 135, Link: "m2", Enabled: true})
	mustAdd(t, m1, Direction{ID: 1, Angle: 135, Link: "t", Enabled: true})
	mustAdd(t, m2, Direction{ID: 1, Angle: 45, Link: "t", Enabled: true})
	for _, n := range nodes {
		if err := g.Register(n); err != nil {
			t.Fatalf("Register(%s): %v", n.ID, err)
		}
	}

	want := []string{"s", "m1", "t"}
	for i := 0; i < 20; i++ {
		path, err := g.ShortestPath("s", "t", false)
		if err != nil {
			t.Fatalf("ShortestPath: %v", err)
		}
		if got := path.IDs(); !slices.Equal(got, want) {
			t.Fatalf("run %d: path = %v, want %v", i, got, want)
		}
	}
}

func TestPathWaypoints(t *testing.T) {
	g := lineGraph(t)
	path, err := g.ShortestPath("a", "c", false)
	if err != nil {
		t.Fatalf("ShortestPath: %v", err)
	}

	want := []Vec3{{X: 1}, {X: 2}}
	got := path.Waypoints()
	if !slices.Equal(got, want) {
		t.Errorf("waypoints = %v, want %v", got, want)
	}

	short, err := g.ShortestPath("a", "a", false)
	if err != nil {
		t.Fatalf("ShortestPath: %v", err)
	}
	if wps := short.Waypoints(); wps != nil {
		t.Errorf("single-node waypoints = %v, want nil", wps)
	}
}
