package state

import (
	"strings"
	"testing"

	"github.com/matzehuels/nodenav/pkg/nav"
)

type recordingMover struct {
	pos   nav.Vec3
	looks []nav.Vec3
}

func (m *recordingMover) Teleport(pos nav.Vec3)                       { m.pos = pos }
func (m *recordingMover) SetLookDirection(dir nav.Vec3, instant bool) { m.looks = append(m.looks, dir) }
func (m *recordingMover) SetPathTarget(nav.PathHandle, []nav.Vec3)    {}
func (m *recordingMover) Position() nav.Vec3                          { return m.pos }
func (m *recordingMover) Forward() nav.Vec3                           { return nav.Vec3{Z: 1} }
func (m *recordingMover) IsTraversingPath() bool                      { return false }
func (m *recordingMover) IsTurning() bool                             { return false }

// testGraph builds two linked nodes with a player (ID 1) and an NPC (ID 7).
func testGraph(t *testing.T) (*nav.Graph, *recordingMover, *recordingMover) {
	t.Helper()
	g := nav.NewGraph(nil)

	hall := &nav.Node{ID: "hall", Pos: nav.Vec3{X: 1}}
	if err := hall.AddDirection(nav.Direction{ID: 1, Angle: 90, Link: "yard", Enabled: true}); err != nil {
		t.Fatalf("AddDirection: %v", err)
	}
	if err := hall.AddDirection(nav.Direction{ID: 2, Angle: 270, Enabled: false}); err != nil {
		t.Fatalf("AddDirection: %v", err)
	}
	yard := &nav.Node{ID: "yard", Pos: nav.Vec3{X: 2}}
	if err := yard.AddDirection(nav.Direction{ID: 1, Angle: 270, Link: "hall", Enabled: true}); err != nil {
		t.Fatalf("AddDirection: %v", err)
	}
	for _, n := range []*nav.Node{hall, yard} {
		if err := g.Register(n); err != nil {
			t.Fatalf("Register(%s): %v", n.ID, err)
		}
	}

	pm, nm := &recordingMover{}, &recordingMover{}
	g.RegisterActor(&nav.Actor{ID: 1, Role: nav.RolePlayer, Mover: pm})
	g.RegisterActor(&nav.Actor{ID: 7, Mover: nm})
	return g, pm, nm
}

func TestSaveFormat(t *testing.T) {
	g, _, _ := testGraph(t)
	if err := g.Occupy("hall", 1); err != nil {
		t.Fatalf("Occupy: %v", err)
	}
	if err := g.Occupy("yard", 7); err != nil {
		t.Fatalf("Occupy: %v", err)
	}

	got := string(Save(g))
	want := "hall|1:1;2:0|1|0\nyard|1:1|0|7"
	if got != want {
		t.Errorf("Save =\n%q\nwant\n%q", got, want)
	}

	// Saving twice yields the same bytes.
	if again := string(Save(g)); again != got {
		t.Errorf("Save not deterministic:\n%q\nvs\n%q", again, got)
	}
}

func TestRoundTrip(t *testing.T) {
	g, _, _ := testGraph(t)
	if err := g.Occupy("hall", 1); err != nil {
		t.Fatalf("Occupy: %v", err)
	}
	hall, _ := g.Node("hall")
	if err := hall.SetDirectionEnabled(1, false); err != nil {
		t.Fatalf("SetDirectionEnabled: %v", err)
	}
	blob := Save(g)

	// A fresh graph with the same authored shape picks up the state.
	g2, pm, _ := testGraph(t)
	report := Load(g2, blob)
	if report.Nodes != 2 || report.Skipped != 0 {
		t.Fatalf("report = %+v, want 2 applied, 0 skipped", report)
	}

	hall2, _ := g2.Node("hall")
	if hall2.Direction(1).Enabled {
		t.Error("direction 1 on hall should be disabled after load")
	}
	if hall2.Direction(2).Enabled {
		t.Error("direction 2 on hall should stay disabled")
	}
	if got := g2.NodeOf(1); got != "hall" {
		t.Errorf("player restored to %q, want hall", got)
	}
	if got := g2.PlayerNode(); got != "hall" {
		t.Errorf("PlayerNode = %q, want hall", got)
	}

	// The restored occupant was snapped onto the node.
	if pm.pos != (nav.Vec3{X: 1}) {
		t.Errorf("player position = %v, want {1 0 0}", pm.pos)
	}
	if len(pm.looks) == 0 {
		t.Error("player look direction not restored")
	}
}

func TestLoadLossyTolerance(t *testing.T) {
	tests := []struct {
		name        string
		blob        string
		wantNodes   int
		wantSkipped int
		check       func(t *testing.T, g *nav.Graph)
	}{
		{
			name:      "Empty",
			blob:      "",
			wantNodes: 0,
		},
		{
			name:        "UnknownNode",
			blob:        "hall|1:1;2:0|0|0\ncellar|1:1|0|0",
			wantNodes:   1,
			wantSkipped: 1,
		},
		{
			name:        "MalformedRecord",
			blob:        "hall|only-two-fields",
			wantSkipped: 1,
		},
		{
			name:      "StaleDirection",
			blob:      "hall|1:0;99:1|0|0",
			wantNodes: 1,
			check: func(t *testing.T, g *nav.Graph) {
				hall, _ := g.Node("hall")
				if hall.Direction(1).Enabled {
					t.Error("known pair not applied alongside stale one")
				}
			},
		},
		{
			name:      "DanglingActor",
			blob:      "hall|1:1;2:0|0|42",
			wantNodes: 1,
			check: func(t *testing.T, g *nav.Graph) {
				if g.IsOccupied("hall") {
					t.Error("node occupied by unresolvable actor")
				}
			},
		},
		{
			name:      "BlankLinesIgnored",
			blob:      "\nhall|1:1;2:0|0|0\n\n",
			wantNodes: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, _, _ := testGraph(t)
			report := Load(g, []byte(tt.blob))
			if report.Nodes != tt.wantNodes {
				t.Errorf("Nodes = %d, want %d", report.Nodes, tt.wantNodes)
			}
			if report.Skipped != tt.wantSkipped {
				t.Errorf("Skipped = %d, want %d", report.Skipped, tt.wantSkipped)
			}
			if tt.check != nil {
				tt.check(t, g)
			}
		})
	}
}

func TestLoadClearsStaleOccupancy(t *testing.T) {
	g, _, _ := testGraph(t)
	if err := g.Occupy("yard", 7); err != nil {
		t.Fatalf("Occupy: %v", err)
	}

	// The snapshot says yard is free; loading must clear the live occupant.
	Load(g, []byte("hall|1:1;2:0|0|0\nyard|1:1|0|0"))
	if g.IsOccupied("yard") {
		t.Error("yard still occupied after loading a free snapshot")
	}
}

func TestKey(t *testing.T) {
	if got, want := Key("default"), "nodenav:state:default"; got != want {
		t.Errorf("Key = %q, want %q", got, want)
	}
	if strings.Contains(Key("slot2"), " ") {
		t.Error("store key contains whitespace")
	}
}
