package navio

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/nodenav/pkg/nav"
)

func sampleGraph(t *testing.T) *nav.Graph {
	t.Helper()
	g := nav.NewGraph(nil)

	ledge := &nav.Node{
		ID:     "ledge",
		Label:  "Narrow Ledge",
		Pos:    nav.Vec3{X: 4, Y: 1.5},
		Cycle:  true,
		Spawn:  "spawn-ledge",
		Marker: nav.MarkerOnlyImmediate,
	}
	if err := ledge.AddDirection(nav.Direction{ID: 1, Angle: 90, Pitch: 15, Link: "pit", Enabled: true}); err != nil {
		t.Fatalf("AddDirection: %v", err)
	}
	if err := ledge.AddDirection(nav.Direction{ID: 2, Angle: 270}); err != nil {
		t.Fatalf("AddDirection: %v", err)
	}
	pit := &nav.Node{ID: "pit", Pos: nav.Vec3{X: 4, Y: -2}, Marker: nav.MarkerNever}
	for _, n := range []*nav.Node{ledge, pit} {
		if err := g.Register(n); err != nil {
			t.Fatalf("Register(%s): %v", n.ID, err)
		}
	}
	return g
}

// assertSameGraph compares the authored halves of two graphs.
func assertSameGraph(t *testing.T, got, want *nav.Graph) {
	t.Helper()
	if got.NodeCount() != want.NodeCount() {
		t.Fatalf("node count = %d, want %d", got.NodeCount(), want.NodeCount())
	}
	for _, wn := range want.Nodes() {
		gn, ok := got.Node(wn.ID)
		if !ok {
			t.Fatalf("node %s missing", wn.ID)
		}
		if gn.Label != wn.Label || gn.Pos != wn.Pos || gn.Cycle != wn.Cycle ||
			gn.Spawn != wn.Spawn || gn.Marker != wn.Marker {
			t.Errorf("node %s = %+v, want %+v", wn.ID, gn, wn)
		}
		if len(gn.Directions()) != len(wn.Directions()) {
			t.Fatalf("node %s: %d directions, want %d", wn.ID, len(gn.Directions()), len(wn.Directions()))
		}
		for i, wd := range wn.Directions() {
			if gd := gn.Directions()[i]; *gd != *wd {
				t.Errorf("node %s direction %d = %+v, want %+v", wn.ID, i, gd, wd)
			}
		}
	}
}

func TestRoundTrip(t *testing.T) {
	codecs := []struct {
		name  string
		write func(*nav.Graph, *bytes.Buffer) error
		read  func(*bytes.Buffer) (*nav.Graph, error)
	}{
		{
			name:  "JSON",
			write: func(g *nav.Graph, b *bytes.Buffer) error { return WriteJSON(g, b) },
			read:  func(b *bytes.Buffer) (*nav.Graph, error) { return ReadJSON(b) },
		},
		{
			name:  "YAML",
			write: func(g *nav.Graph, b *bytes.Buffer) error { return WriteYAML(g, b) },
			read:  func(b *bytes.Buffer) (*nav.Graph, error) { return ReadYAML(b) },
		},
	}

	for _, tc := range codecs {
		t.Run(tc.name, func(t *testing.T) {
			g := sampleGraph(t)

			var buf bytes.Buffer
			if err := tc.write(g, &buf); err != nil {
				t.Fatalf("write: %v", err)
			}
			got, err := tc.read(&buf)
			if err != nil {
				t.Fatalf("read: %v", err)
			}
			assertSameGraph(t, got, g)
		})
	}
}

func TestWriteIsDeterministic(t *testing.T) {
	g := sampleGraph(t)
	var a, b bytes.Buffer
	if err := WriteJSON(g, &a); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := WriteJSON(g, &b); err != nil {
		t.Fatalf("write: %v", err)
	}
	if a.String() != b.String() {
		t.Error("two writes of the same graph differ")
	}
	if !strings.Contains(a.String(), `"ledge"`) {
		t.Errorf("output missing node ID:\n%s", a.String())
	}
}

func TestEnabledDefaultsTrue(t *testing.T) {
	doc := `{"nodes":[{"id":"a","position":{"x":0,"y":0,"z":0},"directions":[{"id":1,"angle":0},{"id":2,"angle":90,"enabled":false}]}]}`
	g, err := ReadJSON(strings.NewReader(doc))
	if err != nil {
		t.Fatalf("ReadJSON: %v", err)
	}
	n, _ := g.Node("a")
	if !n.Direction(1).Enabled {
		t.Error("omitted enabled flag should default to true")
	}
	if n.Direction(2).Enabled {
		t.Error("explicit enabled:false ignored")
	}
}

func TestToGraphErrors(t *testing.T) {
	tests := []struct {
		name string
		file File
	}{
		{
			name: "BadMarker",
			file: File{Nodes: []NodeSpec{{ID: "a", Marker: "sometimes"}}},
		},
		{
			name: "DuplicateNode",
			file: File{Nodes: []NodeSpec{{ID: "a"}, {ID: "a"}}},
		},
		{
			name: "ZeroDirectionID",
			file: File{Nodes: []NodeSpec{{ID: "a", Directions: []DirSpec{{ID: 0, Angle: 0}}}}},
		},
		{
			name: "PitchOutOfRange",
			file: File{Nodes: []NodeSpec{{ID: "a", Directions: []DirSpec{{ID: 1, Angle: 0, Pitch: 75}}}}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ToGraph(tt.file, nil); err == nil {
				t.Error("ToGraph succeeded, want error")
			}
		})
	}
}

func TestFileCodecByExtension(t *testing.T) {
	g := sampleGraph(t)
	dir := t.TempDir()

	for _, name := range []string{"graph.json", "graph.yaml"} {
		path := filepath.Join(dir, name)
		if err := WriteFile(g, path); err != nil {
			t.Fatalf("WriteFile(%s): %v", name, err)
		}
		got, err := ReadFile(path)
		if err != nil {
			t.Fatalf("ReadFile(%s): %v", name, err)
		}
		assertSameGraph(t, got, g)
	}
}

func TestReadFileMissing(t *testing.T) {
	if _, err := ReadFile(filepath.Join(t.TempDir(), "nope.json")); err == nil {
		t.Error("ReadFile on missing path succeeded")
	}
}
