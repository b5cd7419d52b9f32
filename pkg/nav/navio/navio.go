// Package navio reads and writes authored navigation graphs.
//
// The authored format is the static half of a graph - node positions,
// directions, angles, links - as opposed to the runtime snapshot handled
// by the state package. Both JSON and YAML encodings are supported; file
// helpers pick the codec from the extension.
//
// The format round-trips: read → edit → write → re-read produces an
// identical graph. Nodes are sorted by ID on write for deterministic
// output.
package navio

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/charmbracelet/log"
	"gopkg.in/yaml.v3"

	"github.com/matzehuels/nodenav/pkg/nav"
)

// File is the authored-graph document.
type File struct {
	Nodes []NodeSpec `json:"nodes" yaml:"nodes"`
}

// NodeSpec is one authored node.
type NodeSpec struct {
	ID         string    `json:"id" yaml:"id"`
	Label      string    `json:"label,omitempty" yaml:"label,omitempty"`
	Pos        nav.Vec3  `json:"position" yaml:"position"`
	Cycle      bool      `json:"cycle,omitempty" yaml:"cycle,omitempty"`
	Spawn      string    `json:"spawn,omitempty" yaml:"spawn,omitempty"`
	Marker     string    `json:"marker,omitempty" yaml:"marker,omitempty"` // always (default), immediate, never
	Directions []DirSpec `json:"directions,omitempty" yaml:"directions,omitempty"`
}

// DirSpec is one authored direction. Enabled defaults to true when
// omitted, so authored files only spell out the exceptions.
type DirSpec struct {
	ID      int     `json:"id" yaml:"id"`
	Angle   float64 `json:"angle" yaml:"angle"`
	Pitch   float64 `json:"pitch,omitempty" yaml:"pitch,omitempty"`
	Link    string  `json:"link,omitempty" yaml:"link,omitempty"`
	Enabled *bool   `json:"enabled,omitempty" yaml:"enabled,omitempty"`
}

// FromGraph converts a graph to its authored document.
// Nodes are sorted by ID for deterministic output.
func FromGraph(g *nav.Graph) File {
	nodes := g.Nodes()
	slices.SortFunc(nodes, func(a, b *nav.Node) int { return strings.Compare(a.ID, b.ID) })

	f := File{Nodes: make([]NodeSpec, len(nodes))}
	for i, n := range nodes {
		spec := NodeSpec{
			ID:    n.ID,
			Label: n.Label,
			Pos:   n.Pos,
			Cycle: n.Cycle,
			Spawn: n.Spawn,
		}
		if n.Marker != nav.MarkerAlways {
			spec.Marker = n.Marker.String()
		}
		for _, d := range n.Directions() {
			ds := DirSpec{ID: d.ID, Angle: d.Angle, Pitch: d.Pitch, Link: d.Link}
			if !d.Enabled {
				enabled := false
				ds.Enabled = &enabled
			}
			spec.Directions = append(spec.Directions, ds)
		}
		f.Nodes[i] = spec
	}
	return f
}

// ToGraph builds a registered graph from an authored document. A nil
// logger falls back to log.Default(). Returns an error for structural
// problems (duplicate IDs, bad marker names, out-of-range pitch) but does
// not require link targets to exist; call [nav.Graph.Validate] for that.
func ToGraph(f File, logger *log.Logger) (*nav.Graph, error) {
	g := nav.NewGraph(logger)
	for _, spec := range f.Nodes {
		marker, err := ParseMarker(spec.Marker)
		if err != nil {
			return nil, fmt.Errorf("node %s: %w", spec.ID, err)
		}
		n := &nav.Node{
			ID:     spec.ID,
			Label:  spec.Label,
			Pos:    spec.Pos,
			Cycle:  spec.Cycle,
			Spawn:  spec.Spawn,
			Marker: marker,
		}
		for _, ds := range spec.Directions {
			d := nav.Direction{
				ID:      ds.ID,
				Angle:   ds.Angle,
				Pitch:   ds.Pitch,
				Link:    ds.Link,
				Enabled: ds.Enabled == nil || *ds.Enabled,
			}
			if err := n.AddDirection(d); err != nil {
				return nil, err
			}
		}
		if err := g.Register(n); err != nil {
			return nil, err
		}
	}
	return g, nil
}

// ParseMarker maps an authored marker name to its policy.
// The empty string means MarkerAlways.
func ParseMarker(s string) (nav.MarkerPolicy, error) {
	switch s {
	case "", "always":
		return nav.MarkerAlways, nil
	case "immediate":
		return nav.MarkerOnlyImmediate, nil
	case "never":
		return nav.MarkerNever, nil
	default:
		return 0, fmt.Errorf("unknown marker policy %q", s)
	}
}

// =============================================================================
// Codec API
// =============================================================================

// WriteJSON encodes the graph as indented JSON to w.
func WriteJSON(g *nav.Graph, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(FromGraph(g)); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// ReadJSON decodes a JSON authored graph from r.
func ReadJSON(r io.Reader) (*nav.Graph, error) {
	var f File
	if err := json.NewDecoder(r).Decode(&f); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	return ToGraph(f, nil)
}

// WriteYAML encodes the graph as YAML to w.
func WriteYAML(g *nav.Graph, w io.Writer) error {
	enc := yaml.NewEncoder(w)
	defer enc.Close()
	if err := enc.Encode(FromGraph(g)); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// ReadYAML decodes a YAML authored graph from r.
func ReadYAML(r io.Reader) (*nav.Graph, error) {
	var f File
	if err := yaml.NewDecoder(r).Decode(&f); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	return ToGraph(f, nil)
}

// ReadFile reads an authored graph, choosing the codec by extension:
// .yaml/.yml for YAML, anything else for JSON.
func ReadFile(path string) (*nav.Graph, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	if isYAML(path) {
		return ReadYAML(f)
	}
	return ReadJSON(f)
}

// WriteFile writes an authored graph, choosing the codec by extension.
// The file is created with 0644 permissions.
func WriteFile(g *nav.Graph, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	if isYAML(path) {
		return WriteYAML(g, f)
	}
	return WriteJSON(g, f)
}

func isYAML(path string) bool {
	switch filepath.Ext(path) {
	case ".yaml", ".yml":
		return true
	}
	return false
}
