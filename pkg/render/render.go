// Package render exports navigation graphs as diagrams.
//
// [ToDOT] converts a graph to Graphviz DOT; [RenderSVG] lays it out with
// Graphviz and [RenderPNG] rasterizes the SVG with the external
// rsvg-convert tool. Occupied nodes are filled, disabled directions drawn
// dashed, so a render of a live graph doubles as an occupancy snapshot.
package render

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/nodenav/pkg/nav"
)

// Options configures graph rendering.
type Options struct {
	// Detailed includes position, marker policy, and per-direction angles
	// in the output. When false, nodes show only their display label.
	Detailed bool
}

// ToDOT converts a navigation graph to Graphviz DOT format.
// Nodes are emitted sorted by ID so output is deterministic. The resulting
// DOT string can be rendered with [RenderSVG] or [RenderPNG].
func ToDOT(g *nav.Graph, opts Options) string {
	nodes := g.Nodes()
	slices.SortFunc(nodes, func(a, b *nav.Node) int { return strings.Compare(a.ID, b.ID) })

	var buf bytes.Buffer
	buf.WriteString("digraph nav {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=14, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  ranksep=0.5;\n")
	buf.WriteString("  nodesep=0.3;\n")
	buf.WriteString("\n")

	for _, n := range nodes {
		attrs := nodeAttrs(n, opts.Detailed)
		fmt.Fprintf(&buf, "  %q [%s];\n", n.ID, strings.Join(attrs, ", "))
	}

	buf.WriteString("\n")
	for _, n := range nodes {
		for _, d := range n.Directions() {
			if d.Link == "" {
				continue
			}
			fmt.Fprintf(&buf, "  %q -> %q [%s];\n", n.ID, d.Link, strings.Join(edgeAttrs(d, opts.Detailed), ", "))
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

func nodeAttrs(n *nav.Node, detailed bool) []string {
	attrs := []string{fmt.Sprintf("label=%q", nodeLabel(n, detailed))}
	if n.Occupant() != nav.None {
		attrs = append(attrs, "fillcolor=lightcoral")
	}
	if n.Marker == nav.MarkerNever {
		attrs = append(attrs, "color=grey", "fontcolor=grey")
	}
	return attrs
}

func nodeLabel(n *nav.Node, detailed bool) string {
	if !detailed {
		return n.DisplayLabel()
	}
	parts := []string{
		n.DisplayLabel(),
		fmt.Sprintf("pos: %.1f, %.1f, %.1f", n.Pos.X, n.Pos.Y, n.Pos.Z),
		"marker: " + n.Marker.String(),
	}
	if occ := n.Occupant(); occ != nav.None {
		parts = append(parts, fmt.Sprintf("occupant: %d", occ))
	}
	return strings.Join(parts, "\n")
}

func edgeAttrs(d *nav.Direction, detailed bool) []string {
	var attrs []string
	if !d.Enabled {
		attrs = append(attrs, "style=dashed", "color=grey")
	}
	if detailed {
		attrs = append(attrs, fmt.Sprintf("label=\"%d @ %.0f°\"", d.ID, d.Angle))
	}
	if len(attrs) == 0 {
		attrs = append(attrs, "color=black")
	}
	return attrs
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(dot string) ([]byte, error) {
	ctx := context.Background()
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox rewrites the SVG root element so the viewBox starts at
// the origin, which keeps downstream rasterizers from clipping.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	newSvg := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)

	return svgTagRe.ReplaceAll(svg, []byte(newSvg))
}

// RenderPNG renders a DOT graph as PNG via SVG conversion.
// A scale of 2.0 produces a 2x resolution image suitable for high-DPI
// displays.
//
// Requires librsvg: brew install librsvg (macOS), apt install librsvg2-bin (Linux).
func RenderPNG(dot string, scale float64) ([]byte, error) {
	svg, err := RenderSVG(dot)
	if err != nil {
		return nil, err
	}
	return toPNG(svg, scale)
}
