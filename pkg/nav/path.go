package nav

import (
	"container/heap"
	"errors"
	"slices"
)

// ErrUnreachable is returned by [Controller.MoveTo] when no usable path
// exists even after the fallback search.
var ErrUnreachable = errors.New("target unreachable")

// Path is an ordered node sequence produced by [Graph.ShortestPath].
type Path []*Node

// Reached reports whether the path actually arrives at the requested end
// node. A degenerate result contains only the start node: length 1 with a
// single element that is not the requested end means "unreachable".
func (p Path) Reached(end string) bool {
	return len(p) > 0 && p[len(p)-1].ID == end
}

// Cost returns the total Euclidean length of the path.
func (p Path) Cost() float64 {
	var cost float64
	for i := 1; i < len(p); i++ {
		cost += Dist(p[i-1].Pos, p[i].Pos)
	}
	return cost
}

// IDs returns the node IDs along the path, in order.
func (p Path) IDs() []string {
	ids := make([]string, len(p))
	for i, n := range p {
		ids[i] = n.ID
	}
	return ids
}

// Waypoints returns the positions of every node after the first. This is
// the list handed to a [Mover] - the actor already stands on the first
// node, so it is excluded.
func (p Path) Waypoints() []Vec3 {
	if len(p) < 2 {
		return nil
	}
	wps := make([]Vec3, len(p)-1)
	for i, n := range p[1:] {
		wps[i] = n.Pos
	}
	return wps
}

// ShortestPath computes the minimum-cost node sequence from start to end
// using Dijkstra's algorithm with Euclidean edge weights.
//
// In the default mode an edge is usable only if its direction is enabled
// and its target node is unoccupied. With allowDisabledFallback the
// distance table is built ignoring both restrictions, and the recovered
// path is then walked pairwise and truncated at the first hop whose edge
// is disabled or whose target is occupied - yielding the reachable enabled
// prefix toward the blocked target. The truncated result is not re-planned
// under the constrained semantics, so it may not be the cheapest
// constrained route; this matches the long-standing behavior callers
// depend on.
//
// If start == end the single-element path [start] is returned with zero
// cost. If no path exists the result is [start] as well; use
// [Path.Reached] to tell the two apart. Ties between equal-distance
// frontier nodes break deterministically toward the lower node ID.
func (g *Graph) ShortestPath(start, end string, allowDisabledFallback bool) (Path, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	s, ok := g.nodes[start]
	if !ok {
		return nil, ErrUnknownNode
	}
	if _, ok := g.nodes[end]; !ok {
		return nil, ErrUnknownNode
	}
	if start == end {
		return Path{s}, nil
	}

	prev := g.dijkstraLocked(start, end, !allowDisabledFallback)
	raw := recoverPath(prev, start, end)
	if raw == nil {
		return Path{s}, nil
	}

	path := make(Path, len(raw))
	for i, id := range raw {
		path[i] = g.nodes[id]
	}
	if allowDisabledFallback {
		path = g.truncateBlockedLocked(path)
	}
	return path, nil
}

// dijkstraLocked runs the search and returns the predecessor map.
// With constrained set, disabled directions and occupied targets are not
// relaxed.
func (g *Graph) dijkstraLocked(start, end string, constrained bool) map[string]string {
	dist := map[string]float64{start: 0}
	prev := make(map[string]string)
	visited := make(map[string]bool)

	pq := &frontier{{id: start, dist: 0}}
	heap.Init(pq)

	for pq.Len() > 0 {
		cur := heap.Pop(pq).(frontierItem)
		if visited[cur.id] {
			continue
		}
		visited[cur.id] = true
		if cur.id == end {
			break
		}
		node := g.nodes[cur.id]
		for _, d := range node.dirs {
			if d.Link == "" {
				continue
			}
			target, ok := g.nodes[d.Link]
			if !ok {
				continue
			}
			if constrained && (!d.Enabled || target.occupant != None) {
				continue
			}
			alt := cur.dist + Dist(node.Pos, target.Pos)
			if old, seen := dist[d.Link]; !seen || alt < old {
				dist[d.Link] = alt
				prev[d.Link] = cur.id
				heap.Push(pq, frontierItem{id: d.Link, dist: alt})
			}
		}
	}
	return prev
}

// recoverPath rebuilds the node ID sequence from the predecessor map.
// Returns nil when end was never reached.
func recoverPath(prev map[string]string, start, end string) []string {
	if _, ok := prev[end]; !ok {
		return nil
	}
	ids := []string{end}
	for cur := end; cur != start; {
		cur = prev[cur]
		ids = append(ids, cur)
	}
	slices.Reverse(ids)
	return ids
}

// truncateBlockedLocked walks the path pairwise and cuts it at the first
// hop that has no enabled direction to an unoccupied target.
func (g *Graph) truncateBlockedLocked(path Path) Path {
	for i := 1; i < len(path); i++ {
		if !g.hopOpenLocked(path[i-1], path[i]) {
			return path[:i]
		}
	}
	return path
}

// hopOpenLocked reports whether from has an enabled direction linking to
// an unoccupied to.
func (g *Graph) hopOpenLocked(from, to *Node) bool {
	if to.occupant != None {
		return false
	}
	return from.enabledLinkTo(to.ID)
}

// =============================================================================
// Priority frontier
// =============================================================================

type frontierItem struct {
	id   string
	dist float64
}

// frontier is a min-heap ordered by distance, breaking ties on node ID so
// equal-cost searches are deterministic.
type frontier []frontierItem

func (f frontier) Len() int { return len(f) }

func (f frontier) Less(i, j int) bool {
	if f[i].dist != f[j].dist {
		return f[i].dist < f[j].dist
	}
	return f[i].id < f[j].id
}

func (f frontier) Swap(i, j int) { f[i], f[j] = f[j], f[i] }

func (f *frontier) Push(x any) { *f = append(*f, x.(frontierItem)) }

func (f *frontier) Pop() any {
	old := *f
	n := len(old)
	item := old[n-1]
	*f = old[:n-1]
	return item
}
