// Package state persists and restores the runtime footprint of a
// navigation graph: per-direction enabled flags and per-node occupancy.
//
// Everything else about a graph (positions, links, angles) is authored
// data and never saved here. The snapshot is a flat string blob with one
// record per node:
//
//	<nodeID>|<dirID>:<0|1>;<dirID>:<0|1>;...|<player 0|1>|<actorID>
//
// Records are newline-separated and sorted by node ID so saving is
// deterministic. An actor ID of 0 means unoccupied; the player flag wins
// over the actor ID when both are set.
//
// Loading is forward-compatible and lossy-tolerant: records for unknown
// nodes, pairs for unknown direction IDs, and occupant IDs that no longer
// resolve are skipped with a warning while the rest of the snapshot loads.
// The package never fails a restore - it degrades to a safe unoccupied
// state instead.
//
// Blobs are moved between processes through a [Store]; see the memory,
// file, Redis, and Mongo implementations.
package state

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/matzehuels/nodenav/pkg/nav"
	"github.com/matzehuels/nodenav/pkg/observability"
)

const (
	fieldSep = "|"
	pairSep  = ";"
	kvSep    = ":"
)

// LoadReport summarizes a restore: how many node records applied and how
// many records or pairs were skipped as unresolvable.
type LoadReport struct {
	Nodes   int // node records applied
	Skipped int // records and direction pairs dropped
}

// Save serializes the graph's runtime state to the snapshot blob.
// Node records are sorted by ID for deterministic output.
func Save(g *nav.Graph) []byte {
	nodes := g.Nodes()
	slices.SortFunc(nodes, func(a, b *nav.Node) int { return strings.Compare(a.ID, b.ID) })

	var sb strings.Builder
	for i, n := range nodes {
		if i > 0 {
			sb.WriteByte('\n')
		}
		writeRecord(&sb, g, n)
	}
	blob := []byte(sb.String())
	observability.State().OnSave(len(nodes), len(blob))
	return blob
}

func writeRecord(sb *strings.Builder, g *nav.Graph, n *nav.Node) {
	sb.WriteString(n.ID)
	sb.WriteString(fieldSep)
	for i, d := range n.Directions() {
		if i > 0 {
			sb.WriteString(pairSep)
		}
		flag := "0"
		if d.Enabled {
			flag = "1"
		}
		sb.WriteString(strconv.Itoa(d.ID))
		sb.WriteString(kvSep)
		sb.WriteString(flag)
	}
	sb.WriteString(fieldSep)

	occupant := n.Occupant()
	player := g.Player()
	if player != nil && occupant == player.ID {
		sb.WriteString("1" + fieldSep + "0")
		return
	}
	sb.WriteString("0" + fieldSep + strconv.Itoa(int(occupant)))
}

// Load restores a snapshot blob into the graph. The cached player-node
// pointer is invalidated before any node is touched. Loading an occupied
// node re-snaps the resolved actor onto it - teleporting the actor to the
// node position and recomputing its look direction - rather than leaving
// the actor wherever it was.
//
// Load never fails; unresolvable entries are counted in the report and
// logged as warnings.
func Load(g *nav.Graph, data []byte) LoadReport {
	observability.State().OnBeforeLoad()
	g.InvalidatePlayerNode()

	var report LoadReport
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if applyRecord(g, line) {
			report.Nodes++
		} else {
			report.Skipped++
		}
	}
	observability.State().OnLoad(report.Nodes, report.Skipped)
	return report
}

// applyRecord parses and applies one node record. Returns false when the
// record as a whole could not be applied; pair-level skips still count the
// record as applied.
func applyRecord(g *nav.Graph, line string) bool {
	fields := strings.Split(line, fieldSep)
	if len(fields) != 4 {
		g.Logger().Warn("snapshot: malformed record skipped", "record", line)
		return false
	}
	nodeID, pairs, playerField, actorField := fields[0], fields[1], fields[2], fields[3]

	n, ok := g.Node(nodeID)
	if !ok {
		g.Logger().Warn("snapshot: unknown node skipped", "node", nodeID)
		return false
	}

	applyPairs(g, n, pairs)
	applyOccupant(g, n, playerField, actorField)
	return true
}

func applyPairs(g *nav.Graph, n *nav.Node, pairs string) {
	if pairs == "" {
		return
	}
	for _, pair := range strings.Split(pairs, pairSep) {
		id, flag, ok := strings.Cut(pair, kvSep)
		if !ok {
			g.Logger().Warn("snapshot: malformed pair skipped", "node", n.ID, "pair", pair)
			continue
		}
		dirID, err := strconv.Atoi(id)
		if err != nil {
			g.Logger().Warn("snapshot: malformed pair skipped", "node", n.ID, "pair", pair)
			continue
		}
		if err := n.SetDirectionEnabled(dirID, flag == "1"); err != nil {
			// Direction no longer exists on the authored graph.
			g.Logger().Warn("snapshot: stale direction skipped", "node", n.ID, "direction", dirID)
		}
	}
}

// applyOccupant resolves the persisted occupant and re-snaps the actor.
// Dangling actor IDs leave the node unoccupied.
func applyOccupant(g *nav.Graph, n *nav.Node, playerField, actorField string) {
	var actor *nav.Actor
	switch {
	case playerField == "1":
		actor = g.Player()
		if actor == nil {
			g.Logger().Warn("snapshot: no player registered, node left unoccupied", "node", n.ID)
		}
	default:
		id, err := strconv.Atoi(actorField)
		if err != nil {
			g.Logger().Warn("snapshot: malformed occupant skipped", "node", n.ID, "occupant", actorField)
		} else if id != 0 {
			a, ok := g.Actor(nav.ActorID(id))
			if !ok {
				g.Logger().Warn("snapshot: dangling occupant, node left unoccupied", "node", n.ID, "actor", id)
			} else {
				actor = a
			}
		}
	}

	if actor == nil {
		g.Unoccupy(n.ID, nav.None)
		return
	}
	if err := g.Occupy(n.ID, actor.ID); err != nil {
		g.Logger().Warn("snapshot: occupy failed", "node", n.ID, "actor", actor.ID, "err", err)
		return
	}
	snapActor(actor, n)
}

// snapActor repositions the restored occupant onto its node.
func snapActor(actor *nav.Actor, n *nav.Node) {
	if actor.Mover == nil {
		return
	}
	actor.Mover.Teleport(n.Pos)
	if d := n.FacingDirection(); d != nil {
		actor.Mover.SetLookDirection(d.Forward(), true)
	}
}

// Key builds the store key for a named save slot.
// Slot names are free-form; the CLI uses "default" when none is given.
func Key(slot string) string {
	return fmt.Sprintf("nodenav:state:%s", slot)
}
