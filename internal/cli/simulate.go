package cli

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/matzehuels/nodenav/pkg/nav"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// simulateCommand creates the simulate command for interactive graph walks.
func (c *CLI) simulateCommand() *cobra.Command {
	var (
		actorID int
		watch   bool
	)

	cmd := &cobra.Command{
		Use:   "simulate [graph file]",
		Short: "Walk a navigation graph interactively",
		Long: `Walk a navigation graph interactively.

Arrow keys turn and step an actor through the graph exactly as the
navigation controller would move a character: stepping claims the target
node, turning walks the node's direction ring within its turn arc, and
blocked hops stay put.

With --watch the graph file is hot-reloaded on save and the actor is
re-placed on its node (or the first node if it disappeared).`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runSimulate(cmd.Context(), args[0], nav.ActorID(actorID), watch)
		},
	}

	cmd.Flags().IntVar(&actorID, "actor", 1, "actor ID to walk with")
	cmd.Flags().BoolVar(&watch, "watch", false, "hot-reload the graph file on change")

	return cmd
}

func (c *CLI) runSimulate(ctx context.Context, path string, actorID nav.ActorID, watch bool) error {
	if actorID <= 0 {
		return fmt.Errorf("actor ID must be positive, got %d", actorID)
	}

	m, err := c.newSimModel(path, actorID)
	if err != nil {
		return err
	}

	p := tea.NewProgram(m, tea.WithContext(ctx))

	if watch {
		err := watchFile(withLogger(ctx, c.Logger), path, func() {
			p.Send(simReloadMsg{})
		})
		if err != nil {
			return err
		}
	}

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("simulate: %w", err)
	}
	return nil
}

// =============================================================================
// simMover - instant mover for the simulated actor
// =============================================================================

// simMover satisfies the controller's movement interface with instant
// position updates; the TUI has no animation to drive.
type simMover struct {
	pos     nav.Vec3
	forward nav.Vec3
}

func (m *simMover) Teleport(pos nav.Vec3) { m.pos = pos }
func (m *simMover) SetLookDirection(dir nav.Vec3, instant bool) {
	m.forward = dir
}
func (m *simMover) SetPathTarget(h nav.PathHandle, waypoints []nav.Vec3) {
	if len(waypoints) > 0 {
		m.pos = waypoints[len(waypoints)-1]
	}
}
func (m *simMover) Position() nav.Vec3     { return m.pos }
func (m *simMover) Forward() nav.Vec3      { return m.forward }
func (m *simMover) IsTraversingPath() bool { return false }
func (m *simMover) IsTurning() bool        { return false }

// =============================================================================
// simModel - bubbletea model
// =============================================================================

// simReloadMsg asks the model to re-read the graph file.
type simReloadMsg struct{}

type simModel struct {
	cli     *CLI
	path    string
	actorID nav.ActorID

	g      *nav.Graph
	ctrl   *nav.Controller
	mover  *simMover
	status string
}

func (c *CLI) newSimModel(path string, actorID nav.ActorID) (*simModel, error) {
	m := &simModel{cli: c, path: path, actorID: actorID}
	if err := m.reload(""); err != nil {
		return nil, err
	}
	return m, nil
}

// reload re-reads the graph file and places the actor on keepNode when it
// still exists, otherwise on the first node.
func (m *simModel) reload(keepNode string) error {
	g, err := m.cli.loadGraph(m.path)
	if err != nil {
		return err
	}
	nodes := g.Nodes()
	if len(nodes) == 0 {
		return fmt.Errorf("graph %s has no nodes", m.path)
	}

	start := nodes[0].ID
	if keepNode != "" {
		if _, ok := g.Node(keepNode); ok {
			start = keepNode
		}
	}

	mover := &simMover{forward: nav.Vec3{Z: 1}}
	g.RegisterActor(&nav.Actor{
		ID:    m.actorID,
		Role:  nav.RolePlayer,
		Name:  "sim",
		Mover: mover,
	})
	if err := g.Occupy(start, m.actorID); err != nil {
		return fmt.Errorf("place actor on %s: %w", start, err)
	}
	if n, ok := g.Node(start); ok {
		mover.Teleport(n.Pos)
		if d := n.FacingDirection(); d != nil {
			mover.SetLookDirection(d.Forward(), true)
		}
	}

	m.g = g
	m.ctrl = nav.NewController(g, nil, m.cli.Logger)
	m.mover = mover
	return nil
}

func (m *simModel) node() *nav.Node {
	id := m.g.NodeOf(m.actorID)
	n, _ := m.g.Node(id)
	return n
}

func (m *simModel) Init() tea.Cmd {
	return nil
}

func (m *simModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case simReloadMsg:
		keep := m.g.NodeOf(m.actorID)
		if err := m.reload(keep); err != nil {
			m.status = "reload failed: " + err.Error()
		} else {
			m.status = "graph reloaded"
		}

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "right", "l":
			m.turn(true)
		case "left", "h":
			m.turn(false)
		case "up", "k":
			m.step(false)
		case "down", "j":
			m.step(true)
		}
	}
	return m, nil
}

func (m *simModel) turn(right bool) {
	n := m.node()
	if n == nil {
		return
	}
	var ok bool
	if right {
		ok = n.TurnRight()
	} else {
		ok = n.TurnLeft()
	}
	if !ok {
		m.status = "no direction within the turn arc"
		return
	}
	if d := n.FacingDirection(); d != nil {
		m.mover.SetLookDirection(d.Forward(), false)
		m.status = fmt.Sprintf("facing %.0f°", d.Angle)
	}
}

func (m *simModel) step(backward bool) {
	n := m.node()
	if n == nil {
		return
	}

	d := n.FacingDirection()
	if backward {
		id, ok := n.BackwardDirection()
		if !ok {
			m.status = "nothing behind"
			return
		}
		d = n.Direction(id)
	}
	if d == nil || d.Link == "" {
		m.status = "dead end"
		return
	}

	st, err := m.ctrl.MoveTo(nav.MoveRequest{
		Actor:   m.actorID,
		Target:  d.Link,
		Instant: true,
	})
	switch {
	case err != nil:
		m.status = "blocked: " + err.Error()
	case st == nav.StateArrived:
		m.status = "stepped to " + d.Link
	default:
		m.status = "move ended in " + st.String()
	}
}

func (m *simModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Simulate"))
	b.WriteString("  ")
	b.WriteString(StyleDim.Render(m.path))
	b.WriteString("\n")
	b.WriteString(StyleDim.Render("←/→ turn  ↑ step  ↓ step back  q quit"))
	b.WriteString("\n\n")

	n := m.node()
	if n == nil {
		b.WriteString(StyleWarning.Render("actor is not on any node"))
		b.WriteString("\n")
		return b.String()
	}

	b.WriteString(listNormalStyle.Render("node    ") + StyleHighlight.Render(n.DisplayLabel()))
	b.WriteString("\n")
	b.WriteString(listNormalStyle.Render("pos     ") + StyleValue.Render(
		fmt.Sprintf("(%.1f, %.1f, %.1f)", n.Pos.X, n.Pos.Y, n.Pos.Z)))
	b.WriteString("\n")

	if d := n.FacingDirection(); d != nil {
		target := d.Link
		if target == "" {
			target = "dead end"
		}
		state := ""
		if !d.Enabled {
			state = "  " + StyleWarning.Render("disabled")
		}
		b.WriteString(listNormalStyle.Render("facing  ") + StyleValue.Render(
			fmt.Sprintf("%.0f° %s %s", d.Angle, iconArrow, target)) + state)
		b.WriteString("\n")
	}

	b.WriteString("\n")
	for _, d := range n.Directions() {
		marker := "  "
		if fd := n.FacingDirection(); fd != nil && fd.ID == d.ID {
			marker = listSelectedStyle.Render("▸ ")
		}
		line := fmt.Sprintf("%3.0f°  %s", d.Angle, d.Link)
		style := listNormalStyle
		if !d.Enabled {
			style = listDimStyle
		} else if d.Link != "" && m.g.IsOccupied(d.Link) {
			line += "  (occupied)"
		}
		b.WriteString(marker + style.Render(line))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	if m.status != "" {
		b.WriteString(StyleDim.Render(m.status))
		b.WriteString("\n")
	}
	return b.String()
}
