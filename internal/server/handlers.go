package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	apperrors "github.com/matzehuels/nodenav/pkg/errors"
	"github.com/matzehuels/nodenav/pkg/nav"
	"github.com/matzehuels/nodenav/pkg/state"
)

// serverMover is an instant mover for server-registered actors. The debug
// server has no simulation loop, so traversals settle in the same request
// that starts them.
type serverMover struct {
	pos     nav.Vec3
	forward nav.Vec3
	handle  nav.PathHandle
	moving  bool
}

func (m *serverMover) Teleport(pos nav.Vec3) { m.pos = pos }
func (m *serverMover) SetLookDirection(dir nav.Vec3, instant bool) {
	m.forward = dir
}
func (m *serverMover) SetPathTarget(h nav.PathHandle, waypoints []nav.Vec3) {
	m.handle = h
	m.moving = true
	if len(waypoints) > 0 {
		m.pos = waypoints[len(waypoints)-1]
	}
}
func (m *serverMover) Position() nav.Vec3     { return m.pos }
func (m *serverMover) Forward() nav.Vec3      { return m.forward }
func (m *serverMover) IsTraversingPath() bool { return m.moving }
func (m *serverMover) IsTurning() bool        { return false }

// =============================================================================
// JSON shapes
// =============================================================================

type vecJSON struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

type directionJSON struct {
	ID      int     `json:"id"`
	Angle   float64 `json:"angle"`
	Pitch   float64 `json:"pitch,omitempty"`
	Link    string  `json:"link,omitempty"`
	Enabled bool    `json:"enabled"`
}

type nodeJSON struct {
	ID         string          `json:"id"`
	Label      string          `json:"label,omitempty"`
	Pos        vecJSON         `json:"pos"`
	Cycle      bool            `json:"cycle,omitempty"`
	Marker     string          `json:"marker"`
	Visible    bool            `json:"marker_visible"`
	Occupant   int             `json:"occupant,omitempty"`
	Directions []directionJSON `json:"directions,omitempty"`
}

type graphResponse struct {
	Nodes []nodeJSON `json:"nodes"`
}

type routeResponse struct {
	IDs     []string `json:"ids"`
	Cost    float64  `json:"cost"`
	Reached bool     `json:"reached"`
}

type registerActorRequest struct {
	ID   int    `json:"id"`
	Role string `json:"role"` // "player" or "npc"
	Name string `json:"name,omitempty"`
	Node string `json:"node"`
}

type moveServerRequest struct {
	Actor       int    `json:"actor"`
	Target      string `json:"target"`
	Instant     bool   `json:"instant,omitempty"`
	IgnoreGraph bool   `json:"ignore_graph,omitempty"`
	FirstOnly   bool   `json:"first_only,omitempty"`
	Face        int    `json:"face,omitempty"`
}

type moveResponse struct {
	State string `json:"state"`
	Node  string `json:"node"`
}

// =============================================================================
// Handlers
// =============================================================================

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	nodes := s.g.NodeCount()
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, map[string]any{"status": "ok", "nodes": nodes})
}

func (s *Server) handleGraph(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	resp := graphResponse{Nodes: make([]nodeJSON, 0, s.g.NodeCount())}
	for _, n := range s.g.Nodes() {
		nj := nodeJSON{
			ID:       n.ID,
			Label:    n.Label,
			Pos:      vecJSON{X: n.Pos.X, Y: n.Pos.Y, Z: n.Pos.Z},
			Cycle:    n.Cycle,
			Marker:   n.Marker.String(),
			Visible:  n.MarkerVisible(),
			Occupant: int(n.Occupant()),
		}
		for _, d := range n.Directions() {
			nj.Directions = append(nj.Directions, directionJSON{
				ID:      d.ID,
				Angle:   d.Angle,
				Pitch:   d.Pitch,
				Link:    d.Link,
				Enabled: d.Enabled,
			})
		}
		resp.Nodes = append(resp.Nodes, nj)
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleRoute(w http.ResponseWriter, r *http.Request) {
	from := r.URL.Query().Get("from")
	to := r.URL.Query().Get("to")
	if from == "" || to == "" {
		writeError(w, http.StatusBadRequest, "from and to are required")
		return
	}
	if err := apperrors.ValidateNodeID(from); err != nil {
		writeAppError(w, http.StatusBadRequest, err)
		return
	}
	if err := apperrors.ValidateNodeID(to); err != nil {
		writeAppError(w, http.StatusBadRequest, err)
		return
	}
	fallback, _ := strconv.ParseBool(r.URL.Query().Get("fallback"))

	s.mu.Lock()
	p, err := s.g.ShortestPath(from, to, fallback)
	s.mu.Unlock()
	if err != nil {
		writeNavError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, routeResponse{
		IDs:     p.IDs(),
		Cost:    p.Cost(),
		Reached: p.Reached(to),
	})
}

func (s *Server) handleRegisterActor(w http.ResponseWriter, r *http.Request) {
	var req registerActorRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid request body: %v", err))
		return
	}
	if req.ID <= 0 {
		writeError(w, http.StatusBadRequest, "actor id must be positive")
		return
	}
	role := nav.RoleNPC
	switch req.Role {
	case "", "npc":
	case "player":
		role = nav.RolePlayer
	default:
		writeError(w, http.StatusBadRequest, fmt.Sprintf("unknown role %q", req.Role))
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	mover := &serverMover{forward: nav.Vec3{Z: 1}}
	s.g.RegisterActor(&nav.Actor{
		ID:    nav.ActorID(req.ID),
		Role:  role,
		Name:  req.Name,
		Mover: mover,
	})
	if req.Node != "" {
		if err := s.g.Occupy(req.Node, nav.ActorID(req.ID)); err != nil {
			s.g.UnregisterActor(nav.ActorID(req.ID))
			writeNavError(w, err)
			return
		}
		if n, ok := s.g.Node(req.Node); ok {
			mover.Teleport(n.Pos)
		}
	}

	writeJSON(w, http.StatusCreated, map[string]any{"id": req.ID, "node": req.Node})
}

func (s *Server) handleMove(w http.ResponseWriter, r *http.Request) {
	var req moveServerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid request body: %v", err))
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	actorID := nav.ActorID(req.Actor)
	st, err := s.ctrl.MoveTo(nav.MoveRequest{
		Actor:       actorID,
		Target:      req.Target,
		Instant:     req.Instant,
		IgnoreGraph: req.IgnoreGraph,
		FirstOnly:   req.FirstOnly,
		Face:        req.Face,
	})
	if err != nil {
		writeNavError(w, err)
		return
	}

	// No simulation loop: an animated traversal settles right away.
	if st == nav.StateTraversing {
		if a, ok := s.g.Actor(actorID); ok {
			if m, ok := a.Mover.(*serverMover); ok && m.moving {
				m.moving = false
				s.ctrl.OnPathFinished(actorID, m.handle)
				st = nav.StateArrived
			}
		}
	}

	writeJSON(w, http.StatusOK, moveResponse{
		State: st.String(),
		Node:  s.g.NodeOf(actorID),
	})
}

func (s *Server) handleStateGet(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	blob := state.Save(s.g)
	s.mu.Unlock()

	if slot := r.URL.Query().Get("slot"); slot != "" && s.cfg.Store != nil {
		if err := apperrors.ValidateSlotName(slot); err != nil {
			writeAppError(w, http.StatusBadRequest, err)
			return
		}
		if err := s.cfg.Store.Save(r.Context(), state.Key(slot), blob); err != nil {
			writeError(w, http.StatusInternalServerError, fmt.Sprintf("save slot: %v", err))
			return
		}
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write(blob)
}

func (s *Server) handleStatePut(w http.ResponseWriter, r *http.Request) {
	var blob []byte
	if slot := r.URL.Query().Get("slot"); slot != "" {
		if s.cfg.Store == nil {
			writeError(w, http.StatusBadRequest, "no snapshot store configured")
			return
		}
		if err := apperrors.ValidateSlotName(slot); err != nil {
			writeAppError(w, http.StatusBadRequest, err)
			return
		}
		var err error
		blob, err = s.cfg.Store.Load(r.Context(), state.Key(slot))
		if errors.Is(err, state.ErrNotFound) {
			writeError(w, http.StatusNotFound, fmt.Sprintf("no snapshot in slot %s", slot))
			return
		}
		if err != nil {
			writeError(w, http.StatusInternalServerError, fmt.Sprintf("load slot: %v", err))
			return
		}
	} else {
		var err error
		blob, err = io.ReadAll(http.MaxBytesReader(w, r.Body, 1<<20))
		if err != nil {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("read body: %v", err))
			return
		}
	}

	s.mu.Lock()
	report := state.Load(s.g, blob)
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, map[string]int{
		"applied": report.Nodes,
		"skipped": report.Skipped,
	})
}

func (s *Server) handleReload(w http.ResponseWriter, r *http.Request) {
	if err := s.Reload(); err != nil {
		writeError(w, http.StatusUnprocessableEntity, fmt.Sprintf("reload: %v", err))
		return
	}
	s.mu.Lock()
	nodes := s.g.NodeCount()
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, map[string]any{"status": "reloaded", "nodes": nodes})
}

// =============================================================================
// Response helpers
// =============================================================================

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// writeAppError renders a structured error, exposing its machine-readable
// code alongside the user-facing message.
func writeAppError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{
		"error": apperrors.UserMessage(err),
		"code":  string(apperrors.GetCode(err)),
	})
}

// writeNavError maps navigation sentinel errors onto HTTP status codes.
func writeNavError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, nav.ErrUnknownNode), errors.Is(err, nav.ErrUnknownActor):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, nav.ErrNodeOccupied), errors.Is(err, nav.ErrUnreachable):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, nav.ErrNoMover):
		writeError(w, http.StatusUnprocessableEntity, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}
