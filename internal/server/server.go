// Package server exposes a navigation graph over HTTP for debugging and
// integration tests. The API is a thin JSON layer over the nav package:
// inspect the graph, plan routes, issue move requests against a
// server-side instant mover, and snapshot or restore runtime state.
//
// The server owns its graph and serializes all access to it, so handlers
// may be hit concurrently even though the navigation controller itself is
// single-threaded.
package server

import (
	"context"
	"errors"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/nodenav/pkg/nav"
	"github.com/matzehuels/nodenav/pkg/nav/navio"
	"github.com/matzehuels/nodenav/pkg/state"
)

// Config holds server configuration.
type Config struct {
	Addr      string      // listen address, e.g. ":8080"
	GraphPath string      // graph file served and reloaded
	Store     state.Store // snapshot backend; nil disables /state
	Logger    *log.Logger
}

// Server is the HTTP debug server over one navigation graph.
type Server struct {
	cfg    Config
	logger *log.Logger

	mu   sync.Mutex
	g    *nav.Graph
	ctrl *nav.Controller

	httpSrv *http.Server
}

// New loads the configured graph and builds the server. The graph is
// validated on load; a graph that fails validation never serves.
func New(cfg Config) (*Server, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	s := &Server{cfg: cfg, logger: logger}
	if err := s.Reload(); err != nil {
		return nil, err
	}

	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(s.instrument)

	r.Get("/healthz", s.handleHealth)
	r.Get("/graph", s.handleGraph)
	r.Get("/route", s.handleRoute)
	r.Post("/actors", s.handleRegisterActor)
	r.Post("/move", s.handleMove)
	r.Get("/state", s.handleStateGet)
	r.Put("/state", s.handleStatePut)
	r.Post("/reload", s.handleReload)

	s.httpSrv = &http.Server{
		Addr:         cfg.Addr,
		Handler:      r,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	return s, nil
}

// Handler returns the server's HTTP handler, for tests.
func (s *Server) Handler() http.Handler { return s.httpSrv.Handler }

// Reload re-reads the graph file and swaps in the fresh graph. Registered
// actors and occupancy are dropped; callers restore state through the
// snapshot API if they need it to survive a reload.
func (s *Server) Reload() error {
	g, err := navio.ReadFile(s.cfg.GraphPath)
	if err != nil {
		return err
	}
	if err := g.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	s.g = g
	s.ctrl = nav.NewController(g, nil, s.logger)
	s.mu.Unlock()

	s.logger.Info("graph loaded", "path", s.cfg.GraphPath, "nodes", g.NodeCount())
	return nil
}

// ListenAndServe starts the server and blocks until the context is
// cancelled or the listener fails.
func (s *Server) ListenAndServe(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", s.cfg.Addr)
		errCh <- s.httpSrv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return s.httpSrv.Shutdown(shutdownCtx)
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
