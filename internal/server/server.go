// Package server exposes the diagram pipeline over HTTP.
//
// A client uploads a topology document, receives a diagram id, and then
// interacts with the diagram through that id: reading positions, feeding
// pointer events, fetching rendered output, and saving the arrangement as a
// named session. Diagrams live in memory; sessions persist through the
// configured session store.
package server

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/routeviz/bgpmap/pkg/metrics"
	"github.com/routeviz/bgpmap/pkg/pipeline"
	"github.com/routeviz/bgpmap/pkg/session"
)

// Options configures a Server.
type Options struct {
	Addr     string          // listen address, e.g. ":8080"
	Runner   *pipeline.Runner
	Sessions session.Store // nil disables the session endpoints
	Metrics  *metrics.Registry
	Logger   *log.Logger
}

// Server is the HTTP API for bgpmap diagrams.
type Server struct {
	opts   Options
	logger *log.Logger
	runner *pipeline.Runner

	mu       sync.RWMutex
	diagrams map[string]*diagram

	http *http.Server
}

// New creates a server. Runner is required; everything else has a default.
func New(opts Options) *Server {
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	if opts.Metrics == nil {
		opts.Metrics = metrics.DefaultRegistry()
	}
	if opts.Addr == "" {
		opts.Addr = ":8080"
	}
	s := &Server{
		opts:     opts,
		logger:   opts.Logger,
		runner:   opts.Runner,
		diagrams: make(map[string]*diagram),
	}
	s.http = &http.Server{
		Addr:         opts.Addr,
		Handler:      s.Handler(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	return s
}

// Handler builds the route table. Exposed separately so tests can drive the
// server through httptest without binding a socket.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(s.observe)

	r.Get("/healthz", s.handleHealth)
	r.Method(http.MethodGet, "/metrics", s.opts.Metrics.Handler())

	r.Route("/topologies", func(r chi.Router) {
		r.Post("/", s.handleCreateDiagram)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", s.handleGetDiagram)
			r.Delete("/", s.handleDeleteDiagram)
			r.Get("/positions", s.handleGetPositions)
			r.Post("/events", s.handlePointerEvent)
			r.Get("/nodes/{node}/info", s.handleNodeInfo)
			r.Get("/render.svg", s.handleRenderSVG)
			r.Get("/render.dot", s.handleRenderDOT)
			r.Post("/sessions", s.handleSaveSession)
		})
	})

	r.Route("/sessions", func(r chi.Router) {
		r.Get("/", s.handleListSessions)
		r.Get("/{id}", s.handleGetSession)
		r.Delete("/{id}", s.handleDeleteSession)
	})

	return r
}

// ListenAndServe runs the server until the context is canceled.
func (s *Server) ListenAndServe(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", s.http.Addr)
		errCh <- s.http.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return s.http.Shutdown(shutdownCtx)
	}
}

// Close releases server resources.
func (s *Server) Close() error {
	if s.opts.Sessions != nil {
		if err := s.opts.Sessions.Close(); err != nil {
			return err
		}
	}
	if s.runner != nil {
		return s.runner.Close()
	}
	return nil
}
