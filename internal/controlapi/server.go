// Package controlapi exposes a read-only HTTP+JSON surface over the shell's
// reactive state: a health probe, a Prometheus scrape endpoint, and a
// point-in-time status snapshot assembled from each service's current
// Property values. It follows the start/stop/GetURL lifecycle shape of
// internal/webeditor's server, but routes through go-chi/chi/v5 instead of a
// bare http.ServeMux, the way ManuGH-xg2g/internal/api/middleware/stack.go
// layers Recoverer/RequestID/logging onto a chi.Mux.
package controlapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/pozitronik/steelclock-go/internal/shellmetrics"
)

// DefaultAddr binds loopback-only; the control surface is meant for local
// tooling (CLI, status bar widgets), not remote access.
const DefaultAddr = "127.0.0.1:8385"

// Sources is the set of services the status endpoint reads from. Any field
// may be nil if that service failed to start; its section is omitted.
type Sources struct {
	Audio       StatusSource
	Media       StatusSource
	Network     StatusSource
	Bluetooth   StatusSource
	Notify      StatusSource
	Power       StatusSource
	IdleInhibit StatusSource
	Config      StatusSource
}

// StatusSource produces the JSON-serializable snapshot for one service. nil
// means the service is not wired.
type StatusSource func() any

// Server hosts the control API's HTTP listener.
type Server struct {
	log     zerolog.Logger
	addr    string
	sources Sources

	mu         sync.Mutex
	httpServer *http.Server
	listener   net.Listener
	running    bool
}

// NewServer builds a Server bound to addr (DefaultAddr if empty).
func NewServer(addr string, sources Sources, log zerolog.Logger) *Server {
	if addr == "" {
		addr = DefaultAddr
	}
	return &Server{
		log:     log.With().Str("service", "controlapi").Logger(),
		addr:    addr,
		sources: sources,
	}
}

// Start binds the listener and begins serving in the background.
func (s *Server) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return nil
	}

	listener, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("controlapi: listen on %s: %w", s.addr, err)
	}
	s.listener = listener

	s.httpServer = &http.Server{
		Handler:      s.routes(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	s.running = true

	go func() {
		if err := s.httpServer.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.log.Error().Err(err).Msg("control API server stopped unexpectedly")
		}
	}()

	s.log.Info().Str("addr", s.listener.Addr().String()).Msg("control API listening")
	return nil
}

// Stop gracefully shuts the server down.
func (s *Server) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("controlapi: shutdown: %w", err)
	}
	s.running = false
	return nil
}

// GetURL returns the base URL the server is reachable at, or "" if stopped.
func (s *Server) GetURL() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.running {
		return ""
	}
	return "http://" + s.listener.Addr().String()
}

// IsRunning reports whether the server is currently serving.
func (s *Server) IsRunning() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)

	r.Get("/healthz", s.handleHealth)
	r.Handle("/metrics", shellmetrics.Handler())
	r.Get("/v1/status", s.handleStatus)

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

func (s *Server) handleStatus(w http.ResponseWriter, _ *http.Request) {
	snapshot := map[string]any{}
	for name, src := range map[string]StatusSource{
		"audio":        s.sources.Audio,
		"media":        s.sources.Media,
		"network":      s.sources.Network,
		"bluetooth":    s.sources.Bluetooth,
		"notify":       s.sources.Notify,
		"power":        s.sources.Power,
		"idle_inhibit": s.sources.IdleInhibit,
		"config":       s.sources.Config,
	} {
		if src == nil {
			continue
		}
		snapshot[name] = src()
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(snapshot); err != nil {
		s.log.Error().Err(err).Msg("failed to encode status response")
	}
}
