// Package http exposes a ports.Workspace over HTTP: open containers, submit trees,
// inspect committed snapshots and stream them as server-sent events.
package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/aretw0/graft"
	"github.com/aretw0/graft/internal/logging"
	"github.com/aretw0/graft/pkg/domain"
	"github.com/aretw0/graft/pkg/ports"
	"github.com/aretw0/graft/pkg/tree"
	"github.com/go-chi/chi/v5"
)

// maxTreeBytes bounds the size of a submitted tree document.
const maxTreeBytes = 1 << 20

// Server serves a Workspace.
type Server struct {
	Workspace ports.Workspace
	Loader    *tree.Loader
	Streams   *StreamManager
	logger    *slog.Logger
}

// Option configures the Server.
type Option func(*Server)

// WithLogger sets the request logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithLoader sets the loader used to decode submitted trees and resolve handler names.
func WithLoader(l *tree.Loader) Option {
	return func(s *Server) {
		s.Loader = l
	}
}

// NewServer creates a Server for ws.
func NewServer(ws ports.Workspace, opts ...Option) *Server {
	s := &Server{
		Workspace: ws,
		Streams:   NewStreamManager(),
		logger:    logging.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.Loader == nil {
		s.Loader = tree.NewLoader()
	}
	s.Streams.logger = s.logger
	return s
}

// NewHandler creates a new HTTP handler for the workspace.
func NewHandler(ws ports.Workspace, opts ...Option) http.Handler {
	return NewServer(ws, opts...).Routes()
}

// Routes builds the chi router.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Get("/health", s.GetHealth)
	r.Get("/info", s.GetInfo)

	r.Route("/containers", func(r chi.Router) {
		r.Get("/", s.ListContainers)
		r.Post("/", s.OpenContainer)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", s.GetSnapshot)
			r.Delete("/", s.CloseContainer)
			r.Get("/outline", s.GetOutline)
			r.Post("/render", s.Render)
			r.Get("/events", s.SubscribeEvents)
		})
	})
	return enableCORS(r)
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Custom-Header")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// ListContainers handles GET /containers.
func (s *Server) ListContainers(w http.ResponseWriter, r *http.Request) {
	ids, err := s.Workspace.List(r.Context())
	if err != nil {
		s.fail(w, "List", err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string][]string{"containers": ids})
}

// OpenContainer handles POST /containers.
func (s *Server) OpenContainer(w http.ResponseWriter, r *http.Request) {
	id, err := s.Workspace.Open(r.Context())
	if err != nil {
		s.fail(w, "Open", err)
		return
	}
	s.logger.Info("Container opened", "container_id", id)
	s.writeJSON(w, http.StatusCreated, map[string]string{"id": id})
}

// GetSnapshot handles GET /containers/{id}.
func (s *Server) GetSnapshot(w http.ResponseWriter, r *http.Request) {
	snap, err := s.Workspace.Snapshot(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.fail(w, "Snapshot", err)
		return
	}
	s.writeJSON(w, http.StatusOK, snap)
}

// GetOutline handles GET /containers/{id}/outline.
func (s *Server) GetOutline(w http.ResponseWriter, r *http.Request) {
	snap, err := s.Workspace.Snapshot(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.fail(w, "Outline", err)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	io.WriteString(w, snap.Outline)
}

// Render handles POST /containers/{id}/render. The body is a tree document.
func (s *Server) Render(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var body any
	if err := json.NewDecoder(io.LimitReader(r.Body, maxTreeBytes)).Decode(&body); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		s.logger.Warn("Render: Invalid request body", "err", err)
		return
	}
	t, err := s.Loader.Decode(body)
	if err != nil {
		http.Error(w, fmt.Sprintf("Invalid tree: %v", err), http.StatusUnprocessableEntity)
		s.logger.Warn("Render: Invalid tree", "container_id", id, "err", err)
		return
	}

	snap, err := s.Workspace.Render(r.Context(), id, t)
	if err != nil {
		s.fail(w, "Render", err)
		return
	}

	if data, err := json.Marshal(snap); err == nil {
		s.Streams.Broadcast(id, string(data))
	}
	s.writeJSON(w, http.StatusOK, snap)
}

// CloseContainer handles DELETE /containers/{id}.
func (s *Server) CloseContainer(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := s.Workspace.Close(r.Context(), id); err != nil {
		s.fail(w, "Close", err)
		return
	}
	s.logger.Info("Container closed", "container_id", id)
	w.WriteHeader(http.StatusNoContent)
}

// GetHealth handles the GET /health request.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// GetInfo handles the GET /info request.
func (s *Server) GetInfo(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{
		"app":     "graft-http",
		"version": graft.Version,
	})
}

// fail maps adapter errors to status codes.
func (s *Server) fail(w http.ResponseWriter, op string, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, domain.ErrSessionNotFound):
		status = http.StatusNotFound
	case errors.Is(err, domain.ErrInvalidType), errors.Is(err, domain.ErrInvalidProps):
		status = http.StatusUnprocessableEntity
	}
	if status == http.StatusInternalServerError {
		s.logger.Error(op+" failed", "err", err)
	} else {
		s.logger.Warn(op+" rejected", "err", err)
	}
	http.Error(w, fmt.Sprintf("%s error: %v", op, err), status)
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("Response encode failed", "err", err)
	}
}
