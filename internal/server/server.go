// Package server exposes the search surface over HTTP: a chi router with
// GET /search, GET /documents?path=, GET /healthz, and GET /ws, matching the MCP
// tool surface in internal/mcp for callers that prefer a plain HTTP API
// (dashboards, non-MCP agents).
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/cogfs/cogfs/internal/vectordb"
)

// Config holds server configuration.
type Config struct {
	ListenAddress string
	AllowAllCORS  bool // dev mode: allow any origin
}

// Server is the cogfs search/status HTTP server.
type Server struct {
	cfg        Config
	store      vectordb.VectorStore
	hub        *Hub
	router     chi.Router
	httpServer *http.Server
}

// New builds a Server backed by store, with no live event stream.
func New(cfg Config, store vectordb.VectorStore) *Server {
	return NewWithHub(cfg, store, nil)
}

// NewWithHub builds a Server backed by store, additionally serving
// GET /ws: a WebSocket stream of Events published through hub, for
// dashboards that want to watch indexing happen live (e.g. a `cogfs
// watch --serve` run broadcasting each create/modify/delete it processes).
func NewWithHub(cfg Config, store vectordb.VectorStore, hub *Hub) *Server {
	s := &Server{cfg: cfg, store: store, hub: hub}
	s.router = s.buildRouter()
	return s
}

func (s *Server) buildRouter() chi.Router {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	corsOpts := cors.Options{
		AllowedOrigins:   []string{"http://localhost:*", "http://127.0.0.1:*"},
		AllowedMethods:   []string{"GET", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}
	if s.cfg.AllowAllCORS {
		corsOpts.AllowedOrigins = []string{"*"}
	}
	r.Use(cors.Handler(corsOpts))

	r.Get("/healthz", s.handleHealthz)
	r.Get("/search", s.handleSearch)
	// Document paths may contain slashes, so the lookup is a query
	// parameter rather than a chi URL param.
	r.Get("/documents", s.handleGetDocument)
	r.Get("/ws", s.handleWS)

	return r
}

// Router returns the underlying chi router, for tests or embedding into
// another mux.
func (s *Server) Router() chi.Router { return s.router }

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"status": "ok", "documents": s.store.Count()})
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	if query == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "missing required query parameter q"})
		return
	}

	limit := 10
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			limit = n
		}
	}

	var filter *vectordb.SearchFilter
	if tag := r.URL.Query().Get("tag"); tag != "" {
		filter = &vectordb.SearchFilter{Tag: &tag}
	}

	results, err := s.store.Search(r.Context(), query, limit, filter)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"results": results})
}

func (s *Server) handleGetDocument(w http.ResponseWriter, r *http.Request) {
	path := r.URL.Query().Get("path")
	if path == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "missing required query parameter path"})
		return
	}
	docs, err := s.store.GetByPath(r.Context(), path)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	if len(docs) == 0 {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "document not found"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"documents": docs})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// Start begins listening on the configured address and blocks until the
// server stops.
func (s *Server) Start() error {
	s.httpServer = &http.Server{
		Addr:              s.cfg.ListenAddress,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      120 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
	log.Printf("cogfs server listening on %s", s.cfg.ListenAddress)
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server: %w", err)
	}
	return nil
}

// Shutdown gracefully stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer != nil {
		return s.httpServer.Shutdown(ctx)
	}
	return nil
}
