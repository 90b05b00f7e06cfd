// Package server exposes the query pipeline over HTTP.
//
// Routes:
//
//	POST /api/v1/query   — answer a free-text trace question with filters
//	GET  /api/v1/history — recent successfully answered questions
//	GET  /health         — liveness
package server

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/tracepilot/tracepilot/internal/config"
	"github.com/tracepilot/tracepilot/internal/history"
	"github.com/tracepilot/tracepilot/internal/nlquery"
)

// Server wires the orchestrator and history store into an HTTP API.
type Server struct {
	cfg  *config.Config
	orch *nlquery.Orchestrator
	hist history.Store
}

// New creates the HTTP server around the query pipeline.
func New(cfg *config.Config, orch *nlquery.Orchestrator, hist history.Store) *http.Server {
	s := &Server{cfg: cfg, orch: orch, hist: hist}

	r := chi.NewRouter()
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(requestID)
	r.Use(requestLogger)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-Id"},
		ExposedHeaders: []string{"X-Request-Id"},
		MaxAge:         300,
	}))

	r.Get("/health", s.handleHealth)
	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/query", s.handleQuery)
		r.Get("/history", s.handleHistory)
	})

	return &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}
}

// Handler returns the routed handler only, for tests.
func Handler(cfg *config.Config, orch *nlquery.Orchestrator, hist history.Store) http.Handler {
	return New(cfg, orch, hist).Handler
}
