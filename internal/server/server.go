// Package server provides the HTTP API for emosuggest.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/hyperjump/emosuggest/internal/config"
	"github.com/hyperjump/emosuggest/internal/ingest"
	"github.com/hyperjump/emosuggest/internal/search"
	"github.com/hyperjump/emosuggest/internal/session"
	"github.com/hyperjump/emosuggest/internal/storage"
	"go.uber.org/zap"
)

// Server is the HTTP server for the emosuggest API.
type Server struct {
	engine   *search.Engine
	sessions *session.Manager
	config   *config.Config
	source   storage.Source // optional; reported by status
	report   *ingest.Report // optional
	logger   *zap.Logger
	server   *http.Server
}

// Option configures a Server.
type Option func(*Server)

// WithSource sets the source and ingestion report shown by the status endpoint.
func WithSource(src storage.Source, report *ingest.Report) Option {
	return func(s *Server) {
		s.source = src
		s.report = report
	}
}

// NewServer creates a server with the given dependencies.
func NewServer(
	engine *search.Engine,
	sessions *session.Manager,
	cfg *config.Config,
	logger *zap.Logger,
	opts ...Option,
) *Server {
	s := &Server{
		engine:   engine,
		sessions: sessions,
		config:   cfg,
		logger:   logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = zap.NewNop()
	}
	return s
}

// Router returns the API routes.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(middleware.Compress(5))

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/recommend", s.handleRecommend)
		r.Get("/status", s.handleStatus)
		r.Route("/sessions", func(r chi.Router) {
			r.Post("/", s.handleCreateSession)
			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", s.handleGetSession)
				r.Delete("/", s.handleDeleteSession)
				r.Post("/search", s.handleSessionSearch)
				r.Post("/accept", s.handleSessionAccept)
				r.Put("/text", s.handleSessionText)
			})
		})
	})
	r.Get("/health", s.handleHealth)
	return r
}

// Start starts the HTTP server and blocks until it stops.
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.config.Server.Host, s.config.Server.Port)
	s.server = &http.Server{
		Addr:              addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	s.logger.Info("Starting server", zap.String("addr", addr))
	return s.server.ListenAndServe()
}

// Stop gracefully shuts down the server.
func (s *Server) Stop(ctx context.Context) error {
	if s.server != nil {
		return s.server.Shutdown(ctx)
	}
	return nil
}
