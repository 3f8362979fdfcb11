// Package api provides the HTTP API server for the multi-CURIE query
// service.
//
// This package implements the API gateway layer using the go-chi/chi
// router. It handles HTTP routing, the middleware chain, and server
// lifecycle.
//
// Middleware chain: RequestID -> RealIP -> Logger -> Recoverer -> Timeout -> CORS
//
// Usage:
//
//	cfg := config.MustLoad()
//	server := api.NewServer(cfg, logger, simClient, queryLogs)
//	if err := server.Start(ctx); err != nil {
//	    log.Fatal("Server failed:", err)
//	}
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/monarch-initiative/semsim-mcq/internal/config"
	"github.com/monarch-initiative/semsim-mcq/internal/api/middleware"
	"github.com/monarch-initiative/semsim-mcq/internal/querylog"
	"github.com/monarch-initiative/semsim-mcq/internal/similarity"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// Server is the HTTP API server.
type Server struct {
	config     *config.Config
	logger     *config.Logger
	router     *chi.Mux
	httpServer *http.Server

	similarity *similarity.Client
	queryLogs  *querylog.Store
}

// NewServer creates a new API server, wiring the router, middleware chain,
// and routes over the given similarity client. queryLogs must be the same
// Store the process logger's handler was wrapped with (see cmd/api/main.go),
// so that log lines captured during a request can be read back by the
// handler that served it.
func NewServer(cfg *config.Config, logger *config.Logger, simClient *similarity.Client, queryLogs *querylog.Store) *Server {
	s := &Server{
		config:     cfg,
		logger:     logger,
		router:     chi.NewRouter(),
		similarity: simClient,
		queryLogs:  queryLogs,
	}

	s.setupMiddleware()
	s.registerRoutes()

	return s
}

// setupMiddleware configures the middleware chain in the correct order.
func (s *Server) setupMiddleware() {
	s.router.Use(chimiddleware.RequestID)
	s.router.Use(chimiddleware.RealIP)
	s.router.Use(chimiddleware.RequestLogger(&slogLogFormatter{logger: s.logger}))
	s.router.Use(chimiddleware.Recoverer)
	s.router.Use(middleware.TimeoutMiddleware(s.config.Server.RequestTimeout))
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))
}

// registerRoutes mounts the TRAPI surface this service exposes.
func (s *Server) registerRoutes() {
	s.router.Get("/health", s.handleHealth)

	s.router.Route("/", func(r chi.Router) {
		r.Get("/meta_knowledge_graph", s.handleMetaKnowledgeGraph)
		r.Get("/metadata", s.handleMetadata)
		r.Post("/query", s.handleQuery)
		r.Get("/{node_type}/{curie}", s.handleNodeLookupNotImplemented)
		r.Get("/{source_type}/{target_type}/{curie}", s.handleOneHopNotImplemented)
	})
}

// Start runs the HTTP server until ctx is cancelled, then shuts it down
// gracefully.
func (s *Server) Start(ctx context.Context) error {
	addr := fmt.Sprintf("%s:%d", s.config.Server.Host, s.config.Server.Port)

	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadTimeout:       s.config.Server.ReadTimeout,
		WriteTimeout:      s.config.Server.WriteTimeout,
		IdleTimeout:       120 * time.Second,
		ReadHeaderTimeout: 10 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}

	s.logger.Info("starting API server",
		"address", addr,
		"environment", string(s.config.App.Environment),
	)

	errCh := make(chan error, 1)
	go func() {
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("server listen error: %w", err)
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		s.logger.Info("shutting down server due to context cancellation")
		return s.Shutdown(context.Background())
	}
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}

	s.logger.Info("shutting down API server")

	shutdownCtx, cancel := context.WithTimeout(ctx, s.config.Server.ShutdownTimeout)
	defer cancel()

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		s.logger.Error("server shutdown error", "error", err)
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	s.logger.Info("API server shutdown complete")
	return nil
}

// Router returns the chi router for testing purposes.
func (s *Server) Router() *chi.Mux {
	return s.router
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]any{
		"status":    "healthy",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

func (s *Server) handleNodeLookupNotImplemented(w http.ResponseWriter, r *http.Request) {
	WriteError(w, ErrNotImplemented)
}

func (s *Server) handleOneHopNotImplemented(w http.ResponseWriter, r *http.Request) {
	WriteError(w, ErrNotImplemented)
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.Error("failed to write JSON response", "error", err)
	}
}

// slogLogFormatter implements chi's LogFormatter interface over this
// service's Logger wrapper.
type slogLogFormatter struct {
	logger *config.Logger
}

func (f *slogLogFormatter) NewLogEntry(r *http.Request) chimiddleware.LogEntry {
	return &slogLogEntry{logger: f.logger, r: r}
}

type slogLogEntry struct {
	logger *config.Logger
	r      *http.Request
}

func (e *slogLogEntry) Write(status, bytes int, header http.Header, elapsed time.Duration, extra any) {
	e.logger.Info("request completed",
		"method", e.r.Method,
		"path", e.r.URL.Path,
		"status", status,
		"bytes", bytes,
		"elapsed", elapsed,
		"request_id", chimiddleware.GetReqID(e.r.Context()),
		"remote_addr", e.r.RemoteAddr,
	)
}

func (e *slogLogEntry) Panic(v any, stack []byte) {
	e.logger.Error("request panic",
		"panic", v,
		"stack", string(stack),
		"request_id", chimiddleware.GetReqID(e.r.Context()),
	)
}
