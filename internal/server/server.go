package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/caseworks-hq/caseworks/internal/ratelimit"
)

// Server is the Caseworks HTTP server.
type Server struct {
	httpServer *http.Server
	handler    http.Handler
	logger     *slog.Logger
}

// Config holds all dependencies and settings for creating a Server.
// Limiter is optional; nil disables autosave rate limiting.
type Config struct {
	Store   FactsStore
	Logger  *slog.Logger
	Limiter ratelimit.Limiter

	Port                int
	ReadTimeout         time.Duration
	WriteTimeout        time.Duration
	Version             string
	MaxRequestBodyBytes int64
}

// New creates a new HTTP server with all routes configured.
func New(cfg Config) *Server {
	h := NewHandlers(cfg.Store, cfg.Logger, cfg.Version)

	reqIDFunc := func(r *http.Request) string {
		return RequestIDFromContext(r.Context())
	}
	autosaveRL := ratelimit.Middleware(cfg.Limiter, ratelimit.IPKeyFunc, reqIDFunc)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", h.HandleHealthz)

	mux.HandleFunc("POST /v1/cases", h.HandleCreateCase)
	mux.HandleFunc("GET /v1/cases/{id}", h.HandleGetCase)
	mux.HandleFunc("PATCH /v1/cases/{id}", h.HandleUpdateCase)
	mux.HandleFunc("GET /v1/cases/{id}/facts", h.HandleGetFacts)
	mux.Handle("PATCH /v1/cases/{id}/facts", autosaveRL(http.HandlerFunc(h.HandlePatchFacts)))
	mux.HandleFunc("GET /v1/cases/{id}/case-facts", h.HandleGetCaseFacts)
	mux.HandleFunc("GET /v1/cases/{id}/health", h.HandleGetCaseHealth)

	var handler http.Handler = mux
	handler = bodyLimitMiddleware(cfg.MaxRequestBodyBytes, handler)
	handler = tracingMiddleware(handler)
	handler = loggingMiddleware(cfg.Logger, handler)
	handler = requestIDMiddleware(handler)

	return &Server{
		httpServer: &http.Server{
			Addr:         fmt.Sprintf(":%d", cfg.Port),
			Handler:      handler,
			ReadTimeout:  cfg.ReadTimeout,
			WriteTimeout: cfg.WriteTimeout,
		},
		handler: handler,
		logger:  cfg.Logger,
	}
}

// Handler returns the root HTTP handler for use in tests.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// ListenAndServe starts the server and blocks until it stops.
func (s *Server) ListenAndServe() error {
	s.logger.Info("http server listening", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully drains in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
