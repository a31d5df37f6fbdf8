// Package api exposes the order fetch over HTTP.
package api

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/eshaffer321/shopee-orders/internal/api/handlers"
	"github.com/eshaffer321/shopee-orders/internal/api/middleware"
)

// A fetch may include a login with e-mail confirmation (up to 5 minutes)
// plus scrolling, so responses are allowed to take much longer than usual.
const writeTimeout = 10 * time.Minute

// Config holds API server configuration.
type Config struct {
	Port           int
	AllowedOrigins []string
}

// DefaultConfig returns sensible defaults for the API server.
func DefaultConfig() Config {
	return Config{
		Port:           8080,
		AllowedOrigins: middleware.DefaultCORSConfig().AllowedOrigins,
	}
}

// Server is the HTTP API server.
type Server struct {
	config     Config
	router     chi.Router
	httpServer *http.Server
	logger     *slog.Logger
	fetcher    handlers.Fetcher
}

// NewServer creates a new API server.
func NewServer(cfg Config, fetcher handlers.Fetcher, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}

	s := &Server{
		config:  cfg,
		router:  chi.NewRouter(),
		logger:  logger,
		fetcher: fetcher,
	}

	s.setupMiddleware()
	s.setupRoutes()

	return s
}

// setupMiddleware configures global middleware.
func (s *Server) setupMiddleware() {
	s.router.Use(middleware.Recover(s.logger))

	corsConfig := middleware.DefaultCORSConfig()
	corsConfig.AllowedOrigins = s.config.AllowedOrigins
	s.router.Use(middleware.CORS(corsConfig))

	s.router.Use(middleware.Logging(s.logger))
}

// setupRoutes configures all API routes.
func (s *Server) setupRoutes() {
	// Health check (no /api prefix - for load balancers)
	healthHandler := handlers.NewHealthHandler()
	s.router.Get("/health", healthHandler.ServeHTTP)

	ordersHandler := handlers.NewOrdersHandler(s.fetcher, s.logger)
	s.router.Route("/api", func(r chi.Router) {
		r.Get("/orders", ordersHandler.List)
	})
	// Path served by earlier deployments.
	s.router.Get("/orders", ordersHandler.List)

	errorHandler := handlers.NewErrorHandler()
	s.router.NotFound(errorHandler.NotFound)
	s.router.MethodNotAllowed(errorHandler.MethodNotAllowed)
}

// Start starts the HTTP server.
func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.config.Port)

	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: writeTimeout,
		IdleTimeout:  60 * time.Second,
	}

	s.logger.Info("starting API server", "addr", addr)

	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server error: %w", err)
	}

	return nil
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down API server")

	if s.httpServer == nil {
		return nil
	}

	return s.httpServer.Shutdown(ctx)
}

// Router returns the chi router for testing.
func (s *Server) Router() chi.Router {
	return s.router
}
