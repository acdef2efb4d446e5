package server

import (
	"context"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/sitepulse/sitepulse/internal/config"
	"github.com/sitepulse/sitepulse/internal/core/engine"
	apperrors "github.com/sitepulse/sitepulse/internal/errors"
	"github.com/sitepulse/sitepulse/internal/observability"
	"github.com/sitepulse/sitepulse/internal/server/handlers"
	servermw "github.com/sitepulse/sitepulse/internal/server/middleware"
)

// Server represents the HTTP server
type Server struct {
	router *chi.Mux
	server *http.Server
	cfg    config.ServerConfig

	scan    *handlers.ScanHandlers
	limiter *engine.RateLimiter
}

// New creates a new HTTP server instance
func New(cfg config.ServerConfig, scan *handlers.ScanHandlers, limiter *engine.RateLimiter) *Server {
	r := chi.NewRouter()

	// Standard chi middleware
	r.Use(middleware.RealIP)

	// Custom middleware in correct order (RequestID → Metrics → Logging → Recovery)
	r.Use(servermw.RequestID)      // 1. Request ID (early for correlation)
	r.Use(servermw.RequestMetrics) // 2. Metrics (measure everything)
	r.Use(servermw.ErrorHandler)   // 3. Error handling (after metrics)
	r.Use(servermw.Recovery)       // 4. Panic recovery (outermost)

	origins := cfg.CORSOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", servermw.RequestIDHeader},
		MaxAge:         300,
	}))

	// Standardized error responses using centralized HandleError
	r.NotFound(func(w http.ResponseWriter, req *http.Request) {
		err := apperrors.NewNotFoundError("The requested resource was not found")
		HandleError(w, req, err)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, req *http.Request) {
		err := apperrors.NewMethodNotAllowedError("The requested method is not allowed for this resource")
		HandleError(w, req, err)
	})

	s := &Server{
		router:  r,
		cfg:     cfg,
		scan:    scan,
		limiter: limiter,
	}

	// Ensure handlers use the centralized error responder
	handlers.SetHTTPErrorResponder(HandleError)

	s.registerRoutes()

	return s
}

// Start starts the HTTP server
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.cfg.Host, s.cfg.Port)

	s.server = &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  s.cfg.ReadTimeout,
		WriteTimeout: s.cfg.WriteTimeout,
		IdleTimeout:  s.cfg.IdleTimeout,
	}

	observability.ServerLogger.Info("Starting HTTP server",
		zap.String("host", s.cfg.Host),
		zap.Int("port", s.cfg.Port),
		zap.String("addr", addr))

	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the HTTP server
func (s *Server) Shutdown(ctx context.Context) error {
	observability.ServerLogger.Info("Shutting down HTTP server")
	return s.server.Shutdown(ctx)
}

// Handler exposes the underlying router for testing and instrumentation
func (s *Server) Handler() http.Handler {
	return s.router
}

// Port returns the server port for testing
func (s *Server) Port() int {
	return s.cfg.Port
}
