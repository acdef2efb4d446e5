package server

import (
	"github.com/go-chi/chi/v5"

	"github.com/sitepulse/sitepulse/internal/server/handlers"
	servermw "github.com/sitepulse/sitepulse/internal/server/middleware"
)

// registerRoutes registers all HTTP routes
func (s *Server) registerRoutes() {
	// Standard health endpoints
	s.router.Get("/health", handlers.HealthHandler)
	s.router.Get("/health/live", handlers.LivenessHandler)
	s.router.Get("/health/ready", handlers.ReadinessHandler)

	// Version endpoint
	s.router.Get("/version", handlers.VersionHandler)

	// Metrics endpoint (in server package to access HandleError)
	s.router.Get("/metrics", MetricsHandler)

	// Scan API, rate limited per client IP
	s.router.Route("/api/v1", func(r chi.Router) {
		r.Use(servermw.RateLimit(s.limiter))
		r.Post("/scan", s.scan.ScanPostHandler)
		r.Get("/scan", s.scan.ScanGetHandler)
	})
}
