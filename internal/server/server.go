// Package server exposes the prediction engine over HTTP.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/Winmix713/match-insight-dash-13/internal/domain"
	"github.com/Winmix713/match-insight-dash-13/internal/server/handler"
	"github.com/Winmix713/match-insight-dash-13/internal/server/middleware"
)

// Config holds the HTTP server configuration.
type Config struct {
	Port        int
	CORSOrigins []string
	APIKey      string // empty disables authentication
	// RateLimit is requests per RateLimitWindow per client IP; zero or a nil
	// limiter disables rate limiting.
	RateLimit       int
	RateLimitWindow time.Duration
}

// Handlers aggregates the HTTP handlers. Health, Predictions and Evaluation
// are required; the rest register their routes only when set.
type Handlers struct {
	Health      *handler.HealthHandler
	Predictions *handler.PredictionHandler
	Evaluation  *handler.EvaluationHandler
	Models      *handler.ModelHandler
	Audit       *handler.AuditHandler
	Events      *handler.EventsHandler
	Reports     *handler.ReportsHandler
}

// Server is the HTTP API server.
type Server struct {
	httpServer *http.Server
	logger     *slog.Logger
}

// NewServer registers every route and wraps the mux in the middleware chain:
// CORS, logging, auth, then rate limiting.
func NewServer(cfg Config, handlers Handlers, limiter domain.RateLimiter, logger *slog.Logger) *Server {
	logger = logger.With(slog.String("component", "http"))

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      buildHandler(cfg, handlers, limiter, logger),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 5 * time.Minute,
		IdleTimeout:  60 * time.Second,
	}
	return &Server{httpServer: srv, logger: logger}
}

func buildHandler(cfg Config, handlers Handlers, limiter domain.RateLimiter, logger *slog.Logger) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/health", handlers.Health.HealthCheck)

	mux.HandleFunc("POST /api/predictions/generate", handlers.Predictions.Generate)
	mux.HandleFunc("POST /api/predictions/evaluate", handlers.Evaluation.Evaluate)
	mux.HandleFunc("GET /api/models/active", handlers.Predictions.ActiveModel)
	mux.HandleFunc("GET /api/matches/{id}/predictions", handlers.Predictions.MatchPredictions)

	// Paths used by the existing frontend.
	mux.HandleFunc("POST /functions/v1/generate-predictions", handlers.Predictions.Generate)
	mux.HandleFunc("POST /functions/v1/evaluate-predictions", handlers.Evaluation.Evaluate)

	if handlers.Models != nil {
		mux.HandleFunc("GET /api/models/{id}/training-logs", handlers.Models.TrainingLogs)
	}
	if handlers.Audit != nil {
		mux.HandleFunc("GET /api/audit", handlers.Audit.ListAudit)
	}
	if handlers.Events != nil {
		mux.HandleFunc("GET /api/events", handlers.Events.ListEvents)
	}
	if handlers.Reports != nil {
		mux.HandleFunc("GET /api/evaluations/reports", handlers.Reports.ListReports)
		mux.HandleFunc("GET /api/evaluations/reports/{path...}", handlers.Reports.GetReport)
	}

	var h http.Handler = mux
	if limiter != nil && cfg.RateLimit > 0 {
		h = middleware.RateLimit(limiter, cfg.RateLimit, cfg.RateLimitWindow, logger)(h)
	}
	h = middleware.Auth(cfg.APIKey, "/api/health")(h)
	h = middleware.Logging(logger)(h)
	h = middleware.CORS(cfg.CORSOrigins)(h)
	return h
}

// Handler returns the root handler, for tests.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Start listens until the server fails or is shut down.
func (s *Server) Start() error {
	s.logger.Info("server: starting", slog.String("addr", s.httpServer.Addr))
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server: listen: %w", err)
	}
	return nil
}

// Shutdown waits for in-flight requests until ctx expires.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("server: shutting down")
	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server: shutdown: %w", err)
	}
	return nil
}
