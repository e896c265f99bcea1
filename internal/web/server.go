package web

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/kozaktomas/lifeline/internal/config"
	"github.com/kozaktomas/lifeline/internal/database"
	"github.com/kozaktomas/lifeline/internal/faces"
	"github.com/kozaktomas/lifeline/internal/library"
	"github.com/kozaktomas/lifeline/internal/metrics"
	"github.com/kozaktomas/lifeline/internal/web/handlers"
	"github.com/kozaktomas/lifeline/internal/web/middleware"
)

// Dependencies are the collaborators the server routes to.
// Albums and FaceCache may be nil when no database is configured.
type Dependencies struct {
	Library   library.Library
	Detector  faces.Detector
	Albums    database.AlbumWriter
	FaceCache faces.Cache
	Metrics   *metrics.Collector
	Location  *time.Location
	Logger    zerolog.Logger
}

// Server represents the web server
type Server struct {
	config     *config.Config
	deps       Dependencies
	router     *chi.Mux
	httpServer *http.Server
	jobManager *handlers.JobManager
	log        zerolog.Logger
}

// NewServer creates a new web server
func NewServer(cfg *config.Config, deps Dependencies, port int, host string) *Server {
	r := chi.NewRouter()

	if deps.Location == nil {
		deps.Location = time.Local
	}

	s := &Server{
		config:     cfg,
		deps:       deps,
		router:     r,
		jobManager: handlers.NewJobManager(),
		log:        deps.Logger.With().Str("component", "web").Logger(),
	}

	// Set up middleware stack
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(middleware.AccessLog(s.log, 5*time.Second))
	r.Use(chiMiddleware.Recoverer)
	r.Use(middleware.CORS(cfg.Web.AllowedOrigins))
	r.Use(middleware.SecurityHeaders())

	s.setupRoutes()

	// Create HTTP server
	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", host, port),
		Handler:      r,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 0, // SSE streams stay open
		IdleTimeout:  60 * time.Second,
	}

	return s
}

// Start starts the HTTP server
func (s *Server) Start() error {
	s.log.Info().Str("addr", s.httpServer.Addr).Msg("starting web server")
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start server: %w", err)
	}
	return nil
}

// Shutdown gracefully shuts down the server and cancels running jobs
func (s *Server) Shutdown(ctx context.Context) error {
	s.log.Info().Msg("shutting down web server")

	s.jobManager.CancelAll()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutting down server: %w", err)
	}
	return nil
}

// Router returns the chi router for testing
func (s *Server) Router() *chi.Mux {
	return s.router
}
