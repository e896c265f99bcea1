package web

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/kozaktomas/lifeline/internal/albums"
	"github.com/kozaktomas/lifeline/internal/people"
	"github.com/kozaktomas/lifeline/internal/web/handlers"
)

func (s *Server) setupRoutes() {
	loc := s.deps.Location

	timelineHandler := handlers.NewTimelineHandler(s.deps.Library, loc, s.log)
	peopleHandler := handlers.NewPeopleHandler(&people.Pipeline{
		Library:     s.deps.Library,
		Detector:    s.deps.Detector,
		Cache:       s.deps.FaceCache,
		Metrics:     s.deps.Metrics,
		Concurrency: s.config.Clustering.Concurrency,
	}, s.jobManager, s.config.Clustering.Threshold, loc, s.log)

	s.router.Get("/api/v1/health", handlers.HealthCheck)

	if s.deps.Metrics != nil {
		s.router.Handle("/metrics", s.deps.Metrics.Handler())
	}

	s.router.Route("/api/v1", func(r chi.Router) {
		// Timeline
		r.Get("/timeline", timelineHandler.Get)

		// People (long-running scan and cluster jobs)
		r.Post("/people", peopleHandler.Start)
		r.Get("/people/{jobId}", peopleHandler.Status)
		r.Get("/people/{jobId}/events", peopleHandler.Events)
		r.Delete("/people/{jobId}", peopleHandler.Cancel)

		// Albums
		if s.deps.Albums == nil {
			r.HandleFunc("/albums*", albumsUnavailable)
			return
		}
		albumsHandler := handlers.NewAlbumsHandler(
			albums.NewService(s.deps.Library, s.deps.Albums, loc), s.deps.Albums, loc, s.log)
		r.Get("/albums", albumsHandler.List)
		r.Post("/albums", albumsHandler.Create)
		r.Get("/albums/events", albumsHandler.Events)
		r.Get("/albums/{id}", albumsHandler.Get)
		r.Delete("/albums/{id}", albumsHandler.Delete)
		r.Get("/albums/{id}/timeline", albumsHandler.Timeline)
	})
}

// albumsUnavailable answers album requests when no database is configured.
func albumsUnavailable(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusServiceUnavailable)
	_, _ = w.Write([]byte(`{"error":"albums require DATABASE_URL"}` + "\n"))
}
