package handlers

import (
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/kozaktomas/lifeline/internal/library"
	"github.com/kozaktomas/lifeline/internal/timeline"
)

// TimelineHandler serves photos grouped by day.
type TimelineHandler struct {
	source library.Source
	loc    *time.Location
	log    zerolog.Logger
}

// NewTimelineHandler creates a new timeline handler
func NewTimelineHandler(source library.Source, loc *time.Location, log zerolog.Logger) *TimelineHandler {
	return &TimelineHandler{source: source, loc: loc, log: log}
}

// Get returns the date groups for ?from=&to= (both optional, YYYY-MM-DD).
func (h *TimelineHandler) Get(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	dr, err := parseDays(q.Get("from"), q.Get("to"), h.loc)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	photos, err := h.source.ListPhotos(r.Context(), dr)
	if err != nil {
		h.log.Error().Err(err).Msg("failed to list photos")
		respondError(w, http.StatusBadGateway, "failed to list photos")
		return
	}

	respondJSON(w, http.StatusOK, timeline.GroupByDate(photos, h.loc))
}
