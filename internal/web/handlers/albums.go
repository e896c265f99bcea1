package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/kozaktomas/lifeline/internal/albums"
	"github.com/kozaktomas/lifeline/internal/database"
	"github.com/kozaktomas/lifeline/internal/photo"
	"github.com/kozaktomas/lifeline/internal/timeline"
)

// AlbumsHandler handles album-related endpoints
type AlbumsHandler struct {
	service *albums.Service
	store   database.AlbumWriter
	loc     *time.Location
	log     zerolog.Logger
}

// NewAlbumsHandler creates a new albums handler
func NewAlbumsHandler(service *albums.Service, store database.AlbumWriter, loc *time.Location, log zerolog.Logger) *AlbumsHandler {
	return &AlbumsHandler{service: service, store: store, loc: loc, log: log}
}

// CreateAlbumRequest represents a create album request
type CreateAlbumRequest struct {
	Title string `json:"title" validate:"max=200"`
	From  string `json:"from" validate:"required,datetime=2006-01-02"`
	To    string `json:"to" validate:"required,datetime=2006-01-02"`
}

// AlbumTimelineResponse is an album with its photos grouped by day.
type AlbumTimelineResponse struct {
	Album  *database.Album      `json:"album"`
	Groups []timeline.DateGroup `json:"groups"`
}

// List returns all albums, optionally filtered by ?q=
func (h *AlbumsHandler) List(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	result, err := h.store.List(r.Context(), query)
	if err != nil {
		h.log.Error().Err(err).Str("query", sanitizeForLog(query)).Msg("failed to list albums")
		respondError(w, http.StatusInternalServerError, "failed to list albums")
		return
	}
	respondJSON(w, http.StatusOK, result)
}

// Get returns a single album
func (h *AlbumsHandler) Get(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	album, err := h.store.Get(r.Context(), id)
	if err != nil {
		h.respondStoreError(w, err, id)
		return
	}
	respondJSON(w, http.StatusOK, album)
}

// Create creates an album covering the requested days
func (h *AlbumsHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateAlbumRequest
	if err := decodeJSON(w, r, &req); err != nil {
		respondError(w, http.StatusBadRequest, requestErrorMessage(err))
		return
	}

	from, err := photo.ParseDay(req.From, h.loc)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid from date, expected YYYY-MM-DD")
		return
	}
	to, err := photo.ParseDay(req.To, h.loc)
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid to date, expected YYYY-MM-DD")
		return
	}

	album, err := h.service.Create(r.Context(), albums.CreateRequest{Title: req.Title, From: from, To: to})
	switch {
	case errors.Is(err, albums.ErrInvalidRange), errors.Is(err, albums.ErrEmptyRange):
		respondError(w, http.StatusBadRequest, err.Error())
		return
	case err != nil:
		h.log.Error().Err(err).Msg("failed to create album")
		respondError(w, http.StatusInternalServerError, "failed to create album")
		return
	}

	respondJSON(w, http.StatusCreated, album)
}

// Delete removes an album
func (h *AlbumsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.store.Delete(r.Context(), id); err != nil {
		h.respondStoreError(w, err, id)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Timeline returns the album's photos grouped by day
func (h *AlbumsHandler) Timeline(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	album, groups, err := h.service.Timeline(r.Context(), id)
	if err != nil {
		h.respondStoreError(w, err, id)
		return
	}
	respondJSON(w, http.StatusOK, AlbumTimelineResponse{Album: album, Groups: groups})
}

// Events streams the full album list via SSE on connect and after every change
func (h *AlbumsHandler) Events(w http.ResponseWriter, r *http.Request) {
	updates, err := h.store.Watch(r.Context())
	if err != nil {
		h.log.Error().Err(err).Msg("failed to watch albums")
		respondError(w, http.StatusInternalServerError, "failed to watch albums")
		return
	}

	flusher, ok := setupSSEHeaders(w)
	if !ok {
		return
	}

	for {
		select {
		case <-r.Context().Done():
			return
		case list, ok := <-updates:
			if !ok {
				return
			}
			sendSSEEvent(w, flusher, "albums", list)
		}
	}
}

func (h *AlbumsHandler) respondStoreError(w http.ResponseWriter, err error, id string) {
	if errors.Is(err, database.ErrAlbumNotFound) {
		respondError(w, http.StatusNotFound, "album not found")
		return
	}
	h.log.Error().Err(err).Str("album_id", sanitizeForLog(id)).Msg("album request failed")
	respondError(w, http.StatusInternalServerError, "album request failed")
}
