// Package albums creates albums from date ranges of the photo library.
package albums

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/kozaktomas/lifeline/internal/constants"
	"github.com/kozaktomas/lifeline/internal/database"
	"github.com/kozaktomas/lifeline/internal/library"
	"github.com/kozaktomas/lifeline/internal/photo"
	"github.com/kozaktomas/lifeline/internal/timeline"
)

var (
	// ErrEmptyRange is returned when no photos fall in the requested range.
	ErrEmptyRange = errors.New("no photos in the selected date range")

	// ErrInvalidRange is returned when a bound is missing or the range is reversed.
	ErrInvalidRange = errors.New("invalid date range")
)

// CreateRequest describes a new album. From and To are whole days in the
// service's location; both are required.
type CreateRequest struct {
	Title string
	From  time.Time
	To    time.Time
}

// Service creates albums and renders their timelines.
type Service struct {
	source library.Source
	store  database.AlbumWriter
	loc    *time.Location
	now    func() time.Time
}

// NewService creates a Service. A nil loc means time.Local.
func NewService(source library.Source, store database.AlbumWriter, loc *time.Location) *Service {
	if loc == nil {
		loc = time.Local
	}
	return &Service{source: source, store: store, loc: loc, now: time.Now}
}

// Create lists the photos in the range and saves an album for them. The cover
// is the earliest photo of the earliest day.
func (s *Service) Create(ctx context.Context, req CreateRequest) (*database.Album, error) {
	if req.From.IsZero() || req.To.IsZero() {
		return nil, fmt.Errorf("%w: both from and to are required", ErrInvalidRange)
	}
	r := photo.NewDateRange(req.From, req.To, s.loc)
	if r.End < r.Start {
		return nil, fmt.Errorf("%w: %s is after %s", ErrInvalidRange, req.From.Format(time.DateOnly), req.To.Format(time.DateOnly))
	}

	photos, err := s.source.ListPhotos(ctx, r)
	if err != nil {
		return nil, fmt.Errorf("list photos: %w", err)
	}
	if len(photos) == 0 {
		return nil, ErrEmptyRange
	}

	groups := timeline.GroupByDate(photos, s.loc)

	title := strings.TrimSpace(req.Title)
	if title == "" {
		title = constants.DefaultAlbumTitle
	}

	album := database.Album{
		ID:           uuid.NewString(),
		Title:        title,
		StartDate:    time.UnixMilli(r.Start).In(s.loc),
		EndDate:      time.UnixMilli(r.End).In(s.loc),
		CoverLocator: groups[0].Photos[0].Locator,
		PhotoCount:   len(photos),
		CreatedAt:    s.now(),
	}
	if err := s.store.Save(ctx, album); err != nil {
		return nil, fmt.Errorf("save album: %w", err)
	}
	return &album, nil
}

// Timeline returns an album together with its photos grouped by day.
func (s *Service) Timeline(ctx context.Context, id string) (*database.Album, []timeline.DateGroup, error) {
	album, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	photos, err := s.source.ListPhotos(ctx, album.DateRange())
	if err != nil {
		return nil, nil, fmt.Errorf("list photos: %w", err)
	}
	return album, timeline.GroupByDate(photos, s.loc), nil
}
