package albums

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/kozaktomas/lifeline/internal/database"
	"github.com/kozaktomas/lifeline/internal/database/mock"
	"github.com/kozaktomas/lifeline/internal/photo"
)

// staticSource returns the photos that fall in the requested range.
type staticSource struct {
	photos []photo.Photo
	ranges []photo.DateRange
	err    error
}

func (s *staticSource) ListPhotos(ctx context.Context, r photo.DateRange) ([]photo.Photo, error) {
	s.ranges = append(s.ranges, r)
	if s.err != nil {
		return nil, s.err
	}
	var out []photo.Photo
	for _, p := range s.photos {
		if r.Contains(p.Timestamp) {
			out = append(out, p)
		}
	}
	return out, nil
}

func day(y int, m time.Month, d, h int) time.Time {
	return time.Date(y, m, d, h, 0, 0, 0, time.UTC)
}

func newTestService(src *staticSource) (*Service, *mock.MockAlbumStore) {
	store := mock.NewMockAlbumStore()
	svc := NewService(src, store, time.UTC)
	svc.now = func() time.Time { return day(2024, 7, 1, 12) }
	return svc, store
}

func TestService_Create(t *testing.T) {
	src := &staticSource{photos: []photo.Photo{
		// Newest first, as sources return them.
		{ID: "c", Locator: "file:///c.jpg", Timestamp: day(2024, 6, 3, 9).UnixMilli()},
		{ID: "b", Locator: "file:///b.jpg", Timestamp: day(2024, 6, 1, 18).UnixMilli()},
		{ID: "a", Locator: "file:///a.jpg", Timestamp: day(2024, 6, 1, 8).UnixMilli()},
		{ID: "x", Locator: "file:///x.jpg", Timestamp: day(2024, 5, 31, 23).UnixMilli()},
	}}
	svc, store := newTestService(src)

	album, err := svc.Create(context.Background(), CreateRequest{
		From: day(2024, 6, 1, 0),
		To:   day(2024, 6, 3, 0),
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if album.Title != "New Album" {
		t.Errorf("expected default title, got %q", album.Title)
	}
	if album.CoverLocator != "file:///a.jpg" {
		t.Errorf("expected earliest photo as cover, got %s", album.CoverLocator)
	}
	if album.PhotoCount != 3 {
		t.Errorf("expected 3 photos, got %d", album.PhotoCount)
	}
	if album.ID == "" {
		t.Error("expected generated id")
	}
	wantEnd := day(2024, 6, 4, 0).Add(-time.Millisecond)
	if !album.StartDate.Equal(day(2024, 6, 1, 0)) || !album.EndDate.Equal(wantEnd) {
		t.Errorf("unexpected range %s - %s", album.StartDate, album.EndDate)
	}

	saved, err := store.Get(context.Background(), album.ID)
	if err != nil {
		t.Fatalf("album not saved: %v", err)
	}
	if saved.PhotoCount != 3 || !saved.CreatedAt.Equal(day(2024, 7, 1, 12)) {
		t.Errorf("unexpected saved album: %+v", saved)
	}
}

func TestService_CreateKeepsTitle(t *testing.T) {
	src := &staticSource{photos: []photo.Photo{{ID: "a", Timestamp: day(2024, 6, 1, 8).UnixMilli()}}}
	svc, _ := newTestService(src)

	album, err := svc.Create(context.Background(), CreateRequest{
		Title: "  Summer  ",
		From:  day(2024, 6, 1, 0),
		To:    day(2024, 6, 1, 0),
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if album.Title != "Summer" {
		t.Errorf("expected trimmed title, got %q", album.Title)
	}
}

func TestService_CreateErrors(t *testing.T) {
	tests := []struct {
		name    string
		src     *staticSource
		req     CreateRequest
		wantErr error
	}{
		{
			name:    "empty range",
			src:     &staticSource{},
			req:     CreateRequest{From: day(2024, 6, 1, 0), To: day(2024, 6, 2, 0)},
			wantErr: ErrEmptyRange,
		},
		{
			name:    "missing bound",
			src:     &staticSource{},
			req:     CreateRequest{From: day(2024, 6, 1, 0)},
			wantErr: ErrInvalidRange,
		},
		{
			name:    "reversed",
			src:     &staticSource{},
			req:     CreateRequest{From: day(2024, 6, 5, 0), To: day(2024, 6, 1, 0)},
			wantErr: ErrInvalidRange,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, store := newTestService(tt.src)
			_, err := svc.Create(context.Background(), tt.req)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("expected %v, got %v", tt.wantErr, err)
			}
			if albums, _ := store.List(context.Background(), ""); len(albums) != 0 {
				t.Errorf("expected nothing saved, got %+v", albums)
			}
		})
	}
}

func TestService_CreateSourceError(t *testing.T) {
	boom := errors.New("source offline")
	svc, _ := newTestService(&staticSource{err: boom})

	_, err := svc.Create(context.Background(), CreateRequest{From: day(2024, 6, 1, 0), To: day(2024, 6, 1, 0)})
	if !errors.Is(err, boom) {
		t.Errorf("expected wrapped source error, got %v", err)
	}
}

func TestService_Timeline(t *testing.T) {
	src := &staticSource{photos: []photo.Photo{
		{ID: "b", Timestamp: day(2024, 6, 2, 9).UnixMilli()},
		{ID: "a", Timestamp: day(2024, 6, 1, 9).UnixMilli()},
	}}
	svc, store := newTestService(src)
	store.AddAlbum(database.Album{
		ID:        "album",
		StartDate: day(2024, 6, 1, 0),
		EndDate:   day(2024, 6, 3, 0).Add(-time.Millisecond),
	})

	album, groups, err := svc.Timeline(context.Background(), "album")
	if err != nil {
		t.Fatalf("Timeline failed: %v", err)
	}
	if album.ID != "album" {
		t.Errorf("unexpected album %+v", album)
	}
	if len(groups) != 2 || groups[0].Label != "1st June, 2024" || groups[1].Label != "2nd June, 2024" {
		t.Errorf("unexpected groups: %+v", groups)
	}

	if _, _, err := svc.Timeline(context.Background(), "missing"); !errors.Is(err, database.ErrAlbumNotFound) {
		t.Errorf("expected ErrAlbumNotFound, got %v", err)
	}
}
