package library

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/kozaktomas/lifeline/internal/constants"
	"github.com/kozaktomas/lifeline/internal/photo"
	"github.com/kozaktomas/lifeline/internal/photoprism"
)

const photoprismScheme = "photoprism:"

// PhotoPrismSource lists and downloads photos from a PhotoPrism server.
type PhotoPrismSource struct {
	pp       *photoprism.PhotoPrism
	loc      *time.Location
	pageSize int
}

// NewPhotoPrismSource wraps an authenticated client. Date range bounds are
// turned into PhotoPrism day filters in loc.
func NewPhotoPrismSource(pp *photoprism.PhotoPrism, loc *time.Location) *PhotoPrismSource {
	if loc == nil {
		loc = time.Local
	}
	return &PhotoPrismSource{pp: pp, loc: loc, pageSize: constants.DefaultPageSize}
}

// ListPhotos pages through PhotoPrism search results newest first and keeps
// photos whose resolved timestamp is inside the range.
func (s *PhotoPrismSource) ListPhotos(ctx context.Context, r photo.DateRange) ([]photo.Photo, error) {
	query := s.rangeQuery(r)

	var photos []photo.Photo
	for offset := 0; offset < constants.MaxPhotosPerFetch; offset += s.pageSize {
		page, err := s.pp.GetPhotos(ctx, s.pageSize, offset, query, "newest")
		if err != nil {
			return nil, fmt.Errorf("list photoprism photos at offset %d: %w", offset, err)
		}
		for _, pp := range page {
			if pp.Hash == "" || (pp.Type != "" && pp.Type != "image") {
				continue
			}
			p := photo.Photo{
				ID:        pp.UID,
				Locator:   photoprismScheme + pp.UID + "/" + pp.Hash,
				Timestamp: photo.ResolveTimestamp(pp.TakenAtMillis(), pp.UpdatedAtSeconds(), pp.CreatedAtSeconds()),
			}
			if r.Contains(p.Timestamp) {
				photos = append(photos, p)
			}
		}
		if len(page) < s.pageSize {
			break
		}
	}

	slices.SortFunc(photos, sortNewestFirst)
	return photos, nil
}

// rangeQuery widens the range by a day on each side; exact filtering happens
// client side on the resolved timestamp.
func (s *PhotoPrismSource) rangeQuery(r photo.DateRange) string {
	var parts []string
	if r.Start != 0 {
		after := time.UnixMilli(r.Start).In(s.loc).AddDate(0, 0, -1)
		parts = append(parts, "after:"+after.Format(time.DateOnly))
	}
	if r.End != 0 {
		before := time.UnixMilli(r.End).In(s.loc).AddDate(0, 0, 1)
		parts = append(parts, "before:"+before.Format(time.DateOnly))
	}
	return strings.Join(parts, " ")
}

// ReadImage downloads the primary file referenced by the locator.
func (s *PhotoPrismSource) ReadImage(ctx context.Context, p photo.Photo) ([]byte, error) {
	rest, ok := strings.CutPrefix(p.Locator, photoprismScheme)
	if !ok {
		return nil, fmt.Errorf("unsupported locator %q", p.Locator)
	}
	_, hash, ok := strings.Cut(rest, "/")
	if !ok || hash == "" {
		return nil, fmt.Errorf("locator %q carries no file hash", p.Locator)
	}

	data, _, err := s.pp.GetFileDownload(ctx, hash)
	if photoprism.IsNotFoundError(err) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, p.ID)
	}
	if errors.Is(err, photoprism.ErrFileTooLarge) {
		return nil, fmt.Errorf("%w: %s: %w", ErrImageTooLarge, p.ID, err)
	}
	if err != nil {
		return nil, fmt.Errorf("download photo %s: %w", p.ID, err)
	}
	return data, nil
}

// Close ends the PhotoPrism session.
func (s *PhotoPrismSource) Close(ctx context.Context) error {
	return s.pp.Logout(ctx)
}
