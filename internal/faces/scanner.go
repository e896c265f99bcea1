package faces

import (
	"context"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"github.com/kozaktomas/lifeline/internal/constants"
	"github.com/kozaktomas/lifeline/internal/photo"
)

// Cache stores extraction results per photo so repeated scans can skip the detector.
// Entries are stamped with the photo fingerprint; a cached photo whose
// fingerprint has since changed is reported as not processed.
type Cache interface {
	// LoadFaces returns the cached records for a photo and whether the photo was processed.
	LoadFaces(ctx context.Context, p photo.Photo) ([]FaceRecord, bool, error)
	// SaveFaces replaces the cached records for a photo.
	SaveFaces(ctx context.Context, p photo.Photo, records []FaceRecord) error
}

// Observer receives per-photo scan outcomes.
type Observer interface {
	PhotoScanned(faces int)
	PhotoSkipped()
}

// SkippedPhoto records a photo that failed to load or detect.
type SkippedPhoto struct {
	PhotoID string `json:"photo_id"`
	Error   string `json:"error"`
}

// Result is the joined output of a batch scan.
type Result struct {
	Photos  int            `json:"photos"`
	Faces   []FaceRecord   `json:"faces"`
	Skipped []SkippedPhoto `json:"skipped"`
}

// ProgressFunc is called after each photo finishes, with the number done so far.
type ProgressFunc func(done, total int)

// Scanner extracts faces from a batch of photos with a bounded worker pool.
type Scanner struct {
	loader      ImageLoader
	detector    Detector
	concurrency int
	cache       Cache
	observer    Observer
	log         zerolog.Logger
}

// Option configures a Scanner.
type Option func(*Scanner)

// WithConcurrency sets the number of parallel workers, capped at constants.MaxConcurrency.
func WithConcurrency(n int) Option {
	return func(s *Scanner) {
		if n > 0 {
			s.concurrency = min(n, constants.MaxConcurrency)
		}
	}
}

// WithCache enables the per-photo result cache.
func WithCache(c Cache) Option {
	return func(s *Scanner) { s.cache = c }
}

// WithObserver reports per-photo outcomes, typically to metrics.
func WithObserver(o Observer) Option {
	return func(s *Scanner) { s.observer = o }
}

// WithLogger sets the scanner logger.
func WithLogger(l zerolog.Logger) Option {
	return func(s *Scanner) { s.log = l }
}

// NewScanner creates a scanner reading images with loader and detecting with d.
func NewScanner(loader ImageLoader, d Detector, opts ...Option) *Scanner {
	s := &Scanner{
		loader:      loader,
		detector:    d,
		concurrency: constants.DefaultConcurrency,
		log:         zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

type photoResult struct {
	faces []FaceRecord
	err   error
}

// Scan extracts faces from every photo. Photos are processed in parallel but
// the returned faces follow photo order, then detector order within a photo.
// Failed photos are skipped and listed in Result.Skipped. A cancelled context
// discards everything and returns the context error.
func (s *Scanner) Scan(ctx context.Context, photos []photo.Photo, progress ProgressFunc) (*Result, error) {
	results := make([]photoResult, len(photos))

	var mu sync.Mutex
	done := 0

	sem := make(chan struct{}, s.concurrency)
	var wg sync.WaitGroup

	for i := range photos {
		if ctx.Err() != nil {
			break
		}
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			if ctx.Err() != nil {
				results[i] = photoResult{err: ctx.Err()}
				return
			}
			results[i] = s.scanPhoto(ctx, photos[i])

			if progress != nil {
				mu.Lock()
				done++
				progress(done, len(photos))
				mu.Unlock()
			}
		}(i)
	}

	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	result := &Result{Photos: len(photos), Faces: []FaceRecord{}, Skipped: []SkippedPhoto{}}
	for i, r := range results {
		if r.err != nil {
			s.log.Warn().Err(r.err).Str("photo_id", photos[i].ID).Msg("skipping photo")
			result.Skipped = append(result.Skipped, SkippedPhoto{PhotoID: photos[i].ID, Error: r.err.Error()})
			if s.observer != nil {
				s.observer.PhotoSkipped()
			}
			continue
		}
		result.Faces = append(result.Faces, r.faces...)
		if s.observer != nil {
			s.observer.PhotoScanned(len(r.faces))
		}
	}

	if err := CheckUnique(result.Faces); err != nil {
		return nil, err
	}

	s.log.Debug().
		Int("photos", result.Photos).
		Int("faces", len(result.Faces)).
		Int("skipped", len(result.Skipped)).
		Msg("scan finished")

	return result, nil
}

func (s *Scanner) scanPhoto(ctx context.Context, p photo.Photo) photoResult {
	if s.cache != nil {
		cached, ok, err := s.cache.LoadFaces(ctx, p)
		if err != nil {
			s.log.Warn().Err(err).Str("photo_id", p.ID).Msg("face cache lookup failed")
		} else if ok {
			return photoResult{faces: cached}
		}
	}

	image, err := s.loader.ReadImage(ctx, p)
	if err != nil {
		return photoResult{err: fmt.Errorf("read photo %s: %w", p.ID, err)}
	}

	records, err := Extract(ctx, p, image, s.detector)
	if err != nil {
		return photoResult{err: err}
	}

	if s.cache != nil {
		if err := s.cache.SaveFaces(ctx, p, records); err != nil {
			s.log.Warn().Err(err).Str("photo_id", p.ID).Msg("face cache store failed")
		}
	}
	return photoResult{faces: records}
}
