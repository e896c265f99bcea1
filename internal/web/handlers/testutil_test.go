package handlers

import (
	"bufio"
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/kozaktomas/lifeline/internal/faces"
	"github.com/kozaktomas/lifeline/internal/people"
	"github.com/kozaktomas/lifeline/internal/photo"
)

// requestWithChiParams creates a request with chi URL parameters
func requestWithChiParams(r *http.Request, params map[string]string) *http.Request {
	rctx := chi.NewRouteContext()
	for key, value := range params {
		rctx.URLParams.Add(key, value)
	}
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// testLibrary is an in-memory library whose image bytes are the photo id.
type testLibrary struct {
	photos  []photo.Photo
	listErr error
}

func (l *testLibrary) ListPhotos(ctx context.Context, r photo.DateRange) ([]photo.Photo, error) {
	if l.listErr != nil {
		return nil, l.listErr
	}
	out := []photo.Photo{}
	for _, p := range l.photos {
		if r.Contains(p.Timestamp) {
			out = append(out, p)
		}
	}
	return out, nil
}

func (l *testLibrary) ReadImage(ctx context.Context, p photo.Photo) ([]byte, error) {
	if p.ID == "missing" {
		return nil, errors.New("file not found")
	}
	return []byte(p.ID), nil
}

// dayMillis returns 10:00 UTC of the given June 2024 day in epoch ms.
func dayMillis(d int) int64 {
	return time.Date(2024, 6, d, 10, 0, 0, 0, time.UTC).UnixMilli()
}

// oneFaceDetector reports a single 40px face at a position derived from the image.
func oneFaceDetector() faces.Detector {
	return faces.DetectorFunc(func(ctx context.Context, image []byte) ([]faces.BoundingBox, error) {
		offset := float64(len(image))
		return []faces.BoundingBox{{Left: offset, Top: offset, Right: offset + 40, Bottom: offset + 40}}, nil
	})
}

func testPipeline(lib *testLibrary, d faces.Detector) *people.Pipeline {
	return &people.Pipeline{Library: lib, Detector: d, Concurrency: 2, Log: zerolog.Nop()}
}

// sseEvent is one parsed server-sent event.
type sseEvent struct {
	Name string
	Data string
}

// readSSE parses events from a stream until it ends.
func readSSE(t *testing.T, r io.Reader) []sseEvent {
	t.Helper()
	var events []sseEvent
	var current sseEvent
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1<<20)
	for scanner.Scan() {
		line := scanner.Text()
		switch {
		case strings.HasPrefix(line, "event: "):
			current.Name = strings.TrimPrefix(line, "event: ")
		case strings.HasPrefix(line, "data: "):
			current.Data = strings.TrimPrefix(line, "data: ")
		case line == "" && current.Name != "":
			events = append(events, current)
			current = sseEvent{}
		}
	}
	return events
}
