package library

import (
	"context"
	"errors"
	"fmt"
	"hash/fnv"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/kozaktomas/lifeline/internal/constants"
	"github.com/kozaktomas/lifeline/internal/photo"
)

var imageExtensions = map[string]bool{
	".jpg": true, ".jpeg": true, ".png": true, ".gif": true,
	".bmp": true, ".webp": true, ".tif": true, ".tiff": true,
}

// Matches IMG_20240605_142233, PXL_20240605_142233123 and 20240605_142233.
var captureNamePattern = regexp.MustCompile(`(?:^|[^0-9])(\d{8})[_-](\d{6})(\d{3})?(?:[^0-9]|$)`)

// DirectorySource serves photos from a local directory tree.
type DirectorySource struct {
	root         string
	loc          *time.Location
	maxImageSize int64
}

// DirectoryOption configures a DirectorySource.
type DirectoryOption func(*DirectorySource)

// WithMaxImageSize overrides the largest file ReadImage accepts.
func WithMaxImageSize(n int64) DirectoryOption {
	return func(s *DirectorySource) {
		if n > 0 {
			s.maxImageSize = n
		}
	}
}

// NewDirectorySource creates a source rooted at dir. Capture times embedded in
// file names are interpreted in loc.
func NewDirectorySource(dir string, loc *time.Location, opts ...DirectoryOption) (*DirectorySource, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolve library dir: %w", err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("library dir: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("library dir %s is not a directory", abs)
	}
	if loc == nil {
		loc = time.Local
	}
	s := &DirectorySource{root: abs, loc: loc, maxImageSize: constants.MaxImageSize}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Root returns the absolute library directory.
func (s *DirectorySource) Root() string {
	return s.root
}

// ListPhotos walks the directory and returns images in the range.
// Hidden files and directories are skipped.
func (s *DirectorySource) ListPhotos(ctx context.Context, r photo.DateRange) ([]photo.Photo, error) {
	var photos []photo.Photo
	err := filepath.WalkDir(s.root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if strings.HasPrefix(d.Name(), ".") && path != s.root {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() || !imageExtensions[strings.ToLower(filepath.Ext(path))] {
			return nil
		}

		info, err := d.Info()
		if err != nil {
			return fmt.Errorf("stat %s: %w", path, err)
		}

		rel, err := filepath.Rel(s.root, path)
		if err != nil {
			return err
		}

		p := photo.Photo{
			ID:        PathID(rel),
			Locator:   FileLocator(path),
			Timestamp: photo.ResolveTimestamp(CaptureTimeFromName(d.Name(), s.loc), info.ModTime().Unix(), 0),
			Revision:  FileRevision(info),
		}
		if r.Contains(p.Timestamp) {
			photos = append(photos, p)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan library %s: %w", s.root, err)
	}

	slices.SortFunc(photos, sortNewestFirst)
	return photos, nil
}

// ReadImage reads the file behind a file:// locator. Paths outside the
// library root are rejected.
func (s *DirectorySource) ReadImage(ctx context.Context, p photo.Photo) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	path, err := LocatorPath(p.Locator)
	if err != nil {
		return nil, err
	}
	rel, err := filepath.Rel(s.root, path)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return nil, fmt.Errorf("%w: %s is outside the library", ErrNotFound, path)
	}

	info, err := os.Stat(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
	}
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}
	if info.Size() > s.maxImageSize {
		return nil, fmt.Errorf("%w: %s is %d bytes", ErrImageTooLarge, path, info.Size())
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return data, nil
}

// FileRevision stamps a file's size and modification time so a file replaced
// at the same path gets a new revision.
func FileRevision(info fs.FileInfo) string {
	return strconv.FormatInt(info.Size(), 16) + "-" + strconv.FormatInt(info.ModTime().UnixNano(), 16)
}

// PathID derives a stable photo id from a library-relative path.
func PathID(rel string) string {
	h := fnv.New64a()
	_, _ = h.Write([]byte(filepath.ToSlash(rel)))
	return strconv.FormatUint(h.Sum64(), 16)
}

// FileLocator returns the file:// URL for an absolute path.
func FileLocator(path string) string {
	return (&url.URL{Scheme: "file", Path: filepath.ToSlash(path)}).String()
}

// LocatorPath converts a file:// locator back to a filesystem path.
func LocatorPath(locator string) (string, error) {
	u, err := url.Parse(locator)
	if err != nil {
		return "", fmt.Errorf("invalid locator %q: %w", locator, err)
	}
	if u.Scheme != "file" || u.Path == "" {
		return "", fmt.Errorf("unsupported locator %q", locator)
	}
	return filepath.FromSlash(u.Path), nil
}

// CaptureTimeFromName parses a camera-style capture time from a file name and
// returns it in epoch milliseconds, or 0 when the name carries none.
func CaptureTimeFromName(name string, loc *time.Location) int64 {
	m := captureNamePattern.FindStringSubmatch(name)
	if m == nil {
		return 0
	}
	t, err := time.ParseInLocation("20060102150405", m[1]+m[2], loc)
	if err != nil {
		return 0
	}
	ms := t.UnixMilli()
	if m[3] != "" {
		frac, _ := strconv.Atoi(m[3])
		ms += int64(frac)
	}
	return ms
}
