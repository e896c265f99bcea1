package detector

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/kozaktomas/lifeline/internal/faces"
)

// ImageInfo is what the decode gate learns about an image before it is sent
// to the detection service.
type ImageInfo struct {
	Format string
	Width  int
	Height int
}

// MIMEType returns the content type for the decoded format.
func (i ImageInfo) MIMEType() string {
	if i.Format == "" {
		return "application/octet-stream"
	}
	return "image/" + i.Format
}

// Inspect decodes the image header. Unknown or corrupt data is reported as
// faces.ErrDecode.
func Inspect(data []byte) (ImageInfo, error) {
	if len(data) == 0 {
		return ImageInfo{}, fmt.Errorf("%w: empty image", faces.ErrDecode)
	}
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return ImageInfo{}, fmt.Errorf("%w: %w", faces.ErrDecode, err)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		return ImageInfo{}, fmt.Errorf("%w: invalid dimensions %dx%d", faces.ErrDecode, cfg.Width, cfg.Height)
	}
	return ImageInfo{Format: format, Width: cfg.Width, Height: cfg.Height}, nil
}
