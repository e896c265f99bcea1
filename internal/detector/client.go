// Package detector talks to the face detection service.
package detector

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"slices"
	"strings"
	"time"

	"github.com/kozaktomas/lifeline/internal/faces"
)

const (
	defaultURL     = "http://localhost:8000"
	detectEndpoint = "/embed/face"
)

// Client detects faces by posting images to the detection service.
// It implements faces.Detector.
type Client struct {
	baseURL  string
	client   *http.Client
	minScore float64
}

// Option configures the Client.
type Option func(*Client)

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.client.Timeout = d
		}
	}
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.client = hc
		}
	}
}

// WithMinScore drops detections whose confidence is below score.
func WithMinScore(score float64) Option {
	return func(c *Client) {
		c.minScore = score
	}
}

// NewClient creates a new detection client
func NewClient(baseURL string, opts ...Option) *Client {
	if baseURL == "" {
		baseURL = defaultURL
	}
	c := &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		client:  &http.Client{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Detection represents a single detected face
type Detection struct {
	FaceIndex   int       `json:"face_index"`
	BBox        []float64 `json:"bbox"`         // [x1, y1, x2, y2] in pixels
	BoxRelative []float64 `json:"box_relative"` // [x, y, w, h] in 0-1, used when bbox is absent
	DetScore    float64   `json:"det_score"`
}

// Response represents the response from the detection endpoint
type Response struct {
	FacesCount int         `json:"faces_count"`
	Faces      []Detection `json:"faces"`
	Model      string      `json:"model"`
}

// Detect decodes the image header, posts the image and converts the detections
// into pixel bounding boxes ordered by face index.
func (c *Client) Detect(ctx context.Context, image []byte) ([]faces.BoundingBox, error) {
	info, err := Inspect(image)
	if err != nil {
		return nil, err
	}

	body, err := c.postMultipartImage(ctx, detectEndpoint, image, info)
	if err != nil {
		return nil, err
	}

	var resp Response
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	detections := slices.Clone(resp.Faces)
	slices.SortStableFunc(detections, func(a, b Detection) int {
		return a.FaceIndex - b.FaceIndex
	})

	boxes := make([]faces.BoundingBox, 0, len(detections))
	for _, d := range detections {
		if d.DetScore < c.minScore {
			continue
		}
		box, err := toBox(d, info)
		if err != nil {
			return nil, err
		}
		boxes = append(boxes, box)
	}
	return boxes, nil
}

func toBox(d Detection, info ImageInfo) (faces.BoundingBox, error) {
	if box, ok := faces.BoxFromCorners(d.BBox); ok {
		return box, nil
	}
	if len(d.BoxRelative) == 4 {
		r := d.BoxRelative
		return faces.BoxFromRelative(r[0], r[1], r[2], r[3], info.Width, info.Height), nil
	}
	return faces.BoundingBox{}, fmt.Errorf("face %d has malformed bbox %v", d.FaceIndex, d.BBox)
}

// postMultipartImage constructs a multipart form with the image data and posts it to the given endpoint.
func (c *Client) postMultipartImage(ctx context.Context, endpoint string, imageData []byte, info ImageInfo) ([]byte, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename="image.%s"`, info.Format))
	h.Set("Content-Type", info.MIMEType())
	part, err := writer.CreatePart(h)
	if err != nil {
		return nil, fmt.Errorf("failed to create form file: %w", err)
	}

	if _, err := part.Write(imageData); err != nil {
		return nil, fmt.Errorf("failed to write image data: %w", err)
	}

	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("failed to close multipart writer: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+endpoint, &buf)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("API error (status %d): %s", resp.StatusCode, string(body))
	}

	return body, nil
}
