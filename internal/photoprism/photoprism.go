// Package photoprism is a minimal PhotoPrism API client: session handling,
// photo search and original file download.
package photoprism

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/kozaktomas/lifeline/internal/constants"
)

// PhotoPrism represents a client for the PhotoPrism API
type PhotoPrism struct {
	Url           string
	parsedURL     *url.URL
	client        *http.Client
	token         string
	downloadToken string
	userUID       string
	maxDownload   int64
}

// Option configures the client.
type Option func(*PhotoPrism)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(pp *PhotoPrism) {
		if hc != nil {
			pp.client = hc
		}
	}
}

// WithMaxDownloadSize overrides the largest file GetFileDownload accepts.
func WithMaxDownloadSize(n int64) Option {
	return func(pp *PhotoPrism) {
		if n > 0 {
			pp.maxDownload = n
		}
	}
}

// resolveURL builds a full URL from the base API URL and the given path segments.
// If the last segment contains a query string (e.g. "photos?count=10"), it is
// split so JoinPath only receives the path portion and the query is appended.
func (pp *PhotoPrism) resolveURL(pathSegments ...string) string {
	if len(pathSegments) == 0 {
		return pp.parsedURL.String()
	}
	last := pathSegments[len(pathSegments)-1]
	if pathPart, query, ok := strings.Cut(last, "?"); ok {
		pathSegments[len(pathSegments)-1] = pathPart
		result := pp.parsedURL.JoinPath(pathSegments...)
		result.RawQuery = query
		return result.String()
	}
	return pp.parsedURL.JoinPath(pathSegments...).String()
}

// authResponse is the PhotoPrism session response. Fields use unexported names
// with explicit JSON decoding to keep tokens out of accidental serialisation.
type authResponse struct {
	id     string
	token  string
	config struct {
		downloadToken string
	}
	user struct {
		uid string
	}
}

func (a *authResponse) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("unmarshal auth response: %w", err)
	}
	_ = json.Unmarshal(raw["id"], &a.id)
	_ = json.Unmarshal(raw["access_token"], &a.token)

	var cfg map[string]json.RawMessage
	if err := json.Unmarshal(raw["config"], &cfg); err == nil {
		_ = json.Unmarshal(cfg["downloadToken"], &a.config.downloadToken)
	}

	var usr map[string]json.RawMessage
	if err := json.Unmarshal(raw["user"], &usr); err == nil {
		_ = json.Unmarshal(usr["UID"], &a.user.uid)
	}
	return nil
}

// readErrorBody reads the response body for error messages.
// Returns empty string if reading fails (we're already in an error path).
func readErrorBody(r io.Reader) string {
	body, err := io.ReadAll(r)
	if err != nil {
		return "(could not read error body)"
	}
	return string(body)
}

// NewPhotoPrism creates a new PhotoPrism client and opens a session
func NewPhotoPrism(ctx context.Context, rawURL, username, password string, opts ...Option) (*PhotoPrism, error) {
	apiURL := strings.TrimSuffix(rawURL, "/") + "/api/v1"
	parsed, err := url.Parse(apiURL)
	if err != nil {
		return nil, fmt.Errorf("invalid PhotoPrism URL: %w", err)
	}
	pp := &PhotoPrism{Url: apiURL, parsedURL: parsed, client: http.DefaultClient, maxDownload: constants.MaxImageSize}
	for _, opt := range opts {
		opt(pp)
	}
	if err := pp.auth(ctx, username, password); err != nil {
		return nil, fmt.Errorf("could not authenticate: %w", err)
	}

	return pp, nil
}

func (pp *PhotoPrism) auth(ctx context.Context, username, password string) error {
	inputBody, err := json.Marshal(map[string]string{
		"username": username,
		"password": password,
	})
	if err != nil {
		return fmt.Errorf("could not marshal input: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, pp.resolveURL("sessions"), bytes.NewReader(inputBody))
	if err != nil {
		return fmt.Errorf("could not create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := pp.client.Do(req) //nolint:gosec // URL constructed from validated parsedURL via resolveURL
	if err != nil {
		return fmt.Errorf("could not send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return statusError("login", resp)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("could not read response body: %w", err)
	}

	var result authResponse
	if err := json.Unmarshal(body, &result); err != nil {
		return fmt.Errorf("could not unmarshal response: %w", err)
	}
	if result.token == "" {
		return errors.New("session response carried no access token")
	}

	pp.token = result.token
	pp.downloadToken = result.config.downloadToken
	pp.userUID = result.user.uid

	return nil
}

// Logout deletes the current session (logout)
func (pp *PhotoPrism) Logout(ctx context.Context) error {
	if pp.token == "" {
		return nil // Already logged out
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, pp.resolveURL("session"), nil)
	if err != nil {
		return fmt.Errorf("could not create request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+pp.token)

	resp, err := pp.client.Do(req) //nolint:gosec // URL constructed from validated parsedURL via resolveURL
	if err != nil {
		return fmt.Errorf("could not send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return statusError("logout", resp)
	}

	pp.token = ""
	pp.downloadToken = ""

	return nil
}
