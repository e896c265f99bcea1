package photoprism

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
)

// GetPhotos retrieves one page of photos matching query in the given order.
// Query examples: "after:2024-06-01 before:2024-07-01", "year:2024"
// Order examples: "newest", "oldest", "added"
func (pp *PhotoPrism) GetPhotos(ctx context.Context, count, offset int, query, order string) ([]Photo, error) {
	endpoint := fmt.Sprintf("photos?count=%d&offset=%d", count, offset)
	if query != "" {
		endpoint += "&q=" + url.QueryEscape(query)
	}
	if order != "" {
		endpoint += "&order=" + url.QueryEscape(order)
	}

	result, err := doGetJSON[[]Photo](ctx, pp, endpoint)
	if err != nil {
		return nil, err
	}
	return *result, nil
}

// ErrFileTooLarge is returned when a download exceeds the client's size limit.
var ErrFileTooLarge = errors.New("file too large")

// GetFileDownload downloads a file using its hash via the /api/v1/dl/{hash} endpoint.
// Returns the file content and its content type. Files larger than the
// configured limit fail with ErrFileTooLarge.
func (pp *PhotoPrism) GetFileDownload(ctx context.Context, fileHash string) ([]byte, string, error) {
	downloadURL := fmt.Sprintf("%s/dl/%s?t=%s", pp.Url, url.PathEscape(fileHash), url.QueryEscape(pp.downloadToken))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, downloadURL, nil)
	if err != nil {
		return nil, "", fmt.Errorf("could not create request: %w", err)
	}

	// The download endpoint authenticates via the token in the URL
	resp, err := pp.client.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("could not send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, "", statusError("download", resp)
	}

	if resp.ContentLength > pp.maxDownload {
		return nil, "", fmt.Errorf("%w: %d bytes", ErrFileTooLarge, resp.ContentLength)
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, pp.maxDownload+1))
	if err != nil {
		return nil, "", fmt.Errorf("could not read response body: %w", err)
	}
	if int64(len(data)) > pp.maxDownload {
		return nil, "", fmt.Errorf("%w: more than %d bytes", ErrFileTooLarge, pp.maxDownload)
	}

	return data, resp.Header.Get("Content-Type"), nil
}
