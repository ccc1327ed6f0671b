package fetch

import (
	"context"
	"errors"
	"fmt"
)

// ErrInvalidShareLink is returned when no file identifier can be extracted
// from a share-link URL.
var ErrInvalidShareLink = errors.New("could not extract file ID from share link")

// DownloadError reports a failed download attempt. Status is zero when the
// failure happened before any HTTP response (network error, timeout).
type DownloadError struct {
	URL    string
	Status int
	Err    error
}

func (e *DownloadError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("download failed with status %d: %s", e.Status, e.URL)
	}
	return fmt.Sprintf("download failed: %s: %v", e.URL, e.Err)
}

func (e *DownloadError) Unwrap() error { return e.Err }

// Fetcher resolves a URL (direct or share link) into a local file.
// Concrete implementation wraps plain HTTP GET plus a Google Drive resolver.
type Fetcher interface {
	// Fetch downloads url into dstPath. A single attempt, no retries.
	Fetch(ctx context.Context, url, dstPath string) error
}
