package dispatch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"
)

var (
	driveIDParam = regexp.MustCompile(`[?&]id=([a-zA-Z0-9_-]+)`)
	driveDPath   = regexp.MustCompile(`/d/([a-zA-Z0-9_-]+)`)
)

// DirectDriveLink rewrites a Google Drive share link into a direct
// download URL; any other URL passes through unchanged.
func DirectDriveLink(url string) string {
	if url == "" {
		return ""
	}
	var fileID string
	if m := driveIDParam.FindStringSubmatch(url); m != nil {
		fileID = m[1]
	} else if m := driveDPath.FindStringSubmatch(url); m != nil {
		fileID = m[1]
	}
	if fileID != "" {
		return fmt.Sprintf("https://drive.google.com/thumbnail?id=%s&sz=w4000", fileID)
	}
	return url
}

// Fetcher retrieves the bytes behind a remote image reference.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (data []byte, mimeType string, err error)
}

// HTTPFetcher is the production Fetcher.
type HTTPFetcher struct {
	client *http.Client
}

func NewHTTPFetcher() *HTTPFetcher {
	return &HTTPFetcher{client: &http.Client{Timeout: 30 * time.Second}}
}

func (f *HTTPFetcher) Fetch(ctx context.Context, url string) ([]byte, string, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return nil, "", err
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return nil, "", fmt.Errorf("fetch failed: %s", resp.Status)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", err
	}

	mimeType := resp.Header.Get("Content-Type")
	if mimeType == "" || !strings.HasPrefix(mimeType, "image/") {
		mimeType = "image/jpeg"
	}
	return data, mimeType, nil
}
