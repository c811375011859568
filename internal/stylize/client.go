package stylize

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"
)

// Client talks to the external background-removal service that turns a
// raw entrance capture into the event souvenir photo: the guest cut out
// and composited onto the event backdrop. The step is optional; callers
// fall back to the raw capture when it fails.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
}

func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		// Segmentation models are slow; allow more headroom than the
		// recognizer gets.
		http: &http.Client{Timeout: 60 * time.Second},
	}
}

// Stylize submits the capture and returns the composited image bytes
// with their mime type.
func (c *Client) Stylize(ctx context.Context, image []byte, filename string) ([]byte, string, error) {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile("image", filename)
	if err != nil {
		return nil, "", err
	}
	part.Write(image)
	writer.Close()

	req, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+"/composite", body)
	if err != nil {
		return nil, "", err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	if c.apiKey != "" {
		req.Header.Set("X-Api-Key", c.apiKey)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, "", err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", err
	}
	if resp.StatusCode >= 400 {
		return nil, "", fmt.Errorf("stylizer error: %s - %s", resp.Status, string(respBody))
	}
	if len(respBody) == 0 {
		return nil, "", fmt.Errorf("stylizer returned empty image")
	}

	mimeType := resp.Header.Get("Content-Type")
	if !strings.HasPrefix(mimeType, "image/") {
		mimeType = "image/jpeg"
	}
	return respBody, mimeType, nil
}
