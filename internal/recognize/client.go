package recognize

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"
)

// Result of one recognition attempt. Name is set only when Matched.
type Result struct {
	Matched bool
	Name    string
}

// Client talks to the external face-recognition service. The engine only
// consumes the identity label; the model itself is out of scope.
type Client struct {
	baseURL string
	http    *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 30 * time.Second},
	}
}

// Recognize submits a captured image and returns the match decision.
func (c *Client) Recognize(ctx context.Context, image []byte, filename string) (*Result, error) {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile("image", filename)
	if err != nil {
		return nil, err
	}
	part.Write(image)
	writer.Close()

	req, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+"/recognize", body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("recognizer error: %s - %s", resp.Status, string(respBody))
	}

	var payload struct {
		Status string `json:"status"`
		Match  bool   `json:"match"`
		Name   string `json:"name"`
	}
	if err := json.Unmarshal(respBody, &payload); err != nil {
		return nil, err
	}

	name := strings.TrimSpace(payload.Name)
	if (payload.Status == "matched" || payload.Match) && name != "" {
		return &Result{Matched: true, Name: name}, nil
	}
	return &Result{}, nil
}
