package stylize

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStylizeReturnsCompositeBytes(t *testing.T) {
	var gotKey string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/composite", r.URL.Path)
		gotKey = r.Header.Get("X-Api-Key")

		file, _, err := r.FormFile("image")
		require.NoError(t, err)
		file.Close()

		w.Header().Set("Content-Type", "image/jpeg")
		w.Write([]byte("composited"))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "secret")
	data, mimeType, err := c.Stylize(context.Background(), []byte{0xff, 0xd8}, "capture.jpg")

	require.NoError(t, err)
	assert.Equal(t, []byte("composited"), data)
	assert.Equal(t, "image/jpeg", mimeType)
	assert.Equal(t, "secret", gotKey)
}

func TestStylizeDefaultsMimeType(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/octet-stream")
		w.Write([]byte{0x01})
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "")
	_, mimeType, err := c.Stylize(context.Background(), []byte{0xff}, "a.jpg")

	require.NoError(t, err)
	assert.Equal(t, "image/jpeg", mimeType)
}

func TestStylizeServiceErrorSurfaces(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"model load failed"}`, http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "")
	_, _, err := c.Stylize(context.Background(), []byte{0xff}, "a.jpg")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "model load failed")
}

func TestStylizeRejectsEmptyResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/jpeg")
	}))
	defer srv.Close()

	c := NewClient(srv.URL, "")
	_, _, err := c.Stylize(context.Background(), []byte{0xff}, "a.jpg")

	require.Error(t, err)
}
