package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"event-checkin/internal/channel"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type noopClient struct{}

func (noopClient) Connect(ctx context.Context) error { return nil }
func (noopClient) Disconnect()                       {}
func (noopClient) SendText(ctx context.Context, to, body string) error {
	return nil
}
func (noopClient) SendMedia(ctx context.Context, to string, data []byte, mimeType, caption string) error {
	return nil
}

func statusRouter(manager *channel.Manager) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/api/status", NewStatusHandler(manager).GetStatus)
	return r
}

func getStatus(t *testing.T, r *gin.Engine) map[string]interface{} {
	t.Helper()
	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/api/status", nil)
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func TestStatusDisconnected(t *testing.T) {
	manager := channel.NewManager(noopClient{}, zerolog.Nop())
	body := getStatus(t, statusRouter(manager))

	assert.Equal(t, false, body["connected"])
	assert.NotContains(t, body, "account_label")
	assert.NotContains(t, body, "pairing_artifact")
}

func TestStatusPairingExposesArtifact(t *testing.T) {
	manager := channel.NewManager(noopClient{}, zerolog.Nop())
	manager.OnPairingAvailable("qr-payload")

	body := getStatus(t, statusRouter(manager))
	assert.Equal(t, false, body["connected"])
	assert.Equal(t, "qr-payload", body["pairing_artifact"])
}

func TestStatusConnected(t *testing.T) {
	manager := channel.NewManager(noopClient{}, zerolog.Nop())
	manager.OnPairingAvailable("qr-payload")
	manager.OnConnected("919876543210")
	manager.SetSignal("78%")

	body := getStatus(t, statusRouter(manager))
	assert.Equal(t, true, body["connected"])
	assert.Equal(t, "919876543210", body["account_label"])
	assert.Equal(t, "78%", body["signal"])
	assert.NotContains(t, body, "pairing_artifact", "connecting clears the pairing artifact")
}
