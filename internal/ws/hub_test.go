package ws

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dialHub(t *testing.T, hub *Hub) *websocket.Conn {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(hub.ServeWs))
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func TestHubDeliversTypedEvents(t *testing.T) {
	hub := NewHub(zerolog.Nop())
	go hub.Run()

	conn := dialHub(t, hub)
	// Give the register channel a moment to land before broadcasting.
	time.Sleep(20 * time.Millisecond)

	hub.NotifyStatus(map[string]string{"state": "connected"})

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, payload, err := conn.ReadMessage()
	require.NoError(t, err)

	var event WSEvent
	require.NoError(t, json.Unmarshal(payload, &event))
	assert.Equal(t, "status_update", event.Type)
	assert.Equal(t, map[string]interface{}{"state": "connected"}, event.Data)
}

func TestHubSkipsUnmarshalableEvents(t *testing.T) {
	hub := NewHub(zerolog.Nop())
	go hub.Run()

	conn := dialHub(t, hub)
	time.Sleep(20 * time.Millisecond)

	// Channels cannot be marshaled; the event is dropped, not delivered.
	hub.BroadcastEvent("status_update", make(chan int))
	hub.NotifyDispatch(map[string]string{"recipient": "911234567890"})

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, payload, err := conn.ReadMessage()
	require.NoError(t, err)

	var event WSEvent
	require.NoError(t, json.Unmarshal(payload, &event))
	assert.Equal(t, "dispatch_result", event.Type)
}
