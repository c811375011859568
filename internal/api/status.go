package api

import (
	"net/http"

	"event-checkin/internal/channel"

	"github.com/gin-gonic/gin"
)

// StatusHandler is the read-only polling surface for the channel session.
type StatusHandler struct {
	Manager *channel.Manager
}

func NewStatusHandler(manager *channel.Manager) *StatusHandler {
	return &StatusHandler{Manager: manager}
}

// GetStatus projects the current connection state. Safe to poll on any
// schedule; it never mutates anything.
func (h *StatusHandler) GetStatus(c *gin.Context) {
	snap := h.Manager.Snapshot()

	resp := gin.H{
		"connected": snap.State == channel.StateConnected,
	}
	if snap.AccountLabel != "" {
		resp["account_label"] = snap.AccountLabel
	}
	if snap.PairingArtifact != "" {
		resp["pairing_artifact"] = snap.PairingArtifact
	}
	if snap.SignalIndicator != "" {
		resp["signal"] = snap.SignalIndicator
	}

	c.JSON(http.StatusOK, resp)
}
