package api

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"event-checkin/internal/dispatch"
	"event-checkin/internal/media"
	"event-checkin/internal/recognize"
	"event-checkin/internal/registry"
	"event-checkin/internal/ws"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// captureGrace is how long a confirmed capture stays on disk after the
// background send starts, so a slow upload is never cut off.
const captureGrace = 15 * time.Second

// Recognizer is the external face-matching capability. The engine only
// consumes the identity label it returns.
type Recognizer interface {
	Recognize(ctx context.Context, image []byte, filename string) (*recognize.Result, error)
}

// Stylizer turns a raw capture into the event souvenir photo. Optional;
// a nil Stylizer or a stylize failure means the raw capture is sent.
type Stylizer interface {
	Stylize(ctx context.Context, image []byte, filename string) ([]byte, string, error)
}

type CheckinHandler struct {
	Recognizer Recognizer
	Registry   *registry.Registry
	Captures   *media.Store
	Dispatcher *dispatch.Dispatcher
	Stylizer   Stylizer
	Hub        *ws.Hub
	log        zerolog.Logger
}

func NewCheckinHandler(rec Recognizer, reg *registry.Registry, captures *media.Store, dispatcher *dispatch.Dispatcher, stylizer Stylizer, hub *ws.Hub, log zerolog.Logger) *CheckinHandler {
	return &CheckinHandler{
		Recognizer: rec,
		Registry:   reg,
		Captures:   captures,
		Dispatcher: dispatcher,
		Stylizer:   stylizer,
		Hub:        hub,
		log:        log.With().Str("component", "checkin").Logger(),
	}
}

// ScanFace matches a captured image against the roster. Match status is
// reported here; the notification outcome is produced separately by
// Confirm, so the operator can tell "recognized but message failed" from
// "recognized and notified".
func (h *CheckinHandler) ScanFace(c *gin.Context) {
	data, ok := h.readImage(c)
	if !ok {
		return
	}

	tempID, err := h.Captures.Save(data)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	result, err := h.Recognizer.Recognize(c.Request.Context(), data, tempID)
	if err != nil {
		h.Captures.Discard(tempID)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if !result.Matched {
		h.Captures.Discard(tempID)
		c.JSON(http.StatusOK, gin.H{"status": "unknown"})
		return
	}

	guest, err := h.Registry.Get(result.Name)
	if err != nil {
		h.Captures.Discard(tempID)
		if errors.Is(err, registry.ErrNotFound) {
			// Face recognized but nobody by that name is expected. Kept
			// distinct from a plain non-match so the operator sees it.
			c.JSON(http.StatusOK, gin.H{"status": "unregistered", "name": result.Name})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "matched",
		"name":    guest.Name,
		"seat":    guest.Seat,
		"temp_id": tempID,
	})
}

// ManualEntry is the fail-safe when recognition cannot identify someone:
// the operator keys in the guest's phone number instead.
func (h *CheckinHandler) ManualEntry(c *gin.Context) {
	data, ok := h.readImage(c)
	if !ok {
		return
	}

	digits := digitsOnly(c.PostForm("phone"))
	if len(digits) > 10 {
		digits = digits[len(digits)-10:]
	}
	if digits == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No phone provided"})
		return
	}

	guest, err := h.Registry.FindByPhoneSuffix(digits)
	if err != nil {
		if errors.Is(err, registry.ErrNotFound) {
			c.JSON(http.StatusOK, gin.H{"status": "unknown"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	tempID, err := h.Captures.Save(data)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "matched",
		"name":    guest.Name,
		"seat":    guest.Seat,
		"temp_id": tempID,
	})
}

type ConfirmRequest struct {
	Name   string `json:"name" binding:"required"`
	TempID string `json:"temp_id" binding:"required"`
}

// Confirm acknowledges immediately and notifies the guest in the
// background with their captured photo attached. The guest is marked
// entered as soon as their record is confirmed, independent of whether
// the message goes through.
func (h *CheckinHandler) Confirm(c *gin.Context) {
	var req ConfirmRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusAccepted, gin.H{"status": "queued", "message": "Processing in background"})

	go h.process(req.Name, req.TempID)
}

func (h *CheckinHandler) process(name, tempID string) {
	photo, err := h.Captures.Load(tempID)
	if err != nil {
		h.log.Error().Err(err).Str("guest", name).Msg("Capture missing for confirmed visit")
		return
	}
	defer h.Captures.DiscardAfter(tempID, captureGrace)

	if _, err := h.Registry.Get(name); err == nil {
		if err := h.Registry.SetEntered(name, true); err != nil {
			h.log.Warn().Err(err).Str("guest", name).Msg("Failed to mark guest entered")
		}
	}

	photo, mimeType := h.stylize(name, tempID, photo)

	result := h.Dispatcher.Dispatch(context.Background(), name, photo, mimeType)
	if h.Hub != nil {
		h.Hub.NotifyDispatch(result)
	}
}

// stylize swaps the raw capture for the souvenir composite when the
// stylizer is configured and succeeds. Any failure falls back to the
// capture; the guest always gets a photo.
func (h *CheckinHandler) stylize(name, tempID string, photo []byte) ([]byte, string) {
	if h.Stylizer == nil {
		return photo, "image/jpeg"
	}
	styled, mimeType, err := h.Stylizer.Stylize(context.Background(), photo, tempID)
	if err != nil {
		h.log.Warn().Err(err).Str("guest", name).Msg("Stylize failed, sending raw capture")
		return photo, "image/jpeg"
	}
	h.log.Info().Str("guest", name).Msg("Souvenir photo created")
	return styled, mimeType
}

func (h *CheckinHandler) readImage(c *gin.Context) ([]byte, bool) {
	file, err := c.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No image"})
		return nil, false
	}
	f, err := file.Open()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return nil, false
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return nil, false
	}
	return data, true
}

func digitsOnly(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
