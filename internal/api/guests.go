package api

import (
	"errors"
	"net/http"

	"event-checkin/internal/dispatch"
	"event-checkin/internal/registry"
	pkgmodels "event-checkin/pkg/models"

	"github.com/gin-gonic/gin"
)

type GuestHandler struct {
	Registry *registry.Registry
}

func NewGuestHandler(reg *registry.Registry) *GuestHandler {
	return &GuestHandler{Registry: reg}
}

func (h *GuestHandler) GetGuests(c *gin.Context) {
	guests, err := h.Registry.List()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, guests)
}

// ImportGuests upserts a batch of roster rows. Drive share links are
// rewritten to direct download URLs before storage.
func (h *GuestHandler) ImportGuests(c *gin.Context) {
	var rows []pkgmodels.ImportRow
	if err := c.ShouldBindJSON(&rows); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	for i := range rows {
		rows[i].ImageURL = dispatch.DirectDriveLink(rows[i].ImageURL)
	}

	enrolled, err := h.Registry.UpsertBatch(rows)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success", "enrolled": enrolled})
}

func (h *GuestHandler) DeleteGuest(c *gin.Context) {
	deleted, err := h.Registry.Remove(c.Param("name"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if !deleted {
		c.JSON(http.StatusNotFound, gin.H{"error": "Guest not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success"})
}

// ToggleEntered flips the check-in flag, the manual correction used when
// a guest was admitted without a scan.
func (h *GuestHandler) ToggleEntered(c *gin.Context) {
	entered, err := h.Registry.ToggleEntered(c.Param("name"))
	if err != nil {
		if errors.Is(err, registry.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Guest not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success", "entered": entered})
}
