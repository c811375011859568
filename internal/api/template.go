package api

import (
	"net/http"

	"event-checkin/internal/message"

	"github.com/gin-gonic/gin"
)

type TemplateHandler struct {
	Templates *message.TemplateStore
}

func NewTemplateHandler(templates *message.TemplateStore) *TemplateHandler {
	return &TemplateHandler{Templates: templates}
}

func (h *TemplateHandler) GetTemplate(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"caption_template": h.Templates.Caption()})
}

type UpdateTemplateRequest struct {
	CaptionTemplate string `json:"caption_template" binding:"required"`
}

// UpdateTemplate replaces the check-in caption. Recognized placeholders
// are {name} and {seat}; anything else is sent verbatim.
func (h *TemplateHandler) UpdateTemplate(c *gin.Context) {
	var req UpdateTemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.Templates.SetCaption(req.CaptionTemplate); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "success", "caption_template": h.Templates.Caption()})
}
