package api

import (
	"net/http"

	"event-checkin/internal/dispatch"
	pkgmodels "event-checkin/pkg/models"

	"github.com/gin-gonic/gin"
)

type BroadcastHandler struct {
	Jobs *dispatch.JobRunner
}

func NewBroadcastHandler(jobs *dispatch.JobRunner) *BroadcastHandler {
	return &BroadcastHandler{Jobs: jobs}
}

type BroadcastRequest struct {
	Template string                   `json:"template"`
	Rows     []pkgmodels.BroadcastRow `json:"rows" binding:"required"`
}

// StartBroadcast launches a paced background send over all rows and
// returns immediately with the job id. Progress is inspected via
// GetBroadcast or the websocket stream, never by blocking here.
func (h *BroadcastHandler) StartBroadcast(c *gin.Context) {
	var req BroadcastRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if len(req.Rows) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No rows to broadcast"})
		return
	}

	jobID := h.Jobs.Start(req.Rows, req.Template)
	c.JSON(http.StatusAccepted, gin.H{"status": "started", "job_id": jobID})
}

func (h *BroadcastHandler) GetBroadcast(c *gin.Context) {
	job, ok := h.Jobs.Get(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Job not found"})
		return
	}
	c.JSON(http.StatusOK, job)
}

// CancelBroadcast stops a running job between rows. Rows already
// processed keep their recorded outcome.
func (h *BroadcastHandler) CancelBroadcast(c *gin.Context) {
	if !h.Jobs.Cancel(c.Param("id")) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Job not found or already finished"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "cancelling"})
}
