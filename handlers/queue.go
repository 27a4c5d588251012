package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"karaoke/services"
	"karaoke/websocket"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"
)

// QueueHandler handles the guest-facing queue endpoints
type QueueHandler struct {
	queue  services.QueueCoordinator
	hub    websocket.Hub
	logger *log.Logger
}

// NewQueueHandler creates a new queue handler
func NewQueueHandler(queue services.QueueCoordinator, hub websocket.Hub, logger *log.Logger) *QueueHandler {
	return &QueueHandler{
		queue:  queue,
		hub:    hub,
		logger: logger,
	}
}

// SubmitRequest is the body of a song request
type SubmitRequest struct {
	Song       json.RawMessage `json:"song"`
	SingerName string          `json:"singerName"`
}

// Submit adds a song request to the end of the queue
func (h *QueueHandler) Submit(c *gin.Context) {
	var req SubmitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Missing song or name",
		})
		return
	}

	entry, err := h.queue.Submit(req.Song, req.SingerName)
	if err != nil {
		if errors.Is(err, services.ErrValidation) {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "Missing song or name",
			})
			return
		}
		h.logger.Error("submit failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "could not queue song",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"ok":    true,
		"entry": entry,
	})
}

// GetQueue returns the pending queue and the current song
func (h *QueueHandler) GetQueue(c *gin.Context) {
	c.JSON(http.StatusOK, h.queue.Snapshot())
}

// HandleWebSocketConnection upgrades to a websocket that receives every queue update
func (h *QueueHandler) HandleWebSocketConnection(c *gin.Context) {
	client, err := websocket.Serve(h.hub, c.Writer, c.Request)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", "error", err)
		return
	}
	h.logger.Debug("websocket upgraded", "client", client.ID())
}
