package handlers

import (
	"net/http"
	"time"

	"karaoke/services"
	"karaoke/websocket"

	"github.com/gin-gonic/gin"
)

// HealthHandler handles health check endpoints
type HealthHandler struct {
	catalogue *services.Catalogue
	queue     services.QueueCoordinator
	hub       websocket.Hub
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(catalogue *services.Catalogue, queue services.QueueCoordinator, hub websocket.Hub) *HealthHandler {
	return &HealthHandler{
		catalogue: catalogue,
		queue:     queue,
		hub:       hub,
	}
}

// HealthCheck returns the health status of the service
func (h *HealthHandler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"service":   "karaoke",
		"version":   "1.0.0",
		"timestamp": time.Now().Unix(),
	})
}

// APIStatus reports catalogue sizes and live queue counters
func (h *HealthHandler) APIStatus(c *gin.Context) {
	snapshot := h.queue.Snapshot()
	c.JSON(http.StatusOK, gin.H{
		"message": "Karaoke API is running",
		"catalogues": gin.H{
			"karafun":         len(h.catalogue.KaraFun()),
			"jkaraoke":        len(h.catalogue.JKaraoke()),
			"jkaraokePopular": len(h.catalogue.JKaraokePopular()),
		},
		"pending": len(snapshot.Queue),
		"playing": snapshot.CurrentSong != nil,
		"clients": h.hub.ClientCount(),
	})
}
