package handlers

import (
	"net/http"
	"strconv"

	"karaoke/services"

	"github.com/gin-gonic/gin"
)

// HostHandler handles the host's queue controls
type HostHandler struct {
	queue services.QueueCoordinator
}

// NewHostHandler creates a new host handler
func NewHostHandler(queue services.QueueCoordinator) *HostHandler {
	return &HostHandler{
		queue: queue,
	}
}

// ReorderRequest carries the full desired order of queue ids
type ReorderRequest struct {
	OrderedIDs []int64 `json:"orderedIds"`
}

// Next moves the first waiting request into the current slot
func (h *HostHandler) Next(c *gin.Context) {
	current := h.queue.Advance()
	c.JSON(http.StatusOK, gin.H{
		"ok":          true,
		"currentSong": current,
	})
}

// Done clears the current song
func (h *HostHandler) Done(c *gin.Context) {
	h.queue.Complete()
	h.respondWithState(c)
}

// Remove drops a request from the queue
func (h *HostHandler) Remove(c *gin.Context) {
	id, ok := queueIDParam(c)
	if !ok {
		return
	}

	h.queue.Remove(id)
	h.respondWithState(c)
}

// Reorder replaces the queue order; ids left out are removed from the queue
func (h *HostHandler) Reorder(c *gin.Context) {
	var req ReorderRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.OrderedIDs == nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "orderedIds must be an array of queue ids",
		})
		return
	}

	h.queue.Reorder(req.OrderedIDs)
	h.respondWithState(c)
}

// MoveUp moves a request one place towards the front
func (h *HostHandler) MoveUp(c *gin.Context) {
	id, ok := queueIDParam(c)
	if !ok {
		return
	}

	h.queue.MoveUp(id)
	h.respondWithState(c)
}

// MoveDown moves a request one place towards the back
func (h *HostHandler) MoveDown(c *gin.Context) {
	id, ok := queueIDParam(c)
	if !ok {
		return
	}

	h.queue.MoveDown(id)
	h.respondWithState(c)
}

func (h *HostHandler) respondWithState(c *gin.Context) {
	snapshot := h.queue.Snapshot()
	c.JSON(http.StatusOK, gin.H{
		"ok":          true,
		"queue":       snapshot.Queue,
		"currentSong": snapshot.CurrentSong,
	})
}

// queueIDParam parses :queueId, writing a 400 when it is not a number
func queueIDParam(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("queueId"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "queue ID must be a number",
		})
		return 0, false
	}
	return id, true
}
