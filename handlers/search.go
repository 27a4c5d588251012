package handlers

import (
	"net/http"

	"karaoke/services"
	"karaoke/types"

	"github.com/gin-gonic/gin"
)

// SearchHandler handles search endpoints
type SearchHandler struct {
	catalogue *services.Catalogue
}

// NewSearchHandler creates a new search handler
func NewSearchHandler(catalogue *services.Catalogue) *SearchHandler {
	return &SearchHandler{
		catalogue: catalogue,
	}
}

// Search looks up songs by title or artist in one catalogue.
// Short queries return an empty array rather than an error.
func (h *SearchHandler) Search(c *gin.Context) {
	query := c.Query("q")
	source := c.DefaultQuery("source", types.SourceKaraFun)

	c.JSON(http.StatusOK, h.catalogue.Search(query, source))
}
