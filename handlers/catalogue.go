package handlers

import (
	"net/http"

	"karaoke/services"

	"github.com/gin-gonic/gin"
)

// CatalogueHandler serves the preloaded catalogues
type CatalogueHandler struct {
	catalogue *services.Catalogue
}

// NewCatalogueHandler creates a new catalogue handler
func NewCatalogueHandler(catalogue *services.Catalogue) *CatalogueHandler {
	return &CatalogueHandler{
		catalogue: catalogue,
	}
}

// JKaraoke returns the whole JKaraoke catalogue
func (h *CatalogueHandler) JKaraoke(c *gin.Context) {
	c.JSON(http.StatusOK, h.catalogue.JKaraoke())
}

// JKaraokePopular returns the JKaraoke popular list
func (h *CatalogueHandler) JKaraokePopular(c *gin.Context) {
	c.JSON(http.StatusOK, h.catalogue.JKaraokePopular())
}

// KaraFunGenres returns the KaraFun genre listing
func (h *CatalogueHandler) KaraFunGenres(c *gin.Context) {
	c.JSON(http.StatusOK, h.catalogue.KaraFunGenres())
}
