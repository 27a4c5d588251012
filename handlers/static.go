package handlers

import (
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
)

// StaticHandler serves the guest and host pages
type StaticHandler struct {
	root string
}

// NewStaticHandler creates a handler serving files below root
func NewStaticHandler(root string) *StaticHandler {
	return &StaticHandler{
		root: root,
	}
}

// ServePage serves a file from the static directory, index.html for directories.
// It is installed as the router's NoRoute handler so API routes take precedence.
func (h *StaticHandler) ServePage(c *gin.Context) {
	if c.Request.Method != http.MethodGet && c.Request.Method != http.MethodHead {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}

	if strings.HasPrefix(c.Request.URL.Path, "/api/") {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}

	// path.Clean on a rooted path cannot climb above "/"
	requested := path.Clean("/" + c.Request.URL.Path)
	fullPath := filepath.Join(h.root, filepath.FromSlash(requested))

	info, err := os.Stat(fullPath)
	if err == nil && info.IsDir() {
		fullPath = filepath.Join(fullPath, "index.html")
		info, err = os.Stat(fullPath)
	}
	if err != nil || info.IsDir() {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}

	c.File(fullPath)
}
