package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Yekna/dj-jukebox/internal/errs"
	"github.com/Yekna/dj-jukebox/internal/search"
)

// SearchHandler proxies video-metadata search to the external collaborator.
type SearchHandler struct {
	client *search.Client
}

// NewSearchHandler creates the search handler.
func NewSearchHandler(client *search.Client) *SearchHandler {
	return &SearchHandler{client: client}
}

// Search godoc
// GET /search?q=
func (h *SearchHandler) Search(c *gin.Context) {
	query := c.Query("q")
	if query == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "q is required"})
		return
	}
	results, err := h.client.Search(c.Request.Context(), query)
	switch {
	case err == nil:
		c.JSON(http.StatusOK, gin.H{"results": results})
	case errors.Is(err, errs.ErrSearchRateLimited):
		c.JSON(http.StatusTooManyRequests, gin.H{"error": "search rate limited"})
	default:
		c.JSON(http.StatusBadGateway, gin.H{"error": "search unavailable"})
	}
}
