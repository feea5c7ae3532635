package handler

import (
	"context"
	"net/http"

	"address-search/internal/models"
	"address-search/internal/service"

	"github.com/gin-gonic/gin"
)

// SearchHandler handles one-shot search requests
type SearchHandler struct {
	service SearchService
}

// SearchService interface for dependency injection
type SearchService interface {
	Search(context.Context, string) (service.SearchResult, error)
}

// NewSearchHandler creates a new search handler
func NewSearchHandler(svc SearchService) *SearchHandler {
	return &SearchHandler{service: svc}
}

type searchResponse struct {
	Query       string            `json:"query"`
	Generation  uint64            `json:"generation"`
	Buckets     models.Buckets    `json:"buckets"`
	RateLimited bool              `json:"rateLimited"`
	Sections    []service.Section `json:"sections"`
}

func newSearchResponse(r service.SearchResult) searchResponse {
	return searchResponse{
		Query:       r.Query,
		Generation:  r.Generation,
		Buckets:     r.Buckets,
		RateLimited: r.RateLimited,
		Sections:    service.Sections(r),
	}
}

// Search handles GET /search requests
//
//	@Summary	Search an address across all lookup sources
//	@Produce	json
//	@Param		q	query		string	true	"address text"
//	@Success	200	{object}	searchResponse
//	@Failure	400	{object}	map[string]string
//	@Router		/search [get]
func (h *SearchHandler) Search(c *gin.Context) {
	query := c.Query("q")
	if query == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing required query parameter 'q'"})
		return
	}

	result, err := h.service.Search(c.Request.Context(), query)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.JSON(http.StatusOK, newSearchResponse(result))
}
