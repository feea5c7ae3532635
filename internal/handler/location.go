package handler

import (
	"net/http"

	"address-search/internal/models"

	"github.com/gin-gonic/gin"
)

// LocationHandler handles device location updates
type LocationHandler struct {
	provider LocationProvider
}

// LocationProvider interface for dependency injection
type LocationProvider interface {
	Latest() models.Coordinate
	Update(models.Coordinate) error
}

// NewLocationHandler creates a new location handler
func NewLocationHandler(provider LocationProvider) *LocationHandler {
	return &LocationHandler{provider: provider}
}

type locationRequest struct {
	Latitude  *float64 `json:"latitude" binding:"required"`
	Longitude *float64 `json:"longitude" binding:"required"`
}

// UpdateLocation handles PUT /location requests
//
//	@Summary	Update the most recent known location
//	@Accept		json
//	@Produce	json
//	@Success	200	{object}	models.Coordinate
//	@Failure	400	{object}	map[string]string
//	@Router		/location [put]
func (h *LocationHandler) UpdateLocation(c *gin.Context) {
	var req locationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing required fields 'latitude' and 'longitude'"})
		return
	}

	coord := models.Coordinate{Latitude: *req.Latitude, Longitude: *req.Longitude}
	if err := h.provider.Update(coord); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, coord)
}

// GetLocation handles GET /location requests
//
//	@Summary	Most recent known location
//	@Produce	json
//	@Success	200	{object}	models.Coordinate
//	@Router		/location [get]
func (h *LocationHandler) GetLocation(c *gin.Context) {
	c.JSON(http.StatusOK, h.provider.Latest())
}
