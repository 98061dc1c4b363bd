package handlers

import (
	"errors"
	"net/http"

	"quantmind/quant"
	"quantmind/service"

	"github.com/gin-gonic/gin"
	"github.com/phuslu/log"
)

// respondError maps service errors onto status codes with a message the
// dashboard can show as is.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrSuperseded):
		c.JSON(http.StatusConflict, gin.H{"error": "A newer request for this ticker replaced this one"})
	case errors.Is(err, quant.ErrInvalidParameter):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, quant.ErrInsufficientData):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	case errors.Is(err, quant.ErrUpstreamUnavailable):
		c.JSON(http.StatusBadGateway, gin.H{
			"error":   "Failed to fetch market data. Please try again.",
			"details": err.Error(),
		})
	default:
		log.Error().Str("path", c.Request.URL.Path).Err(err).Msg("unhandled error")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}
