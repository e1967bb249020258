package handlers

import (
	"CarePoint/services"
	"errors"

	"github.com/gin-gonic/gin"
)

// respondError translates domain errors into HTTP status codes.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrNotFound):
		c.JSON(404, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrSchedulingConflict):
		c.JSON(409, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrInvalidTransition):
		c.JSON(422, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrValidation):
		c.JSON(400, gin.H{"error": err.Error()})
	case errors.Is(err, services.ErrTransient):
		c.JSON(503, gin.H{"error": "service busy, retry shortly"})
	default:
		c.JSON(500, gin.H{"error": err.Error()})
	}
}
