package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"casino-backend/internal/services"
)

// respondError maps service errors onto HTTP statuses.
func respondError(c *gin.Context, err error) {
	status, message := http.StatusInternalServerError, "Internal server error"

	switch {
	case errors.Is(err, services.ErrPlayerNotFound):
		status, message = http.StatusNotFound, "Player not found"
	case errors.Is(err, services.ErrSessionNotFound):
		status, message = http.StatusNotFound, "Session not found"
	case errors.Is(err, services.ErrInsufficientFunds):
		status, message = http.StatusBadRequest, "Insufficient balance"
	case errors.Is(err, services.ErrInvalidBet):
		status, message = http.StatusBadRequest, "Invalid bet"
	case errors.Is(err, services.ErrInvalidArgument):
		status, message = http.StatusBadRequest, "Invalid request"
	case errors.Is(err, services.ErrConflict):
		status, message = http.StatusConflict, "Concurrent update, retry the request"
	}

	c.JSON(status, gin.H{
		"error":   message,
		"details": err.Error(),
	})
}

func bindJSON(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid request",
			"details": err.Error(),
		})
		return false
	}
	return true
}
