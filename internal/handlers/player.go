package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"casino-backend/internal/models"
	"casino-backend/internal/services"
)

type PlayerHandler struct {
	casino *services.Casino
}

func NewPlayerHandler(casino *services.Casino) *PlayerHandler {
	return &PlayerHandler{casino: casino}
}

func (h *PlayerHandler) CreatePlayer(c *gin.Context) {
	var req models.CreatePlayerRequest
	if !bindJSON(c, &req) {
		return
	}

	player, err := h.casino.CreatePlayer(c.Request.Context(), req.Nickname)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, player)
}

func (h *PlayerHandler) GetPlayer(c *gin.Context) {
	player, err := h.casino.GetPlayer(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, player)
}

func (h *PlayerHandler) GetHistory(c *gin.Context) {
	limit := int64(services.DefaultHistoryLimit)
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || n <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{
				"error":   "Invalid request",
				"details": "limit must be a positive integer",
			})
			return
		}
		limit = n
	}

	records, err := h.casino.History(c.Request.Context(), c.Param("id"), limit)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"player_id": c.Param("id"),
		"history":   records,
		"count":     len(records),
	})
}
