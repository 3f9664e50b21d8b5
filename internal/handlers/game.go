package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"casino-backend/internal/models"
	"casino-backend/internal/services"
)

type GameHandler struct {
	casino *services.Casino
}

func NewGameHandler(casino *services.Casino) *GameHandler {
	return &GameHandler{casino: casino}
}

func (h *GameHandler) PlayRoulette(c *gin.Context) {
	var req models.RouletteBetRequest
	if !bindJSON(c, &req) {
		return
	}

	result, err := h.casino.PlayRoulette(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

func (h *GameHandler) PlaySlots(c *gin.Context) {
	var req models.SlotsBetRequest
	if !bindJSON(c, &req) {
		return
	}

	result, err := h.casino.PlaySlots(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

func (h *GameHandler) StartBlackjack(c *gin.Context) {
	var req models.BlackjackStartRequest
	if !bindJSON(c, &req) {
		return
	}

	view, err := h.casino.StartBlackjack(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, view)
}

func (h *GameHandler) HitBlackjack(c *gin.Context) {
	var req models.BlackjackActionRequest
	if !bindJSON(c, &req) {
		return
	}

	view, err := h.casino.Hit(c.Request.Context(), req.SessionID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, view)
}

func (h *GameHandler) StandBlackjack(c *gin.Context) {
	var req models.BlackjackActionRequest
	if !bindJSON(c, &req) {
		return
	}

	view, err := h.casino.Stand(c.Request.Context(), req.SessionID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, view)
}
