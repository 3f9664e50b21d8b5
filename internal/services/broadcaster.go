package services

import "casino-backend/internal/models"

// Broadcaster is notified of every settled bet.
type Broadcaster interface {
	BroadcastBet(h *models.BetHistory)
}

type noopBroadcaster struct{}

func (noopBroadcaster) BroadcastBet(*models.BetHistory) {}
