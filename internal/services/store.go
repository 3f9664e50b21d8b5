package services

import (
	"context"
	"time"

	"casino-backend/internal/models"
)

type PlayerStore interface {
	CreatePlayer(ctx context.Context, p *models.Player) error
	// GetPlayer returns ErrPlayerNotFound for unknown ids.
	GetPlayer(ctx context.Context, id string) (*models.Player, error)
}

type HistoryStore interface {
	// ListHistory returns the newest records first.
	ListHistory(ctx context.Context, playerID string, limit int64) ([]*models.BetHistory, error)
}

type SessionStore interface {
	// GetSession returns ErrSessionNotFound for unknown ids.
	GetSession(ctx context.Context, id string) (*models.BlackjackSession, error)

	// SaveSession writes a playing session if the stored version still equals
	// s.Version, then increments s.Version. A stale copy yields ErrConflict.
	SaveSession(ctx context.Context, s *models.BlackjackSession) error

	// StaleSessions lists up to limit playing sessions last updated at or
	// before the given time, oldest first.
	StaleSessions(ctx context.Context, before time.Time, limit int64) ([]string, error)
}

// Wager is a resolved single-step bet.
type Wager struct {
	PlayerID string
	Stake    float64
	Payout   float64
	History  *models.BetHistory
}

// Ledger groups the mutations that must land together or not at all.
type Ledger interface {
	// ApplyBet checks the player can cover the stake, adds the payout to the
	// balance and appends the history record.
	ApplyBet(ctx context.Context, w *Wager) (*models.Player, error)

	// OpenSession locks s.Bet against the player's available balance and
	// creates the session.
	OpenSession(ctx context.Context, s *models.BlackjackSession) (*models.Player, error)

	// CloseSession stores the finished session, releases its locked stake,
	// applies s.Payout and appends h. It fails with ErrSessionClosed if the
	// stored session is no longer playing and ErrConflict on a stale version.
	CloseSession(ctx context.Context, s *models.BlackjackSession, h *models.BetHistory) (*models.Player, error)
}

type RateLimiter interface {
	Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, error)
}

type Store interface {
	PlayerStore
	HistoryStore
	SessionStore
	Ledger
	RateLimiter

	Name() string
	Ping(ctx context.Context) error
	// Collections lists the document kinds that currently hold data.
	Collections(ctx context.Context) ([]string, error)
	Close() error
}
