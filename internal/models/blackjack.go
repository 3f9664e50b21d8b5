package models

import (
	"fmt"
	"slices"
	"time"

	"casino-backend/internal/games"
)

type SessionStatus string

const (
	StatusPlaying  SessionStatus = "playing"
	StatusFinished SessionStatus = "finished"
)

// BlackjackSession is one hand. It is terminal once Status is finished; Result
// and Payout keep the outcome so repeated stands return it unchanged.
type BlackjackSession struct {
	ID         string        `json:"id"`
	PlayerID   string        `json:"player_id"`
	Bet        float64       `json:"bet"`
	Deck       []games.Card  `json:"deck"`
	PlayerHand []games.Card  `json:"player_hand"`
	DealerHand []games.Card  `json:"dealer_hand"`
	Status     SessionStatus `json:"status"`
	Result     games.Result  `json:"result,omitempty"`
	Payout     float64       `json:"payout"`
	// Version is bumped on every write; stores reject writes from a stale copy.
	Version int64 `json:"version"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func NewBlackjackSession(playerID string, bet float64, r *games.Round) *BlackjackSession {
	now := time.Now().UTC()
	s := &BlackjackSession{
		ID:        GenerateSessionID(),
		PlayerID:  playerID,
		Bet:       RoundMoney(bet),
		Status:    StatusPlaying,
		CreatedAt: now,
		UpdatedAt: now,
	}
	s.Apply(r)
	return s
}

func (s *BlackjackSession) Playing() bool {
	return s.Status == StatusPlaying
}

// Round copies the cards out so the game engine can mutate them freely.
func (s *BlackjackSession) Round() *games.Round {
	return &games.Round{
		Deck:   slices.Clone(s.Deck),
		Player: slices.Clone(s.PlayerHand),
		Dealer: slices.Clone(s.DealerHand),
	}
}

func (s *BlackjackSession) Apply(r *games.Round) {
	s.Deck = slices.Clone(r.Deck)
	s.PlayerHand = slices.Clone(r.Player)
	s.DealerHand = slices.Clone(r.Dealer)
}

// Finish records the terminal outcome.
func (s *BlackjackSession) Finish(r *games.Round, res games.Result, payout float64) {
	s.Apply(r)
	s.Status = StatusFinished
	s.Result = res
	s.Payout = RoundMoney(payout)
}

func (s *BlackjackSession) Validate() error {
	if s.ID == "" || s.PlayerID == "" {
		return fmt.Errorf("blackjack session is missing ids")
	}
	switch s.Status {
	case StatusPlaying:
	case StatusFinished:
		if s.Result == "" {
			return fmt.Errorf("blackjack session %s is finished without a result", s.ID)
		}
	default:
		return fmt.Errorf("blackjack session %s has unknown status %q", s.ID, s.Status)
	}
	if s.Bet <= 0 {
		return fmt.Errorf("blackjack session %s has non-positive bet", s.ID)
	}
	if len(s.Deck)+len(s.PlayerHand)+len(s.DealerHand) != games.DeckSize {
		return fmt.Errorf("blackjack session %s does not account for all %d cards", s.ID, games.DeckSize)
	}
	return nil
}

func (s *BlackjackSession) Clone() *BlackjackSession {
	c := *s
	c.Deck = slices.Clone(s.Deck)
	c.PlayerHand = slices.Clone(s.PlayerHand)
	c.DealerHand = slices.Clone(s.DealerHand)
	return &c
}
