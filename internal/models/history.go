package models

import (
	"fmt"
	"time"

	"casino-backend/internal/games"
)

type GameKind string

const (
	GameRoulette  GameKind = "roulette"
	GameSlots     GameKind = "slots"
	GameBlackjack GameKind = "blackjack"
)

type RouletteOutcome struct {
	BetType games.BetType `json:"bet_type"`
	Value   *int          `json:"value"`
	Number  int           `json:"number"`
	Color   games.Color   `json:"color"`
}

type SlotsOutcome struct {
	Reels      games.Reels `json:"reels"`
	Multiplier int64       `json:"mult"`
}

type BlackjackOutcome struct {
	SessionID   string       `json:"session_id"`
	PlayerHand  []games.Card `json:"player_hand"`
	DealerHand  []games.Card `json:"dealer_hand"`
	PlayerValue int          `json:"p_val"`
	DealerValue int          `json:"d_val"`
}

// Outcome carries the game specific details of a bet. Exactly one variant is
// set and it matches BetHistory.Game.
type Outcome struct {
	Roulette  *RouletteOutcome  `json:"roulette,omitempty"`
	Slots     *SlotsOutcome     `json:"slots,omitempty"`
	Blackjack *BlackjackOutcome `json:"blackjack,omitempty"`
}

func (o Outcome) kind() (GameKind, int) {
	var kind GameKind
	n := 0
	if o.Roulette != nil {
		kind = GameRoulette
		n++
	}
	if o.Slots != nil {
		kind = GameSlots
		n++
	}
	if o.Blackjack != nil {
		kind = GameBlackjack
		n++
	}
	return kind, n
}

// BetHistory is the append-only audit record of one resolved bet.
type BetHistory struct {
	ID       string   `json:"id"`
	PlayerID string   `json:"player_id"`
	Game     GameKind `json:"game"`
	Amount   float64  `json:"amount"`
	Result   string   `json:"result"`
	// Payout is net; negative is a loss.
	Payout       float64   `json:"payout"`
	BalanceAfter float64   `json:"balance_after"`
	Metadata     Outcome   `json:"metadata"`
	CreatedAt    time.Time `json:"created_at"`
}

func NewBetHistory(playerID string, amount, payout float64, result string, outcome Outcome) *BetHistory {
	kind, _ := outcome.kind()
	return &BetHistory{
		ID:        GenerateHistoryID(),
		PlayerID:  playerID,
		Game:      kind,
		Amount:    RoundMoney(amount),
		Result:    result,
		Payout:    RoundMoney(payout),
		Metadata:  outcome,
		CreatedAt: time.Now().UTC(),
	}
}

func (h *BetHistory) Validate() error {
	if h.ID == "" || h.PlayerID == "" {
		return fmt.Errorf("bet history is missing ids")
	}
	switch h.Game {
	case GameRoulette, GameSlots, GameBlackjack:
	default:
		return fmt.Errorf("bet history %s has unknown game %q", h.ID, h.Game)
	}
	if h.Amount < 0 {
		return fmt.Errorf("bet history %s has negative amount", h.ID)
	}
	kind, n := h.Metadata.kind()
	if n != 1 || kind != h.Game {
		return fmt.Errorf("bet history %s metadata does not match game %s", h.ID, h.Game)
	}
	return nil
}
