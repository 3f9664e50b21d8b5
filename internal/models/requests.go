package models

import "casino-backend/internal/games"

type CreatePlayerRequest struct {
	Nickname string `json:"nickname" binding:"required"`
}

type RouletteBetRequest struct {
	PlayerID string  `json:"player_id" binding:"required"`
	Amount   float64 `json:"amount" binding:"required,gt=0"`
	BetType  string  `json:"bet_type" binding:"required"`
	Value    *int    `json:"value" binding:"omitempty,min=0,max=36"`
}

type SlotsBetRequest struct {
	PlayerID string  `json:"player_id" binding:"required"`
	Amount   float64 `json:"amount" binding:"required,gt=0"`
}

type BlackjackStartRequest struct {
	PlayerID string  `json:"player_id" binding:"required"`
	Amount   float64 `json:"amount" binding:"required,gt=0"`
}

type BlackjackActionRequest struct {
	SessionID string `json:"session_id" binding:"required"`
}

type RouletteResult struct {
	Result  int         `json:"result"`
	Color   games.Color `json:"color"`
	Payout  float64     `json:"payout"`
	Balance float64     `json:"balance"`
}

type SlotsResult struct {
	Reels      games.Reels `json:"reels"`
	Multiplier int64       `json:"multiplier"`
	Payout     float64     `json:"payout"`
	Balance    float64     `json:"balance"`
}

// BlackjackView is what a player sees of a session. While playing only the
// hands (with the hole card hidden) and status are set.
type BlackjackView struct {
	SessionID   string        `json:"session_id"`
	PlayerHand  []games.Card  `json:"player_hand"`
	DealerHand  []games.Card  `json:"dealer_hand"`
	PlayerValue *int          `json:"p_val,omitempty"`
	DealerValue *int          `json:"d_val,omitempty"`
	Result      games.Result  `json:"result,omitempty"`
	Payout      *float64      `json:"payout,omitempty"`
	Balance     *float64      `json:"balance,omitempty"`
	Status      SessionStatus `json:"status"`
}

func PlayingView(s *BlackjackSession) *BlackjackView {
	r := s.Round()
	return &BlackjackView{
		SessionID:  s.ID,
		PlayerHand: r.Player,
		DealerHand: r.VisibleDealer(),
		Status:     StatusPlaying,
	}
}

func FinishedView(s *BlackjackSession, balance float64) *BlackjackView {
	pVal := games.HandValue(s.PlayerHand)
	dVal := games.HandValue(s.DealerHand)
	payout := s.Payout
	bal := RoundMoney(balance)
	return &BlackjackView{
		SessionID:   s.ID,
		PlayerHand:  s.PlayerHand,
		DealerHand:  s.DealerHand,
		PlayerValue: &pVal,
		DealerValue: &dVal,
		Result:      s.Result,
		Payout:      &payout,
		Balance:     &bal,
		Status:      StatusFinished,
	}
}
