package models

import (
	"fmt"
	"time"
)

const MaxVIPLevel = 10

type Player struct {
	ID       string  `json:"id"`
	Nickname string  `json:"nickname"`
	Balance  float64 `json:"balance"`
	// LockedBalance is the sum of stakes on open blackjack hands.
	LockedBalance float64 `json:"locked_balance"`
	VIPLevel      int     `json:"vip_level"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func NewPlayer(nickname string, startingBalance float64) *Player {
	now := time.Now().UTC()
	return &Player{
		ID:        GeneratePlayerID(),
		Nickname:  nickname,
		Balance:   RoundMoney(startingBalance),
		VIPLevel:  0,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Available is what the player may still stake.
func (p *Player) Available() float64 {
	return Chips(Money(p.Balance).Sub(Money(p.LockedBalance)))
}

func (p *Player) CanCover(amount float64) bool {
	return Money(p.Available()).GreaterThanOrEqual(Money(amount))
}

func (p *Player) Validate() error {
	if p.ID == "" {
		return fmt.Errorf("player id is empty")
	}
	if p.Balance < 0 {
		return fmt.Errorf("player %s has negative balance %.2f", p.ID, p.Balance)
	}
	if p.LockedBalance < 0 || p.LockedBalance > p.Balance {
		return fmt.Errorf("player %s has invalid locked balance %.2f", p.ID, p.LockedBalance)
	}
	if p.VIPLevel < 0 || p.VIPLevel > MaxVIPLevel {
		return fmt.Errorf("player %s has vip level %d out of range", p.ID, p.VIPLevel)
	}
	return nil
}

func (p *Player) Clone() *Player {
	c := *p
	return &c
}
