package services

import (
	"fmt"
	"time"

	"casino-backend/internal/models"
)

// The balance arithmetic below is shared by every Store so the invariants are
// checked the same way regardless of backend. Callers hold whatever lock or
// transaction makes the read-modify-write atomic.

func applyWager(p *models.Player, w *Wager, now time.Time) error {
	if !p.CanCover(w.Stake) {
		return fmt.Errorf("%w: have %.2f, need %.2f", ErrInsufficientFunds, p.Available(), w.Stake)
	}

	balance := models.Money(p.Balance).Add(models.Money(w.Payout))
	if balance.IsNegative() {
		return fmt.Errorf("%w: payout %.2f exceeds balance", ErrInsufficientFunds, w.Payout)
	}

	p.Balance = models.Chips(balance)
	p.UpdatedAt = now
	w.History.BalanceAfter = p.Balance
	return nil
}

func lockStake(p *models.Player, amount float64, now time.Time) error {
	if !p.CanCover(amount) {
		return fmt.Errorf("%w: have %.2f, need %.2f", ErrInsufficientFunds, p.Available(), amount)
	}

	p.LockedBalance = models.Chips(models.Money(p.LockedBalance).Add(models.Money(amount)))
	p.UpdatedAt = now
	return nil
}

func releaseStake(p *models.Player, s *models.BlackjackSession, h *models.BetHistory, now time.Time) error {
	locked := models.Money(p.LockedBalance).Sub(models.Money(s.Bet))
	if locked.IsNegative() {
		return fmt.Errorf("player %s has %.2f locked, cannot release %.2f", p.ID, p.LockedBalance, s.Bet)
	}

	balance := models.Money(p.Balance).Add(models.Money(s.Payout))
	if balance.IsNegative() {
		return fmt.Errorf("%w: payout %.2f exceeds balance", ErrInsufficientFunds, s.Payout)
	}

	p.LockedBalance = models.Chips(locked)
	p.Balance = models.Chips(balance)
	p.UpdatedAt = now
	h.BalanceAfter = p.Balance
	return nil
}
