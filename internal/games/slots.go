package games

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

type Symbol string

const (
	Cherries Symbol = "🍒"
	Lemon    Symbol = "🍋"
	Bell     Symbol = "🔔"
	Star     Symbol = "⭐"
	Seven    Symbol = "7️⃣"
	Clover   Symbol = "🍀"
)

var Symbols = []Symbol{Cherries, Lemon, Bell, Star, Seven, Clover}

const (
	sevensMultiplier = 20
	tripleMultiplier = 10
	pairMultiplier   = 2
)

type Reels [3]Symbol

func SpinReels(src Source) Reels {
	var r Reels
	for i := range r {
		r[i] = Symbols[src.IntN(len(Symbols))]
	}
	return r
}

// Multiplier includes the returned stake: 20 for three sevens, 10 for any
// other triple, 2 for a pair and 0 otherwise.
func (r Reels) Multiplier() int64 {
	switch {
	case r[0] == r[1] && r[1] == r[2]:
		if r[0] == Seven {
			return sevensMultiplier
		}
		return tripleMultiplier
	case r[0] == r[1] || r[1] == r[2] || r[0] == r[2]:
		return pairMultiplier
	default:
		return 0
	}
}

func (r Reels) String() string {
	var b strings.Builder
	for _, s := range r {
		b.WriteString(string(s))
	}
	return b.String()
}

// SlotsPayout is amount*multiplier minus the stake.
func SlotsPayout(amount decimal.Decimal, multiplier int64) decimal.Decimal {
	return amount.Mul(decimal.NewFromInt(multiplier)).Sub(amount).Round(2)
}

type SlotsSpin struct {
	Reels      Reels
	Multiplier int64
	Payout     decimal.Decimal
}

func PlaySlots(src Source, amount decimal.Decimal) (*SlotsSpin, error) {
	if !amount.IsPositive() {
		return nil, fmt.Errorf("%w: amount must be positive", ErrInvalidBet)
	}

	reels := SpinReels(src)
	mult := reels.Multiplier()

	return &SlotsSpin{
		Reels:      reels,
		Multiplier: mult,
		Payout:     SlotsPayout(amount, mult),
	}, nil
}
