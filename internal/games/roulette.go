package games

import (
	"fmt"

	"github.com/shopspring/decimal"
)

type BetType string

const (
	BetRed    BetType = "red"
	BetBlack  BetType = "black"
	BetNumber BetType = "number"
)

type Color string

const (
	Green Color = "green"
	Red   Color = "red"
	Black Color = "black"
)

const (
	MaxPocket       = 36
	straightUpOdds  = 35
	colorBetPayback = 1
)

var redPockets = map[int]bool{
	1: true, 3: true, 5: true, 7: true, 9: true, 12: true, 14: true, 16: true, 18: true,
	19: true, 21: true, 23: true, 25: true, 27: true, 30: true, 32: true, 34: true, 36: true,
}

// ColorOf maps a pocket to its color; 0 is green.
func ColorOf(n int) Color {
	switch {
	case n == 0:
		return Green
	case redPockets[n]:
		return Red
	default:
		return Black
	}
}

type RouletteBet struct {
	Amount decimal.Decimal
	Type   BetType
	Value  *int
}

func (b RouletteBet) Validate() error {
	if !b.Amount.IsPositive() {
		return fmt.Errorf("%w: amount must be positive", ErrInvalidBet)
	}

	switch b.Type {
	case BetRed, BetBlack:
	case BetNumber:
		if b.Value == nil {
			return fmt.Errorf("%w: value is required for number bet", ErrInvalidBet)
		}
		if *b.Value < 0 || *b.Value > MaxPocket {
			return fmt.Errorf("%w: value must be between 0 and %d", ErrInvalidBet, MaxPocket)
		}
	default:
		return fmt.Errorf("%w: invalid bet type %q", ErrInvalidBet, b.Type)
	}

	return nil
}

// Won reports whether the bet covers the given pocket.
func (b RouletteBet) Won(pocket int) bool {
	if b.Type == BetNumber {
		return b.Value != nil && *b.Value == pocket
	}
	return Color(b.Type) == ColorOf(pocket)
}

// Payout is the net amount: color bets pay 1:1, straight-up numbers 35:1,
// and a losing bet forfeits the stake.
func (b RouletteBet) Payout(pocket int) decimal.Decimal {
	if !b.Won(pocket) {
		return b.Amount.Neg()
	}
	if b.Type == BetNumber {
		return b.Amount.Mul(decimal.NewFromInt(straightUpOdds))
	}
	return b.Amount.Mul(decimal.NewFromInt(colorBetPayback))
}

type RouletteSpin struct {
	Pocket int
	Color  Color
	Won    bool
	Payout decimal.Decimal
}

// SpinWheel draws a pocket in [0, 36].
func SpinWheel(src Source) int {
	return src.IntN(MaxPocket + 1)
}

func PlayRoulette(src Source, bet RouletteBet) (*RouletteSpin, error) {
	if err := bet.Validate(); err != nil {
		return nil, err
	}

	pocket := SpinWheel(src)

	return &RouletteSpin{
		Pocket: pocket,
		Color:  ColorOf(pocket),
		Won:    bet.Won(pocket),
		Payout: bet.Payout(pocket).Round(2),
	}, nil
}
