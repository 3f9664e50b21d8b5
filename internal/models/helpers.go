package models

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func GeneratePlayerID() string {
	return uuid.NewString()
}

func GenerateSessionID() string {
	return fmt.Sprintf("bj_%s", uuid.NewString())
}

func GenerateHistoryID() string {
	return fmt.Sprintf("bet_%s", uuid.NewString())
}

// Money lifts a chip amount into decimal arithmetic.
func Money(f float64) decimal.Decimal {
	return decimal.NewFromFloat(f)
}

// Chips rounds to 2 places; every amount crossing a store or API boundary goes through it.
func Chips(d decimal.Decimal) float64 {
	return d.Round(2).InexactFloat64()
}

func RoundMoney(f float64) float64 {
	return Chips(Money(f))
}

func FormatChips(f float64) string {
	return Money(f).StringFixed(2)
}
