package games

import (
	"errors"
	"unicode/utf8"
)

var (
	ErrInvalidBet = errors.New("invalid bet")
	ErrEmptyDeck  = errors.New("deck is empty")
)

// Card is a rank followed by a suit symbol, e.g. "10♥" or "A♠".
type Card string

// HiddenCard stands in for the dealer's hole card while a hand is in play.
const HiddenCard Card = "🂠"

const DeckSize = 52

var (
	Ranks = []string{"A", "2", "3", "4", "5", "6", "7", "8", "9", "10", "J", "Q", "K"}
	Suits = []string{"♠", "♥", "♦", "♣"}
)

var rankValues = map[string]int{
	"A": 11, "K": 10, "Q": 10, "J": 10, "10": 10,
	"9": 9, "8": 8, "7": 7, "6": 6, "5": 5, "4": 4, "3": 3, "2": 2,
}

// Rank strips the trailing suit symbol.
func (c Card) Rank() string {
	s := string(c)
	_, size := utf8.DecodeLastRuneInString(s)
	return s[:len(s)-size]
}

func (c Card) Valid() bool {
	_, ok := rankValues[c.Rank()]
	if !ok {
		return false
	}
	s := string(c)
	suit, _ := utf8.DecodeLastRuneInString(s)
	for _, known := range Suits {
		if string(suit) == known {
			return true
		}
	}
	return false
}

// NewDeck returns a freshly shuffled 52-card deck. Every call builds a new
// slice so sessions never share deck state.
func NewDeck(src Source) []Card {
	deck := make([]Card, 0, DeckSize)
	for _, r := range Ranks {
		for _, s := range Suits {
			deck = append(deck, Card(r+s))
		}
	}

	// Fisher-Yates
	for i := len(deck) - 1; i > 0; i-- {
		j := src.IntN(i + 1)
		deck[i], deck[j] = deck[j], deck[i]
	}

	return deck
}

// Draw takes the top card off the deck.
func Draw(deck []Card) (Card, []Card, error) {
	if len(deck) == 0 {
		return "", deck, ErrEmptyDeck
	}
	return deck[0], deck[1:], nil
}

// HandValue scores a hand counting aces as 11 and demoting them to 1, one at
// a time, while the total is over 21.
func HandValue(hand []Card) int {
	total := 0
	aces := 0
	for _, card := range hand {
		rank := card.Rank()
		total += rankValues[rank]
		if rank == "A" {
			aces++
		}
	}

	for total > 21 && aces > 0 {
		total -= 10
		aces--
	}

	return total
}

// IsNatural reports a two-card 21.
func IsNatural(hand []Card) bool {
	return len(hand) == 2 && HandValue(hand) == 21
}
