package games

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Result is the terminal outcome of a blackjack hand.
type Result string

const (
	ResultPlayerBust      Result = "player_bust"
	ResultDealerBust      Result = "dealer_bust"
	ResultPlayerBlackjack Result = "player_blackjack"
	ResultDealerBlackjack Result = "dealer_blackjack"
	ResultPlayerWin       Result = "player_win"
	ResultDealerWin       Result = "dealer_win"
	ResultPush            Result = "push"
)

const (
	Blackjack      = 21
	DealerStandsOn = 17
)

var blackjackPayout = decimal.NewFromFloat(1.5)

// Round is one blackjack hand: the remaining deck and both hands.
type Round struct {
	Deck   []Card
	Player []Card
	Dealer []Card
}

// Deal gives the first two cards of the deck to the player and the next two
// to the dealer.
func Deal(deck []Card) (*Round, error) {
	r := &Round{Deck: deck}
	for _, hand := range []*[]Card{&r.Player, &r.Player, &r.Dealer, &r.Dealer} {
		card, rest, err := Draw(r.Deck)
		if err != nil {
			return nil, fmt.Errorf("deal: %w", err)
		}
		*hand = append(*hand, card)
		r.Deck = rest
	}
	return r, nil
}

// Decided reports whether the opening deal ends the hand at once.
func (r *Round) Decided() bool {
	return HandValue(r.Player) == Blackjack || HandValue(r.Dealer) == Blackjack
}

func (r *Round) PlayerBusted() bool {
	return HandValue(r.Player) > Blackjack
}

func (r *Round) Hit() error {
	card, rest, err := Draw(r.Deck)
	if err != nil {
		return fmt.Errorf("hit: %w", err)
	}
	r.Player = append(r.Player, card)
	r.Deck = rest
	return nil
}

// DealerPlay draws for the dealer until the hand is worth at least 17.
func (r *Round) DealerPlay() error {
	for HandValue(r.Dealer) < DealerStandsOn {
		card, rest, err := Draw(r.Deck)
		if err != nil {
			return fmt.Errorf("dealer draw: %w", err)
		}
		r.Dealer = append(r.Dealer, card)
		r.Deck = rest
	}
	return nil
}

// VisibleDealer hides the hole card.
func (r *Round) VisibleDealer() []Card {
	if len(r.Dealer) == 0 {
		return nil
	}
	return []Card{r.Dealer[0], HiddenCard}
}

// Settle runs the dealer and scores the hand. The payout is net of the bet.
func (r *Round) Settle(bet decimal.Decimal) (Result, decimal.Decimal, error) {
	if err := r.DealerPlay(); err != nil {
		return "", decimal.Zero, err
	}
	res := Outcome(r.Player, r.Dealer)
	return res, BlackjackPayout(bet, res), nil
}

// Outcome applies the settlement rules in order: player bust, dealer bust,
// player natural, dealer natural, then the higher total.
func Outcome(player, dealer []Card) Result {
	pVal := HandValue(player)
	dVal := HandValue(dealer)

	switch {
	case pVal > Blackjack:
		return ResultPlayerBust
	case dVal > Blackjack:
		return ResultDealerBust
	case IsNatural(player) && !IsNatural(dealer):
		return ResultPlayerBlackjack
	case IsNatural(dealer) && !IsNatural(player):
		return ResultDealerBlackjack
	case pVal > dVal:
		return ResultPlayerWin
	case pVal < dVal:
		return ResultDealerWin
	default:
		return ResultPush
	}
}

func BlackjackPayout(bet decimal.Decimal, res Result) decimal.Decimal {
	switch res {
	case ResultPlayerBlackjack:
		return bet.Mul(blackjackPayout).Round(2)
	case ResultDealerBust, ResultPlayerWin:
		return bet.Round(2)
	case ResultPush:
		return decimal.Zero
	default:
		return bet.Neg().Round(2)
	}
}
