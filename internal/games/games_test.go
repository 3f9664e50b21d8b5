package games_test

import (
	"math/rand/v2"
	"testing"

	"casino-backend/internal/games"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fixedSource replays vals in order, reduced modulo n.
type fixedSource struct {
	vals []int
	i    int
}

func (f *fixedSource) IntN(n int) int {
	v := f.vals[f.i%len(f.vals)] % n
	f.i++
	return v
}

func cards(codes ...string) []games.Card {
	out := make([]games.Card, len(codes))
	for i, c := range codes {
		out[i] = games.Card(c)
	}
	return out
}

func TestNewDeck(t *testing.T) {
	src := rand.New(rand.NewPCG(1, 2))

	deck := games.NewDeck(src)
	require.Len(t, deck, games.DeckSize)

	seen := make(map[games.Card]bool)
	for _, c := range deck {
		assert.True(t, c.Valid(), "invalid card %q", c)
		assert.False(t, seen[c], "duplicate card %q", c)
		seen[c] = true
	}

	other := games.NewDeck(src)
	assert.NotEqual(t, deck, other, "consecutive shuffles should differ")

	other[0] = "X"
	assert.NotEqual(t, games.Card("X"), deck[0])
}

func TestCardRank(t *testing.T) {
	assert.Equal(t, "10", games.Card("10♥").Rank())
	assert.Equal(t, "A", games.Card("A♠").Rank())
	assert.False(t, games.Card("Z♠").Valid())
	assert.False(t, games.Card("A").Valid())
}

func TestHandValue(t *testing.T) {
	tests := []struct {
		hand []games.Card
		want int
	}{
		{nil, 0},
		{cards("A♠", "K♥"), 21},
		{cards("A♠", "A♥"), 12},
		{cards("A♠", "A♥", "9♦"), 21},
		{cards("A♠", "A♥", "A♦", "A♣"), 14},
		{cards("A♠", "5♥", "K♦"), 16},
		{cards("K♠", "Q♥", "5♦"), 25},
		{cards("7♠", "9♥"), 16},
		{cards("A♠", "A♥", "A♦", "A♣", "7♠", "K♠"), 21},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, games.HandValue(tt.hand), "%v", tt.hand)
	}
}

func TestColorOf(t *testing.T) {
	assert.Equal(t, games.Green, games.ColorOf(0))
	assert.Equal(t, games.Red, games.ColorOf(1))
	assert.Equal(t, games.Black, games.ColorOf(2))
	assert.Equal(t, games.Red, games.ColorOf(36))
	assert.Equal(t, games.Black, games.ColorOf(35))
	assert.Equal(t, games.Red, games.ColorOf(19))
	assert.Equal(t, games.Black, games.ColorOf(10))

	reds := 0
	for n := 1; n <= games.MaxPocket; n++ {
		if games.ColorOf(n) == games.Red {
			reds++
		}
	}
	assert.Equal(t, 18, reds)
}

func TestSpinWheelRange(t *testing.T) {
	src := rand.New(rand.NewPCG(7, 7))
	for i := 0; i < 2000; i++ {
		n := games.SpinWheel(src)
		require.GreaterOrEqual(t, n, 0)
		require.LessOrEqual(t, n, games.MaxPocket)
	}
}

func TestRouletteBetValidate(t *testing.T) {
	seven := 7
	tooBig := 37
	amount := decimal.NewFromInt(10)

	assert.NoError(t, games.RouletteBet{Amount: amount, Type: games.BetRed}.Validate())
	assert.NoError(t, games.RouletteBet{Amount: amount, Type: games.BetNumber, Value: &seven}.Validate())

	assert.ErrorIs(t, games.RouletteBet{Amount: amount, Type: "green"}.Validate(), games.ErrInvalidBet)
	assert.ErrorIs(t, games.RouletteBet{Amount: amount, Type: games.BetNumber}.Validate(), games.ErrInvalidBet)
	assert.ErrorIs(t, games.RouletteBet{Amount: amount, Type: games.BetNumber, Value: &tooBig}.Validate(), games.ErrInvalidBet)
	assert.ErrorIs(t, games.RouletteBet{Amount: decimal.Zero, Type: games.BetRed}.Validate(), games.ErrInvalidBet)
}

func TestRoulettePayout(t *testing.T) {
	seventeen := 17
	amount := decimal.NewFromInt(100)

	tests := []struct {
		name   string
		bet    games.RouletteBet
		pocket int
		want   string
	}{
		{"red wins", games.RouletteBet{Amount: amount, Type: games.BetRed}, 1, "100"},
		{"red loses on black", games.RouletteBet{Amount: amount, Type: games.BetRed}, 2, "-100"},
		{"red loses on zero", games.RouletteBet{Amount: amount, Type: games.BetRed}, 0, "-100"},
		{"black wins", games.RouletteBet{Amount: amount, Type: games.BetBlack}, 2, "100"},
		{"number hits", games.RouletteBet{Amount: amount, Type: games.BetNumber, Value: &seventeen}, 17, "3500"},
		{"number misses", games.RouletteBet{Amount: amount, Type: games.BetNumber, Value: &seventeen}, 18, "-100"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.bet.Payout(tt.pocket).String())
		})
	}
}

func TestPlayRouletteForcedRed(t *testing.T) {
	spin, err := games.PlayRoulette(&fixedSource{vals: []int{1}}, games.RouletteBet{
		Amount: decimal.NewFromInt(100),
		Type:   games.BetRed,
	})
	require.NoError(t, err)

	assert.Equal(t, 1, spin.Pocket)
	assert.Equal(t, games.Red, spin.Color)
	assert.True(t, spin.Won)
	assert.True(t, spin.Payout.Equal(decimal.NewFromInt(100)))
}

func TestReelsMultiplier(t *testing.T) {
	tests := []struct {
		reels games.Reels
		want  int64
	}{
		{games.Reels{games.Seven, games.Seven, games.Seven}, 20},
		{games.Reels{games.Bell, games.Bell, games.Bell}, 10},
		{games.Reels{games.Bell, games.Bell, games.Star}, 2},
		{games.Reels{games.Star, games.Bell, games.Star}, 2},
		{games.Reels{games.Lemon, games.Star, games.Star}, 2},
		{games.Reels{games.Lemon, games.Star, games.Clover}, 0},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.reels.Multiplier(), "%s", tt.reels)
	}
}

func TestSlotsPayout(t *testing.T) {
	amount := decimal.NewFromInt(10)

	assert.Equal(t, "190", games.SlotsPayout(amount, 20).String())
	assert.Equal(t, "90", games.SlotsPayout(amount, 10).String())
	assert.Equal(t, "10", games.SlotsPayout(amount, 2).String())
	assert.Equal(t, "-10", games.SlotsPayout(amount, 0).String())
}

func TestPlaySlotsSevens(t *testing.T) {
	// index 4 is the seven
	spin, err := games.PlaySlots(&fixedSource{vals: []int{4}}, decimal.NewFromInt(5))
	require.NoError(t, err)

	assert.Equal(t, games.Reels{games.Seven, games.Seven, games.Seven}, spin.Reels)
	assert.Equal(t, int64(20), spin.Multiplier)
	assert.Equal(t, "95", spin.Payout.String())
	assert.Equal(t, "7️⃣7️⃣7️⃣", spin.Reels.String())

	_, err = games.PlaySlots(&fixedSource{vals: []int{4}}, decimal.NewFromInt(-1))
	assert.ErrorIs(t, err, games.ErrInvalidBet)
}

func TestDeal(t *testing.T) {
	deck := cards("A♠", "K♥", "9♦", "7♣", "5♠", "2♥")

	r, err := games.Deal(deck)
	require.NoError(t, err)

	assert.Equal(t, cards("A♠", "K♥"), r.Player)
	assert.Equal(t, cards("9♦", "7♣"), r.Dealer)
	assert.Equal(t, cards("5♠", "2♥"), r.Deck)
	assert.True(t, r.Decided())
	assert.Equal(t, []games.Card{"9♦", games.HiddenCard}, r.VisibleDealer())

	_, err = games.Deal(cards("A♠", "K♥"))
	assert.ErrorIs(t, err, games.ErrEmptyDeck)
}

func TestDealerStopsAtSeventeen(t *testing.T) {
	r := &games.Round{
		Player: cards("10♠", "8♥"),
		Dealer: cards("2♠", "3♥"),
		Deck:   cards("4♦", "8♣", "K♠", "Q♠"),
	}

	require.NoError(t, r.DealerPlay())

	// 2+3+4+8 = 17, the king stays in the deck
	assert.Equal(t, cards("2♠", "3♥", "4♦", "8♣"), r.Dealer)
	assert.Equal(t, cards("K♠", "Q♠"), r.Deck)

	before := len(r.Dealer)
	require.NoError(t, r.DealerPlay())
	assert.Len(t, r.Dealer, before)
}

func TestDealerPlayEmptyDeck(t *testing.T) {
	r := &games.Round{Dealer: cards("2♠", "3♥")}
	assert.ErrorIs(t, r.DealerPlay(), games.ErrEmptyDeck)
}

func TestOutcome(t *testing.T) {
	tests := []struct {
		name   string
		player []games.Card
		dealer []games.Card
		want   games.Result
	}{
		{"player bust beats dealer bust", cards("K♠", "Q♠", "5♠"), cards("K♥", "6♥", "9♥"), games.ResultPlayerBust},
		{"dealer bust", cards("K♠", "7♠"), cards("K♥", "6♥", "9♥"), games.ResultDealerBust},
		{"player natural", cards("A♠", "K♠"), cards("9♥", "7♥", "5♥"), games.ResultPlayerBlackjack},
		{"dealer natural", cards("K♠", "5♠", "6♠"), cards("A♥", "Q♥"), games.ResultDealerBlackjack},
		{"both natural push", cards("A♠", "K♠"), cards("A♥", "Q♥"), games.ResultPush},
		{"player higher", cards("K♠", "9♠"), cards("K♥", "7♥"), games.ResultPlayerWin},
		{"dealer higher", cards("K♠", "7♠"), cards("K♥", "9♥"), games.ResultDealerWin},
		{"equal totals", cards("K♠", "8♠"), cards("9♥", "9♦"), games.ResultPush},
		{"three card 21 is not natural", cards("7♠", "7♥", "7♦"), cards("A♥", "Q♥"), games.ResultDealerBlackjack},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, games.Outcome(tt.player, tt.dealer))
		})
	}
}

func TestBlackjackPayout(t *testing.T) {
	bet := decimal.NewFromInt(100)

	assert.Equal(t, "150", games.BlackjackPayout(bet, games.ResultPlayerBlackjack).String())
	assert.Equal(t, "100", games.BlackjackPayout(bet, games.ResultPlayerWin).String())
	assert.Equal(t, "100", games.BlackjackPayout(bet, games.ResultDealerBust).String())
	assert.Equal(t, "0", games.BlackjackPayout(bet, games.ResultPush).String())
	assert.Equal(t, "-100", games.BlackjackPayout(bet, games.ResultDealerWin).String())
	assert.Equal(t, "-100", games.BlackjackPayout(bet, games.ResultPlayerBust).String())
	assert.Equal(t, "-100", games.BlackjackPayout(bet, games.ResultDealerBlackjack).String())
	assert.Equal(t, "37.5", games.BlackjackPayout(decimal.NewFromInt(25), games.ResultPlayerBlackjack).String())
}

func TestSettleNatural(t *testing.T) {
	r, err := games.Deal(cards("A♠", "K♥", "9♦", "7♣", "5♠", "2♥"))
	require.NoError(t, err)

	res, payout, err := r.Settle(decimal.NewFromInt(100))
	require.NoError(t, err)

	// dealer 16 draws the five and reaches 21 on three cards
	assert.Equal(t, cards("9♦", "7♣", "5♠"), r.Dealer)
	assert.Equal(t, games.ResultPlayerBlackjack, res)
	assert.Equal(t, "150", payout.String())
}
