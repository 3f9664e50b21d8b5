package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"casino-backend/internal/games"
	"casino-backend/internal/metrics"
	"casino-backend/internal/models"

	"github.com/sirupsen/logrus"
)

// staleSweepBatch bounds how many abandoned hands one sweep settles.
const staleSweepBatch = 100

// Casino runs the games and settles their outcomes against the store.
type Casino struct {
	store           Store
	src             games.Source
	shuffle         func(games.Source) []games.Card
	broadcaster     Broadcaster
	log             logrus.FieldLogger
	startingBalance float64
}

func NewCasino(store Store, src games.Source, startingBalance float64) *Casino {
	return &Casino{
		store:           store,
		src:             src,
		shuffle:         games.NewDeck,
		broadcaster:     noopBroadcaster{},
		log:             logrus.StandardLogger(),
		startingBalance: startingBalance,
	}
}

func (c *Casino) SetBroadcaster(b Broadcaster) {
	if b == nil {
		b = noopBroadcaster{}
	}
	c.broadcaster = b
}

func (c *Casino) SetLogger(l logrus.FieldLogger) {
	c.log = l
}

func (c *Casino) CreatePlayer(ctx context.Context, nickname string) (*models.Player, error) {
	nickname = strings.TrimSpace(nickname)
	if nickname == "" {
		return nil, fmt.Errorf("%w: nickname is required", ErrInvalidArgument)
	}

	p := models.NewPlayer(nickname, c.startingBalance)
	if err := c.store.CreatePlayer(ctx, p); err != nil {
		return nil, fmt.Errorf("failed to create player: %w", err)
	}

	c.log.WithFields(logrus.Fields{
		"player_id": p.ID,
		"nickname":  p.Nickname,
		"balance":   p.Balance,
	}).Info("Player created")

	return p, nil
}

func (c *Casino) GetPlayer(ctx context.Context, id string) (*models.Player, error) {
	return c.store.GetPlayer(ctx, id)
}

func (c *Casino) History(ctx context.Context, playerID string, limit int64) ([]*models.BetHistory, error) {
	if _, err := c.store.GetPlayer(ctx, playerID); err != nil {
		return nil, err
	}
	return c.store.ListHistory(ctx, playerID, limit)
}

func (c *Casino) PlayRoulette(ctx context.Context, req *models.RouletteBetRequest) (*models.RouletteResult, error) {
	amount, err := wagerAmount(models.GameRoulette, req.Amount)
	if err != nil {
		return nil, err
	}

	bet := games.RouletteBet{
		Amount: models.Money(amount),
		Type:   games.BetType(req.BetType),
		Value:  req.Value,
	}
	if err := bet.Validate(); err != nil {
		metrics.RecordRejected(string(models.GameRoulette), "invalid")
		return nil, err
	}

	if _, err := c.fundedPlayer(ctx, models.GameRoulette, req.PlayerID, amount); err != nil {
		return nil, err
	}

	spin, err := games.PlayRoulette(c.src, bet)
	if err != nil {
		return nil, err
	}

	payout := models.Chips(spin.Payout)
	h := models.NewBetHistory(req.PlayerID, amount, payout,
		fmt.Sprintf("%d (%s)", spin.Pocket, spin.Color),
		models.Outcome{Roulette: &models.RouletteOutcome{
			BetType: bet.Type,
			Value:   req.Value,
			Number:  spin.Pocket,
			Color:   spin.Color,
		}})

	p, err := c.apply(ctx, &Wager{PlayerID: req.PlayerID, Stake: amount, Payout: payout, History: h})
	if err != nil {
		return nil, err
	}

	return &models.RouletteResult{
		Result:  spin.Pocket,
		Color:   spin.Color,
		Payout:  payout,
		Balance: p.Balance,
	}, nil
}

func (c *Casino) PlaySlots(ctx context.Context, req *models.SlotsBetRequest) (*models.SlotsResult, error) {
	amount, err := wagerAmount(models.GameSlots, req.Amount)
	if err != nil {
		return nil, err
	}

	if _, err := c.fundedPlayer(ctx, models.GameSlots, req.PlayerID, amount); err != nil {
		return nil, err
	}

	spin, err := games.PlaySlots(c.src, models.Money(amount))
	if err != nil {
		return nil, err
	}

	payout := models.Chips(spin.Payout)
	h := models.NewBetHistory(req.PlayerID, amount, payout, spin.Reels.String(),
		models.Outcome{Slots: &models.SlotsOutcome{
			Reels:      spin.Reels,
			Multiplier: spin.Multiplier,
		}})

	p, err := c.apply(ctx, &Wager{PlayerID: req.PlayerID, Stake: amount, Payout: payout, History: h})
	if err != nil {
		return nil, err
	}

	return &models.SlotsResult{
		Reels:      spin.Reels,
		Multiplier: spin.Multiplier,
		Payout:     payout,
		Balance:    p.Balance,
	}, nil
}

// StartBlackjack deals a new hand. A natural on either side settles it at once.
func (c *Casino) StartBlackjack(ctx context.Context, req *models.BlackjackStartRequest) (*models.BlackjackView, error) {
	amount, err := wagerAmount(models.GameBlackjack, req.Amount)
	if err != nil {
		return nil, err
	}

	if _, err := c.fundedPlayer(ctx, models.GameBlackjack, req.PlayerID, amount); err != nil {
		return nil, err
	}

	round, err := games.Deal(c.shuffle(c.src))
	if err != nil {
		return nil, err
	}

	sess := models.NewBlackjackSession(req.PlayerID, amount, round)
	if _, err := c.store.OpenSession(ctx, sess); err != nil {
		if errors.Is(err, ErrInsufficientFunds) {
			metrics.RecordRejected(string(models.GameBlackjack), "funds")
		}
		return nil, fmt.Errorf("failed to open session: %w", err)
	}

	if round.Decided() {
		return c.settle(ctx, sess, round)
	}

	return models.PlayingView(sess), nil
}

// Hit draws a card for the player. A bust settles the hand; on a finished
// session it returns the final state unchanged.
func (c *Casino) Hit(ctx context.Context, sessionID string) (*models.BlackjackView, error) {
	sess, err := c.store.GetSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if !sess.Playing() {
		return c.finishedView(ctx, sess)
	}

	round := sess.Round()
	if err := round.Hit(); err != nil {
		return nil, err
	}

	if round.PlayerBusted() {
		return c.settle(ctx, sess, round)
	}

	sess.Apply(round)
	if err := c.store.SaveSession(ctx, sess); err != nil {
		if errors.Is(err, ErrSessionClosed) {
			return c.reloadFinished(ctx, sessionID)
		}
		return nil, fmt.Errorf("failed to save session: %w", err)
	}

	return models.PlayingView(sess), nil
}

// Stand settles the hand. Standing on a finished session returns the stored
// result without drawing or paying again.
func (c *Casino) Stand(ctx context.Context, sessionID string) (*models.BlackjackView, error) {
	sess, err := c.store.GetSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if !sess.Playing() {
		return c.finishedView(ctx, sess)
	}

	return c.settle(ctx, sess, sess.Round())
}

// SettleStale stands every hand untouched for longer than maxAge so its locked
// stake is released. It returns how many hands were settled.
func (c *Casino) SettleStale(ctx context.Context, maxAge time.Duration) (int, error) {
	ids, err := c.store.StaleSessions(ctx, time.Now().UTC().Add(-maxAge), staleSweepBatch)
	if err != nil {
		return 0, fmt.Errorf("failed to list stale sessions: %w", err)
	}

	settled := 0
	for _, id := range ids {
		view, err := c.Stand(ctx, id)
		if err != nil {
			c.log.WithFields(logrus.Fields{
				"session_id": id,
				"error":      err.Error(),
			}).Warn("Stale session not settled")
			continue
		}
		settled++
		c.log.WithFields(logrus.Fields{
			"session_id": id,
			"result":     view.Result,
		}).Info("Stale session settled")
	}

	return settled, nil
}

func (c *Casino) settle(ctx context.Context, sess *models.BlackjackSession, round *games.Round) (*models.BlackjackView, error) {
	res, payoutDec, err := round.Settle(models.Money(sess.Bet))
	if err != nil {
		return nil, err
	}
	payout := models.Chips(payoutDec)

	sess.Finish(round, res, payout)
	h := models.NewBetHistory(sess.PlayerID, sess.Bet, payout, string(res),
		models.Outcome{Blackjack: &models.BlackjackOutcome{
			SessionID:   sess.ID,
			PlayerHand:  sess.PlayerHand,
			DealerHand:  sess.DealerHand,
			PlayerValue: games.HandValue(sess.PlayerHand),
			DealerValue: games.HandValue(sess.DealerHand),
		}})

	p, err := c.store.CloseSession(ctx, sess, h)
	if errors.Is(err, ErrSessionClosed) {
		return c.reloadFinished(ctx, sess.ID)
	}
	if err != nil {
		c.log.WithFields(logrus.Fields{
			"player_id":  sess.PlayerID,
			"session_id": sess.ID,
			"error":      err.Error(),
		}).Error("Blackjack settlement failed")
		return nil, fmt.Errorf("failed to settle session: %w", err)
	}

	c.settled(h)
	return models.FinishedView(sess, p.Balance), nil
}

// reloadFinished covers a concurrent request having settled the hand first.
func (c *Casino) reloadFinished(ctx context.Context, sessionID string) (*models.BlackjackView, error) {
	sess, err := c.store.GetSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if sess.Playing() {
		return nil, fmt.Errorf("%w: session %s", ErrConflict, sessionID)
	}
	return c.finishedView(ctx, sess)
}

func (c *Casino) finishedView(ctx context.Context, sess *models.BlackjackSession) (*models.BlackjackView, error) {
	p, err := c.store.GetPlayer(ctx, sess.PlayerID)
	if err != nil {
		return nil, err
	}
	return models.FinishedView(sess, p.Balance), nil
}

// wagerAmount accepts only positive whole-cent stakes, so a stake can never
// round down to nothing while its payout rounds up.
func wagerAmount(game models.GameKind, amount float64) (float64, error) {
	exact := models.Money(amount)
	rounded := exact.Round(2)
	if !rounded.IsPositive() || !rounded.Equal(exact) {
		metrics.RecordRejected(string(game), "invalid")
		return 0, fmt.Errorf("%w: amount must be a positive multiple of 0.01, got %v", ErrInvalidBet, amount)
	}
	return models.Chips(rounded), nil
}

// fundedPlayer is the early funds check. The store repeats it atomically when
// the bet is applied.
func (c *Casino) fundedPlayer(ctx context.Context, game models.GameKind, playerID string, amount float64) (*models.Player, error) {
	p, err := c.store.GetPlayer(ctx, playerID)
	if err != nil {
		return nil, err
	}
	if !p.CanCover(amount) {
		metrics.RecordRejected(string(game), "funds")
		return nil, fmt.Errorf("%w: have %.2f, need %.2f", ErrInsufficientFunds, p.Available(), amount)
	}
	return p, nil
}

func (c *Casino) apply(ctx context.Context, w *Wager) (*models.Player, error) {
	p, err := c.store.ApplyBet(ctx, w)
	if err != nil {
		if errors.Is(err, ErrInsufficientFunds) {
			metrics.RecordRejected(string(w.History.Game), "funds")
		}
		c.log.WithFields(logrus.Fields{
			"player_id": w.PlayerID,
			"game":      w.History.Game,
			"amount":    w.Stake,
			"error":     err.Error(),
		}).Warn("Bet not applied")
		return nil, fmt.Errorf("failed to apply bet: %w", err)
	}

	c.settled(w.History)
	return p, nil
}

func (c *Casino) settled(h *models.BetHistory) {
	metrics.RecordBet(string(h.Game), h.Payout)
	c.broadcaster.BroadcastBet(h)
	c.log.WithFields(logrus.Fields{
		"player_id":     h.PlayerID,
		"game":          h.Game,
		"amount":        h.Amount,
		"result":        h.Result,
		"payout":        h.Payout,
		"balance_after": h.BalanceAfter,
	}).Info("Bet settled")
}
