package services

import "casino-backend/internal/games"

// SetShuffle replaces deck construction so tests can stack the deck.
func (c *Casino) SetShuffle(fn func(games.Source) []games.Card) {
	c.shuffle = fn
}
