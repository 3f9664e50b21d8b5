package services

import (
	"errors"

	"casino-backend/internal/games"
)

var (
	ErrPlayerNotFound    = errors.New("player not found")
	ErrSessionNotFound   = errors.New("session not found")
	ErrInsufficientFunds = errors.New("insufficient balance")
	ErrInvalidBet        = games.ErrInvalidBet
	ErrInvalidArgument   = errors.New("invalid argument")
	// ErrConflict means a concurrent request changed the same document first.
	ErrConflict = errors.New("concurrent update")
	// ErrSessionClosed is returned by CloseSession when the hand already finished.
	ErrSessionClosed = errors.New("session already finished")
)
