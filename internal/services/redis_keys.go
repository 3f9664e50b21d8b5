package services

import "time"

const (
	KeyPlayer        = "player:%s"
	KeyPlayerHistory = "player:%s:history"
	KeyHistorySeq    = "player:%s:history_seq"
	KeyBetHistory    = "bethistory:%s"
	KeyBlackjack     = "blackjacksession:%s"
	KeyRateLimit     = "ratelimit:%s"

	// KeyPlayingSessions scores open hands by their last update in unix ms.
	KeyPlayingSessions = "blackjacksession:index:playing"

	TTLFinishedSession = 7 * 24 * time.Hour

	DefaultHistoryLimit = 50
	MaxHistoryLimit     = 100

	maxTxRetries = 10
)

func clampHistoryLimit(limit int64) int64 {
	switch {
	case limit <= 0:
		return DefaultHistoryLimit
	case limit > MaxHistoryLimit:
		return MaxHistoryLimit
	default:
		return limit
	}
}
