package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	betTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "casino_bets_total",
			Help: "Total resolved bets by game and outcome",
		},
		[]string{"game", "result"},
	)

	betPayout = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "casino_bet_payout",
			Help:    "Net payout per resolved bet in chips",
			Buckets: []float64{-1000, -100, -10, -1, 0, 1, 10, 100, 1000, 10000},
		},
		[]string{"game"},
	)

	betRejected = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "casino_bets_rejected_total",
			Help: "Bets rejected before settlement by reason",
		},
		[]string{"game", "reason"},
	)

	httpReqTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"path", "method", "status"},
	)

	httpReqDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_ms",
			Help:    "HTTP request duration in ms",
			Buckets: prometheus.ExponentialBuckets(5, 2, 10),
		},
		[]string{"path", "method"},
	)
)

// RecordBet counts a settled bet. result is "win", "lose" or "push".
func RecordBet(game string, payout float64) {
	result := "push"
	switch {
	case payout > 0:
		result = "win"
	case payout < 0:
		result = "lose"
	}
	betTotal.WithLabelValues(game, result).Inc()
	betPayout.WithLabelValues(game).Observe(payout)
}

func RecordRejected(game, reason string) {
	betRejected.WithLabelValues(game, reason).Inc()
}

func ObserveHTTP(path, method string, status int, started time.Time) {
	httpReqDuration.WithLabelValues(path, method).Observe(float64(time.Since(started).Milliseconds()))
	httpReqTotal.WithLabelValues(path, method, strconv.Itoa(status)).Inc()
}
