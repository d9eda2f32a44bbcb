package solver

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// selectDuration tracks full-universe guess selection latency
	selectDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "nerdle_select_guess_duration_seconds",
		Help:    "Guess selection duration in seconds",
		Buckets: prometheus.ExponentialBuckets(0.001, 4, 10), // 1ms to ~4min
	})

	// filterRemoved counts candidates eliminated by clues
	filterRemoved = promauto.NewCounter(prometheus.CounterOpts{
		Name: "nerdle_filter_removed_total",
		Help: "Total candidates removed by clue filtering",
	})

	sessionsStarted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "nerdle_sessions_started_total",
		Help: "Total solving sessions started",
	})
)
