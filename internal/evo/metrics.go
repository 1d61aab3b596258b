package evo

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	generationsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "tspga",
		Subsystem: "engine",
		Name:      "generations_total",
		Help:      "Total generations evaluated",
	})

	duplicatesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "tspga",
		Subsystem: "engine",
		Name:      "duplicates_rejected_total",
		Help:      "Total candidate solutions rejected as duplicates",
	})

	bestScoreGauge = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "tspga",
		Subsystem: "engine",
		Name:      "best_score",
		Help:      "Best score found by the most recent run",
	})

	generationDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: "tspga",
		Subsystem: "engine",
		Name:      "generation_duration_seconds",
		Help:      "Time to build and evaluate one generation",
		Buckets:   prometheus.ExponentialBuckets(0.001, 2, 14),
	})

	runsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "tspga",
		Subsystem: "engine",
		Name:      "runs_total",
		Help:      "Total finished runs by stop reason",
	}, []string{"reason"})
)
