package core

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics

var (
	sweepsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "nqueens_sweeps_total",
		Help: "Total number of completed sweeps",
	})

	solutionsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "nqueens_solutions_total",
		Help: "Total number of solutions found across all sweeps",
	})

	sweepDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "nqueens_sweep_duration_seconds",
		Help:    "Duration of complete sweeps",
		Buckets: prometheus.ExponentialBuckets(0.001, 4, 12),
	})

	lastCompletedSize = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "nqueens_last_completed_size",
		Help: "Board size of the most recently completed sweep",
	})

	progressPublished = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "nqueens_progress_published",
		Help: "Results accepted into the progress slot",
	})

	progressDropped = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "nqueens_progress_dropped",
		Help: "Results skipped because the progress slot was contended",
	})
)
