package services

import "github.com/prometheus/client_golang/prometheus"

var (
	challengesGenerated = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "challenges_generated_total",
			Help: "Total number of challenge records generated",
		},
	)
	batchWrites = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "challenge_batch_writes_total",
			Help: "Total number of BatchWriteItem calls issued",
		},
	)
	unprocessedRetries = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "challenge_batch_unprocessed_retries_total",
			Help: "Total number of retries for unprocessed batch items",
		},
	)
)

// InitMetrics registers the engine counters. Call this from main.go
func InitMetrics() {
	prometheus.MustRegister(challengesGenerated)
	prometheus.MustRegister(batchWrites)
	prometheus.MustRegister(unprocessedRetries)
}
