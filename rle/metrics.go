package rle

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	skippedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "catajson_rle_skipped_entries_total",
			Help: "Run-length entries dropped because they failed to decode",
		},
	)
	mergedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "catajson_rle_merged_elements_total",
			Help: "Elements written as a repeat of the preceding run value",
		},
	)
)

func init() {
	prometheus.MustRegister(skippedTotal, mergedTotal)
}
