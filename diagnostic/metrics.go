package diagnostic

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	warningsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "catajson_warnings_total",
			Help: "Non-fatal diagnostics reported while reading JSON, by kind",
		}, []string{"kind"},
	)
)

func init() {
	prometheus.MustRegister(warningsTotal)
}
