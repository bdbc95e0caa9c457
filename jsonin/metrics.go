package jsonin

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	parseErrorsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "catajson_parse_errors_total",
			Help: "Fatal positioned errors raised while reading JSON",
		},
	)
)

func init() {
	prometheus.MustRegister(parseErrorsTotal)
}
