package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "glasstrade_http_requests_total",
			Help: "Total HTTP requests by method, path and status code",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "glasstrade_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds by method and path",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	PaymentsCreated = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "glasstrade_payments_created_total",
			Help: "Payments recorded since process start",
		},
	)

	BillsRendered = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "glasstrade_bills_rendered_total",
			Help: "Bill PDF documents generated since process start",
		},
	)
)
