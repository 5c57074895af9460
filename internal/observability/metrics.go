package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	RequestsAccepted = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "roadassist", Name: "requests_accepted_total",
		Help: "Service requests successfully claimed by a mechanic",
	})
	AcceptConflicts = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "roadassist", Name: "accept_conflicts_total",
		Help: "Accept attempts that lost the claim race",
	})
	BookingsCompleted = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "roadassist", Name: "bookings_completed_total",
		Help: "Bookings marked completed by mechanics",
	})
	LocationPings = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "roadassist", Name: "location_pings_total",
		Help: "Inbound mechanic location pings",
	})
	ConnectionsActive = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "roadassist", Name: "ws_connections_active",
		Help: "Open websocket sessions",
	})

	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "roadassist", Name: "http_requests_total",
			Help: "Total HTTP requests handled",
		},
		[]string{"method", "path", "status"},
	)
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "roadassist", Name: "http_request_duration_seconds",
			Help:    "HTTP request latency distribution",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)
)
