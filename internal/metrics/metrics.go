package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// ReservationsTotal counts reserve attempts by outcome
	// (success, seat_occupied, already_reserved, seat_fixed, ...).
	ReservationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "studycafe_reservations_total",
		Help: "Reserve attempts by outcome",
	}, []string{"outcome"})

	ReleasesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "studycafe_releases_total",
		Help: "Explicit reservation releases",
	})

	ExpiredTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "studycafe_expired_total",
		Help: "Reservations whose expired transition was persisted",
	})

	AssignmentsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "studycafe_assignments_total",
		Help: "Fixed assignment operations by kind",
	}, []string{"op"})

	RequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "studycafe_http_request_duration_seconds",
		Help:    "HTTP request latency",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})
)
