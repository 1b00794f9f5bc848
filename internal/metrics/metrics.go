// Package metrics holds the Prometheus collectors for the booking and ranking engine.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	SweepBookings     = "bookings"
	SweepParticipants = "match_participants"
	SweepCorrections  = "corrections"
)

var (
	bookingsCreated = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "rankeate_bookings_created_total",
			Help: "Bookings granted by the allocator",
		},
	)

	bookingConflicts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rankeate_booking_conflicts_total",
			Help: "Allocation attempts rejected with a conflict",
		},
		[]string{"code"},
	)

	sweepTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rankeate_sweep_transitions_total",
			Help: "Rows transitioned by the expiry sweeper",
		},
		[]string{"sweep"},
	)

	sweepFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rankeate_sweep_failures_total",
			Help: "Sweeps that ended with an error",
		},
		[]string{"sweep"},
	)

	sweepDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "rankeate_sweep_duration_seconds",
			Help:    "Duration of a single sweep",
			Buckets: prometheus.ExponentialBuckets(0.005, 2, 10),
		},
		[]string{"sweep"},
	)

	promotions = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "rankeate_promotions_total",
			Help: "Players advanced one category tier",
		},
	)
)

func BookingCreated() {
	bookingsCreated.Inc()
}

func BookingConflict(code string) {
	bookingConflicts.WithLabelValues(code).Inc()
}

// ObserveSweep records the outcome of one sweep run.
func ObserveSweep(sweep string, started time.Time, transitioned int64, err error) {
	sweepDuration.WithLabelValues(sweep).Observe(time.Since(started).Seconds())
	if err != nil {
		sweepFailures.WithLabelValues(sweep).Inc()
		return
	}
	if transitioned > 0 {
		sweepTransitions.WithLabelValues(sweep).Add(float64(transitioned))
	}
}

func PlayerPromoted() {
	promotions.Inc()
}

// Handler serves the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}
