package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	BookingsCreated = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "bookings_created_total",
			Help: "Number of bookings created",
		},
	)

	BookingsCancelled = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "bookings_cancelled_total",
			Help: "Number of bookings cancelled",
		},
	)

	RefundAmounts = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "refund_amount",
			Help:    "Refund amounts paid out on cancellation",
			Buckets: prometheus.ExponentialBuckets(100_000, 4, 8),
		},
	)

	ArchivalFailures = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "cancellation_archival_failures_total",
			Help: "Number of cancellation audit records that failed to persist",
		},
	)
)

func Register() {
	prometheus.MustRegister(BookingsCreated, BookingsCancelled, RefundAmounts, ArchivalFailures)
}
