package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	once sync.Once

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "iverr",
			Name:      "http_requests_total",
			Help:      "HTTP requests by endpoint.",
		},
		[]string{"endpoint"},
	)

	bookingsCreated = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "iverr",
			Name:      "bookings_created_total",
			Help:      "Bookings committed successfully.",
		},
	)

	bookingConflicts = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "iverr",
			Name:      "booking_conflicts_total",
			Help:      "Booking attempts rejected by the overlap check.",
		},
	)

	outboxPublished = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "iverr",
			Name:      "outbox_events_published_total",
			Help:      "Outbox events delivered to the broker.",
		},
	)

	outboxFailed = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "iverr",
			Name:      "outbox_events_failed_total",
			Help:      "Outbox publish attempts that failed.",
		},
	)
)

// Register registers Prometheus metrics. Safe to call multiple times.
func Register() {
	once.Do(func() {
		prometheus.MustRegister(httpRequests, bookingsCreated, bookingConflicts, outboxPublished, outboxFailed)
	})
}

func IncHTTP(endpoint string) {
	httpRequests.WithLabelValues(endpoint).Inc()
}

func IncBookingCreated() {
	bookingsCreated.Inc()
}

func IncBookingConflict() {
	bookingConflicts.Inc()
}

func IncOutboxPublished() {
	outboxPublished.Inc()
}

func IncOutboxPublishFailed() {
	outboxFailed.Inc()
}
