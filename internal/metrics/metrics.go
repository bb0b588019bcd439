package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "parkfinder_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "parkfinder_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	QuotesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "parkfinder_quotes_total",
			Help: "Total number of pricing quotes served",
		},
		[]string{"result"},
	)

	QuoteCacheTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "parkfinder_quote_cache_total",
			Help: "Quote cache lookups by outcome",
		},
		[]string{"outcome"},
	)

	BookingsCreatedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "parkfinder_bookings_created_total",
			Help: "Total number of booking creation attempts",
		},
		[]string{"result"},
	)

	PaymentTransitionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "parkfinder_payment_transitions_total",
			Help: "Payment state machine transitions",
		},
		[]string{"state"},
	)

	BookingCancellationsTotal prometheus.Counter = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "parkfinder_booking_cancellations_total",
			Help: "Total number of booking cancellations",
		},
	)

	ReviewsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "parkfinder_reviews_total",
			Help: "Total number of review submissions",
		},
		[]string{"result"},
	)
)

func RecordHTTPRequest(method, path, status string, duration float64) {
	HTTPRequestsTotal.WithLabelValues(method, path, status).Inc()
	HTTPRequestDuration.WithLabelValues(method, path).Observe(duration)
}

func RecordQuote(result string) {
	QuotesTotal.WithLabelValues(result).Inc()
}

func RecordQuoteCache(outcome string) {
	QuoteCacheTotal.WithLabelValues(outcome).Inc()
}

func RecordBookingCreated(result string) {
	BookingsCreatedTotal.WithLabelValues(result).Inc()
}

func RecordPaymentTransition(state string) {
	PaymentTransitionsTotal.WithLabelValues(state).Inc()
}

func RecordBookingCancellation() {
	BookingCancellationsTotal.Inc()
}

func RecordReview(result string) {
	ReviewsTotal.WithLabelValues(result).Inc()
}
