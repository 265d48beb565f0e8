package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fitclub_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "fitclub_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	BookingsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fitclub_bookings_total",
			Help: "Total number of booking operations by kind and outcome",
		},
		[]string{"kind", "outcome"},
	)

	BookingConflictsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fitclub_booking_conflicts_total",
			Help: "Total number of rejected bookings by conflict reason",
		},
		[]string{"reason"},
	)

	ClassRegistrationsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "fitclub_class_registrations_total",
			Help: "Total number of class registrations",
		},
	)

	HealthMetricsRecordedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "fitclub_health_metrics_recorded_total",
			Help: "Total number of health metric entries recorded",
		},
	)

	EmailsSentTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fitclub_emails_sent_total",
			Help: "Total number of emails sent",
		},
		[]string{"type", "status"},
	)

	EmailQueueLength = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "fitclub_email_queue_length",
			Help: "Current length of email queue",
		},
	)
)

func RecordHTTPRequest(method, path, status string, duration float64) {
	HTTPRequestsTotal.WithLabelValues(method, path, status).Inc()
	HTTPRequestDuration.WithLabelValues(method, path).Observe(duration)
}

func RecordBooking(kind, outcome string) {
	BookingsTotal.WithLabelValues(kind, outcome).Inc()
}

func RecordBookingConflict(reason string) {
	BookingConflictsTotal.WithLabelValues(reason).Inc()
}

func RecordClassRegistration() {
	ClassRegistrationsTotal.Inc()
}

func RecordHealthMetric() {
	HealthMetricsRecordedTotal.Inc()
}

func RecordEmail(emailType, status string) {
	EmailsSentTotal.WithLabelValues(emailType, status).Inc()
}
