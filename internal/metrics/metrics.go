package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the grievance service collectors.
type Metrics struct {
	ComplaintsCreated     *prometheus.CounterVec
	StatusTransitions     *prometheus.CounterVec
	NotificationsSent     *prometheus.CounterVec
	NotificationsDropped  *prometheus.CounterVec
	NotificationsFailed   *prometheus.CounterVec
	GeocodeRequests       *prometheus.CounterVec
	HTTPRequestDuration   *prometheus.HistogramVec
	StatsSnapshotDuration prometheus.Histogram
}

// New registers every collector on reg. Tests pass a fresh
// prometheus.NewRegistry() to avoid duplicate registration.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		ComplaintsCreated: f.NewCounterVec(prometheus.CounterOpts{
			Name: "grievance_complaints_created_total",
			Help: "Total number of complaints submitted",
		}, []string{"priority"}),
		StatusTransitions: f.NewCounterVec(prometheus.CounterOpts{
			Name: "grievance_status_transitions_total",
			Help: "Status changes applied, by target status",
		}, []string{"status"}),
		NotificationsSent: f.NewCounterVec(prometheus.CounterOpts{
			Name: "grievance_notifications_published_total",
			Help: "Notifications handed to the transport",
		}, []string{"event"}),
		NotificationsDropped: f.NewCounterVec(prometheus.CounterOpts{
			Name: "grievance_notifications_dropped_total",
			Help: "Notifications dropped because a dispatcher shard was full",
		}, []string{"event"}),
		NotificationsFailed: f.NewCounterVec(prometheus.CounterOpts{
			Name: "grievance_notifications_failed_total",
			Help: "Notifications the transport rejected",
		}, []string{"event"}),
		GeocodeRequests: f.NewCounterVec(prometheus.CounterOpts{
			Name: "grievance_geocode_requests_total",
			Help: "Geocoder lookups by kind and result",
		}, []string{"kind", "result"}),
		HTTPRequestDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "grievance_http_request_duration_seconds",
			Help:    "HTTP request latency by route pattern",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		}, []string{"method", "route", "code"}),
		StatsSnapshotDuration: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "grievance_stats_snapshot_duration_seconds",
			Help:    "Duration of dashboard statistics aggregation",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}),
	}
}

func (m *Metrics) ComplaintCreated(priority string) {
	m.ComplaintsCreated.WithLabelValues(priority).Inc()
}

func (m *Metrics) StatusChanged(status string) {
	m.StatusTransitions.WithLabelValues(status).Inc()
}

func (m *Metrics) NotificationPublished(event string) {
	m.NotificationsSent.WithLabelValues(event).Inc()
}

func (m *Metrics) NotificationDropped(event string) {
	m.NotificationsDropped.WithLabelValues(event).Inc()
}

func (m *Metrics) NotificationFailed(event string) {
	m.NotificationsFailed.WithLabelValues(event).Inc()
}

func (m *Metrics) ObserveGeocode(kind, result string) {
	m.GeocodeRequests.WithLabelValues(kind, result).Inc()
}

// ObserveStatsSnapshot records aggregation time. Call with time.Now() taken
// before the snapshot was requested.
func (m *Metrics) ObserveStatsSnapshot(start time.Time) {
	m.StatsSnapshotDuration.Observe(time.Since(start).Seconds())
}

func (m *Metrics) ObserveHTTP(method, route, code string, elapsed time.Duration) {
	m.HTTPRequestDuration.WithLabelValues(method, route, code).Observe(elapsed.Seconds())
}
