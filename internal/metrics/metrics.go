package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsRegistry holds all Prometheus metrics for Townhall
type MetricsRegistry struct {
	Registry *prometheus.Registry

	// HTTP Metrics
	HTTPRequestsTotal    *prometheus.CounterVec
	HTTPRequestDuration  *prometheus.HistogramVec
	HTTPRequestsInFlight *prometheus.GaugeVec

	// Business Metrics
	IssueTransitionsTotal *prometheus.CounterVec
	IssueReportsTotal     *prometheus.CounterVec
	CivicPointsTotal      *prometheus.CounterVec
	RateLimitRejections   *prometheus.CounterVec
	WeeklyResetsTotal     prometheus.Counter
	NotificationsTotal    *prometheus.CounterVec
	PushQueueLength       prometheus.Gauge
	JobDuration           *prometheus.HistogramVec
}

// NewMetricsRegistry initializes and returns a new MetricsRegistry with all metrics.
// Each registry owns its prometheus.Registry so several can coexist in tests.
func NewMetricsRegistry() *MetricsRegistry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	factory := promauto.With(reg)

	return &MetricsRegistry{
		Registry: reg,

		HTTPRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "townhall_http_requests_total",
				Help: "Total HTTP requests processed by endpoint, method, and status code",
			},
			[]string{"endpoint", "method", "status_code"},
		),
		HTTPRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "townhall_http_request_duration_seconds",
				Help:    "HTTP request latency distribution in seconds",
				Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
			},
			[]string{"endpoint", "method"},
		),
		HTTPRequestsInFlight: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "townhall_http_requests_in_flight",
				Help: "Number of HTTP requests currently being processed",
			},
			[]string{"endpoint"},
		),

		IssueTransitionsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "townhall_issue_transitions_total",
				Help: "Issue lifecycle actions by action and outcome",
			},
			[]string{"action", "outcome"},
		),
		IssueReportsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "townhall_issue_reports_total",
				Help: "Issue reports by outcome (created or merged)",
			},
			[]string{"outcome"},
		),
		CivicPointsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "townhall_civic_points_total",
				Help: "Absolute civic points moved, by direction",
			},
			[]string{"direction"},
		),
		RateLimitRejections: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "townhall_rate_limit_rejections_total",
				Help: "Actions rejected by the per-user rolling window",
			},
			[]string{"kind"},
		),
		WeeklyResetsTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "townhall_weekly_resets_total",
				Help: "Weekly point resets performed",
			},
		),
		NotificationsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "townhall_notifications_total",
				Help: "Notification deliveries by channel and result",
			},
			[]string{"channel", "result"},
		),
		PushQueueLength: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "townhall_push_queue_length",
				Help: "Entries currently in the push stream",
			},
		),
		JobDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "townhall_job_duration_seconds",
				Help:    "Background job execution time in seconds",
				Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 5, 10, 30},
			},
			[]string{"job_name"},
		),
	}
}

// Handler serves this registry in the Prometheus text format.
func (m *MetricsRegistry) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{})
}

// RecordPoints counts a points delta; nil-safe so services can run without metrics.
func (m *MetricsRegistry) RecordPoints(delta int) {
	if m == nil || delta == 0 {
		return
	}
	if delta > 0 {
		m.CivicPointsTotal.WithLabelValues("awarded").Add(float64(delta))
		return
	}
	m.CivicPointsTotal.WithLabelValues("deducted").Add(float64(-delta))
}

func (m *MetricsRegistry) RecordTransition(action, outcome string) {
	if m == nil {
		return
	}
	m.IssueTransitionsTotal.WithLabelValues(action, outcome).Inc()
}

func (m *MetricsRegistry) RecordReport(outcome string) {
	if m == nil {
		return
	}
	m.IssueReportsTotal.WithLabelValues(outcome).Inc()
}

func (m *MetricsRegistry) RecordRateLimited(kind string) {
	if m == nil {
		return
	}
	m.RateLimitRejections.WithLabelValues(kind).Inc()
}

func (m *MetricsRegistry) RecordWeeklyReset() {
	if m == nil {
		return
	}
	m.WeeklyResetsTotal.Inc()
}

func (m *MetricsRegistry) RecordNotification(channel, result string) {
	if m == nil {
		return
	}
	m.NotificationsTotal.WithLabelValues(channel, result).Inc()
}
