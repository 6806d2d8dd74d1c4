// Package metrics provides Prometheus metrics for the SGVA dashboard client.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager owns every Prometheus collector used by the dashboard client.
type Manager struct {
	namespace      string
	subsystem      string
	latencyBuckets []float64
	constLabels    prometheus.Labels
	registry       prometheus.Registerer

	// Backend API calls issued by the client.
	backendRequests        *prometheus.CounterVec
	backendRequestDuration *prometheus.HistogramVec
	backendFailures        *prometheus.CounterVec

	// Session lifecycle.
	sessionLogins  prometheus.Counter
	sessionLogouts prometheus.Counter
	sessionExpired prometheus.Counter

	// View state.
	loaderRuns      *prometheus.CounterVec
	staleResponses  *prometheus.CounterVec
	pageViews       *prometheus.CounterVec
	notifications   *prometheus.CounterVec
	activeToasts    prometheus.Gauge
	renderedRecords *prometheus.HistogramVec

	// Dashboard HTTP surface.
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // metrics registry

func init() { //nolint:gochecknoinits // global metrics setup
	globalManager = NewManager(WithRegisterer(customRegistry))
}

// NewManager creates a metrics manager and registers its collectors.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:      "sgva",
		subsystem:      "dashboard",
		latencyBuckets: []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000},
		registry:       prometheus.DefaultRegisterer,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.initializeMetrics()
	return m
}

func (m *Manager) initializeMetrics() { //nolint:funlen // one place for every collector
	auto := promauto.With(m.registry)

	m.backendRequests = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		ConstLabels: m.constLabels,
		Name:        "backend_requests_total",
		Help:        "Backend API requests by endpoint, method and status code",
	}, []string{"endpoint", "method", "status_code"})

	m.backendRequestDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		ConstLabels: m.constLabels,
		Name:        "backend_request_duration_milliseconds",
		Help:        "Backend API request latency in milliseconds",
		Buckets:     m.latencyBuckets,
	}, []string{"endpoint", "method"})

	m.backendFailures = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		ConstLabels: m.constLabels,
		Name:        "backend_failures_total",
		Help:        "Backend API failures reported to the user, by endpoint and kind",
	}, []string{"endpoint", "kind"})

	m.sessionLogins = auto.NewCounter(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		ConstLabels: m.constLabels,
		Name:        "session_logins_total",
		Help:        "Successful logins",
	})

	m.sessionLogouts = auto.NewCounter(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		ConstLabels: m.constLabels,
		Name:        "session_logouts_total",
		Help:        "Logouts, explicit or forced",
	})

	m.sessionExpired = auto.NewCounter(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		ConstLabels: m.constLabels,
		Name:        "session_expired_total",
		Help:        "Sessions invalidated by an unauthorized backend response",
	})

	m.loaderRuns = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		ConstLabels: m.constLabels,
		Name:        "loader_runs_total",
		Help:        "Data loader executions by loader",
	}, []string{"loader"})

	m.staleResponses = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		ConstLabels: m.constLabels,
		Name:        "stale_responses_total",
		Help:        "Responses discarded because a newer load superseded them",
	}, []string{"loader"})

	m.pageViews = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		ConstLabels: m.constLabels,
		Name:        "page_views_total",
		Help:        "Page transitions by target page",
	}, []string{"page"})

	m.notifications = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		ConstLabels: m.constLabels,
		Name:        "notifications_total",
		Help:        "Toasts shown to the user by kind",
	}, []string{"kind"})

	m.activeToasts = auto.NewGauge(prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		ConstLabels: m.constLabels,
		Name:        "active_toasts",
		Help:        "Toasts currently visible",
	})

	m.renderedRecords = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		ConstLabels: m.constLabels,
		Name:        "rendered_records",
		Help:        "Records rendered per fragment",
		Buckets:     []float64{0, 1, 3, 10, 25, 50, 100},
	}, []string{"fragment"})

	m.httpRequests = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		ConstLabels: m.constLabels,
		Name:        "http_requests_total",
		Help:        "Dashboard HTTP requests by route, method and status code",
	}, []string{"endpoint", "method", "status_code"})

	m.httpRequestDuration = auto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		ConstLabels: m.constLabels,
		Name:        "http_request_duration_milliseconds",
		Help:        "Dashboard HTTP request duration in milliseconds",
		Buckets:     m.latencyBuckets,
	}, []string{"endpoint", "method", "status_code"})
}

// RecordBackendRequest counts a completed backend call.
func RecordBackendRequest(endpoint, method, statusCode string) {
	globalManager.backendRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordBackendRequestDuration observes backend call latency.
func RecordBackendRequestDuration(endpoint, method string, durationMs float64) {
	globalManager.backendRequestDuration.WithLabelValues(endpoint, method).Observe(durationMs)
}

// RecordBackendFailure counts a failure surfaced at the client boundary.
// kind is one of: api, transport, decode.
func RecordBackendFailure(endpoint, kind string) {
	globalManager.backendFailures.WithLabelValues(endpoint, kind).Inc()
}

// RecordLogin counts a successful login.
func RecordLogin() { globalManager.sessionLogins.Inc() }

// RecordLogout counts a logout.
func RecordLogout() { globalManager.sessionLogouts.Inc() }

// RecordSessionExpired counts a 401-driven session invalidation.
func RecordSessionExpired() { globalManager.sessionExpired.Inc() }

// RecordLoaderRun counts a loader execution.
func RecordLoaderRun(loader string) {
	globalManager.loaderRuns.WithLabelValues(loader).Inc()
}

// RecordStaleResponse counts a discarded out-of-date response.
func RecordStaleResponse(loader string) {
	globalManager.staleResponses.WithLabelValues(loader).Inc()
}

// RecordPageView counts a page transition.
func RecordPageView(page string) {
	globalManager.pageViews.WithLabelValues(page).Inc()
}

// RecordNotification counts a toast.
func RecordNotification(kind string) {
	globalManager.notifications.WithLabelValues(kind).Inc()
}

// UpdateActiveToasts sets the visible toast count.
func UpdateActiveToasts(count int) {
	globalManager.activeToasts.Set(float64(count))
}

// RecordRenderedRecords observes how many records a fragment rendered.
func RecordRenderedRecords(fragment string, count int) {
	globalManager.renderedRecords.WithLabelValues(fragment).Observe(float64(count))
}

// RecordHTTPRequest records a dashboard HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records dashboard HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
}

// GetRegistry returns the registry all global collectors live in.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
