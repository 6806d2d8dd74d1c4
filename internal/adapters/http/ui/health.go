package ui

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/okian/sgva/pkg/metrics"
)

// HandleHealth serves the dashboard metrics registry. It backs both
// /healthz and /metrics.
func HandleHealth(w http.ResponseWriter, r *http.Request) {
	promhttp.HandlerFor(metrics.GetRegistry(), promhttp.HandlerOpts{}).ServeHTTP(w, r)
}
