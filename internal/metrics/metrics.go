// Package metrics provides Prometheus instrumentation for the bankroll
// manager.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// BetsTotal counts recorded bets, partitioned by type and result.
	BetsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bacbo_bets_total",
		Help: "Total number of bets recorded",
	}, []string{"type", "result"})

	// BetRejections counts bets rejected at validation or by a stop gate.
	BetRejections = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bacbo_bet_rejections_total",
		Help: "Bets rejected before reaching the ledger",
	}, []string{"reason"})

	// StopAlerts counts stop-loss / stop-gain breaches.
	StopAlerts = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bacbo_stop_alerts_total",
		Help: "Stop threshold breaches flagged after bets",
	}, []string{"kind"})

	// BetsDeleted counts history deletions (each triggers a full replay).
	BetsDeleted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "bacbo_bets_deleted_total",
		Help: "Bet records deleted from the history",
	})

	// Balance tracks the current bankroll.
	Balance = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "bacbo_balance",
		Help: "Current bankroll balance",
	})

	// PlansGenerated counts staking plan generations.
	PlansGenerated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "bacbo_plans_generated_total",
		Help: "30-day staking plans generated",
	})

	// WebSocketClients tracks connected WebSocket clients.
	WebSocketClients = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "bacbo_websocket_clients",
		Help: "Number of connected WebSocket clients",
	})

	// HTTPRequestsTotal counts HTTP requests by method, path, and status.
	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bacbo_http_requests_total",
		Help: "Total HTTP requests",
	}, []string{"method", "path", "status"})

	// HTTPRequestDuration tracks request duration by method and path.
	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "bacbo_http_request_duration_seconds",
		Help:    "HTTP request duration in seconds",
		Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0},
	}, []string{"method", "path"})
)

// Handler returns the Prometheus metrics HTTP handler.
func Handler() http.Handler {
	return promhttp.Handler()
}

// Middleware returns an HTTP middleware that records request metrics.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		wrapped := &statusWriter{ResponseWriter: w, status: 200}
		next.ServeHTTP(wrapped, r)
		duration := time.Since(start).Seconds()

		path := r.URL.Path
		HTTPRequestsTotal.WithLabelValues(r.Method, path, strconv.Itoa(wrapped.status)).Inc()
		HTTPRequestDuration.WithLabelValues(r.Method, path).Observe(duration)
	})
}

// statusWriter wraps http.ResponseWriter to capture the status code.
type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}
