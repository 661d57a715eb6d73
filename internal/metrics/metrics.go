// Package metrics provides Prometheus instrumentation for the advisor engine.
package metrics

import (
	"bufio"
	"errors"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// RecommendationsTotal counts recommendation runs by risk tolerance.
	RecommendationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "advisor_recommendations_total",
		Help: "Total number of recommendation runs",
	}, []string{"tolerance"})

	// RecommendedInstruments tracks how many instruments survive a run.
	RecommendedInstruments = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "advisor_recommended_instruments",
		Help:    "Number of instruments returned per recommendation run",
		Buckets: []float64{0, 1, 2, 3, 4, 5, 6},
	})

	// SuitabilityScore tracks the distribution of returned suitability scores.
	SuitabilityScore = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "advisor_suitability_score",
		Help:    "Suitability score of recommended instruments",
		Buckets: prometheus.LinearBuckets(60, 5, 9),
	})

	// RiskAssessmentsTotal counts scored questionnaires by resulting tolerance.
	RiskAssessmentsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "advisor_risk_assessments_total",
		Help: "Total number of risk questionnaires scored",
	}, []string{"tolerance"})

	// ProjectionsTotal counts projection calculations.
	ProjectionsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "advisor_projections_total",
		Help: "Total number of projections computed",
	})

	// PortfolioInvestmentsTotal counts holdings added, by instrument type.
	PortfolioInvestmentsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "advisor_portfolio_investments_total",
		Help: "Total portfolio investments recorded",
	}, []string{"type"})

	// WebSocketClients tracks connected WebSocket clients.
	WebSocketClients = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "advisor_websocket_clients",
		Help: "Number of connected WebSocket clients",
	})

	// HTTPRequestsTotal counts HTTP requests by method, route, and status.
	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "advisor_http_requests_total",
		Help: "Total HTTP requests",
	}, []string{"method", "path", "status"})

	// HTTPRequestDuration tracks request duration by method and route.
	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "advisor_http_request_duration_seconds",
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
		wrapped := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(wrapped, r)
		duration := time.Since(start).Seconds()

		path := routePattern(r)
		HTTPRequestsTotal.WithLabelValues(r.Method, path, strconv.Itoa(wrapped.status)).Inc()
		HTTPRequestDuration.WithLabelValues(r.Method, path).Observe(duration)
	})
}

// routePattern labels by chi route pattern ("/api/v1/profiles/{userID}")
// rather than raw path, keeping label cardinality bounded.
func routePattern(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if p := rctx.RoutePattern(); p != "" {
			return p
		}
	}
	return "unmatched"
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

// Hijack lets the websocket upgrader take over the connection.
func (w *statusWriter) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	h, ok := w.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, errors.New("metrics: response writer does not support hijacking")
	}
	w.status = http.StatusSwitchingProtocols
	return h.Hijack()
}
