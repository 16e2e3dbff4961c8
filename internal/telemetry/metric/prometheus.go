package metric

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "portal"

// Registry holds all application metrics.
type Registry struct {
	reg *prometheus.Registry

	// Auth metrics
	loginAttempts *prometheus.CounterVec
	sessionActive prometheus.Gauge
	directorySize prometheus.Gauge

	// Routing metrics
	guardDecisions *prometheus.CounterVec

	// Request metrics
	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
}

// NewRegistry creates and registers all metrics.
func NewRegistry() *Registry {
	r := &Registry{
		reg: prometheus.NewRegistry(),

		loginAttempts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "auth",
			Name:      "login_attempts_total",
			Help:      "Login attempts by outcome.",
		}, []string{"outcome"}),

		sessionActive: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "auth",
			Name:      "session_active",
			Help:      "1 when a session is active, 0 otherwise.",
		}),

		directorySize: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "directory",
			Name:      "identities",
			Help:      "Number of identities in the user directory.",
		}),

		guardDecisions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "guard",
			Name:      "decisions_total",
			Help:      "Route guard decisions by kind.",
		}, []string{"kind"}),

		requestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "HTTP requests by method, route and status.",
		}, []string{"method", "route", "status"}),

		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}

	r.reg.MustRegister(
		r.loginAttempts,
		r.sessionActive,
		r.directorySize,
		r.guardDecisions,
		r.requestsTotal,
		r.requestDuration,
	)
	registerRuntimeCollectors(r.reg)

	return r
}

// Registerer exposes the underlying registry for other components
// (for example the badger engine gauges).
func (r *Registry) Registerer() prometheus.Registerer {
	return r.reg
}

// Gatherer exposes the underlying registry for scraping and tests.
func (r *Registry) Gatherer() prometheus.Gatherer {
	return r.reg
}

// Handler returns an HTTP handler for the /metrics endpoint.
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.reg, promhttp.HandlerOpts{Registry: r.reg})
}

// LoginAttempt counts a login by outcome.
func (r *Registry) LoginAttempt(outcome string) {
	r.loginAttempts.WithLabelValues(outcome).Inc()
}

// SessionActive records whether a session is active.
func (r *Registry) SessionActive(active bool) {
	if active {
		r.sessionActive.Set(1)
		return
	}
	r.sessionActive.Set(0)
}

// DirectorySize records the number of identities.
func (r *Registry) DirectorySize(n int) {
	r.directorySize.Set(float64(n))
}

// GuardDecision counts a route guard decision.
func (r *Registry) GuardDecision(kind string) {
	r.guardDecisions.WithLabelValues(kind).Inc()
}

// ObserveRequest records one finished HTTP request.
func (r *Registry) ObserveRequest(method, route string, status int, elapsed time.Duration) {
	r.requestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	r.requestDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}
