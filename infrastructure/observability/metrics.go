package observability

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "booklog"

// Metrics holds all Prometheus metrics for the application. A nil *Metrics records nothing.
type Metrics struct {
	// Registry for this collector instance
	registry *prometheus.Registry

	// HTTP metrics
	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec

	// Live graph metrics
	LayoutStepDuration prometheus.Histogram
	FrameBudgetOverrun prometheus.Counter
	ActiveSessions     prometheus.Gauge

	// Business metrics
	BooksSaved *prometheus.CounterVec

	// Collaborator metrics
	ExternalCalls    *prometheus.CounterVec
	ExternalDuration *prometheus.HistogramVec
}

// NewMetrics creates the collectors on a dedicated registry
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()

	m := &Metrics{
		registry: registry,
		HTTPRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests",
			},
			[]string{"method", "route", "status"},
		),
		HTTPDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request duration in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
		LayoutStepDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "layout_step_duration_seconds",
			Help:      "Duration of one live layout step including frame encoding",
			Buckets:   []float64{0.0005, 0.001, 0.002, 0.004, 0.008, 0.016, 0.032, 0.064},
		}),
		FrameBudgetOverrun: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "layout_frame_budget_overruns_total",
			Help:      "Layout steps that took longer than one display frame",
		}),
		ActiveSessions: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "graph_sessions_active",
			Help:      "Open live graph sessions",
		}),
		BooksSaved: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "books_saved_total",
				Help:      "Book create, update and delete operations",
			},
			[]string{"operation"},
		),
		ExternalCalls: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "external_calls_total",
				Help:      "Calls to AI and catalog collaborators",
			},
			[]string{"service", "outcome"},
		),
		ExternalDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "external_call_duration_seconds",
				Help:      "Collaborator call duration in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"service"},
		),
	}

	registry.MustRegister(
		m.HTTPRequests,
		m.HTTPDuration,
		m.LayoutStepDuration,
		m.FrameBudgetOverrun,
		m.ActiveSessions,
		m.BooksSaved,
		m.ExternalCalls,
		m.ExternalDuration,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Registry returns the registry the collectors live in
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// RecordHTTPRequest records one served request
func (m *Metrics) RecordHTTPRequest(method, route, status string, d time.Duration) {
	if m == nil {
		return
	}
	m.HTTPRequests.WithLabelValues(method, route, status).Inc()
	m.HTTPDuration.WithLabelValues(method, route).Observe(d.Seconds())
}

// RecordLayoutStep records a live step and whether it missed the frame budget
func (m *Metrics) RecordLayoutStep(d time.Duration, overBudget bool) {
	if m == nil {
		return
	}
	m.LayoutStepDuration.Observe(d.Seconds())
	if overBudget {
		m.FrameBudgetOverrun.Inc()
	}
}

// SessionOpened counts a live session
func (m *Metrics) SessionOpened() {
	if m != nil {
		m.ActiveSessions.Inc()
	}
}

// SessionClosed uncounts a live session
func (m *Metrics) SessionClosed() {
	if m != nil {
		m.ActiveSessions.Dec()
	}
}

// RecordBookSaved counts create, update or delete
func (m *Metrics) RecordBookSaved(operation string) {
	if m != nil {
		m.BooksSaved.WithLabelValues(operation).Inc()
	}
}

// RecordExternalCall records a collaborator call. outcome is ok, error or rejected.
func (m *Metrics) RecordExternalCall(service, outcome string, d time.Duration) {
	if m == nil {
		return
	}
	m.ExternalCalls.WithLabelValues(service, outcome).Inc()
	m.ExternalDuration.WithLabelValues(service).Observe(d.Seconds())
}
