// Package metrics exposes Prometheus collectors for the HTTP layer and the
// password reset flow.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Reset flow outcomes.
const (
	ResetRequested = "requested"
	ResetCompleted = "completed"
	ResetRejected  = "rejected"
	ResetSwept     = "swept"
)

// Mail delivery outcomes.
const (
	MailSent   = "sent"
	MailQueued = "queued"
	MailFailed = "failed"
)

// Metrics owns a private registry so tests can create independent instances.
// All Record methods are safe on a nil receiver.
type Metrics struct {
	registry *prometheus.Registry

	httpRequests   *prometheus.CounterVec
	httpDuration   *prometheus.HistogramVec
	passwordResets *prometheus.CounterVec
	mailDeliveries *prometheus.CounterVec
	bookCache      *prometheus.CounterVec
}

func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	reg.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	m := &Metrics{
		registry: reg,
		httpRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bookshelf_http_requests_total",
				Help: "Total number of HTTP requests by method, route and status",
			},
			[]string{"method", "route", "status"},
		),
		httpDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "bookshelf_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
		passwordResets: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bookshelf_password_resets_total",
				Help: "Password reset flow events by outcome",
			},
			[]string{"outcome"},
		),
		mailDeliveries: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bookshelf_mail_deliveries_total",
				Help: "Notification deliveries by status",
			},
			[]string{"status"},
		),
		bookCache: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bookshelf_book_cache_lookups_total",
				Help: "Book list cache lookups by result",
			},
			[]string{"result"},
		),
	}

	reg.MustRegister(m.httpRequests, m.httpDuration, m.passwordResets, m.mailDeliveries, m.bookCache)
	return m
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) RecordHTTPRequest(method, route, status string, duration time.Duration) {
	if m == nil {
		return
	}
	m.httpRequests.WithLabelValues(method, route, status).Inc()
	m.httpDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

func (m *Metrics) RecordPasswordReset(outcome string) {
	m.addPasswordResets(outcome, 1)
}

func (m *Metrics) addPasswordResets(outcome string, n int64) {
	if m == nil || n <= 0 {
		return
	}
	m.passwordResets.WithLabelValues(outcome).Add(float64(n))
}

// RecordSweep counts reset tokens cleared by the expiry sweeper.
func (m *Metrics) RecordSweep(cleared int64) {
	m.addPasswordResets(ResetSwept, cleared)
}

func (m *Metrics) RecordMailDelivery(status string) {
	if m == nil {
		return
	}
	m.mailDeliveries.WithLabelValues(status).Inc()
}

func (m *Metrics) RecordBookCache(hit bool) {
	if m == nil {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	m.bookCache.WithLabelValues(result).Inc()
}
