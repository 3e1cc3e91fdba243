// Package metrics exposes mealbot's Prometheus counters.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the application collectors on their own registry.
type Metrics struct {
	registry *prometheus.Registry

	// Messages by classified intent
	Messages *prometheus.CounterVec

	// Collaborator failures (transcriber, extractor, store, charts)
	CollaboratorFailures *prometheus.CounterVec

	// Webhook latency, LLM and speech calls included
	RequestDuration *prometheus.HistogramVec
}

func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,

		Messages: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "mealbot_messages_total",
			Help: "Total number of inbound messages by intent",
		}, []string{"intent"}),

		CollaboratorFailures: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "mealbot_collaborator_failures_total",
			Help: "Total number of failed collaborator calls",
		}, []string{"collaborator"}),

		RequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "mealbot_webhook_request_duration_seconds",
			Help:    "Webhook request latency in seconds",
			Buckets: []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60},
		}, []string{"status"}),
	}
}

func (m *Metrics) MessageHandled(intent string) {
	m.Messages.WithLabelValues(intent).Inc()
}

func (m *Metrics) CollaboratorFailed(collaborator string) {
	m.CollaboratorFailures.WithLabelValues(collaborator).Inc()
}

func (m *Metrics) ObserveRequest(status string, d time.Duration) {
	m.RequestDuration.WithLabelValues(status).Observe(d.Seconds())
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
