// Package metrics provides Prometheus metrics for the webhook service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "barberbot"

// WebhookMetrics tracks inbound webhook traffic and reply outcomes.
// A nil receiver is safe on all record methods so callers can run
// without a registry in tests.
type WebhookMetrics struct {
	inboundTotal *prometheus.CounterVec
	repliesTotal *prometheus.CounterVec
	latency      prometheus.Histogram
}

// NewWebhookMetrics creates and registers webhook metrics.
func NewWebhookMetrics(reg prometheus.Registerer) *WebhookMetrics {
	m := &WebhookMetrics{
		inboundTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "webhook",
				Name:      "inbound_total",
				Help:      "Inbound webhook requests by outcome status",
			},
			[]string{"status"},
		),
		repliesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "webhook",
				Name:      "replies_total",
				Help:      "Bot replies by outcome",
			},
			[]string{"outcome"},
		),
		latency: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "webhook",
				Name:      "reply_latency_seconds",
				Help:      "End-to-end webhook handling latency",
				Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 20},
			},
		),
	}

	if reg != nil {
		reg.MustRegister(m.inboundTotal, m.repliesTotal, m.latency)
	}

	return m
}

// RecordInbound counts an inbound request with its outcome status.
func (m *WebhookMetrics) RecordInbound(status string) {
	if m == nil {
		return
	}
	m.inboundTotal.WithLabelValues(status).Inc()
}

// RecordReply counts a bot reply outcome.
func (m *WebhookMetrics) RecordReply(outcome string) {
	if m == nil {
		return
	}
	m.repliesTotal.WithLabelValues(outcome).Inc()
}

// ObserveLatency records end-to-end handling latency in seconds.
func (m *WebhookMetrics) ObserveLatency(seconds float64) {
	if m == nil {
		return
	}
	m.latency.Observe(seconds)
}
