// Package metrics exposes Prometheus instrumentation for the relay.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	Connections = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "syncy_ws_connections",
		Help: "Currently admitted websocket connections.",
	})
	MessagesRelayed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "syncy_messages_relayed_total",
		Help: "Envelopes accepted and fanned out by the relay.",
	})
	SendsDropped = promauto.NewCounter(prometheus.CounterOpts{
		Name: "syncy_sends_dropped_total",
		Help: "Per-recipient deliveries skipped due to backpressure.",
	})
	MalformedPayloads = promauto.NewCounter(prometheus.CounterOpts{
		Name: "syncy_malformed_payloads_total",
		Help: "Inbound messages dropped because they did not parse.",
	})
	AdmissionsRejected = promauto.NewCounter(prometheus.CounterOpts{
		Name: "syncy_admissions_rejected_total",
		Help: "Connections refused for missing parameters.",
	})
)

// Handler exposes Prometheus metrics at /metrics
func Handler() http.Handler {
	return promhttp.Handler()
}
