// Package metrics provides Prometheus metrics instrumentation.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RequestDuration tracks HTTP request duration.
	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "proxy_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10, 30},
		},
		[]string{"method", "path", "status"},
	)

	// RequestsTotal tracks total HTTP requests.
	RequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "proxy_requests_total",
			Help: "Total HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	// TurnsTotal tracks conversation turns by persona mode and outcome.
	TurnsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "turns_total",
			Help: "Total conversation turns processed",
		},
		[]string{"mode", "outcome"},
	)

	// LLMRequestDuration tracks completion call duration.
	LLMRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "llm_request_duration_seconds",
			Help:    "LLM completion request duration",
			Buckets: []float64{.25, .5, 1, 2, 5, 10, 15, 20, 30},
		},
		[]string{"model", "status"},
	)

	// LLMTokensTotal tracks total LLM tokens processed.
	LLMTokensTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "llm_tokens_total",
			Help: "Total LLM tokens processed",
		},
		[]string{"model", "direction"},
	)

	// SinkDeliveriesTotal tracks webhook sink delivery attempts.
	SinkDeliveriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sink_deliveries_total",
			Help: "Webhook sink delivery attempts",
		},
		[]string{"sink", "status"},
	)

	// LeadsTotal tracks lead submissions by outcome.
	LeadsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "leads_total",
			Help: "Total lead submissions",
		},
		[]string{"outcome"},
	)

	// LogQueueDepth tracks the pending entries in the log dispatcher queue.
	LogQueueDepth = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "log_queue_depth",
			Help: "Pending entries in the background log queue",
		},
	)

	// LogQueueDropsTotal tracks log entries dropped due to a full queue.
	LogQueueDropsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "log_queue_drops_total",
			Help: "Log entries dropped because the queue was full",
		},
	)

	// EmotionLabelsTotal tracks emotion classifications on voice payloads.
	EmotionLabelsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "emotion_labels_total",
			Help: "Emotion labels assigned to voice payloads",
		},
		[]string{"label"},
	)
)

// RecordRequest records metrics for an HTTP request.
func RecordRequest(method, path, status string, duration float64) {
	RequestDuration.WithLabelValues(method, path, status).Observe(duration)
	RequestsTotal.WithLabelValues(method, path, status).Inc()
}

// RecordLLMRequest records metrics for a completion call.
func RecordLLMRequest(model, status string, duration float64, tokensIn, tokensOut int) {
	LLMRequestDuration.WithLabelValues(model, status).Observe(duration)
	LLMTokensTotal.WithLabelValues(model, "in").Add(float64(tokensIn))
	LLMTokensTotal.WithLabelValues(model, "out").Add(float64(tokensOut))
}

// RecordSinkDelivery records a webhook sink delivery attempt.
func RecordSinkDelivery(sink string, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	SinkDeliveriesTotal.WithLabelValues(sink, status).Inc()
}
