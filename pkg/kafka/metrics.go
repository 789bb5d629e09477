package kafka

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var consumerLabels = []string{"topic", "consumer_group"}

var (
	messagesReceived = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "kafka_consumer_messages_received_total",
		Help: "Trigger messages fetched from the broker.",
	}, consumerLabels)

	messagesProcessed = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "kafka_consumer_messages_processed_total",
		Help: "Trigger messages whose handler returned without error.",
	}, consumerLabels)

	// Undecodable envelopes and messages that ran out of retries.
	messagesFailed = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "kafka_consumer_messages_failed_total",
		Help: "Trigger messages that could not be processed.",
	}, consumerLabels)

	processingSeconds = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "kafka_consumer_processing_duration_seconds",
		Help:    "Handler time per trigger message, retries included.",
		Buckets: prometheus.DefBuckets,
	}, consumerLabels)

	dlqPublished = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "kafka_consumer_dlq_published_total",
		Help: "Messages forwarded to a dead-letter topic.",
	}, consumerLabels)

	duplicatesSkipped = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "kafka_consumer_messages_duplicate_total",
		Help: "Redelivered events skipped by the idempotency guard.",
	}, []string{"event_type"})
)

// consumerMetrics holds the collectors of one consumer with its labels bound.
type consumerMetrics struct {
	received  prometheus.Counter
	processed prometheus.Counter
	failed    prometheus.Counter
	dlq       prometheus.Counter
	duration  prometheus.Observer
}

func newConsumerMetrics(topic, group string) consumerMetrics {
	return consumerMetrics{
		received:  messagesReceived.WithLabelValues(topic, group),
		processed: messagesProcessed.WithLabelValues(topic, group),
		failed:    messagesFailed.WithLabelValues(topic, group),
		dlq:       dlqPublished.WithLabelValues(topic, group),
		duration:  processingSeconds.WithLabelValues(topic, group),
	}
}
