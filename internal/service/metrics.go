package service

import (
	"context"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/cobsari123-dotcom/marcket-app2/internal/domain"
	"github.com/cobsari123-dotcom/marcket-app2/pkg/logger"
)

var (
	triggerOutcomes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "trigger_outcomes_total",
			Help: "Terminal outcomes of trigger handler invocations",
		},
		[]string{"handler", "outcome"},
	)

	paymentWebhooks = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "payment_webhooks_total",
			Help: "Payment webhook deliveries by result",
		},
		[]string{"result"},
	)

	pushDeliveries = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "push_deliveries_total",
			Help: "Push notification send attempts by result",
		},
		[]string{"result"},
	)
)

// Handler names used in the trigger_outcomes_total metric.
const (
	handlerRatingAggregator = "rating_aggregator"
	handlerChatNotifier     = "chat_notifier"
)

func recordOutcome(handler string, o domain.Outcome) domain.Outcome {
	triggerOutcomes.WithLabelValues(handler, string(o)).Inc()
	return o
}

// ctxLogger returns the event-scoped logger stored by the consumer, or fallback.
func ctxLogger(ctx context.Context, fallback *slog.Logger) *slog.Logger {
	if l := logger.FromContext(ctx); l != slog.Default() {
		return l
	}
	return fallback
}
