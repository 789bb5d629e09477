package event

import (
	"context"
	"log/slog"

	"github.com/cobsari123-dotcom/marcket-app2/internal/domain"
	pkgkafka "github.com/cobsari123-dotcom/marcket-app2/pkg/kafka"
	"github.com/cobsari123-dotcom/marcket-app2/pkg/logger"
)

// DefaultConsumerGroupID is used when no group is configured.
const DefaultConsumerGroupID = "marketplace-triggers"

// ReviewCreatedData is the payload of marketplace.review.created.
type ReviewCreatedData struct {
	ProductID string         `json:"product_id"`
	ReviewID  string         `json:"review_id"`
	Review    *domain.Review `json:"review"`
}

// ChatMessageCreatedData is the payload of marketplace.chat.message_created.
type ChatMessageCreatedData struct {
	ChatRoomID string              `json:"chat_room_id"`
	MessageID  string              `json:"message_id"`
	Message    *domain.ChatMessage `json:"message"`
}

// ReviewHandler reacts to a newly created review.
type ReviewHandler interface {
	OnReviewCreated(ctx context.Context, productID, reviewID string, review *domain.Review) domain.Outcome
}

// ChatHandler reacts to a newly created chat message.
type ChatHandler interface {
	OnMessageCreated(ctx context.Context, chatRoomID, messageID string, msg *domain.ChatMessage) domain.Outcome
}

// ConsumerHandler routes trigger events to the rating and chat services.
// Handlers never return an error, so the consumer never retries a trigger.
type ConsumerHandler struct {
	ratings ReviewHandler
	chat    ChatHandler
	logger  *slog.Logger
}

// NewConsumerHandler creates a new event consumer handler.
func NewConsumerHandler(ratings ReviewHandler, chat ChatHandler, logger *slog.Logger) *ConsumerHandler {
	return &ConsumerHandler{
		ratings: ratings,
		chat:    chat,
		logger:  logger,
	}
}

// HandleReviewCreated processes marketplace.review.created events.
func (h *ConsumerHandler) HandleReviewCreated(ctx context.Context, event *pkgkafka.Event) error {
	ctx = h.eventContext(ctx, event)

	var data ReviewCreatedData
	if err := event.UnmarshalData(&data); err != nil {
		h.logger.ErrorContext(ctx, "failed to decode review.created payload",
			slog.String("event_id", event.EventID),
			slog.String("error", err.Error()),
		)
		return nil
	}
	if data.ProductID == "" {
		data.ProductID = event.AggregateID
	}

	h.ratings.OnReviewCreated(ctx, data.ProductID, data.ReviewID, data.Review)
	return nil
}

// HandleChatMessageCreated processes marketplace.chat.message_created events.
func (h *ConsumerHandler) HandleChatMessageCreated(ctx context.Context, event *pkgkafka.Event) error {
	ctx = h.eventContext(ctx, event)

	var data ChatMessageCreatedData
	if err := event.UnmarshalData(&data); err != nil {
		h.logger.ErrorContext(ctx, "failed to decode chat.message_created payload",
			slog.String("event_id", event.EventID),
			slog.String("error", err.Error()),
		)
		return nil
	}
	if data.ChatRoomID == "" {
		data.ChatRoomID = event.AggregateID
	}

	h.chat.OnMessageCreated(ctx, data.ChatRoomID, data.MessageID, data.Message)
	return nil
}

// eventContext stores an event-scoped logger in ctx for the services.
func (h *ConsumerHandler) eventContext(ctx context.Context, event *pkgkafka.Event) context.Context {
	ctx = logger.WithEventID(ctx, event.EventID)
	if event.CorrelationID != "" {
		ctx = logger.WithCorrelationID(ctx, event.CorrelationID)
	}
	l := logger.WithContext(ctx, h.logger).With(slog.String("event_type", event.EventType))
	return logger.NewContext(ctx, l)
}

// ConsumersConfig configures the trigger consumers.
type ConsumersConfig struct {
	Brokers []string
	GroupID string
}

// NewConsumers creates one consumer per trigger topic. Every handler is
// wrapped with the idempotency guard; dlq may be nil.
func NewConsumers(cfg ConsumersConfig, handler *ConsumerHandler, store pkgkafka.IdempotencyStore, dlq pkgkafka.DeadLetterPublisher, logger *slog.Logger) []*pkgkafka.Consumer {
	groupID := cfg.GroupID
	if groupID == "" {
		groupID = DefaultConsumerGroupID
	}

	routes := []struct {
		topic   string
		handler pkgkafka.Handler
	}{
		{pkgkafka.TopicReviewCreated, handler.HandleReviewCreated},
		{pkgkafka.TopicChatMessageCreated, handler.HandleChatMessageCreated},
	}

	var opts []pkgkafka.ConsumerOption
	if dlq != nil {
		opts = append(opts, pkgkafka.WithDeadLetter(dlq))
	}

	consumers := make([]*pkgkafka.Consumer, 0, len(routes))
	for _, r := range routes {
		h := r.handler
		if store != nil {
			h = pkgkafka.IdempotentHandler(store, h, logger)
		}

		consumer := pkgkafka.NewConsumer(pkgkafka.ConsumerConfig{
			Brokers:  cfg.Brokers,
			GroupID:  groupID,
			Topic:    r.topic,
			MinBytes: 1,
			MaxBytes: 10e6,
		}, h, logger, opts...)
		consumers = append(consumers, consumer)
	}

	return consumers
}
