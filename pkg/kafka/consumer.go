package kafka

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/segmentio/kafka-go"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/cobsari123-dotcom/marcket-app2/pkg/logger"
)

const (
	defaultMaxRetries   = 3
	defaultRetryBackoff = 100 * time.Millisecond
	tracerName          = "github.com/cobsari123-dotcom/marcket-app2/pkg/kafka"
)

// Handler processes one decoded event. A non-nil error triggers a retry.
type Handler func(ctx context.Context, event *Event) error

// ConsumerConfig holds Kafka consumer configuration.
type ConsumerConfig struct {
	Brokers  []string
	GroupID  string
	Topic    string
	MinBytes int
	MaxBytes int

	// MaxRetries bounds handler attempts per message; zero means 3.
	MaxRetries int
	// RetryBackoff is multiplied by the attempt number between retries.
	RetryBackoff time.Duration
}

type messageReader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// ConsumerOption customizes a Consumer.
type ConsumerOption func(*Consumer)

// WithDeadLetter forwards undecodable and exhausted messages to p before
// they are committed.
func WithDeadLetter(p DeadLetterPublisher) ConsumerOption {
	return func(c *Consumer) { c.dlq = p }
}

// Consumer reads one topic in a consumer group and commits each message
// after its handler finishes, whether it succeeded or not.
type Consumer struct {
	reader     messageReader
	topic      string
	group      string
	handler    Handler
	dlq        DeadLetterPublisher
	logger     *slog.Logger
	maxRetries int
	backoff    time.Duration
	closeOnce  sync.Once
	metrics    consumerMetrics
}

// NewConsumer creates a consumer for cfg.Topic in cfg.GroupID.
func NewConsumer(cfg ConsumerConfig, handler Handler, logger *slog.Logger, opts ...ConsumerOption) *Consumer {
	r := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  cfg.Brokers,
		GroupID:  cfg.GroupID,
		Topic:    cfg.Topic,
		MinBytes: cfg.MinBytes,
		MaxBytes: cfg.MaxBytes,
	})
	return newConsumer(r, cfg, handler, logger, opts...)
}

func newConsumer(r messageReader, cfg ConsumerConfig, handler Handler, logger *slog.Logger, opts ...ConsumerOption) *Consumer {
	c := &Consumer{
		reader:     r,
		topic:      cfg.Topic,
		group:      cfg.GroupID,
		handler:    handler,
		logger:     logger,
		maxRetries: cfg.MaxRetries,
		backoff:    cfg.RetryBackoff,
		metrics:    newConsumerMetrics(cfg.Topic, cfg.GroupID),
	}
	if c.maxRetries <= 0 {
		c.maxRetries = defaultMaxRetries
	}
	if c.backoff <= 0 {
		c.backoff = defaultRetryBackoff
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Topic returns the consumed topic.
func (c *Consumer) Topic() string { return c.topic }

// Start consumes until ctx is canceled, then closes the reader.
func (c *Consumer) Start(ctx context.Context) error {
	c.logger.Info("consumer started",
		slog.String("topic", c.topic),
		slog.String("group", c.group),
	)

	for {
		msg, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				c.logger.Info("consumer stopping", slog.String("topic", c.topic))
				return c.Close()
			}
			c.logger.Error("failed to fetch message",
				slog.String("topic", c.topic),
				slog.String("error", err.Error()),
			)
			continue
		}

		if !c.process(ctx, msg) {
			return c.Close()
		}

		if err := c.reader.CommitMessages(ctx, msg); err != nil {
			c.logger.Error("failed to commit message",
				slog.String("topic", msg.Topic),
				slog.Int64("offset", msg.Offset),
				slog.String("error", err.Error()),
			)
		}
	}
}

// process runs the handler for msg. It returns false only when ctx was
// canceled mid-retry and the message must stay uncommitted.
func (c *Consumer) process(ctx context.Context, msg kafka.Message) bool {
	start := time.Now()
	c.metrics.received.Inc()

	event, err := UnmarshalEvent(msg.Value)
	if err != nil {
		c.logger.Error("failed to unmarshal event",
			slog.String("topic", msg.Topic),
			slog.Int64("offset", msg.Offset),
			slog.String("error", err.Error()),
		)
		c.metrics.failed.Inc()
		c.deadLetter(ctx, msg, err)
		return true
	}

	ctx = otel.GetTextMapPropagator().Extract(ctx, NewHeaderCarrier(&msg.Headers))
	ctx, span := otel.Tracer(tracerName).Start(ctx, "kafka.consume "+msg.Topic,
		trace.WithSpanKind(trace.SpanKindConsumer),
		trace.WithAttributes(
			attribute.String("messaging.system", "kafka"),
			attribute.String("messaging.destination.name", msg.Topic),
			attribute.String("messaging.message.id", event.EventID),
		),
	)
	defer span.End()

	ctx = logger.WithEventID(ctx, event.EventID)
	if event.CorrelationID != "" {
		ctx = logger.WithCorrelationID(ctx, event.CorrelationID)
	}
	log := logger.WithContext(ctx, c.logger)
	ctx = logger.NewContext(ctx, log)

	var lastErr error
	for attempt := 1; attempt <= c.maxRetries; attempt++ {
		if lastErr = c.handler(ctx, event); lastErr == nil {
			break
		}
		log.Warn("handler failed",
			slog.String("event_type", event.EventType),
			slog.String("aggregate_id", event.AggregateID),
			slog.Int("attempt", attempt),
			slog.Int("max_retries", c.maxRetries),
			slog.String("error", lastErr.Error()),
		)
		if attempt == c.maxRetries {
			break
		}
		select {
		case <-ctx.Done():
			return false
		case <-time.After(time.Duration(attempt) * c.backoff):
		}
	}

	c.metrics.duration.Observe(time.Since(start).Seconds())

	if lastErr != nil {
		span.RecordError(lastErr)
		log.Error("handler failed after all retries, skipping message",
			slog.String("event_type", event.EventType),
			slog.Int64("offset", msg.Offset),
			slog.String("error", lastErr.Error()),
		)
		c.metrics.failed.Inc()
		c.deadLetter(ctx, msg, lastErr)
		return true
	}

	c.metrics.processed.Inc()
	return true
}

func (c *Consumer) deadLetter(ctx context.Context, msg kafka.Message, cause error) {
	if c.dlq == nil {
		return
	}
	if err := c.dlq.Publish(ctx, msg, cause, c.group); err != nil {
		c.logger.Error("failed to publish to DLQ",
			slog.String("topic", msg.Topic),
			slog.Int64("offset", msg.Offset),
			slog.String("error", err.Error()),
		)
		return
	}
	c.metrics.dlq.Inc()
}

// Close closes the reader. It is safe to call more than once.
func (c *Consumer) Close() error {
	var err error
	c.closeOnce.Do(func() {
		err = c.reader.Close()
	})
	return err
}
