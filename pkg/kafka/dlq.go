package kafka

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/segmentio/kafka-go"
)

// DLQTopicPrefix prefixes every dead-letter topic.
const DLQTopicPrefix = TopicPrefix + ".dlq"

// DLQTopic returns the dead-letter topic for a source topic.
func DLQTopic(originalTopic string) string {
	return DLQTopicPrefix + "." + originalTopic
}

// DeadLetterPublisher receives messages a consumer gave up on.
type DeadLetterPublisher interface {
	Publish(ctx context.Context, original kafka.Message, cause error, consumerGroup string) error
}

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// DLQProducer writes failed messages to DLQTopic(original topic), keeping
// the original key and value and recording where they came from in headers.
type DLQProducer struct {
	writer messageWriter
	logger *slog.Logger
}

// NewDLQProducer creates a synchronous DLQ writer for brokers.
func NewDLQProducer(brokers []string, logger *slog.Logger) *DLQProducer {
	return &DLQProducer{
		writer: &kafka.Writer{
			Addr:                   kafka.TCP(brokers...),
			Balancer:               &kafka.LeastBytes{},
			BatchSize:              1,
			BatchTimeout:           100 * time.Millisecond,
			RequiredAcks:           kafka.RequireAll,
			AllowAutoTopicCreation: true,
		},
		logger: logger,
	}
}

func dlqHeaders(original kafka.Message, cause error, consumerGroup string) []kafka.Header {
	headers := make([]kafka.Header, 0, len(original.Headers)+5)
	headers = append(headers, original.Headers...)
	headers = append(headers,
		kafka.Header{Key: "dlq.original_topic", Value: []byte(original.Topic)},
		kafka.Header{Key: "dlq.original_partition", Value: []byte(strconv.Itoa(original.Partition))},
		kafka.Header{Key: "dlq.original_offset", Value: []byte(strconv.FormatInt(original.Offset, 10))},
		kafka.Header{Key: "dlq.consumer_group", Value: []byte(consumerGroup)},
	)
	if cause != nil {
		headers = append(headers, kafka.Header{Key: "dlq.error", Value: []byte(cause.Error())})
	}
	return headers
}

// Publish implements DeadLetterPublisher.
func (d *DLQProducer) Publish(ctx context.Context, original kafka.Message, cause error, consumerGroup string) error {
	topic := DLQTopic(original.Topic)
	msg := kafka.Message{
		Topic:   topic,
		Key:     original.Key,
		Value:   original.Value,
		Headers: dlqHeaders(original, cause, consumerGroup),
	}

	if err := d.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("publish to DLQ %s: %w", topic, err)
	}

	d.logger.WarnContext(ctx, "message sent to DLQ",
		slog.String("dlq_topic", topic),
		slog.Int("partition", original.Partition),
		slog.Int64("offset", original.Offset),
		slog.String("consumer_group", consumerGroup),
	)
	return nil
}

// Close flushes and closes the writer.
func (d *DLQProducer) Close() error {
	return d.writer.Close()
}
