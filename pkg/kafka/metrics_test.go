package kafka

import (
	"context"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConsumerMetrics_CountOutcomes(t *testing.T) {
	const topic, group = "metrics.review.created", "metrics-group"
	ok := eventMessage(t, topic, map[string]string{"product_id": "p1"})
	bad := kafka.Message{Topic: topic, Value: []byte("garbage")}
	r := &fakeReader{queue: []kafka.Message{ok, bad}}

	c := newConsumer(r, ConsumerConfig{Topic: topic, GroupID: group, MaxRetries: 1, RetryBackoff: 1},
		func(context.Context, *Event) error { return nil }, testLogger(), WithDeadLetter(&recordingDLQ{}))
	runUntilCommitted(t, c, r, 2)

	assert.Equal(t, 2.0, testutil.ToFloat64(messagesReceived.WithLabelValues(topic, group)))
	assert.Equal(t, 1.0, testutil.ToFloat64(messagesProcessed.WithLabelValues(topic, group)))
	assert.Equal(t, 1.0, testutil.ToFloat64(messagesFailed.WithLabelValues(topic, group)))
	assert.Equal(t, 1.0, testutil.ToFloat64(dlqPublished.WithLabelValues(topic, group)))
}

func TestIdempotentHandler_CountsDuplicates(t *testing.T) {
	store := NewMemoryIdempotencyStore(time.Hour)
	h := IdempotentHandler(store, func(context.Context, *Event) error { return nil }, testLogger())
	evt := &Event{EventID: "evt-metric-dup", EventType: "metrics.duplicate"}

	counter := duplicatesSkipped.WithLabelValues("metrics.duplicate")
	before := testutil.ToFloat64(counter)
	require.NoError(t, h(context.Background(), evt))
	require.NoError(t, h(context.Background(), evt))
	assert.Equal(t, before+1, testutil.ToFloat64(counter))
}
