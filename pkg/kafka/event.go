package kafka

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// envelopeVersion is bumped when the Event layout changes incompatibly.
const envelopeVersion = 1

var errNoEventData = errors.New("event has no data")

// Event is the JSON envelope around every marketplace trigger message.
// AggregateID names the document the event is about: the product for
// review.created, the chat room for chat.message_created.
type Event struct {
	EventID       string          `json:"event_id"`
	EventType     string          `json:"event_type"`
	AggregateID   string          `json:"aggregate_id"`
	AggregateType string          `json:"aggregate_type"`
	Version       int             `json:"version"`
	Timestamp     time.Time       `json:"timestamp"`
	Source        string          `json:"source"`
	CorrelationID string          `json:"correlation_id,omitempty"`
	Data          json.RawMessage `json:"data"`
}

// EventOption customizes an envelope built by NewEvent.
type EventOption func(*Event)

// WithSource records the producing service.
func WithSource(source string) EventOption {
	return func(e *Event) { e.Source = source }
}

// WithCorrelation carries a correlation ID across the hop.
func WithCorrelation(id string) EventOption {
	return func(e *Event) { e.CorrelationID = id }
}

// NewEvent wraps data for publication. The aggregate type is the event
// type's first dot-separated segment, e.g. "review" for "review.created".
func NewEvent(eventType, aggregateID string, data any, opts ...EventOption) (*Event, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("encode %s payload: %w", eventType, err)
	}

	aggregateType, _, _ := strings.Cut(eventType, ".")
	e := &Event{
		EventID:       uuid.NewString(),
		EventType:     eventType,
		AggregateID:   aggregateID,
		AggregateType: aggregateType,
		Version:       envelopeVersion,
		Timestamp:     time.Now().UTC(),
		Data:          raw,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

func (e *Event) Marshal() ([]byte, error) {
	return json.Marshal(e)
}

// UnmarshalEvent decodes a message value. Envelopes whose data is missing
// or null are rejected so they land in the DLQ instead of a handler.
func UnmarshalEvent(value []byte) (*Event, error) {
	var e Event
	if err := json.Unmarshal(value, &e); err != nil {
		return nil, fmt.Errorf("decode envelope: %w", err)
	}
	if len(e.Data) == 0 || string(e.Data) == "null" {
		return nil, fmt.Errorf("%w: event_id=%q type=%q", errNoEventData, e.EventID, e.EventType)
	}
	return &e, nil
}

// UnmarshalData decodes the payload into target.
func (e *Event) UnmarshalData(target any) error {
	return json.Unmarshal(e.Data, target)
}
