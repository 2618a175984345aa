package shared

import (
	"context"
	"time"
)

// EventEnvelope is the wire format for every event leaving this service.
type EventEnvelope struct {
	EventType string         `json:"event_type"`
	Payload   map[string]any `json:"payload"`
	Timestamp time.Time      `json:"timestamp"`
	Source    string         `json:"source"`
	Version   string         `json:"version"`
}

// EventSource identifies this service in published envelopes.
const EventSource = "inventory_service"

// EventSchemaVersion is the envelope schema version.
const EventSchemaVersion = "1.0"

// NewEventEnvelope builds an envelope with the standard source and version.
func NewEventEnvelope(eventType string, payload map[string]any) EventEnvelope {
	return EventEnvelope{
		EventType: eventType,
		Payload:   payload,
		Timestamp: time.Now().UTC(),
		Source:    EventSource,
		Version:   EventSchemaVersion,
	}
}

// EventPublisher delivers envelopes to the message broker. Delivery is best
// effort: implementations log failures and return them, but callers treat
// publication as fire-and-forget and never fail a business operation on a
// publish error.
type EventPublisher interface {
	Publish(ctx context.Context, envelope EventEnvelope) error
}

// NoOpEventPublisher discards all events. Useful in tests and tools.
type NoOpEventPublisher struct{}

// Publish discards the envelope.
func (NoOpEventPublisher) Publish(context.Context, EventEnvelope) error { return nil }

var _ EventPublisher = NoOpEventPublisher{}
