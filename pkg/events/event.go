package events

import "time"

// Event is the envelope published to the EVENTS stream. Subjects are derived
// from the event type ("events.<TYPE>"), so types must stay stable once
// consumers exist.
type Event interface {
	// EventType returns the unique code for this event, e.g. "DOCUMENT_UPLOADED".
	EventType() string

	// Payload returns the data associated with the event.
	Payload() map[string]interface{}

	// Timestamp returns when the event occurred.
	Timestamp() time.Time
}

// BaseEvent is the single concrete implementation; the constructors in
// domain_events.go are the only places that build one.
type BaseEvent struct {
	Type       string
	Data       map[string]interface{}
	OccurredAt time.Time
}

func newBase(eventType string, data map[string]interface{}) BaseEvent {
	return BaseEvent{
		Type:       eventType,
		Data:       data,
		OccurredAt: time.Now(),
	}
}

func (e BaseEvent) EventType() string {
	return e.Type
}

func (e BaseEvent) Payload() map[string]interface{} {
	return e.Data
}

func (e BaseEvent) Timestamp() time.Time {
	return e.OccurredAt
}
