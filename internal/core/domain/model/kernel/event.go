package kernel

import "time"

// DomainEvent is a fact recorded by an aggregate. Aggregates buffer their events until
// the unit of work commits; only then are they handed to the event publishers.
type DomainEvent interface {
	EventName() string
	AggregateID() UUID
	OccurredAt() time.Time
}

// EventRecorder is implemented by aggregates that buffer domain events.
type EventRecorder interface {
	// PullEvents returns the buffered events and clears the buffer.
	PullEvents() []DomainEvent
}
