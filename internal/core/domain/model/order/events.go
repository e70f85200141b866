package order

import (
	"time"

	"orderhub/internal/core/domain/model/kernel"
)

const (
	EventSubmitted     = "order.submitted"
	EventStatusChanged = "order.status_changed"
)

// Submitted is recorded when a new order is created.
type Submitted struct {
	OrderID kernel.UUID
	Number  Number
	Type    Type
	Channel string
	Total   kernel.Money
	At      time.Time
}

func (e Submitted) EventName() string { return EventSubmitted }
func (e Submitted) AggregateID() kernel.UUID { return e.OrderID }
func (e Submitted) OccurredAt() time.Time { return e.At }

// StatusChanged is recorded on every successful transition.
type StatusChanged struct {
	OrderID kernel.UUID
	Number  Number
	Type    Type
	From    Status
	To      Status
	At      time.Time
}

func (e StatusChanged) EventName() string { return EventStatusChanged }
func (e StatusChanged) AggregateID() kernel.UUID { return e.OrderID }
func (e StatusChanged) OccurredAt() time.Time { return e.At }
