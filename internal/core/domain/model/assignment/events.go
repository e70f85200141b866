package assignment

import (
	"time"

	"orderhub/internal/core/domain/model/kernel"
)

const EventAssignmentChanged = "delivery.assignment_changed"

// Changed is recorded whenever the assignment status moves, including creation.
type Changed struct {
	OrderID  kernel.UUID
	DriverID *kernel.UUID
	From     Status
	To       Status
	Reason   string
	At       time.Time
}

func (e Changed) EventName() string { return EventAssignmentChanged }
func (e Changed) AggregateID() kernel.UUID { return e.OrderID }
func (e Changed) OccurredAt() time.Time { return e.At }
