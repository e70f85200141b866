package ports

import (
	"context"

	"orderhub/internal/core/domain/model/assignment"
	"orderhub/internal/core/domain/model/kernel"
)

// AssignmentRepository persists delivery assignments, one per delivery order.
type AssignmentRepository interface {
	// Add persists a new assignment. Fails if the order already has one.
	Add(ctx context.Context, aggregate *assignment.DeliveryAssignment) error

	// Update persists a status change with the same optimistic concurrency rules as
	// OrderRepository.Update.
	Update(ctx context.Context, aggregate *assignment.DeliveryAssignment) error

	// Get returns the assignment of orderID or an ObjectNotFoundError.
	Get(ctx context.Context, orderID kernel.UUID) (*assignment.DeliveryAssignment, error)
}
