// Package ports defines the contracts between the order hub core and its adapters:
// persistence behind a unit of work, session cart storage, catalog sources and event
// publishers.
package ports

import (
	"context"

	"orderhub/internal/core/domain/model/kernel"
	"orderhub/internal/core/domain/model/order"
)

// OrderRepository defines the persistence contract for order aggregates.
type OrderRepository interface {
	// Add persists a newly submitted order.
	// Fails if the id or the order number is already taken.
	Add(ctx context.Context, aggregate *order.Order) error

	// Update persists a status change using optimistic concurrency.
	// The stored version must equal aggregate.Version(); otherwise the update fails with a
	// StateConflictError of kind order.ErrConcurrentModification and nothing is written.
	Update(ctx context.Context, aggregate *order.Order) error

	// Get retrieves an order by id.
	// Returns an ObjectNotFoundError if the id is unknown.
	Get(ctx context.Context, id kernel.UUID) (*order.Order, error)
}

// OrderNumberSequence allocates human-facing order numbers.
type OrderNumberSequence interface {
	// Next returns the next number of the single shared counter. The allocation belongs to
	// the surrounding transaction: it becomes visible only on commit and holds the counter
	// until then, so numbers are unique, gapless and increase in commit order.
	Next(ctx context.Context) (order.Number, error)
}
