// Package commands contains business operations that modify system state.
// Implements the Command pattern for write operations in the CQRS architecture.
// All commands follow a consistent pattern: validation, transaction management, and persistence.
package commands

import (
	"context"

	"orderhub/internal/core/ports"
)

// Unit of Work interfaces provide transaction management for command handlers.
// Each handler depends only on the repositories it uses.
type (
	// TxManager handles database transaction lifecycle.
	// Ensures atomic operations across multiple repository calls.
	TxManager interface {
		Begin(ctx context.Context) error
		Commit(ctx context.Context) error
		Rollback(ctx context.Context) error
	}

	// OrderRepoFactory provides access to order repository within a transaction.
	OrderRepoFactory interface {
		OrderRepository() ports.OrderRepository
	}

	// AssignmentRepoFactory provides access to delivery assignments within a transaction.
	AssignmentRepoFactory interface {
		AssignmentRepository() ports.AssignmentRepository
	}

	// IdempotencyRepoFactory provides access to idempotency keys within a transaction.
	IdempotencyRepoFactory interface {
		IdempotencyKeys() ports.IdempotencyKeyRepository
	}

	// OrderNumbersFactory provides the order number counter within a transaction.
	OrderNumbersFactory interface {
		OrderNumbers() ports.OrderNumberSequence
	}

	// SubmitOrderUoW covers order submission: number allocation, the order itself and the
	// idempotency key, all in one transaction.
	SubmitOrderUoW interface {
		TxManager
		OrderRepoFactory
		OrderNumbersFactory
		IdempotencyRepoFactory
	}

	// SubmitOrderUoWFactory creates new submission unit of work instances.
	SubmitOrderUoWFactory interface {
		Create() SubmitOrderUoW
	}

	// DeliveryUoW manages transactions across an order and its delivery assignment.
	//
	// Example:
	//   uow := factory.Create()
	//   err := uow.Begin(ctx)
	//   defer uow.Rollback(ctx)
	//
	//   orderRepo := uow.OrderRepository()
	//   assignmentRepo := uow.AssignmentRepository()
	//   // ... perform operations
	//
	//   err = uow.Commit(ctx)
	DeliveryUoW interface {
		TxManager
		OrderRepoFactory
		AssignmentRepoFactory
	}

	// DeliveryUoWFactory creates new unit of work instances for order status and delivery operations.
	DeliveryUoWFactory interface {
		Create() DeliveryUoW
	}

	// IdempotencyUoW manages transactions for idempotency key maintenance.
	IdempotencyUoW interface {
		TxManager
		IdempotencyRepoFactory
	}

	// IdempotencyUoWFactory creates new idempotency unit of work instances.
	IdempotencyUoWFactory interface {
		Create() IdempotencyUoW
	}
)
