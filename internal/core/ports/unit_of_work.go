package ports

import (
	"context"
)

// UnitOfWorkFactory creates new UnitOfWork instances for each request/command.
// This ensures proper isolation between concurrent operations.
type UnitOfWorkFactory interface {
	Create() UnitOfWork
}

// UnitOfWork represents a business transaction boundary.
// Aggregates saved through its repositories are tracked, and the domain events they
// recorded are published once Commit succeeds.
type UnitOfWork interface {
	// Begin starts a new database transaction.
	Begin(ctx context.Context) error

	// Commit commits the current transaction and publishes the tracked events.
	// Returns error if no active transaction or commit fails.
	Commit(ctx context.Context) error

	// Rollback rolls back the current transaction and drops the tracked events.
	// Returns error if no active transaction or rollback fails.
	Rollback(ctx context.Context) error

	// OrderRepository returns an OrderRepository bound to the current transaction.
	OrderRepository() OrderRepository

	// AssignmentRepository returns an AssignmentRepository bound to the current transaction.
	AssignmentRepository() AssignmentRepository

	// IdempotencyKeys returns an IdempotencyKeyRepository bound to the current transaction.
	IdempotencyKeys() IdempotencyKeyRepository

	// OrderNumbers returns the order number counter bound to the current transaction.
	OrderNumbers() OrderNumberSequence
}
