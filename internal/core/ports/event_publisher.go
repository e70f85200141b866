package ports

import (
	"context"

	"orderhub/internal/core/domain/model/kernel"
)

// EventPublisher delivers committed domain events to collaborators outside the core.
type EventPublisher interface {
	Publish(ctx context.Context, events ...kernel.DomainEvent) error
}
