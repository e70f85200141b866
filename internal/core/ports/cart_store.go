package ports

import (
	"context"

	"orderhub/internal/core/domain/model/cart"
	"orderhub/internal/core/domain/model/kernel"
)

// CartStore keeps transient carts. Entries expire after a period of inactivity; an expired
// cart behaves exactly like an unknown one.
type CartStore interface {
	// Save creates or replaces the cart and refreshes its expiry.
	Save(ctx context.Context, c *cart.Cart) error

	// Get returns an independent copy of the cart or an ObjectNotFoundError.
	Get(ctx context.Context, id kernel.UUID) (*cart.Cart, error)

	// Delete removes the cart. Deleting an unknown cart is not an error.
	Delete(ctx context.Context, id kernel.UUID) error
}
