package ports

import (
	"context"
	"errors"
	"time"

	"orderhub/internal/core/domain/model/kernel"
)

// ErrIdempotencyKeyTaken is returned by Reserve when another submission already holds the key.
var ErrIdempotencyKeyTaken = errors.New("idempotency key already used")

// IdempotencyKeyRepository remembers which order a client-supplied key produced.
type IdempotencyKeyRepository interface {
	// Find returns the order created for key. Keys recorded before notBefore are
	// expired: they are removed and reported as not found.
	Find(ctx context.Context, key string, notBefore time.Time) (orderID kernel.UUID, found bool, err error)

	// Reserve binds key to orderID. A concurrent submission that reserved the key first
	// makes Reserve fail with ErrIdempotencyKeyTaken.
	Reserve(ctx context.Context, key string, orderID kernel.UUID, at time.Time) error

	// PurgeExpired deletes keys recorded before notBefore and returns how many were removed.
	PurgeExpired(ctx context.Context, notBefore time.Time) (int64, error)
}
