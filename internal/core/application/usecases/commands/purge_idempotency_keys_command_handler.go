package commands

import (
	"context"
	"time"
)

// PurgeIdempotencyKeysCommandHandler deletes keys that can no longer be replayed.
type PurgeIdempotencyKeysCommandHandler struct {
	uowFactory IdempotencyUoWFactory
	window     time.Duration
}

func NewPurgeIdempotencyKeysCommandHandler(uowFactory IdempotencyUoWFactory, window time.Duration) PurgeIdempotencyKeysCommandHandler {
	return PurgeIdempotencyKeysCommandHandler{uowFactory: uowFactory, window: window}
}

// Handle returns the number of keys removed.
func (h PurgeIdempotencyKeysCommandHandler) Handle(ctx context.Context, cmd PurgeIdempotencyKeysCommand) (int64, error) {
	if err := cmd.Validate(); err != nil {
		return 0, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return 0, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	removed, err := uow.IdempotencyKeys().PurgeExpired(ctx, time.Now().UTC().Add(-h.window))
	if err != nil {
		return 0, err
	}

	if err = uow.Commit(ctx); err != nil {
		return 0, err
	}

	return removed, nil
}
