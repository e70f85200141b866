package commands

import (
	"errors"

	"orderhub/internal/pkg/guard"
)

var ErrPurgeIdempotencyKeysCommandIsNotConstructed = errors.New(
	"PurgeIdempotencyKeysCommand must be created via NewPurgeIdempotencyKeysCommand constructor",
)

// PurgeIdempotencyKeysCommand removes idempotency keys older than the replay window.
// This is a parameterless command triggered by the purge job.
type PurgeIdempotencyKeysCommand struct {
	guard guard.ConstructorGuard
}

func NewPurgeIdempotencyKeysCommand() PurgeIdempotencyKeysCommand {
	return PurgeIdempotencyKeysCommand{guard: guard.NewConstructorGuard()}
}

func (c PurgeIdempotencyKeysCommand) Validate() error {
	return c.guard.Validate(ErrPurgeIdempotencyKeysCommandIsNotConstructed)
}
