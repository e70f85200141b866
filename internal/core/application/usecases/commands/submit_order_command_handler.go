package commands

import (
	"context"
	"errors"
	"fmt"
	"time"

	"orderhub/internal/core/domain/model/kernel"
	"orderhub/internal/core/domain/model/order"
	"orderhub/internal/core/ports"
)

// SubmitOrderResult is the order a submission produced. Replayed is true when an earlier
// submission with the same idempotency key created it.
type SubmitOrderResult struct {
	Order    *order.Order
	Replayed bool
}

// SubmitOrderCommandHandler creates orders with numbers taken from the shared counter.
//
// Example:
//
//	handler := NewSubmitOrderCommandHandler(uowFactory, 24*time.Hour)
//	result, err := handler.Handle(ctx, cmd)
//	if err != nil {
//	    return err
//	}
//	if result.Replayed {
//	    // the client retried; nothing new was created
//	}
type SubmitOrderCommandHandler struct {
	uowFactory SubmitOrderUoWFactory
	window     time.Duration
}

// NewSubmitOrderCommandHandler creates a submission handler. Idempotency keys are honored
// for window after the order they produced was created.
func NewSubmitOrderCommandHandler(uowFactory SubmitOrderUoWFactory, window time.Duration) SubmitOrderCommandHandler {
	return SubmitOrderCommandHandler{
		uowFactory: uowFactory,
		window:     window,
	}
}

// Handle submits the order in one transaction: look up the idempotency key, allocate the
// next order number, persist the order and bind the key to it.
// When a concurrent submission wins the race for the same key, the winner's order is
// read back and returned as a replay.
func (h SubmitOrderCommandHandler) Handle(ctx context.Context, cmd SubmitOrderCommand) (SubmitOrderResult, error) {
	if err := cmd.Validate(); err != nil {
		return SubmitOrderResult{}, err
	}

	now := time.Now().UTC()
	result, err := h.submit(ctx, cmd, now)
	if errors.Is(err, ports.ErrIdempotencyKeyTaken) {
		return h.replay(ctx, cmd.IdempotencyKey(), now)
	}
	return result, err
}

func (h SubmitOrderCommandHandler) submit(ctx context.Context, cmd SubmitOrderCommand, now time.Time) (SubmitOrderResult, error) {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return SubmitOrderResult{}, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	key := cmd.IdempotencyKey()
	if key != "" {
		existing, found, err := h.find(ctx, uow, key, now)
		if err != nil {
			return SubmitOrderResult{}, err
		}
		if found {
			return SubmitOrderResult{Order: existing, Replayed: true}, nil
		}
	}

	number, err := uow.OrderNumbers().Next(ctx)
	if err != nil {
		return SubmitOrderResult{}, err
	}

	o, err := order.NewOrder(order.Draft{
		ID:          kernel.NewUUID(),
		Number:      number,
		Type:        cmd.OrderType(),
		Channel:     cmd.Channel(),
		TableNumber: cmd.TableNumber(),
		Lines:       cmd.Lines(),
		Notes:       cmd.Notes(),
		CreatedAt:   now,
	})
	if err != nil {
		return SubmitOrderResult{}, err
	}

	if err = uow.OrderRepository().Add(ctx, o); err != nil {
		return SubmitOrderResult{}, err
	}

	if key != "" {
		if err = uow.IdempotencyKeys().Reserve(ctx, key, o.ID(), now); err != nil {
			return SubmitOrderResult{}, err
		}
	}

	if err = uow.Commit(ctx); err != nil {
		return SubmitOrderResult{}, err
	}

	return SubmitOrderResult{Order: o}, nil
}

func (h SubmitOrderCommandHandler) replay(ctx context.Context, key string, now time.Time) (SubmitOrderResult, error) {
	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return SubmitOrderResult{}, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	existing, found, err := h.find(ctx, uow, key, now)
	if err != nil {
		return SubmitOrderResult{}, err
	}
	if !found {
		return SubmitOrderResult{}, fmt.Errorf("%w: %q has no order", ports.ErrIdempotencyKeyTaken, key)
	}

	if err = uow.Commit(ctx); err != nil {
		return SubmitOrderResult{}, err
	}
	return SubmitOrderResult{Order: existing, Replayed: true}, nil
}

func (h SubmitOrderCommandHandler) find(ctx context.Context, uow SubmitOrderUoW, key string, now time.Time) (*order.Order, bool, error) {
	orderID, found, err := uow.IdempotencyKeys().Find(ctx, key, now.Add(-h.window))
	if err != nil || !found {
		return nil, false, err
	}

	existing, err := uow.OrderRepository().Get(ctx, orderID)
	if err != nil {
		return nil, false, err
	}
	return existing, true, nil
}
