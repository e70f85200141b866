package commands

import (
	"context"
	"errors"
	"time"

	"orderhub/internal/core/domain/model/assignment"
	"orderhub/internal/core/domain/model/order"
	"orderhub/internal/core/domain/services"
	"orderhub/internal/pkg/errs"
)

// TransitionOrderStatusCommandHandler applies a status change requested by staff.
// For delivery orders the assignment is opened (ready) or closed (delivered) in the same
// transaction.
//
// Example:
//
//	cmd, _ := NewTransitionOrderStatusCommand(orderID, order.Preparing)
//	o, err := handler.Handle(ctx, cmd)
//	switch {
//	case errors.Is(err, order.ErrInvalidTransition):
//	    // the edge is not allowed; do not retry
//	case errors.Is(err, order.ErrConcurrentModification):
//	    // another channel won; re-read and retry
//	}
type TransitionOrderStatusCommandHandler struct {
	uowFactory  DeliveryUoWFactory
	coordinator services.DeliveryCoordinator
}

func NewTransitionOrderStatusCommandHandler(
	uowFactory DeliveryUoWFactory,
	coordinator services.DeliveryCoordinator,
) TransitionOrderStatusCommandHandler {
	return TransitionOrderStatusCommandHandler{
		uowFactory:  uowFactory,
		coordinator: coordinator,
	}
}

// Handle loads the order, validates the edge and saves the result. A concurrent writer
// that saved first makes Handle fail with order.ErrConcurrentModification.
func (h TransitionOrderStatusCommandHandler) Handle(ctx context.Context, cmd TransitionOrderStatusCommand) (*order.Order, error) {
	if err := cmd.Validate(); err != nil {
		return nil, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	orderRepo := uow.OrderRepository()
	assignmentRepo := uow.AssignmentRepository()

	o, err := orderRepo.Get(ctx, cmd.OrderID())
	if err != nil {
		return nil, err
	}

	var existing *assignment.DeliveryAssignment
	if o.Type() == order.Delivery {
		existing, err = assignmentRepo.Get(ctx, o.ID())
		if err != nil && !errors.Is(err, errs.ErrObjectNotFound) {
			return nil, err
		}
	}

	var before assignment.Status
	if existing != nil {
		before = existing.Status()
	}

	opened, err := h.coordinator.Transition(o, existing, cmd.Status(), time.Now().UTC())
	if err != nil {
		return nil, err
	}

	if err = orderRepo.Update(ctx, o); err != nil {
		return nil, err
	}

	switch {
	case opened != nil:
		err = assignmentRepo.Add(ctx, opened)
	case existing != nil && existing.Status() != before:
		err = assignmentRepo.Update(ctx, existing)
	}
	if err != nil {
		return nil, err
	}

	if err = uow.Commit(ctx); err != nil {
		return nil, err
	}

	return o, nil
}
