package commands

import (
	"context"
	"errors"

	"orderhub/internal/core/domain/model/assignment"
	"orderhub/internal/core/domain/model/kernel"
	"orderhub/internal/core/domain/model/order"
	"orderhub/internal/pkg/errs"
)

// DeliveryResult is the state of an order and its assignment after a driver operation.
type DeliveryResult struct {
	Order      *order.Order
	Assignment *assignment.DeliveryAssignment
}

// runDeliveryOperation loads the order and its assignment, applies op and saves whichever
// of the two changed, all in one transaction.
func runDeliveryOperation(
	ctx context.Context,
	uowFactory DeliveryUoWFactory,
	orderID kernel.UUID,
	op func(o *order.Order, a *assignment.DeliveryAssignment) error,
) (DeliveryResult, error) {
	uow := uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return DeliveryResult{}, err
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	orderRepo := uow.OrderRepository()
	assignmentRepo := uow.AssignmentRepository()

	o, err := orderRepo.Get(ctx, orderID)
	if err != nil {
		return DeliveryResult{}, err
	}

	a, err := assignmentRepo.Get(ctx, orderID)
	if errors.Is(err, errs.ErrObjectNotFound) {
		return DeliveryResult{}, errs.NewStateConflictErrorf(assignment.ErrOrderNotReady,
			"order %s is a %s order in status %s", o.Number(), o.Type(), o.Status())
	}
	if err != nil {
		return DeliveryResult{}, err
	}

	orderBefore, assignmentBefore := o.Status(), a.Status()
	if err = op(o, a); err != nil {
		return DeliveryResult{}, err
	}

	if a.Status() != assignmentBefore {
		if err = assignmentRepo.Update(ctx, a); err != nil {
			return DeliveryResult{}, err
		}
	}
	if o.Status() != orderBefore {
		if err = orderRepo.Update(ctx, o); err != nil {
			return DeliveryResult{}, err
		}
	}

	if err = uow.Commit(ctx); err != nil {
		return DeliveryResult{}, err
	}

	return DeliveryResult{Order: o, Assignment: a}, nil
}
