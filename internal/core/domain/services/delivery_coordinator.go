package services

import (
	"errors"
	"time"

	"orderhub/internal/core/domain/model/assignment"
	"orderhub/internal/core/domain/model/kernel"
	"orderhub/internal/core/domain/model/order"
	"orderhub/internal/pkg/errs"
)

// DeliveryCoordinator applies status changes to an order and its delivery assignment
// together. It never persists anything; callers save both aggregates in one unit of work.
//
// Business rules:
//   - A delivery order that becomes ready gets a new unassigned DeliveryAssignment
//   - Drivers act only while the order is ready; confirmation also accepts an order that
//     is already delivered, which makes repeated confirmations harmless
//   - Confirming the hand-off moves both the assignment and the order to delivered
//   - An operator marking the order delivered closes the assignment as delivered
//   - A failed delivery leaves the order ready
//
// Example usage:
//
//	coordinator := services.NewDeliveryCoordinator(order.DefaultCancellationPolicy())
//	opened, err := coordinator.Transition(o, nil, order.Ready, now)
//	if err != nil {
//	    return err
//	}
//	if opened != nil {
//	    // persist the new assignment in the same transaction as the order
//	}
type DeliveryCoordinator struct {
	policy order.CancellationPolicy
}

func NewDeliveryCoordinator(policy order.CancellationPolicy) DeliveryCoordinator {
	return DeliveryCoordinator{policy: policy}
}

// Transition moves the order to `to`. When a delivery order becomes ready the new
// assignment is returned; when an operator delivers it, the existing assignment is
// closed. existing may be nil.
func (c DeliveryCoordinator) Transition(
	o *order.Order,
	existing *assignment.DeliveryAssignment,
	to order.Status,
	at time.Time,
) (*assignment.DeliveryAssignment, error) {
	if err := o.Transition(to, c.policy, at); err != nil {
		return nil, err
	}

	if o.Type() != order.Delivery {
		return nil, nil
	}

	switch to {
	case order.Ready:
		if existing != nil {
			return nil, nil
		}
		return assignment.NewAssignment(o.ID(), at)
	case order.Delivered:
		if existing != nil {
			return nil, existing.ForceDeliver(at)
		}
	}
	return nil, nil
}

// Assign gives the delivery of a ready order to driverID.
func (c DeliveryCoordinator) Assign(o *order.Order, a *assignment.DeliveryAssignment, driverID kernel.UUID, at time.Time) error {
	if err := c.ensureOrderStatus(o, a, order.Ready); err != nil {
		return err
	}
	return a.Assign(driverID, at)
}

// StartRoute records that the assigned driver picked the order up.
func (c DeliveryCoordinator) StartRoute(o *order.Order, a *assignment.DeliveryAssignment, driverID kernel.UUID, at time.Time) error {
	if err := c.ensureOrderStatus(o, a, order.Ready); err != nil {
		return err
	}
	return a.StartRoute(driverID, at)
}

// Confirm records a successful hand-off and moves the order to delivered.
func (c DeliveryCoordinator) Confirm(o *order.Order, a *assignment.DeliveryAssignment, driverID kernel.UUID, at time.Time) error {
	if err := c.ensureOrderStatus(o, a, order.Ready, order.Delivered); err != nil {
		return err
	}
	if err := a.Confirm(driverID, at); err != nil {
		return err
	}
	if o.Status() == order.Delivered {
		return nil
	}
	return o.Transition(order.Delivered, c.policy, at)
}

// ReportFailure marks the delivery as failed without touching the order.
func (c DeliveryCoordinator) ReportFailure(
	o *order.Order,
	a *assignment.DeliveryAssignment,
	driverID kernel.UUID,
	reason string,
	at time.Time,
) error {
	if err := c.ensureOrderStatus(o, a, order.Ready); err != nil {
		return err
	}
	return a.ReportFailure(driverID, reason, at)
}

func (c DeliveryCoordinator) ensureOrderStatus(o *order.Order, a *assignment.DeliveryAssignment, allowed ...order.Status) error {
	if err := errors.Join(o.Validate(), a.Validate()); err != nil {
		return err
	}
	if !o.ID().IsEqual(a.OrderID()) {
		return errs.NewValueIsInvalidError("assignment")
	}
	if o.Type() != order.Delivery {
		return errs.NewStateConflictErrorf(assignment.ErrOrderNotReady, "order %s is %s", o.Number(), o.Type())
	}
	for _, s := range allowed {
		if o.Status() == s {
			return nil
		}
	}
	return errs.NewStateConflictErrorf(assignment.ErrOrderNotReady, "order %s is %s", o.Number(), o.Status())
}
