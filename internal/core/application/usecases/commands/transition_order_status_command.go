package commands

import (
	"errors"

	"orderhub/internal/core/domain/model/kernel"
	"orderhub/internal/core/domain/model/order"
	"orderhub/internal/pkg/guard"
)

var ErrTransitionOrderStatusCommandIsNotConstructed = errors.New(
	"TransitionOrderStatusCommand must be created via NewTransitionOrderStatusCommand constructor",
)

// TransitionOrderStatusCommand moves an order along the status graph.
type TransitionOrderStatusCommand struct { //nolint:recvcheck //using for validation
	orderID kernel.UUID
	status  order.Status

	guard guard.ConstructorGuard
}

func NewTransitionOrderStatusCommand(orderID kernel.UUID, status order.Status) (TransitionOrderStatusCommand, error) {
	if err := errors.Join(orderID.Validate(), status.Validate()); err != nil {
		return TransitionOrderStatusCommand{}, err
	}

	return TransitionOrderStatusCommand{
		orderID: orderID,
		status:  status,
		guard:   guard.NewConstructorGuard(),
	}, nil
}

func (c TransitionOrderStatusCommand) Validate() error {
	return c.guard.Validate(ErrTransitionOrderStatusCommandIsNotConstructed)
}

func (c TransitionOrderStatusCommand) OrderID() kernel.UUID {
	return c.orderID
}

func (c TransitionOrderStatusCommand) Status() order.Status {
	return c.status
}
