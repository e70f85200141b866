package commands

import (
	"context"
	"time"

	"orderhub/internal/core/domain/model/assignment"
	"orderhub/internal/core/domain/model/order"
	"orderhub/internal/core/domain/services"
)

// AssignDriverCommandHandler assigns a driver to a ready delivery order.
// Fails with assignment.ErrAlreadyAssigned when another driver holds it and with
// assignment.ErrOrderNotReady when the order is not a ready delivery order.
type AssignDriverCommandHandler struct {
	uowFactory  DeliveryUoWFactory
	coordinator services.DeliveryCoordinator
}

func NewAssignDriverCommandHandler(uowFactory DeliveryUoWFactory, coordinator services.DeliveryCoordinator) AssignDriverCommandHandler {
	return AssignDriverCommandHandler{uowFactory: uowFactory, coordinator: coordinator}
}

func (h AssignDriverCommandHandler) Handle(ctx context.Context, cmd AssignDriverCommand) (DeliveryResult, error) {
	if err := cmd.Validate(); err != nil {
		return DeliveryResult{}, err
	}
	return runDeliveryOperation(ctx, h.uowFactory, cmd.OrderID(), func(o *order.Order, a *assignment.DeliveryAssignment) error {
		return h.coordinator.Assign(o, a, cmd.DriverID(), time.Now().UTC())
	})
}

// StartDeliveryCommandHandler moves an assigned delivery en route.
type StartDeliveryCommandHandler struct {
	uowFactory  DeliveryUoWFactory
	coordinator services.DeliveryCoordinator
}

func NewStartDeliveryCommandHandler(uowFactory DeliveryUoWFactory, coordinator services.DeliveryCoordinator) StartDeliveryCommandHandler {
	return StartDeliveryCommandHandler{uowFactory: uowFactory, coordinator: coordinator}
}

func (h StartDeliveryCommandHandler) Handle(ctx context.Context, cmd StartDeliveryCommand) (DeliveryResult, error) {
	if err := cmd.Validate(); err != nil {
		return DeliveryResult{}, err
	}
	return runDeliveryOperation(ctx, h.uowFactory, cmd.OrderID(), func(o *order.Order, a *assignment.DeliveryAssignment) error {
		return h.coordinator.StartRoute(o, a, cmd.DriverID(), time.Now().UTC())
	})
}

// ConfirmDeliveryCommandHandler confirms the hand-off and moves the order to delivered.
// Fails with assignment.ErrNotAssignedToDriver when the caller is not the assigned driver.
type ConfirmDeliveryCommandHandler struct {
	uowFactory  DeliveryUoWFactory
	coordinator services.DeliveryCoordinator
}

func NewConfirmDeliveryCommandHandler(uowFactory DeliveryUoWFactory, coordinator services.DeliveryCoordinator) ConfirmDeliveryCommandHandler {
	return ConfirmDeliveryCommandHandler{uowFactory: uowFactory, coordinator: coordinator}
}

func (h ConfirmDeliveryCommandHandler) Handle(ctx context.Context, cmd ConfirmDeliveryCommand) (DeliveryResult, error) {
	if err := cmd.Validate(); err != nil {
		return DeliveryResult{}, err
	}
	return runDeliveryOperation(ctx, h.uowFactory, cmd.OrderID(), func(o *order.Order, a *assignment.DeliveryAssignment) error {
		return h.coordinator.Confirm(o, a, cmd.DriverID(), time.Now().UTC())
	})
}

// ReportDeliveryFailureCommandHandler marks the delivery failed and leaves the order ready
// for an operator to reassign.
type ReportDeliveryFailureCommandHandler struct {
	uowFactory  DeliveryUoWFactory
	coordinator services.DeliveryCoordinator
}

func NewReportDeliveryFailureCommandHandler(
	uowFactory DeliveryUoWFactory,
	coordinator services.DeliveryCoordinator,
) ReportDeliveryFailureCommandHandler {
	return ReportDeliveryFailureCommandHandler{uowFactory: uowFactory, coordinator: coordinator}
}

func (h ReportDeliveryFailureCommandHandler) Handle(ctx context.Context, cmd ReportDeliveryFailureCommand) (DeliveryResult, error) {
	if err := cmd.Validate(); err != nil {
		return DeliveryResult{}, err
	}
	return runDeliveryOperation(ctx, h.uowFactory, cmd.OrderID(), func(o *order.Order, a *assignment.DeliveryAssignment) error {
		return h.coordinator.ReportFailure(o, a, cmd.DriverID(), cmd.Reason(), time.Now().UTC())
	})
}
