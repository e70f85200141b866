package commands

import (
	"errors"
	"strings"

	"orderhub/internal/core/domain/model/kernel"
	"orderhub/internal/pkg/errs"
	"orderhub/internal/pkg/guard"
)

var ErrDeliveryCommandIsNotConstructed = errors.New(
	"DeliveryCommand must be created via its constructor",
)

// DeliveryCommand carries the order and the acting driver. The driver is always explicit;
// nothing is inferred from the session.
type DeliveryCommand struct { //nolint:recvcheck //using for validation
	orderID  kernel.UUID
	driverID kernel.UUID
	reason   string

	guard guard.ConstructorGuard
}

type (
	// AssignDriverCommand gives a ready delivery order to a driver.
	AssignDriverCommand struct{ DeliveryCommand }

	// StartDeliveryCommand records that the assigned driver picked the order up.
	StartDeliveryCommand struct{ DeliveryCommand }

	// ConfirmDeliveryCommand records the hand-off to the guest.
	ConfirmDeliveryCommand struct{ DeliveryCommand }

	// ReportDeliveryFailureCommand records that the driver could not deliver.
	ReportDeliveryFailureCommand struct{ DeliveryCommand }
)

func NewAssignDriverCommand(orderID, driverID kernel.UUID) (AssignDriverCommand, error) {
	cmd, err := newDeliveryCommand(orderID, driverID)
	return AssignDriverCommand{cmd}, err
}

func NewStartDeliveryCommand(orderID, driverID kernel.UUID) (StartDeliveryCommand, error) {
	cmd, err := newDeliveryCommand(orderID, driverID)
	return StartDeliveryCommand{cmd}, err
}

func NewConfirmDeliveryCommand(orderID, driverID kernel.UUID) (ConfirmDeliveryCommand, error) {
	cmd, err := newDeliveryCommand(orderID, driverID)
	return ConfirmDeliveryCommand{cmd}, err
}

// NewReportDeliveryFailureCommand requires a non-blank reason for the operator.
func NewReportDeliveryFailureCommand(orderID, driverID kernel.UUID, reason string) (ReportDeliveryFailureCommand, error) {
	cmd, err := newDeliveryCommand(orderID, driverID)
	reason = strings.TrimSpace(reason)
	if reason == "" {
		err = errors.Join(err, errs.NewValueIsRequiredError("reason"))
	}
	if err != nil {
		return ReportDeliveryFailureCommand{}, err
	}

	cmd.reason = reason
	return ReportDeliveryFailureCommand{cmd}, nil
}

func newDeliveryCommand(orderID, driverID kernel.UUID) (DeliveryCommand, error) {
	if err := errors.Join(orderID.Validate(), driverID.Validate()); err != nil {
		return DeliveryCommand{}, err
	}

	return DeliveryCommand{
		orderID:  orderID,
		driverID: driverID,
		guard:    guard.NewConstructorGuard(),
	}, nil
}

func (c DeliveryCommand) Validate() error {
	return c.guard.Validate(ErrDeliveryCommandIsNotConstructed)
}

func (c DeliveryCommand) OrderID() kernel.UUID {
	return c.orderID
}

func (c DeliveryCommand) DriverID() kernel.UUID {
	return c.driverID
}

// Reason is only set for failure reports.
func (c DeliveryCommand) Reason() string {
	return c.reason
}
