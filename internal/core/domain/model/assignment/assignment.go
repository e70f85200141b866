package assignment

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"orderhub/internal/core/domain/model/kernel"
	"orderhub/internal/pkg/errs"
	"orderhub/internal/pkg/guard"
)

var (
	ErrAssignmentIsNotConstructed = errors.New("DeliveryAssignment must be created via NewAssignment or RestoreAssignment")

	// StateConflictError kinds.
	ErrAlreadyAssigned     = errors.New("delivery already assigned")
	ErrNotAssignedToDriver = errors.New("delivery is not assigned to this driver")
	ErrOrderNotReady       = errors.New("order is not ready for delivery")
	ErrInvalidTransition   = errors.New("invalid assignment transition")
)

// DeliveryAssignment links a delivery order to the driver carrying it.
type DeliveryAssignment struct {
	orderID       kernel.UUID
	driverID      *kernel.UUID
	status        Status
	failureReason string
	createdAt     time.Time
	updatedAt     time.Time
	version       int

	events []kernel.DomainEvent
	guard  guard.ConstructorGuard
}

// NewAssignment opens an unassigned delivery for orderID.
func NewAssignment(orderID kernel.UUID, at time.Time) (*DeliveryAssignment, error) {
	if err := orderID.Validate(); err != nil {
		return nil, err
	}

	a := &DeliveryAssignment{
		orderID:   orderID,
		status:    Unassigned,
		createdAt: at,
		updatedAt: at,
		version:   1,
		guard:     guard.NewConstructorGuard(),
	}
	a.record(UnknownStatus, at)
	return a, nil
}

func RestoreAssignment(
	orderID kernel.UUID,
	driverID *kernel.UUID,
	status Status,
	failureReason string,
	createdAt, updatedAt time.Time,
	version int,
) (*DeliveryAssignment, error) {
	if err := errors.Join(orderID.Validate(), status.Validate()); err != nil {
		return nil, err
	}
	if status.HasDriver() && driverID == nil {
		return nil, errs.NewValueIsRequiredError("driver_id")
	}
	if version <= 0 {
		return nil, errs.NewValueIsInvalidErrorWithCause("version", fmt.Errorf("%d is not greater than 0", version))
	}

	return &DeliveryAssignment{
		orderID:       orderID,
		driverID:      copyID(driverID),
		status:        status,
		failureReason: failureReason,
		createdAt:     createdAt,
		updatedAt:     updatedAt,
		version:       version,
		guard:         guard.NewConstructorGuard(),
	}, nil
}

func (a *DeliveryAssignment) Validate() error {
	if a == nil {
		return ErrAssignmentIsNotConstructed
	}
	return a.guard.Validate(ErrAssignmentIsNotConstructed)
}

func (a *DeliveryAssignment) OrderID() kernel.UUID { return a.orderID }
func (a *DeliveryAssignment) DriverID() *kernel.UUID { return copyID(a.driverID) }
func (a *DeliveryAssignment) Status() Status { return a.status }
func (a *DeliveryAssignment) FailureReason() string { return a.failureReason }
func (a *DeliveryAssignment) CreatedAt() time.Time { return a.createdAt }
func (a *DeliveryAssignment) UpdatedAt() time.Time { return a.updatedAt }
func (a *DeliveryAssignment) Version() int { return a.version }

// IsHeldBy reports whether driverID is the assigned driver.
func (a *DeliveryAssignment) IsHeldBy(driverID kernel.UUID) bool {
	return a.driverID != nil && a.driverID.IsEqual(driverID)
}

// Assign gives the delivery to driverID. Only unassigned or failed deliveries accept
// a driver; anything else fails with ErrAlreadyAssigned.
func (a *DeliveryAssignment) Assign(driverID kernel.UUID, at time.Time) error {
	if err := errors.Join(a.Validate(), driverID.Validate()); err != nil {
		return err
	}
	if a.status != Unassigned && a.status != Failed {
		return errs.NewStateConflictErrorf(ErrAlreadyAssigned, "order %s is %s", a.orderID, a.status)
	}

	from := a.status
	a.driverID = copyID(&driverID)
	a.status = Assigned
	a.failureReason = ""
	a.updatedAt = at
	a.record(from, at)
	return nil
}

// StartRoute marks the delivery as picked up by its driver. Repeating it is a no-op.
func (a *DeliveryAssignment) StartRoute(driverID kernel.UUID, at time.Time) error {
	if err := a.ensureHeldBy(driverID); err != nil {
		return err
	}

	switch a.status {
	case EnRoute:
		return nil
	case Assigned:
		a.status = EnRoute
		a.updatedAt = at
		a.record(Assigned, at)
		return nil
	default:
		return errs.NewStateConflictErrorf(ErrInvalidTransition, "%s -> %s", a.status, EnRoute)
	}
}

// Confirm records a successful hand-off by the assigned driver. Confirming an already
// delivered assignment again with the same driver is a no-op.
func (a *DeliveryAssignment) Confirm(driverID kernel.UUID, at time.Time) error {
	if err := a.ensureHeldBy(driverID); err != nil {
		return err
	}

	switch a.status {
	case Delivered:
		return nil
	case Assigned, EnRoute:
		from := a.status
		a.status = Delivered
		a.updatedAt = at
		a.record(from, at)
		return nil
	default:
		return errs.NewStateConflictErrorf(ErrInvalidTransition, "%s -> %s", a.status, Delivered)
	}
}

// ReportFailure marks the delivery as failed. The order stays ready until an operator
// assigns a driver again or decides otherwise.
func (a *DeliveryAssignment) ReportFailure(driverID kernel.UUID, reason string, at time.Time) error {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return errs.NewValueIsRequiredError("reason")
	}
	if err := a.ensureHeldBy(driverID); err != nil {
		return err
	}
	if !a.status.HasDriver() {
		return errs.NewStateConflictErrorf(ErrInvalidTransition, "%s -> %s", a.status, Failed)
	}

	from := a.status
	a.status = Failed
	a.failureReason = reason
	a.updatedAt = at
	a.record(from, at)
	return nil
}

// ForceDeliver closes the assignment as delivered without a driver confirmation, used
// when an operator marks the order delivered.
func (a *DeliveryAssignment) ForceDeliver(at time.Time) error {
	if err := a.Validate(); err != nil {
		return err
	}
	if a.status == Delivered {
		return nil
	}

	from := a.status
	a.status = Delivered
	a.updatedAt = at
	a.record(from, at)
	return nil
}

// PullEvents returns the events recorded since the last call and clears the buffer.
func (a *DeliveryAssignment) PullEvents() []kernel.DomainEvent {
	events := a.events
	a.events = nil
	return events
}

func (a *DeliveryAssignment) ensureHeldBy(driverID kernel.UUID) error {
	if err := errors.Join(a.Validate(), driverID.Validate()); err != nil {
		return err
	}
	if !a.IsHeldBy(driverID) {
		return errs.NewStateConflictErrorf(ErrNotAssignedToDriver, "order %s, driver %s", a.orderID, driverID)
	}
	return nil
}

func (a *DeliveryAssignment) record(from Status, at time.Time) {
	a.events = append(a.events, Changed{
		OrderID:  a.orderID,
		DriverID: copyID(a.driverID),
		From:     from,
		To:       a.status,
		Reason:   a.failureReason,
		At:       at,
	})
}

func copyID(id *kernel.UUID) *kernel.UUID {
	if id == nil {
		return nil
	}
	c := *id
	return &c
}
