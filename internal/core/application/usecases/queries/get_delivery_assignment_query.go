package queries

import (
	"errors"
	"time"

	"orderhub/internal/core/domain/model/assignment"
	"orderhub/internal/core/domain/model/kernel"
	"orderhub/internal/pkg/guard"
)

var ErrGetDeliveryAssignmentQueryIsNotConstructed = errors.New(
	"GetDeliveryAssignmentQuery must be created via NewGetDeliveryAssignmentQuery constructor",
)

// GetDeliveryAssignmentQuery fetches the delivery state of a delivery order.
type GetDeliveryAssignmentQuery struct {
	orderID kernel.UUID
	guard   guard.ConstructorGuard
}

func NewGetDeliveryAssignmentQuery(orderID kernel.UUID) (GetDeliveryAssignmentQuery, error) {
	if err := orderID.Validate(); err != nil {
		return GetDeliveryAssignmentQuery{}, err
	}
	return GetDeliveryAssignmentQuery{orderID: orderID, guard: guard.NewConstructorGuard()}, nil
}

func (q GetDeliveryAssignmentQuery) Validate() error {
	return q.guard.Validate(ErrGetDeliveryAssignmentQueryIsNotConstructed)
}

func (q GetDeliveryAssignmentQuery) OrderID() kernel.UUID {
	return q.orderID
}

// DeliveryAssignmentResponse is the read model of a delivery assignment. DriverID is
// nil while unassigned.
type DeliveryAssignmentResponse struct {
	OrderID       kernel.UUID
	DriverID      *kernel.UUID
	Status        assignment.Status
	FailureReason string
	UpdatedAt     time.Time
}
