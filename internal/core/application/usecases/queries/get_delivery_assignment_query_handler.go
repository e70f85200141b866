package queries

import (
	"context"
	"errors"
	"time"

	"orderhub/internal/core/domain/model/assignment"
	"orderhub/internal/core/domain/model/kernel"
	"orderhub/internal/pkg/errs"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type GetDeliveryAssignmentQueryHandler struct {
	db *gorm.DB
}

func NewGetDeliveryAssignmentQueryHandler(db *gorm.DB) GetDeliveryAssignmentQueryHandler {
	return GetDeliveryAssignmentQueryHandler{db: db}
}

// Handle returns an ObjectNotFoundError when the order has no assignment, which is the
// case for non-delivery orders and delivery orders that are not ready yet.
func (h GetDeliveryAssignmentQueryHandler) Handle(
	ctx context.Context,
	query GetDeliveryAssignmentQuery,
) (DeliveryAssignmentResponse, error) {
	if err := query.Validate(); err != nil {
		return DeliveryAssignmentResponse{}, err
	}

	var row struct {
		OrderID       uuid.UUID
		DriverID      *uuid.UUID
		Status        string
		FailureReason string
		UpdatedAt     time.Time
	}
	err := h.db.WithContext(ctx).
		Table("delivery_assignments").
		Select("order_id, driver_id, status, failure_reason, updated_at").
		Where("order_id = ?", query.OrderID().Bytes()).
		Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return DeliveryAssignmentResponse{}, errs.NewObjectNotFoundError("delivery_assignment", query.OrderID().String())
	}
	if err != nil {
		return DeliveryAssignmentResponse{}, err
	}

	status, err := assignment.ParseStatus(row.Status)
	if err != nil {
		return DeliveryAssignmentResponse{}, err
	}

	resp := DeliveryAssignmentResponse{
		OrderID:       query.OrderID(),
		Status:        status,
		FailureReason: row.FailureReason,
		UpdatedAt:     row.UpdatedAt.UTC(),
	}
	if row.DriverID != nil {
		driverID, idErr := kernel.UUIDFromBytes(row.DriverID[:])
		if idErr != nil {
			return DeliveryAssignmentResponse{}, idErr
		}
		resp.DriverID = &driverID
	}
	return resp, nil
}
