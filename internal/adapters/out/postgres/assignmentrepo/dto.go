// Package assignmentrepo stores delivery assignments, one row per delivery order.
package assignmentrepo

import (
	"time"

	"orderhub/internal/core/domain/model/assignment"
	"orderhub/internal/core/domain/model/kernel"

	"github.com/google/uuid"
)

type AssignmentDTO struct {
	OrderID       uuid.UUID  `gorm:"type:uuid;primaryKey"`
	DriverID      *uuid.UUID `gorm:"type:uuid;index"`
	Status        string     `gorm:"size:16;index;not null"`
	FailureReason string     `gorm:"type:text"`
	CreatedAt     time.Time  `gorm:"autoCreateTime:false"`
	UpdatedAt     time.Time  `gorm:"autoUpdateTime:false"`
	Version       int        `gorm:"not null"`
}

func (AssignmentDTO) TableName() string {
	return "delivery_assignments"
}

func fromDomain(a *assignment.DeliveryAssignment) AssignmentDTO {
	var driverID *uuid.UUID
	if id := a.DriverID(); id != nil {
		raw := id.Bytes()
		driverID = &raw
	}

	return AssignmentDTO{
		OrderID:       a.OrderID().Bytes(),
		DriverID:      driverID,
		Status:        a.Status().String(),
		FailureReason: a.FailureReason(),
		CreatedAt:     a.CreatedAt(),
		UpdatedAt:     a.UpdatedAt(),
		Version:       a.Version(),
	}
}

// ToDomain rebuilds the aggregate from its row.
func ToDomain(dto AssignmentDTO) (*assignment.DeliveryAssignment, error) {
	orderID, err := kernel.UUIDFromBytes(dto.OrderID[:])
	if err != nil {
		return nil, err
	}

	var driverID *kernel.UUID
	if dto.DriverID != nil {
		id, idErr := kernel.UUIDFromBytes((*dto.DriverID)[:])
		if idErr != nil {
			return nil, idErr
		}
		driverID = &id
	}

	status, err := assignment.ParseStatus(dto.Status)
	if err != nil {
		return nil, err
	}

	return assignment.RestoreAssignment(
		orderID,
		driverID,
		status,
		dto.FailureReason,
		dto.CreatedAt.UTC(),
		dto.UpdatedAt.UTC(),
		dto.Version,
	)
}
