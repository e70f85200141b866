package assignmentrepo

import (
	"context"
	"errors"

	"orderhub/internal/core/domain/model/assignment"
	"orderhub/internal/core/domain/model/kernel"
	"orderhub/internal/core/domain/model/order"
	"orderhub/internal/pkg/errs"

	"gorm.io/gorm"
)

// GormAssignmentRepository implements ports.AssignmentRepository using GORM.
type GormAssignmentRepository struct {
	db      *gorm.DB
	tracker aggregateTracker
}

type aggregateTracker interface {
	TrackAggregate(id kernel.UUID, aggregate any)
}

func NewGormAssignmentRepository(db *gorm.DB, tracker aggregateTracker) *GormAssignmentRepository {
	return &GormAssignmentRepository{
		db:      db,
		tracker: tracker,
	}
}

func (r *GormAssignmentRepository) Add(ctx context.Context, aggregate *assignment.DeliveryAssignment) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return errs.NewStateConflictErrorf(order.ErrConcurrentModification,
				"order %s already has a delivery assignment", aggregate.OrderID())
		}
		return err
	}

	r.tracker.TrackAggregate(aggregate.OrderID(), aggregate)
	return nil
}

// Update applies the same optimistic version check as the order repository.
func (r *GormAssignmentRepository) Update(ctx context.Context, aggregate *assignment.DeliveryAssignment) error {
	if err := aggregate.Validate(); err != nil {
		return err
	}

	dto := fromDomain(aggregate)
	result := r.db.WithContext(ctx).
		Model(&AssignmentDTO{}).
		Where("order_id = ? AND version = ?", dto.OrderID, dto.Version).
		Updates(map[string]any{
			"driver_id":      dto.DriverID,
			"status":         dto.Status,
			"failure_reason": dto.FailureReason,
			"updated_at":     dto.UpdatedAt,
			"version":        dto.Version + 1,
		})
	if result.Error != nil {
		return result.Error
	}

	if result.RowsAffected == 0 {
		var count int64
		if err := r.db.WithContext(ctx).Model(&AssignmentDTO{}).Where("order_id = ?", dto.OrderID).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return errs.NewObjectNotFoundError("delivery_assignment", aggregate.OrderID().String())
		}
		return errs.NewStateConflictErrorf(order.ErrConcurrentModification,
			"delivery of order %s was changed by another request", aggregate.OrderID())
	}

	r.tracker.TrackAggregate(aggregate.OrderID(), aggregate)
	return nil
}

func (r *GormAssignmentRepository) Get(ctx context.Context, orderID kernel.UUID) (*assignment.DeliveryAssignment, error) {
	if err := orderID.Validate(); err != nil {
		return nil, err
	}

	var dto AssignmentDTO
	if err := r.db.WithContext(ctx).First(&dto, "order_id = ?", orderID.Bytes()).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NewObjectNotFoundError("delivery_assignment", orderID.String())
		}
		return nil, err
	}

	return ToDomain(dto)
}
