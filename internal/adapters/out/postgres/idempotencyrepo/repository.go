package idempotencyrepo

import (
	"context"
	"errors"
	"time"

	"orderhub/internal/core/domain/model/kernel"
	"orderhub/internal/core/ports"
	"orderhub/internal/pkg/errs"

	"gorm.io/gorm"
)

// GormIdempotencyKeyRepository implements ports.IdempotencyKeyRepository. Duplicate keys
// are detected through the primary key, which requires gorm's TranslateError option.
type GormIdempotencyKeyRepository struct {
	db *gorm.DB
}

func NewGormIdempotencyKeyRepository(db *gorm.DB) *GormIdempotencyKeyRepository {
	return &GormIdempotencyKeyRepository{db: db}
}

func (r *GormIdempotencyKeyRepository) Find(ctx context.Context, key string, notBefore time.Time) (kernel.UUID, bool, error) {
	if key == "" {
		return kernel.UUID{}, false, errs.NewValueIsRequiredError("idempotency_key")
	}

	db := r.db.WithContext(ctx)
	if err := db.Where("idempotency_key = ? AND created_at < ?", key, notBefore).Delete(&IdempotencyKeyDTO{}).Error; err != nil {
		return kernel.UUID{}, false, err
	}

	var dto IdempotencyKeyDTO
	if err := db.First(&dto, "idempotency_key = ?", key).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return kernel.UUID{}, false, nil
		}
		return kernel.UUID{}, false, err
	}

	orderID, err := kernel.UUIDFromBytes(dto.OrderID[:])
	if err != nil {
		return kernel.UUID{}, false, err
	}
	return orderID, true, nil
}

func (r *GormIdempotencyKeyRepository) Reserve(ctx context.Context, key string, orderID kernel.UUID, at time.Time) error {
	if key == "" {
		return errs.NewValueIsRequiredError("idempotency_key")
	}
	if err := orderID.Validate(); err != nil {
		return err
	}

	dto := IdempotencyKeyDTO{Key: key, OrderID: orderID.Bytes(), CreatedAt: at}
	if err := r.db.WithContext(ctx).Create(&dto).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ports.ErrIdempotencyKeyTaken
		}
		return err
	}
	return nil
}

func (r *GormIdempotencyKeyRepository) PurgeExpired(ctx context.Context, notBefore time.Time) (int64, error) {
	result := r.db.WithContext(ctx).Where("created_at < ?", notBefore).Delete(&IdempotencyKeyDTO{})
	return result.RowsAffected, result.Error
}
