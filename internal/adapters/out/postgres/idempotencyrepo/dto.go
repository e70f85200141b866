// Package idempotencyrepo stores the client idempotency keys of order submissions.
package idempotencyrepo

import (
	"time"

	"github.com/google/uuid"
)

type IdempotencyKeyDTO struct {
	Key       string    `gorm:"column:idempotency_key;size:255;primaryKey"`
	OrderID   uuid.UUID `gorm:"type:uuid;not null"`
	CreatedAt time.Time `gorm:"autoCreateTime:false;index"`
}

func (IdempotencyKeyDTO) TableName() string {
	return "idempotency_keys"
}
