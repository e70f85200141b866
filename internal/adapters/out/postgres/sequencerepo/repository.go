package sequencerepo

import (
	"context"

	"orderhub/internal/core/domain/model/order"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormOrderNumberSequence implements ports.OrderNumberSequence. The UPDATE takes the row
// lock, so concurrent submissions queue on the counter until the holder commits or rolls
// back; a rolled back allocation is reused by the next submission.
type GormOrderNumberSequence struct {
	db *gorm.DB
}

func NewGormOrderNumberSequence(db *gorm.DB) *GormOrderNumberSequence {
	return &GormOrderNumberSequence{db: db}
}

func (s *GormOrderNumberSequence) Next(ctx context.Context) (order.Number, error) {
	db := s.db.WithContext(ctx)

	result := db.Model(&SequenceDTO{}).
		Where("name = ?", OrderNumbersName).
		Update("value", gorm.Expr("value + ?", 1))
	if result.Error != nil {
		return 0, result.Error
	}

	if result.RowsAffected == 0 {
		if err := Seed(db); err != nil {
			return 0, err
		}
		return s.Next(ctx)
	}

	var row SequenceDTO
	if err := db.First(&row, "name = ?", OrderNumbersName).Error; err != nil {
		return 0, err
	}
	return order.NewNumber(row.Value)
}

// Seed creates the counter row at zero unless it already exists.
func Seed(db *gorm.DB) error {
	return db.Clauses(clause.OnConflict{DoNothing: true}).
		Create(&SequenceDTO{Name: OrderNumbersName, Value: 0}).Error
}
