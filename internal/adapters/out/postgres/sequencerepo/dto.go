// Package sequencerepo implements the shared order number counter as a single row that
// is incremented inside the submitting transaction.
package sequencerepo

// OrderNumbersName is the counter row used for order numbers.
const OrderNumbersName = "orders"

type SequenceDTO struct {
	Name  string `gorm:"size:32;primaryKey"`
	Value int64  `gorm:"not null"`
}

func (SequenceDTO) TableName() string {
	return "order_sequences"
}
