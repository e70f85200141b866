// Package orderrepo maps the order aggregate to the orders and order_lines tables.
package orderrepo

import (
	"time"

	"orderhub/internal/core/domain/model/kernel"
	"orderhub/internal/core/domain/model/order"

	"github.com/google/uuid"
)

// OrderDTO is the stored form of an order. Lines live in their own table and are
// written once, on Add.
type OrderDTO struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	Number      int64     `gorm:"uniqueIndex;not null"`
	Type        string    `gorm:"size:16;not null"`
	Channel     string    `gorm:"size:16;not null"`
	TableNumber *int
	Subtotal    int64     `gorm:"not null"`
	Total       int64     `gorm:"not null"`
	Notes       string    `gorm:"type:text"`
	Status      string    `gorm:"size:16;index;not null"`
	CreatedAt   time.Time `gorm:"autoCreateTime:false;index"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime:false"`
	Version     int       `gorm:"not null"`
	Lines       []LineDTO `gorm:"foreignKey:OrderID;references:ID;constraint:OnDelete:CASCADE"`
}

func (OrderDTO) TableName() string {
	return "orders"
}

// LineDTO is one order line. Position keeps the submission order.
type LineDTO struct {
	ID        uint      `gorm:"primaryKey"`
	OrderID   uuid.UUID `gorm:"type:uuid;index;not null"`
	Position  int       `gorm:"not null"`
	ItemID    string    `gorm:"size:64;not null"`
	Name      string    `gorm:"not null"`
	Quantity  int       `gorm:"not null"`
	UnitPrice int64     `gorm:"not null"`
	Modifiers []string  `gorm:"serializer:json"`
}

func (LineDTO) TableName() string {
	return "order_lines"
}

func fromDomain(o *order.Order) OrderDTO {
	id := o.ID().Bytes()

	lines := make([]LineDTO, 0, len(o.Lines()))
	for i, l := range o.Lines() {
		lines = append(lines, LineDTO{
			OrderID:   id,
			Position:  i,
			ItemID:    l.ItemID(),
			Name:      l.Name(),
			Quantity:  l.Quantity(),
			UnitPrice: l.UnitPrice().MinorUnits(),
			Modifiers: l.Modifiers(),
		})
	}

	return OrderDTO{
		ID:          id,
		Number:      int64(o.Number()),
		Type:        o.Type().String(),
		Channel:     o.Channel(),
		TableNumber: o.TableNumber(),
		Subtotal:    o.Subtotal().MinorUnits(),
		Total:       o.Total().MinorUnits(),
		Notes:       o.Notes(),
		Status:      o.Status().String(),
		CreatedAt:   o.CreatedAt(),
		UpdatedAt:   o.UpdatedAt(),
		Version:     o.Version(),
		Lines:       lines,
	}
}

// ToDomain rebuilds the aggregate from a row with its lines loaded.
func ToDomain(dto OrderDTO) (*order.Order, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	number, err := order.NewNumber(dto.Number)
	if err != nil {
		return nil, err
	}

	orderType, err := order.ParseType(dto.Type)
	if err != nil {
		return nil, err
	}

	status, err := order.ParseStatus(dto.Status)
	if err != nil {
		return nil, err
	}

	lines := make([]order.Line, 0, len(dto.Lines))
	for _, l := range dto.Lines {
		line, lineErr := order.NewLine(l.ItemID, l.Name, l.Quantity, kernel.Money(l.UnitPrice), l.Modifiers)
		if lineErr != nil {
			return nil, lineErr
		}
		lines = append(lines, line)
	}

	return order.RestoreOrder(order.Draft{
		ID:          id,
		Number:      number,
		Type:        orderType,
		Channel:     dto.Channel,
		TableNumber: dto.TableNumber,
		Lines:       lines,
		Notes:       dto.Notes,
		CreatedAt:   dto.CreatedAt.UTC(),
	}, status, dto.UpdatedAt.UTC(), dto.Version)
}
