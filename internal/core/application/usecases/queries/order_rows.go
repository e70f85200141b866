package queries

import (
	"context"
	"time"

	"orderhub/internal/core/domain/model/kernel"
	"orderhub/internal/core/domain/model/order"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type orderRow struct {
	ID          uuid.UUID
	Number      int64
	Type        string
	Channel     string
	TableNumber *int
	Subtotal    int64
	Total       int64
	Notes       string
	Status      string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type lineRow struct {
	OrderID   uuid.UUID
	ItemID    string
	Name      string
	Quantity  int
	UnitPrice int64
	Modifiers []string `gorm:"serializer:json"`
}

// loadLines reads the lines of the given orders keyed by order id, in submission order.
func loadLines(ctx context.Context, db *gorm.DB, orderIDs []uuid.UUID) (map[uuid.UUID][]lineRow, error) {
	lines := make(map[uuid.UUID][]lineRow, len(orderIDs))
	if len(orderIDs) == 0 {
		return lines, nil
	}

	var rows []lineRow
	err := db.WithContext(ctx).
		Table("order_lines").
		Select("order_id, item_id, name, quantity, unit_price, modifiers").
		Where("order_id IN ?", orderIDs).
		Order("order_id, position").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	for _, r := range rows {
		lines[r.OrderID] = append(lines[r.OrderID], r)
	}
	return lines, nil
}

func toOrderResponse(row orderRow, lines []lineRow) (OrderResponse, error) {
	id, err := kernel.UUIDFromBytes(row.ID[:])
	if err != nil {
		return OrderResponse{}, err
	}
	orderType, err := order.ParseType(row.Type)
	if err != nil {
		return OrderResponse{}, err
	}
	status, err := order.ParseStatus(row.Status)
	if err != nil {
		return OrderResponse{}, err
	}

	resp := OrderResponse{
		ID:          id,
		Number:      order.Number(row.Number),
		Type:        orderType,
		Channel:     row.Channel,
		TableNumber: row.TableNumber,
		Status:      status,
		Lines:       make([]OrderLineResponse, 0, len(lines)),
		Subtotal:    kernel.Money(row.Subtotal),
		Total:       kernel.Money(row.Total),
		Notes:       row.Notes,
		CreatedAt:   row.CreatedAt.UTC(),
		UpdatedAt:   row.UpdatedAt.UTC(),
	}
	for _, l := range lines {
		unit := kernel.Money(l.UnitPrice)
		resp.Lines = append(resp.Lines, OrderLineResponse{
			ItemID:    l.ItemID,
			Name:      l.Name,
			Quantity:  l.Quantity,
			UnitPrice: unit,
			Total:     unit.Times(l.Quantity),
			Modifiers: l.Modifiers,
		})
	}
	return resp, nil
}
