package queries

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GetOrdersQueryHandler reads orders straight from the database, oldest number first.
type GetOrdersQueryHandler struct {
	db *gorm.DB
}

func NewGetOrdersQueryHandler(db *gorm.DB) GetOrdersQueryHandler {
	return GetOrdersQueryHandler{db: db}
}

func (h GetOrdersQueryHandler) Handle(ctx context.Context, query GetOrdersQuery) ([]OrderResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	tx := h.db.WithContext(ctx).Table("orders").Order("number")
	if status, ok := query.Status(); ok {
		tx = tx.Where("status = ?", status.String())
	}

	var rows []orderRow
	if err := tx.Find(&rows).Error; err != nil {
		return nil, err
	}

	ids := make([]uuid.UUID, 0, len(rows))
	for _, r := range rows {
		ids = append(ids, r.ID)
	}
	lines, err := loadLines(ctx, h.db, ids)
	if err != nil {
		return nil, err
	}

	orders := make([]OrderResponse, 0, len(rows))
	for _, r := range rows {
		resp, respErr := toOrderResponse(r, lines[r.ID])
		if respErr != nil {
			return nil, respErr
		}
		orders = append(orders, resp)
	}
	return orders, nil
}
