package queries

import (
	"context"
	"errors"

	"orderhub/internal/pkg/errs"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type GetOrderQueryHandler struct {
	db *gorm.DB
}

func NewGetOrderQueryHandler(db *gorm.DB) GetOrderQueryHandler {
	return GetOrderQueryHandler{db: db}
}

// Handle returns an ObjectNotFoundError for an unknown id.
func (h GetOrderQueryHandler) Handle(ctx context.Context, query GetOrderQuery) (OrderResponse, error) {
	if err := query.Validate(); err != nil {
		return OrderResponse{}, err
	}

	id := query.OrderID().Bytes()
	var row orderRow
	err := h.db.WithContext(ctx).Table("orders").Where("id = ?", id).Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return OrderResponse{}, errs.NewObjectNotFoundError("order", query.OrderID().String())
	}
	if err != nil {
		return OrderResponse{}, err
	}

	lines, err := loadLines(ctx, h.db, []uuid.UUID{id})
	if err != nil {
		return OrderResponse{}, err
	}
	return toOrderResponse(row, lines[id])
}
