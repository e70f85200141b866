package redis

import (
	"time"

	"orderhub/internal/core/domain/model/cart"
	"orderhub/internal/core/domain/model/kernel"
	"orderhub/internal/core/domain/model/order"
)

type cartDTO struct {
	ID          string    `json:"id"`
	SessionID   string    `json:"session_id"`
	Channel     string    `json:"channel"`
	OrderType   string    `json:"order_type"`
	TableNumber *int      `json:"table_number,omitempty"`
	Lines       []lineDTO `json:"lines"`
	Closed      bool      `json:"closed"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type lineDTO struct {
	ID        string   `json:"id"`
	ItemID    string   `json:"item_id"`
	Name      string   `json:"name"`
	Quantity  int      `json:"quantity"`
	UnitPrice int64    `json:"unit_price"`
	Modifiers []string `json:"modifiers,omitempty"`
}

func fromDomain(c *cart.Cart) cartDTO {
	lines := make([]lineDTO, 0, len(c.Lines()))
	for _, l := range c.Lines() {
		lines = append(lines, lineDTO{
			ID:        l.ID().String(),
			ItemID:    l.ItemID(),
			Name:      l.Name(),
			Quantity:  l.Quantity(),
			UnitPrice: l.UnitPrice().MinorUnits(),
			Modifiers: l.Modifiers(),
		})
	}

	return cartDTO{
		ID:          c.ID().String(),
		SessionID:   c.SessionID(),
		Channel:     c.Channel().String(),
		OrderType:   c.OrderType().String(),
		TableNumber: c.TableNumber(),
		Lines:       lines,
		Closed:      c.IsClosed(),
		CreatedAt:   c.CreatedAt(),
		UpdatedAt:   c.UpdatedAt(),
	}
}

func toDomain(dto cartDTO) (*cart.Cart, error) {
	id, err := kernel.UUIDFromString(dto.ID)
	if err != nil {
		return nil, err
	}
	channel, err := cart.ParseChannel(dto.Channel)
	if err != nil {
		return nil, err
	}
	orderType, err := order.ParseType(dto.OrderType)
	if err != nil {
		return nil, err
	}

	lines := make([]cart.Line, 0, len(dto.Lines))
	for _, l := range dto.Lines {
		lineID, idErr := kernel.UUIDFromString(l.ID)
		if idErr != nil {
			return nil, idErr
		}
		line, lineErr := cart.RestoreLine(lineID, l.ItemID, l.Name, l.Quantity, kernel.Money(l.UnitPrice), l.Modifiers)
		if lineErr != nil {
			return nil, lineErr
		}
		lines = append(lines, line)
	}

	return cart.RestoreCart(id, dto.SessionID, channel, orderType, dto.TableNumber, lines, dto.Closed, dto.CreatedAt, dto.UpdatedAt)
}
