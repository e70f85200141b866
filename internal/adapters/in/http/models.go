package http

import (
	"time"

	"orderhub/internal/core/application/usecases/queries"
	"orderhub/internal/core/domain/model/assignment"
	"orderhub/internal/core/domain/model/cart"
	"orderhub/internal/core/domain/model/catalog"
	"orderhub/internal/core/domain/model/kernel"
	"orderhub/internal/core/domain/model/order"
)

// Error is the body of every non-2xx response.
type Error struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	Retryable bool   `json:"retryable"`
}

type Catalog struct {
	Version    string     `json:"version"`
	Categories []Category `json:"categories"`
}

type Category struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Rank      int    `json:"rank"`
	ItemCount int    `json:"item_count"`
	Items     []Item `json:"items"`
}

// Item carries the price in minor units and as a display string.
type Item struct {
	ID           string `json:"id"`
	CategoryID   string `json:"category_id"`
	Name         string `json:"name"`
	Price        int64  `json:"price"`
	DisplayPrice string `json:"display_price"`
	Available    bool   `json:"available"`
}

type CatalogVersion struct {
	Version string `json:"version"`
}

type NewCart struct {
	Channel     string `json:"channel"`
	OrderType   string `json:"order_type"`
	TableNumber *int   `json:"table_number,omitempty"`
}

type NewCartLine struct {
	ItemID    string   `json:"item_id"`
	Quantity  int      `json:"quantity"`
	Modifiers []string `json:"modifiers,omitempty"`
}

type CartLineQuantity struct {
	Quantity int `json:"quantity"`
}

type Checkout struct {
	Notes string `json:"notes,omitempty"`
}

type Cart struct {
	ID          string     `json:"id"`
	Channel     string     `json:"channel"`
	OrderType   string     `json:"order_type"`
	TableNumber *int       `json:"table_number,omitempty"`
	Closed      bool       `json:"closed"`
	Lines       []CartLine `json:"lines"`
	Totals
	UpdatedAt time.Time `json:"updated_at"`
}

type CartLine struct {
	ID        string   `json:"id"`
	ItemID    string   `json:"item_id"`
	Name      string   `json:"name"`
	Quantity  int      `json:"quantity"`
	UnitPrice int64    `json:"unit_price"`
	Total     int64    `json:"total"`
	Modifiers []string `json:"modifiers"`
}

type Totals struct {
	Subtotal        int64  `json:"subtotal"`
	Total           int64  `json:"total"`
	DisplaySubtotal string `json:"display_subtotal"`
	DisplayTotal    string `json:"display_total"`
}

// NewOrder is the body of POST /orders. order_type defaults to dine_in and channel to web.
type NewOrder struct {
	OrderType   string         `json:"order_type,omitempty"`
	Channel     string         `json:"channel,omitempty"`
	TableNumber *int           `json:"table_number,omitempty"`
	Notes       string         `json:"notes,omitempty"`
	Subtotal    *int64         `json:"subtotal,omitempty"`
	Total       *int64         `json:"total,omitempty"`
	Items       []NewOrderLine `json:"items"`
}

type NewOrderLine struct {
	ItemID    string   `json:"item_id"`
	Name      string   `json:"name,omitempty"`
	Quantity  int      `json:"quantity"`
	UnitPrice int64    `json:"unit_price"`
	Modifiers []string `json:"modifiers,omitempty"`
}

// Order carries order_number in its display form ("#0001"); sequence is the raw counter
// value. table_number and notes are null when absent.
type Order struct {
	ID          string      `json:"id"`
	OrderNumber string      `json:"order_number"`
	Sequence    int64       `json:"sequence"`
	Type        string      `json:"order_type"`
	Channel     string      `json:"channel"`
	TableNumber *int        `json:"table_number"`
	Status      string      `json:"status"`
	Items       []OrderLine `json:"items"`
	Totals
	Notes     *string   `json:"notes"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type OrderList struct {
	Orders []Order `json:"orders"`
}

type OrderLine struct {
	ItemID    string   `json:"item_id"`
	Name      string   `json:"name"`
	Quantity  int      `json:"quantity"`
	UnitPrice int64    `json:"unit_price"`
	Total     int64    `json:"total"`
	Modifiers []string `json:"modifiers"`
}

type StatusChange struct {
	Status string `json:"status"`
}

type DriverAction struct {
	DriverID string `json:"driver_id"`
	Reason   string `json:"reason,omitempty"`
}

type DeliveryAssignment struct {
	OrderID       string    `json:"order_id"`
	DriverID      *string   `json:"driver_id,omitempty"`
	Status        string    `json:"status"`
	FailureReason string    `json:"failure_reason,omitempty"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// Delivery is returned by the driver operations.
type Delivery struct {
	Assignment  DeliveryAssignment `json:"assignment"`
	OrderStatus string             `json:"order_status"`
}

func toCatalog(version string, categories []catalog.Category) Catalog {
	out := Catalog{Version: version, Categories: make([]Category, 0, len(categories))}
	for _, c := range categories {
		items := make([]Item, 0, c.ItemCount())
		for _, i := range c.Items() {
			items = append(items, toItem(i))
		}
		out.Categories = append(out.Categories, Category{
			ID:        c.ID(),
			Name:      c.Name(),
			Rank:      c.Rank(),
			ItemCount: c.ItemCount(),
			Items:     items,
		})
	}
	return out
}

func toItem(i catalog.Item) Item {
	return Item{
		ID:           i.ID(),
		CategoryID:   i.CategoryID(),
		Name:         i.Name(),
		Price:        i.Price().MinorUnits(),
		DisplayPrice: i.Price().String(),
		Available:    i.IsAvailable(),
	}
}

func toTotals(subtotal, total kernel.Money) Totals {
	return Totals{
		Subtotal:        subtotal.MinorUnits(),
		Total:           total.MinorUnits(),
		DisplaySubtotal: subtotal.String(),
		DisplayTotal:    total.String(),
	}
}

func toCart(c *cart.Cart) Cart {
	lines := make([]CartLine, 0, len(c.Lines()))
	for _, l := range c.Lines() {
		lines = append(lines, CartLine{
			ID:        l.ID().String(),
			ItemID:    l.ItemID(),
			Name:      l.Name(),
			Quantity:  l.Quantity(),
			UnitPrice: l.UnitPrice().MinorUnits(),
			Total:     l.Total().MinorUnits(),
			Modifiers: nonNil(l.Modifiers()),
		})
	}

	totals := c.Totals()
	return Cart{
		ID:          c.ID().String(),
		Channel:     c.Channel().String(),
		OrderType:   c.OrderType().String(),
		TableNumber: c.TableNumber(),
		Closed:      c.IsClosed(),
		Lines:       lines,
		Totals:      toTotals(totals.Subtotal, totals.Total),
		UpdatedAt:   c.UpdatedAt(),
	}
}

func toOrder(o *order.Order) Order {
	lines := make([]OrderLine, 0, len(o.Lines()))
	for _, l := range o.Lines() {
		lines = append(lines, OrderLine{
			ItemID:    l.ItemID(),
			Name:      l.Name(),
			Quantity:  l.Quantity(),
			UnitPrice: l.UnitPrice().MinorUnits(),
			Total:     l.Total().MinorUnits(),
			Modifiers: nonNil(l.Modifiers()),
		})
	}

	return Order{
		ID:          o.ID().String(),
		OrderNumber: o.Number().String(),
		Sequence:    int64(o.Number()),
		Type:        o.Type().String(),
		Channel:     o.Channel(),
		TableNumber: o.TableNumber(),
		Status:      o.Status().String(),
		Items:       lines,
		Totals:      toTotals(o.Subtotal(), o.Total()),
		Notes:       optionalString(o.Notes()),
		CreatedAt:   o.CreatedAt(),
		UpdatedAt:   o.UpdatedAt(),
	}
}

func fromOrderResponse(r queries.OrderResponse) Order {
	lines := make([]OrderLine, 0, len(r.Lines))
	for _, l := range r.Lines {
		lines = append(lines, OrderLine{
			ItemID:    l.ItemID,
			Name:      l.Name,
			Quantity:  l.Quantity,
			UnitPrice: l.UnitPrice.MinorUnits(),
			Total:     l.Total.MinorUnits(),
			Modifiers: nonNil(l.Modifiers),
		})
	}

	return Order{
		ID:          r.ID.String(),
		OrderNumber: r.Number.String(),
		Sequence:    int64(r.Number),
		Type:        r.Type.String(),
		Channel:     r.Channel,
		TableNumber: r.TableNumber,
		Status:      r.Status.String(),
		Items:       lines,
		Totals:      toTotals(r.Subtotal, r.Total),
		Notes:       optionalString(r.Notes),
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}

func toAssignment(a *assignment.DeliveryAssignment) DeliveryAssignment {
	return DeliveryAssignment{
		OrderID:       a.OrderID().String(),
		DriverID:      idString(a.DriverID()),
		Status:        a.Status().String(),
		FailureReason: a.FailureReason(),
		UpdatedAt:     a.UpdatedAt(),
	}
}

func fromAssignmentResponse(r queries.DeliveryAssignmentResponse) DeliveryAssignment {
	return DeliveryAssignment{
		OrderID:       r.OrderID.String(),
		DriverID:      idString(r.DriverID),
		Status:        r.Status.String(),
		FailureReason: r.FailureReason,
		UpdatedAt:     r.UpdatedAt,
	}
}

func idString(id *kernel.UUID) *string {
	if id == nil {
		return nil
	}
	s := id.String()
	return &s
}

func optionalString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
