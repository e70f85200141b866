// Package queries contains read operations for retrieving system state.
// Implements the Query pattern for read operations in the CQRS architecture.
// Queries return read models shaped for the API and never load aggregates.
package queries

import (
	"errors"
	"strings"
	"time"

	"orderhub/internal/core/domain/model/kernel"
	"orderhub/internal/core/domain/model/order"
	"orderhub/internal/pkg/guard"
)

var ErrGetOrdersQueryIsNotConstructed = errors.New(
	"GetOrdersQuery must be created via NewGetOrdersQuery constructor",
)

// GetOrdersQuery lists orders, optionally restricted to one status.
//
// Example:
//
//	query, err := NewGetOrdersQuery("ready")
//	if err != nil {
//	    return err
//	}
//	orders, err := handler.Handle(ctx, query)
//	for _, o := range orders {
//	    fmt.Printf("%s %s\n", o.Number, o.Status)
//	}
type GetOrdersQuery struct {
	status order.Status
	guard  guard.ConstructorGuard
}

// NewGetOrdersQuery accepts an empty status for all orders.
func NewGetOrdersQuery(status string) (GetOrdersQuery, error) {
	q := GetOrdersQuery{guard: guard.NewConstructorGuard()}

	status = strings.TrimSpace(status)
	if status == "" {
		return q, nil
	}

	s, err := order.ParseStatus(status)
	if err != nil {
		return GetOrdersQuery{}, err
	}
	q.status = s
	return q, nil
}

func (q GetOrdersQuery) Validate() error {
	return q.guard.Validate(ErrGetOrdersQueryIsNotConstructed)
}

// Status returns the filter and whether one is set.
func (q GetOrdersQuery) Status() (order.Status, bool) {
	return q.status, q.status != order.Unknown
}

// OrderResponse is the read model of an order.
type OrderResponse struct {
	ID          kernel.UUID
	Number      order.Number
	Type        order.Type
	Channel     string
	TableNumber *int
	Status      order.Status
	Lines       []OrderLineResponse
	Subtotal    kernel.Money
	Total       kernel.Money
	Notes       string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type OrderLineResponse struct {
	ItemID    string
	Name      string
	Quantity  int
	UnitPrice kernel.Money
	Total     kernel.Money
	Modifiers []string
}
