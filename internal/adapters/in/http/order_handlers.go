package http

import (
	"fmt"
	"net/http"

	"orderhub/internal/core/application/usecases/commands"
	"orderhub/internal/core/application/usecases/queries"
	"orderhub/internal/core/domain/model/cart"
	"orderhub/internal/core/domain/model/kernel"
	"orderhub/internal/core/domain/model/order"
	"orderhub/internal/pkg/errs"

	"github.com/labstack/echo/v4"
)

// SubmitOrder handles POST /orders. Claimed totals must match the sum of the items and
// a missing item name is filled from the catalog.
func (s *Server) SubmitOrder(c echo.Context) error {
	var body NewOrder
	if err := bind(c, &body); err != nil {
		return err
	}
	if body.OrderType == "" {
		body.OrderType = order.DineIn.String()
	}
	if body.Channel == "" {
		body.Channel = cart.ChannelWeb.String()
	}

	orderType, err := order.ParseType(body.OrderType)
	if err != nil {
		return err
	}
	lines, err := s.orderLines(body.Items)
	if err != nil {
		return err
	}
	if err = checkClaimedTotals(body, order.Subtotal(lines)); err != nil {
		return err
	}

	cmd, err := commands.NewSubmitOrderCommand(orderType, body.TableNumber, body.Channel, lines, body.Notes, idempotencyKey(c))
	if err != nil {
		return err
	}

	result, err := s.commands.SubmitOrder.Handle(c.Request().Context(), cmd)
	if err != nil {
		return err
	}
	return respondSubmitted(c, result)
}

// GetOrders handles GET /orders with an optional status filter.
func (s *Server) GetOrders(c echo.Context) error {
	query, err := queries.NewGetOrdersQuery(c.QueryParam("status"))
	if err != nil {
		return err
	}

	found, err := s.queries.GetOrders.Handle(c.Request().Context(), query)
	if err != nil {
		return err
	}

	response := OrderList{Orders: make([]Order, 0, len(found))}
	for _, o := range found {
		response.Orders = append(response.Orders, fromOrderResponse(o))
	}
	return c.JSON(http.StatusOK, response)
}

// GetOrder handles GET /orders/{orderId}.
func (s *Server) GetOrder(c echo.Context) error {
	orderID, err := pathUUID(c, "orderId")
	if err != nil {
		return err
	}
	query, err := queries.NewGetOrderQuery(orderID)
	if err != nil {
		return err
	}

	found, err := s.queries.GetOrder.Handle(c.Request().Context(), query)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, fromOrderResponse(found))
}

// TransitionOrderStatus handles POST /orders/{orderId}/status.
func (s *Server) TransitionOrderStatus(c echo.Context) error {
	orderID, err := pathUUID(c, "orderId")
	if err != nil {
		return err
	}

	var body StatusChange
	if err = bind(c, &body); err != nil {
		return err
	}
	status, err := order.ParseStatus(body.Status)
	if err != nil {
		return err
	}

	cmd, err := commands.NewTransitionOrderStatusCommand(orderID, status)
	if err != nil {
		return err
	}
	updated, err := s.commands.TransitionOrderStatus.Handle(c.Request().Context(), cmd)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toOrder(updated))
}

func (s *Server) orderLines(body []NewOrderLine) ([]order.Line, error) {
	lines := make([]order.Line, 0, len(body))
	for i, l := range body {
		name := l.Name
		if name == "" {
			if item, err := s.catalog.Item(l.ItemID); err == nil {
				name = item.Name()
			}
		}

		price, err := kernel.NewMoney(l.UnitPrice)
		if err != nil {
			return nil, errs.NewValueIsInvalidErrorWithCause(fmt.Sprintf("items[%d].unit_price", i), err)
		}
		line, err := order.NewLine(l.ItemID, name, l.Quantity, price, l.Modifiers)
		if err != nil {
			return nil, err
		}
		lines = append(lines, line)
	}
	return lines, nil
}

func checkClaimedTotals(body NewOrder, computed kernel.Money) error {
	if body.Subtotal != nil && *body.Subtotal != computed.MinorUnits() {
		return errs.NewValueIsInvalidErrorWithCause("subtotal",
			fmt.Errorf("claimed %d, lines sum to %d", *body.Subtotal, computed.MinorUnits()))
	}
	if body.Total != nil && *body.Total != computed.MinorUnits() {
		return errs.NewValueIsInvalidErrorWithCause("total",
			fmt.Errorf("claimed %d, lines sum to %d", *body.Total, computed.MinorUnits()))
	}
	return nil
}

func respondSubmitted(c echo.Context, result commands.SubmitOrderResult) error {
	if result.Replayed {
		c.Response().Header().Set(headerReplayed, "true")
		return c.JSON(http.StatusOK, toOrder(result.Order))
	}
	return c.JSON(http.StatusCreated, toOrder(result.Order))
}
