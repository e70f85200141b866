package http

import (
	"context"
	"net/http"

	"orderhub/internal/core/application/usecases/commands"
	"orderhub/internal/core/domain/model/cart"
	"orderhub/internal/core/domain/model/order"

	"github.com/labstack/echo/v4"
)

// CreateCart handles POST /carts.
func (s *Server) CreateCart(c echo.Context) error {
	session, err := sessionID(c)
	if err != nil {
		return err
	}

	var body NewCart
	if err = bind(c, &body); err != nil {
		return err
	}
	channel, err := cart.ParseChannel(body.Channel)
	if err != nil {
		return err
	}
	orderType, err := order.ParseType(body.OrderType)
	if err != nil {
		return err
	}

	created, err := s.carts.CreateCart(c.Request().Context(), session, channel, orderType, body.TableNumber)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, toCart(created))
}

// GetCart handles GET /carts/{cartId}.
func (s *Server) GetCart(c echo.Context) error {
	session, err := sessionID(c)
	if err != nil {
		return err
	}
	cartID, err := pathUUID(c, "cartId")
	if err != nil {
		return err
	}

	found, err := s.carts.Get(c.Request().Context(), session, cartID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toCart(found))
}

// AddCartLine handles POST /carts/{cartId}/lines.
func (s *Server) AddCartLine(c echo.Context) error {
	session, err := sessionID(c)
	if err != nil {
		return err
	}
	cartID, err := pathUUID(c, "cartId")
	if err != nil {
		return err
	}

	var body NewCartLine
	if err = bind(c, &body); err != nil {
		return err
	}

	updated, _, err := s.carts.AddLine(c.Request().Context(), session, cartID, body.ItemID, body.Quantity, body.Modifiers)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, toCart(updated))
}

// UpdateCartLine handles PATCH /carts/{cartId}/lines/{lineId}.
func (s *Server) UpdateCartLine(c echo.Context) error {
	session, err := sessionID(c)
	if err != nil {
		return err
	}
	cartID, err := pathUUID(c, "cartId")
	if err != nil {
		return err
	}
	lineID, err := pathUUID(c, "lineId")
	if err != nil {
		return err
	}

	var body CartLineQuantity
	if err = bind(c, &body); err != nil {
		return err
	}

	updated, err := s.carts.UpdateQuantity(c.Request().Context(), session, cartID, lineID, body.Quantity)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toCart(updated))
}

// RemoveCartLine handles DELETE /carts/{cartId}/lines/{lineId}.
func (s *Server) RemoveCartLine(c echo.Context) error {
	session, err := sessionID(c)
	if err != nil {
		return err
	}
	cartID, err := pathUUID(c, "cartId")
	if err != nil {
		return err
	}
	lineID, err := pathUUID(c, "lineId")
	if err != nil {
		return err
	}

	updated, err := s.carts.RemoveLine(c.Request().Context(), session, cartID, lineID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toCart(updated))
}

// GetCartTotals handles GET /carts/{cartId}/totals.
func (s *Server) GetCartTotals(c echo.Context) error {
	session, err := sessionID(c)
	if err != nil {
		return err
	}
	cartID, err := pathUUID(c, "cartId")
	if err != nil {
		return err
	}

	totals, err := s.carts.Totals(c.Request().Context(), session, cartID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toTotals(totals.Subtotal, totals.Total))
}

// CheckoutCart handles POST /carts/{cartId}/checkout. Without an Idempotency-Key the cart
// id is used as the key, so retrying a checkout never creates a second order.
func (s *Server) CheckoutCart(c echo.Context) error {
	session, err := sessionID(c)
	if err != nil {
		return err
	}
	cartID, err := pathUUID(c, "cartId")
	if err != nil {
		return err
	}

	var body Checkout
	if c.Request().ContentLength != 0 {
		if err = bind(c, &body); err != nil {
			return err
		}
	}

	key := idempotencyKey(c)
	if key == "" {
		key = "cart:" + cartID.String()
	}

	var result commands.SubmitOrderResult
	err = s.carts.Checkout(c.Request().Context(), session, cartID, body.Notes, func(ctx context.Context, snapshot cart.Snapshot) error {
		cmd, cmdErr := commands.NewSubmitOrderCommandFromSnapshot(snapshot, key)
		if cmdErr != nil {
			return cmdErr
		}
		result, cmdErr = s.commands.SubmitOrder.Handle(ctx, cmd)
		return cmdErr
	})
	if err != nil {
		return err
	}
	return respondSubmitted(c, result)
}
