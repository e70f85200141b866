package http

import (
	"net/http"

	"orderhub/internal/core/application/usecases/commands"
	"orderhub/internal/core/application/usecases/queries"
	"orderhub/internal/core/domain/model/kernel"

	"github.com/labstack/echo/v4"
)

// GetDeliveryAssignment handles GET /orders/{orderId}/delivery.
func (s *Server) GetDeliveryAssignment(c echo.Context) error {
	orderID, err := pathUUID(c, "orderId")
	if err != nil {
		return err
	}
	query, err := queries.NewGetDeliveryAssignmentQuery(orderID)
	if err != nil {
		return err
	}

	found, err := s.queries.GetDeliveryAssignment.Handle(c.Request().Context(), query)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, fromAssignmentResponse(found))
}

// AssignDriver handles POST /orders/{orderId}/delivery/assign.
func (s *Server) AssignDriver(c echo.Context) error {
	orderID, _, driverID, err := driverRequest(c)
	if err != nil {
		return err
	}

	cmd, err := commands.NewAssignDriverCommand(orderID, driverID)
	if err != nil {
		return err
	}
	result, err := s.commands.AssignDriver.Handle(c.Request().Context(), cmd)
	return respondDelivery(c, result, err)
}

// StartDelivery handles POST /orders/{orderId}/delivery/start.
func (s *Server) StartDelivery(c echo.Context) error {
	orderID, _, driverID, err := driverRequest(c)
	if err != nil {
		return err
	}

	cmd, err := commands.NewStartDeliveryCommand(orderID, driverID)
	if err != nil {
		return err
	}
	result, err := s.commands.StartDelivery.Handle(c.Request().Context(), cmd)
	return respondDelivery(c, result, err)
}

// ConfirmDelivery handles POST /orders/{orderId}/delivery/confirm.
func (s *Server) ConfirmDelivery(c echo.Context) error {
	orderID, _, driverID, err := driverRequest(c)
	if err != nil {
		return err
	}

	cmd, err := commands.NewConfirmDeliveryCommand(orderID, driverID)
	if err != nil {
		return err
	}
	result, err := s.commands.ConfirmDelivery.Handle(c.Request().Context(), cmd)
	return respondDelivery(c, result, err)
}

// ReportDeliveryFailure handles POST /orders/{orderId}/delivery/failure.
func (s *Server) ReportDeliveryFailure(c echo.Context) error {
	orderID, action, driverID, err := driverRequest(c)
	if err != nil {
		return err
	}

	cmd, err := commands.NewReportDeliveryFailureCommand(orderID, driverID, action.Reason)
	if err != nil {
		return err
	}
	result, err := s.commands.ReportDeliveryFailure.Handle(c.Request().Context(), cmd)
	return respondDelivery(c, result, err)
}

func driverRequest(c echo.Context) (kernel.UUID, DriverAction, kernel.UUID, error) {
	orderID, err := pathUUID(c, "orderId")
	if err != nil {
		return kernel.UUID{}, DriverAction{}, kernel.UUID{}, err
	}

	var body DriverAction
	if err = bind(c, &body); err != nil {
		return kernel.UUID{}, DriverAction{}, kernel.UUID{}, err
	}
	driverID, err := kernel.UUIDFromString(body.DriverID)
	if err != nil {
		return kernel.UUID{}, DriverAction{}, kernel.UUID{}, err
	}
	return orderID, body, driverID, nil
}

func respondDelivery(c echo.Context, result commands.DeliveryResult, err error) error {
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, Delivery{
		Assignment:  toAssignment(result.Assignment),
		OrderStatus: result.Order.Status().String(),
	})
}
