// Package http exposes catalog, cart, order and delivery operations over REST. Requests
// are validated against the embedded OpenAPI document before they reach a handler.
package http

import (
	"context"
	"net/http"

	"orderhub/internal/core/application/cartmanager"
	"orderhub/internal/core/application/catalogstore"
	"orderhub/internal/core/application/usecases/commands"
	"orderhub/internal/core/application/usecases/queries"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/sirupsen/logrus"
	echoSwagger "github.com/swaggo/echo-swagger"
)

// CommandHandlers groups the write use cases served over HTTP.
type CommandHandlers struct {
	SubmitOrder           commands.SubmitOrderCommandHandler
	TransitionOrderStatus commands.TransitionOrderStatusCommandHandler
	AssignDriver          commands.AssignDriverCommandHandler
	StartDelivery         commands.StartDeliveryCommandHandler
	ConfirmDelivery       commands.ConfirmDeliveryCommandHandler
	ReportDeliveryFailure commands.ReportDeliveryFailureCommandHandler
}

// QueryHandlers groups the read use cases served over HTTP.
type QueryHandlers struct {
	GetOrders             queries.GetOrdersQueryHandler
	GetOrder              queries.GetOrderQueryHandler
	GetDeliveryAssignment queries.GetDeliveryAssignmentQueryHandler
}

// Server coordinates between HTTP handlers and application use cases.
type Server struct {
	catalog  *catalogstore.Store
	carts    *cartmanager.Manager
	commands CommandHandlers
	queries  QueryHandlers
}

func NewServer(
	catalog *catalogstore.Store,
	carts *cartmanager.Manager,
	commandHandlers CommandHandlers,
	queryHandlers QueryHandlers,
) *Server {
	return &Server{
		catalog:  catalog,
		carts:    carts,
		commands: commandHandlers,
		queries:  queryHandlers,
	}
}

// NewEcho builds the HTTP router. liveFeed, when not nil, is mounted at /ws/orders.
func NewEcho(ctx context.Context, s *Server, liveFeed http.Handler, logger logrus.FieldLogger) (*echo.Echo, error) {
	doc, err := LoadOpenAPI(ctx)
	if err != nil {
		return nil, err
	}
	validator, err := RequestValidator(doc)
	if err != nil {
		return nil, err
	}

	logger = logger.WithField("component", "http")

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = ErrorHandler(logger)
	e.Use(middleware.Recover())
	e.Use(RequestLogger(logger))
	e.Use(validator)

	e.GET("/health", func(c echo.Context) error {
		return c.String(http.StatusOK, "Healthy")
	})
	e.GET("/openapi.yaml", serveOpenAPIDocument)
	e.GET("/swagger/*", echoSwagger.EchoWrapHandler(echoSwagger.URL("/openapi.yaml")))
	if liveFeed != nil {
		e.GET("/ws/orders", echo.WrapHandler(liveFeed))
	}

	s.RegisterRoutes(e)
	return e, nil
}

func (s *Server) RegisterRoutes(e *echo.Echo) {
	e.GET("/catalog", s.GetCatalog)
	e.PUT("/catalog", s.PutCatalog)
	e.GET("/catalog/items/:itemId", s.GetCatalogItem)

	e.POST("/carts", s.CreateCart)
	e.GET("/carts/:cartId", s.GetCart)
	e.POST("/carts/:cartId/lines", s.AddCartLine)
	e.PATCH("/carts/:cartId/lines/:lineId", s.UpdateCartLine)
	e.DELETE("/carts/:cartId/lines/:lineId", s.RemoveCartLine)
	e.GET("/carts/:cartId/totals", s.GetCartTotals)
	e.POST("/carts/:cartId/checkout", s.CheckoutCart)

	e.GET("/orders", s.GetOrders)
	e.POST("/orders", s.SubmitOrder)
	e.GET("/orders/:orderId", s.GetOrder)
	e.POST("/orders/:orderId/status", s.TransitionOrderStatus)

	e.GET("/orders/:orderId/delivery", s.GetDeliveryAssignment)
	e.POST("/orders/:orderId/delivery/assign", s.AssignDriver)
	e.POST("/orders/:orderId/delivery/start", s.StartDelivery)
	e.POST("/orders/:orderId/delivery/confirm", s.ConfirmDelivery)
	e.POST("/orders/:orderId/delivery/failure", s.ReportDeliveryFailure)
}
