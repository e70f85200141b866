package cmd

import (
	"context"
	"errors"
	"fmt"

	httpin "orderhub/internal/adapters/in/http"
	"orderhub/internal/adapters/out/catalogsource"
	"orderhub/internal/adapters/out/memory"
	"orderhub/internal/adapters/out/postgres"
	"orderhub/internal/adapters/out/rabbitmq"
	"orderhub/internal/adapters/out/redis"
	"orderhub/internal/adapters/out/wshub"
	"orderhub/internal/core/application/cartmanager"
	"orderhub/internal/core/application/catalogstore"
	"orderhub/internal/core/application/usecases/commands"
	"orderhub/internal/core/application/usecases/queries"
	"orderhub/internal/core/domain/model/order"
	"orderhub/internal/core/domain/services"
	"orderhub/internal/core/ports"
	"orderhub/internal/jobs"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

type CompositionRoot struct {
	configs     Config
	logger      logrus.FieldLogger
	gormDB      *gorm.DB
	uowFactory  *postgres.GormUnitOfWorkFactory
	coordinator services.DeliveryCoordinator

	catalog    *catalogstore.Store
	cartStore  ports.CartStore
	memCarts   *memory.CartStore
	liveFeed   *wshub.Hub
	publishers []ports.EventPublisher
	closers    []func() error
}

// NewCompositionRoot connects the optional infrastructure named in configs (redis cart
// store, RabbitMQ exchange) and wires the core around it. Close releases those connections.
func NewCompositionRoot(ctx context.Context, configs Config, gormDB *gorm.DB, logger logrus.FieldLogger) (*CompositionRoot, error) {
	c := &CompositionRoot{
		configs:     configs,
		logger:      logger,
		gormDB:      gormDB,
		coordinator: services.NewDeliveryCoordinator(order.CancellationPolicy{AllowWhilePreparing: configs.AllowCancelWhilePreparing}),
		catalog:     catalogstore.NewStore(logger),
		liveFeed:    wshub.NewHub(logger),
	}
	c.publishers = append(c.publishers, c.liveFeed)
	c.closers = append(c.closers, func() error {
		c.liveFeed.Close()
		return nil
	})

	if configs.RabbitMQURL != "" {
		publisher, err := rabbitmq.Dial(configs.RabbitMQURL, configs.RabbitMQExchange, logger)
		if err != nil {
			return nil, errors.Join(fmt.Errorf("connect to rabbitmq: %w", err), c.Close())
		}
		c.publishers = append(c.publishers, publisher)
		c.closers = append(c.closers, publisher.Close)
	}

	switch configs.CartStore {
	case CartStoreRedis:
		rdb, err := redis.Connect(ctx, configs.RedisURL)
		if err != nil {
			return nil, errors.Join(fmt.Errorf("connect to redis: %w", err), c.Close())
		}
		c.cartStore = redis.NewCartStore(rdb, configs.CartTTL)
		c.closers = append(c.closers, rdb.Close)
	default:
		c.memCarts = memory.NewCartStore(configs.CartTTL)
		c.cartStore = c.memCarts
	}

	c.uowFactory = postgres.NewGormUnitOfWorkFactory(gormDB, logger, c.publishers...)
	return c, nil
}

// Close releases connections in reverse order of creation.
func (c *CompositionRoot) Close() error {
	var errs []error
	for i := len(c.closers) - 1; i >= 0; i-- {
		errs = append(errs, c.closers[i]())
	}
	c.closers = nil
	return errors.Join(errs...)
}

func (c *CompositionRoot) CatalogStore() *catalogstore.Store {
	return c.catalog
}

func (c *CompositionRoot) LiveFeed() *wshub.Hub {
	return c.liveFeed
}

func (c *CompositionRoot) CreateCartManager() *cartmanager.Manager {
	return cartmanager.NewManager(c.cartStore, c.catalog, c.logger)
}

func (c *CompositionRoot) CreateSubmitOrderCommandHandler() commands.SubmitOrderCommandHandler {
	var f commands.SubmitOrderUoWFactory = FuncSubmitOrderUoWFactory(func() commands.SubmitOrderUoW {
		return c.uowFactory.Create()
	})
	return commands.NewSubmitOrderCommandHandler(f, c.configs.IdempotencyWindow)
}

func (c *CompositionRoot) CreateTransitionOrderStatusCommandHandler() commands.TransitionOrderStatusCommandHandler {
	return commands.NewTransitionOrderStatusCommandHandler(c.deliveryUoWFactory(), c.coordinator)
}

func (c *CompositionRoot) CreateAssignDriverCommandHandler() commands.AssignDriverCommandHandler {
	return commands.NewAssignDriverCommandHandler(c.deliveryUoWFactory(), c.coordinator)
}

func (c *CompositionRoot) CreateStartDeliveryCommandHandler() commands.StartDeliveryCommandHandler {
	return commands.NewStartDeliveryCommandHandler(c.deliveryUoWFactory(), c.coordinator)
}

func (c *CompositionRoot) CreateConfirmDeliveryCommandHandler() commands.ConfirmDeliveryCommandHandler {
	return commands.NewConfirmDeliveryCommandHandler(c.deliveryUoWFactory(), c.coordinator)
}

func (c *CompositionRoot) CreateReportDeliveryFailureCommandHandler() commands.ReportDeliveryFailureCommandHandler {
	return commands.NewReportDeliveryFailureCommandHandler(c.deliveryUoWFactory(), c.coordinator)
}

func (c *CompositionRoot) CreatePurgeIdempotencyKeysCommandHandler() commands.PurgeIdempotencyKeysCommandHandler {
	var f commands.IdempotencyUoWFactory = FuncIdempotencyUoWFactory(func() commands.IdempotencyUoW {
		return c.uowFactory.Create()
	})
	return commands.NewPurgeIdempotencyKeysCommandHandler(f, c.configs.IdempotencyWindow)
}

func (c *CompositionRoot) CreateGetOrdersQueryHandler() queries.GetOrdersQueryHandler {
	return queries.NewGetOrdersQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetOrderQueryHandler() queries.GetOrderQueryHandler {
	return queries.NewGetOrderQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetDeliveryAssignmentQueryHandler() queries.GetDeliveryAssignmentQueryHandler {
	return queries.NewGetDeliveryAssignmentQueryHandler(c.gormDB)
}

// CreateJobManager schedules the idempotency purge, the catalog sync when CATALOG_SOURCE
// is set and the expired cart sweep when carts are kept in memory.
func (c *CompositionRoot) CreateJobManager() (*jobs.JobManager, error) {
	purgeJob := jobs.NewIdempotencyPurgeJob(
		c.CreatePurgeIdempotencyKeysCommandHandler(),
		c.configs.IdempotencyPurgeSchedule,
		c.logger,
	)

	var syncJob *jobs.CatalogSyncJob
	if c.configs.CatalogSource != "" {
		source, err := catalogsource.New(c.configs.CatalogSource)
		if err != nil {
			return nil, fmt.Errorf("catalog source: %w", err)
		}
		syncJob = jobs.NewCatalogSyncJob(c.catalog, source, c.configs.CatalogSyncSchedule, c.logger)
	}

	var cartPurgeJob *jobs.CartPurgeJob
	if c.memCarts != nil {
		cartPurgeJob = jobs.NewCartPurgeJob(c.memCarts, c.configs.CartPurgeSchedule, c.logger)
	}

	return jobs.NewJobManager(purgeJob, syncJob, cartPurgeJob), nil
}

func (c *CompositionRoot) CreateHTTPServer() *httpin.Server {
	return httpin.NewServer(
		c.catalog,
		c.CreateCartManager(),
		httpin.CommandHandlers{
			SubmitOrder:           c.CreateSubmitOrderCommandHandler(),
			TransitionOrderStatus: c.CreateTransitionOrderStatusCommandHandler(),
			AssignDriver:          c.CreateAssignDriverCommandHandler(),
			StartDelivery:         c.CreateStartDeliveryCommandHandler(),
			ConfirmDelivery:       c.CreateConfirmDeliveryCommandHandler(),
			ReportDeliveryFailure: c.CreateReportDeliveryFailureCommandHandler(),
		},
		httpin.QueryHandlers{
			GetOrders:             c.CreateGetOrdersQueryHandler(),
			GetOrder:              c.CreateGetOrderQueryHandler(),
			GetDeliveryAssignment: c.CreateGetDeliveryAssignmentQueryHandler(),
		},
	)
}

func (c *CompositionRoot) CreateEcho(ctx context.Context) (*echo.Echo, error) {
	return httpin.NewEcho(ctx, c.CreateHTTPServer(), c.liveFeed, c.logger)
}

func (c *CompositionRoot) deliveryUoWFactory() commands.DeliveryUoWFactory {
	return FuncDeliveryUoWFactory(func() commands.DeliveryUoW {
		return c.uowFactory.Create()
	})
}

type FuncSubmitOrderUoWFactory func() commands.SubmitOrderUoW

func (f FuncSubmitOrderUoWFactory) Create() commands.SubmitOrderUoW {
	return f()
}

type FuncDeliveryUoWFactory func() commands.DeliveryUoW

func (f FuncDeliveryUoWFactory) Create() commands.DeliveryUoW {
	return f()
}

type FuncIdempotencyUoWFactory func() commands.IdempotencyUoW

func (f FuncIdempotencyUoWFactory) Create() commands.IdempotencyUoW {
	return f()
}
