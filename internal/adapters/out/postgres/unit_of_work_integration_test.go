package postgres_test

import (
	"context"
	"errors"
	"sort"
	"sync"
	"testing"
	"time"

	postgres_adapter "orderhub/internal/adapters/out/postgres"
	"orderhub/internal/core/application/usecases/commands"
	"orderhub/internal/core/domain/model/order"
	"orderhub/internal/core/domain/services"
	"orderhub/internal/core/ports"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	gorm_postgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

type submitUoWFactory struct{ factory ports.UnitOfWorkFactory }

func (f submitUoWFactory) Create() commands.SubmitOrderUoW { return f.factory.Create() }

type deliveryUoWFactory struct{ factory ports.UnitOfWorkFactory }

func (f deliveryUoWFactory) Create() commands.DeliveryUoW { return f.factory.Create() }

// UnitOfWorkIntegrationTestSuite runs the command handlers against a real PostgreSQL
// database to check the properties that depend on row locking.
type UnitOfWorkIntegrationTestSuite struct {
	suite.Suite
	container *postgres.PostgresContainer
	db        *gorm.DB
	factory   ports.UnitOfWorkFactory
	logger    *logrus.Logger
}

func (suite *UnitOfWorkIntegrationTestSuite) SetupSuite() {
	ctx := context.Background()

	container, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2).
			WithStartupTimeout(30*time.Second)),
	)
	suite.Require().NoError(err)
	suite.container = container

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	suite.Require().NoError(err)

	suite.logger, _ = test.NewNullLogger()
	db, err := gorm.Open(gorm_postgres.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         postgres_adapter.NewGormLogger(suite.logger),
	})
	suite.Require().NoError(err)
	suite.db = db

	suite.Require().NoError(postgres_adapter.Migrate(db))
	suite.factory = postgres_adapter.NewGormUnitOfWorkFactory(db, suite.logger)
}

func (suite *UnitOfWorkIntegrationTestSuite) SetupTest() {
	err := suite.db.Exec("TRUNCATE TABLE order_lines, orders, delivery_assignments, idempotency_keys").Error
	suite.Require().NoError(err)
	suite.Require().NoError(suite.db.Exec("UPDATE order_sequences SET value = 0").Error)
}

func (suite *UnitOfWorkIntegrationTestSuite) TearDownSuite() {
	if suite.container != nil {
		err := suite.container.Terminate(context.Background())
		suite.Require().NoError(err)
	}
}

func (suite *UnitOfWorkIntegrationTestSuite) submitCommand(key string) commands.SubmitOrderCommand {
	line, err := order.NewLine("soup", "Soup", 1, 650, nil)
	suite.Require().NoError(err)
	cmd, err := commands.NewSubmitOrderCommand(order.Pickup, nil, "web", []order.Line{line}, "", key)
	suite.Require().NoError(err)
	return cmd
}

func (suite *UnitOfWorkIntegrationTestSuite) TestConcurrentSubmissionsGetGaplessNumbers() {
	ctx := context.Background()
	handler := commands.NewSubmitOrderCommandHandler(submitUoWFactory{suite.factory}, time.Hour)

	const submissions = 20
	numbers := make([]int, 0, submissions)
	var mu sync.Mutex
	var wg sync.WaitGroup
	for range submissions {
		wg.Add(1)
		go func() {
			defer wg.Done()
			result, err := handler.Handle(ctx, suite.submitCommand(""))
			suite.NoError(err)
			if err == nil {
				mu.Lock()
				numbers = append(numbers, int(result.Order.Number()))
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	sort.Ints(numbers)
	suite.Require().Len(numbers, submissions)
	for i, n := range numbers {
		suite.Equal(i+1, n)
	}
}

func (suite *UnitOfWorkIntegrationTestSuite) TestConcurrentSubmissionsWithSameKeyCreateOneOrder() {
	ctx := context.Background()
	handler := commands.NewSubmitOrderCommandHandler(submitUoWFactory{suite.factory}, time.Hour)

	const submissions = 5
	results := make(chan commands.SubmitOrderResult, submissions)
	var wg sync.WaitGroup
	for range submissions {
		wg.Add(1)
		go func() {
			defer wg.Done()
			result, err := handler.Handle(ctx, suite.submitCommand("tablet-7-retry"))
			suite.NoError(err)
			if err == nil {
				results <- result
			}
		}()
	}
	wg.Wait()
	close(results)

	created := 0
	var first *order.Order
	for r := range results {
		if !r.Replayed {
			created++
		}
		if first == nil {
			first = r.Order
		}
		suite.True(first.ID().IsEqual(r.Order.ID()))
	}
	suite.Equal(1, created)

	var count int64
	suite.Require().NoError(suite.db.Table("orders").Count(&count).Error)
	suite.Equal(int64(1), count)
}

func (suite *UnitOfWorkIntegrationTestSuite) TestConcurrentTransitionsExactlyOneWins() {
	ctx := context.Background()
	submitted, err := commands.NewSubmitOrderCommandHandler(submitUoWFactory{suite.factory}, time.Hour).
		Handle(ctx, suite.submitCommand(""))
	suite.Require().NoError(err)

	handler := commands.NewTransitionOrderStatusCommandHandler(
		deliveryUoWFactory{suite.factory},
		services.NewDeliveryCoordinator(order.CancellationPolicy{AllowWhilePreparing: false}),
	)

	// Applied one after the other, either edge invalidates the other one.
	targets := []order.Status{order.Preparing, order.Cancelled}
	errs := make([]error, len(targets))
	var wg sync.WaitGroup
	for i, to := range targets {
		wg.Add(1)
		go func() {
			defer wg.Done()
			cmd, cmdErr := commands.NewTransitionOrderStatusCommand(submitted.Order.ID(), to)
			suite.NoError(cmdErr)
			_, errs[i] = handler.Handle(ctx, cmd)
		}()
	}
	wg.Wait()

	failures := 0
	for _, err := range errs {
		if err != nil {
			failures++
			suite.True(errors.Is(err, order.ErrConcurrentModification) || errors.Is(err, order.ErrInvalidTransition), err.Error())
		}
	}
	suite.Equal(1, failures)

	uow := suite.factory.Create()
	stored, err := uow.OrderRepository().Get(ctx, submitted.Order.ID())
	suite.Require().NoError(err)
	suite.Contains(targets, stored.Status())
	suite.Equal(2, stored.Version())
}

func (suite *UnitOfWorkIntegrationTestSuite) TestRollbackLeavesNothingBehind() {
	ctx := context.Background()
	uow := suite.factory.Create()
	suite.Require().NoError(uow.Begin(ctx))

	number, err := uow.OrderNumbers().Next(ctx)
	suite.Require().NoError(err)
	suite.Equal(order.Number(1), number)
	suite.Require().NoError(uow.Rollback(ctx))

	result, err := commands.NewSubmitOrderCommandHandler(submitUoWFactory{suite.factory}, time.Hour).
		Handle(ctx, suite.submitCommand(""))
	suite.Require().NoError(err)
	suite.Equal(order.Number(1), result.Order.Number())
}

func TestUnitOfWorkIntegrationTestSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("requires docker")
	}
	suite.Run(t, new(UnitOfWorkIntegrationTestSuite))
}
