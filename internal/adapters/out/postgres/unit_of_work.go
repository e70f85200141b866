// Package postgres provides the GORM implementation of the unit of work. Repositories
// handed out by a GormUnitOfWork share its transaction; aggregates they save are tracked
// and the domain events those aggregates recorded are published once the transaction
// commits.
//
// Typical use from a command handler:
//
//	uow := factory.Create()
//	if err := uow.Begin(ctx); err != nil {
//	    return err
//	}
//	defer func() {
//	    _ = uow.Rollback(ctx)
//	}()
//
//	if err := uow.OrderRepository().Update(ctx, o); err != nil {
//	    return err
//	}
//
//	return uow.Commit(ctx)
package postgres

import (
	"context"

	"orderhub/internal/adapters/out/postgres/assignmentrepo"
	"orderhub/internal/adapters/out/postgres/idempotencyrepo"
	"orderhub/internal/adapters/out/postgres/orderrepo"
	"orderhub/internal/adapters/out/postgres/sequencerepo"
	"orderhub/internal/core/domain/model/kernel"
	"orderhub/internal/core/ports"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// trackedAggregate is an aggregate saved during the unit of work.
type trackedAggregate struct {
	ID        kernel.UUID
	Aggregate any
}

// GormUnitOfWorkFactory creates UnitOfWork instances sharing one connection pool.
type GormUnitOfWorkFactory struct {
	db         *gorm.DB
	publishers []ports.EventPublisher
	logger     logrus.FieldLogger
}

// NewGormUnitOfWorkFactory creates a factory whose units of work publish committed events
// to every publisher in order.
//
// Example:
//
//	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
//	if err != nil {
//	    log.Fatal("failed to connect database")
//	}
//	factory := NewGormUnitOfWorkFactory(db, logger, rabbitPublisher, wsHub)
func NewGormUnitOfWorkFactory(db *gorm.DB, logger logrus.FieldLogger, publishers ...ports.EventPublisher) *GormUnitOfWorkFactory {
	return &GormUnitOfWorkFactory{
		db:         db,
		publishers: publishers,
		logger:     logger.WithField("component", "unit_of_work"),
	}
}

// Create produces a new UnitOfWork with its own transaction state and tracking.
func (f *GormUnitOfWorkFactory) Create() ports.UnitOfWork {
	return &GormUnitOfWork{
		db:                f.db,
		publishers:        f.publishers,
		logger:            f.logger,
		trackedAggregates: make([]trackedAggregate, 0),
	}
}

// GormUnitOfWork coordinates one database transaction. It is not safe for concurrent use;
// every request creates its own.
type GormUnitOfWork struct {
	db                *gorm.DB
	tx                *gorm.DB
	publishers        []ports.EventPublisher
	logger            logrus.FieldLogger
	trackedAggregates []trackedAggregate
}

// Begin starts the transaction. Calling it again on an open unit of work is a no-op.
func (uow *GormUnitOfWork) Begin(ctx context.Context) error {
	if uow.tx != nil {
		return nil
	}

	uow.tx = uow.db.WithContext(ctx).Begin()
	if uow.tx.Error != nil {
		err := uow.tx.Error
		uow.tx = nil
		return err
	}

	return nil
}

// Commit finalizes the transaction and then publishes the events recorded by the tracked
// aggregates. Publishing failures are logged; the data is already committed.
func (uow *GormUnitOfWork) Commit(ctx context.Context) error {
	if uow.tx == nil {
		return gorm.ErrInvalidTransaction
	}

	err := uow.tx.Commit().Error
	uow.tx = nil
	if err != nil {
		uow.trackedAggregates = uow.trackedAggregates[:0]
		return err
	}

	uow.publish(ctx, uow.pullEvents())
	return nil
}

// Rollback discards the transaction and every tracked aggregate.
// Returns gorm.ErrInvalidTransaction when nothing is open, e.g. after Commit.
func (uow *GormUnitOfWork) Rollback(_ context.Context) error {
	if uow.tx == nil {
		return gorm.ErrInvalidTransaction
	}

	err := uow.tx.Rollback().Error
	uow.tx = nil
	uow.trackedAggregates = uow.trackedAggregates[:0]
	return err
}

func (uow *GormUnitOfWork) OrderRepository() ports.OrderRepository {
	return orderrepo.NewGormOrderRepository(uow.conn(), uow)
}

func (uow *GormUnitOfWork) AssignmentRepository() ports.AssignmentRepository {
	return assignmentrepo.NewGormAssignmentRepository(uow.conn(), uow)
}

func (uow *GormUnitOfWork) IdempotencyKeys() ports.IdempotencyKeyRepository {
	return idempotencyrepo.NewGormIdempotencyKeyRepository(uow.conn())
}

func (uow *GormUnitOfWork) OrderNumbers() ports.OrderNumberSequence {
	return sequencerepo.NewGormOrderNumberSequence(uow.conn())
}

// TrackAggregate registers an aggregate saved within this unit of work. Repositories call
// it after a successful write.
func (uow *GormUnitOfWork) TrackAggregate(id kernel.UUID, aggregate any) {
	uow.trackedAggregates = append(uow.trackedAggregates, trackedAggregate{
		ID:        id,
		Aggregate: aggregate,
	})
}

// conn returns the open transaction, or the pool when no transaction was begun.
func (uow *GormUnitOfWork) conn() *gorm.DB {
	if uow.tx != nil {
		return uow.tx
	}
	return uow.db
}

func (uow *GormUnitOfWork) pullEvents() []kernel.DomainEvent {
	var events []kernel.DomainEvent
	for _, tracked := range uow.trackedAggregates {
		if recorder, ok := tracked.Aggregate.(kernel.EventRecorder); ok {
			events = append(events, recorder.PullEvents()...)
		}
	}
	uow.trackedAggregates = uow.trackedAggregates[:0]
	return events
}

func (uow *GormUnitOfWork) publish(ctx context.Context, events []kernel.DomainEvent) {
	if len(events) == 0 {
		return
	}

	ctx = context.WithoutCancel(ctx)
	for _, p := range uow.publishers {
		if err := p.Publish(ctx, events...); err != nil {
			uow.logger.WithError(err).WithField("events", len(events)).Warn("failed to publish committed events")
		}
	}
}
