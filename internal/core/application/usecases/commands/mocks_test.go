package commands_test

import (
	"context"
	"time"

	"orderhub/internal/core/application/usecases/commands"
	"orderhub/internal/core/domain/model/assignment"
	"orderhub/internal/core/domain/model/kernel"
	"orderhub/internal/core/domain/model/order"
	"orderhub/internal/core/ports"

	"github.com/stretchr/testify/mock"
)

type MockOrderRepository struct{ mock.Mock }

func (m *MockOrderRepository) Add(ctx context.Context, o *order.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *MockOrderRepository) Update(ctx context.Context, o *order.Order) error {
	args := m.Called(ctx, o)
	return args.Error(0)
}

func (m *MockOrderRepository) Get(ctx context.Context, id kernel.UUID) (*order.Order, error) {
	args := m.Called(ctx, id)
	o, _ := args.Get(0).(*order.Order)
	return o, args.Error(1)
}

type MockAssignmentRepository struct{ mock.Mock }

func (m *MockAssignmentRepository) Add(ctx context.Context, a *assignment.DeliveryAssignment) error {
	args := m.Called(ctx, a)
	return args.Error(0)
}

func (m *MockAssignmentRepository) Update(ctx context.Context, a *assignment.DeliveryAssignment) error {
	args := m.Called(ctx, a)
	return args.Error(0)
}

func (m *MockAssignmentRepository) Get(ctx context.Context, orderID kernel.UUID) (*assignment.DeliveryAssignment, error) {
	args := m.Called(ctx, orderID)
	a, _ := args.Get(0).(*assignment.DeliveryAssignment)
	return a, args.Error(1)
}

type MockIdempotencyKeys struct{ mock.Mock }

func (m *MockIdempotencyKeys) Find(ctx context.Context, key string, notBefore time.Time) (kernel.UUID, bool, error) {
	args := m.Called(ctx, key, notBefore)
	return args.Get(0).(kernel.UUID), args.Bool(1), args.Error(2)
}

func (m *MockIdempotencyKeys) Reserve(ctx context.Context, key string, orderID kernel.UUID, at time.Time) error {
	args := m.Called(ctx, key, orderID, at)
	return args.Error(0)
}

func (m *MockIdempotencyKeys) PurgeExpired(ctx context.Context, notBefore time.Time) (int64, error) {
	args := m.Called(ctx, notBefore)
	return args.Get(0).(int64), args.Error(1)
}

type MockOrderNumbers struct{ mock.Mock }

func (m *MockOrderNumbers) Next(ctx context.Context) (order.Number, error) {
	args := m.Called(ctx)
	return args.Get(0).(order.Number), args.Error(1)
}

// MockUoW implements every unit of work flavour used by the handlers.
type MockUoW struct{ mock.Mock }

func (m *MockUoW) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUoW) Commit(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUoW) Rollback(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUoW) OrderRepository() ports.OrderRepository {
	args := m.Called()
	return args.Get(0).(ports.OrderRepository)
}

func (m *MockUoW) AssignmentRepository() ports.AssignmentRepository {
	args := m.Called()
	return args.Get(0).(ports.AssignmentRepository)
}

func (m *MockUoW) IdempotencyKeys() ports.IdempotencyKeyRepository {
	args := m.Called()
	return args.Get(0).(ports.IdempotencyKeyRepository)
}

func (m *MockUoW) OrderNumbers() ports.OrderNumberSequence {
	args := m.Called()
	return args.Get(0).(ports.OrderNumberSequence)
}

type MockSubmitOrderUoWFactory struct{ mock.Mock }

func (m *MockSubmitOrderUoWFactory) Create() commands.SubmitOrderUoW {
	args := m.Called()
	return args.Get(0).(commands.SubmitOrderUoW)
}

type MockDeliveryUoWFactory struct{ mock.Mock }

func (m *MockDeliveryUoWFactory) Create() commands.DeliveryUoW {
	args := m.Called()
	return args.Get(0).(commands.DeliveryUoW)
}

type MockIdempotencyUoWFactory struct{ mock.Mock }

func (m *MockIdempotencyUoWFactory) Create() commands.IdempotencyUoW {
	args := m.Called()
	return args.Get(0).(commands.IdempotencyUoW)
}
