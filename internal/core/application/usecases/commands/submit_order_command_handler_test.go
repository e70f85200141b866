package commands_test

import (
	"errors"
	"testing"
	"time"

	"orderhub/internal/core/application/usecases/commands"
	"orderhub/internal/core/domain/model/kernel"
	"orderhub/internal/core/domain/model/order"
	"orderhub/internal/core/ports"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var anyTime = mock.AnythingOfType("time.Time")

func existingOrder(t *testing.T) *order.Order {
	t.Helper()
	o, err := order.NewOrder(order.Draft{
		ID:        kernel.NewUUID(),
		Number:    7,
		Type:      order.Pickup,
		Channel:   "web",
		Lines:     testLines(t),
		CreatedAt: time.Now().UTC(),
	})
	require.NoError(t, err)
	return o
}

func TestSubmitOrderCommandHandler_Handle_Success(t *testing.T) {
	ctx := t.Context()
	cmd, err := commands.NewSubmitOrderCommand(order.DineIn, table(5), "pos", testLines(t), "", "")
	require.NoError(t, err)

	repo := new(MockOrderRepository)
	numbers := new(MockOrderNumbers)
	uow := new(MockUoW)
	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("OrderNumbers").Return(numbers).Once(),
		numbers.On("Next", ctx).Return(order.Number(1), nil).Once(),
		uow.On("OrderRepository").Return(repo).Once(),
		repo.On("Add", ctx, mock.AnythingOfType("*order.Order")).Return(nil).Once(),
		uow.On("Commit", ctx).Return(nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockSubmitOrderUoWFactory)
	factory.On("Create").Return(uow).Once()

	h := commands.NewSubmitOrderCommandHandler(factory, 24*time.Hour)
	result, err := h.Handle(ctx, cmd)
	require.NoError(t, err)

	assert.False(t, result.Replayed)
	assert.Equal(t, "#0001", result.Order.Number().String())
	assert.Equal(t, order.Pending, result.Order.Status())
	assert.Equal(t, kernel.Money(1300), result.Order.Total())
	require.Len(t, result.Order.Lines(), 2)
	assert.Equal(t, "A", result.Order.Lines()[0].ItemID())
	repo.AssertExpectations(t)
	numbers.AssertExpectations(t)
	uow.AssertExpectations(t)
	factory.AssertExpectations(t)
}

func TestSubmitOrderCommandHandler_Handle_NewIdempotencyKey(t *testing.T) {
	ctx := t.Context()
	cmd, err := commands.NewSubmitOrderCommand(order.Pickup, nil, "web", testLines(t), "", "retry-1")
	require.NoError(t, err)

	repo := new(MockOrderRepository)
	numbers := new(MockOrderNumbers)
	keys := new(MockIdempotencyKeys)
	uow := new(MockUoW)
	uow.On("IdempotencyKeys").Return(keys)
	uow.On("OrderRepository").Return(repo)
	uow.On("OrderNumbers").Return(numbers)
	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		keys.On("Find", ctx, "retry-1", anyTime).Return(kernel.UUID{}, false, nil).Once(),
		numbers.On("Next", ctx).Return(order.Number(12), nil).Once(),
		repo.On("Add", ctx, mock.AnythingOfType("*order.Order")).Return(nil).Once(),
		keys.On("Reserve", ctx, "retry-1", mock.AnythingOfType("kernel.UUID"), anyTime).Return(nil).Once(),
		uow.On("Commit", ctx).Return(nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockSubmitOrderUoWFactory)
	factory.On("Create").Return(uow).Once()

	result, err := commands.NewSubmitOrderCommandHandler(factory, time.Hour).Handle(ctx, cmd)
	require.NoError(t, err)

	assert.False(t, result.Replayed)
	assert.Equal(t, order.Number(12), result.Order.Number())
	keys.AssertExpectations(t)
	repo.AssertExpectations(t)
	uow.AssertExpectations(t)
}

func TestSubmitOrderCommandHandler_Handle_ReplaysKnownKey(t *testing.T) {
	ctx := t.Context()
	cmd, err := commands.NewSubmitOrderCommand(order.Pickup, nil, "web", testLines(t), "", "retry-1")
	require.NoError(t, err)
	previous := existingOrder(t)

	repo := new(MockOrderRepository)
	keys := new(MockIdempotencyKeys)
	uow := new(MockUoW)
	uow.On("IdempotencyKeys").Return(keys)
	uow.On("OrderRepository").Return(repo)
	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		keys.On("Find", ctx, "retry-1", anyTime).Return(previous.ID(), true, nil).Once(),
		repo.On("Get", ctx, previous.ID()).Return(previous, nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockSubmitOrderUoWFactory)
	factory.On("Create").Return(uow).Once()

	result, err := commands.NewSubmitOrderCommandHandler(factory, time.Hour).Handle(ctx, cmd)
	require.NoError(t, err)

	assert.True(t, result.Replayed)
	assert.Same(t, previous, result.Order)
	uow.AssertNotCalled(t, "OrderNumbers")
	uow.AssertNotCalled(t, "Commit", ctx)
	repo.AssertNotCalled(t, "Add", mock.Anything, mock.Anything)
}

func TestSubmitOrderCommandHandler_Handle_ConcurrentKeyReturnsWinner(t *testing.T) {
	ctx := t.Context()
	cmd, err := commands.NewSubmitOrderCommand(order.Pickup, nil, "web", testLines(t), "", "retry-1")
	require.NoError(t, err)
	winner := existingOrder(t)

	repo := new(MockOrderRepository)
	numbers := new(MockOrderNumbers)
	keys := new(MockIdempotencyKeys)

	loser := new(MockUoW)
	loser.On("IdempotencyKeys").Return(keys)
	loser.On("OrderRepository").Return(repo)
	loser.On("OrderNumbers").Return(numbers)

	rereader := new(MockUoW)
	rereader.On("IdempotencyKeys").Return(keys)
	rereader.On("OrderRepository").Return(repo)

	factory := new(MockSubmitOrderUoWFactory)
	mock.InOrder(
		factory.On("Create").Return(loser).Once(),
		loser.On("Begin", ctx).Return(nil).Once(),
		keys.On("Find", ctx, "retry-1", anyTime).Return(kernel.UUID{}, false, nil).Once(),
		numbers.On("Next", ctx).Return(order.Number(3), nil).Once(),
		repo.On("Add", ctx, mock.AnythingOfType("*order.Order")).Return(nil).Once(),
		keys.On("Reserve", ctx, "retry-1", mock.AnythingOfType("kernel.UUID"), anyTime).Return(ports.ErrIdempotencyKeyTaken).Once(),
		loser.On("Rollback", ctx).Return(nil).Once(),
		factory.On("Create").Return(rereader).Once(),
		rereader.On("Begin", ctx).Return(nil).Once(),
		keys.On("Find", ctx, "retry-1", anyTime).Return(winner.ID(), true, nil).Once(),
		repo.On("Get", ctx, winner.ID()).Return(winner, nil).Once(),
		rereader.On("Commit", ctx).Return(nil).Once(),
		rereader.On("Rollback", ctx).Return(nil).Once(),
	)

	result, err := commands.NewSubmitOrderCommandHandler(factory, time.Hour).Handle(ctx, cmd)
	require.NoError(t, err)

	assert.True(t, result.Replayed)
	assert.True(t, winner.ID().IsEqual(result.Order.ID()))
	loser.AssertNotCalled(t, "Commit", ctx)
	factory.AssertExpectations(t)
	keys.AssertExpectations(t)
}

func TestSubmitOrderCommandHandler_Handle_ValidationError(t *testing.T) {
	factory := new(MockSubmitOrderUoWFactory)
	h := commands.NewSubmitOrderCommandHandler(factory, time.Hour)

	_, err := h.Handle(t.Context(), commands.SubmitOrderCommand{})

	require.ErrorIs(t, err, commands.ErrSubmitOrderCommandIsNotConstructed)
	factory.AssertNotCalled(t, "Create")
}

func TestSubmitOrderCommandHandler_Handle_BeginError(t *testing.T) {
	ctx := t.Context()
	cmd, _ := commands.NewSubmitOrderCommand(order.Pickup, nil, "web", testLines(t), "", "")

	uow := new(MockUoW)
	factory := new(MockSubmitOrderUoWFactory)
	mock.InOrder(
		factory.On("Create").Return(uow).Once(),
		uow.On("Begin", ctx).Return(errors.New("begin error")).Once(),
	)

	_, err := commands.NewSubmitOrderCommandHandler(factory, time.Hour).Handle(ctx, cmd)
	require.EqualError(t, err, "begin error")
}

func TestSubmitOrderCommandHandler_Handle_AddErrorDoesNotCommit(t *testing.T) {
	ctx := t.Context()
	cmd, _ := commands.NewSubmitOrderCommand(order.Pickup, nil, "web", testLines(t), "", "")

	repo := new(MockOrderRepository)
	numbers := new(MockOrderNumbers)
	uow := new(MockUoW)
	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("OrderNumbers").Return(numbers).Once(),
		numbers.On("Next", ctx).Return(order.Number(9), nil).Once(),
		uow.On("OrderRepository").Return(repo).Once(),
		repo.On("Add", ctx, mock.Anything).Return(errors.New("add error")).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)
	factory := new(MockSubmitOrderUoWFactory)
	factory.On("Create").Return(uow).Once()

	_, err := commands.NewSubmitOrderCommandHandler(factory, time.Hour).Handle(ctx, cmd)

	require.EqualError(t, err, "add error")
	uow.AssertNotCalled(t, "Commit", ctx)
	uow.AssertExpectations(t)
}
