package commands_test

import (
	"testing"

	"orderhub/internal/core/application/usecases/commands"
	"orderhub/internal/core/domain/model/assignment"
	"orderhub/internal/core/domain/model/kernel"
	"orderhub/internal/core/domain/model/order"
	"orderhub/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type deliveryFixture struct {
	orders      *MockOrderRepository
	assignments *MockAssignmentRepository
	uow         *MockUoW
	factory     *MockDeliveryUoWFactory
}

func newDeliveryFixture() deliveryFixture {
	f := deliveryFixture{
		orders:      new(MockOrderRepository),
		assignments: new(MockAssignmentRepository),
		uow:         new(MockUoW),
		factory:     new(MockDeliveryUoWFactory),
	}
	f.uow.On("OrderRepository").Return(f.orders)
	f.uow.On("AssignmentRepository").Return(f.assignments)
	f.factory.On("Create").Return(f.uow).Once()
	return f
}

func TestNewDeliveryCommands(t *testing.T) {
	orderID, driverID := kernel.NewUUID(), kernel.NewUUID()

	assign, err := commands.NewAssignDriverCommand(orderID, driverID)
	require.NoError(t, err)
	assert.True(t, orderID.IsEqual(assign.OrderID()))
	assert.True(t, driverID.IsEqual(assign.DriverID()))

	_, err = commands.NewStartDeliveryCommand(orderID, kernel.UUID{})
	assert.True(t, errs.IsValidation(err))

	_, err = commands.NewConfirmDeliveryCommand(kernel.UUID{}, driverID)
	assert.True(t, errs.IsValidation(err))

	report, err := commands.NewReportDeliveryFailureCommand(orderID, driverID, "  flat tyre ")
	require.NoError(t, err)
	assert.Equal(t, "flat tyre", report.Reason())

	_, err = commands.NewReportDeliveryFailureCommand(orderID, driverID, "   ")
	require.ErrorIs(t, err, errs.ErrValueIsRequired)
}

func TestDeliveryCommand_NotConstructedViaConstructor(t *testing.T) {
	f := newDeliveryFixture()
	h := commands.NewAssignDriverCommandHandler(f.factory, coordinator())

	_, err := h.Handle(t.Context(), commands.AssignDriverCommand{})

	require.ErrorIs(t, err, commands.ErrDeliveryCommandIsNotConstructed)
	f.factory.AssertNotCalled(t, "Create")
}

func TestAssignDriverCommandHandler_Handle(t *testing.T) {
	ctx := t.Context()
	o := storedOrder(t, order.Delivery, order.Ready)
	a := storedAssignment(t, o.ID(), assignment.Unassigned, nil)
	driver := kernel.NewUUID()
	cmd, _ := commands.NewAssignDriverCommand(o.ID(), driver)

	f := newDeliveryFixture()
	mock.InOrder(
		f.uow.On("Begin", ctx).Return(nil).Once(),
		f.orders.On("Get", ctx, o.ID()).Return(o, nil).Once(),
		f.assignments.On("Get", ctx, o.ID()).Return(a, nil).Once(),
		f.assignments.On("Update", ctx, a).Return(nil).Once(),
		f.uow.On("Commit", ctx).Return(nil).Once(),
		f.uow.On("Rollback", ctx).Return(nil).Once(),
	)

	result, err := commands.NewAssignDriverCommandHandler(f.factory, coordinator()).Handle(ctx, cmd)
	require.NoError(t, err)

	assert.Equal(t, assignment.Assigned, result.Assignment.Status())
	assert.True(t, result.Assignment.IsHeldBy(driver))
	assert.Equal(t, order.Ready, result.Order.Status())
	f.orders.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	f.assignments.AssertExpectations(t)
	f.uow.AssertExpectations(t)
}

func TestAssignDriverCommandHandler_Handle_AlreadyAssigned(t *testing.T) {
	ctx := t.Context()
	o := storedOrder(t, order.Delivery, order.Ready)
	holder := kernel.NewUUID()
	a := storedAssignment(t, o.ID(), assignment.Assigned, &holder)
	cmd, _ := commands.NewAssignDriverCommand(o.ID(), kernel.NewUUID())

	f := newDeliveryFixture()
	f.uow.On("Begin", ctx).Return(nil).Once()
	f.uow.On("Rollback", ctx).Return(nil).Once()
	f.orders.On("Get", ctx, o.ID()).Return(o, nil).Once()
	f.assignments.On("Get", ctx, o.ID()).Return(a, nil).Once()

	_, err := commands.NewAssignDriverCommandHandler(f.factory, coordinator()).Handle(ctx, cmd)

	require.ErrorIs(t, err, assignment.ErrAlreadyAssigned)
	assert.True(t, a.IsHeldBy(holder))
	f.uow.AssertNotCalled(t, "Commit", ctx)
}

func TestAssignDriverCommandHandler_Handle_NoAssignmentMeansNotReady(t *testing.T) {
	ctx := t.Context()
	o := storedOrder(t, order.Delivery, order.Preparing)
	cmd, _ := commands.NewAssignDriverCommand(o.ID(), kernel.NewUUID())

	f := newDeliveryFixture()
	f.uow.On("Begin", ctx).Return(nil).Once()
	f.uow.On("Rollback", ctx).Return(nil).Once()
	f.orders.On("Get", ctx, o.ID()).Return(o, nil).Once()
	f.assignments.On("Get", ctx, o.ID()).Return(nil, errs.NewObjectNotFoundError("order_id", o.ID())).Once()

	_, err := commands.NewAssignDriverCommandHandler(f.factory, coordinator()).Handle(ctx, cmd)

	require.ErrorIs(t, err, assignment.ErrOrderNotReady)
	require.ErrorIs(t, err, errs.ErrStateConflict)
}

func TestAssignDriverCommandHandler_Handle_UnknownOrder(t *testing.T) {
	ctx := t.Context()
	id := kernel.NewUUID()
	cmd, _ := commands.NewAssignDriverCommand(id, kernel.NewUUID())

	f := newDeliveryFixture()
	f.uow.On("Begin", ctx).Return(nil).Once()
	f.uow.On("Rollback", ctx).Return(nil).Once()
	f.orders.On("Get", ctx, id).Return(nil, errs.NewObjectNotFoundError("order_id", id)).Once()

	_, err := commands.NewAssignDriverCommandHandler(f.factory, coordinator()).Handle(ctx, cmd)

	require.ErrorIs(t, err, errs.ErrObjectNotFound)
	f.assignments.AssertNotCalled(t, "Get", mock.Anything, mock.Anything)
}

func TestStartDeliveryCommandHandler_Handle(t *testing.T) {
	ctx := t.Context()
	o := storedOrder(t, order.Delivery, order.Ready)
	driver := kernel.NewUUID()
	a := storedAssignment(t, o.ID(), assignment.Assigned, &driver)
	cmd, _ := commands.NewStartDeliveryCommand(o.ID(), driver)

	f := newDeliveryFixture()
	mock.InOrder(
		f.uow.On("Begin", ctx).Return(nil).Once(),
		f.orders.On("Get", ctx, o.ID()).Return(o, nil).Once(),
		f.assignments.On("Get", ctx, o.ID()).Return(a, nil).Once(),
		f.assignments.On("Update", ctx, a).Return(nil).Once(),
		f.uow.On("Commit", ctx).Return(nil).Once(),
		f.uow.On("Rollback", ctx).Return(nil).Once(),
	)

	result, err := commands.NewStartDeliveryCommandHandler(f.factory, coordinator()).Handle(ctx, cmd)
	require.NoError(t, err)

	assert.Equal(t, assignment.EnRoute, result.Assignment.Status())
	f.uow.AssertExpectations(t)
}

func TestStartDeliveryCommandHandler_Handle_RepeatWritesNothing(t *testing.T) {
	ctx := t.Context()
	o := storedOrder(t, order.Delivery, order.Ready)
	driver := kernel.NewUUID()
	a := storedAssignment(t, o.ID(), assignment.EnRoute, &driver)
	cmd, _ := commands.NewStartDeliveryCommand(o.ID(), driver)

	f := newDeliveryFixture()
	mock.InOrder(
		f.uow.On("Begin", ctx).Return(nil).Once(),
		f.orders.On("Get", ctx, o.ID()).Return(o, nil).Once(),
		f.assignments.On("Get", ctx, o.ID()).Return(a, nil).Once(),
		f.uow.On("Commit", ctx).Return(nil).Once(),
		f.uow.On("Rollback", ctx).Return(nil).Once(),
	)

	result, err := commands.NewStartDeliveryCommandHandler(f.factory, coordinator()).Handle(ctx, cmd)
	require.NoError(t, err)

	assert.Equal(t, assignment.EnRoute, result.Assignment.Status())
	f.assignments.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestConfirmDeliveryCommandHandler_Handle(t *testing.T) {
	ctx := t.Context()
	o := storedOrder(t, order.Delivery, order.Ready)
	driver := kernel.NewUUID()
	a := storedAssignment(t, o.ID(), assignment.EnRoute, &driver)
	cmd, _ := commands.NewConfirmDeliveryCommand(o.ID(), driver)

	f := newDeliveryFixture()
	mock.InOrder(
		f.uow.On("Begin", ctx).Return(nil).Once(),
		f.orders.On("Get", ctx, o.ID()).Return(o, nil).Once(),
		f.assignments.On("Get", ctx, o.ID()).Return(a, nil).Once(),
		f.assignments.On("Update", ctx, a).Return(nil).Once(),
		f.orders.On("Update", ctx, o).Return(nil).Once(),
		f.uow.On("Commit", ctx).Return(nil).Once(),
		f.uow.On("Rollback", ctx).Return(nil).Once(),
	)

	result, err := commands.NewConfirmDeliveryCommandHandler(f.factory, coordinator()).Handle(ctx, cmd)
	require.NoError(t, err)

	assert.Equal(t, assignment.Delivered, result.Assignment.Status())
	assert.Equal(t, order.Delivered, result.Order.Status())
	f.orders.AssertExpectations(t)
	f.assignments.AssertExpectations(t)
}

func TestConfirmDeliveryCommandHandler_Handle_WrongDriver(t *testing.T) {
	ctx := t.Context()
	o := storedOrder(t, order.Delivery, order.Ready)
	driver := kernel.NewUUID()
	a := storedAssignment(t, o.ID(), assignment.EnRoute, &driver)
	cmd, _ := commands.NewConfirmDeliveryCommand(o.ID(), kernel.NewUUID())

	f := newDeliveryFixture()
	f.uow.On("Begin", ctx).Return(nil).Once()
	f.uow.On("Rollback", ctx).Return(nil).Once()
	f.orders.On("Get", ctx, o.ID()).Return(o, nil).Once()
	f.assignments.On("Get", ctx, o.ID()).Return(a, nil).Once()

	_, err := commands.NewConfirmDeliveryCommandHandler(f.factory, coordinator()).Handle(ctx, cmd)

	require.ErrorIs(t, err, assignment.ErrNotAssignedToDriver)
	assert.Equal(t, order.Ready, o.Status())
	assert.Equal(t, assignment.EnRoute, a.Status())
	f.uow.AssertNotCalled(t, "Commit", ctx)
}

func TestReportDeliveryFailureCommandHandler_Handle(t *testing.T) {
	ctx := t.Context()
	o := storedOrder(t, order.Delivery, order.Ready)
	driver := kernel.NewUUID()
	a := storedAssignment(t, o.ID(), assignment.EnRoute, &driver)
	cmd, _ := commands.NewReportDeliveryFailureCommand(o.ID(), driver, "customer unreachable")

	f := newDeliveryFixture()
	mock.InOrder(
		f.uow.On("Begin", ctx).Return(nil).Once(),
		f.orders.On("Get", ctx, o.ID()).Return(o, nil).Once(),
		f.assignments.On("Get", ctx, o.ID()).Return(a, nil).Once(),
		f.assignments.On("Update", ctx, a).Return(nil).Once(),
		f.uow.On("Commit", ctx).Return(nil).Once(),
		f.uow.On("Rollback", ctx).Return(nil).Once(),
	)

	result, err := commands.NewReportDeliveryFailureCommandHandler(f.factory, coordinator()).Handle(ctx, cmd)
	require.NoError(t, err)

	assert.Equal(t, assignment.Failed, result.Assignment.Status())
	assert.Equal(t, "customer unreachable", result.Assignment.FailureReason())
	assert.Equal(t, order.Ready, result.Order.Status())
	f.orders.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}
