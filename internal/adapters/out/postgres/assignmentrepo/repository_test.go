package assignmentrepo_test

import (
	"path/filepath"
	"testing"
	"time"

	"orderhub/internal/adapters/out/postgres/assignmentrepo"
	"orderhub/internal/core/domain/model/assignment"
	"orderhub/internal/core/domain/model/kernel"
	"orderhub/internal/core/domain/model/order"
	"orderhub/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type MockAggregateTracker struct {
	mock.Mock
}

func (m *MockAggregateTracker) TrackAggregate(id kernel.UUID, aggregate any) {
	m.Called(id, aggregate)
}

func newRepository(t *testing.T) *assignmentrepo.GormAssignmentRepository {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "assignments.db")), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&assignmentrepo.AssignmentDTO{}))

	tracker := new(MockAggregateTracker)
	tracker.On("TrackAggregate", mock.Anything, mock.Anything)
	return assignmentrepo.NewGormAssignmentRepository(db, tracker)
}

func TestGormAssignmentRepository_Lifecycle(t *testing.T) {
	ctx := t.Context()
	repo := newRepository(t)
	now := time.Date(2026, 10, 17, 18, 30, 0, 0, time.UTC)

	a, err := assignment.NewAssignment(kernel.NewUUID(), now)
	require.NoError(t, err)
	require.NoError(t, repo.Add(ctx, a))

	stored, err := repo.Get(ctx, a.OrderID())
	require.NoError(t, err)
	assert.Equal(t, assignment.Unassigned, stored.Status())
	assert.Nil(t, stored.DriverID())

	driver := kernel.NewUUID()
	require.NoError(t, stored.Assign(driver, now.Add(time.Minute)))
	require.NoError(t, repo.Update(ctx, stored))

	reloaded, err := repo.Get(ctx, a.OrderID())
	require.NoError(t, err)
	assert.Equal(t, assignment.Assigned, reloaded.Status())
	assert.True(t, reloaded.IsHeldBy(driver))
	assert.Equal(t, 2, reloaded.Version())

	require.NoError(t, reloaded.ReportFailure(driver, "wrong address", now.Add(2*time.Minute)))
	require.NoError(t, repo.Update(ctx, reloaded))

	failed, err := repo.Get(ctx, a.OrderID())
	require.NoError(t, err)
	assert.Equal(t, assignment.Failed, failed.Status())
	assert.Equal(t, "wrong address", failed.FailureReason())
}

func TestGormAssignmentRepository_Add_Twice(t *testing.T) {
	ctx := t.Context()
	repo := newRepository(t)
	orderID := kernel.NewUUID()

	first, _ := assignment.NewAssignment(orderID, time.Now().UTC())
	second, _ := assignment.NewAssignment(orderID, time.Now().UTC())
	require.NoError(t, repo.Add(ctx, first))

	require.ErrorIs(t, repo.Add(ctx, second), errs.ErrStateConflict)
}

func TestGormAssignmentRepository_Get_NotFound(t *testing.T) {
	_, err := newRepository(t).Get(t.Context(), kernel.NewUUID())

	require.ErrorIs(t, err, errs.ErrObjectNotFound)
}

func TestGormAssignmentRepository_Update_StaleVersion(t *testing.T) {
	ctx := t.Context()
	repo := newRepository(t)
	a, _ := assignment.NewAssignment(kernel.NewUUID(), time.Now().UTC())
	require.NoError(t, repo.Add(ctx, a))

	first, err := repo.Get(ctx, a.OrderID())
	require.NoError(t, err)
	second, err := repo.Get(ctx, a.OrderID())
	require.NoError(t, err)

	winner := kernel.NewUUID()
	require.NoError(t, first.Assign(winner, time.Now().UTC()))
	require.NoError(t, repo.Update(ctx, first))

	require.NoError(t, second.Assign(kernel.NewUUID(), time.Now().UTC()))
	require.ErrorIs(t, repo.Update(ctx, second), order.ErrConcurrentModification)

	stored, err := repo.Get(ctx, a.OrderID())
	require.NoError(t, err)
	assert.True(t, stored.IsHeldBy(winner))
}
