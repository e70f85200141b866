package idempotencyrepo_test

import (
	"path/filepath"
	"testing"
	"time"

	"orderhub/internal/adapters/out/postgres/idempotencyrepo"
	"orderhub/internal/core/domain/model/kernel"
	"orderhub/internal/core/ports"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newRepository(t *testing.T) *idempotencyrepo.GormIdempotencyKeyRepository {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "keys.db")), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&idempotencyrepo.IdempotencyKeyDTO{}))
	return idempotencyrepo.NewGormIdempotencyKeyRepository(db)
}

func TestGormIdempotencyKeyRepository_ReserveAndFind(t *testing.T) {
	ctx := t.Context()
	repo := newRepository(t)
	now := time.Now().UTC()
	orderID := kernel.NewUUID()

	_, found, err := repo.Find(ctx, "k-1", now.Add(-time.Hour))
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, repo.Reserve(ctx, "k-1", orderID, now))

	got, found, err := repo.Find(ctx, "k-1", now.Add(-time.Hour))
	require.NoError(t, err)
	assert.True(t, found)
	assert.True(t, orderID.IsEqual(got))
}

func TestGormIdempotencyKeyRepository_Reserve_Taken(t *testing.T) {
	ctx := t.Context()
	repo := newRepository(t)
	now := time.Now().UTC()

	require.NoError(t, repo.Reserve(ctx, "k-1", kernel.NewUUID(), now))
	err := repo.Reserve(ctx, "k-1", kernel.NewUUID(), now)

	require.ErrorIs(t, err, ports.ErrIdempotencyKeyTaken)
}

func TestGormIdempotencyKeyRepository_Find_ExpiredKeyIsReleased(t *testing.T) {
	ctx := t.Context()
	repo := newRepository(t)
	now := time.Now().UTC()

	require.NoError(t, repo.Reserve(ctx, "old", kernel.NewUUID(), now.Add(-48*time.Hour)))

	_, found, err := repo.Find(ctx, "old", now.Add(-24*time.Hour))
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, repo.Reserve(ctx, "old", kernel.NewUUID(), now))
}

func TestGormIdempotencyKeyRepository_PurgeExpired(t *testing.T) {
	ctx := t.Context()
	repo := newRepository(t)
	now := time.Now().UTC()

	require.NoError(t, repo.Reserve(ctx, "a", kernel.NewUUID(), now.Add(-30*time.Hour)))
	require.NoError(t, repo.Reserve(ctx, "b", kernel.NewUUID(), now.Add(-25*time.Hour)))
	require.NoError(t, repo.Reserve(ctx, "c", kernel.NewUUID(), now))

	removed, err := repo.PurgeExpired(ctx, now.Add(-24*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(2), removed)

	_, found, err := repo.Find(ctx, "c", now.Add(-24*time.Hour))
	require.NoError(t, err)
	assert.True(t, found)
}

func TestGormIdempotencyKeyRepository_EmptyKey(t *testing.T) {
	repo := newRepository(t)

	_, _, err := repo.Find(t.Context(), "", time.Now())
	require.Error(t, err)
	require.Error(t, repo.Reserve(t.Context(), "", kernel.NewUUID(), time.Now()))
}
