package repository

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	saDomain "github.com/allisson/authgate/internal/serviceaccount/domain"
	"github.com/allisson/authgate/internal/testutil"
)

func TestMySQLServiceAccountRepository_Get_NotFound(t *testing.T) {
	testutil.SkipIfNoMySQL(t)

	db := testutil.SetupMySQLDB(t)
	defer testutil.TeardownDB(t, db)
	defer testutil.CleanupMySQLDB(t, db)

	repo := NewMySQLServiceAccountRepository(db)

	_, err := repo.GetByID(context.Background(), uuid.Must(uuid.NewV7()))
	require.ErrorIs(t, err, saDomain.ErrServiceAccountNotFound)
}

func TestNewMySQLServiceAccountRepository(t *testing.T) {
	testutil.SkipIfNoMySQL(t)

	db := testutil.SetupMySQLDB(t)
	defer testutil.TeardownDB(t, db)

	repo := NewMySQLServiceAccountRepository(db)
	assert.NotNil(t, repo)
	assert.IsType(t, &MySQLServiceAccountRepository{}, repo)
}

func TestMySQLServiceAccountRepository_CreateAndGet(t *testing.T) {
	testutil.SkipIfNoMySQL(t)

	db := testutil.SetupMySQLDB(t)
	defer testutil.TeardownDB(t, db)
	defer testutil.CleanupMySQLDB(t, db)

	repo := NewMySQLServiceAccountRepository(db)
	ctx := context.Background()

	account := newTestServiceAccount("billing-service")
	require.NoError(t, repo.Create(ctx, account))

	retrieved, err := repo.GetByID(ctx, account.ID)
	require.NoError(t, err)

	assert.Equal(t, account.ID, retrieved.ID)
	assert.Equal(t, "billing-service", retrieved.ServiceName)
	assert.Equal(t, account.APIKeyHash, retrieved.APIKeyHash)
	assert.True(t, retrieved.Active)
	assert.Nil(t, retrieved.LastUsedAt)
	assert.Nil(t, retrieved.RevokedAt)

	byName, err := repo.GetByServiceName(ctx, "billing-service")
	require.NoError(t, err)
	assert.Equal(t, account.ID, byName.ID)

	_, err = repo.GetByServiceName(ctx, "ghost-service")
	require.ErrorIs(t, err, saDomain.ErrServiceAccountNotFound)
}

func TestMySQLServiceAccountRepository_Create_DuplicateServiceName(t *testing.T) {
	testutil.SkipIfNoMySQL(t)

	db := testutil.SetupMySQLDB(t)
	defer testutil.TeardownDB(t, db)
	defer testutil.CleanupMySQLDB(t, db)

	repo := NewMySQLServiceAccountRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, newTestServiceAccount("billing-service")))

	err := repo.Create(ctx, newTestServiceAccount("billing-service"))
	require.ErrorIs(t, err, saDomain.ErrServiceNameExists)
}

func TestMySQLServiceAccountRepository_Update(t *testing.T) {
	testutil.SkipIfNoMySQL(t)

	db := testutil.SetupMySQLDB(t)
	defer testutil.TeardownDB(t, db)
	defer testutil.CleanupMySQLDB(t, db)

	repo := NewMySQLServiceAccountRepository(db)
	ctx := context.Background()

	account := newTestServiceAccount("billing-service")
	require.NoError(t, repo.Create(ctx, account))

	revokedAt := time.Now().UTC()
	account.Active = false
	account.RevokedAt = &revokedAt
	require.NoError(t, repo.Update(ctx, account))

	retrieved, err := repo.GetByID(ctx, account.ID)
	require.NoError(t, err)
	assert.False(t, retrieved.Active)
	require.NotNil(t, retrieved.RevokedAt)
	assert.WithinDuration(t, revokedAt, *retrieved.RevokedAt, time.Second)
}

func TestMySQLServiceAccountRepository_ListActive(t *testing.T) {
	testutil.SkipIfNoMySQL(t)

	db := testutil.SetupMySQLDB(t)
	defer testutil.TeardownDB(t, db)
	defer testutil.CleanupMySQLDB(t, db)

	repo := NewMySQLServiceAccountRepository(db)
	ctx := context.Background()

	active := newTestServiceAccount("active-service")
	inactive := newTestServiceAccount("inactive-service")
	inactive.Active = false

	require.NoError(t, repo.Create(ctx, active))
	require.NoError(t, repo.Create(ctx, inactive))

	accounts, err := repo.ListActive(ctx)
	require.NoError(t, err)
	require.Len(t, accounts, 1)
	assert.Equal(t, "active-service", accounts[0].ServiceName)
}

func TestMySQLServiceAccountRepository_List(t *testing.T) {
	testutil.SkipIfNoMySQL(t)

	db := testutil.SetupMySQLDB(t)
	defer testutil.TeardownDB(t, db)
	defer testutil.CleanupMySQLDB(t, db)

	repo := NewMySQLServiceAccountRepository(db)
	ctx := context.Background()

	first := newTestServiceAccount("service-1")
	second := newTestServiceAccount("service-2")
	second.CreatedAt = first.CreatedAt.Add(time.Second)

	require.NoError(t, repo.Create(ctx, first))
	require.NoError(t, repo.Create(ctx, second))

	accounts, err := repo.List(ctx, 0, 10)
	require.NoError(t, err)
	require.Len(t, accounts, 2)
	assert.Equal(t, "service-2", accounts[0].ServiceName)
	assert.Equal(t, "service-1", accounts[1].ServiceName)

	accounts, err = repo.List(ctx, 10, 10)
	require.NoError(t, err)
	assert.NotNil(t, accounts)
	assert.Len(t, accounts, 0)
}

func TestMySQLServiceAccountRepository_UpdateLastUsed(t *testing.T) {
	testutil.SkipIfNoMySQL(t)

	db := testutil.SetupMySQLDB(t)
	defer testutil.TeardownDB(t, db)
	defer testutil.CleanupMySQLDB(t, db)

	repo := NewMySQLServiceAccountRepository(db)
	ctx := context.Background()

	account := newTestServiceAccount("billing-service")
	require.NoError(t, repo.Create(ctx, account))

	usedAt := time.Now().UTC()
	require.NoError(t, repo.UpdateLastUsed(ctx, account.ID, usedAt))

	retrieved, err := repo.GetByID(ctx, account.ID)
	require.NoError(t, err)
	require.NotNil(t, retrieved.LastUsedAt)
	assert.WithinDuration(t, usedAt, *retrieved.LastUsedAt, time.Second)
}
