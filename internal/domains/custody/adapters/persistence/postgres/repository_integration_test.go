//go:build integration

package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/metalsdesk/admin-api/internal/domains/custody/domain"
	"github.com/metalsdesk/admin-api/internal/domains/custody/ports"
	"github.com/metalsdesk/admin-api/internal/shared/pagination"
)

const (
	testCustodianID   = "3f2f6a1e-9c3b-4d2a-8e5f-1a2b3c4d5e6f"
	testCustodianHome = "9d8c7b6a-5f4e-43d2-a1b0-c9d8e7f6a5b4"
)

func setupCustodyPostgresContainer(t *testing.T) (*gorm.DB, func()) {
	ctx := context.Background()

	pgContainer, err := tcpostgres.RunContainer(ctx,
		testcontainers.WithImage("postgres:15-alpine"),
		tcpostgres.WithDatabase("metalsdesk_test"),
		tcpostgres.WithUsername("test"),
		tcpostgres.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	require.NoError(t, err)

	dsn, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	db, err := gorm.Open(gormpostgres.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	cleanup := func() {
		sqlDB, _ := db.DB()
		if sqlDB != nil {
			sqlDB.Close()
		}
		pgContainer.Terminate(ctx)
	}

	return db, cleanup
}

func seedLookups(t *testing.T, db *gorm.DB) {
	t.Helper()
	require.NoError(t, db.Create(&custodianRecord{ID: testCustodianID, Name: "Zurich Bullion Vaults"}).Error)
	require.NoError(t, db.Create(&custodianRecord{ID: testCustodianHome, Name: "Home Delivery Desk"}).Error)
	require.NoError(t, db.Create(&currencyRecord{Code: "CHF", Name: "Swiss Franc"}).Error)
}

func newService(t *testing.T, custodianID, name string) *domain.CustodyService {
	t.Helper()
	fee := decimal.RequireFromString("0.5")
	svc, err := domain.NewCustodyService(domain.CreateRequest{
		CustodianID:      custodianID,
		Name:             name,
		Fee:              &fee,
		PaymentFrequency: "annual",
		Currency:         "CHF",
	})
	require.NoError(t, err)
	return svc
}

func TestRepository_CreateAndFindByID(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupCustodyPostgresContainer(t)
	defer cleanup()

	repo := NewRepository(db)
	seedLookups(t, db)
	ctx := context.Background()

	currencyID, ok, err := repo.ResolveCurrency(ctx, "chf")
	require.NoError(t, err)
	require.True(t, ok)

	svc := newService(t, testCustodianID, "Premium Vault Storage")
	svc.CurrencyID = currencyID
	created, err := repo.Create(ctx, svc, "ops@metalsdesk.test")
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "Zurich Bullion Vaults", created.CustodianName)
	assert.Equal(t, created.CreatedAt, created.UpdatedAt)

	fetched, err := repo.FindByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, fetched.ID)
	assert.True(t, fetched.Fee.Equal(decimal.RequireFromString("0.5")))
}

func TestRepository_UniqueIndexBacksNameConstraint(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupCustodyPostgresContainer(t)
	defer cleanup()

	repo := NewRepository(db)
	seedLookups(t, db)
	ctx := context.Background()

	_, err := repo.Create(ctx, newService(t, testCustodianID, "Premium Vault Storage"), "test")
	require.NoError(t, err)

	// Same name, different case: the name_key unique index must reject it
	// even when the application-level pre-check is bypassed.
	_, err = repo.Create(ctx, newService(t, testCustodianID, "PREMIUM VAULT STORAGE"), "test")
	assert.Error(t, err)
}

func TestRepository_CanDeleteCountsOpenPositions(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupCustodyPostgresContainer(t)
	defer cleanup()

	repo := NewRepository(db)
	seedLookups(t, db)
	ctx := context.Background()

	created, err := repo.Create(ctx, newService(t, testCustodianID, "Premium Vault Storage"), "test")
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		require.NoError(t, db.Create(&positionRecord{
			ID:               newPositionID(i),
			CustodyServiceID: created.ID,
			Status:           positionStatusOpen,
		}).Error)
	}
	require.NoError(t, db.Create(&positionRecord{
		ID:               newPositionID(99),
		CustodyServiceID: created.ID,
		Status:           "closed",
	}).Error)

	check, err := repo.CanDelete(ctx, created.ID)
	require.NoError(t, err)
	assert.False(t, check.CanDelete)
	assert.Equal(t, int64(3), check.ActivePositions)

	require.NoError(t, db.Where("custody_service_id = ?", created.ID).Delete(&positionRecord{}).Error)
	check, err = repo.CanDelete(ctx, created.ID)
	require.NoError(t, err)
	assert.True(t, check.CanDelete)
}

func TestRepository_DeleteIsIdempotent(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupCustodyPostgresContainer(t)
	defer cleanup()

	repo := NewRepository(db)
	seedLookups(t, db)
	ctx := context.Background()

	created, err := repo.Create(ctx, newService(t, testCustodianID, "Premium Vault Storage"), "test")
	require.NoError(t, err)

	require.NoError(t, repo.Delete(ctx, created.ID, "test"))
	require.NoError(t, repo.Delete(ctx, created.ID, "test"))

	_, err = repo.FindByID(ctx, created.ID)
	assert.ErrorIs(t, err, ports.ErrNotFound)
}

func TestRepository_FindAllPaginatesAndCounts(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupCustodyPostgresContainer(t)
	defer cleanup()

	repo := NewRepository(db)
	seedLookups(t, db)
	ctx := context.Background()

	_, err := repo.Create(ctx, newService(t, testCustodianID, "Allocated Storage"), "test")
	require.NoError(t, err)
	second, err := repo.Create(ctx, newService(t, testCustodianID, "Segregated Storage"), "test")
	require.NoError(t, err)

	items, total, err := repo.FindAll(ctx, ports.ListFilter{}, pagination.PageRequest{Page: 2, Limit: 1})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	require.Len(t, items, 1)
	assert.Equal(t, second.ID, items[0].ID)

	items, total, err = repo.FindAll(ctx, ports.ListFilter{Search: "SEGREGATED"}, pagination.PageRequest{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, items, 1)
}

func TestRepository_FindDefault(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupCustodyPostgresContainer(t)
	defer cleanup()

	repo := NewRepository(db)
	seedLookups(t, db)
	ctx := context.Background()

	_, err := repo.FindDefault(ctx)
	assert.ErrorIs(t, err, ports.ErrNotFound)

	created, err := repo.Create(ctx, newService(t, testCustodianHome, "Home Delivery"), "test")
	require.NoError(t, err)

	def, err := repo.FindDefault(ctx)
	require.NoError(t, err)
	assert.Equal(t, created.ID, def.ID)
}

func newPositionID(i int) string {
	ids := []string{
		"11111111-1111-4111-8111-111111111111",
		"22222222-2222-4222-8222-222222222222",
		"33333333-3333-4333-8333-333333333333",
	}
	if i < len(ids) {
		return ids[i]
	}
	return "99999999-9999-4999-8999-999999999999"
}
