package postgres_adapter

import (
	"context"
	"errors"
	"listings-service/internal/core/domain"
	"os"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStoreError(t *testing.T) {
	t.Run("connection problems are reported as store unavailable", func(t *testing.T) {
		err := storeError("failed to find listings", errors.New("dial tcp: connection refused"))
		assert.ErrorIs(t, err, domain.ErrStoreUnavailable)
	})

	t.Run("already wrapped error is not wrapped twice", func(t *testing.T) {
		inner := storeError("acquire", errors.New("timeout"))
		err := storeError("failed to create listing", inner)
		assert.ErrorIs(t, err, domain.ErrStoreUnavailable)
	})

	t.Run("statement rejected by postgres keeps pg error", func(t *testing.T) {
		pgErr := &pgconn.PgError{Code: "23514", Message: "check constraint"}
		err := storeError("failed to create listing", pgErr)

		assert.NotErrorIs(t, err, domain.ErrStoreUnavailable)
		var got *pgconn.PgError
		require.True(t, errors.As(err, &got))
		assert.Equal(t, "23514", got.Code)
	})
}

func TestMigrationsAreEmbedded(t *testing.T) {
	ddl, err := migrationsFS.ReadFile("migrations/001_create_empresas.sql")
	require.NoError(t, err)
	assert.Contains(t, string(ddl), "CREATE TABLE IF NOT EXISTS empresas")
}

// Интеграционный тест запускается только при заданном LISTINGS_TEST_DATABASE_URL.
func TestListingRepository_Integration(t *testing.T) {
	dsn := os.Getenv("LISTINGS_TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("LISTINGS_TEST_DATABASE_URL is not set")
	}

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	_, err = ApplySchema(ctx, pool)
	require.NoError(t, err)

	repo, err := NewListingRepository(pool, 5*time.Second)
	require.NoError(t, err)
	require.NoError(t, repo.Ping(ctx))

	employees := 4
	fields := domain.ListingFields{
		Name:           "Panadería Test",
		ContactEmail:   "owner@example.com",
		Activity:       "Comercio",
		Sector:         "Alimentación",
		Country:        "España",
		Location:       "Integración-" + time.Now().Format("150405.000000"),
		Description:    "Horno propio",
		Revenue:        120000,
		Employees:      &employees,
		PropertyStatus: domain.PropertyLeased,
		SalePrice:      80000,
	}

	id, err := repo.Create(ctx, fields, "pan.png")
	require.NoError(t, err)
	require.Positive(t, id)

	got, err := repo.GetByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "pan.png", got.Image)
	assert.Equal(t, fields.Location, got.Location)
	require.NotNil(t, got.Employees)
	assert.Equal(t, 4, *got.Employees)
	assert.Nil(t, got.Debt)

	f := domain.NewListingFilter()
	f.Province = fields.Location
	found, err := repo.FindWithFilter(ctx, f)
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, id, found[0].ID)

	fields.SalePrice = 75000
	ok, err := repo.Update(ctx, id, fields, nil)
	require.NoError(t, err)
	assert.True(t, ok)

	got, err = repo.GetByID(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, 75000.0, got.SalePrice)
	assert.Equal(t, "pan.png", got.Image)

	ok, err = repo.Delete(ctx, id)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = repo.Delete(ctx, id)
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = repo.GetByID(ctx, id)
	assert.ErrorIs(t, err, domain.ErrListingNotFound)
}
