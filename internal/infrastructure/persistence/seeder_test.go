package persistence

import (
	"context"
	"testing"

	"github.com/storefront/backend/internal/domain/identity"
	"github.com/storefront/backend/internal/domain/shared"
	"github.com/storefront/backend/internal/infrastructure/persistence/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestSeed(t *testing.T) {
	ctx := context.Background()
	db := newSQLiteDB(t)
	opts := SeedOptions{
		AdminEmail:    "Admin@Shop.io",
		AdminPassword: "adminpass1",
		DemoProducts:  8,
		RandSeed:      42,
	}

	result, err := Seed(ctx, db, opts, zap.NewNop())
	require.NoError(t, err)
	assert.True(t, result.AdminCreated)
	assert.Equal(t, 8, result.ProductsCreated)
	assert.Equal(t, int64(8), countRows(t, db, &models.ProductModel{}))

	admin, err := NewGormUserRepository(db).FindByEmail(ctx, "admin@shop.io")
	require.NoError(t, err)
	assert.Equal(t, identity.RoleAdmin, admin.Role)
	assert.True(t, admin.VerifyPassword("adminpass1"))

	t.Run("re-running inserts nothing", func(t *testing.T) {
		again, err := Seed(ctx, db, opts, zap.NewNop())
		require.NoError(t, err)
		assert.False(t, again.AdminCreated)
		assert.Zero(t, again.ProductsCreated)
		assert.Equal(t, int64(8), countRows(t, db, &models.ProductModel{}))
		assert.Equal(t, int64(1), countRows(t, db, &models.UserModel{}))
	})
}

func TestSeed_RejectsWeakAdminPassword(t *testing.T) {
	db := newSQLiteDB(t)

	_, err := Seed(context.Background(), db, SeedOptions{
		AdminEmail:    "admin@shop.io",
		AdminPassword: "short",
	}, zap.NewNop())
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "INVALID_PASSWORD", domainErr.Code)
}

func TestSeed_SameRandSeedSameCatalog(t *testing.T) {
	ctx := context.Background()
	titles := func() []string {
		db := newSQLiteDB(t)
		_, err := Seed(ctx, db, SeedOptions{DemoProducts: 3, RandSeed: 7}, zap.NewNop())
		require.NoError(t, err)
		var out []string
		require.NoError(t, db.Model(&models.ProductModel{}).Order("id").Pluck("title", &out).Error)
		return out
	}

	assert.Equal(t, titles(), titles())
}
