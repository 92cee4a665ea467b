// Package catalogtest seeds an in-memory sqlite catalog for package tests.
package catalogtest

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/angelmondragon/pricepal-backend/pkg/db/models"
	"github.com/angelmondragon/pricepal-backend/pkg/enums"
	"github.com/angelmondragon/pricepal-backend/pkg/migrate"
	"github.com/angelmondragon/pricepal-backend/pkg/types"
)

// OpenDB returns an isolated sqlite database with the full schema applied.
func OpenDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{SkipDefaultTransaction: true})
	require.NoError(t, err)
	require.NoError(t, migrate.ApplySQLite(context.Background(), conn))

	sqlDB, err := conn.DB()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })
	return conn
}

// Tenant is a seeded supermarket with one branch and one category.
type Tenant struct {
	Supermarket models.Supermarket
	Branch      models.Branch
	Category    models.Category
}

// SeedTenant inserts a supermarket, branch and category.
func SeedTenant(t *testing.T, db *gorm.DB, name string) Tenant {
	t.Helper()

	tenant := Tenant{
		Supermarket: models.Supermarket{ID: uuid.New(), Name: name, IsActive: true},
	}
	require.NoError(t, db.Create(&tenant.Supermarket).Error)

	tenant.Branch = models.Branch{
		ID:            uuid.New(),
		SupermarketID: tenant.Supermarket.ID,
		Name:          name + " Central",
		Location:      types.Location{FormattedAddress: "1 Market Road", Lat: 6.45, Lng: 3.39},
		IsActive:      true,
	}
	require.NoError(t, db.Create(&tenant.Branch).Error)

	tenant.Category = models.Category{
		ID:            uuid.New(),
		SupermarketID: tenant.Supermarket.ID,
		Name:          "Groceries",
		IsActive:      true,
	}
	require.NoError(t, db.Create(&tenant.Category).Error)
	return tenant
}

// ProductSeed describes a product to seed; zero Stock seeds 10 units.
type ProductSeed struct {
	Name        string
	Brand       string
	Description string
	Price       string
	Stock       int
	Inactive    bool
}

// SeedProduct inserts a product owned by the tenant's branch.
func SeedProduct(t *testing.T, db *gorm.DB, tenant Tenant, seed ProductSeed) models.Product {
	t.Helper()

	stock := seed.Stock
	if stock == 0 {
		stock = 10
	}
	if stock < 0 {
		stock = 0
	}
	var brand *string
	if seed.Brand != "" {
		b := seed.Brand
		brand = &b
	}

	product := models.Product{
		ID:            uuid.New(),
		SupermarketID: tenant.Supermarket.ID,
		BranchID:      tenant.Branch.ID,
		CategoryID:    tenant.Category.ID,
		SKU:           "SKU-" + uuid.NewString()[:8],
		Name:          seed.Name,
		Description:   seed.Description,
		Brand:         brand,
		UnitPrice:     decimal.RequireFromString(seed.Price),
		Stock:         stock,
		Unit:          enums.UnitPiece,
		Images:        []string{"https://cdn.example.com/" + seed.Name + ".jpg"},
		IsActive:      true,
	}
	require.NoError(t, db.Create(&product).Error)

	if seed.Inactive {
		require.NoError(t, db.Model(&models.Product{}).
			Where("id = ?", product.ID).
			Update("is_active", false).Error)
		product.IsActive = false
	}
	return product
}
