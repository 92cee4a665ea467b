package catalog_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/angelmondragon/pricepal-backend/internal/catalog"
	"github.com/angelmondragon/pricepal-backend/internal/catalog/catalogtest"
	"github.com/angelmondragon/pricepal-backend/pkg/db/models"
)

func productNames(rows []models.Product) []string {
	out := make([]string, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.Name)
	}
	return out
}

func TestFindCandidatesFiltersActiveAndPrefix(t *testing.T) {
	db := catalogtest.OpenDB(t)
	tenant := catalogtest.SeedTenant(t, db, "FreshMart")
	catalogtest.SeedProduct(t, db, tenant, catalogtest.ProductSeed{Name: "Long Grain Rice", Price: "1800"})
	catalogtest.SeedProduct(t, db, tenant, catalogtest.ProductSeed{Name: "Basmati Rice", Price: "2500", Inactive: true})
	catalogtest.SeedProduct(t, db, tenant, catalogtest.ProductSeed{Name: "Sugar Cubes", Price: "900"})

	repo := catalog.NewRepository(db)
	rows, err := repo.FindCandidates(context.Background(), catalog.CandidateFilter{
		Fields:   []catalog.Field{catalog.FieldName},
		Prefixes: []string{"ri"},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"Long Grain Rice"}, productNames(rows))
}

func TestFindCandidatesMatchesBrandAndDescription(t *testing.T) {
	db := catalogtest.OpenDB(t)
	tenant := catalogtest.SeedTenant(t, db, "FreshMart")
	catalogtest.SeedProduct(t, db, tenant, catalogtest.ProductSeed{Name: "Premium Oil", Brand: "Kings", Price: "3000"})
	catalogtest.SeedProduct(t, db, tenant, catalogtest.ProductSeed{Name: "Bag", Description: "kingsize shopping bag", Price: "100"})
	catalogtest.SeedProduct(t, db, tenant, catalogtest.ProductSeed{Name: "Salt", Price: "200"})

	repo := catalog.NewRepository(db)
	rows, err := repo.FindCandidates(context.Background(), catalog.CandidateFilter{
		Fields:   []catalog.Field{catalog.FieldBrand, catalog.FieldDescription},
		Prefixes: []string{"KI"},
	})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"Premium Oil", "Bag"}, productNames(rows))
}

func TestFindCandidatesAppliesScopePriceAndStock(t *testing.T) {
	db := catalogtest.OpenDB(t)
	fresh := catalogtest.SeedTenant(t, db, "FreshMart")
	value := catalogtest.SeedTenant(t, db, "ValueMart")
	catalogtest.SeedProduct(t, db, fresh, catalogtest.ProductSeed{Name: "Rice 5kg", Price: "1500"})
	catalogtest.SeedProduct(t, db, fresh, catalogtest.ProductSeed{Name: "Rice 10kg", Price: "4500"})
	catalogtest.SeedProduct(t, db, fresh, catalogtest.ProductSeed{Name: "Rice 1kg", Price: "500", Stock: -1})
	catalogtest.SeedProduct(t, db, value, catalogtest.ProductSeed{Name: "Rice 2kg", Price: "700"})

	repo := catalog.NewRepository(db)
	maxPrice := decimal.NewFromInt(2000)
	scope := fresh.Supermarket.ID
	rows, err := repo.FindCandidates(context.Background(), catalog.CandidateFilter{
		Prefixes:      []string{"ri"},
		SupermarketID: &scope,
		MaxPrice:      &maxPrice,
		InStockOnly:   true,
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"Rice 5kg"}, productNames(rows))
}

func TestFindCandidatesHonoursLimit(t *testing.T) {
	db := catalogtest.OpenDB(t)
	tenant := catalogtest.SeedTenant(t, db, "FreshMart")
	for _, name := range []string{"Beans A", "Beans B", "Beans C"} {
		catalogtest.SeedProduct(t, db, tenant, catalogtest.ProductSeed{Name: name, Price: "100"})
	}

	rows, err := catalog.NewRepository(db).FindCandidates(context.Background(), catalog.CandidateFilter{
		Prefixes: []string{"be"},
		Limit:    2,
	})
	require.NoError(t, err)
	assert.Len(t, rows, 2)
}

func TestFindByIDAndLoadContext(t *testing.T) {
	db := catalogtest.OpenDB(t)
	tenant := catalogtest.SeedTenant(t, db, "FreshMart")
	product := catalogtest.SeedProduct(t, db, tenant, catalogtest.ProductSeed{Name: "Sugar", Price: "1200"})
	repo := catalog.NewRepository(db)

	found, err := repo.FindByID(context.Background(), product.ID)
	require.NoError(t, err)
	assert.Equal(t, "Sugar", found.Name)
	assert.True(t, found.UnitPrice.Equal(decimal.NewFromInt(1200)))

	_, err = repo.FindByID(context.Background(), uuid.New())
	require.Error(t, err)

	ctxRows, err := repo.LoadContext(context.Background(), catalog.ContextIDsFor([]models.Product{*found}))
	require.NoError(t, err)
	assert.Equal(t, "Groceries", ctxRows.Categories[tenant.Category.ID].Name)
	assert.Equal(t, "FreshMart Central", ctxRows.Branches[tenant.Branch.ID].Name)
	assert.Equal(t, "1 Market Road", ctxRows.Branches[tenant.Branch.ID].Location.FormattedAddress)
	assert.Equal(t, "FreshMart", ctxRows.Supermarkets[tenant.Supermarket.ID].Name)
}

func TestContextIDsForDeduplicates(t *testing.T) {
	shared := uuid.New()
	ids := catalog.ContextIDsFor([]models.Product{
		{CategoryID: shared, BranchID: uuid.New(), SupermarketID: uuid.New()},
		{CategoryID: shared, BranchID: uuid.New(), SupermarketID: uuid.New()},
	})
	assert.Len(t, ids.CategoryIDs, 1)
	assert.Len(t, ids.BranchIDs, 2)
	assert.Len(t, ids.SupermarketIDs, 2)
}

func TestFindCandidatesAnchorsPrefixAtWordStart(t *testing.T) {
	db := catalogtest.OpenDB(t)
	tenant := catalogtest.SeedTenant(t, db, "FreshMart")
	catalogtest.SeedProduct(t, db, tenant, catalogtest.ProductSeed{Name: "Apricot Jam", Price: "800"})
	catalogtest.SeedProduct(t, db, tenant, catalogtest.ProductSeed{Name: "Brown Rice", Price: "1500"})
	catalogtest.SeedProduct(t, db, tenant, catalogtest.ProductSeed{Name: "Rice", Price: "1200"})

	rows, err := catalog.NewRepository(db).FindCandidates(context.Background(), catalog.CandidateFilter{
		Fields:   []catalog.Field{catalog.FieldName},
		Prefixes: []string{"ri"},
	})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"Brown Rice", "Rice"}, productNames(rows))
}

func TestFindCandidatesFoldsDiacritics(t *testing.T) {
	db := catalogtest.OpenDB(t)
	tenant := catalogtest.SeedTenant(t, db, "FreshMart")
	catalogtest.SeedProduct(t, db, tenant, catalogtest.ProductSeed{Name: "Éclair", Price: "600"})
	catalogtest.SeedProduct(t, db, tenant, catalogtest.ProductSeed{Name: "Yoghurt", Brand: "Crème d'Or", Price: "900"})
	catalogtest.SeedProduct(t, db, tenant, catalogtest.ProductSeed{Name: "Bread", Price: "500"})

	repo := catalog.NewRepository(db)
	rows, err := repo.FindCandidates(context.Background(), catalog.CandidateFilter{Prefixes: []string{"éc"}})
	require.NoError(t, err)
	assert.Equal(t, []string{"Éclair"}, productNames(rows))

	rows, err = repo.FindCandidates(context.Background(), catalog.CandidateFilter{Prefixes: []string{"ec"}})
	require.NoError(t, err)
	assert.Equal(t, []string{"Éclair"}, productNames(rows))

	rows, err = repo.FindCandidates(context.Background(), catalog.CandidateFilter{
		Fields:   []catalog.Field{catalog.FieldBrand},
		Prefixes: []string{"CRE"},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"Yoghurt"}, productNames(rows))
}

func TestFindCandidatesPagesByID(t *testing.T) {
	db := catalogtest.OpenDB(t)
	tenant := catalogtest.SeedTenant(t, db, "FreshMart")
	seeded := map[uuid.UUID]bool{}
	for _, name := range []string{"Beans A", "Beans B", "Beans C", "Beans D", "Beans E"} {
		p := catalogtest.SeedProduct(t, db, tenant, catalogtest.ProductSeed{Name: name, Price: "100"})
		seeded[p.ID] = true
	}

	repo := catalog.NewRepository(db)
	filter := catalog.CandidateFilter{Prefixes: []string{"be"}, Limit: 2}
	seen := map[uuid.UUID]bool{}
	var previous string
	for pages := 0; pages < 5; pages++ {
		rows, err := repo.FindCandidates(context.Background(), filter)
		require.NoError(t, err)
		for _, row := range rows {
			assert.Greater(t, row.ID.String(), previous, "pages must be in ascending id order")
			previous = row.ID.String()
			assert.False(t, seen[row.ID], "row %s returned twice", row.Name)
			seen[row.ID] = true
		}
		if len(rows) < filter.Limit {
			break
		}
		last := rows[len(rows)-1].ID
		filter.After = &last
	}
	assert.Equal(t, seeded, seen)
}

func TestFindCandidatesReachesRowsPastOnePage(t *testing.T) {
	db := catalogtest.OpenDB(t)
	tenant := catalogtest.SeedTenant(t, db, "FreshMart")
	for i := 0; i < catalog.DefaultCandidateLimit; i++ {
		catalogtest.SeedProduct(t, db, tenant, catalogtest.ProductSeed{Name: fmt.Sprintf("Apricot Jam %d", i), Price: "800"})
	}
	catalogtest.SeedProduct(t, db, tenant, catalogtest.ProductSeed{Name: "Rice", Price: "1000"})

	rows, err := catalog.NewRepository(db).FindCandidates(context.Background(), catalog.CandidateFilter{
		Prefixes: []string{"ri"},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"Rice"}, productNames(rows))
}
