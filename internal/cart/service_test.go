package cart

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/angelmondragon/pricepal-backend/internal/catalog"
	"github.com/angelmondragon/pricepal-backend/internal/catalog/catalogtest"
	"github.com/angelmondragon/pricepal-backend/pkg/db"
	"github.com/angelmondragon/pricepal-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/pricepal-backend/pkg/errors"
)

type fixture struct {
	svc    Service
	tenant catalogtest.Tenant
	rice   models.Product
	sugar  models.Product
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	conn := catalogtest.OpenDB(t)
	tenant := catalogtest.SeedTenant(t, conn, "FreshMart")
	rice := catalogtest.SeedProduct(t, conn, tenant, catalogtest.ProductSeed{Name: "Rice", Price: "1500.50", Stock: 5})
	sugar := catalogtest.SeedProduct(t, conn, tenant, catalogtest.ProductSeed{Name: "Sugar", Price: "700"})

	svc, err := NewService(NewRepository(conn), db.Wrap(conn), catalog.NewRepository(conn))
	require.NoError(t, err)
	return fixture{svc: svc, tenant: tenant, rice: rice, sugar: sugar}
}

func TestGetCartCreatesOnce(t *testing.T) {
	f := newFixture(t)
	customer := uuid.New()

	first, err := f.svc.GetCart(context.Background(), customer)
	require.NoError(t, err)
	second, err := f.svc.GetCart(context.Background(), customer)
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Empty(t, second.Items)
	assert.True(t, second.TotalAmount.IsZero())
}

func TestAddItemExistingPairUpdatesInPlace(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	customer := uuid.New()

	_, err := f.svc.AddItem(ctx, customer, ItemInput{ProductID: f.rice.ID, BranchID: f.rice.BranchID, Quantity: 1})
	require.NoError(t, err)
	cart, err := f.svc.AddItem(ctx, customer, ItemInput{ProductID: f.rice.ID, BranchID: f.rice.BranchID, Quantity: 3})
	require.NoError(t, err)

	require.Len(t, cart.Items, 1)
	assert.Equal(t, 3, cart.Items[0].Quantity)
	assert.True(t, cart.Items[0].Price.Equal(decimal.RequireFromString("4501.5")), cart.Items[0].Price.String())
	assert.True(t, cart.TotalAmount.Equal(decimal.RequireFromString("4501.5")))
}

func TestAddItemValidations(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	customer := uuid.New()

	cases := map[string]struct {
		input ItemInput
		code  pkgerrors.Code
	}{
		"zero quantity":  {ItemInput{ProductID: f.rice.ID, BranchID: f.rice.BranchID}, pkgerrors.CodeValidation},
		"wrong branch":   {ItemInput{ProductID: f.rice.ID, BranchID: uuid.New(), Quantity: 1}, pkgerrors.CodeValidation},
		"unknown":        {ItemInput{ProductID: uuid.New(), BranchID: f.rice.BranchID, Quantity: 1}, pkgerrors.CodeNotFound},
		"exceeds stock":  {ItemInput{ProductID: f.rice.ID, BranchID: f.rice.BranchID, Quantity: 6}, pkgerrors.CodeConflict},
		"missing fields": {ItemInput{Quantity: 1}, pkgerrors.CodeValidation},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := f.svc.AddItem(ctx, customer, tc.input)
			assert.True(t, pkgerrors.IsCode(err, tc.code), "got %v", err)
		})
	}
}

func TestUpdateAndRemoveItem(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	customer := uuid.New()

	_, err := f.svc.UpdateItem(ctx, customer, ItemInput{ProductID: f.rice.ID, BranchID: f.rice.BranchID, Quantity: 2})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound), "no cart yet")

	_, err = f.svc.AddItem(ctx, customer, ItemInput{ProductID: f.sugar.ID, BranchID: f.sugar.BranchID, Quantity: 1})
	require.NoError(t, err)

	_, err = f.svc.UpdateItem(ctx, customer, ItemInput{ProductID: f.rice.ID, BranchID: f.rice.BranchID, Quantity: 2})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound), "line absent")

	cart, err := f.svc.UpdateItem(ctx, customer, ItemInput{ProductID: f.sugar.ID, BranchID: f.sugar.BranchID, Quantity: 4})
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)
	assert.True(t, cart.TotalAmount.Equal(decimal.NewFromInt(2800)))

	cart, err = f.svc.RemoveItem(ctx, customer, ItemInput{ProductID: f.sugar.ID, BranchID: f.sugar.BranchID})
	require.NoError(t, err)
	assert.Empty(t, cart.Items)
	assert.True(t, cart.TotalAmount.IsZero())

	_, err = f.svc.RemoveItem(ctx, customer, ItemInput{ProductID: f.sugar.ID, BranchID: f.sugar.BranchID})
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))
}

func TestClear(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	customer := uuid.New()

	_, err := f.svc.Clear(ctx, customer)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))

	_, err = f.svc.AddItem(ctx, customer, ItemInput{ProductID: f.rice.ID, BranchID: f.rice.BranchID, Quantity: 2})
	require.NoError(t, err)
	cart, err := f.svc.Clear(ctx, customer)
	require.NoError(t, err)
	assert.Empty(t, cart.Items)
	assert.True(t, cart.TotalAmount.IsZero())
}

func TestMergeLinesAdditiveIsIdempotent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	customer := uuid.New()

	_, err := f.svc.AddItem(ctx, customer, ItemInput{ProductID: f.rice.ID, BranchID: f.rice.BranchID, Quantity: 3})
	require.NoError(t, err)

	lines := []Line{
		{ProductID: f.rice.ID, BranchID: f.rice.BranchID, UnitPrice: f.rice.UnitPrice},
		{ProductID: f.sugar.ID, BranchID: f.sugar.BranchID, UnitPrice: f.sugar.UnitPrice},
		{ProductID: f.sugar.ID, BranchID: f.sugar.BranchID, UnitPrice: f.sugar.UnitPrice},
	}
	first, err := f.svc.MergeLines(ctx, customer, lines, MergeAdditive)
	require.NoError(t, err)
	second, err := f.svc.MergeLines(ctx, customer, lines, MergeAdditive)
	require.NoError(t, err)

	require.Len(t, first.Items, 2)
	require.Len(t, second.Items, 2)
	assert.Equal(t, 3, second.Items[0].Quantity, "existing line keeps its quantity")
	assert.Equal(t, 1, second.Items[1].Quantity)
	assert.True(t, second.TotalAmount.Equal(decimal.RequireFromString("5201.5")), second.TotalAmount.String())
}

func TestMergeLinesReplaceDropsOldLines(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	customer := uuid.New()

	_, err := f.svc.AddItem(ctx, customer, ItemInput{ProductID: f.rice.ID, BranchID: f.rice.BranchID, Quantity: 3})
	require.NoError(t, err)

	cart, err := f.svc.MergeLines(ctx, customer, []Line{
		{ProductID: f.sugar.ID, BranchID: f.sugar.BranchID, UnitPrice: f.sugar.UnitPrice},
	}, MergeReplace)
	require.NoError(t, err)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, f.sugar.ID, cart.Items[0].ProductID)
	assert.True(t, cart.TotalAmount.Equal(decimal.NewFromInt(700)))

	emptied, err := f.svc.MergeLines(ctx, uuid.New(), nil, MergeReplace)
	require.NoError(t, err)
	assert.Empty(t, emptied.Items)

	_, err = f.svc.MergeLines(ctx, customer, nil, MergeMode("bogus"))
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))
}

func TestFromModel(t *testing.T) {
	assert.Nil(t, FromModel(nil))

	dto := FromModel(&models.Cart{
		ID:          uuid.New(),
		TotalAmount: decimal.RequireFromString("12.5"),
		Items:       []models.CartItem{{Quantity: 2, Price: decimal.RequireFromString("12.5")}},
	})
	assert.Equal(t, 12.5, dto.TotalAmount)
	require.Len(t, dto.Items, 1)
	assert.Equal(t, 12.5, dto.Items[0].Price)
}

func TestNewServiceRequiresDependencies(t *testing.T) {
	_, err := NewService(nil, nil, nil)
	require.Error(t, err)
}
