package application

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/metalsdesk/admin-api/internal/domains/catalog/adapters/memory"
	"github.com/metalsdesk/admin-api/internal/domains/catalog/domain"
	"github.com/metalsdesk/admin-api/internal/domains/catalog/ports"
	"github.com/metalsdesk/admin-api/internal/shared/pagination"
)

const testActor = "ops@metalsdesk.test"

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func goldBarInput() ports.CreateProductInput {
	return ports.CreateProductInput{
		SKU:           "BAR-XAU-1OZ",
		Name:          "1 oz Gold Bar",
		MetalCode:     "xau",
		WeightTroyOz:  dec("1"),
		Purity:        dec("0.9999"),
		PriceAmount:   dec("2450.00"),
		PriceCurrency: "CHF",
		ImageURLs:     []string{"https://cdn.metalsdesk.test/bar-xau-1oz.png"},
	}
}

func TestService_CreateProduct(t *testing.T) {
	svc := NewService(memory.NewRepository())
	ctx := context.Background()

	created, err := svc.CreateProduct(ctx, goldBarInput(), testActor)
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, domain.MetalGold, created.MetalCode)
	assert.False(t, created.CreatedAt.IsZero())
	assert.Equal(t, created.CreatedAt, created.UpdatedAt)
}

func TestService_CreateProduct_RejectsBadMetal(t *testing.T) {
	svc := NewService(memory.NewRepository())

	in := goldBarInput()
	in.MetalCode = "CU"
	_, err := svc.CreateProduct(context.Background(), in, testActor)
	assert.ErrorIs(t, err, domain.ErrUnknownMetal)
}

func TestService_CreateProduct_SKUConflict(t *testing.T) {
	svc := NewService(memory.NewRepository())
	ctx := context.Background()

	_, err := svc.CreateProduct(ctx, goldBarInput(), testActor)
	require.NoError(t, err)

	dup := goldBarInput()
	dup.SKU = "bar-xau-1oz"
	dup.Name = "Another Bar"
	_, err = svc.CreateProduct(ctx, dup, testActor)
	assert.ErrorIs(t, err, ports.ErrSKUConflict)
}

func TestService_UpdateProduct_Partial(t *testing.T) {
	base := time.Date(2026, time.March, 1, 9, 0, 0, 0, time.UTC)
	clock := base
	repo := memory.NewRepository().WithClock(func() time.Time {
		clock = clock.Add(time.Minute)
		return clock
	})
	svc := NewService(repo)
	ctx := context.Background()

	created, err := svc.CreateProduct(ctx, goldBarInput(), testActor)
	require.NoError(t, err)

	price := dec("2600")
	updated, err := svc.UpdateProduct(ctx, created.ID, ports.UpdateProductInput{PriceAmount: &price}, testActor)
	require.NoError(t, err)
	assert.True(t, updated.PriceAmount.Equal(price))
	assert.Equal(t, created.Name, updated.Name)
	assert.Equal(t, "CHF", updated.PriceCurrency)
	assert.True(t, updated.UpdatedAt.After(created.UpdatedAt))
}

func TestService_UpdateProduct_NotFound(t *testing.T) {
	svc := NewService(memory.NewRepository())

	name := "x"
	_, err := svc.UpdateProduct(context.Background(), "missing", ports.UpdateProductInput{Name: &name}, testActor)
	assert.ErrorIs(t, err, ports.ErrNotFound)
}

func TestService_UpdateProduct_RejectsBlankName(t *testing.T) {
	svc := NewService(memory.NewRepository())
	ctx := context.Background()

	created, err := svc.CreateProduct(ctx, goldBarInput(), testActor)
	require.NoError(t, err)

	blank := "  "
	_, err = svc.UpdateProduct(ctx, created.ID, ports.UpdateProductInput{Name: &blank}, testActor)
	assert.ErrorIs(t, err, domain.ErrNameRequired)
}

func TestService_DeleteProduct_Idempotent(t *testing.T) {
	svc := NewService(memory.NewRepository())
	ctx := context.Background()

	created, err := svc.CreateProduct(ctx, goldBarInput(), testActor)
	require.NoError(t, err)

	require.NoError(t, svc.DeleteProduct(ctx, created.ID, testActor))
	require.NoError(t, svc.DeleteProduct(ctx, created.ID, testActor))

	_, err = svc.GetProduct(ctx, created.ID)
	assert.ErrorIs(t, err, ports.ErrNotFound)
}

func TestService_ListProducts_FilterAndPage(t *testing.T) {
	svc := NewService(memory.NewRepository())
	ctx := context.Background()

	_, err := svc.CreateProduct(ctx, goldBarInput(), testActor)
	require.NoError(t, err)

	silver := goldBarInput()
	silver.SKU = "COIN-XAG-1OZ"
	silver.Name = "1 oz Silver Philharmonic"
	silver.MetalCode = "XAG"
	silver.PriceAmount = dec("32.50")
	_, err = svc.CreateProduct(ctx, silver, testActor)
	require.NoError(t, err)

	page, err := svc.ListProducts(ctx, ports.ListFilter{MetalCode: domain.MetalSilver}, pagination.PageRequest{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), page.Total)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "COIN-XAG-1OZ", page.Items[0].SKU)

	page, err = svc.ListProducts(ctx, ports.ListFilter{}, pagination.PageRequest{Page: 2, Limit: 1})
	require.NoError(t, err)
	assert.Equal(t, int64(2), page.Total)
	require.Len(t, page.Items, 1)
	assert.Equal(t, 2, page.Page)
}

func TestService_GetProductBySKU(t *testing.T) {
	svc := NewService(memory.NewRepository())
	ctx := context.Background()

	created, err := svc.CreateProduct(ctx, goldBarInput(), testActor)
	require.NoError(t, err)

	found, err := svc.GetProductBySKU(ctx, " bar-xau-1oz ")
	require.NoError(t, err)
	assert.Equal(t, created.ID, found.ID)
}
