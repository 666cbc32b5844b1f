package ports

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/metalsdesk/admin-api/internal/domains/catalog/domain"
	"github.com/metalsdesk/admin-api/internal/shared/pagination"
)

// CreateProductInput carries everything needed to list a new product.
type CreateProductInput struct {
	SKU           string
	Name          string
	MetalCode     string
	WeightTroyOz  decimal.Decimal
	Purity        decimal.Decimal
	PriceAmount   decimal.Decimal
	PriceCurrency string
	ImageURLs     []string
}

// UpdateProductInput carries a partial update. Nil fields are untouched.
type UpdateProductInput struct {
	Name          *string
	PriceAmount   *decimal.Decimal
	PriceCurrency *string
	ImageURLs     *[]string
}

// Service is the catalog use-case port.
type Service interface {
	CreateProduct(ctx context.Context, in CreateProductInput, actor string) (*domain.Product, error)
	UpdateProduct(ctx context.Context, id string, in UpdateProductInput, actor string) (*domain.Product, error)
	DeleteProduct(ctx context.Context, id string, actor string) error
	ListProducts(ctx context.Context, filter ListFilter, page pagination.PageRequest) (pagination.Page[*domain.Product], error)
	GetProduct(ctx context.Context, id string) (*domain.Product, error)
	GetProductBySKU(ctx context.Context, sku string) (*domain.Product, error)
}
