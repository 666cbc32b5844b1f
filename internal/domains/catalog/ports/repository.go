package ports

import (
	"context"
	"errors"

	"github.com/metalsdesk/admin-api/internal/domains/catalog/domain"
	"github.com/metalsdesk/admin-api/internal/shared/pagination"
)

var (
	ErrNotFound    = errors.New("product not found")
	ErrSKUConflict = errors.New("sku already in use")
)

// ListFilter narrows product listings. Zero values mean "no filter".
type ListFilter struct {
	Search    string
	MetalCode domain.MetalCode
	Currency  string
}

// Repository is the catalog persistence port.
type Repository interface {
	List(ctx context.Context, filter ListFilter, page pagination.PageRequest) ([]*domain.Product, int64, error)
	GetByID(ctx context.Context, id string) (*domain.Product, error)
	GetBySKU(ctx context.Context, sku string) (*domain.Product, error)
	Save(ctx context.Context, product *domain.Product, actor string) (*domain.Product, error)
	Delete(ctx context.Context, id string, actor string) error
}
