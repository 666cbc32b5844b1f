package application

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/metalsdesk/admin-api/internal/domains/catalog/domain"
	"github.com/metalsdesk/admin-api/internal/domains/catalog/ports"
	"github.com/metalsdesk/admin-api/internal/shared/pagination"
)

// Service implements the catalog use cases on top of the repository port.
type Service struct {
	repo ports.Repository
}

func NewService(repo ports.Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) CreateProduct(ctx context.Context, in ports.CreateProductInput, actor string) (*domain.Product, error) {
	metal, err := domain.ParseMetalCode(in.MetalCode)
	if err != nil {
		return nil, err
	}

	product, err := domain.NewProduct(in.SKU, in.Name, metal,
		in.WeightTroyOz, in.Purity, in.PriceAmount, in.PriceCurrency, in.ImageURLs)
	if err != nil {
		return nil, err
	}

	existing, err := s.repo.GetBySKU(ctx, product.SKU)
	if err != nil && !errors.Is(err, ports.ErrNotFound) {
		return nil, fmt.Errorf("checking sku: %w", err)
	}
	if existing != nil {
		return nil, ports.ErrSKUConflict
	}

	return s.repo.Save(ctx, product, actor)
}

func (s *Service) UpdateProduct(ctx context.Context, id string, in ports.UpdateProductInput, actor string) (*domain.Product, error) {
	product, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if in.Name != nil {
		if err := product.Rename(*in.Name); err != nil {
			return nil, err
		}
	}
	if in.PriceAmount != nil || in.PriceCurrency != nil {
		amount := product.PriceAmount
		if in.PriceAmount != nil {
			amount = *in.PriceAmount
		}
		currency := product.PriceCurrency
		if in.PriceCurrency != nil {
			currency = *in.PriceCurrency
		}
		if err := product.Reprice(amount, currency); err != nil {
			return nil, err
		}
	}
	if in.ImageURLs != nil {
		product.ReplaceImages(*in.ImageURLs)
	}

	return s.repo.Save(ctx, product, actor)
}

func (s *Service) DeleteProduct(ctx context.Context, id string, actor string) error {
	return s.repo.Delete(ctx, id, actor)
}

func (s *Service) ListProducts(ctx context.Context, filter ports.ListFilter, page pagination.PageRequest) (pagination.Page[*domain.Product], error) {
	page = page.Normalize()
	items, total, err := s.repo.List(ctx, filter, page)
	if err != nil {
		return pagination.Page[*domain.Product]{}, err
	}
	return pagination.NewPage(items, total, page), nil
}

func (s *Service) GetProduct(ctx context.Context, id string) (*domain.Product, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) GetProductBySKU(ctx context.Context, sku string) (*domain.Product, error) {
	return s.repo.GetBySKU(ctx, strings.TrimSpace(sku))
}

var _ ports.Service = (*Service)(nil)
