// Package mapper converts between catalog transport payloads and domain types.
package mapper

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/metalsdesk/admin-api/internal/domains/catalog/domain"
	"github.com/metalsdesk/admin-api/internal/domains/catalog/ports"
)

type CreateProductRequest struct {
	SKU           string          `json:"sku" binding:"required"`
	Name          string          `json:"name" binding:"required"`
	MetalCode     string          `json:"metalCode" binding:"required"`
	WeightTroyOz  decimal.Decimal `json:"weightTroyOz"`
	Purity        decimal.Decimal `json:"purity"`
	PriceAmount   decimal.Decimal `json:"priceAmount"`
	PriceCurrency string          `json:"priceCurrency" binding:"required"`
	ImageURLs     []string        `json:"imageUrls"`
}

type UpdateProductRequest struct {
	Name          *string          `json:"name"`
	PriceAmount   *decimal.Decimal `json:"priceAmount"`
	PriceCurrency *string          `json:"priceCurrency"`
	ImageURLs     *[]string        `json:"imageUrls"`
}

type ProductResponse struct {
	ID            string          `json:"id"`
	SKU           string          `json:"sku"`
	Name          string          `json:"name"`
	MetalCode     string          `json:"metalCode"`
	WeightTroyOz  decimal.Decimal `json:"weightTroyOz"`
	Purity        decimal.Decimal `json:"purity"`
	PriceAmount   decimal.Decimal `json:"priceAmount"`
	PriceCurrency string          `json:"priceCurrency"`
	ImageURLs     []string        `json:"imageUrls"`
	CreatedAt     time.Time       `json:"createdAt"`
	UpdatedAt     time.Time       `json:"updatedAt"`
}

type PageResponse struct {
	Items []ProductResponse `json:"items"`
	Total int64             `json:"total"`
	Page  int               `json:"page"`
	Limit int               `json:"limit"`
}

func ToCreateInput(req CreateProductRequest) ports.CreateProductInput {
	return ports.CreateProductInput{
		SKU:           req.SKU,
		Name:          req.Name,
		MetalCode:     req.MetalCode,
		WeightTroyOz:  req.WeightTroyOz,
		Purity:        req.Purity,
		PriceAmount:   req.PriceAmount,
		PriceCurrency: req.PriceCurrency,
		ImageURLs:     req.ImageURLs,
	}
}

func ToUpdateInput(req UpdateProductRequest) ports.UpdateProductInput {
	return ports.UpdateProductInput{
		Name:          req.Name,
		PriceAmount:   req.PriceAmount,
		PriceCurrency: req.PriceCurrency,
		ImageURLs:     req.ImageURLs,
	}
}

func FromDomain(p *domain.Product) ProductResponse {
	urls := p.ImageURLs
	if urls == nil {
		urls = []string{}
	}
	return ProductResponse{
		ID:            p.ID,
		SKU:           p.SKU,
		Name:          p.Name,
		MetalCode:     string(p.MetalCode),
		WeightTroyOz:  p.WeightTroyOz,
		Purity:        p.Purity,
		PriceAmount:   p.PriceAmount,
		PriceCurrency: p.PriceCurrency,
		ImageURLs:     urls,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
}

func FromDomainList(products []*domain.Product) []ProductResponse {
	out := make([]ProductResponse, 0, len(products))
	for _, p := range products {
		out = append(out, FromDomain(p))
	}
	return out
}
