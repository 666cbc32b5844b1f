package domain

import (
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

var (
	ErrSKURequired       = errors.New("sku is required")
	ErrNameRequired      = errors.New("product name is required")
	ErrUnknownMetal      = errors.New("metal code must be one of XAU, XAG, XPT, XPD")
	ErrWeightNotPositive = errors.New("weight must be greater than zero")
	ErrPurityOutOfRange  = errors.New("purity must be greater than zero and at most one")
	ErrPriceNotPositive  = errors.New("price must be greater than zero")
	ErrCurrencyRequired  = errors.New("price currency is required")
)

// MetalCode is the ISO 4217 commodity code of the underlying metal.
type MetalCode string

const (
	MetalGold      MetalCode = "XAU"
	MetalSilver    MetalCode = "XAG"
	MetalPlatinum  MetalCode = "XPT"
	MetalPalladium MetalCode = "XPD"
)

func (m MetalCode) Valid() bool {
	switch m {
	case MetalGold, MetalSilver, MetalPlatinum, MetalPalladium:
		return true
	}
	return false
}

// ParseMetalCode normalizes and validates a metal code string.
func ParseMetalCode(s string) (MetalCode, error) {
	m := MetalCode(strings.ToUpper(strings.TrimSpace(s)))
	if !m.Valid() {
		return "", ErrUnknownMetal
	}
	return m, nil
}

// Product is a sellable bullion item: a bar or coin of a single metal
// with a fixed fine weight.
type Product struct {
	ID            string
	SKU           string
	Name          string
	MetalCode     MetalCode
	WeightTroyOz  decimal.Decimal
	Purity        decimal.Decimal
	PriceAmount   decimal.Decimal
	PriceCurrency string
	ImageURLs     []string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// NewProduct builds a validated product. The ID and timestamps are
// assigned by the repository on save.
func NewProduct(sku, name string, metal MetalCode, weight, purity, price decimal.Decimal, currency string, imageURLs []string) (*Product, error) {
	sku = strings.TrimSpace(sku)
	if sku == "" {
		return nil, ErrSKURequired
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrNameRequired
	}
	if !metal.Valid() {
		return nil, ErrUnknownMetal
	}
	if !weight.IsPositive() {
		return nil, ErrWeightNotPositive
	}
	if !purity.IsPositive() || purity.GreaterThan(decimal.NewFromInt(1)) {
		return nil, ErrPurityOutOfRange
	}
	if !price.IsPositive() {
		return nil, ErrPriceNotPositive
	}
	currency = strings.ToUpper(strings.TrimSpace(currency))
	if currency == "" {
		return nil, ErrCurrencyRequired
	}

	return &Product{
		SKU:           sku,
		Name:          name,
		MetalCode:     metal,
		WeightTroyOz:  weight,
		Purity:        purity,
		PriceAmount:   price,
		PriceCurrency: currency,
		ImageURLs:     append([]string(nil), imageURLs...),
	}, nil
}

// Rename changes the display name.
func (p *Product) Rename(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrNameRequired
	}
	p.Name = name
	return nil
}

// Reprice updates the list price.
func (p *Product) Reprice(amount decimal.Decimal, currency string) error {
	if !amount.IsPositive() {
		return ErrPriceNotPositive
	}
	currency = strings.ToUpper(strings.TrimSpace(currency))
	if currency == "" {
		return ErrCurrencyRequired
	}
	p.PriceAmount = amount
	p.PriceCurrency = currency
	return nil
}

// ReplaceImages swaps the image URL set.
func (p *Product) ReplaceImages(urls []string) {
	p.ImageURLs = append([]string(nil), urls...)
}

// Clone returns a deep copy detached from the receiver.
func (p *Product) Clone() *Product {
	if p == nil {
		return nil
	}
	clone := *p
	clone.ImageURLs = append([]string(nil), p.ImageURLs...)
	return &clone
}
