package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func validProduct(t *testing.T) *Product {
	t.Helper()
	p, err := NewProduct("BAR-XAU-1OZ", "1 oz Gold Bar", MetalGold,
		dec("1"), dec("0.9999"), dec("2450.00"), "chf",
		[]string{"https://cdn.metalsdesk.test/bar-xau-1oz.png"})
	require.NoError(t, err)
	return p
}

func TestNewProduct(t *testing.T) {
	p := validProduct(t)
	assert.Equal(t, "BAR-XAU-1OZ", p.SKU)
	assert.Equal(t, MetalGold, p.MetalCode)
	assert.Equal(t, "CHF", p.PriceCurrency)
	assert.Len(t, p.ImageURLs, 1)
}

func TestNewProduct_Validation(t *testing.T) {
	cases := []struct {
		name string
		run  func() error
		want error
	}{
		{"blank sku", func() error {
			_, err := NewProduct("  ", "Bar", MetalGold, dec("1"), dec("0.999"), dec("100"), "CHF", nil)
			return err
		}, ErrSKURequired},
		{"blank name", func() error {
			_, err := NewProduct("SKU", "", MetalGold, dec("1"), dec("0.999"), dec("100"), "CHF", nil)
			return err
		}, ErrNameRequired},
		{"bad metal", func() error {
			_, err := NewProduct("SKU", "Bar", MetalCode("XCU"), dec("1"), dec("0.999"), dec("100"), "CHF", nil)
			return err
		}, ErrUnknownMetal},
		{"zero weight", func() error {
			_, err := NewProduct("SKU", "Bar", MetalGold, dec("0"), dec("0.999"), dec("100"), "CHF", nil)
			return err
		}, ErrWeightNotPositive},
		{"purity above one", func() error {
			_, err := NewProduct("SKU", "Bar", MetalGold, dec("1"), dec("1.01"), dec("100"), "CHF", nil)
			return err
		}, ErrPurityOutOfRange},
		{"zero purity", func() error {
			_, err := NewProduct("SKU", "Bar", MetalGold, dec("1"), dec("0"), dec("100"), "CHF", nil)
			return err
		}, ErrPurityOutOfRange},
		{"zero price", func() error {
			_, err := NewProduct("SKU", "Bar", MetalGold, dec("1"), dec("0.999"), dec("0"), "CHF", nil)
			return err
		}, ErrPriceNotPositive},
		{"blank currency", func() error {
			_, err := NewProduct("SKU", "Bar", MetalGold, dec("1"), dec("0.999"), dec("100"), " ", nil)
			return err
		}, ErrCurrencyRequired},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.ErrorIs(t, tc.run(), tc.want)
		})
	}
}

func TestParseMetalCode(t *testing.T) {
	m, err := ParseMetalCode(" xag ")
	require.NoError(t, err)
	assert.Equal(t, MetalSilver, m)

	_, err = ParseMetalCode("AU")
	assert.ErrorIs(t, err, ErrUnknownMetal)
}

func TestProduct_Mutators(t *testing.T) {
	p := validProduct(t)

	require.NoError(t, p.Rename("1 oz Gold Bar (LBMA)"))
	assert.Equal(t, "1 oz Gold Bar (LBMA)", p.Name)
	assert.ErrorIs(t, p.Rename("  "), ErrNameRequired)

	require.NoError(t, p.Reprice(dec("2500"), "eur"))
	assert.Equal(t, "EUR", p.PriceCurrency)
	assert.ErrorIs(t, p.Reprice(dec("-1"), "EUR"), ErrPriceNotPositive)

	p.ReplaceImages([]string{"a", "b"})
	assert.Len(t, p.ImageURLs, 2)
}

func TestProduct_CloneDetaches(t *testing.T) {
	p := validProduct(t)
	clone := p.Clone()
	clone.ImageURLs[0] = "changed"
	clone.Name = "changed"

	assert.Equal(t, "1 oz Gold Bar", p.Name)
	assert.Equal(t, "https://cdn.metalsdesk.test/bar-xau-1oz.png", p.ImageURLs[0])
}
