package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/metalsdesk/admin-api/internal/domains/catalog/domain"
	"github.com/metalsdesk/admin-api/internal/domains/catalog/ports"
	"github.com/metalsdesk/admin-api/internal/shared/pagination"
)

// Repository is an in-memory catalog store used in tests and when no
// database is configured.
type Repository struct {
	mu       sync.RWMutex
	products map[string]*domain.Product
	now      func() time.Time
}

func NewRepository() *Repository {
	return &Repository{
		products: make(map[string]*domain.Product),
		now:      time.Now,
	}
}

// WithClock overrides the timestamp source. Returns the repository for chaining.
func (r *Repository) WithClock(now func() time.Time) *Repository {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.now = now
	return r
}

func (r *Repository) List(_ context.Context, filter ports.ListFilter, page pagination.PageRequest) ([]*domain.Product, int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var matched []*domain.Product
	for _, p := range r.products {
		if matches(p, filter) {
			matched = append(matched, p)
		}
	}

	sort.Slice(matched, func(i, j int) bool {
		if !matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].CreatedAt.Before(matched[j].CreatedAt)
		}
		return matched[i].SKU < matched[j].SKU
	})

	total := int64(len(matched))
	page = page.Normalize()
	start := page.Offset()
	if start >= len(matched) {
		return nil, total, nil
	}
	end := start + page.Limit
	if end > len(matched) {
		end = len(matched)
	}

	out := make([]*domain.Product, 0, end-start)
	for _, p := range matched[start:end] {
		out = append(out, p.Clone())
	}
	return out, total, nil
}

func matches(p *domain.Product, filter ports.ListFilter) bool {
	if filter.Search != "" {
		needle := strings.ToLower(filter.Search)
		if !strings.Contains(strings.ToLower(p.Name), needle) &&
			!strings.Contains(strings.ToLower(p.SKU), needle) {
			return false
		}
	}
	if filter.MetalCode != "" && p.MetalCode != filter.MetalCode {
		return false
	}
	if filter.Currency != "" && !strings.EqualFold(p.PriceCurrency, filter.Currency) {
		return false
	}
	return true
}

func (r *Repository) GetByID(_ context.Context, id string) (*domain.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.products[id]
	if !ok {
		return nil, ports.ErrNotFound
	}
	return p.Clone(), nil
}

func (r *Repository) GetBySKU(_ context.Context, sku string) (*domain.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, p := range r.products {
		if strings.EqualFold(p.SKU, sku) {
			return p.Clone(), nil
		}
	}
	return nil, ports.ErrNotFound
}

func (r *Repository) Save(_ context.Context, product *domain.Product, _ string) (*domain.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored := product.Clone()
	now := r.now()
	if stored.ID == "" {
		stored.ID = uuid.NewString()
		stored.CreatedAt = now
	}
	stored.UpdatedAt = now

	r.products[stored.ID] = stored
	return stored.Clone(), nil
}

func (r *Repository) Delete(_ context.Context, id string, _ string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.products, id)
	return nil
}

var _ ports.Repository = (*Repository)(nil)
