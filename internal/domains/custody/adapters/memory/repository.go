// Package memory provides an in-memory custody repository for development
// and tests. State is owned by the constructed instance; there are no
// package-level records.
package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/metalsdesk/admin-api/internal/domains/custody/domain"
	"github.com/metalsdesk/admin-api/internal/domains/custody/ports"
	"github.com/metalsdesk/admin-api/internal/shared/pagination"
)

var _ ports.Repository = (*Repository)(nil)

// Repository keeps custody services, custodian and currency lookups, and
// active position counts behind one mutex.
type Repository struct {
	mu         sync.RWMutex
	services   map[string]*domain.CustodyService
	custodians map[string]string
	currencies map[string]int64
	positions  map[string]int64
	now        func() time.Time
}

// NewRepository constructs an empty store.
func NewRepository() *Repository {
	return &Repository{
		services:   map[string]*domain.CustodyService{},
		custodians: map[string]string{},
		currencies: map[string]int64{},
		positions:  map[string]int64{},
		now:        time.Now,
	}
}

// WithClock overrides the time source for deterministic testing.
func (r *Repository) WithClock(now func() time.Time) {
	if now != nil {
		r.now = now
	}
}

// Reset drops all services and position counts, keeping the custodian and
// currency fixtures in place.
func (r *Repository) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.services = map[string]*domain.CustodyService{}
	r.positions = map[string]int64{}
}

// AddCustodian seeds a custodian lookup record.
func (r *Repository) AddCustodian(id, name string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.custodians[id] = name
}

// AddCurrency seeds a currency lookup record.
func (r *Repository) AddCurrency(isoCode string, id int64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.currencies[strings.ToUpper(isoCode)] = id
}

// SetActivePositions overrides the tracked position count for a service.
func (r *Repository) SetActivePositions(serviceID string, count int64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.positions[serviceID] = count
}

func (r *Repository) FindAll(_ context.Context, filter ports.ListFilter, page pagination.PageRequest) ([]*domain.CustodyService, int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	matched := make([]*domain.CustodyService, 0, len(r.services))
	for _, svc := range r.services {
		if matches(svc, filter) {
			matched = append(matched, svc)
		}
	}
	sortServices(matched)
	total := int64(len(matched))

	page = page.Normalize()
	offset := page.Offset()
	if offset >= len(matched) {
		return []*domain.CustodyService{}, total, nil
	}
	end := offset + page.Limit
	if end > len(matched) {
		end = len(matched)
	}
	items := make([]*domain.CustodyService, 0, end-offset)
	for _, svc := range matched[offset:end] {
		items = append(items, svc.Clone())
	}
	return items, total, nil
}

func (r *Repository) FindByID(_ context.Context, id string) (*domain.CustodyService, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	svc, ok := r.services[id]
	if !ok {
		return nil, ports.ErrNotFound
	}
	return svc.Clone(), nil
}

func (r *Repository) FindByCustodian(_ context.Context, custodianID string) ([]*domain.CustodyService, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.servicesOfLocked(custodianID), nil
}

// FindDefault returns the first service owned by the custodian whose display
// name marks it as the home delivery arrangement.
func (r *Repository) FindDefault(_ context.Context) (*domain.CustodyService, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for id, name := range r.custodians {
		if !strings.Contains(strings.ToLower(name), "home delivery") {
			continue
		}
		if services := r.servicesOfLocked(id); len(services) > 0 {
			return services[0], nil
		}
	}
	return nil, ports.ErrNotFound
}

func (r *Repository) GroupByCustodian(_ context.Context) ([]ports.CustodianGroup, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	groups := make([]ports.CustodianGroup, 0, len(r.custodians))
	for id, name := range r.custodians {
		if strings.TrimSpace(name) == "" {
			continue
		}
		services := r.servicesOfLocked(id)
		if len(services) == 0 {
			continue
		}
		groups = append(groups, ports.CustodianGroup{
			CustodianID:   id,
			CustodianName: name,
			Services:      services,
		})
	}
	sort.Slice(groups, func(i, j int) bool { return groups[i].CustodianName < groups[j].CustodianName })
	return groups, nil
}

func (r *Repository) Create(_ context.Context, svc *domain.CustodyService, _ string) (*domain.CustodyService, error) {
	if svc == nil {
		return nil, fmt.Errorf("custody service is nil")
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	clone := svc.Clone()
	clone.ID = uuid.NewString()
	now := r.now()
	clone.CreatedAt = now
	clone.UpdatedAt = now
	clone.CustodianName = r.custodians[clone.CustodianID]
	if id, ok := r.currencies[strings.ToUpper(clone.Currency)]; ok {
		clone.CurrencyID = id
	}
	r.services[clone.ID] = clone
	return clone.Clone(), nil
}

func (r *Repository) Update(_ context.Context, id string, req domain.UpdateRequest, _ string) (*domain.CustodyService, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, ok := r.services[id]
	if !ok {
		return nil, ports.ErrNotFound
	}
	updated := existing.Clone()
	if err := updated.Apply(req); err != nil {
		return nil, err
	}
	updated.UpdatedAt = r.now()
	updated.CustodianName = r.custodians[updated.CustodianID]
	if currencyID, ok := r.currencies[strings.ToUpper(updated.Currency)]; ok {
		updated.CurrencyID = currencyID
	}
	r.services[id] = updated
	return updated.Clone(), nil
}

// Delete is idempotent; removing an absent id is not an error.
func (r *Repository) Delete(_ context.Context, id string, _ string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.services, id)
	delete(r.positions, id)
	return nil
}

func (r *Repository) CanDelete(_ context.Context, id string) (ports.DeleteCheck, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if count := r.positions[id]; count > 0 {
		return ports.DeleteCheck{
			Reason:          fmt.Sprintf("custody service has %d active position(s)", count),
			ActivePositions: count,
		}, nil
	}
	return ports.DeleteCheck{CanDelete: true}, nil
}

func (r *Repository) ServiceNameExists(_ context.Context, custodianID, name, excludeID string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	name = strings.TrimSpace(name)
	for id, svc := range r.services {
		if id == excludeID {
			continue
		}
		if svc.CustodianID == custodianID && strings.EqualFold(svc.Name, name) {
			return true, nil
		}
	}
	return false, nil
}

func (r *Repository) CustodianExists(_ context.Context, custodianID string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.custodians[custodianID]
	return ok, nil
}

func (r *Repository) ResolveCurrency(_ context.Context, isoCode string) (int64, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	id, ok := r.currencies[strings.ToUpper(strings.TrimSpace(isoCode))]
	return id, ok, nil
}

func (r *Repository) servicesOfLocked(custodianID string) []*domain.CustodyService {
	var services []*domain.CustodyService
	for _, svc := range r.services {
		if svc.CustodianID == custodianID {
			services = append(services, svc.Clone())
		}
	}
	sortServices(services)
	return services
}

func matches(svc *domain.CustodyService, filter ports.ListFilter) bool {
	if filter.Search != "" && !strings.Contains(strings.ToLower(svc.Name), strings.ToLower(filter.Search)) {
		return false
	}
	if filter.CustodianID != "" && svc.CustodianID != filter.CustodianID {
		return false
	}
	if filter.PaymentFrequency != "" && svc.PaymentFrequency != filter.PaymentFrequency {
		return false
	}
	if filter.Currency != "" && !strings.EqualFold(svc.Currency, filter.Currency) {
		return false
	}
	if filter.MinFee != nil && svc.Fee.LessThan(*filter.MinFee) {
		return false
	}
	if filter.MaxFee != nil && svc.Fee.GreaterThan(*filter.MaxFee) {
		return false
	}
	return true
}

func sortServices(services []*domain.CustodyService) {
	sort.Slice(services, func(i, j int) bool {
		if !services[i].CreatedAt.Equal(services[j].CreatedAt) {
			return services[i].CreatedAt.Before(services[j].CreatedAt)
		}
		if services[i].Name != services[j].Name {
			return services[i].Name < services[j].Name
		}
		return services[i].ID < services[j].ID
	})
}
