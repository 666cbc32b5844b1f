package application

import (
	"context"
	"fmt"

	"github.com/metalsdesk/admin-api/internal/domains/custody/domain"
	"github.com/metalsdesk/admin-api/internal/domains/custody/ports"
	"github.com/metalsdesk/admin-api/internal/shared/pagination"
)

// Service orchestrates the custody use cases. Each mutation validates,
// resolves references, enforces uniqueness, and only then touches storage.
type Service struct {
	repo ports.Repository
}

// NewService wires the orchestrator with its repository.
func NewService(repo ports.Repository) *Service {
	return &Service{repo: repo}
}

// CreateService validates the request, verifies the custodian and currency
// references, guards name uniqueness per custodian, and persists.
func (s *Service) CreateService(ctx context.Context, req domain.CreateRequest, actor string) (*domain.CustodyService, error) {
	svc, err := domain.NewCustodyService(req)
	if err != nil {
		return nil, &ValidationError{Rule: err}
	}

	ok, err := s.repo.CustodianExists(ctx, svc.CustodianID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, &ReferenceError{Entity: "custodian", Value: svc.CustodianID}
	}

	currencyID, ok, err := s.repo.ResolveCurrency(ctx, svc.Currency)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, &ReferenceError{Entity: "currency", Value: svc.Currency}
	}
	svc.CurrencyID = currencyID

	taken, err := s.repo.ServiceNameExists(ctx, svc.CustodianID, svc.Name, "")
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, &ConflictError{
			Reason: fmt.Sprintf("custody service %q already exists for this custodian", svc.Name),
		}
	}

	return s.repo.Create(ctx, svc, actor)
}

// UpdateService applies a partial mutation. Referential checks run only for
// supplied fields; name uniqueness is re-checked whenever the (custodian,
// name) pair changes, excluding the record itself.
func (s *Service) UpdateService(ctx context.Context, id string, req domain.UpdateRequest, actor string) (*domain.CustodyService, error) {
	if err := domain.ValidateUpdate(req); err != nil {
		return nil, &ValidationError{Rule: err}
	}

	if req.CustodianID != nil {
		ok, err := s.repo.CustodianExists(ctx, *req.CustodianID)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, &ReferenceError{Entity: "custodian", Value: *req.CustodianID}
		}
	}

	if req.Currency != nil {
		if _, ok, err := s.repo.ResolveCurrency(ctx, *req.Currency); err != nil {
			return nil, err
		} else if !ok {
			return nil, &ReferenceError{Entity: "currency", Value: *req.Currency}
		}
	}

	touchesBounds := req.MinWeight != nil || req.MaxWeight != nil || req.ClearMinWeight || req.ClearMaxWeight
	if touchesBounds || req.Name != nil || req.CustodianID != nil {
		existing, err := s.repo.FindByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if touchesBounds {
			// The merged bounds can invert even when the request supplies
			// only one of them, so check against the stored record.
			if err := existing.Clone().Apply(req); err != nil {
				return nil, &ValidationError{Rule: err}
			}
		}
		if req.Name != nil || req.CustodianID != nil {
			name := existing.Name
			if req.Name != nil {
				name = *req.Name
			}
			custodianID := existing.CustodianID
			if req.CustodianID != nil {
				custodianID = *req.CustodianID
			}
			taken, err := s.repo.ServiceNameExists(ctx, custodianID, name, id)
			if err != nil {
				return nil, err
			}
			if taken {
				return nil, &ConflictError{
					Reason: fmt.Sprintf("custody service %q already exists for this custodian", name),
				}
			}
		}
	}

	return s.repo.Update(ctx, id, req, actor)
}

// DeleteService removes a service unless active positions still reference it.
// Deleting an absent id is a no-op.
func (s *Service) DeleteService(ctx context.Context, id string, actor string) error {
	check, err := s.repo.CanDelete(ctx, id)
	if err != nil {
		return err
	}
	if !check.CanDelete {
		return &ConflictError{Reason: check.Reason, ActivePositions: check.ActivePositions}
	}
	return s.repo.Delete(ctx, id, actor)
}

// ListServices returns one page of services matching the filter.
func (s *Service) ListServices(ctx context.Context, filter ports.ListFilter, page pagination.PageRequest) (pagination.Page[*domain.CustodyService], error) {
	page = page.Normalize()
	items, total, err := s.repo.FindAll(ctx, filter, page)
	if err != nil {
		return pagination.Page[*domain.CustodyService]{}, err
	}
	return pagination.NewPage(items, total, page), nil
}

// GetService loads a single service by id.
func (s *Service) GetService(ctx context.Context, id string) (*domain.CustodyService, error) {
	return s.repo.FindByID(ctx, id)
}

// ListByCustodian returns every service offered by one custodian.
func (s *Service) ListByCustodian(ctx context.Context, custodianID string) ([]*domain.CustodyService, error) {
	return s.repo.FindByCustodian(ctx, custodianID)
}

// GetDefaultService returns the designated default arrangement.
func (s *Service) GetDefaultService(ctx context.Context) (*domain.CustodyService, error) {
	return s.repo.FindDefault(ctx)
}

// GroupByCustodian aggregates all services under their custodians.
func (s *Service) GroupByCustodian(ctx context.Context) ([]ports.CustodianGroup, error) {
	return s.repo.GroupByCustodian(ctx)
}

var _ ports.Service = (*Service)(nil)
