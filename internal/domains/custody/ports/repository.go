// Package ports declares the capability contracts the custody application
// layer depends on. Implementations live under adapters.
package ports

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"

	"github.com/metalsdesk/admin-api/internal/domains/custody/domain"
	"github.com/metalsdesk/admin-api/internal/shared/pagination"
)

// ErrNotFound signals the targeted custody service does not exist.
var ErrNotFound = errors.New("custody service not found")

// ListFilter narrows FindAll results. Zero values mean "no constraint".
type ListFilter struct {
	// Search matches as a case-insensitive substring of the service name.
	Search string
	// CustodianID, PaymentFrequency, and Currency match exactly.
	CustodianID      string
	PaymentFrequency domain.PaymentFrequency
	Currency         string
	// MinFee and MaxFee are inclusive bounds.
	MinFee *decimal.Decimal
	MaxFee *decimal.Decimal
}

// CustodianGroup aggregates the services offered by one custodian.
type CustodianGroup struct {
	CustodianID   string
	CustodianName string
	Services      []*domain.CustodyService
}

// DeleteCheck reports whether a service may be deleted and why not.
type DeleteCheck struct {
	CanDelete       bool
	Reason          string
	ActivePositions int64
}

// Repository is the persistence contract for custody services. Mutating
// operations receive the acting identity for the audit trail; the value is
// forwarded, never interpreted.
type Repository interface {
	// FindAll returns one page of matching services plus the total match
	// count before pagination.
	FindAll(ctx context.Context, filter ListFilter, page pagination.PageRequest) ([]*domain.CustodyService, int64, error)

	// FindByID returns ErrNotFound when the id is absent.
	FindByID(ctx context.Context, id string) (*domain.CustodyService, error)

	FindByCustodian(ctx context.Context, custodianID string) ([]*domain.CustodyService, error)

	// FindDefault returns the designated default arrangement: the first
	// service owned by the home-delivery custodian. ErrNotFound when none.
	FindDefault(ctx context.Context) (*domain.CustodyService, error)

	// GroupByCustodian aggregates every service under its custodian,
	// skipping custodians without a display name.
	GroupByCustodian(ctx context.Context) ([]CustodianGroup, error)

	// Create persists a new service, assigning identity and timestamps.
	Create(ctx context.Context, svc *domain.CustodyService, actor string) (*domain.CustodyService, error)

	// Update applies the supplied fields only and refreshes UpdatedAt.
	// Returns ErrNotFound when the id is absent.
	Update(ctx context.Context, id string, req domain.UpdateRequest, actor string) (*domain.CustodyService, error)

	// Delete is idempotent: deleting an absent id is a no-op.
	Delete(ctx context.Context, id string, actor string) error

	// CanDelete reports whether the service is free of active positions.
	CanDelete(ctx context.Context, id string) (DeleteCheck, error)

	// ServiceNameExists matches case-insensitively within one custodian,
	// ignoring the record identified by excludeID when non-empty.
	ServiceNameExists(ctx context.Context, custodianID, name, excludeID string) (bool, error)

	CustodianExists(ctx context.Context, custodianID string) (bool, error)

	// ResolveCurrency maps an ISO code to the internal currency id.
	ResolveCurrency(ctx context.Context, isoCode string) (int64, bool, error)
}
