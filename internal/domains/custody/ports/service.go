package ports

import (
	"context"

	"github.com/metalsdesk/admin-api/internal/domains/custody/domain"
	"github.com/metalsdesk/admin-api/internal/shared/pagination"
)

// Service is the custody use-case contract exposed to the HTTP layer and
// satisfied by the application orchestrator and its decorators.
type Service interface {
	CreateService(ctx context.Context, req domain.CreateRequest, actor string) (*domain.CustodyService, error)
	UpdateService(ctx context.Context, id string, req domain.UpdateRequest, actor string) (*domain.CustodyService, error)
	DeleteService(ctx context.Context, id string, actor string) error
	ListServices(ctx context.Context, filter ListFilter, page pagination.PageRequest) (pagination.Page[*domain.CustodyService], error)
	GetService(ctx context.Context, id string) (*domain.CustodyService, error)
	ListByCustodian(ctx context.Context, custodianID string) ([]*domain.CustodyService, error)
	GetDefaultService(ctx context.Context) (*domain.CustodyService, error)
	GroupByCustodian(ctx context.Context) ([]CustodianGroup, error)
}
