// Package mapper converts between transport payloads and the custody domain.
package mapper

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/metalsdesk/admin-api/internal/domains/custody/domain"
	"github.com/metalsdesk/admin-api/internal/domains/custody/ports"
)

// CreateServiceRequest is the create payload accepted over HTTP.
type CreateServiceRequest struct {
	CustodianID      string           `json:"custodianId"`
	Name             string           `json:"name"`
	Fee              *decimal.Decimal `json:"fee"`
	PaymentFrequency string           `json:"paymentFrequency"`
	Currency         string           `json:"currency"`
	MinWeight        *decimal.Decimal `json:"minWeight"`
	MaxWeight        *decimal.Decimal `json:"maxWeight"`
}

// UpdateServiceRequest is the partial update payload; absent fields stay
// untouched, the clear flags drop an optional weight bound.
type UpdateServiceRequest struct {
	CustodianID      *string          `json:"custodianId"`
	Name             *string          `json:"name"`
	Fee              *decimal.Decimal `json:"fee"`
	PaymentFrequency *string          `json:"paymentFrequency"`
	Currency         *string          `json:"currency"`
	MinWeight        *decimal.Decimal `json:"minWeight"`
	MaxWeight        *decimal.Decimal `json:"maxWeight"`
	ClearMinWeight   bool             `json:"clearMinWeight"`
	ClearMaxWeight   bool             `json:"clearMaxWeight"`
}

// ServiceResponse is the public-facing shape of a custody service.
type ServiceResponse struct {
	ID               string           `json:"id"`
	CustodianID      string           `json:"custodianId"`
	CustodianName    string           `json:"custodianName,omitempty"`
	Name             string           `json:"name"`
	Fee              decimal.Decimal  `json:"fee"`
	PaymentFrequency string           `json:"paymentFrequency"`
	Currency         string           `json:"currency"`
	MinWeight        *decimal.Decimal `json:"minWeight,omitempty"`
	MaxWeight        *decimal.Decimal `json:"maxWeight,omitempty"`
	CreatedAt        time.Time        `json:"createdAt"`
	UpdatedAt        time.Time        `json:"updatedAt"`
}

// GroupResponse is one custodian with its services.
type GroupResponse struct {
	CustodianID   string            `json:"custodianId"`
	CustodianName string            `json:"custodianName"`
	Services      []ServiceResponse `json:"services"`
}

// PageResponse wraps one page of services with paging metadata.
type PageResponse struct {
	Items []ServiceResponse `json:"items"`
	Total int64             `json:"total"`
	Page  int               `json:"page"`
	Limit int               `json:"limit"`
}

// ToCreateRequest converts the transport payload to the domain request.
func ToCreateRequest(req CreateServiceRequest) domain.CreateRequest {
	return domain.CreateRequest{
		CustodianID:      req.CustodianID,
		Name:             req.Name,
		Fee:              req.Fee,
		PaymentFrequency: req.PaymentFrequency,
		Currency:         req.Currency,
		MinWeight:        req.MinWeight,
		MaxWeight:        req.MaxWeight,
	}
}

// ToUpdateRequest converts the transport payload to the domain request.
func ToUpdateRequest(req UpdateServiceRequest) domain.UpdateRequest {
	return domain.UpdateRequest{
		CustodianID:      req.CustodianID,
		Name:             req.Name,
		Fee:              req.Fee,
		PaymentFrequency: req.PaymentFrequency,
		Currency:         req.Currency,
		MinWeight:        req.MinWeight,
		MaxWeight:        req.MaxWeight,
		ClearMinWeight:   req.ClearMinWeight,
		ClearMaxWeight:   req.ClearMaxWeight,
	}
}

// FromDomain converts a domain service to its transport shape.
func FromDomain(svc *domain.CustodyService) ServiceResponse {
	if svc == nil {
		return ServiceResponse{}
	}
	return ServiceResponse{
		ID:               svc.ID,
		CustodianID:      svc.CustodianID,
		CustodianName:    svc.CustodianName,
		Name:             svc.Name,
		Fee:              svc.Fee,
		PaymentFrequency: string(svc.PaymentFrequency),
		Currency:         svc.Currency,
		MinWeight:        svc.MinWeight,
		MaxWeight:        svc.MaxWeight,
		CreatedAt:        svc.CreatedAt,
		UpdatedAt:        svc.UpdatedAt,
	}
}

// FromDomainList converts a slice of services.
func FromDomainList(services []*domain.CustodyService) []ServiceResponse {
	out := make([]ServiceResponse, 0, len(services))
	for _, svc := range services {
		out = append(out, FromDomain(svc))
	}
	return out
}

// FromGroups converts custodian groups.
func FromGroups(groups []ports.CustodianGroup) []GroupResponse {
	out := make([]GroupResponse, 0, len(groups))
	for _, g := range groups {
		out = append(out, GroupResponse{
			CustodianID:   g.CustodianID,
			CustodianName: g.CustodianName,
			Services:      FromDomainList(g.Services),
		})
	}
	return out
}
