// Package domain holds the custody bounded context's entities and the
// business rules that can be enforced without touching storage.
package domain

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

// PaymentFrequency is the billing cadence of a custody service fee.
type PaymentFrequency string

const (
	FrequencyMonthly   PaymentFrequency = "monthly"
	FrequencyQuarterly PaymentFrequency = "quarterly"
	FrequencyAnnual    PaymentFrequency = "annual"
	FrequencyOnetime   PaymentFrequency = "onetime"
)

// Valid reports whether the frequency is one of the known cadences.
func (f PaymentFrequency) Valid() bool {
	switch f {
	case FrequencyMonthly, FrequencyQuarterly, FrequencyAnnual, FrequencyOnetime:
		return true
	}
	return false
}

// ParsePaymentFrequency converts a raw string into a PaymentFrequency.
func ParsePaymentFrequency(raw string) (PaymentFrequency, error) {
	f := PaymentFrequency(raw)
	if !f.Valid() {
		return "", ErrUnknownFrequency
	}
	return f, nil
}

var (
	ErrNameRequired        = errors.New("service name is required")
	ErrCustodianRequired   = errors.New("custodian id is required")
	ErrCustodianIDFormat   = errors.New("custodian id must be a valid identifier")
	ErrFeeRequired         = errors.New("fee is required")
	ErrFeeNotPositive      = errors.New("fee must be greater than zero")
	ErrFeeNegative         = errors.New("fee must not be negative")
	ErrUnknownFrequency    = errors.New("payment frequency must be one of monthly, quarterly, annual, onetime")
	ErrCurrencyRequired    = errors.New("currency is required")
	ErrWeightRangeInverted = errors.New("minimum weight must not exceed maximum weight")
)

// CustodyService is a named vaulting arrangement between a custodian and a
// metal holder. CustodianName and CurrencyID are resolved by the repository
// from the referenced lookup records; callers never set them directly.
type CustodyService struct {
	ID               string
	CustodianID      string
	CustodianName    string
	Name             string
	Fee              decimal.Decimal
	PaymentFrequency PaymentFrequency
	Currency         string
	CurrencyID       int64
	MinWeight        *decimal.Decimal
	MaxWeight        *decimal.Decimal
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// NewCustodyService validates the create request and builds the entity.
// Identity and timestamps are assigned by the repository on persist.
func NewCustodyService(req CreateRequest) (*CustodyService, error) {
	if err := ValidateCreate(req); err != nil {
		return nil, err
	}
	svc := &CustodyService{
		CustodianID:      req.CustodianID,
		Name:             trimmed(req.Name),
		Fee:              *req.Fee,
		PaymentFrequency: PaymentFrequency(req.PaymentFrequency),
		Currency:         req.Currency,
	}
	svc.MinWeight = cloneDecimal(req.MinWeight)
	svc.MaxWeight = cloneDecimal(req.MaxWeight)
	return svc, nil
}

// Apply mutates the entity with the supplied fields of a validated update
// request and guards the resulting weight-range invariant. Absent fields are
// left untouched.
func (s *CustodyService) Apply(req UpdateRequest) error {
	if err := ValidateUpdate(req); err != nil {
		return err
	}
	if req.Name != nil {
		s.Name = trimmed(*req.Name)
	}
	if req.CustodianID != nil {
		s.CustodianID = *req.CustodianID
	}
	if req.Fee != nil {
		s.Fee = *req.Fee
	}
	if req.PaymentFrequency != nil {
		s.PaymentFrequency = PaymentFrequency(*req.PaymentFrequency)
	}
	if req.Currency != nil {
		s.Currency = *req.Currency
	}
	if req.ClearMinWeight {
		s.MinWeight = nil
	} else if req.MinWeight != nil {
		s.MinWeight = cloneDecimal(req.MinWeight)
	}
	if req.ClearMaxWeight {
		s.MaxWeight = nil
	} else if req.MaxWeight != nil {
		s.MaxWeight = cloneDecimal(req.MaxWeight)
	}
	if s.MinWeight != nil && s.MaxWeight != nil && s.MinWeight.GreaterThan(*s.MaxWeight) {
		return ErrWeightRangeInverted
	}
	return nil
}

// Clone returns a deep copy, detaching the weight pointers.
func (s *CustodyService) Clone() *CustodyService {
	if s == nil {
		return nil
	}
	clone := *s
	clone.MinWeight = cloneDecimal(s.MinWeight)
	clone.MaxWeight = cloneDecimal(s.MaxWeight)
	return &clone
}

func cloneDecimal(d *decimal.Decimal) *decimal.Decimal {
	if d == nil {
		return nil
	}
	v := *d
	return &v
}
