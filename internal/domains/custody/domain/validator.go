package domain

import (
	"strings"

	"github.com/shopspring/decimal"
)

// CreateRequest carries the fields needed to create a custody service.
// Fee is a pointer so a missing fee is distinguishable from zero.
type CreateRequest struct {
	CustodianID      string
	Name             string
	Fee              *decimal.Decimal
	PaymentFrequency string
	Currency         string
	MinWeight        *decimal.Decimal
	MaxWeight        *decimal.Decimal
}

// UpdateRequest is a partial mutation: nil fields are not touched.
// ClearMinWeight/ClearMaxWeight drop an optional bound explicitly, which a
// nil pointer alone cannot express.
type UpdateRequest struct {
	CustodianID      *string
	Name             *string
	Fee              *decimal.Decimal
	PaymentFrequency *string
	Currency         *string
	MinWeight        *decimal.Decimal
	MaxWeight        *decimal.Decimal
	ClearMinWeight   bool
	ClearMaxWeight   bool
}

// Empty reports whether the update supplies no mutation at all.
func (r UpdateRequest) Empty() bool {
	return r.CustodianID == nil && r.Name == nil && r.Fee == nil &&
		r.PaymentFrequency == nil && r.Currency == nil &&
		r.MinWeight == nil && r.MaxWeight == nil &&
		!r.ClearMinWeight && !r.ClearMaxWeight
}

// ValidateCreate checks a create request rule by rule and returns the first
// violation. It performs no I/O; referential checks belong to the
// application layer.
func ValidateCreate(req CreateRequest) error {
	if trimmed(req.Name) == "" {
		return ErrNameRequired
	}
	if trimmed(req.CustodianID) == "" {
		return ErrCustodianRequired
	}
	if !IsID(req.CustodianID) {
		return ErrCustodianIDFormat
	}
	if req.Fee == nil {
		return ErrFeeRequired
	}
	if !req.Fee.IsPositive() {
		return ErrFeeNotPositive
	}
	if _, err := ParsePaymentFrequency(req.PaymentFrequency); err != nil {
		return err
	}
	if trimmed(req.Currency) == "" {
		return ErrCurrencyRequired
	}
	if req.MinWeight != nil && req.MaxWeight != nil && req.MinWeight.GreaterThan(*req.MaxWeight) {
		return ErrWeightRangeInverted
	}
	return nil
}

// ValidateUpdate checks only the supplied fields of a partial update.
// Unlike create, a zero fee passes; only negative fees are rejected.
func ValidateUpdate(req UpdateRequest) error {
	if req.Name != nil && trimmed(*req.Name) == "" {
		return ErrNameRequired
	}
	if req.CustodianID != nil {
		if trimmed(*req.CustodianID) == "" {
			return ErrCustodianRequired
		}
		if !IsID(*req.CustodianID) {
			return ErrCustodianIDFormat
		}
	}
	if req.Fee != nil && req.Fee.IsNegative() {
		return ErrFeeNegative
	}
	if req.PaymentFrequency != nil {
		if _, err := ParsePaymentFrequency(*req.PaymentFrequency); err != nil {
			return err
		}
	}
	if req.Currency != nil && trimmed(*req.Currency) == "" {
		return ErrCurrencyRequired
	}
	if req.MinWeight != nil && req.MaxWeight != nil && req.MinWeight.GreaterThan(*req.MaxWeight) {
		return ErrWeightRangeInverted
	}
	return nil
}

func trimmed(s string) string {
	return strings.TrimSpace(s)
}
