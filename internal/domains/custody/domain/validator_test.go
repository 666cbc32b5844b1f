package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const custodianID = "0b91cf9d-6f0c-4f36-9774-3f9f04c470a4"

func dec(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func validCreate() CreateRequest {
	return CreateRequest{
		CustodianID:      custodianID,
		Name:             "Premium Vault Storage",
		Fee:              dec("0.5"),
		PaymentFrequency: "annual",
		Currency:         "CHF",
	}
}

func TestValidateCreate_Valid(t *testing.T) {
	require.NoError(t, ValidateCreate(validCreate()))
}

func TestValidateCreate_NamePresence(t *testing.T) {
	for _, name := range []string{"", "   ", "\t\n"} {
		req := validCreate()
		req.Name = name
		assert.ErrorIs(t, ValidateCreate(req), ErrNameRequired)
	}
}

func TestValidateCreate_CustodianID(t *testing.T) {
	req := validCreate()
	req.CustodianID = ""
	assert.ErrorIs(t, ValidateCreate(req), ErrCustodianRequired)

	req.CustodianID = "not-an-identifier"
	assert.ErrorIs(t, ValidateCreate(req), ErrCustodianIDFormat)
}

func TestValidateCreate_Fee(t *testing.T) {
	req := validCreate()
	req.Fee = nil
	assert.ErrorIs(t, ValidateCreate(req), ErrFeeRequired)

	for _, raw := range []string{"0", "-0.01", "-3"} {
		req := validCreate()
		req.Fee = dec(raw)
		assert.ErrorIs(t, ValidateCreate(req), ErrFeeNotPositive, "fee=%s", raw)
	}
}

func TestValidateCreate_Frequency(t *testing.T) {
	for _, freq := range []string{"", "weekly", "ANNUAL", "biannual"} {
		req := validCreate()
		req.PaymentFrequency = freq
		assert.ErrorIs(t, ValidateCreate(req), ErrUnknownFrequency, "frequency=%q", freq)
	}
	for _, freq := range []string{"monthly", "quarterly", "annual", "onetime"} {
		req := validCreate()
		req.PaymentFrequency = freq
		assert.NoError(t, ValidateCreate(req), "frequency=%q", freq)
	}
}

func TestValidateCreate_Currency(t *testing.T) {
	req := validCreate()
	req.Currency = "  "
	assert.ErrorIs(t, ValidateCreate(req), ErrCurrencyRequired)
}

func TestValidateCreate_WeightRange(t *testing.T) {
	req := validCreate()
	req.MinWeight = dec("100")
	req.MaxWeight = dec("50")
	assert.ErrorIs(t, ValidateCreate(req), ErrWeightRangeInverted)

	req.MinWeight = dec("50")
	req.MaxWeight = dec("100")
	assert.NoError(t, ValidateCreate(req))

	// Only one bound supplied is always acceptable at this stage.
	req.MaxWeight = nil
	assert.NoError(t, ValidateCreate(req))
}

func TestValidateCreate_FailsFastInRuleOrder(t *testing.T) {
	// Everything is wrong; the name rule must win.
	req := CreateRequest{}
	assert.ErrorIs(t, ValidateCreate(req), ErrNameRequired)

	req.Name = "Allocated Storage"
	assert.ErrorIs(t, ValidateCreate(req), ErrCustodianRequired)
}

func TestValidateUpdate_EmptyIsValid(t *testing.T) {
	require.NoError(t, ValidateUpdate(UpdateRequest{}))
	assert.True(t, UpdateRequest{}.Empty())
}

func TestValidateUpdate_FeeZeroAllowed(t *testing.T) {
	assert.NoError(t, ValidateUpdate(UpdateRequest{Fee: dec("0")}))
	assert.ErrorIs(t, ValidateUpdate(UpdateRequest{Fee: dec("-0.1")}), ErrFeeNegative)
}

func TestValidateUpdate_SuppliedFieldsChecked(t *testing.T) {
	blank := "   "
	assert.ErrorIs(t, ValidateUpdate(UpdateRequest{Name: &blank}), ErrNameRequired)

	badID := "xyz"
	assert.ErrorIs(t, ValidateUpdate(UpdateRequest{CustodianID: &badID}), ErrCustodianIDFormat)

	weekly := "weekly"
	assert.ErrorIs(t, ValidateUpdate(UpdateRequest{PaymentFrequency: &weekly}), ErrUnknownFrequency)

	empty := ""
	assert.ErrorIs(t, ValidateUpdate(UpdateRequest{Currency: &empty}), ErrCurrencyRequired)

	assert.ErrorIs(t, ValidateUpdate(UpdateRequest{MinWeight: dec("2"), MaxWeight: dec("1")}), ErrWeightRangeInverted)
}

func TestIsID(t *testing.T) {
	assert.True(t, IsID("0b91cf9d-6f0c-4f36-9774-3f9f04c470a4"))
	assert.True(t, IsID("0B91CF9D-6F0C-4F36-9774-3F9F04C470A4"))
	assert.True(t, IsID("11111111-2222-1333-8444-555555555555"))

	assert.False(t, IsID(""))
	assert.False(t, IsID("0b91cf9d6f0c4f3697743f9f04c470a4"))
	assert.False(t, IsID("0b91cf9d-6f0c-6f36-9774-3f9f04c470a4"), "version nibble out of range")
	assert.False(t, IsID("0b91cf9d-6f0c-4f36-c774-3f9f04c470a4"), "variant nibble out of range")
	assert.False(t, IsID("0b91cf9d-6f0c-4f36-9774-3f9f04c470a"))
	assert.False(t, IsID("g091cf9d-6f0c-4f36-9774-3f9f04c470a4"))
}

func TestNewCustodyService_TrimsName(t *testing.T) {
	req := validCreate()
	req.Name = "  Premium Vault Storage  "
	svc, err := NewCustodyService(req)
	require.NoError(t, err)
	assert.Equal(t, "Premium Vault Storage", svc.Name)
	assert.Equal(t, FrequencyAnnual, svc.PaymentFrequency)
	assert.True(t, svc.Fee.Equal(decimal.RequireFromString("0.5")))
}

func TestApply_PartialMutation(t *testing.T) {
	svc, err := NewCustodyService(validCreate())
	require.NoError(t, err)

	fee := decimal.RequireFromString("0.3")
	require.NoError(t, svc.Apply(UpdateRequest{Fee: &fee}))
	assert.True(t, svc.Fee.Equal(fee))
	assert.Equal(t, "Premium Vault Storage", svc.Name, "unsupplied fields stay put")
	assert.Equal(t, custodianID, svc.CustodianID)
}

func TestApply_WeightInvariantAgainstExistingBound(t *testing.T) {
	req := validCreate()
	req.MaxWeight = dec("10")
	svc, err := NewCustodyService(req)
	require.NoError(t, err)

	// Supplying only a min above the stored max must not slip through.
	err = svc.Apply(UpdateRequest{MinWeight: dec("20")})
	assert.ErrorIs(t, err, ErrWeightRangeInverted)
}

func TestApply_ClearWeightBounds(t *testing.T) {
	req := validCreate()
	req.MinWeight = dec("1")
	req.MaxWeight = dec("10")
	svc, err := NewCustodyService(req)
	require.NoError(t, err)

	require.NoError(t, svc.Apply(UpdateRequest{ClearMinWeight: true, ClearMaxWeight: true}))
	assert.Nil(t, svc.MinWeight)
	assert.Nil(t, svc.MaxWeight)
}

func TestClone_DetachesWeights(t *testing.T) {
	req := validCreate()
	req.MinWeight = dec("1")
	svc, err := NewCustodyService(req)
	require.NoError(t, err)

	clone := svc.Clone()
	*clone.MinWeight = decimal.RequireFromString("99")
	assert.True(t, svc.MinWeight.Equal(decimal.RequireFromString("1")))
}
