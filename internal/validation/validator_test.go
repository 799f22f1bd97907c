package validation

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type carInput struct {
	Brand       string          `json:"brand" validate:"notblank"`
	Model       string          `json:"model" validate:"notblank"`
	Year        int             `json:"year" validate:"gt=0"`
	PricePerDay decimal.Decimal `json:"pricePerDay" validate:"gt=0"`
}

func TestValidateAcceptsGoodInput(t *testing.T) {
	v := New()
	err := v.Validate(carInput{Brand: "BMW", Model: "M4", Year: 2024, PricePerDay: decimal.RequireFromString("0.01")})
	assert.NoError(t, err)
}

func TestValidateReportsJSONFieldNames(t *testing.T) {
	v := New()
	err := v.Validate(carInput{Brand: "   ", Model: "M4", Year: 0, PricePerDay: decimal.Zero})
	require.Error(t, err)

	var verr *Error
	require.ErrorAs(t, err, &verr)
	msg := err.Error()
	assert.Contains(t, msg, "brand is required")
	assert.Contains(t, msg, "year must be greater than 0")
	assert.Contains(t, msg, "pricePerDay must be greater than 0")
	assert.NotContains(t, msg, "model")
}

func TestValidateNegativePrice(t *testing.T) {
	v := New()
	err := v.Validate(carInput{Brand: "Audi", Model: "RS6", Year: 2023, PricePerDay: decimal.RequireFromString("-5")})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "pricePerDay")
}
